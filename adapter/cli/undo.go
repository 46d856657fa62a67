package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/application"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last placement change",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			return fmt.Errorf("no database connection")
		}

		if err := app.Engine.Undo(cmd.Context()); err != nil {
			if errors.Is(err, application.ErrNothingToUndo) {
				fmt.Println("Nothing to undo.")
				return nil
			}
			return err
		}

		fmt.Println("Undone.")
		return nil
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Redo the last undone change",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			return fmt.Errorf("no database connection")
		}

		if err := app.Engine.Redo(cmd.Context()); err != nil {
			if errors.Is(err, application.ErrNothingToRedo) {
				fmt.Println("Nothing to redo.")
				return nil
			}
			return err
		}

		fmt.Println("Redone.")
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent placement changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			return fmt.Errorf("no database connection")
		}

		entries := app.Engine.History()
		if len(entries) == 0 {
			fmt.Println("No changes yet.")
			return nil
		}
		for i, op := range entries {
			target := "-"
			if op.Target != nil {
				target = fmt.Sprintf("%s %s", op.Target.Date.Format(dateLayout), op.Target.Start)
			}
			fmt.Printf("  %d. %-8s %-30s %s\n", i+1, op.Kind, op.Item.Title, target)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
	rootCmd.AddCommand(historyCmd)
}
