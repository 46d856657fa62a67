package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and drain the offline sync queue",
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending operations and remote sync state",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.QueueRepo == nil {
			return fmt.Errorf("no database connection")
		}

		size, err := app.QueueRepo.Size(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read queue: %w", err)
		}
		fmt.Printf("Pending operations: %d\n", size)

		if app.RemoteStore == nil {
			fmt.Println("Remote sync: not configured")
			return nil
		}
		if err := app.RemoteStore.Ping(cmd.Context()); err != nil {
			fmt.Printf("Remote sync: unreachable (%v)\n", err)
			return nil
		}
		lastSync, err := app.RemoteStore.LastSyncedAt(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to read sync state: %w", err)
		}
		if lastSync.IsZero() {
			fmt.Println("Remote sync: reachable, never synced")
			return nil
		}
		fmt.Printf("Remote sync: reachable, last synced %s\n", lastSync.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var queueDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Replay queued operations against the remote store",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.QueueDrainer == nil {
			return fmt.Errorf("no database connection")
		}

		drained, err := app.QueueDrainer.Drain(cmd.Context())
		if err != nil {
			return fmt.Errorf("drain failed: %w", err)
		}

		remaining, sizeErr := app.QueueRepo.Size(cmd.Context())
		if sizeErr != nil {
			return sizeErr
		}
		fmt.Printf("Drained %d operation(s), %d remaining.\n", drained, remaining)
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueStatusCmd)
	queueCmd.AddCommand(queueDrainCmd)
	rootCmd.AddCommand(queueCmd)
}
