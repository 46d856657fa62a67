package cli

import (
	"fmt"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change drag gesture preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			return fmt.Errorf("no database connection")
		}

		patch := domain.PreferencesPatch{}
		if cmd.Flags().Changed("snap") {
			v, _ := cmd.Flags().GetBool("snap")
			patch.SnapToGrid = &v
		}
		if cmd.Flags().Changed("preview") {
			v, _ := cmd.Flags().GetBool("preview")
			patch.ShowPreview = &v
		}
		if cmd.Flags().Changed("auto-scroll") {
			v, _ := cmd.Flags().GetBool("auto-scroll")
			patch.AutoScroll = &v
		}
		if cmd.Flags().Changed("threshold") {
			v, _ := cmd.Flags().GetInt("threshold")
			patch.DragThreshold = &v
		}
		if cmd.Flags().Changed("long-press") {
			v, _ := cmd.Flags().GetInt("long-press")
			patch.LongPressDelayMs = &v
		}

		prefs := app.Engine.UpdatePreferences(patch)
		fmt.Printf("snap-to-grid:     %v\n", prefs.SnapToGrid)
		fmt.Printf("show-preview:     %v\n", prefs.ShowPreview)
		fmt.Printf("auto-scroll:      %v\n", prefs.AutoScroll)
		fmt.Printf("drag-threshold:   %dpx\n", prefs.DragThreshold)
		fmt.Printf("long-press-delay: %dms\n", prefs.LongPressDelayMs)
		return nil
	},
}

func init() {
	prefsCmd.Flags().Bool("snap", true, "snap target slots to the half-hour grid")
	prefsCmd.Flags().Bool("preview", true, "show a floating preview while dragging")
	prefsCmd.Flags().Bool("auto-scroll", true, "scroll the viewport near its edges")
	prefsCmd.Flags().Int("threshold", 5, "drag start threshold in pixels")
	prefsCmd.Flags().Int("long-press", 300, "touch long-press delay in milliseconds")
	rootCmd.AddCommand(prefsCmd)
}
