package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	dragdropDomain "github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	schedulingQueries "github.com/felixgeelhaar/wayfarer/internal/scheduling/application/queries"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	wishlistQueries "github.com/felixgeelhaar/wayfarer/internal/wishlist/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan activities on the itinerary calendar",
}

var (
	planDate    string
	planTime    string
	planMinutes int
)

var planAddCmd = &cobra.Command{
	Use:   "add <place-id>",
	Short: "Drop a wishlist place onto a day",
	Long: `Drop a wishlist place onto a day at the given time.

The placement runs through the full validation pipeline: overlaps,
opening hours, travel time, and buffer conflicts. When the slot is
rejected, alternative slots for the same day are suggested.

Example:
  wayfarer plan add 4be4..., --date 2026-06-10 --time 14:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			return fmt.Errorf("no database connection")
		}

		placeID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid place id: %w", err)
		}

		date, start, err := parsePlanSlot()
		if err != nil {
			return err
		}

		place, err := app.GetPlaceHandler.Handle(cmd.Context(), wishlistQueries.GetPlaceQuery{PlaceID: placeID})
		if err != nil {
			return fmt.Errorf("failed to load place: %w", err)
		}

		item := dragdropDomain.DragItem{
			ID:              uuid.New(),
			Kind:            dragdropDomain.ItemKindWishlist,
			Source:          dragdropDomain.SourceWishlist,
			Title:           place.Name(),
			PlaceID:         place.ID(),
			DurationMinutes: place.VisitMinutes(),
			Location:        place.Location(),
			PreferredPeriod: place.PreferredPeriod(),
		}

		return runDrag(cmd.Context(), app, item, date, start, place.Hours())
	},
}

var planMoveCmd = &cobra.Command{
	Use:   "move <activity-id>",
	Short: "Move a scheduled activity to a new time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			return fmt.Errorf("no database connection")
		}

		activityID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid activity id: %w", err)
		}

		date, start, err := parsePlanSlot()
		if err != nil {
			return err
		}

		activity, err := findActivity(cmd.Context(), app, activityID, date)
		if err != nil {
			return err
		}

		item := dragdropDomain.DragItem{
			ID:              uuid.New(),
			Kind:            dragdropDomain.ItemKindActivity,
			Source:          dragdropDomain.SourceCalendar,
			Title:           activity.Title(),
			PlaceID:         activity.PlaceID(),
			ActivityID:      activity.ID(),
			DurationMinutes: int(activity.EndTime().Sub(activity.StartTime()).Minutes()),
			Location:        activity.Location(),
		}

		return runDrag(cmd.Context(), app, item, date, start, schedulingDomain.DefaultBusinessHours())
	},
}

var planRemoveCmd = &cobra.Command{
	Use:   "remove <activity-id>",
	Short: "Take an activity off its day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			return fmt.Errorf("no database connection")
		}

		activityID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid activity id: %w", err)
		}

		date, err := parsePlanDate()
		if err != nil {
			return err
		}

		activity, err := findActivity(cmd.Context(), app, activityID, date)
		if err != nil {
			return err
		}

		item := dragdropDomain.DragItem{
			ID:              uuid.New(),
			Kind:            dragdropDomain.ItemKindActivity,
			Source:          dragdropDomain.SourceCalendar,
			Title:           activity.Title(),
			PlaceID:         activity.PlaceID(),
			ActivityID:      activity.ID(),
			DurationMinutes: int(activity.EndTime().Sub(activity.StartTime()).Minutes()),
			Location:        activity.Location(),
		}
		slot := dragdropDomain.TargetSlot{
			ZoneID: zoneID(date),
			Date:   date,
			Start:  schedulingDomain.TimeOfDayOf(activity.StartTime()),
		}

		if _, err := app.Engine.RemoveActivity(cmd.Context(), item, slot); err != nil {
			return reportFailure(cmd.Context(), app, err)
		}

		fmt.Printf("Removed %q. Undo with: wayfarer undo\n", item.Title)
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the schedule for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetDayScheduleHandler == nil {
			return fmt.Errorf("no database connection")
		}

		date, err := parsePlanDate()
		if err != nil {
			return err
		}

		day, err := app.GetDayScheduleHandler.Handle(cmd.Context(), schedulingQueries.GetDayScheduleQuery{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		fmt.Printf("Schedule for %s\n", day.Date.Format("Mon, Jan 2 2006"))
		if len(day.Activities) == 0 {
			fmt.Println("  (nothing planned)")
			return nil
		}
		for _, a := range day.Activities {
			fmt.Printf("  %s - %s  %-30s %s\n",
				a.StartTime.Format("15:04"), a.EndTime.Format("15:04"), a.Title, a.ID)
		}
		fmt.Printf("Total planned: %dh%02dm\n", day.TotalScheduledMins/60, day.TotalScheduledMins%60)
		return nil
	},
}

var planGapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "List free windows in a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.FindFreeGapsHandler == nil {
			return fmt.Errorf("no database connection")
		}

		date, err := parsePlanDate()
		if err != nil {
			return err
		}

		hours := schedulingDomain.DefaultBusinessHours()
		gaps, err := app.FindFreeGapsHandler.Handle(cmd.Context(), schedulingQueries.FindFreeGapsQuery{
			UserID:      app.CurrentUserID,
			Date:        date,
			DayStart:    hours.Open().At(date),
			DayEnd:      hours.Close().At(date),
			MinDuration: time.Duration(planMinutes) * time.Minute,
		})
		if err != nil {
			return fmt.Errorf("failed to find gaps: %w", err)
		}

		if len(gaps) == 0 {
			fmt.Println("No free windows on this day.")
			return nil
		}
		for _, g := range gaps {
			fmt.Printf("  %s - %s  (%d min)\n",
				g.Start.Format("15:04"), g.End.Format("15:04"), g.DurationMin)
		}
		return nil
	},
}

var planSuggestCmd = &cobra.Command{
	Use:   "suggest <place-id>",
	Short: "Suggest slots for a place on a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Pipeline == nil {
			return fmt.Errorf("no database connection")
		}

		placeID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid place id: %w", err)
		}

		date, start, err := parsePlanSlot()
		if err != nil {
			return err
		}

		place, err := app.GetPlaceHandler.Handle(cmd.Context(), wishlistQueries.GetPlaceQuery{PlaceID: placeID})
		if err != nil {
			return fmt.Errorf("failed to load place: %w", err)
		}

		vc, err := validationContext(cmd.Context(), app, date, place.Hours())
		if err != nil {
			return err
		}

		result := app.Pipeline.Validate(schedulingDomain.Candidate{
			Date:            date,
			Start:           start,
			DurationMinutes: place.VisitMinutes(),
			Location:        place.Location(),
			PreferredPeriod: place.PreferredPeriod(),
		}, vc)

		if result.Valid {
			fmt.Printf("%s fits at %s.\n", place.Name(), start)
			return nil
		}

		fmt.Printf("%s does not fit at %s: %s\n", place.Name(), start, result.Reason)
		printAlternatives(result.Alternatives)
		return nil
	},
}

// runDrag executes the full gesture for one placement: start, validate
// the target, commit.
func runDrag(
	ctx context.Context,
	app *App,
	item dragdropDomain.DragItem,
	date time.Time,
	start schedulingDomain.TimeOfDay,
	hours schedulingDomain.BusinessHours,
) error {
	if err := app.Engine.StartDrag(item); err != nil {
		return err
	}

	vc, err := validationContext(ctx, app, date, hours)
	if err != nil {
		_ = app.Engine.CancelDrag()
		return err
	}

	slot := dragdropDomain.TargetSlot{ZoneID: zoneID(date), Date: date, Start: start}
	result, err := app.Engine.UpdateDrag(slot, vc)
	if err != nil {
		_ = app.Engine.CancelDrag()
		return err
	}

	if !result.Valid {
		_ = app.Engine.CancelDrag()
		fmt.Printf("Cannot place %q at %s: %s\n", item.Title, start, result.Reason)
		for _, c := range result.Conflicts {
			fmt.Printf("  conflicts with %s (%s - %s)\n",
				c.Name, c.Start.Format("15:04"), c.End.Format("15:04"))
		}
		printAlternatives(result.Alternatives)
		return nil
	}

	op, err := app.Engine.EndDrag(ctx)
	if err != nil {
		return reportFailure(ctx, app, err)
	}

	fmt.Printf("Planned %q at %s - %s. Undo with: wayfarer undo\n",
		item.Title,
		op.Target.StartTime().Format("15:04"),
		op.Target.EndTime(item.DurationMinutes).Format("15:04"))
	return nil
}

// reportFailure retries recoverable commit failures before giving up.
func reportFailure(ctx context.Context, app *App, err error) error {
	dragErr := app.Engine.LastError()
	if dragErr == nil || !dragErr.Recoverable {
		return err
	}

	fmt.Printf("Operation failed (%s), retrying...\n", dragErr.Kind)
	if retryErr := app.RetryScheduler.Retry(ctx, dragErr); retryErr != nil {
		return fmt.Errorf("%s", dragErr.Message)
	}
	fmt.Println("Succeeded after retry.")
	return nil
}

func validationContext(ctx context.Context, app *App, date time.Time, hours schedulingDomain.BusinessHours) (schedulingDomain.ValidationContext, error) {
	schedule, err := app.ScheduleRepo.FindByUserAndDate(ctx, app.CurrentUserID, date)
	if err != nil {
		return schedulingDomain.ValidationContext{}, fmt.Errorf("failed to load schedule: %w", err)
	}
	return schedulingDomain.ValidationContext{
		Schedule:      schedule,
		BusinessHours: hours,
		TravelEnabled: app.TravelEnabled,
	}, nil
}

func findActivity(ctx context.Context, app *App, activityID uuid.UUID, date time.Time) (*schedulingDomain.ScheduledActivity, error) {
	schedule, err := app.ScheduleRepo.FindByUserAndDate(ctx, app.CurrentUserID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, schedulingDomain.ErrScheduleNotFound
	}
	activity, err := schedule.FindActivity(activityID)
	if err != nil {
		if errors.Is(err, schedulingDomain.ErrActivityNotFound) {
			return nil, fmt.Errorf("no activity %s on %s", activityID, date.Format(dateLayout))
		}
		return nil, err
	}
	return activity, nil
}

func printAlternatives(alternatives []schedulingDomain.AlternativeSlot) {
	if len(alternatives) == 0 {
		return
	}
	fmt.Println("Try instead:")
	for _, alt := range alternatives {
		fmt.Printf("  %s  (score %d)\n", alt.Start, alt.Score)
	}
}

func parsePlanDate() (time.Time, error) {
	if planDate == "" {
		return schedulingDomain.NormalizeDate(time.Now().UTC()), nil
	}
	date, err := time.ParseInLocation(dateLayout, planDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", planDate)
	}
	return date, nil
}

func parsePlanSlot() (time.Time, schedulingDomain.TimeOfDay, error) {
	date, err := parsePlanDate()
	if err != nil {
		return time.Time{}, schedulingDomain.TimeOfDay{}, err
	}
	if planTime == "" {
		return time.Time{}, schedulingDomain.TimeOfDay{}, fmt.Errorf("--time is required")
	}
	start, err := schedulingDomain.ParseTimeOfDay(planTime)
	if err != nil {
		return time.Time{}, schedulingDomain.TimeOfDay{}, err
	}
	return date, start, nil
}

func zoneID(date time.Time) string {
	return "day-" + date.Format(dateLayout)
}

func init() {
	for _, cmd := range []*cobra.Command{planAddCmd, planMoveCmd, planRemoveCmd, planShowCmd, planGapsCmd, planSuggestCmd} {
		cmd.Flags().StringVar(&planDate, "date", "", "day to plan (YYYY-MM-DD, default today)")
	}
	planAddCmd.Flags().StringVar(&planTime, "time", "", "start time, e.g. 14:00")
	planMoveCmd.Flags().StringVar(&planTime, "time", "", "new start time, e.g. 14:00")
	planSuggestCmd.Flags().StringVar(&planTime, "time", "", "desired start time, e.g. 14:00")
	planGapsCmd.Flags().IntVar(&planMinutes, "min", 30, "minimum gap length in minutes")

	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planMoveCmd)
	planCmd.AddCommand(planRemoveCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planGapsCmd)
	planCmd.AddCommand(planSuggestCmd)
	rootCmd.AddCommand(planCmd)
}
