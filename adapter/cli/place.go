package cli

import (
	"fmt"
	"strings"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	wishlistCommands "github.com/felixgeelhaar/wayfarer/internal/wishlist/application/commands"
	wishlistQueries "github.com/felixgeelhaar/wayfarer/internal/wishlist/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Manage the wishlist of places to visit",
}

var (
	placeCategory string
	placeLat      float64
	placeLng      float64
	placeVisit    int
	placePeriod   string
	placeOpen     string
	placeClose    string
	placeDays     string
	placeAll      bool
)

var placeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a place to the wishlist",
	Long: `Save a place to the wishlist so it can be dropped onto a day.

Examples:
  wayfarer place add "Louvre" --category museum --lat 48.8606 --lng 2.3376 --visit 120
  wayfarer place add "Le Comptoir" --category restaurant --period evening
  wayfarer place add "Musee d'Orsay" --open 09:30 --close 18:00 --days 2,3,4,5,6,0`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SavePlaceHandler == nil {
			return fmt.Errorf("no database connection")
		}

		saveCmd := wishlistCommands.SavePlaceCommand{
			UserID:       app.CurrentUserID,
			Name:         strings.Join(args, " "),
			Category:     placeCategory,
			VisitMinutes: placeVisit,
			Hours:        schedulingDomain.DefaultBusinessHours(),
		}

		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			coords, err := schedulingDomain.NewCoordinates(placeLat, placeLng)
			if err != nil {
				return err
			}
			saveCmd.Location = &coords
		}

		if placePeriod != "" {
			period, err := schedulingDomain.ParseDayPeriod(placePeriod)
			if err != nil {
				return err
			}
			saveCmd.PreferredPeriod = &period
		}

		if placeOpen != "" || placeClose != "" || placeDays != "" {
			hours, err := parseBusinessHours(placeOpen, placeClose, placeDays)
			if err != nil {
				return err
			}
			saveCmd.Hours = hours
		}

		result, err := app.SavePlaceHandler.Handle(cmd.Context(), saveCmd)
		if err != nil {
			return fmt.Errorf("failed to save place: %w", err)
		}

		fmt.Println("Place saved!")
		fmt.Printf("  Name: %s\n", saveCmd.Name)
		fmt.Printf("  ID: %s\n", result.PlaceID)
		return nil
	},
}

var placeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wishlist places",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListPlacesHandler == nil {
			return fmt.Errorf("no database connection")
		}

		places, err := app.ListPlacesHandler.Handle(cmd.Context(), wishlistQueries.ListPlacesQuery{
			UserID:          app.CurrentUserID,
			IncludeArchived: placeAll,
		})
		if err != nil {
			return fmt.Errorf("failed to list places: %w", err)
		}

		if len(places) == 0 {
			fmt.Println("Wishlist is empty. Add a place with: wayfarer place add <name>")
			return nil
		}

		for _, p := range places {
			marker := " "
			if p.Archived {
				marker = "x"
			}
			fmt.Printf("[%s] %-30s %-12s %3d min  %s-%s  %s\n",
				marker, p.Name, p.Category, p.VisitMinutes, p.Open, p.Close, p.ID)
		}
		return nil
	},
}

var placeArchiveCmd = &cobra.Command{
	Use:   "archive <place-id>",
	Short: "Archive a place so it no longer appears in the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ArchivePlaceHandler == nil {
			return fmt.Errorf("no database connection")
		}

		placeID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid place id: %w", err)
		}

		if err := app.ArchivePlaceHandler.Handle(cmd.Context(), wishlistCommands.ArchivePlaceCommand{
			UserID:  app.CurrentUserID,
			PlaceID: placeID,
		}); err != nil {
			return fmt.Errorf("failed to archive place: %w", err)
		}

		fmt.Println("Place archived.")
		return nil
	},
}

func parseBusinessHours(open, close, days string) (schedulingDomain.BusinessHours, error) {
	defaults := schedulingDomain.DefaultBusinessHours()

	openTime := defaults.Open()
	if open != "" {
		t, err := schedulingDomain.ParseTimeOfDay(open)
		if err != nil {
			return schedulingDomain.BusinessHours{}, err
		}
		openTime = t
	}

	closeTime := defaults.Close()
	if close != "" {
		t, err := schedulingDomain.ParseTimeOfDay(close)
		if err != nil {
			return schedulingDomain.BusinessHours{}, err
		}
		closeTime = t
	}

	openDays := defaults.Days()
	if days != "" {
		d, err := schedulingDomain.DecodeDays(days)
		if err != nil {
			return schedulingDomain.BusinessHours{}, err
		}
		openDays = d
	}

	return schedulingDomain.NewBusinessHours(openDays, openTime, closeTime)
}

func init() {
	placeAddCmd.Flags().StringVar(&placeCategory, "category", "sight", "place category (sight, museum, restaurant, nature, shopping, other)")
	placeAddCmd.Flags().Float64Var(&placeLat, "lat", 0, "latitude")
	placeAddCmd.Flags().Float64Var(&placeLng, "lng", 0, "longitude")
	placeAddCmd.Flags().IntVar(&placeVisit, "visit", 60, "typical visit duration in minutes")
	placeAddCmd.Flags().StringVar(&placePeriod, "period", "", "preferred time of day (morning, afternoon, evening)")
	placeAddCmd.Flags().StringVar(&placeOpen, "open", "", "opening time, e.g. 09:30")
	placeAddCmd.Flags().StringVar(&placeClose, "close", "", "closing time, e.g. 18:00")
	placeAddCmd.Flags().StringVar(&placeDays, "days", "", "open weekdays as numbers, e.g. 1,2,3,4,5 (0 = Sunday)")
	placeListCmd.Flags().BoolVar(&placeAll, "all", false, "include archived places")

	placeCmd.AddCommand(placeAddCmd)
	placeCmd.AddCommand(placeListCmd)
	placeCmd.AddCommand(placeArchiveCmd)
	rootCmd.AddCommand(placeCmd)
}
