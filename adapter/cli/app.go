package cli

import (
	dragdropApplication "github.com/felixgeelhaar/wayfarer/internal/dragdrop/application"
	dragdropServices "github.com/felixgeelhaar/wayfarer/internal/dragdrop/application/services"
	dragdropDomain "github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/infrastructure/remote"
	schedulingQueries "github.com/felixgeelhaar/wayfarer/internal/scheduling/application/queries"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	wishlistCommands "github.com/felixgeelhaar/wayfarer/internal/wishlist/application/commands"
	wishlistQueries "github.com/felixgeelhaar/wayfarer/internal/wishlist/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Drag engine
	Engine         *dragdropApplication.Engine
	RetryScheduler *dragdropServices.RetryScheduler
	QueueDrainer   *dragdropServices.QueueDrainer
	QueueRepo      dragdropDomain.QueueRepository

	// Remote sync (nil without Redis)
	RemoteStore *remote.RedisItineraryStore

	// Scheduling
	ScheduleRepo          schedulingDomain.ScheduleRepository
	Pipeline              *schedulingDomain.Pipeline
	GetDayScheduleHandler *schedulingQueries.GetDayScheduleHandler
	FindFreeGapsHandler   *schedulingQueries.FindFreeGapsHandler

	// Wishlist
	SavePlaceHandler    *wishlistCommands.SavePlaceHandler
	ArchivePlaceHandler *wishlistCommands.ArchivePlaceHandler
	ListPlacesHandler   *wishlistQueries.ListPlacesHandler
	GetPlaceHandler     *wishlistQueries.GetPlaceHandler

	// TravelEnabled toggles the travel-time validation rule.
	TravelEnabled bool

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
