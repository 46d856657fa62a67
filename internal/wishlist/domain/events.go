package domain

import (
	sharedDomain "github.com/felixgeelhaar/wayfarer/internal/shared/domain"
	"github.com/google/uuid"
)

// AggregateTypeSavedPlace identifies wishlist aggregates in the outbox.
const AggregateTypeSavedPlace = "SavedPlace"

// Routing keys for wishlist events.
const (
	RoutingKeyPlaceSaved    = "wishlist.place.saved"
	RoutingKeyPlaceArchived = "wishlist.place.archived"
)

// PlaceSavedEvent is emitted when a place is added to the wishlist.
type PlaceSavedEvent struct {
	sharedDomain.BaseEvent
	PlaceID      uuid.UUID `json:"place_id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	VisitMinutes int       `json:"visit_minutes"`
}

// NewPlaceSavedEvent creates a PlaceSavedEvent.
func NewPlaceSavedEvent(place *SavedPlace) *PlaceSavedEvent {
	return &PlaceSavedEvent{
		BaseEvent:    sharedDomain.NewBaseEvent(place.ID(), AggregateTypeSavedPlace, RoutingKeyPlaceSaved),
		PlaceID:      place.ID(),
		UserID:       place.UserID(),
		Name:         place.Name(),
		Category:     string(place.Category()),
		VisitMinutes: place.VisitMinutes(),
	}
}

// PlaceArchivedEvent is emitted when a place leaves the active wishlist.
type PlaceArchivedEvent struct {
	sharedDomain.BaseEvent
	PlaceID uuid.UUID `json:"place_id"`
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
}

// NewPlaceArchivedEvent creates a PlaceArchivedEvent.
func NewPlaceArchivedEvent(place *SavedPlace) *PlaceArchivedEvent {
	return &PlaceArchivedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(place.ID(), AggregateTypeSavedPlace, RoutingKeyPlaceArchived),
		PlaceID:   place.ID(),
		UserID:    place.UserID(),
		Name:      place.Name(),
	}
}
