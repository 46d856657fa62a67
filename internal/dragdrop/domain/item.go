package domain

import (
	"errors"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ItemKind identifies what kind of thing is being dragged.
type ItemKind string

const (
	// ItemKindWishlist is a place picked up from the wishlist sidebar.
	ItemKindWishlist ItemKind = "wishlist-item"
	// ItemKindActivity is an already scheduled activity being relocated.
	ItemKindActivity ItemKind = "scheduled-activity"
)

// SourceKind identifies where a drag gesture started.
type SourceKind string

const (
	SourceWishlist SourceKind = "wishlist"
	SourceCalendar SourceKind = "calendar"
)

var ErrInvalidDragItem = errors.New("drag item is missing required fields")

// DragItem is an immutable snapshot of the thing being relocated, captured
// when the gesture begins and discarded when it ends.
type DragItem struct {
	ID              uuid.UUID                     `json:"id"`
	Kind            ItemKind                      `json:"kind"`
	Source          SourceKind                    `json:"source"`
	Title           string                        `json:"title"`
	PlaceID         uuid.UUID                     `json:"place_id"`
	ActivityID      uuid.UUID                     `json:"activity_id,omitempty"`
	DurationMinutes int                           `json:"duration_minutes"`
	Location        *schedulingDomain.Coordinates `json:"location,omitempty"`
	PreferredPeriod *schedulingDomain.DayPeriod   `json:"preferred_period,omitempty"`
}

// Validate checks that the item carries what its kind requires.
func (i DragItem) Validate() error {
	if i.ID == uuid.Nil || i.Title == "" || i.DurationMinutes <= 0 {
		return ErrInvalidDragItem
	}
	switch i.Kind {
	case ItemKindWishlist:
		if i.PlaceID == uuid.Nil {
			return ErrInvalidDragItem
		}
	case ItemKindActivity:
		if i.ActivityID == uuid.Nil {
			return ErrInvalidDragItem
		}
	default:
		return ErrInvalidDragItem
	}
	return nil
}
