package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrPlaceNotFound is returned when no place exists for a lookup.
var ErrPlaceNotFound = errors.New("saved place not found")

// PlaceRepository defines the interface for wishlist persistence.
type PlaceRepository interface {
	// Save persists a place (create or update).
	Save(ctx context.Context, place *SavedPlace) error

	// FindByID finds a place by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*SavedPlace, error)

	// FindByUser returns a user's places, optionally including archived ones.
	FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*SavedPlace, error)

	// Delete removes a place permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}
