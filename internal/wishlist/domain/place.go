package domain

import (
	"errors"
	"time"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/wayfarer/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyPlaceName      = errors.New("place name cannot be empty")
	ErrInvalidVisitMinutes = errors.New("visit duration must be positive")
	ErrPlaceArchived       = errors.New("place is archived")
)

// PlaceCategory is a coarse classification of a saved place.
type PlaceCategory string

const (
	CategorySight      PlaceCategory = "sight"
	CategoryMuseum     PlaceCategory = "museum"
	CategoryRestaurant PlaceCategory = "restaurant"
	CategoryNature     PlaceCategory = "nature"
	CategoryShopping   PlaceCategory = "shopping"
	CategoryOther      PlaceCategory = "other"
)

// IsValid returns true for a known category.
func (c PlaceCategory) IsValid() bool {
	switch c {
	case CategorySight, CategoryMuseum, CategoryRestaurant, CategoryNature, CategoryShopping, CategoryOther:
		return true
	default:
		return false
	}
}

// SavedPlace is a wishlist entry: a place the user wants to visit, with
// everything the scheduler needs to place it on a day.
type SavedPlace struct {
	sharedDomain.BaseAggregateRoot
	userID          uuid.UUID
	name            string
	category        PlaceCategory
	location        *schedulingDomain.Coordinates
	visitMinutes    int
	preferredPeriod *schedulingDomain.DayPeriod
	hours           schedulingDomain.BusinessHours
	archived        bool
}

// NewSavedPlace creates a wishlist entry.
func NewSavedPlace(
	userID uuid.UUID,
	name string,
	category PlaceCategory,
	location *schedulingDomain.Coordinates,
	visitMinutes int,
	preferredPeriod *schedulingDomain.DayPeriod,
	hours schedulingDomain.BusinessHours,
) (*SavedPlace, error) {
	if name == "" {
		return nil, ErrEmptyPlaceName
	}
	if !category.IsValid() {
		category = CategoryOther
	}
	if visitMinutes <= 0 {
		return nil, ErrInvalidVisitMinutes
	}

	place := &SavedPlace{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		name:              name,
		category:          category,
		location:          location,
		visitMinutes:      visitMinutes,
		preferredPeriod:   preferredPeriod,
		hours:             hours,
	}

	place.AddDomainEvent(NewPlaceSavedEvent(place))

	return place, nil
}

// Getters
func (p *SavedPlace) UserID() uuid.UUID                            { return p.userID }
func (p *SavedPlace) Name() string                                 { return p.name }
func (p *SavedPlace) Category() PlaceCategory                      { return p.category }
func (p *SavedPlace) Location() *schedulingDomain.Coordinates      { return p.location }
func (p *SavedPlace) VisitMinutes() int                            { return p.visitMinutes }
func (p *SavedPlace) PreferredPeriod() *schedulingDomain.DayPeriod { return p.preferredPeriod }
func (p *SavedPlace) Hours() schedulingDomain.BusinessHours        { return p.hours }
func (p *SavedPlace) IsArchived() bool                             { return p.archived }

// Rename changes the place name.
func (p *SavedPlace) Rename(name string) error {
	if name == "" {
		return ErrEmptyPlaceName
	}
	p.name = name
	p.Touch()
	return nil
}

// SetVisitMinutes updates the expected visit duration.
func (p *SavedPlace) SetVisitMinutes(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidVisitMinutes
	}
	p.visitMinutes = minutes
	p.Touch()
	return nil
}

// SetPreferredPeriod updates the time-of-day preference; nil clears it.
func (p *SavedPlace) SetPreferredPeriod(period *schedulingDomain.DayPeriod) {
	p.preferredPeriod = period
	p.Touch()
}

// Archive removes the place from the active wishlist without deleting it.
func (p *SavedPlace) Archive() error {
	if p.archived {
		return ErrPlaceArchived
	}
	p.archived = true
	p.Touch()
	p.AddDomainEvent(NewPlaceArchivedEvent(p))
	return nil
}

// RehydrateSavedPlace recreates a place from persisted state.
func RehydrateSavedPlace(
	id uuid.UUID,
	userID uuid.UUID,
	name string,
	category PlaceCategory,
	location *schedulingDomain.Coordinates,
	visitMinutes int,
	preferredPeriod *schedulingDomain.DayPeriod,
	hours schedulingDomain.BusinessHours,
	archived bool,
	createdAt, updatedAt time.Time,
) *SavedPlace {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &SavedPlace{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity, 0),
		userID:            userID,
		name:              name,
		category:          category,
		location:          location,
		visitMinutes:      visitMinutes,
		preferredPeriod:   preferredPeriod,
		hours:             hours,
		archived:          archived,
	}
}
