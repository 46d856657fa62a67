package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/wishlist/domain"
	"github.com/google/uuid"
)

// PlaceDTO is a data transfer object for wishlist places.
type PlaceDTO struct {
	ID              uuid.UUID
	Name            string
	Category        string
	Latitude        *float64
	Longitude       *float64
	VisitMinutes    int
	PreferredPeriod string
	OpenDays        []time.Weekday
	Open            string
	Close           string
	Archived        bool
}

// ListPlacesQuery contains the parameters for listing wishlist places.
type ListPlacesQuery struct {
	UserID          uuid.UUID
	IncludeArchived bool
}

// ListPlacesHandler handles the ListPlacesQuery.
type ListPlacesHandler struct {
	placeRepo domain.PlaceRepository
}

// NewListPlacesHandler creates a new ListPlacesHandler.
func NewListPlacesHandler(placeRepo domain.PlaceRepository) *ListPlacesHandler {
	return &ListPlacesHandler{placeRepo: placeRepo}
}

// Handle executes the ListPlacesQuery.
func (h *ListPlacesHandler) Handle(ctx context.Context, query ListPlacesQuery) ([]PlaceDTO, error) {
	places, err := h.placeRepo.FindByUser(ctx, query.UserID, query.IncludeArchived)
	if err != nil {
		return nil, err
	}

	dtos := make([]PlaceDTO, len(places))
	for i, place := range places {
		dto := PlaceDTO{
			ID:           place.ID(),
			Name:         place.Name(),
			Category:     string(place.Category()),
			VisitMinutes: place.VisitMinutes(),
			OpenDays:     place.Hours().Days(),
			Open:         place.Hours().Open().String(),
			Close:        place.Hours().Close().String(),
			Archived:     place.IsArchived(),
		}
		if loc := place.Location(); loc != nil {
			dto.Latitude = &loc.Latitude
			dto.Longitude = &loc.Longitude
		}
		if period := place.PreferredPeriod(); period != nil {
			dto.PreferredPeriod = string(*period)
		}
		dtos[i] = dto
	}

	return dtos, nil
}

// GetPlaceQuery contains the parameters for fetching a single place.
type GetPlaceQuery struct {
	PlaceID uuid.UUID
}

// GetPlaceHandler handles the GetPlaceQuery.
type GetPlaceHandler struct {
	placeRepo domain.PlaceRepository
}

// NewGetPlaceHandler creates a new GetPlaceHandler.
func NewGetPlaceHandler(placeRepo domain.PlaceRepository) *GetPlaceHandler {
	return &GetPlaceHandler{placeRepo: placeRepo}
}

// Handle executes the GetPlaceQuery.
func (h *GetPlaceHandler) Handle(ctx context.Context, query GetPlaceQuery) (*domain.SavedPlace, error) {
	place, err := h.placeRepo.FindByID(ctx, query.PlaceID)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, domain.ErrPlaceNotFound
	}
	return place, nil
}
