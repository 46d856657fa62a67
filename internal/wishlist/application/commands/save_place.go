package commands

import (
	"context"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/wayfarer/internal/shared/application"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/wayfarer/internal/wishlist/domain"
	"github.com/google/uuid"
)

// SavePlaceCommand contains the data needed to add a place to the wishlist.
type SavePlaceCommand struct {
	UserID          uuid.UUID
	Name            string
	Category        string
	Location        *schedulingDomain.Coordinates
	VisitMinutes    int
	PreferredPeriod *schedulingDomain.DayPeriod
	Hours           schedulingDomain.BusinessHours
}

// SavePlaceResult contains the result of saving a place.
type SavePlaceResult struct {
	PlaceID uuid.UUID
}

// SavePlaceHandler handles the SavePlaceCommand.
type SavePlaceHandler struct {
	placeRepo  domain.PlaceRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewSavePlaceHandler creates a new SavePlaceHandler.
func NewSavePlaceHandler(placeRepo domain.PlaceRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SavePlaceHandler {
	return &SavePlaceHandler{
		placeRepo:  placeRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the SavePlaceCommand.
func (h *SavePlaceHandler) Handle(ctx context.Context, cmd SavePlaceCommand) (*SavePlaceResult, error) {
	var result *SavePlaceResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		place, err := domain.NewSavedPlace(
			cmd.UserID,
			cmd.Name,
			domain.PlaceCategory(cmd.Category),
			cmd.Location,
			cmd.VisitMinutes,
			cmd.PreferredPeriod,
			cmd.Hours,
		)
		if err != nil {
			return err
		}

		if err := h.placeRepo.Save(txCtx, place); err != nil {
			return err
		}

		if err := savePlaceEvents(txCtx, h.outboxRepo, place, cmd.UserID); err != nil {
			return err
		}

		result = &SavePlaceResult{PlaceID: place.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func savePlaceEvents(ctx context.Context, outboxRepo outbox.Repository, place *domain.SavedPlace, userID uuid.UUID) error {
	events := place.DomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}
