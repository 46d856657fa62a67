package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/wayfarer/internal/shared/application"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/wayfarer/internal/wishlist/domain"
	"github.com/google/uuid"
)

// ArchivePlaceCommand contains the data needed to archive a wishlist place.
type ArchivePlaceCommand struct {
	UserID  uuid.UUID
	PlaceID uuid.UUID
}

// ArchivePlaceHandler handles the ArchivePlaceCommand.
type ArchivePlaceHandler struct {
	placeRepo  domain.PlaceRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewArchivePlaceHandler creates a new ArchivePlaceHandler.
func NewArchivePlaceHandler(placeRepo domain.PlaceRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ArchivePlaceHandler {
	return &ArchivePlaceHandler{
		placeRepo:  placeRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the ArchivePlaceCommand.
func (h *ArchivePlaceHandler) Handle(ctx context.Context, cmd ArchivePlaceCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		place, err := h.placeRepo.FindByID(txCtx, cmd.PlaceID)
		if err != nil {
			return err
		}
		if place == nil {
			return domain.ErrPlaceNotFound
		}

		if err := place.Archive(); err != nil {
			return err
		}

		if err := h.placeRepo.Save(txCtx, place); err != nil {
			return err
		}

		return savePlaceEvents(txCtx, h.outboxRepo, place, cmd.UserID)
	})
}
