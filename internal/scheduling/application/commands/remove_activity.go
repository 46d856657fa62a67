package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/wayfarer/internal/shared/application"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RemoveActivityCommand contains the data needed to take an activity off a day.
type RemoveActivityCommand struct {
	UserID     uuid.UUID
	Date       time.Time
	ActivityID uuid.UUID
}

// RemoveActivityResult describes the removed activity so callers can restore it.
type RemoveActivityResult struct {
	ScheduleID uuid.UUID
	PlaceID    uuid.UUID
	Title      string
	StartTime  time.Time
	EndTime    time.Time
	Location   *domain.Coordinates
}

// RemoveActivityHandler handles the RemoveActivityCommand.
type RemoveActivityHandler struct {
	scheduleRepo domain.ScheduleRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewRemoveActivityHandler creates a new RemoveActivityHandler.
func NewRemoveActivityHandler(scheduleRepo domain.ScheduleRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RemoveActivityHandler {
	return &RemoveActivityHandler{
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the RemoveActivityCommand.
func (h *RemoveActivityHandler) Handle(ctx context.Context, cmd RemoveActivityCommand) (*RemoveActivityResult, error) {
	var result *RemoveActivityResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		schedule, err := h.scheduleRepo.FindByUserAndDate(txCtx, cmd.UserID, cmd.Date)
		if err != nil {
			return err
		}
		if schedule == nil {
			return domain.ErrScheduleNotFound
		}

		activity, err := schedule.FindActivity(cmd.ActivityID)
		if err != nil {
			return err
		}

		// Capture the details before removal for undo support.
		result = &RemoveActivityResult{
			ScheduleID: schedule.ID(),
			PlaceID:    activity.PlaceID(),
			Title:      activity.Title(),
			StartTime:  activity.StartTime(),
			EndTime:    activity.EndTime(),
			Location:   activity.Location(),
		}

		if err := schedule.RemoveActivity(cmd.ActivityID); err != nil {
			return err
		}

		if err := h.scheduleRepo.Save(txCtx, schedule); err != nil {
			return err
		}

		return saveEventsToOutbox(txCtx, h.outboxRepo, schedule, cmd.UserID)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
