package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/wayfarer/internal/shared/application"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// MoveActivityCommand contains the data needed to reschedule an activity.
type MoveActivityCommand struct {
	UserID     uuid.UUID
	Date       time.Time
	ActivityID uuid.UUID
	NewStart   time.Time
	NewEnd     time.Time
}

// MoveActivityResult contains the result of moving an activity.
type MoveActivityResult struct {
	ScheduleID uuid.UUID
	OldStart   time.Time
	OldEnd     time.Time
}

// MoveActivityHandler handles the MoveActivityCommand.
type MoveActivityHandler struct {
	scheduleRepo domain.ScheduleRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewMoveActivityHandler creates a new MoveActivityHandler.
func NewMoveActivityHandler(scheduleRepo domain.ScheduleRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *MoveActivityHandler {
	return &MoveActivityHandler{
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the MoveActivityCommand.
func (h *MoveActivityHandler) Handle(ctx context.Context, cmd MoveActivityCommand) (*MoveActivityResult, error) {
	var result *MoveActivityResult

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
		oldStart := activity.StartTime()
		oldEnd := activity.EndTime()

		if err := schedule.MoveActivity(cmd.ActivityID, cmd.NewStart, cmd.NewEnd); err != nil {
			return err
		}

		if err := h.scheduleRepo.Save(txCtx, schedule); err != nil {
			return err
		}

		if err := saveEventsToOutbox(txCtx, h.outboxRepo, schedule, cmd.UserID); err != nil {
			return err
		}

		result = &MoveActivityResult{
			ScheduleID: schedule.ID(),
			OldStart:   oldStart,
			OldEnd:     oldEnd,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
