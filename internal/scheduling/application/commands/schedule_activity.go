package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/wayfarer/internal/shared/application"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ScheduleActivityCommand contains the data needed to place an activity on a day.
type ScheduleActivityCommand struct {
	UserID    uuid.UUID
	Date      time.Time
	PlaceID   uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Location  *domain.Coordinates
}

// ScheduleActivityResult contains the result of scheduling an activity.
type ScheduleActivityResult struct {
	ScheduleID uuid.UUID
	ActivityID uuid.UUID
}

// ScheduleActivityHandler handles the ScheduleActivityCommand.
type ScheduleActivityHandler struct {
	scheduleRepo domain.ScheduleRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewScheduleActivityHandler creates a new ScheduleActivityHandler.
func NewScheduleActivityHandler(scheduleRepo domain.ScheduleRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ScheduleActivityHandler {
	return &ScheduleActivityHandler{
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the ScheduleActivityCommand.
func (h *ScheduleActivityHandler) Handle(ctx context.Context, cmd ScheduleActivityCommand) (*ScheduleActivityResult, error) {
	var result *ScheduleActivityResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		// Find or create the schedule for the date
		schedule, err := h.scheduleRepo.FindByUserAndDate(txCtx, cmd.UserID, cmd.Date)
		if err != nil {
			return err
		}

		if schedule == nil {
			schedule = domain.NewDaySchedule(cmd.UserID, cmd.Date)
		}

		activity, err := schedule.AddActivity(cmd.PlaceID, cmd.Title, cmd.StartTime, cmd.EndTime, cmd.Location)
		if err != nil {
			return err
		}

		if err := h.scheduleRepo.Save(txCtx, schedule); err != nil {
			return err
		}

		if err := saveEventsToOutbox(txCtx, h.outboxRepo, schedule, cmd.UserID); err != nil {
			return err
		}

		result = &ScheduleActivityResult{
			ScheduleID: schedule.ID(),
			ActivityID: activity.ID(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// saveEventsToOutbox stores the schedule's uncommitted events in the outbox
// within the active transaction.
func saveEventsToOutbox(ctx context.Context, outboxRepo outbox.Repository, schedule *domain.DaySchedule, userID uuid.UUID) error {
	events := schedule.DomainEvents()
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
