package application

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	schedulingCommands "github.com/felixgeelhaar/wayfarer/internal/scheduling/application/commands"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Narrow views of the scheduling command handlers.
type scheduleActivityHandler interface {
	Handle(ctx context.Context, cmd schedulingCommands.ScheduleActivityCommand) (*schedulingCommands.ScheduleActivityResult, error)
}

type moveActivityHandler interface {
	Handle(ctx context.Context, cmd schedulingCommands.MoveActivityCommand) (*schedulingCommands.MoveActivityResult, error)
}

type removeActivityHandler interface {
	Handle(ctx context.Context, cmd schedulingCommands.RemoveActivityCommand) (*schedulingCommands.RemoveActivityResult, error)
}

// LocalPerformer applies operations to the authoritative local store by
// dispatching to the scheduling command handlers. On success it fills in
// the operation's rollback data so the history log can reverse it.
type LocalPerformer struct {
	userID   uuid.UUID
	schedule scheduleActivityHandler
	move     moveActivityHandler
	remove   removeActivityHandler
}

// NewLocalPerformer creates a performer scoped to one user.
func NewLocalPerformer(
	userID uuid.UUID,
	schedule scheduleActivityHandler,
	move moveActivityHandler,
	remove removeActivityHandler,
) *LocalPerformer {
	return &LocalPerformer{
		userID:   userID,
		schedule: schedule,
		move:     move,
		remove:   remove,
	}
}

// Perform executes the operation against local storage.
func (p *LocalPerformer) Perform(ctx context.Context, op *domain.Operation) error {
	switch op.Kind {
	case domain.OpSchedule:
		return p.performSchedule(ctx, op)
	case domain.OpMove:
		return p.performMove(ctx, op)
	case domain.OpRemove:
		return p.performRemove(ctx, op)
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func (p *LocalPerformer) performSchedule(ctx context.Context, op *domain.Operation) error {
	if op.Target == nil {
		return domain.ErrInvalidDragItem
	}

	date := schedulingDomain.NormalizeDate(op.Target.Date)
	result, err := p.schedule.Handle(ctx, schedulingCommands.ScheduleActivityCommand{
		UserID:    p.userID,
		Date:      date,
		PlaceID:   op.Item.PlaceID,
		Title:     op.Item.Title,
		StartTime: op.Target.StartTime(),
		EndTime:   op.Target.EndTime(op.Item.DurationMinutes),
		Location:  op.Item.Location,
	})
	if err != nil {
		return err
	}

	// Record the created activity so a later undo knows what to remove.
	op.Item.ActivityID = result.ActivityID
	op.Rollback = &domain.RollbackData{ActivityID: result.ActivityID}
	return nil
}

func (p *LocalPerformer) performMove(ctx context.Context, op *domain.Operation) error {
	if op.Target == nil {
		return domain.ErrInvalidDragItem
	}

	date := schedulingDomain.NormalizeDate(op.Target.Date)
	result, err := p.move.Handle(ctx, schedulingCommands.MoveActivityCommand{
		UserID:     p.userID,
		Date:       date,
		ActivityID: op.Item.ActivityID,
		NewStart:   op.Target.StartTime(),
		NewEnd:     op.Target.EndTime(op.Item.DurationMinutes),
	})
	if err != nil {
		return err
	}

	op.Rollback = &domain.RollbackData{
		ActivityID: op.Item.ActivityID,
		PreviousSlot: &domain.TargetSlot{
			ZoneID: op.Target.ZoneID,
			Date:   date,
			Start:  schedulingDomain.TimeOfDayOf(result.OldStart),
		},
	}
	return nil
}

func (p *LocalPerformer) performRemove(ctx context.Context, op *domain.Operation) error {
	date := op.Timestamp
	if op.Target != nil {
		date = op.Target.Date
	}
	if op.Rollback != nil && op.Rollback.PreviousSlot != nil {
		date = op.Rollback.PreviousSlot.Date
	}
	date = schedulingDomain.NormalizeDate(date)

	result, err := p.remove.Handle(ctx, schedulingCommands.RemoveActivityCommand{
		UserID:     p.userID,
		Date:       date,
		ActivityID: op.Item.ActivityID,
	})
	if err != nil {
		return err
	}

	// Backfill the item from the removed activity so a reverse operation
	// can fully restore it.
	op.Item.PlaceID = result.PlaceID
	op.Item.Title = result.Title
	op.Item.DurationMinutes = int(result.EndTime.Sub(result.StartTime).Minutes())
	op.Item.Location = result.Location

	zoneID := ""
	if op.Target != nil {
		zoneID = op.Target.ZoneID
	}
	op.Rollback = &domain.RollbackData{
		ActivityID: op.Item.ActivityID,
		PreviousSlot: &domain.TargetSlot{
			ZoneID: zoneID,
			Date:   date,
			Start:  schedulingDomain.TimeOfDayOf(result.StartTime),
		},
	}
	return nil
}
