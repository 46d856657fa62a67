package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/application"
	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	schedulingCommands "github.com/felixgeelhaar/wayfarer/internal/scheduling/application/commands"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScheduleHandler struct{ mock.Mock }

func (m *mockScheduleHandler) Handle(ctx context.Context, cmd schedulingCommands.ScheduleActivityCommand) (*schedulingCommands.ScheduleActivityResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedulingCommands.ScheduleActivityResult), args.Error(1)
}

type mockMoveHandler struct{ mock.Mock }

func (m *mockMoveHandler) Handle(ctx context.Context, cmd schedulingCommands.MoveActivityCommand) (*schedulingCommands.MoveActivityResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedulingCommands.MoveActivityResult), args.Error(1)
}

type mockRemoveHandler struct{ mock.Mock }

func (m *mockRemoveHandler) Handle(ctx context.Context, cmd schedulingCommands.RemoveActivityCommand) (*schedulingCommands.RemoveActivityResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedulingCommands.RemoveActivityResult), args.Error(1)
}

func newTestPerformer() (uuid.UUID, *mockScheduleHandler, *mockMoveHandler, *mockRemoveHandler, *application.LocalPerformer) {
	userID := uuid.New()
	schedule := new(mockScheduleHandler)
	move := new(mockMoveHandler)
	remove := new(mockRemoveHandler)
	return userID, schedule, move, remove, application.NewLocalPerformer(userID, schedule, move, remove)
}

func TestLocalPerformer_Schedule(t *testing.T) {
	userID, schedule, _, _, performer := newTestPerformer()

	item := wishlistItem()
	slot := slotAt(t, "10:00")
	op := domain.NewOperation(domain.OpSchedule, item, &slot)

	activityID := uuid.New()
	schedule.On("Handle", mock.Anything, mock.MatchedBy(func(cmd schedulingCommands.ScheduleActivityCommand) bool {
		return cmd.UserID == userID &&
			cmd.PlaceID == item.PlaceID &&
			cmd.StartTime.Equal(slot.StartTime()) &&
			cmd.EndTime.Equal(slot.StartTime().Add(time.Hour))
	})).Return(&schedulingCommands.ScheduleActivityResult{
		ScheduleID: uuid.New(),
		ActivityID: activityID,
	}, nil)

	require.NoError(t, performer.Perform(context.Background(), op))

	require.NotNil(t, op.Rollback)
	assert.Equal(t, activityID, op.Rollback.ActivityID)
	assert.Equal(t, activityID, op.Item.ActivityID)
	schedule.AssertExpectations(t)
}

func TestLocalPerformer_ScheduleFailurePropagates(t *testing.T) {
	_, schedule, _, _, performer := newTestPerformer()

	slot := slotAt(t, "10:00")
	op := domain.NewOperation(domain.OpSchedule, wishlistItem(), &slot)
	schedule.On("Handle", mock.Anything, mock.Anything).Return(nil, schedulingDomain.ErrActivityOverlap)

	err := performer.Perform(context.Background(), op)
	assert.ErrorIs(t, err, schedulingDomain.ErrActivityOverlap)
	assert.Nil(t, op.Rollback)
}

func TestLocalPerformer_MoveCapturesPreviousSlot(t *testing.T) {
	userID, _, move, _, performer := newTestPerformer()

	item := wishlistItem()
	item.Kind = domain.ItemKindActivity
	item.ActivityID = uuid.New()
	slot := slotAt(t, "15:00")
	op := domain.NewOperation(domain.OpMove, item, &slot)

	oldStart := schedulingDomain.MustTimeOfDay(9, 0).At(slot.Date)
	move.On("Handle", mock.Anything, mock.MatchedBy(func(cmd schedulingCommands.MoveActivityCommand) bool {
		return cmd.UserID == userID && cmd.ActivityID == item.ActivityID
	})).Return(&schedulingCommands.MoveActivityResult{
		ScheduleID: uuid.New(),
		OldStart:   oldStart,
		OldEnd:     oldStart.Add(time.Hour),
	}, nil)

	require.NoError(t, performer.Perform(context.Background(), op))

	require.NotNil(t, op.Rollback)
	require.NotNil(t, op.Rollback.PreviousSlot)
	assert.Equal(t, "09:00", op.Rollback.PreviousSlot.Start.String())
	move.AssertExpectations(t)
}

func TestLocalPerformer_RemoveBackfillsItem(t *testing.T) {
	_, _, _, remove, performer := newTestPerformer()

	item := domain.DragItem{
		ID:              uuid.New(),
		Kind:            domain.ItemKindActivity,
		Source:          domain.SourceCalendar,
		Title:           "Louvre",
		ActivityID:      uuid.New(),
		DurationMinutes: 60,
	}
	slot := slotAt(t, "10:00")
	op := domain.NewOperation(domain.OpRemove, item, &slot)

	placeID := uuid.New()
	start := slot.StartTime()
	remove.On("Handle", mock.Anything, mock.MatchedBy(func(cmd schedulingCommands.RemoveActivityCommand) bool {
		return cmd.ActivityID == item.ActivityID
	})).Return(&schedulingCommands.RemoveActivityResult{
		ScheduleID: uuid.New(),
		PlaceID:    placeID,
		Title:      "Louvre",
		StartTime:  start,
		EndTime:    start.Add(90 * time.Minute),
	}, nil)

	require.NoError(t, performer.Perform(context.Background(), op))

	assert.Equal(t, placeID, op.Item.PlaceID)
	assert.Equal(t, 90, op.Item.DurationMinutes)
	require.NotNil(t, op.Rollback)
	require.NotNil(t, op.Rollback.PreviousSlot)
	assert.Equal(t, "10:00", op.Rollback.PreviousSlot.Start.String())

	// The operation can now be reversed into a restoring schedule.
	rev, err := op.Reverse()
	require.NoError(t, err)
	assert.Equal(t, domain.OpSchedule, rev.Kind)
	assert.Equal(t, placeID, rev.Item.PlaceID)
}

func TestLocalPerformer_ScheduleWithoutTarget(t *testing.T) {
	_, _, _, _, performer := newTestPerformer()
	op := domain.NewOperation(domain.OpSchedule, wishlistItem(), nil)
	assert.ErrorIs(t, performer.Perform(context.Background(), op), domain.ErrInvalidDragItem)
}
