package commands

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMoveActivityHandler_Handle(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	startTime := time.Date(2026, time.June, 10, 10, 0, 0, 0, time.UTC)
	endTime := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	t.Run("moves activity and reports old window", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewMoveActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()
		schedule := createTestSchedule(userID, date)
		activity, err := schedule.AddActivity(uuid.New(), "Louvre", startTime, endTime, nil)
		require.NoError(t, err)
		schedule.ClearDomainEvents()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(schedule, nil)
		repo.On("Save", txCtx, schedule).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		cmd := MoveActivityCommand{
			UserID:     userID,
			Date:       date,
			ActivityID: activity.ID(),
			NewStart:   startTime.Add(4 * time.Hour),
			NewEnd:     endTime.Add(4 * time.Hour),
		}

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, startTime, result.OldStart)
		assert.Equal(t, endTime, result.OldEnd)
		assert.Equal(t, startTime.Add(4*time.Hour), activity.StartTime())

		repo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("fails when schedule does not exist", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewMoveActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(nil, nil)

		cmd := MoveActivityCommand{
			UserID:     userID,
			Date:       date,
			ActivityID: uuid.New(),
			NewStart:   startTime,
			NewEnd:     endTime,
		}

		result, err := handler.Handle(ctx, cmd)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
	})

	t.Run("fails when activity is missing", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewMoveActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()
		schedule := createTestSchedule(userID, date)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(schedule, nil)

		cmd := MoveActivityCommand{
			UserID:     userID,
			Date:       date,
			ActivityID: uuid.New(),
			NewStart:   startTime,
			NewEnd:     endTime,
		}

		result, err := handler.Handle(ctx, cmd)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	})
}
