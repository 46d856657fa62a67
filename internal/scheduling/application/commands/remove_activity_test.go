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

func TestRemoveActivityHandler_Handle(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	startTime := time.Date(2026, time.June, 10, 10, 0, 0, 0, time.UTC)
	endTime := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	t.Run("removes activity and returns its details", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewRemoveActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()
		schedule := createTestSchedule(userID, date)
		placeID := uuid.New()
		location := domain.Coordinates{Latitude: 48.86, Longitude: 2.34}
		activity, err := schedule.AddActivity(placeID, "Louvre", startTime, endTime, &location)
		require.NoError(t, err)
		schedule.ClearDomainEvents()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(schedule, nil)
		repo.On("Save", txCtx, schedule).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		cmd := RemoveActivityCommand{UserID: userID, Date: date, ActivityID: activity.ID()}

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, placeID, result.PlaceID)
		assert.Equal(t, "Louvre", result.Title)
		assert.Equal(t, startTime, result.StartTime)
		assert.Equal(t, endTime, result.EndTime)
		require.NotNil(t, result.Location)
		assert.Equal(t, location, *result.Location)
		assert.Empty(t, schedule.Activities())

		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("fails when activity is missing", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewRemoveActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()
		schedule := createTestSchedule(userID, date)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(schedule, nil)

		cmd := RemoveActivityCommand{UserID: userID, Date: date, ActivityID: uuid.New()}

		result, err := handler.Handle(ctx, cmd)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	})
}
