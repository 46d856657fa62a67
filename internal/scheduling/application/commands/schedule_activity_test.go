package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockScheduleRepo is a mock implementation of domain.ScheduleRepository.
type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) Save(ctx context.Context, schedule *domain.DaySchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.DaySchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySchedule), args.Error(1)
}

func (m *mockScheduleRepo) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DaySchedule, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySchedule), args.Error(1)
}

func (m *mockScheduleRepo) FindByUserDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]*domain.DaySchedule, error) {
	args := m.Called(ctx, userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DaySchedule), args.Error(1)
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, err, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type txKey struct{}

func testContexts() (context.Context, context.Context) {
	ctx := context.Background()
	return ctx, context.WithValue(ctx, txKey{}, "transaction")
}

func createTestSchedule(userID uuid.UUID, date time.Time) *domain.DaySchedule {
	now := time.Now()
	return domain.RehydrateDaySchedule(uuid.New(), userID, date, nil, now.Add(-24*time.Hour), now)
}

func TestScheduleActivityHandler_Handle(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	startTime := time.Date(2026, time.June, 10, 10, 0, 0, 0, time.UTC)
	endTime := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	t.Run("adds activity to existing schedule", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewScheduleActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()
		schedule := createTestSchedule(userID, date)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(schedule, nil)
		repo.On("Save", txCtx, schedule).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		cmd := ScheduleActivityCommand{
			UserID:    userID,
			Date:      date,
			PlaceID:   uuid.New(),
			Title:     "Louvre",
			StartTime: startTime,
			EndTime:   endTime,
		}

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, schedule.ID(), result.ScheduleID)
		assert.NotEqual(t, uuid.Nil, result.ActivityID)

		repo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("creates schedule when none exists", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewScheduleActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(nil, nil)
		repo.On("Save", txCtx, mock.AnythingOfType("*domain.DaySchedule")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		cmd := ScheduleActivityCommand{
			UserID:    userID,
			Date:      date,
			PlaceID:   uuid.New(),
			Title:     "Louvre",
			StartTime: startTime,
			EndTime:   endTime,
		}

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.NotNil(t, result)
		repo.AssertExpectations(t)
	})

	t.Run("rejects overlapping activity", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewScheduleActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()
		schedule := createTestSchedule(userID, date)
		_, err := schedule.AddActivity(uuid.New(), "Existing", startTime, endTime, nil)
		require.NoError(t, err)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(schedule, nil)

		cmd := ScheduleActivityCommand{
			UserID:    userID,
			Date:      date,
			PlaceID:   uuid.New(),
			Title:     "Conflicting",
			StartTime: startTime.Add(30 * time.Minute),
			EndTime:   endTime.Add(30 * time.Minute),
		}

		result, err := handler.Handle(ctx, cmd)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrActivityOverlap)
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("fails when repository find fails", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewScheduleActivityHandler(repo, outboxRepo, uow)

		ctx, txCtx := testContexts()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByUserAndDate", txCtx, userID, date).Return(nil, errors.New("database error"))

		cmd := ScheduleActivityCommand{
			UserID:    userID,
			Date:      date,
			Title:     "Louvre",
			StartTime: startTime,
			EndTime:   endTime,
		}

		result, err := handler.Handle(ctx, cmd)

		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "database error")
		uow.AssertExpectations(t)
	})
}
