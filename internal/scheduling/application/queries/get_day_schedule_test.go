package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func TestGetDayScheduleHandler_Handle(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("returns schedule with activities", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		handler := NewGetDayScheduleHandler(repo)

		schedule := domain.NewDaySchedule(userID, date)
		location := domain.Coordinates{Latitude: 48.86, Longitude: 2.34}
		_, err := schedule.AddActivity(uuid.New(), "Louvre", date.Add(10*time.Hour), date.Add(12*time.Hour), &location)
		require.NoError(t, err)

		repo.On("FindByUserAndDate", ctx, userID, date).Return(schedule, nil)

		dto, err := handler.Handle(ctx, GetDayScheduleQuery{UserID: userID, Date: date})

		require.NoError(t, err)
		assert.Equal(t, schedule.ID(), dto.ID)
		require.Len(t, dto.Activities, 1)
		assert.Equal(t, "Louvre", dto.Activities[0].Title)
		assert.Equal(t, 120, dto.Activities[0].DurationMin)
		require.NotNil(t, dto.Activities[0].Latitude)
		assert.Equal(t, 48.86, *dto.Activities[0].Latitude)
		assert.Equal(t, 120, dto.TotalScheduledMins)
	})

	t.Run("returns empty schedule when none exists", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		handler := NewGetDayScheduleHandler(repo)

		repo.On("FindByUserAndDate", ctx, userID, date).Return(nil, nil)

		dto, err := handler.Handle(ctx, GetDayScheduleQuery{UserID: userID, Date: date})

		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, dto.ID)
		assert.Empty(t, dto.Activities)
	})
}

func TestFindFreeGapsHandler_Handle(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	dayStart := date.Add(9 * time.Hour)
	dayEnd := date.Add(18 * time.Hour)

	t.Run("whole day free without schedule", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		handler := NewFindFreeGapsHandler(repo)

		repo.On("FindByUserAndDate", ctx, userID, date).Return(nil, nil)

		gaps, err := handler.Handle(ctx, FindFreeGapsQuery{
			UserID: userID, Date: date, DayStart: dayStart, DayEnd: dayEnd, MinDuration: time.Hour,
		})

		require.NoError(t, err)
		require.Len(t, gaps, 1)
		assert.Equal(t, 540, gaps[0].DurationMin)
	})

	t.Run("gaps around booked activities", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		handler := NewFindFreeGapsHandler(repo)

		schedule := domain.NewDaySchedule(userID, date)
		_, err := schedule.AddActivity(uuid.New(), "Museum", date.Add(10*time.Hour), date.Add(12*time.Hour), nil)
		require.NoError(t, err)

		repo.On("FindByUserAndDate", ctx, userID, date).Return(schedule, nil)

		gaps, err := handler.Handle(ctx, FindFreeGapsQuery{
			UserID: userID, Date: date, DayStart: dayStart, DayEnd: dayEnd, MinDuration: time.Hour,
		})

		require.NoError(t, err)
		require.Len(t, gaps, 2)
		assert.Equal(t, dayStart, gaps[0].Start)
		assert.Equal(t, date.Add(12*time.Hour), gaps[1].Start)
	})
}
