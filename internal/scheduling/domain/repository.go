package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrScheduleNotFound is returned when no schedule exists for a lookup.
var ErrScheduleNotFound = errors.New("day schedule not found")

// ScheduleRepository defines the interface for day schedule persistence.
type ScheduleRepository interface {
	// Save persists a schedule and its activities (create or update).
	Save(ctx context.Context, schedule *DaySchedule) error

	// FindByID finds a schedule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*DaySchedule, error)

	// FindByUserAndDate finds a schedule for a user on a specific date.
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DaySchedule, error)

	// FindByUserDateRange finds schedules for a user within a date range.
	FindByUserDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]*DaySchedule, error)

	// Delete removes a schedule.
	Delete(ctx context.Context, id uuid.UUID) error
}
