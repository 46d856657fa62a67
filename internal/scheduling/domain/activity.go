package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/felixgeelhaar/wayfarer/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidTimeRange     = errors.New("end time must be after start time")
	ErrActivityTooShort     = errors.New("activity must be at least 5 minutes")
	ErrActivityPastMidnight = errors.New("activity must end on the same calendar date")
)

// MinActivityDuration is the minimum allowed activity duration.
const MinActivityDuration = 5 * time.Minute

// TimeRange represents a [Start, End) time window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps checks if two half-open ranges intersect.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Buffered expands the range by the margin on both sides.
func (t TimeRange) Buffered(margin time.Duration) TimeRange {
	return TimeRange{Start: t.Start.Add(-margin), End: t.End.Add(margin)}
}

// Duration returns the length of the range.
func (t TimeRange) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// ScheduledActivity is a visit placed on a day schedule.
type ScheduledActivity struct {
	sharedDomain.BaseEntity
	userID     uuid.UUID
	scheduleID uuid.UUID
	placeID    uuid.UUID // origin place in the wishlist; Nil for ad-hoc entries
	title      string
	startTime  time.Time
	endTime    time.Time
	location   *Coordinates
}

// NewScheduledActivity creates a new scheduled activity.
func NewScheduledActivity(
	userID uuid.UUID,
	scheduleID uuid.UUID,
	placeID uuid.UUID,
	title string,
	startTime, endTime time.Time,
	location *Coordinates,
) (*ScheduledActivity, error) {
	if err := checkActivityWindow(startTime, endTime); err != nil {
		return nil, err
	}

	return &ScheduledActivity{
		BaseEntity: sharedDomain.NewBaseEntity(),
		userID:     userID,
		scheduleID: scheduleID,
		placeID:    placeID,
		title:      title,
		startTime:  startTime,
		endTime:    endTime,
		location:   location,
	}, nil
}

func checkActivityWindow(startTime, endTime time.Time) error {
	if !endTime.After(startTime) {
		return ErrInvalidTimeRange
	}
	if endTime.Sub(startTime) < MinActivityDuration {
		return ErrActivityTooShort
	}
	// Cross-midnight placements are rejected; an end exactly at midnight of
	// the next day is the last allowed bound.
	dayEnd := NormalizeDate(startTime).Add(24 * time.Hour)
	if endTime.After(dayEnd) {
		return ErrActivityPastMidnight
	}
	return nil
}

// Getters
func (a *ScheduledActivity) UserID() uuid.UUID      { return a.userID }
func (a *ScheduledActivity) ScheduleID() uuid.UUID  { return a.scheduleID }
func (a *ScheduledActivity) PlaceID() uuid.UUID     { return a.placeID }
func (a *ScheduledActivity) Title() string          { return a.title }
func (a *ScheduledActivity) StartTime() time.Time   { return a.startTime }
func (a *ScheduledActivity) EndTime() time.Time     { return a.endTime }
func (a *ScheduledActivity) Location() *Coordinates { return a.location }

// TimeRange returns the activity's occupied window.
func (a *ScheduledActivity) TimeRange() TimeRange {
	return TimeRange{Start: a.startTime, End: a.endTime}
}

// Duration returns the activity duration.
func (a *ScheduledActivity) Duration() time.Duration {
	return a.endTime.Sub(a.startTime)
}

// OverlapsWith checks if this activity overlaps another.
func (a *ScheduledActivity) OverlapsWith(other *ScheduledActivity) bool {
	return a.TimeRange().Overlaps(other.TimeRange())
}

// Reschedule moves the activity to a new window.
func (a *ScheduledActivity) Reschedule(newStart, newEnd time.Time) error {
	if err := checkActivityWindow(newStart, newEnd); err != nil {
		return err
	}

	a.startTime = newStart
	a.endTime = newEnd
	a.Touch()
	return nil
}

// RehydrateScheduledActivity recreates an activity from persisted state.
func RehydrateScheduledActivity(
	id uuid.UUID,
	userID uuid.UUID,
	scheduleID uuid.UUID,
	placeID uuid.UUID,
	title string,
	startTime, endTime time.Time,
	location *Coordinates,
	createdAt, updatedAt time.Time,
) *ScheduledActivity {
	return &ScheduledActivity{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:     userID,
		scheduleID: scheduleID,
		placeID:    placeID,
		title:      title,
		startTime:  startTime,
		endTime:    endTime,
		location:   location,
	}
}
