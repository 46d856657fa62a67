package domain

import (
	"errors"
	"sort"
	"time"

	sharedDomain "github.com/felixgeelhaar/wayfarer/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrActivityNotFound = errors.New("scheduled activity not found")
	ErrActivityOverlap  = errors.New("overlapping activity already scheduled")
)

// DaySchedule holds all activities planned for a single calendar date.
type DaySchedule struct {
	sharedDomain.BaseAggregateRoot
	userID     uuid.UUID
	date       time.Time
	activities []*ScheduledActivity
}

// NewDaySchedule creates an empty schedule for a specific date.
func NewDaySchedule(userID uuid.UUID, date time.Time) *DaySchedule {
	return &DaySchedule{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		date:              NormalizeDate(date),
		activities:        make([]*ScheduledActivity, 0),
	}
}

// Getters
func (s *DaySchedule) UserID() uuid.UUID                { return s.userID }
func (s *DaySchedule) Date() time.Time                  { return s.date }
func (s *DaySchedule) Activities() []*ScheduledActivity { return s.activities }

// AddActivity places a new activity on the schedule. Overlap with any
// existing activity is rejected regardless of other rules; richer checks
// belong to the validation pipeline.
func (s *DaySchedule) AddActivity(
	placeID uuid.UUID,
	title string,
	startTime, endTime time.Time,
	location *Coordinates,
) (*ScheduledActivity, error) {
	activity, err := NewScheduledActivity(s.userID, s.ID(), placeID, title, startTime, endTime, location)
	if err != nil {
		return nil, err
	}

	for _, existing := range s.activities {
		if existing.OverlapsWith(activity) {
			return nil, ErrActivityOverlap
		}
	}

	s.activities = append(s.activities, activity)
	s.sortActivities()
	s.Touch()

	s.AddDomainEvent(NewActivityScheduledEvent(activity, s.date))

	return activity, nil
}

// FindActivity looks up an activity by ID.
func (s *DaySchedule) FindActivity(activityID uuid.UUID) (*ScheduledActivity, error) {
	for _, activity := range s.activities {
		if activity.ID() == activityID {
			return activity, nil
		}
	}
	return nil, ErrActivityNotFound
}

// MoveActivity reschedules an existing activity to a new window.
func (s *DaySchedule) MoveActivity(activityID uuid.UUID, newStart, newEnd time.Time) error {
	activity, err := s.FindActivity(activityID)
	if err != nil {
		return err
	}

	candidate := TimeRange{Start: newStart, End: newEnd}
	for _, existing := range s.activities {
		if existing.ID() != activityID && existing.TimeRange().Overlaps(candidate) {
			return ErrActivityOverlap
		}
	}

	oldStart := activity.StartTime()
	oldEnd := activity.EndTime()

	if err := activity.Reschedule(newStart, newEnd); err != nil {
		return err
	}

	s.sortActivities()
	s.Touch()

	s.AddDomainEvent(NewActivityMovedEvent(activity, s.date, oldStart, oldEnd))

	return nil
}

// RemoveActivity takes an activity off the schedule.
func (s *DaySchedule) RemoveActivity(activityID uuid.UUID) error {
	for i, activity := range s.activities {
		if activity.ID() == activityID {
			s.activities = append(s.activities[:i], s.activities[i+1:]...)
			s.Touch()
			s.AddDomainEvent(NewActivityRemovedEvent(activity, s.date))
			return nil
		}
	}
	return ErrActivityNotFound
}

// ActivitiesOverlapping returns every activity whose window intersects the
// candidate range, excluding the activity with excludeID when non-nil.
func (s *DaySchedule) ActivitiesOverlapping(r TimeRange, excludeID uuid.UUID) []*ScheduledActivity {
	matches := make([]*ScheduledActivity, 0)
	for _, activity := range s.activities {
		if excludeID != uuid.Nil && activity.ID() == excludeID {
			continue
		}
		if activity.TimeRange().Overlaps(r) {
			matches = append(matches, activity)
		}
	}
	return matches
}

// FindFreeGaps finds open windows of at least minDuration between dayStart
// and dayEnd.
func (s *DaySchedule) FindFreeGaps(dayStart, dayEnd time.Time, minDuration time.Duration) []TimeRange {
	gaps := make([]TimeRange, 0)

	if len(s.activities) == 0 {
		if dayEnd.Sub(dayStart) >= minDuration {
			gaps = append(gaps, TimeRange{Start: dayStart, End: dayEnd})
		}
		return gaps
	}

	if s.activities[0].StartTime().Sub(dayStart) >= minDuration {
		gaps = append(gaps, TimeRange{Start: dayStart, End: s.activities[0].StartTime()})
	}

	for i := 0; i < len(s.activities)-1; i++ {
		gapStart := s.activities[i].EndTime()
		gapEnd := s.activities[i+1].StartTime()
		if gapEnd.Sub(gapStart) >= minDuration {
			gaps = append(gaps, TimeRange{Start: gapStart, End: gapEnd})
		}
	}

	lastEnd := s.activities[len(s.activities)-1].EndTime()
	if dayEnd.Sub(lastEnd) >= minDuration {
		gaps = append(gaps, TimeRange{Start: lastEnd, End: dayEnd})
	}

	return gaps
}

// TotalScheduledTime returns the sum of all activity durations.
func (s *DaySchedule) TotalScheduledTime() time.Duration {
	total := time.Duration(0)
	for _, activity := range s.activities {
		total += activity.Duration()
	}
	return total
}

func (s *DaySchedule) sortActivities() {
	sort.Slice(s.activities, func(i, j int) bool {
		return s.activities[i].StartTime().Before(s.activities[j].StartTime())
	})
}

// RehydrateDaySchedule recreates a schedule from persisted state.
func RehydrateDaySchedule(
	id uuid.UUID,
	userID uuid.UUID,
	date time.Time,
	activities []*ScheduledActivity,
	createdAt, updatedAt time.Time,
) *DaySchedule {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	baseAggregate := sharedDomain.RehydrateBaseAggregateRoot(baseEntity, 0)

	s := &DaySchedule{
		BaseAggregateRoot: baseAggregate,
		userID:            userID,
		date:              date,
		activities:        activities,
	}
	s.sortActivities()
	return s
}
