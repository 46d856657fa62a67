package domain

import (
	"fmt"
	"time"
)

// DefaultRules returns the standard placement rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		SlotAvailabilityRule{},
		BusinessHoursRule{},
		BufferConflictRule{},
		TravelTimeRule{},
		DurationContainmentRule{},
		PreferredPeriodRule{},
	}
}

func conflictsFrom(activities []*ScheduledActivity) []ConflictingActivity {
	conflicts := make([]ConflictingActivity, 0, len(activities))
	for _, a := range activities {
		conflicts = append(conflicts, ConflictingActivity{
			ID:    a.ID(),
			Name:  a.Title(),
			Start: a.StartTime(),
			End:   a.EndTime(),
		})
	}
	return conflicts
}

// SlotAvailabilityRule rejects candidates that overlap an existing booking.
type SlotAvailabilityRule struct{}

func (SlotAvailabilityRule) Name() string { return "slot_availability" }

func (SlotAvailabilityRule) Check(c Candidate, vc ValidationContext) *Violation {
	if vc.Schedule == nil {
		return nil
	}

	overlapping := vc.Schedule.ActivitiesOverlapping(c.Window(), c.ExcludeID)
	if len(overlapping) == 0 {
		return nil
	}

	return &Violation{
		Reason:    "Time slot conflicts with existing activities",
		Conflicts: conflictsFrom(overlapping),
	}
}

// BusinessHoursRule rejects candidates outside the open days and the
// opening window.
type BusinessHoursRule struct{}

func (BusinessHoursRule) Name() string { return "business_hours" }

func (BusinessHoursRule) Check(c Candidate, vc ValidationContext) *Violation {
	if !vc.BusinessHours.IsOpenOn(c.Date.Weekday()) {
		return &Violation{
			Reason: fmt.Sprintf("Closed on %s", c.Date.Weekday()),
		}
	}

	if !vc.BusinessHours.ContainsStart(c.Start) {
		return &Violation{
			Reason: fmt.Sprintf("Outside business hours (%s to %s)", vc.BusinessHours.Open(), vc.BusinessHours.Close()),
		}
	}

	return nil
}

// BufferConflictRule re-checks overlap with a symmetric margin around the
// candidate window, catching placements the plain overlap test allows.
type BufferConflictRule struct{}

func (BufferConflictRule) Name() string { return "buffer_conflict" }

func (BufferConflictRule) Check(c Candidate, vc ValidationContext) *Violation {
	if vc.Schedule == nil {
		return nil
	}

	buffered := c.Window().Buffered(BufferMinutes * time.Minute)
	near := vc.Schedule.ActivitiesOverlapping(buffered, c.ExcludeID)
	if len(near) == 0 {
		return nil
	}

	return &Violation{
		Reason:    fmt.Sprintf("Too close to another activity (%d minute buffer required)", BufferMinutes),
		Conflicts: conflictsFrom(near),
	}
}

// TravelTimeRule checks that enough travel time exists from the nearest
// preceding activity with known coordinates. Skipped when travel checks
// are disabled or either side lacks a location.
type TravelTimeRule struct{}

func (TravelTimeRule) Name() string { return "travel_time" }

func (TravelTimeRule) Check(c Candidate, vc ValidationContext) *Violation {
	if !vc.TravelEnabled || vc.Schedule == nil || c.Location == nil {
		return nil
	}

	preceding := precedingWithLocation(vc.Schedule, c)
	if preceding == nil {
		return nil
	}

	travelMinutes := TravelMinutesBetween(*preceding.Location(), *c.Location)
	earliest := preceding.EndTime().Add(time.Duration(travelMinutes) * time.Minute)
	if c.StartTime().Before(earliest) {
		return &Violation{
			Reason:    fmt.Sprintf("Not enough travel time from %s (%d minutes needed)", preceding.Title(), travelMinutes),
			Conflicts: conflictsFrom([]*ScheduledActivity{preceding}),
		}
	}

	return nil
}

// precedingWithLocation finds the chronologically nearest activity that
// starts before the candidate and carries coordinates.
func precedingWithLocation(schedule *DaySchedule, c Candidate) *ScheduledActivity {
	var nearest *ScheduledActivity
	for _, activity := range schedule.Activities() {
		if activity.ID() == c.ExcludeID || activity.Location() == nil {
			continue
		}
		if !activity.StartTime().Before(c.StartTime()) {
			continue
		}
		if nearest == nil || activity.EndTime().After(nearest.EndTime()) {
			nearest = activity
		}
	}
	return nearest
}

// DurationContainmentRule rejects candidates that run past closing time.
type DurationContainmentRule struct{}

func (DurationContainmentRule) Name() string { return "duration_containment" }

func (DurationContainmentRule) Check(c Candidate, vc ValidationContext) *Violation {
	endMinutes := c.Start.Minutes() + c.DurationMinutes
	if endMinutes > vc.BusinessHours.Close().Minutes() {
		return &Violation{
			Reason: fmt.Sprintf("Activity would end after closing time (%s)", vc.BusinessHours.Close()),
		}
	}
	return nil
}

// PreferredPeriodRule enforces an item's declared time-of-day preference.
type PreferredPeriodRule struct{}

func (PreferredPeriodRule) Name() string { return "preferred_period" }

func (PreferredPeriodRule) Check(c Candidate, vc ValidationContext) *Violation {
	if c.PreferredPeriod == nil {
		return nil
	}

	if PeriodOf(c.Start) != *c.PreferredPeriod {
		return &Violation{
			Reason: fmt.Sprintf("Preferred time is %s", *c.PreferredPeriod),
		}
	}

	return nil
}
