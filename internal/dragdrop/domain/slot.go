package domain

import (
	"time"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
)

// TargetSlot identifies a candidate placement. It is ephemeral state,
// recomputed on every pointer or keyboard movement during a drag.
type TargetSlot struct {
	ZoneID string                     `json:"zone_id"`
	Date   time.Time                  `json:"date"`
	Start  schedulingDomain.TimeOfDay `json:"start"`
}

// StartTime returns the slot's absolute start instant.
func (s TargetSlot) StartTime() time.Time {
	return s.Start.At(s.Date)
}

// EndTime returns the absolute end instant for the given duration.
func (s TargetSlot) EndTime(durationMinutes int) time.Time {
	return s.StartTime().Add(time.Duration(durationMinutes) * time.Minute)
}

// Snapped returns the slot rounded to the half-hour grid.
func (s TargetSlot) Snapped() TargetSlot {
	s.Start = s.Start.SnapToGrid()
	return s
}
