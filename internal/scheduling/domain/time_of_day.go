package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("time of day must be between 00:00 and 24:00")

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

// SlotMinutes is the granularity of the scheduling grid.
const SlotMinutes = 30

// TimeOfDay is a clock time expressed as minutes since midnight.
// All schedule arithmetic compares these values on a single calendar date;
// 24:00 (1440) is allowed only as an exclusive end bound.
type TimeOfDay struct {
	minutes int
}

// NewTimeOfDay creates a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	return TimeOfDayFromMinutes(hour*60 + minute)
}

// TimeOfDayFromMinutes creates a TimeOfDay from minutes since midnight.
func TimeOfDayFromMinutes(minutes int) (TimeOfDay, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: minutes}, nil
}

// MustTimeOfDay creates a TimeOfDay and panics on invalid input.
// Intended for constants and tests.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay parses a "15:04" clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDay{minutes: parsed.Hour()*60 + parsed.Minute()}, nil
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.minutes }

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return t.minutes / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return t.minutes % 60 }

// String formats the time as "15:04".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalText encodes the time as "15:04" for JSON payloads.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a "15:04" clock string.
func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Before reports whether t is earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool { return t.minutes < other.minutes }

// After reports whether t is later than other.
func (t TimeOfDay) After(other TimeOfDay) bool { return t.minutes > other.minutes }

// Sub returns the signed distance to other in minutes.
func (t TimeOfDay) Sub(other TimeOfDay) int { return t.minutes - other.minutes }

// AddMinutes returns the time m minutes later. The second return value is
// false when the result would pass midnight.
func (t TimeOfDay) AddMinutes(m int) (TimeOfDay, bool) {
	total := t.minutes + m
	if total < 0 || total > MinutesPerDay {
		return TimeOfDay{}, false
	}
	return TimeOfDay{minutes: total}, true
}

// SlotIndex returns the half-hour grid index of the time.
func (t TimeOfDay) SlotIndex() int { return t.minutes / SlotMinutes }

// TimeOfDayFromSlot returns the start time of the given half-hour grid slot.
func TimeOfDayFromSlot(index int) (TimeOfDay, error) {
	return TimeOfDayFromMinutes(index * SlotMinutes)
}

// SnapToGrid rounds the time to the nearest half-hour boundary.
func (t TimeOfDay) SnapToGrid() TimeOfDay {
	snapped := ((t.minutes + SlotMinutes/2) / SlotMinutes) * SlotMinutes
	if snapped > MinutesPerDay {
		snapped = MinutesPerDay
	}
	return TimeOfDay{minutes: snapped}
}

// At anchors the clock time on the given calendar date.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(t.minutes) * time.Minute)
}

// TimeOfDayOf extracts the clock time from an instant.
func TimeOfDayOf(instant time.Time) TimeOfDay {
	return TimeOfDay{minutes: instant.Hour()*60 + instant.Minute()}
}

// NormalizeDate truncates an instant to midnight on its calendar date.
func NormalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
