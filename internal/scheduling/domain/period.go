package domain

import "fmt"

// DayPeriod is a coarse time-of-day preference attached to a place.
type DayPeriod string

const (
	// PeriodMorning covers times before 12:00.
	PeriodMorning DayPeriod = "morning"
	// PeriodAfternoon covers 12:00 up to 17:00.
	PeriodAfternoon DayPeriod = "afternoon"
	// PeriodEvening covers 17:00 and later.
	PeriodEvening DayPeriod = "evening"
)

// ParseDayPeriod converts a string into a DayPeriod.
func ParseDayPeriod(s string) (DayPeriod, error) {
	switch DayPeriod(s) {
	case PeriodMorning, PeriodAfternoon, PeriodEvening:
		return DayPeriod(s), nil
	default:
		return "", fmt.Errorf("unknown day period: %q", s)
	}
}

// IsValid returns true for a known period.
func (p DayPeriod) IsValid() bool {
	switch p {
	case PeriodMorning, PeriodAfternoon, PeriodEvening:
		return true
	default:
		return false
	}
}

// PeriodOf returns the period a clock time falls into.
func PeriodOf(t TimeOfDay) DayPeriod {
	switch {
	case t.Hour() < 12:
		return PeriodMorning
	case t.Hour() < 17:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}
