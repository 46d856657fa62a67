package domain

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidBusinessHours = errors.New("business hours close must be after open")

// BusinessHours describes when a place can be visited: a set of open weekdays
// and a daily [open, close) window.
type BusinessHours struct {
	days  map[time.Weekday]bool
	open  TimeOfDay
	close TimeOfDay
}

// NewBusinessHours creates business hours for the given days and window.
func NewBusinessHours(days []time.Weekday, open, close TimeOfDay) (BusinessHours, error) {
	if !close.After(open) {
		return BusinessHours{}, ErrInvalidBusinessHours
	}
	allowed := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		allowed[d] = true
	}
	return BusinessHours{days: allowed, open: open, close: close}, nil
}

// DefaultBusinessHours is open every day 09:00-18:00.
func DefaultBusinessHours() BusinessHours {
	bh, _ := NewBusinessHours(
		[]time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
		MustTimeOfDay(9, 0),
		MustTimeOfDay(18, 0),
	)
	return bh
}

// Open returns the daily opening time.
func (b BusinessHours) Open() TimeOfDay { return b.open }

// Close returns the daily closing time (exclusive).
func (b BusinessHours) Close() TimeOfDay { return b.close }

// IsOpenOn reports whether the place is open on the given weekday.
func (b BusinessHours) IsOpenOn(day time.Weekday) bool {
	return b.days[day]
}

// ContainsStart reports whether a start time falls within [open, close).
func (b BusinessHours) ContainsStart(t TimeOfDay) bool {
	return !t.Before(b.open) && t.Before(b.close)
}

// Days returns the open weekdays in ascending order.
func (b BusinessHours) Days() []time.Weekday {
	days := make([]time.Weekday, 0, len(b.days))
	for d := range b.days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// EncodeDays serializes the open weekdays as a comma-separated list,
// e.g. "1,2,3,4,5". Used by the persistence layer.
func (b BusinessHours) EncodeDays() string {
	days := b.Days()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

// DecodeDays parses a comma-separated weekday list produced by EncodeDays.
func DecodeDays(encoded string) ([]time.Weekday, error) {
	if encoded == "" {
		return nil, nil
	}
	parts := strings.Split(encoded, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			return nil, errors.New("invalid weekday list: " + encoded)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
