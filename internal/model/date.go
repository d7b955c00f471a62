package model

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date layout used for completion keys.
const DateLayout = "2006-01-02"

// Day normalizes t to midnight UTC of its own calendar date. The wall-clock
// date in t's location is kept; only the time-of-day is dropped.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date as a normalized Day.
func Today() time.Time {
	return Day(time.Now())
}

// DateKey formats the calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key into a normalized Day.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", key)
	}
	return t, nil
}

// DaysBetween returns the whole number of calendar days from a to b.
// It is positive when b is after a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}
