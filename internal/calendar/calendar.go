// Package calendar lays out a month as a padded seven-column grid.
package calendar

import (
	"fmt"
	"time"

	"github.com/theirongolddev/habitual/internal/model"
)

// Columns is the number of days per grid row, Sunday first.
const Columns = 7

// Cell is one grid position. Padding cells before day 1 have Empty set and
// a zero Date.
type Cell struct {
	Index int
	Row   int
	Col   int

	Empty bool
	Date  time.Time
	Day   int

	IsToday       bool
	IsSelected    bool
	HasCompletion bool
}

// Key returns the YYYY-MM-DD key of a date cell, or "" for padding.
func (c Cell) Key() string {
	if c.Empty {
		return ""
	}
	return model.DateKey(c.Date)
}

// CompletionFunc reports whether any habit was completed on a date.
type CompletionFunc func(date time.Time) bool

// BuildMonthGrid returns the padding cells followed by one cell per day of
// the month. A nil completed func flags no days.
func BuildMonthGrid(year int, month time.Month, today, selected time.Time, completed CompletionFunc) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := int(first.Weekday())
	n := DaysIn(year, month)

	cells := make([]Cell, 0, lead+n)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Empty: true})
	}

	today = model.Day(today)
	hasSelection := !selected.IsZero()
	selected = model.Day(selected)

	for day := 1; day <= n; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		c := Cell{
			Date:       date,
			Day:        day,
			IsToday:    date.Equal(today),
			IsSelected: hasSelection && date.Equal(selected),
		}
		if completed != nil {
			c.HasCompletion = completed(date)
		}
		cells = append(cells, c)
	}

	for i := range cells {
		cells[i].Index = i
		cells[i].Row = i / Columns
		cells[i].Col = i % Columns
	}
	return cells
}

// DaysIn returns the number of days in the month, accounting for leap years.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Rows returns how many grid rows the cells occupy.
func Rows(cells []Cell) int {
	return (len(cells) + Columns - 1) / Columns
}

// Month identifies a calendar month for navigation.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return MonthOf(t), nil
}

// Next returns the following month, rolling December into January.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the preceding month, rolling January into December.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Contains reports whether t falls in m.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// First returns day 1 of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month as e.g. "October 2026".
func (m Month) String() string {
	return m.First().Format("January 2006")
}

// Grid builds the cells for m.
func (m Month) Grid(today, selected time.Time, completed CompletionFunc) []Cell {
	return BuildMonthGrid(m.Year, m.Month, today, selected, completed)
}
