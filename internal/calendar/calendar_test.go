package calendar

import (
	"testing"
	"time"

	"github.com/theirongolddev/habitual/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildMonthGrid_ThirtyDayMonthStartingWednesday(t *testing.T) {
	// April 2026 starts on a Wednesday and has 30 days.
	cells := BuildMonthGrid(2026, time.April, date(2026, 4, 15), time.Time{}, nil)

	if len(cells) != 33 {
		t.Fatalf("len(cells) = %d, want 33", len(cells))
	}
	for i := 0; i < 3; i++ {
		if !cells[i].Empty {
			t.Fatalf("cell %d Empty = false, want true", i)
		}
	}
	if cells[3].Empty || cells[3].Day != 1 {
		t.Fatalf("cell 3 = %+v, want day 1", cells[3])
	}
	if cells[32].Day != 30 {
		t.Fatalf("last cell day = %d, want 30", cells[32].Day)
	}
	if got := Rows(cells); got != 5 {
		t.Fatalf("Rows = %d, want 5", got)
	}
}

func TestBuildMonthGrid_Positions(t *testing.T) {
	cells := BuildMonthGrid(2026, time.April, date(2026, 4, 1), time.Time{}, nil)
	for i, c := range cells {
		if c.Index != i || c.Row != i/7 || c.Col != i%7 {
			t.Fatalf("cell %d position = (%d,%d,%d), want (%d,%d,%d)",
				i, c.Index, c.Row, c.Col, i, i/7, i%7)
		}
	}
	// April 4 2026 is a Saturday.
	if c := cells[3+3]; c.Day != 4 || c.Col != 6 {
		t.Fatalf("April 4 at col %d (day %d), want col 6", c.Col, c.Day)
	}
}

func TestBuildMonthGrid_MonthStartingSunday(t *testing.T) {
	// February 2026 starts on a Sunday: no padding, 28 days, 4 rows.
	cells := BuildMonthGrid(2026, time.February, date(2026, 2, 1), time.Time{}, nil)
	if len(cells) != 28 {
		t.Fatalf("len(cells) = %d, want 28", len(cells))
	}
	if cells[0].Empty {
		t.Fatal("first cell is padding, want day 1")
	}
	if got := Rows(cells); got != 4 {
		t.Fatalf("Rows = %d, want 4", got)
	}
}

func TestBuildMonthGrid_Flags(t *testing.T) {
	today := date(2026, 10, 15)
	selected := date(2026, 10, 3)
	done := map[string]bool{"2026-10-03": true, "2026-10-20": true}

	cells := BuildMonthGrid(2026, time.October, today, selected, func(d time.Time) bool {
		return done[model.DateKey(d)]
	})

	var todays, selections, completions int
	for _, c := range cells {
		if c.IsToday {
			todays++
			if c.Day != 15 {
				t.Errorf("IsToday on day %d, want 15", c.Day)
			}
		}
		if c.IsSelected {
			selections++
			if c.Day != 3 {
				t.Errorf("IsSelected on day %d, want 3", c.Day)
			}
		}
		if c.HasCompletion {
			completions++
		}
	}
	if todays != 1 || selections != 1 || completions != 2 {
		t.Fatalf("flags today=%d selected=%d completed=%d, want 1/1/2", todays, selections, completions)
	}
}

func TestBuildMonthGrid_TodayOutsideMonth(t *testing.T) {
	cells := BuildMonthGrid(2026, time.September, date(2026, 10, 15), time.Time{}, nil)
	for _, c := range cells {
		if c.IsToday || c.IsSelected {
			t.Fatalf("day %d flagged today/selected outside its month", c.Day)
		}
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestMonthNavigation(t *testing.T) {
	dec := Month{Year: 2025, Month: time.December}

	next := dec.Next()
	if next != (Month{Year: 2026, Month: time.January}) {
		t.Fatalf("Next(Dec 2025) = %+v, want Jan 2026", next)
	}
	if back := next.Prev(); back != dec {
		t.Fatalf("Prev(Next(Dec 2025)) = %+v, want %+v", back, dec)
	}

	mid := Month{Year: 2026, Month: time.June}
	if got := mid.Next().Prev(); got != mid {
		t.Fatalf("round trip from June = %+v", got)
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-02")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if m.Year != 2026 || m.Month != time.February {
		t.Fatalf("ParseMonth = %+v, want 2026-02", m)
	}
	if _, err := ParseMonth("2026/02"); err == nil {
		t.Fatal("ParseMonth accepted malformed input")
	}
	if got := m.String(); got != "February 2026" {
		t.Fatalf("String = %q, want %q", got, "February 2026")
	}
}
