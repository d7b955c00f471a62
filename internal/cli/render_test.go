package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/model"
)

func init() {
	// Plain output keeps assertions independent of the test terminal.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTable_AlignsWideCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Habit", "Streak"},
		Rows: [][]string{
			{"Run", FormatStreak(3)},
			{"Read", FormatStreak(0)},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if got := lipgloss.Width(l); got != w {
			t.Fatalf("line %d width = %d, want %d:\n%s", i, got, w, out)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Fatalf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderHabits(t *testing.T) {
	habits := []model.Habit{
		{Name: "Run", Category: "Health", Streak: 2, Completions: model.Completions{"2026-10-15": true}},
		{Name: "Read", Category: "Learning"},
	}
	out := RenderHabits(habits, "2026-10-15")

	for _, want := range []string{"Run", "Health", "🔥 2 day streak", "Read", "no streak", "✓"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMonth(t *testing.T) {
	m := calendar.Month{Year: 2026, Month: time.April}
	cells := m.Grid(time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), time.Time{}, nil)

	out := RenderMonth(m, cells)
	if !strings.Contains(out, "April 2026") {
		t.Fatalf("missing month title:\n%s", out)
	}
	if !strings.Contains(out, "Su") || !strings.Contains(out, "Sa") {
		t.Fatalf("missing weekday headers:\n%s", out)
	}
	if !strings.Contains(out, "30") || strings.Contains(out, "31") {
		t.Fatalf("April should end on day 30:\n%s", out)
	}
}

func TestRenderDay(t *testing.T) {
	d := model.DayDetail{Date: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)}
	if out := RenderDay(d); !strings.Contains(out, "No habits completed") {
		t.Fatalf("empty day output = %q", out)
	}

	d.Completed = []model.Habit{{Name: "Run", Category: "Health"}}
	if out := RenderDay(d); !strings.Contains(out, "Run") {
		t.Fatalf("day output missing habit: %q", out)
	}
}
