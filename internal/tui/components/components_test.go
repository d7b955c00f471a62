package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{80, 3}, {81, 2}, {7, 7}, {10, 4}} {
		sum := 0
		for _, w := range LayoutRow(tc.total, tc.n) {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricCardRow([]Metric{
		{Label: "Total Habits", Value: "4"},
		{Label: "Completed Today", Value: "2", Hint: "50%"},
	}, 60)

	if got := lipgloss.Width(row); got != 60 {
		t.Fatalf("row width = %d, want 60", got)
	}
	if !strings.Contains(row, "Completed Today") {
		t.Fatal("row missing label")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22, false)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22, true)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI styling in the padded region", i)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('h'); got != 0 {
		t.Fatalf("TabIdxByKey('h') = %d, want 0", got)
	}
	if got := TabIdxByKey('c'); got != 1 {
		t.Fatalf("TabIdxByKey('c') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestRenderTabBarWidth(t *testing.T) {
	bar := RenderTabBar(0, 50)
	if got := lipgloss.Width(bar); got != 50 {
		t.Fatalf("tab bar width = %d, want 50", got)
	}
}

func TestStatusBarHints(t *testing.T) {
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
	disabled := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	disabled.SetEnabled(false)
	hints = append(hints, disabled)

	bar := RenderStatusBar(80, hints, StatusMessage{}, true)
	if got := lipgloss.Width(bar); got != 80 {
		t.Fatalf("status bar width = %d, want 80", got)
	}
	if !strings.Contains(bar, "add") || strings.Contains(bar, "delete") {
		t.Fatalf("unexpected hints in %q", bar)
	}
	if !strings.Contains(bar, "unsaved") {
		t.Fatal("dirty marker missing")
	}

	bar = RenderStatusBar(80, nil, StatusMessage{Text: "Saved"}, true)
	if !strings.Contains(bar, "Saved") || strings.Contains(bar, "unsaved") {
		t.Fatalf("message should replace dirty marker: %q", bar)
	}
}

func TestMonthGridLines(t *testing.T) {
	m := calendar.Month{Year: 2026, Month: time.April}
	cells := m.Grid(time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), time.Time{}, nil)

	out := MonthGrid(m, cells)
	lines := strings.Split(out, "\n")
	// title + weekday header + 5 week rows
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	want := CalendarCellWidth * calendar.Columns
	for i, l := range lines {
		if got := lipgloss.Width(l); got != want {
			t.Errorf("line %d width = %d, want %d", i, got, want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	bar := ProgressBar(1, 2, 10)
	if !strings.Contains(bar, "50%") {
		t.Fatalf("bar = %q, want 50%%", bar)
	}
	if !strings.Contains(ProgressBar(0, 0, 10), "0%") {
		t.Fatal("empty bar should read 0%")
	}
}
