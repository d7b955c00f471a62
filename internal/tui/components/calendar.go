package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// CalendarCellWidth is the rendered width of one day column.
const CalendarCellWidth = 4

var weekdayHeaders = [calendar.Columns]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// MonthGrid renders a month as a seven-column grid. Completed days use the
// Done color, today is underlined in the accent color, and the selected day
// is drawn on the hover surface.
func MonthGrid(m calendar.Month, cells []calendar.Cell) string {
	t := theme.Active

	base := lipgloss.NewStyle().
		Background(t.Surface).
		Width(CalendarCellWidth).
		Align(lipgloss.Right)
	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)
	headerStyle := base.Foreground(t.TextMuted)

	var b strings.Builder
	title := m.String()
	gridW := CalendarCellWidth * calendar.Columns
	b.WriteString(titleStyle.Width(gridW).Align(lipgloss.Center).Render(title))
	b.WriteString("\n")

	for _, h := range weekdayHeaders {
		b.WriteString(headerStyle.Render(h))
	}

	for _, c := range cells {
		if c.Col == 0 {
			b.WriteString("\n")
		}
		b.WriteString(dayStyle(base, c).Render(dayLabel(c)))
	}

	// Pad the final row so every line has the same width.
	if rem := len(cells) % calendar.Columns; rem != 0 {
		fill := lipgloss.NewStyle().Background(t.Surface)
		b.WriteString(fill.Render(strings.Repeat(" ", CalendarCellWidth*(calendar.Columns-rem))))
	}
	return b.String()
}

func dayLabel(c calendar.Cell) string {
	if c.Empty {
		return ""
	}
	return fmt.Sprintf("%d", c.Day)
}

func dayStyle(base lipgloss.Style, c calendar.Cell) lipgloss.Style {
	t := theme.Active
	switch {
	case c.Empty:
		return base
	case c.IsSelected:
		s := base.Background(t.SurfaceHover).Bold(true)
		if c.HasCompletion {
			return s.Foreground(t.DoneBright)
		}
		return s.Foreground(t.TextPrimary)
	case c.HasCompletion:
		s := base.Foreground(t.Done).Bold(true)
		if c.IsToday {
			s = s.Underline(true)
		}
		return s
	case c.IsToday:
		return base.Foreground(t.Accent).Underline(true)
	default:
		return base.Foreground(t.TextDim)
	}
}
