package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	doneStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	streakStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. Widths are
// measured in terminal cells so emoji cells line up.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(" " + padRight(cell, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")
	return b.String()
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// RenderHabits renders the habit list with today's completion status.
func RenderHabits(habits []model.Habit, todayKey string) string {
	rows := make([][]string, 0, len(habits))
	for i, h := range habits {
		mark := "·"
		if h.CompletedOn(todayKey) {
			mark = "✓"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			mark,
			h.Name,
			h.Category,
			FormatStreak(h.Streak),
		})
	}
	return RenderTable(Table{
		Headers: []string{"#", "Today", "Habit", "Category", "Streak"},
		Rows:    rows,
	})
}

// RenderHabitLine renders a one-line confirmation for a single habit.
func RenderHabitLine(h model.Habit, todayKey string) string {
	mark := mutedStyle.Render("○")
	if h.CompletedOn(todayKey) {
		mark = doneStyle.Render("●")
	}
	return fmt.Sprintf("  %s %s %s  %s",
		mark,
		valueStyle.Render(h.Name),
		mutedStyle.Render("("+h.Category+")"),
		streakStyle.Render(FormatStreak(h.Streak)),
	)
}

// RenderMonth renders a calendar grid. Completed days are green, today is
// bold accent, and the selected day is reversed.
func RenderMonth(m calendar.Month, cells []calendar.Cell) string {
	rows := make([][]string, calendar.Rows(cells))
	flat := make([]calendar.Cell, len(rows)*calendar.Columns)
	for i := range rows {
		rows[i] = make([]string, calendar.Columns)
	}
	for _, c := range cells {
		flat[c.Index] = c
		if !c.Empty {
			rows[c.Row][c.Col] = strconv.Itoa(c.Day)
		}
	}

	headers := make([]string, calendar.Columns)
	for i := range headers {
		headers[i] = FormatDayOfWeek(i)[:2]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			if row == table.HeaderRow {
				return base.Inherit(headerStyle)
			}
			idx := row*calendar.Columns + col
			if idx < 0 || idx >= len(flat) {
				return base
			}
			c := flat[idx]
			switch {
			case c.Empty:
				return base
			case c.IsSelected:
				return base.Reverse(true)
			case c.HasCompletion && c.IsToday:
				return base.Foreground(ColorGreen).Bold(true).Underline(true)
			case c.HasCompletion:
				return base.Foreground(ColorGreen)
			case c.IsToday:
				return base.Foreground(ColorAccent).Bold(true)
			default:
				return base.Foreground(ColorTextMuted)
			}
		})

	title := headerStyle.Render("  " + m.String())
	return title + "\n" + t.Render() + "\n"
}

// RenderDay renders the habits completed on one date.
func RenderDay(d model.DayDetail) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(FormatDate(d.Date)))
	b.WriteString("\n")
	if len(d.Completed) == 0 {
		b.WriteString(mutedStyle.Render("  No habits completed."))
		b.WriteString("\n")
		return b.String()
	}
	for _, h := range d.Completed {
		b.WriteString("  ")
		b.WriteString(doneStyle.Render("✓ "))
		b.WriteString(valueStyle.Render(h.Name))
		b.WriteString(" ")
		b.WriteString(mutedStyle.Render("(" + h.Category + ")"))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s",
		doneStyle.Render(bar),
		FormatProgress(current, total),
	)
}

// RenderWarning renders a non-fatal problem line.
func RenderWarning(msg string) string {
	return warnStyle.Render("  ! " + msg)
}

// RenderMuted renders secondary text.
func RenderMuted(msg string) string {
	return mutedStyle.Render(msg)
}
