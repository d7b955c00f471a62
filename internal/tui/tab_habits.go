package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/tui/components"
	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHabitsTab(cw, h int) string {
	t := theme.Active
	habits := a.habits.Snapshot()
	title := fmt.Sprintf("Habits (%d)", len(habits))

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(habits) == 0 {
		body := mutedStyle.Render("No habits yet. Press a to add one.")
		return components.ContentCard(title, body, cw, true)
	}

	// Card border + title take three lines.
	visible := max(h-3, 1)
	start := 0
	if a.cursor >= visible {
		start = a.cursor - visible + 1
	}
	end := min(start+visible, len(habits))

	innerW := components.CardInnerWidth(cw)
	todayKey := model.DateKey(a.now())

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderHabitRow(habits[i], todayKey, i == a.cursor, innerW))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return components.ContentCard(title, b.String(), cw, true)
}

// renderHabitRow draws one habit: cursor, check mark, name, category and
// streak, filling exactly w columns.
func renderHabitRow(h model.Habit, todayKey string, selected bool, w int) string {
	t := theme.Active

	bg := t.Surface
	if selected {
		bg = t.SurfaceHover
	}
	base := lipgloss.NewStyle().Background(bg)
	cursorStyle := base.Foreground(t.AccentBright).Bold(true)
	nameStyle := base.Foreground(t.TextPrimary)
	catStyle := base.Foreground(t.TextMuted)
	streakStyle := base.Foreground(t.Streak)

	cursor := "  "
	if selected {
		cursor = "› "
	}

	mark := base.Foreground(t.TextDim).Render("○ ")
	if h.CompletedOn(todayKey) {
		mark = base.Foreground(t.Done).Bold(true).Render("✓ ")
		nameStyle = nameStyle.Foreground(t.DoneBright)
	}

	streak := ""
	if h.Streak > 0 {
		streak = cli.FormatStreak(h.Streak)
	}

	streakW := lipgloss.Width(streak)
	catW := min(16, max(w/4, 8))
	nameW := max(w-4-catW-streakW-2, 4)

	name := fmt.Sprintf("%-*s", nameW, truncStr(h.Name, nameW))
	cat := fmt.Sprintf("%-*s", catW, truncStr(h.Category, catW))

	row := cursorStyle.Render(cursor) +
		mark +
		nameStyle.Render(name) +
		catStyle.Render(cat) +
		base.Render("  ") +
		streakStyle.Render(streak)

	if pad := w - lipgloss.Width(row); pad > 0 {
		row += base.Render(strings.Repeat(" ", pad))
	}
	return row
}
