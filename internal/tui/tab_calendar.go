package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/pipeline"
	"github.com/theirongolddev/habitual/internal/tui/components"
	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// calendarCardWidth fits the grid plus border and padding.
const calendarCardWidth = components.CalendarCellWidth*calendar.Columns + 4

func (a App) renderCalendarTab(cw int) string {
	cells := a.month.Grid(a.now(), a.selected, a.habits.HasAnyCompletionOn)
	grid := components.ContentCard("", components.MonthGrid(a.month, cells), calendarCardWidth, true)

	detailW := max(cw-calendarCardWidth, 20)
	detail := components.ContentCard(cli.FormatDate(a.selected), a.renderDayDetail(detailW), detailW, false)

	return components.CardRow([]string{grid, detail})
}

// renderDayDetail lists the habits completed on the selected date.
func (a App) renderDayDetail(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	habits := a.habits.Snapshot()
	day := pipeline.CompletedOn(habits, a.selected)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	doneStyle := lipgloss.NewStyle().Foreground(t.Done).Background(t.Surface).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d habits", len(day.Completed), len(habits))))
	b.WriteString("\n")
	b.WriteString(components.ProgressBar(len(day.Completed), len(habits), max(innerW-5, 4)))
	b.WriteString("\n\n")

	if len(day.Completed) == 0 {
		b.WriteString(mutedStyle.Render("Nothing completed on this day."))
		return b.String()
	}
	for i, h := range day.Completed {
		line := doneStyle.Render("✓ ") +
			nameStyle.Render(truncStr(h.Name, innerW-4-len(h.Category)-3)) +
			mutedStyle.Render("  "+h.Category)
		b.WriteString(line)
		if i < len(day.Completed)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
