package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders today's completion ratio as a bar with percentage.
func ProgressBar(done, total, width int) string {
	t := theme.Active
	if width < 1 {
		width = 1
	}

	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	filled := int(pct * float64(width))
	filled = min(max(filled, 0), width)

	barColor := t.Done
	if pct >= 1 {
		barColor = t.DoneBright
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}
