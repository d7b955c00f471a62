package components

import (
	"strings"

	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// StatusMessage is the transient text shown at the right of the status bar.
type StatusMessage struct {
	Text  string
	Error bool
}

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the last message (or an unsaved marker) on the right.
func RenderStatusBar(width int, hints []key.Binding, msg StatusMessage, dirty bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Background(t.Surface)
	keyStyle := base.Foreground(t.Accent).Bold(true)
	descStyle := base.Foreground(t.TextMuted)

	var parts []string
	for _, b := range hints {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, keyStyle.Render(h.Key)+descStyle.Render(" "+h.Desc))
	}
	left := base.Render(" ") + strings.Join(parts, descStyle.Render("  "))

	var right string
	switch {
	case msg.Text != "" && msg.Error:
		right = base.Foreground(t.Danger).Render(msg.Text + " ")
	case msg.Text != "":
		right = base.Foreground(t.Done).Render(msg.Text + " ")
	case dirty:
		right = base.Foreground(t.Warning).Render("● unsaved ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
