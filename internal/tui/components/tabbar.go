package components

import (
	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Habits", Key: 'h', KeyPos: 0},
	{Name: "Calendar", Key: 'c', KeyPos: 0},
}

func tabStyles() (active, inactive, key, dimKey lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	key = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	dimKey = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)
	return active, inactive, key, dimKey
}

func renderTab(tab Tab, active bool) string {
	activeStyle, inactiveStyle, keyStyle, dimKeyStyle := tabStyles()
	if active {
		return activeStyle.Render(tab.Name)
	}

	pad := inactiveStyle.Render(" ")
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		before := tab.Name[:tab.KeyPos]
		key := string(tab.Name[tab.KeyPos])
		after := tab.Name[tab.KeyPos+1:]
		return pad + inactiveStyle.Render(before) +
			dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
			inactiveStyle.Render(after) + pad
	}
	return pad + inactiveStyle.Render(tab.Name) +
		dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]") + pad
}

// TabVisualWidth returns the rendered width of a tab, used for mouse hit-testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index. Tabs are
// separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	var bar string
	for i, tab := range Tabs {
		if i > 0 {
			bar += sep
		}
		bar += renderTab(tab, i == activeIdx)
	}

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
