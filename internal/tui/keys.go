package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Global
	NextTab  key.Binding
	PrevTab  key.Binding
	Habits   key.Binding
	Calendar key.Binding
	Save     key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Habits tab
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Add    key.Binding
	Delete key.Binding

	// Calendar tab
	DayPrev   key.Binding
	DayNext   key.Binding
	WeekPrev  key.Binding
	WeekNext  key.Binding
	MonthPrev key.Binding
	MonthNext key.Binding
	Today     key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Habits: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "habits"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "calendar"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter", "x"),
			key.WithHelp("space", "toggle today"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		DayPrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev day"),
		),
		DayNext: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next day"),
		),
		WeekPrev: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		WeekNext: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		MonthPrev: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("p", "prev month"),
		),
		MonthNext: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
	}
}

// HintsFor returns the status bar hints for a tab.
func (k KeyMap) HintsFor(tab int) []key.Binding {
	if tab == tabCalendar {
		return []key.Binding{k.DayPrev, k.DayNext, k.MonthPrev, k.MonthNext, k.Today, k.Habits, k.Quit}
	}
	return []key.Binding{k.Toggle, k.Add, k.Delete, k.Save, k.Calendar, k.Help, k.Quit}
}
