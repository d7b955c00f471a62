// Package theme defines color themes for the habitual TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Cursor row, selected calendar day
	Border       lipgloss.Color // Subtle borders
	BorderAccent lipgloss.Color // Focused card borders
	TextDim      lipgloss.Color // Padding cells, disabled hints
	TextMuted    lipgloss.Color // Labels, categories
	TextPrimary  lipgloss.Color // Habit names, values
	Accent       lipgloss.Color // Active tab, today marker
	AccentBright lipgloss.Color
	Done         lipgloss.Color // Completed habits and days
	DoneBright   lipgloss.Color
	Streak       lipgloss.Color // Streak counters
	Danger       lipgloss.Color // Delete prompts, errors
	Warning      lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#343331"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Done:         lipgloss.Color("#879A39"),
	DoneBright:   lipgloss.Color("#A3B859"),
	Streak:       lipgloss.Color("#DA702C"),
	Danger:       lipgloss.Color("#D14D41"),
	Warning:      lipgloss.Color("#D0A215"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#585B70"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Done:         lipgloss.Color("#A6E3A1"),
	DoneBright:   lipgloss.Color("#C6F6C1"),
	Streak:       lipgloss.Color("#FAB387"),
	Danger:       lipgloss.Color("#F38BA8"),
	Warning:      lipgloss.Color("#F9E2AF"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#414868"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Done:         lipgloss.Color("#9ECE6A"),
	DoneBright:   lipgloss.Color("#B9E87A"),
	Streak:       lipgloss.Color("#FF9E64"),
	Danger:       lipgloss.Color("#F7768E"),
	Warning:      lipgloss.Color("#E0AF68"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Done:         lipgloss.Color("2"),
	DoneBright:   lipgloss.Color("10"),
	Streak:       lipgloss.Color("3"),
	Danger:       lipgloss.Color("1"),
	Warning:      lipgloss.Color("3"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}
