// Package tui provides the interactive Bubble Tea interface for habitual.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/habit"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/pipeline"
	"github.com/theirongolddev/habitual/internal/store"
	"github.com/theirongolddev/habitual/internal/tui/components"
	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabHabits   = 0
	tabCalendar = 1

	minTerminalWidth = 60
	maxContentWidth  = 120
	minContentHeight = 5
)

// Options configures a new App.
type Options struct {
	Backend  store.Backend
	Autosave bool

	// Now returns the current day. Defaults to model.Today.
	Now func() time.Time
}

// habitsLoadedMsg is sent when the initial load finishes.
type habitsLoadedMsg struct {
	Result   *pipeline.LoadResult
	LoadTime time.Duration
}

// savedMsg is sent when a background save finishes. Gen is the edit
// generation the saved snapshot was taken at.
type savedMsg struct {
	Gen  int
	Err  error
	Quit bool
}

// App is the root Bubble Tea model.
type App struct {
	backend  store.Backend
	habits   *habit.Store
	autosave bool
	now      func() time.Time
	keys     KeyMap

	loaded   bool
	loadTime time.Duration
	spinner  spinner.Model

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Habits tab
	cursor int

	// Calendar tab
	month    calendar.Month
	selected time.Time

	// Modal huh form (add / delete confirm)
	form       *huh.Form
	formKind   formKind
	addVals    *addValues
	deleteVals *deleteValues

	// gen counts edits. A save only clears dirty when it wrote the
	// snapshot of the current gen. At most one save runs at a time;
	// requests made meanwhile are queued in savePending/quitPending.
	gen         int
	dirty       bool
	saving      bool
	savePending bool
	quitPending bool
	confirmQuit bool
	status      components.StatusMessage
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	now := opts.Now
	if now == nil {
		now = model.Today
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	today := now()
	return App{
		backend:  opts.Backend,
		habits:   habit.NewStore(),
		autosave: opts.Autosave,
		now:      now,
		keys:     DefaultKeyMap(),
		spinner:  sp,
		month:    calendar.MonthOf(today),
		selected: model.Day(today),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadHabitsCmd(a.backend),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case habitsLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.habits.Replace(msg.Result.Habits)
		if msg.Result.Err != nil {
			a.status = components.StatusMessage{
				Text:  "Could not load saved habits, starting empty",
				Error: true,
			}
		}
		a.clampCursor()
		return a, nil

	case savedMsg:
		return a.handleSaved(msg)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return a.updateMouse(msg)
	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabHabits && msg.Action == tea.MouseActionPress {
			a.moveCursor(-1)
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabHabits && msg.Action == tea.MouseActionPress {
			a.moveCursor(1)
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionRelease && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" && !a.loaded {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Any key other than a second quit clears a pending quit confirmation.
	pendingQuit := a.confirmQuit
	a.confirmQuit = false
	if !key.Matches(msg, a.keys.Quit) {
		a.status = components.StatusMessage{}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit(pendingQuit)
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil
	case key.Matches(msg, a.keys.Save):
		cmd := a.save(false)
		return a, cmd
	case key.Matches(msg, a.keys.NextTab):
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case key.Matches(msg, a.keys.PrevTab):
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case key.Matches(msg, a.keys.Habits):
		a.activeTab = tabHabits
		return a, nil
	case key.Matches(msg, a.keys.Calendar):
		a.activeTab = tabCalendar
		return a, nil
	}

	if a.activeTab == tabCalendar {
		return a.updateCalendarKey(msg)
	}
	return a.updateHabitsKey(msg)
}

func (a App) updateHabitsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Toggle):
		return a.toggleToday()
	case key.Matches(msg, a.keys.Add):
		return a.openAddForm()
	case key.Matches(msg, a.keys.Delete):
		return a.openDeleteForm()
	}
	return a, nil
}

func (a App) updateCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.DayPrev):
		a.moveSelection(-1)
	case key.Matches(msg, a.keys.DayNext):
		a.moveSelection(1)
	case key.Matches(msg, a.keys.WeekPrev):
		a.moveSelection(-7)
	case key.Matches(msg, a.keys.WeekNext):
		a.moveSelection(7)
	case key.Matches(msg, a.keys.MonthPrev):
		a.setMonth(a.month.Prev())
	case key.Matches(msg, a.keys.MonthNext):
		a.setMonth(a.month.Next())
	case key.Matches(msg, a.keys.Today):
		today := a.now()
		a.selected = model.Day(today)
		a.month = calendar.MonthOf(today)
	}
	return a, nil
}

func (a App) toggleToday() (tea.Model, tea.Cmd) {
	h, err := a.habits.At(a.cursor)
	if err != nil {
		return a, nil
	}
	today := a.now()
	done := h.CompletedOn(model.DateKey(today))

	h, err = a.habits.Toggle(a.cursor, today, !done, today)
	if err != nil {
		a.status = components.StatusMessage{Text: err.Error(), Error: true}
		return a, nil
	}
	if done {
		a.status = components.StatusMessage{Text: h.Name + " unmarked"}
	} else {
		a.status = components.StatusMessage{Text: "✓ " + h.Name}
	}
	cmd := a.markDirty()
	return a, cmd
}

// quit saves first when autosave is on. With autosave off and unsaved
// changes, the first quit only warns.
func (a App) quit(confirmed bool) (tea.Model, tea.Cmd) {
	if !a.dirty || a.backend == nil {
		return a, tea.Quit
	}
	if a.autosave {
		cmd := a.save(true)
		return a, cmd
	}
	if confirmed {
		return a, tea.Quit
	}
	a.confirmQuit = true
	a.status = components.StatusMessage{Text: "Unsaved changes: s to save, q again to quit", Error: true}
	return a, nil
}

func (a *App) markDirty() tea.Cmd {
	a.gen++
	a.dirty = true
	if a.autosave {
		return a.save(false)
	}
	return nil
}

func (a *App) save(quit bool) tea.Cmd {
	if a.backend == nil {
		return nil
	}
	if a.saving {
		a.savePending = true
		a.quitPending = a.quitPending || quit
		return nil
	}
	a.saving = true
	return saveHabitsCmd(a.backend, a.habits.Snapshot(), a.gen, quit)
}

func (a App) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	a.saving = false
	quit := msg.Quit || a.quitPending
	pending := a.savePending
	a.savePending, a.quitPending = false, false

	if msg.Err != nil {
		a.status = components.StatusMessage{Text: "Save failed: " + msg.Err.Error(), Error: true}
		return a, nil
	}
	if msg.Gen == a.gen {
		a.dirty = false
		a.status = components.StatusMessage{Text: "Saved"}
	}

	switch {
	case a.dirty && (pending || quit):
		cmd := a.save(quit)
		return a, cmd
	case quit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	if n := a.habits.Len(); a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) moveSelection(days int) {
	a.selected = a.selected.AddDate(0, 0, days)
	a.month = calendar.MonthOf(a.selected)
}

// setMonth switches months, keeping the selected day-of-month where it
// exists and clamping to the last day otherwise.
func (a *App) setMonth(m calendar.Month) {
	a.month = m
	day := min(a.selected.Day(), calendar.DaysIn(m.Year, m.Month))
	a.selected = time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  habitual needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ habitual"))
	b.WriteString(subtitleStyle.Render(" · daily habits"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading habits..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	k := a.keys
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Global", []key.Binding{k.Habits, k.Calendar, k.NextTab, k.Save, k.Help, k.Quit}},
		{"Habits", []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Delete}},
		{"Calendar", []key.Binding{k.DayPrev, k.DayNext, k.WeekPrev, k.WeekNext, k.MonthPrev, k.MonthNext, k.Today}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			h := bind.Help()
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", h.Key)),
				descStyle.Render(h.Desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Loaded in %.1fs · press any key to close", a.loadTime.Seconds())))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(a.form.View()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.keys.HintsFor(a.activeTab), a.status, a.dirty)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	body := a.renderMetrics(cw) + "\n"
	switch a.activeTab {
	case tabCalendar:
		body += a.renderCalendarTab(cw)
	default:
		body += a.renderHabitsTab(cw, contentH-lipgloss.Height(body))
	}

	content := padHeight(truncateHeight(body, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderMetrics(cw int) string {
	t := theme.Active
	today := a.now()
	stats := pipeline.Summarize(a.habits.Snapshot(), today)

	barW := max(components.CardInnerWidth(cw/3)-5, 4)
	return components.MetricCardRow([]components.Metric{
		{Label: "Total Habits", Value: fmt.Sprintf("%d", stats.TotalHabits)},
		{
			Label: "Completed Today",
			Value: fmt.Sprintf("%d", stats.CompletedToday),
			Hint:  components.ProgressBar(stats.CompletedToday, stats.TotalHabits, barW),
			Color: t.Done,
		},
		{Label: "Today", Value: today.Format("Mon, Jan 2"), Color: t.Accent},
	}, cw)
}

// ─── Commands ───────────────────────────────────────────────────

func loadHabitsCmd(backend store.Backend) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if backend == nil {
			return habitsLoadedMsg{Result: &pipeline.LoadResult{Habits: []model.Habit{}, Fresh: true}}
		}
		res := pipeline.Load(context.Background(), backend)
		return habitsLoadedMsg{Result: res, LoadTime: time.Since(start)}
	}
}

func saveHabitsCmd(backend store.Backend, habits []model.Habit, gen int, quit bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return savedMsg{Gen: gen, Err: pipeline.Save(ctx, backend, habits), Quit: quit}
	}
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
