package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/habitual/internal/config"
	"github.com/theirongolddev/habitual/internal/store"
	"github.com/theirongolddev/habitual/internal/tui/components"
	"github.com/theirongolddev/habitual/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type formKind int

const (
	formNone formKind = iota
	formAdd
	formDelete
)

// addValues holds the add-habit form fields. The form binds to these by
// pointer, so App keeps a pointer too.
type addValues struct {
	Name     string
	Category string
}

type deleteValues struct {
	Index   int
	Name    string
	Confirm bool
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func newAddForm(vals *addValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New habit").
				Placeholder("Drink water").
				Value(&vals.Name).
				Validate(requireText("name")),
			huh.NewInput().
				Title("Category").
				Placeholder("Health").
				Value(&vals.Category).
				Validate(requireText("category")),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

// NewDeleteConfirm builds the confirmation prompt shown before a habit is
// removed. Also used by the rm command.
func NewDeleteConfirm(name string, confirm *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete \"" + name + "\"?").
				Description("Its completion history is removed too.").
				Affirmative("Delete").
				Negative("Keep").
				Value(confirm),
		),
	).WithTheme(huh.ThemeDracula())
}

func (a App) formWidth() int {
	return min(max(a.width-8, 30), 60)
}

func (a App) openAddForm() (tea.Model, tea.Cmd) {
	a.addVals = &addValues{}
	a.formKind = formAdd
	a.form = newAddForm(a.addVals).WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) openDeleteForm() (tea.Model, tea.Cmd) {
	h, err := a.habits.At(a.cursor)
	if err != nil {
		return a, nil
	}
	a.deleteVals = &deleteValues{Index: a.cursor, Name: h.Name}
	a.formKind = formDelete
	a.form = NewDeleteConfirm(h.Name, &a.deleteVals.Confirm).WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return a.closeForm("Cancelled"), nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.finishForm()
	case huh.StateAborted:
		return a.closeForm("Cancelled"), nil
	}
	return a, cmd
}

func (a App) closeForm(text string) App {
	a.form = nil
	a.formKind = formNone
	a.status = components.StatusMessage{Text: text}
	return a
}

// finishForm applies a completed form to the store.
func (a App) finishForm() (tea.Model, tea.Cmd) {
	kind := a.formKind
	a = a.closeForm("")

	switch kind {
	case formAdd:
		h, err := a.habits.Add(a.addVals.Name, a.addVals.Category)
		if err != nil {
			a.status = components.StatusMessage{Text: err.Error(), Error: true}
			return a, nil
		}
		a.cursor = a.habits.Len() - 1
		a.status = components.StatusMessage{Text: "Added " + h.Name}
		cmd := a.markDirty()
		return a, cmd

	case formDelete:
		if !a.deleteVals.Confirm {
			a.status = components.StatusMessage{Text: "Kept " + a.deleteVals.Name}
			return a, nil
		}
		if err := a.habits.Delete(a.deleteVals.Index); err != nil {
			a.status = components.StatusMessage{Text: err.Error(), Error: true}
			return a, nil
		}
		a.clampCursor()
		a.status = components.StatusMessage{Text: "Deleted " + a.deleteVals.Name}
		cmd := a.markDirty()
		return a, cmd
	}
	return a, nil
}

// SetupValues holds the choices made in the setup wizard.
type SetupValues struct {
	Backend  string
	DataFile string
	Theme    string
	Autosave bool
}

// SetupValuesFrom seeds the wizard with the current configuration.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		Backend:  cfg.General.Backend,
		DataFile: cfg.General.DataFile,
		Theme:    cfg.Appearance.Theme,
		Autosave: cfg.General.Autosave,
	}
}

// Apply copies the wizard choices into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.General.Backend = v.Backend
	cfg.General.DataFile = strings.TrimSpace(v.DataFile)
	cfg.General.Autosave = v.Autosave
	cfg.Appearance.Theme = v.Theme
}

// NewSetupForm builds the first-run configuration wizard.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to habitual").
				Description("A few choices and you're set.\nRun `habitual setup` again anytime."),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage").
				Options(
					huh.NewOption("JSON file", string(store.KindJSON)),
					huh.NewOption("SQLite with snapshot history", string(store.KindSQLite)),
				).
				Value(&vals.Backend),
			huh.NewInput().
				Title("Data file").
				Description("Leave blank for the default location.").
				Value(&vals.DataFile),
			huh.NewConfirm().
				Title("Save automatically after every change?").
				Value(&vals.Autosave),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}
