package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/config"
	"github.com/theirongolddev/habitual/internal/habit"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/pipeline"
	"github.com/theirongolddev/habitual/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataFile string
	flagBackend  string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "habitual",
	Short: "Track daily habits and streaks",
	Long:  "Track daily habits from the terminal: check them off, keep streaks going, and browse a monthly calendar.",
	RunE:  runList,

	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setupLogger()
	},
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataFile, "data-file", "f", "", "Habit data file (json file or sqlite database)")
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Storage backend: json or sqlite")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress warnings")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
}

// setupLogger installs the default slog handler on stderr. The flag wins
// over the config file.
func setupLogger() error {
	level := flagLogLevel
	if level == "" {
		cfg, _ := config.Load()
		level = cfg.Log.Level
	}

	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid log level %q", level)
		}
	} else {
		lvl = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig reads the config file. A broken file is reported and the
// defaults are used instead.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(err.Error()+" (using defaults)"))
	}
	return cfg
}

// backendTarget resolves the backend kind and path from flags, env and
// config, in that order.
func backendTarget(cfg config.Config) (store.Kind, string, error) {
	name := cfg.General.Backend
	if flagBackend != "" {
		name = flagBackend
	}
	kind, err := store.ParseKind(name)
	if err != nil {
		return "", "", err
	}

	path := flagDataFile
	if path == "" {
		switch kind {
		case store.KindSQLite:
			path = cfg.General.DBPath
			if path == "" {
				path = pipeline.DefaultDBPath()
			}
		default:
			path = cfg.General.DataFile
			if path == "" {
				path = pipeline.DefaultDataFile()
			}
		}
	}
	return kind, path, nil
}

func openBackend(cfg config.Config) (store.Backend, error) {
	kind, path, err := backendTarget(cfg)
	if err != nil {
		return nil, err
	}
	slog.Debug("opening backend", "kind", kind, "path", path)
	return store.Open(kind, path, store.Options{History: cfg.General.History})
}

// errUnreadableData blocks saves that would replace a payload that failed
// to load.
var errUnreadableData = errors.New("saved habits could not be read")

// session is the shared load/modify/save path used by all commands.
type session struct {
	cfg     config.Config
	backend store.Backend
	path    string
	habits  *habit.Store
	today   time.Time

	fresh   bool
	loadErr error
}

func openSession(ctx context.Context) (*session, error) {
	return openSessionWith(ctx, loadConfig())
}

func openSessionWith(ctx context.Context, cfg config.Config) (*session, error) {
	_, path, err := backendTarget(cfg)
	if err != nil {
		return nil, err
	}
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	res := pipeline.Load(ctx, backend)
	if res.Err != nil && !flagQuiet {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(res.Err.Error()+" (starting with no habits)"))
	}

	return &session{
		cfg:     cfg,
		backend: backend,
		path:    path,
		habits:  habit.NewStore(res.Habits...),
		today:   model.Today(),
		fresh:   res.Fresh,
		loadErr: res.Err,
	}, nil
}

// save writes the current habits. It refuses when the stored payload was
// unreadable, so a mutation never silently replaces it.
func (s *session) save(ctx context.Context) error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %s was left untouched; fix it or restore with 'habitual import FILE'",
			errUnreadableData, s.path)
	}
	return s.overwrite(ctx)
}

// overwrite writes the current habits even over unreadable data.
func (s *session) overwrite(ctx context.Context) error {
	return pipeline.Save(ctx, s.backend, s.habits.Snapshot())
}

func (s *session) close() {
	if err := s.backend.Close(); err != nil {
		slog.Warn("closing backend", "err", err)
	}
}

// resolveHabit finds a habit by 1-based list number or by name
// (case-insensitive, first match).
func resolveHabit(habits []model.Habit, ref string) (int, model.Habit, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(habits) {
			return 0, model.Habit{}, fmt.Errorf("no habit #%d: %w", n, habit.ErrIndex)
		}
		return n - 1, habits[n-1], nil
	}

	for i, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return i, h, nil
		}
	}
	return 0, model.Habit{}, fmt.Errorf("no habit named %q", ref)
}

// parseDate accepts YYYY-MM-DD, "today" and "yesterday". Empty means today.
func parseDate(s string, today time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	return model.ParseDateKey(strings.TrimSpace(s))
}
