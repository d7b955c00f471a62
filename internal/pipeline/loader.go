package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/theirongolddev/habitual/internal/codec"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/store"
)

// LoadResult holds the outcome of reading persisted habits.
type LoadResult struct {
	Habits []model.Habit

	// Fresh is set when the backend had no saved state.
	Fresh bool

	// Err records a read or decode failure. Habits is empty in that case;
	// callers may surface it but should keep running.
	Err error
}

// Load reads and decodes habits from backend. It never fails: missing state
// and unreadable or corrupt payloads both yield an empty collection.
func Load(ctx context.Context, backend store.Backend) *LoadResult {
	log := slog.Default().With("component", "pipeline")

	payload, err := backend.Load(ctx)
	if errors.Is(err, store.ErrNoState) {
		return &LoadResult{Habits: []model.Habit{}, Fresh: true}
	}
	if err != nil {
		log.Warn("load failed, starting empty", "err", err)
		return &LoadResult{Habits: []model.Habit{}, Err: fmt.Errorf("loading habits: %w", err)}
	}

	habits, err := codec.Unmarshal(payload)
	if err != nil {
		log.Warn("decode failed, starting empty", "err", err)
		return &LoadResult{Habits: []model.Habit{}, Err: fmt.Errorf("decoding habits: %w", err)}
	}

	log.Debug("loaded habits", "count", len(habits))
	return &LoadResult{Habits: habits}
}

// Save encodes habits and writes them through backend. The caller's slice
// is not modified.
func Save(ctx context.Context, backend store.Backend, habits []model.Habit) error {
	payload, err := codec.Marshal(habits)
	if err != nil {
		return err
	}
	if err := backend.Save(ctx, payload); err != nil {
		return fmt.Errorf("saving habits: %w", err)
	}
	slog.Default().With("component", "pipeline").Debug("saved habits", "count", len(habits))
	return nil
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "habitual")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "habitual")
}

// DefaultDataFile returns the default JSON data file path.
func DefaultDataFile() string {
	return filepath.Join(DataDir(), "habits.json")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "habits.db")
}
