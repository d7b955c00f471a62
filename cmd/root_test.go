package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/habitual/internal/config"
	"github.com/theirongolddev/habitual/internal/habit"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/store"
)

func TestResolveHabit(t *testing.T) {
	habits := []model.Habit{
		{Name: "Read", Category: "Mind"},
		{Name: "Drink water", Category: "Health"},
	}

	tests := []struct {
		ref     string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"2", 1, false},
		{"drink WATER", 1, false},
		{" Read ", 0, false},
		{"0", 0, true},
		{"3", 0, true},
		{"Run", 0, true},
	}
	for _, tt := range tests {
		idx, h, err := resolveHabit(habits, tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolveHabit(%q) = %d, want error", tt.ref, idx)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveHabit(%q) error: %v", tt.ref, err)
			continue
		}
		if idx != tt.want || h.Name != habits[tt.want].Name {
			t.Errorf("resolveHabit(%q) = %d %q, want %d", tt.ref, idx, h.Name, tt.want)
		}
	}

	if _, _, err := resolveHabit(habits, "9"); !errors.Is(err, habit.ErrIndex) {
		t.Errorf("out-of-range number should wrap ErrIndex, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{"", "2026-03-01"},
		{"today", "2026-03-01"},
		{"Yesterday", "2026-02-28"},
		{"2025-12-31", "2025-12-31"},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in, today)
		if err != nil {
			t.Fatalf("parseDate(%q): %v", tt.in, err)
		}
		if k := model.DateKey(got); k != tt.want {
			t.Errorf("parseDate(%q) = %s, want %s", tt.in, k, tt.want)
		}
	}

	if _, err := parseDate("03/01/2026", today); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestBackendTarget(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	defer func() { flagBackend, flagDataFile = "", "" }()

	cfg := config.DefaultConfig()

	kind, path, err := backendTarget(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if kind != store.KindJSON || filepath.Base(path) != "habits.json" {
		t.Errorf("default target = %s %s", kind, path)
	}

	flagBackend = "sqlite"
	kind, path, err = backendTarget(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if kind != store.KindSQLite || filepath.Base(path) != "habits.db" {
		t.Errorf("sqlite target = %s %s", kind, path)
	}

	cfg.General.DBPath = "/tmp/custom.db"
	if _, path, _ = backendTarget(cfg); path != "/tmp/custom.db" {
		t.Errorf("config db_path ignored: %s", path)
	}

	flagDataFile = "/tmp/flag.db"
	if _, path, _ = backendTarget(cfg); path != "/tmp/flag.db" {
		t.Errorf("--data-file should win, got %s", path)
	}

	flagBackend = "yaml"
	if _, _, err = backendTarget(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestWithoutDetach(t *testing.T) {
	got := withoutDetach([]string{"daemon", "--detach", "--addr", "x", "--detach=true"})
	want := []string{"daemon", "--addr", "x"}
	if len(got) != len(want) {
		t.Fatalf("withoutDetach = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("withoutDetach = %v, want %v", got, want)
		}
	}
}

func TestSessionKeepsUnreadableData(t *testing.T) {
	flagQuiet = true
	defer func() { flagQuiet = false }()

	path := filepath.Join(t.TempDir(), "habits.json")
	corrupt := []byte(`[{"name": "Read"`)
	if err := os.WriteFile(path, corrupt, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.General.DataFile = path
	ctx := context.Background()

	s, err := openSessionWith(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.close()

	if _, err := s.habits.Add("Run", "Health"); err != nil {
		t.Fatal(err)
	}
	if err := s.save(ctx); !errors.Is(err, errUnreadableData) {
		t.Fatalf("save err = %v, want errUnreadableData", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(corrupt) {
		t.Fatalf("file was rewritten: %s", got)
	}

	// import replaces unreadable data on purpose.
	if err := s.overwrite(ctx); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	s2, err := openSessionWith(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.close()
	if s2.loadErr != nil || s2.habits.Len() != 1 {
		t.Fatalf("reload: err=%v len=%d, want nil and 1", s2.loadErr, s2.habits.Len())
	}
}

func TestSessionFresh(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DataFile = filepath.Join(t.TempDir(), "habits.json")

	s, err := openSessionWith(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.close()
	if !s.fresh || s.loadErr != nil {
		t.Fatalf("fresh=%v loadErr=%v, want true and nil", s.fresh, s.loadErr)
	}
	if s.path != cfg.General.DataFile {
		t.Fatalf("path = %s, want %s", s.path, cfg.General.DataFile)
	}
}

func TestPIDFile(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "run", "habituald.pid"))

	if err := pf.ensureFree(); err != nil {
		t.Fatalf("ensureFree on missing file: %v", err)
	}

	st := daemonRuntimeState{PID: os.Getpid(), Addr: "127.0.0.1:9", Backend: "json", DataPath: "/tmp/h.json"}
	if err := pf.claim(st); err != nil {
		t.Fatal(err)
	}
	if pid, ok := pf.livePID(); !ok || pid != os.Getpid() {
		t.Fatalf("livePID = %d, %v", pid, ok)
	}
	if err := pf.ensureFree(); err == nil {
		t.Fatal("ensureFree should fail while this process owns the file")
	}
	got, err := pf.state()
	if err != nil {
		t.Fatal(err)
	}
	if got.Addr != st.Addr || got.DataPath != st.DataPath {
		t.Fatalf("state = %+v, want %+v", got, st)
	}

	pf.release()
	if _, err := os.Stat(string(pf)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pid file still present: %v", err)
	}
	if _, err := os.Stat(pf.statePath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("state file still present: %v", err)
	}
}

func TestCheckStillAt(t *testing.T) {
	read := model.Habit{Name: "Read", Category: "Mind"}
	run := model.Habit{Name: "Run", Category: "Health"}

	if err := checkStillAt([]model.Habit{read, run}, 1, run); err != nil {
		t.Fatalf("unchanged list: %v", err)
	}
	// Read was deleted elsewhere, so Run moved up to #1.
	if err := checkStillAt([]model.Habit{run}, 0, read); err == nil {
		t.Fatal("expected an error when a different habit sits at the index")
	}
	if err := checkStillAt([]model.Habit{read}, 1, run); err == nil {
		t.Fatal("expected an error when the index is gone")
	}
}
