package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// daemonRuntimeState is written beside the pid file so other commands can
// find the API and tell which data the daemon serves.
type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Backend   string    `json:"backend"`
	DataPath  string    `json:"data_path"`
}

// pidFile is the daemon's pid file path. The runtime state lives next to
// it with a .json suffix.
type pidFile string

func (p pidFile) statePath() string { return string(p) + ".json" }

// claim writes the pid and runtime state for the current process.
func (p pidFile) claim(st daemonRuntimeState) error {
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(string(p), []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
}

func (p pidFile) release() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.statePath())
}

func (p pidFile) pid() (int, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p)
	}
	return pid, nil
}

func (p pidFile) state() (daemonRuntimeState, error) {
	var st daemonRuntimeState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

// livePID returns the pid of a running daemon.
func (p pidFile) livePID() (int, bool) {
	pid, err := p.pid()
	if err != nil || !processAlive(pid) {
		return 0, false
	}
	return pid, true
}

// ensureFree fails if a live daemon owns the pid file and clears a stale one.
func (p pidFile) ensureFree() error {
	pid, err := p.pid()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case processAlive(pid):
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	slog.Debug("removing stale pid file", "path", string(p), "pid", pid)
	p.release()
	return nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// waitExit polls until pid is gone or timeout passes.
func waitExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return true
		}
		time.Sleep(150 * time.Millisecond)
	}
	return false
}

// withoutDetach drops --detach so the re-executed child runs in the
// foreground.
func withoutDetach(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
