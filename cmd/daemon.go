package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/theirongolddev/habitual/internal/client"
	"github.com/theirongolddev/habitual/internal/config"
	"github.com/theirongolddev/habitual/internal/daemon"
	"github.com/theirongolddev/habitual/internal/pipeline"
	"github.com/theirongolddev/habitual/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonNoWatch      bool
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve habits over a local HTTP/SSE API",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultPID := filepath.Join(pipeline.DataDir(), "habituald.pid")
	defaultLog := filepath.Join(pipeline.DataDir(), "habituald.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonNoWatch, "no-watch", false, "Do not reload when the data file changes on disk")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonAddr resolves the listen address from the flag or config.
func daemonAddr(cfg config.Config) string {
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	return cfg.Daemon.Addr
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground(cmd.Context())
}

func startDaemonDetached() error {
	if err := pidFile(flagDaemonPIDFile).ensureFree(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := withoutDetach(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", daemonAddr(loadConfig()))
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground(ctx context.Context) error {
	pf := pidFile(flagDaemonPIDFile)
	if err := pf.ensureFree(); err != nil {
		return err
	}

	cfg := loadConfig()
	kind, path, err := backendTarget(cfg)
	if err != nil {
		return err
	}
	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	res := pipeline.Load(ctx, backend)
	if res.Err != nil {
		return fmt.Errorf("%w (%s): %v", errUnreadableData, path, res.Err)
	}

	addr := daemonAddr(cfg)
	if err := pf.claim(daemonRuntimeState{
		PID:       os.Getpid(),
		Addr:      addr,
		StartedAt: time.Now(),
		Backend:   string(kind),
		DataPath:  path,
	}); err != nil {
		return err
	}
	defer pf.release()

	// Only the JSON file can be edited out from under the daemon.
	watch := ""
	if kind == store.KindJSON && cfg.Daemon.Watch && !flagDaemonNoWatch {
		watch = path
	}

	events := cfg.Daemon.EventsBuffer
	if flagDaemonEventsBuffer > 0 {
		events = flagDaemonEventsBuffer
	}

	svc := daemon.New(daemon.Config{
		Backend:      backend,
		WatchPath:    watch,
		Addr:         addr,
		EventsBuffer: events,
	}, res.Habits)

	fmt.Printf("  habitual daemon listening on http://%s\n", addr)
	fmt.Printf("  Serving %d habits from %s (%s)\n", len(res.Habits), path, kind)
	fmt.Printf("  Stop with: habitual daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	pid, err := pf.pid()
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := daemonAddr(loadConfig())
	rt, rtErr := pf.state()
	if rtErr == nil && rt.Addr != "" {
		addr = rt.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)
	if rtErr == nil && rt.DataPath != "" {
		fmt.Printf("  Data: %s (%s)\n", rt.DataPath, rt.Backend)
	}

	st, err := client.New(addr).Status(cmd.Context())
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}

	fmt.Printf("  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	if st.LastSaveAt.IsZero() {
		fmt.Printf("  Last save: none yet\n")
	} else {
		fmt.Printf("  Last save: %s\n", st.LastSaveAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Saves: %d  Reloads: %d\n", st.SaveCount, st.ReloadCount)
	if st.Watching != "" {
		fmt.Printf("  Watching: %s\n", st.Watching)
	}
	fmt.Printf("  Habits: %d (%d done today)\n", st.Summary.TotalHabits, st.Summary.CompletedToday)
	fmt.Printf("  Subscribers: %d\n", st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	pid, err := pf.pid()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}
	if !waitExit(pid, 8*time.Second) {
		return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
	}

	pf.release()
	fmt.Printf("  Stopped daemon (pid %d)\n", pid)
	return nil
}
