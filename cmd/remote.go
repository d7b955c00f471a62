package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/theirongolddev/habitual/internal/client"
	"github.com/theirongolddev/habitual/internal/config"
)

// liveDaemon returns a client for a running daemon that serves the same data
// as this invocation would, or nil. Mutations then go through the daemon so
// its memory and event stream stay current.
func liveDaemon(ctx context.Context, cfg config.Config) *client.Client {
	pf := pidFile(flagDaemonPIDFile)
	if _, ok := pf.livePID(); !ok {
		return nil
	}
	st, err := pf.state()
	if err != nil || st.Addr == "" {
		return nil
	}

	kind, path, err := backendTarget(cfg)
	if err != nil || string(kind) != st.Backend || !samePath(path, st.DataPath) {
		return nil
	}

	c := client.New(st.Addr)
	if err := c.Health(ctx); err != nil {
		slog.Debug("daemon not reachable, using local data", "addr", st.Addr, "err", err)
		return nil
	}
	slog.Debug("routing through daemon", "addr", st.Addr)
	return c
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
