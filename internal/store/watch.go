package store

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports debounced changes to a single file. It watches the parent
// directory so atomic renames over the file are seen.
type Watcher struct {
	Path    string
	Changes <-chan struct{}

	changes  chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	stopOnce sync.Once
	log      *slog.Logger
}

// NewWatcher creates a watcher for path. Call Start to begin delivery.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	ch := make(chan struct{}, 1)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: debounce,
		log:      slog.Default().With("component", "watcher"),
	}, nil
}

// Start begins watching the file's directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		_ = w.watcher.Close()
		<-w.done
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				pending = time.Time{}
				w.emit()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "path", w.Path, "err", err)
		}
	}
}

// emit coalesces notifications: a pending signal is never doubled.
func (w *Watcher) emit() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
