// Package daemon serves a habit store over a local HTTP/SSE API.
package daemon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/habitual/internal/codec"
	"github.com/theirongolddev/habitual/internal/habit"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/pipeline"
	"github.com/theirongolddev/habitual/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Backend store.Backend

	// WatchPath, when set, is reloaded whenever it changes on disk.
	WatchPath string

	Addr         string
	EventsBuffer int

	// Now returns the current day. Defaults to model.Today.
	Now func() time.Time
}

// Event types published to /v1/events and /v1/stream.
const (
	EventSnapshot          = "snapshot"
	EventHabitAdded        = "habit_added"
	EventHabitDeleted      = "habit_deleted"
	EventCompletionSet     = "completion_set"
	EventCompletionCleared = "completion_cleared"
	EventReloaded          = "reloaded"
)

// Event is emitted whenever the habit collection changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Index     *int      `json:"index,omitempty"`
	Habit     string    `json:"habit,omitempty"`
	Date      string    `json:"date,omitempty"`
	Summary   Summary   `json:"summary"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastSaveAt      time.Time `json:"last_save_at"`
	SaveCount       int64     `json:"save_count"`
	ReloadCount     int64     `json:"reload_count"`
	Watching        string    `json:"watching,omitempty"`
	Summary         Summary   `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	habits *habit.Store
	log    *slog.Logger

	// opMu serialises mutate-then-save so saves land in mutation order.
	opMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastSaveAt  time.Time
	saveCount   int64
	reloadCount int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service over the given initial habits.
func New(cfg Config, initial []model.Habit) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Now == nil {
		cfg.Now = model.Today
	}

	return &Service{
		cfg:       cfg,
		habits:    habit.NewStore(initial...),
		log:       slog.Default().With("component", "daemon"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/habits", s.handleListHabits)
	mux.HandleFunc("POST /v1/habits", s.handleAddHabit)
	mux.HandleFunc("DELETE /v1/habits/{index}", s.handleDeleteHabit)
	mux.HandleFunc("PUT /v1/habits/{index}/completions/{date}", s.handleSetCompletion)
	mux.HandleFunc("DELETE /v1/habits/{index}/completions/{date}", s.handleClearCompletion)
	mux.HandleFunc("GET /v1/calendar", s.handleCalendar)
	mux.HandleFunc("GET /v1/days/{date}", s.handleDay)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return s.withRequestID(mux)
}

// Run serves the HTTP API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var changes <-chan struct{}
	if s.cfg.WatchPath != "" {
		w, err := store.NewWatcher(s.cfg.WatchPath, 150*time.Millisecond)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			s.log.Warn("file watch unavailable", "path", s.cfg.WatchPath, "err", err)
		} else {
			defer w.Stop()
			changes = w.Changes
		}
	}

	s.publish(EventSnapshot, "", nil, "", "")

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.reload(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// reload replaces the in-memory habits with the backend's state when it
// differs. Corrupt or unreadable state is logged and ignored.
func (s *Service) reload(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	res := pipeline.Load(ctx, s.cfg.Backend)
	if res.Err != nil {
		s.setError(res.Err)
		s.log.Warn("reload skipped", "err", res.Err)
		return
	}

	current, err := codec.Marshal(s.habits.Snapshot())
	if err != nil {
		return
	}
	incoming, err := codec.Marshal(res.Habits)
	if err != nil || bytes.Equal(current, incoming) {
		return
	}

	s.habits.Replace(res.Habits)
	s.mu.Lock()
	s.reloadCount++
	s.mu.Unlock()

	s.log.Info("reloaded habits from disk", "count", len(res.Habits))
	s.publish(EventReloaded, "", nil, "", "")
}

// save persists the current collection. Callers hold opMu.
func (s *Service) save(ctx context.Context) error {
	if s.cfg.Backend == nil {
		return nil
	}
	if err := pipeline.Save(ctx, s.cfg.Backend, s.habits.Snapshot()); err != nil {
		s.setError(err)
		s.log.Error("save failed", "err", err)
		return err
	}
	s.mu.Lock()
	s.lastSaveAt = time.Now()
	s.saveCount++
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// commit saves a mutation. When the save fails the collection is put back
// to before, so memory never holds changes the disk lacks and a client
// retry cannot apply twice. Callers hold opMu.
func (s *Service) commit(ctx context.Context, before []model.Habit) error {
	if err := s.save(ctx); err != nil {
		s.habits.Replace(before)
		return err
	}
	return nil
}

func (s *Service) setError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) publish(typ, requestID string, index *int, name, date string) {
	summary := summaryOf(s.habits.Snapshot(), s.cfg.Now())

	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		RequestID: requestID,
		Index:     index,
		Habit:     name,
		Date:      date,
		Summary:   summary,
	}
	s.mu.Unlock()

	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	summary := summaryOf(s.habits.Snapshot(), s.cfg.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastSaveAt:      s.lastSaveAt,
		SaveCount:       s.saveCount,
		ReloadCount:     s.reloadCount,
		Watching:        s.cfg.WatchPath,
		Summary:         summary,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

type ctxKey struct{}

// withRequestID tags every request with an X-Request-ID, reusing the
// caller's when present.
func (s *Service) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
