package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/habit"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/pipeline"
)

var errBadRequest = errors.New("bad request")

// Summary is the header figures for the current day.
type Summary struct {
	Today          string `json:"today"`
	TotalHabits    int    `json:"total_habits"`
	CompletedToday int    `json:"completed_today"`
}

// Habit is the wire form of a habit.
type Habit struct {
	Index          int      `json:"index"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Streak         int      `json:"streak"`
	CompletedToday bool     `json:"completed_today"`
	Completions    []string `json:"completions"`
}

// Cell is the wire form of a calendar cell.
type Cell struct {
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	Empty         bool   `json:"empty"`
	Date          string `json:"date,omitempty"`
	Day           int    `json:"day,omitempty"`
	IsToday       bool   `json:"is_today"`
	IsSelected    bool   `json:"is_selected"`
	HasCompletion bool   `json:"has_completion"`
	Completed     int    `json:"completed"`
}

// Calendar is served at /v1/calendar.
type Calendar struct {
	Month string `json:"month"`
	Title string `json:"title"`
	Rows  int    `json:"rows"`
	Cells []Cell `json:"cells"`
}

// Day is served at /v1/days/{date}.
type Day struct {
	Date      string  `json:"date"`
	Completed []Habit `json:"completed"`
}

type addRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func summaryOf(habits []model.Habit, today time.Time) Summary {
	st := pipeline.Summarize(habits, today)
	return Summary{
		Today:          model.DateKey(st.Today),
		TotalHabits:    st.TotalHabits,
		CompletedToday: st.CompletedToday,
	}
}

func toWire(index int, h model.Habit, todayKey string) Habit {
	keys := make([]string, 0, len(h.Completions))
	for k := range h.Completions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Habit{
		Index:          index,
		Name:           h.Name,
		Category:       h.Category,
		Streak:         h.Streak,
		CompletedToday: h.CompletedOn(todayKey),
		Completions:    keys,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleListHabits(w http.ResponseWriter, r *http.Request) {
	todayKey := model.DateKey(s.cfg.Now())
	filtered := pipeline.FilterByCategory(s.habits.Snapshot(), r.URL.Query().Get("category"))

	out := make([]Habit, 0, len(filtered))
	for _, ih := range filtered {
		out = append(out, toWire(ih.Index, ih.Habit, todayKey))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleAddHabit(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: decoding body: %v", errBadRequest, err))
		return
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	before := s.habits.Snapshot()
	h, err := s.habits.Add(req.Name, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	index := s.habits.Len() - 1
	if err := s.commit(r.Context(), before); err != nil {
		writeError(w, err)
		return
	}

	s.publish(EventHabitAdded, requestID(r), &index, h.Name, "")
	writeJSON(w, http.StatusCreated, toWire(index, h, model.DateKey(s.cfg.Now())))
}

func (s *Service) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	h, err := s.habits.At(index)
	if err != nil {
		writeError(w, err)
		return
	}
	before := s.habits.Snapshot()
	if err := s.habits.Delete(index); err != nil {
		writeError(w, err)
		return
	}
	if err := s.commit(r.Context(), before); err != nil {
		writeError(w, err)
		return
	}

	s.publish(EventHabitDeleted, requestID(r), &index, h.Name, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleSetCompletion(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, true)
}

func (s *Service) handleClearCompletion(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, false)
}

func (s *Service) toggle(w http.ResponseWriter, r *http.Request, completed bool) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := pathDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	today := s.cfg.Now()
	before := s.habits.Snapshot()
	h, err := s.habits.Toggle(index, date, completed, today)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.commit(r.Context(), before); err != nil {
		writeError(w, err)
		return
	}

	typ := EventCompletionCleared
	if completed {
		typ = EventCompletionSet
	}
	s.publish(typ, requestID(r), &index, h.Name, model.DateKey(date))
	writeJSON(w, http.StatusOK, toWire(index, h, model.DateKey(today)))
}

func (s *Service) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.cfg.Now()
	month := calendar.MonthOf(today)
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := calendar.ParseMonth(v)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		month = m
	}

	var selected time.Time
	if v := r.URL.Query().Get("selected"); v != "" {
		d, err := model.ParseDateKey(v)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		selected = d
	}

	cells := month.Grid(today, selected, s.habits.HasAnyCompletionOn)
	out := Calendar{
		Month: month.First().Format("2006-01"),
		Title: month.String(),
		Rows:  calendar.Rows(cells),
		Cells: make([]Cell, 0, len(cells)),
	}
	for _, c := range cells {
		wc := Cell{
			Row:           c.Row,
			Col:           c.Col,
			Empty:         c.Empty,
			IsToday:       c.IsToday,
			IsSelected:    c.IsSelected,
			HasCompletion: c.HasCompletion,
		}
		if !c.Empty {
			wc.Date = c.Key()
			wc.Day = c.Day
			if c.HasCompletion {
				wc.Completed = s.habits.CountCompletedOn(c.Date)
			}
		}
		out.Cells = append(out.Cells, wc)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleDay(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	todayKey := model.DateKey(s.cfg.Now())
	key := model.DateKey(date)
	out := Day{Date: key, Completed: []Habit{}}
	for i, h := range s.habits.Snapshot() {
		if h.CompletedOn(key) {
			out.Completed = append(out.Completed, toWire(i, h, todayKey))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current summary immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Summary:   s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid index %q", errBadRequest, raw)
	}
	return n, nil
}

func pathDate(r *http.Request) (time.Time, error) {
	d, err := model.ParseDateKey(r.PathValue("date"))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return d, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, habit.ErrValidation), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, habit.ErrIndex):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
