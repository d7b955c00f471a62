package habit

import (
	"errors"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/habitual/internal/model"
)

var today = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestAdd(t *testing.T) {
	s := NewStore()

	h, err := s.Add("  Read  ", " Learning ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if h.Name != "Read" || h.Category != "Learning" {
		t.Fatalf("Add stored %q/%q, want trimmed values", h.Name, h.Category)
	}
	if h.Streak != 0 || len(h.Completions) != 0 {
		t.Fatalf("new habit streak=%d completions=%v, want 0 and empty", h.Streak, h.Completions)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name     string
		habit    string
		category string
	}{
		{"empty name", "", "Health"},
		{"blank name", "   ", "Health"},
		{"empty category", "Run", ""},
		{"blank category", "Run", "\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			_, err := s.Add(tt.habit, tt.category)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Add error = %v, want ErrValidation", err)
			}
			if s.Len() != 0 {
				t.Fatalf("Len = %d after failed add, want 0", s.Len())
			}
		})
	}
}

func TestDelete_ShiftsPositions(t *testing.T) {
	s := NewStore()
	for _, n := range []string{"A", "B", "C"} {
		if _, err := s.Add(n, "x"); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	h, _ := s.At(1)
	if h.Name != "C" {
		t.Fatalf("At(1) = %q, want C", h.Name)
	}
}

func TestDelete_OutOfRange(t *testing.T) {
	s := NewStore(model.Habit{Name: "A", Category: "x"})
	for _, idx := range []int{-1, 1, 5} {
		if err := s.Delete(idx); !errors.Is(err, ErrIndex) {
			t.Errorf("Delete(%d) error = %v, want ErrIndex", idx, err)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestToggle_RecomputesStreak(t *testing.T) {
	s := NewStore()
	s.Add("Run", "Health")

	for _, n := range []int{2, 1, 0} {
		if _, err := s.Toggle(0, daysAgo(n), true, today); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}
	h, _ := s.At(0)
	if h.Streak != 3 {
		t.Fatalf("Streak = %d, want 3", h.Streak)
	}

	h, err := s.Toggle(0, daysAgo(1), false, today)
	if err != nil {
		t.Fatalf("Toggle off: %v", err)
	}
	if h.Streak != 1 {
		t.Fatalf("Streak after unmarking yesterday = %d, want 1", h.Streak)
	}
	if _, ok := h.Completions[model.DateKey(daysAgo(1))]; ok {
		t.Fatal("toggled-off key still present")
	}
}

func TestToggle_OffAbsentKeyIsNoop(t *testing.T) {
	s := NewStore()
	s.Add("Run", "Health")

	h, err := s.Toggle(0, today, false, today)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if len(h.Completions) != 0 || h.Streak != 0 {
		t.Fatalf("habit = %+v, want unchanged", h)
	}
}

func TestToggle_OnThenOffRestoresCompletions(t *testing.T) {
	s := NewStore(model.Habit{
		Name:     "Read",
		Category: "Learning",
		Completions: model.Completions{
			model.DateKey(daysAgo(3)): true,
			model.DateKey(daysAgo(2)): true,
		},
	})
	before, _ := s.At(0)

	if _, err := s.Toggle(0, today, true, today); err != nil {
		t.Fatalf("Toggle on: %v", err)
	}
	after, err := s.Toggle(0, today, false, today)
	if err != nil {
		t.Fatalf("Toggle off: %v", err)
	}
	if !maps.Equal(after.Completions, before.Completions) {
		t.Fatalf("completions = %v, want %v", after.Completions, before.Completions)
	}
}

func TestToggle_OutOfRange(t *testing.T) {
	s := NewStore()
	if _, err := s.Toggle(0, today, true, today); !errors.Is(err, ErrIndex) {
		t.Fatalf("Toggle error = %v, want ErrIndex", err)
	}
}

func TestToggle_IgnoresTimeOfDay(t *testing.T) {
	s := NewStore()
	s.Add("Run", "Health")

	evening := time.Date(2026, 10, 15, 22, 30, 0, 0, time.UTC)
	h, _ := s.Toggle(0, evening, true, evening)
	if !h.CompletedOn("2026-10-15") {
		t.Fatalf("completions = %v, want 2026-10-15", h.Completions)
	}
	if h.Streak != 1 {
		t.Fatalf("Streak = %d, want 1", h.Streak)
	}
}

func TestCompletionQueries(t *testing.T) {
	s := NewStore()
	s.Add("A", "x")
	s.Add("B", "x")
	s.Add("C", "y")

	s.Toggle(0, today, true, today)
	s.Toggle(2, today, true, today)
	s.Toggle(1, daysAgo(1), true, today)

	if got := s.CountCompletedOn(today); got != 2 {
		t.Fatalf("CountCompletedOn(today) = %d, want 2", got)
	}
	if !s.HasAnyCompletionOn(daysAgo(1)) {
		t.Fatal("HasAnyCompletionOn(yesterday) = false, want true")
	}
	if s.HasAnyCompletionOn(daysAgo(2)) {
		t.Fatal("HasAnyCompletionOn(2 days ago) = true, want false")
	}
	if got := NewStore().CountCompletedOn(today); got != 0 {
		t.Fatalf("CountCompletedOn on empty store = %d, want 0", got)
	}
}

func TestAt_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add("Run", "Health")

	h, _ := s.At(0)
	h.Completions["2026-01-01"] = true
	h.Name = "changed"

	got, _ := s.At(0)
	if got.Name != "Run" || len(got.Completions) != 0 {
		t.Fatalf("store mutated through copy: %+v", got)
	}
}

func TestReplace_KeepsStoredStreak(t *testing.T) {
	s := NewStore()
	s.Replace([]model.Habit{{
		Name:        "Run",
		Category:    "Health",
		Streak:      7,
		Completions: model.Completions{"2020-01-01": true},
	}})

	h, _ := s.At(0)
	if h.Streak != 7 {
		t.Fatalf("Streak = %d, want stored value 7", h.Streak)
	}
}

func TestConcurrentToggle(t *testing.T) {
	s := NewStore()
	s.Add("Run", "Health")

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Toggle(0, daysAgo(n), true, today)
			s.HasAnyCompletionOn(today)
		}(i)
	}
	wg.Wait()

	h, _ := s.At(0)
	if h.Streak != 30 {
		t.Fatalf("Streak = %d, want 30", h.Streak)
	}
}
