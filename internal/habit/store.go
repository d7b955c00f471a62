// Package habit holds the ordered, in-memory habit collection and its
// mutators. Habits are identified by their position in the sequence.
package habit

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/streak"
)

var (
	// ErrValidation is returned when a habit is added with a blank name or category.
	ErrValidation = errors.New("habit: validation failed")
	// ErrIndex is returned when an index does not address an existing habit.
	ErrIndex = errors.New("habit: index out of range")
)

// Store is a concurrency-safe ordered collection of habits.
type Store struct {
	mu     sync.RWMutex
	habits []model.Habit
}

// NewStore creates a store holding copies of the given habits.
func NewStore(habits ...model.Habit) *Store {
	s := &Store{}
	s.habits = model.CloneAll(habits)
	return s
}

// Add appends a new habit with no completions and a zero streak.
func (s *Store) Add(name, category string) (model.Habit, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" {
		return model.Habit{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if category == "" {
		return model.Habit{}, fmt.Errorf("%w: category is required", ErrValidation)
	}

	h := model.Habit{
		Name:        name,
		Category:    category,
		Completions: model.Completions{},
	}

	s.mu.Lock()
	s.habits = append(s.habits, h)
	s.mu.Unlock()

	return h.Clone(), nil
}

// Delete removes the habit at index. Later habits shift down by one.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.habits = append(s.habits[:index], s.habits[index+1:]...)
	return nil
}

// Toggle marks or unmarks the habit at index as completed on date, then
// recomputes its streak relative to today.
func (s *Store) Toggle(index int, date time.Time, completed bool, today time.Time) (model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return model.Habit{}, err
	}

	h := &s.habits[index]
	if h.Completions == nil {
		h.Completions = model.Completions{}
	}
	key := model.DateKey(date)
	if completed {
		h.Completions[key] = true
	} else {
		delete(h.Completions, key)
	}
	h.Streak = streak.Compute(h.Completions, today)

	return h.Clone(), nil
}

// HasAnyCompletionOn reports whether at least one habit was completed on date.
func (s *Store) HasAnyCompletionOn(date time.Time) bool {
	key := model.DateKey(date)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.habits {
		if h.CompletedOn(key) {
			return true
		}
	}
	return false
}

// CountCompletedOn returns how many habits were completed on date.
func (s *Store) CountCompletedOn(date time.Time) int {
	key := model.DateKey(date)

	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, h := range s.habits {
		if h.CompletedOn(key) {
			n++
		}
	}
	return n
}

// Len returns the number of habits.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.habits)
}

// At returns a copy of the habit at index.
func (s *Store) At(index int) (model.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkIndex(index); err != nil {
		return model.Habit{}, err
	}
	return s.habits[index].Clone(), nil
}

// Snapshot returns a deep copy of all habits in order.
func (s *Store) Snapshot() []model.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.habits)
}

// Replace swaps the whole collection, e.g. after loading persisted state.
// Stored streaks are kept as-is.
func (s *Store) Replace(habits []model.Habit) {
	cp := model.CloneAll(habits)
	s.mu.Lock()
	s.habits = cp
	s.mu.Unlock()
}

// checkIndex must be called with s.mu held.
func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.habits) {
		return fmt.Errorf("%w: index %d not in [0,%d)", ErrIndex, index, len(s.habits))
	}
	return nil
}
