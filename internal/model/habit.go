// Package model defines domain types for habitual habits and calendar days.
package model

// Completions maps an ISO date key (YYYY-MM-DD) to a completion marker.
// A key is only ever present with the value true.
type Completions map[string]bool

// Clone returns an independent copy of c. A nil map clones to an empty one.
func (c Completions) Clone() Completions {
	out := make(Completions, len(c))
	for k, v := range c {
		if v {
			out[k] = true
		}
	}
	return out
}

// Has reports whether the date key is marked completed.
func (c Completions) Has(key string) bool {
	return c[key]
}

// Habit is a user-defined recurring activity tracked for daily completion.
type Habit struct {
	Name     string
	Category string

	// Streak is derived from Completions and is only written by the store
	// when completions change.
	Streak int

	Completions Completions
}

// Clone returns a deep copy of h.
func (h Habit) Clone() Habit {
	h.Completions = h.Completions.Clone()
	return h
}

// CompletedOn reports whether the habit was completed on the given day.
func (h Habit) CompletedOn(key string) bool {
	return h.Completions.Has(key)
}

// CloneAll deep-copies a habit sequence, preserving order.
func CloneAll(habits []Habit) []Habit {
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}
