// Package codec converts habit collections to and from their persisted
// JSON form: an array of {name, category, streak, completions} objects.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/habitual/internal/model"
)

// ErrFormat is returned when a payload does not describe a habit collection.
var ErrFormat = errors.New("codec: malformed habit data")

type record struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Streak      int             `json:"streak"`
	Completions map[string]bool `json:"completions"`
}

// Marshal encodes habits in order. Completions are always emitted.
func Marshal(habits []model.Habit) ([]byte, error) {
	recs := make([]record, len(habits))
	for i, h := range habits {
		recs[i] = record{
			Name:        h.Name,
			Category:    h.Category,
			Streak:      h.Streak,
			Completions: h.Completions.Clone(),
		}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding habits: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a payload produced by Marshal. Missing or null streak
// and completions default to zero and empty. False completion entries are
// dropped.
func Unmarshal(payload []byte) ([]model.Habit, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrFormat)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	habits := make([]model.Habit, 0, len(elems))
	for i, raw := range elems {
		h, err := decodeHabit(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: habit %d: %v", ErrFormat, i, err)
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func decodeHabit(raw json.RawMessage) (model.Habit, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.Habit{}, errors.New("not an object")
	}

	name, err := requiredString(fields, "name")
	if err != nil {
		return model.Habit{}, err
	}
	category, err := requiredString(fields, "category")
	if err != nil {
		return model.Habit{}, err
	}

	h := model.Habit{
		Name:        name,
		Category:    category,
		Completions: model.Completions{},
	}

	if v, ok := fields["streak"]; ok && !isNull(v) {
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return model.Habit{}, errors.New("streak must be an integer")
		}
		if n < 0 {
			return model.Habit{}, fmt.Errorf("streak %d is negative", n)
		}
		h.Streak = n
	}

	if v, ok := fields["completions"]; ok && !isNull(v) {
		var m map[string]bool
		if err := json.Unmarshal(v, &m); err != nil {
			return model.Habit{}, errors.New("completions must map dates to booleans")
		}
		for key, done := range m {
			if _, err := model.ParseDateKey(key); err != nil {
				return model.Habit{}, err
			}
			if done {
				h.Completions[key] = true
			}
		}
	}

	return h, nil
}

func requiredString(fields map[string]json.RawMessage, key string) (string, error) {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return "", fmt.Errorf("missing %s", key)
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s is blank", key)
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
