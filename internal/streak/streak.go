// Package streak computes consecutive-day completion streaks.
package streak

import (
	"sort"
	"time"

	"github.com/theirongolddev/habitual/internal/model"
)

// Compute returns the current streak for a set of completions relative to
// today. Completed dates are walked newest first; the i-th date must be
// exactly i days before today for the run to continue. A run that does not
// include today is therefore 0, and any gap ends the count.
func Compute(completions model.Completions, today time.Time) int {
	dates := completedDates(completions)
	if len(dates) == 0 {
		return 0
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})

	streak := 0
	for _, d := range dates {
		if model.DaysBetween(d, today) != streak {
			break
		}
		streak++
	}
	return streak
}

// completedDates parses every key marked true. Keys that are not valid
// YYYY-MM-DD dates are skipped.
func completedDates(completions model.Completions) []time.Time {
	dates := make([]time.Time, 0, len(completions))
	for key, done := range completions {
		if !done {
			continue
		}
		d, err := model.ParseDateKey(key)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}
