// Package pipeline loads and saves habit collections and derives the
// summaries shown by the CLI, TUI and daemon.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/habitual/internal/model"
)

// Summarize computes the header figures for the given day.
func Summarize(habits []model.Habit, today time.Time) model.SummaryStats {
	key := model.DateKey(today)
	stats := model.SummaryStats{
		TotalHabits: len(habits),
		Today:       model.Day(today),
	}
	for _, h := range habits {
		if h.CompletedOn(key) {
			stats.CompletedToday++
		}
	}
	return stats
}

// CompletedOn returns the habits completed on date, in collection order.
func CompletedOn(habits []model.Habit, date time.Time) model.DayDetail {
	key := model.DateKey(date)
	detail := model.DayDetail{Date: model.Day(date)}
	for _, h := range habits {
		if h.CompletedOn(key) {
			detail.Completed = append(detail.Completed, h)
		}
	}
	return detail
}

// IndexedHabit pairs a habit with its position in the full collection, so
// filtered views can still address the store.
type IndexedHabit struct {
	Index int
	model.Habit
}

// FilterByCategory returns habits whose category matches (case-insensitive).
// An empty category matches everything.
func FilterByCategory(habits []model.Habit, category string) []IndexedHabit {
	category = strings.TrimSpace(category)
	var out []IndexedHabit
	for i, h := range habits {
		if category == "" || strings.EqualFold(h.Category, category) {
			out = append(out, IndexedHabit{Index: i, Habit: h})
		}
	}
	return out
}

// GroupByCategory counts habits and completions on day per category,
// sorted by habit count descending then name.
func GroupByCategory(habits []model.Habit, day time.Time) []model.CategoryStats {
	key := model.DateKey(day)
	byCat := make(map[string]*model.CategoryStats)
	for _, h := range habits {
		cs, ok := byCat[h.Category]
		if !ok {
			cs = &model.CategoryStats{Category: h.Category}
			byCat[h.Category] = cs
		}
		cs.Habits++
		if h.CompletedOn(key) {
			cs.Done++
		}
	}

	result := make([]model.CategoryStats, 0, len(byCat))
	for _, cs := range byCat {
		result = append(result, *cs)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Habits != result[j].Habits {
			return result[i].Habits > result[j].Habits
		}
		return result[i].Category < result[j].Category
	})
	return result
}
