// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"time"
)

// FormatStreak formats a streak count, e.g. "🔥 3 day streak".
func FormatStreak(n int) string {
	if n <= 0 {
		return "no streak"
	}
	return fmt.Sprintf("🔥 %d day streak", n)
}

// FormatProgress formats a done/total pair, e.g. "2/5 (40%)".
func FormatProgress(done, total int) string {
	if total <= 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", done, total, float64(done)/float64(total)*100)
}

// FormatDate formats a date for headings, e.g. "Thu, Oct 15 2026".
func FormatDate(t time.Time) string {
	return t.Format("Mon, Jan 2 2006")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// Plural returns "1 habit" or "n habits".
func Plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
