package model

import "time"

// SummaryStats holds the header figures shown above the habit list.
type SummaryStats struct {
	TotalHabits    int
	CompletedToday int
	Today          time.Time
}

// CategoryStats groups habits sharing a category label.
type CategoryStats struct {
	Category string
	Habits   int
	Done     int // completed on the reference day
}

// DayDetail lists the habits completed on one calendar date.
type DayDetail struct {
	Date      time.Time
	Completed []Habit
}
