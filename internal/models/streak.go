package models

import "cloud.google.com/go/civil"

// Streak is a maximal run of consecutive checked-in days for one habit.
// It is derived from check-ins on every query and never stored.
type Streak struct {
	First civil.Date `json:"first"`
	Last  civil.Date `json:"last"`
	Days  int        `json:"days"`
}

// Contains reports whether d falls inside the streak.
func (s Streak) Contains(d civil.Date) bool {
	return !d.Before(s.First) && !d.After(s.Last)
}

// Summary condenses a habit's streak history relative to a reference day.
type Summary struct {
	HabitID              string  `json:"habit_id"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
	TotalCheckIns        int     `json:"total_check_ins"`
	CheckedInToday       bool    `json:"checked_in_today"`
	DaysSinceLastCheckIn *int    `json:"days_since_last_check_in"`
	Longest              *Streak `json:"longest,omitempty"`
}
