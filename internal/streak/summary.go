package streak

import (
	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitstreak/internal/models"
)

// Current returns the streak that is still alive on today: one whose last
// day is today or yesterday. A habit not checked in since the day before
// yesterday has no current streak.
func Current(streaks []models.Streak, today civil.Date) (models.Streak, bool) {
	if len(streaks) == 0 {
		return models.Streak{}, false
	}
	last := streaks[len(streaks)-1]
	if last.Last == today || last.Last == today.AddDays(-1) {
		return last, true
	}
	return models.Streak{}, false
}

// Longest returns the longest streak; ties go to the most recent one.
func Longest(streaks []models.Streak) (models.Streak, bool) {
	var best models.Streak
	found := false
	for _, s := range streaks {
		if !found || s.Days >= best.Days {
			best = s
			found = true
		}
	}
	return best, found
}

// Summarize condenses streaks computed for habitID relative to today.
func Summarize(habitID string, streaks []models.Streak, today civil.Date) models.Summary {
	sum := models.Summary{HabitID: habitID}

	for _, s := range streaks {
		sum.TotalCheckIns += s.Days
	}
	if cur, ok := Current(streaks, today); ok {
		sum.CurrentStreak = cur.Days
		sum.CheckedInToday = cur.Last == today
	}
	if longest, ok := Longest(streaks); ok {
		sum.LongestStreak = longest.Days
		sum.Longest = &longest
	}
	if len(streaks) > 0 {
		since := today.DaysSince(streaks[len(streaks)-1].Last)
		sum.DaysSinceLastCheckIn = &since
	}

	return sum
}
