// Package streak groups a habit's check-in dates into maximal runs of
// consecutive calendar days.
package streak

import (
	"context"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitstreak/internal/models"
)

// DateSource is the read side of the check-in store the engine depends on.
type DateSource interface {
	// ListDatesForHabit returns every check-in date of the habit, ascending and unique.
	ListDatesForHabit(ctx context.Context, habitID string) ([]civil.Date, error)
}

// Engine computes streaks for a habit from the dates its DateSource returns.
// It keeps no state between calls; every query recomputes from storage.
type Engine struct {
	source DateSource
}

func New(source DateSource) *Engine {
	return &Engine{source: source}
}

// ForHabit returns the habit's streaks ordered by first date.
// A habit without check-ins yields an empty, non-nil slice.
func (e *Engine) ForHabit(ctx context.Context, habitID string) ([]models.Streak, error) {
	dates, err := e.source.ListDatesForHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	return Compute(dates), nil
}

// Compute walks ascending, unique dates once and closes a run whenever the
// next date is not exactly one calendar day after the previous one.
// Adjacent duplicates are skipped so they are never counted twice.
func Compute(dates []civil.Date) []models.Streak {
	streaks := []models.Streak{}
	if len(dates) == 0 {
		return streaks
	}

	runStart, runEnd := dates[0], dates[0]
	for _, d := range dates[1:] {
		switch {
		case d == runEnd:
			continue
		case d == runEnd.AddDays(1):
			runEnd = d
		default:
			streaks = append(streaks, closeRun(runStart, runEnd))
			runStart, runEnd = d, d
		}
	}

	return append(streaks, closeRun(runStart, runEnd))
}

// ComputeByRank is the set-based formulation used by the SQL adapters:
// date minus its 1-based rank is constant inside a streak and strictly
// increases between streaks, so grouping on it yields the same runs.
func ComputeByRank(dates []civil.Date) []models.Streak {
	unique := Normalize(dates)

	type group struct {
		first, last civil.Date
		count       int
	}
	groups := make(map[civil.Date]*group)
	var keys []civil.Date

	for i, d := range unique {
		key := d.AddDays(-(i + 1))
		g, ok := groups[key]
		if !ok {
			g = &group{first: d, last: d}
			groups[key] = g
			keys = append(keys, key)
		}
		if d.Before(g.first) {
			g.first = d
		}
		if d.After(g.last) {
			g.last = d
		}
		g.count++
	}

	sort.Slice(keys, func(i, j int) bool {
		return groups[keys[i]].first.Before(groups[keys[j]].first)
	})

	streaks := make([]models.Streak, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		streaks = append(streaks, models.Streak{First: g.first, Last: g.last, Days: g.count})
	}
	return streaks
}

// Normalize returns a sorted copy of dates with duplicates removed.
// Callers holding unsorted input use it before Compute.
func Normalize(dates []civil.Date) []civil.Date {
	out := make([]civil.Date, len(dates))
	copy(out, dates)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	n := 0
	for i, d := range out {
		if i > 0 && d == out[n-1] {
			continue
		}
		out[n] = d
		n++
	}
	return out[:n]
}

func closeRun(first, last civil.Date) models.Streak {
	return models.Streak{
		First: first,
		Last:  last,
		Days:  last.DaysSince(first) + 1,
	}
}
