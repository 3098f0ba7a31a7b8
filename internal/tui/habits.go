package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/julianstephens/habitstreak/internal/models"
)

type habitItem struct {
	habit   models.Habit
	summary models.Summary
}

func (i habitItem) Title() string {
	if i.summary.CheckedInToday {
		return "✓ " + i.habit.Name
	}
	return "○ " + i.habit.Name
}

func (i habitItem) Description() string {
	if i.summary.TotalCheckIns == 0 {
		return "no check-ins yet"
	}
	return fmt.Sprintf("current %d · longest %d · %d check-ins",
		i.summary.CurrentStreak, i.summary.LongestStreak, i.summary.TotalCheckIns)
}

func (i habitItem) FilterValue() string { return i.habit.Name }

func newHabitList(width, height int) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}
