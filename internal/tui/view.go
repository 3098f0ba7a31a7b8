package tui

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitstreak/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(constants.AppName))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(m.service.Today().String()))
	b.WriteString("\n\n")

	switch m.state {
	case constants.StateAddHabit:
		b.WriteString(m.form.View())
	case constants.StateStreaks:
		b.WriteString(m.streaksView())
	case constants.StateConfirmDelete:
		name := ""
		if m.current != nil {
			name = m.current.habit.Name
		}
		b.WriteString(dangerStyle.Render(fmt.Sprintf("Delete %q and all of its check-ins? (y/n)", name)))
	default:
		if len(m.habits.Items()) == 0 {
			b.WriteString("No habits yet.\nPress 'a' to add one.")
		} else {
			b.WriteString(m.habits.View())
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(dangerStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.state == constants.StateHabits {
		b.WriteString(m.help.View(m.keys))
	}

	return docStyle.Render(b.String())
}

func (m Model) streaksView() string {
	if m.current == nil {
		return ""
	}
	sum := m.current.summary
	header := fmt.Sprintf("%s  current %d · longest %d · %d check-ins",
		m.current.habit.Name, sum.CurrentStreak, sum.LongestStreak, sum.TotalCheckIns)
	if len(m.streaks.Rows()) == 0 {
		return header + "\n\n" + mutedStyle.Render("No streaks yet.") + "\n" + mutedStyle.Render("esc: back")
	}
	return header + "\n\n" + m.streaks.View() + "\n" + mutedStyle.Render("esc: back")
}
