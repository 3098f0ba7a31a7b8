package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitstreak/internal/models"
)

func newStreakTable(height int) table.Model {
	columns := []table.Column{
		{Title: "First", Width: 12},
		{Title: "Last", Width: 12},
		{Title: "Days", Width: 6},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

// streakRows lists the newest streak first.
func streakRows(streaks []models.Streak) []table.Row {
	rows := make([]table.Row, 0, len(streaks))
	for i := len(streaks) - 1; i >= 0; i-- {
		s := streaks[i]
		rows = append(rows, table.Row{s.First.String(), s.Last.String(), strconv.Itoa(s.Days)})
	}
	return rows
}
