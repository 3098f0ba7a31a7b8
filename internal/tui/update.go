package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitstreak/internal/constants"
	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		h, v := docStyle.GetFrameSize()
		m.habits.SetSize(size.Width-h, size.Height-v-4)
		m.streaks.SetHeight(size.Height - v - 6)
		m.help.Width = size.Width
		return m, nil
	}

	if m.state == constants.StateAddHabit {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if keyMsg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case constants.StateConfirmDelete:
		return m.updateConfirm(keyMsg)
	case constants.StateStreaks:
		return m.updateStreaks(keyMsg)
	default:
		return m.updateHabits(keyMsg)
	}
}

func (m Model) updateHabits(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.habits.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.habits, cmd = m.habits.Update(msg)
		return m, cmd
	}

	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.newHabitForm()
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Refresh):
		m.reload()
		m.status = "Refreshed"
		return m, nil
	case key.Matches(msg, m.keys.CheckIn):
		if item, ok := m.selected(); ok {
			m.checkInToday(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.Undo):
		if item, ok := m.selected(); ok {
			m.undoToday(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			m.current = &item
			m.state = constants.StateConfirmDelete
		}
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selected(); ok {
			m.openStreaks(item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

func (m Model) updateStreaks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.state = constants.StateHabits
		m.current = nil
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.streaks, cmd = m.streaks.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.current != nil {
			if _, err := m.service.DeleteHabit(m.ctx, m.current.habit.ID); err != nil {
				m.err = err
			} else {
				m.status = fmt.Sprintf("Deleted %s", m.current.habit.Name)
			}
		}
		m.current = nil
		m.state = constants.StateHabits
		m.reload()
	case key.Matches(msg, m.keys.Cancel):
		m.current = nil
		m.state = constants.StateHabits
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		habit, err := m.service.CreateHabit(m.ctx, m.habitForm.Name, validation.OptionalText(m.habitForm.Description))
		if err != nil {
			m.err = err
		} else {
			m.status = fmt.Sprintf("Added %s", habit.Name)
			m.reload()
		}
		m.form = nil
		m.state = constants.StateHabits
		return m, nil
	case huh.StateAborted:
		m.form = nil
		m.state = constants.StateHabits
		return m, nil
	}
	return m, cmd
}

func (m *Model) checkInToday(item habitItem) {
	_, err := m.service.CheckIn(m.ctx, item.habit.ID, nil, nil)
	switch {
	case apperrors.Code(err) == "duplicate_check_in":
		m.status = fmt.Sprintf("%s is already checked in today", item.habit.Name)
	case err != nil:
		m.err = err
	default:
		m.status = fmt.Sprintf("Checked in %s", item.habit.Name)
		m.reload()
	}
}

// undoToday removes today's check-in, if any. Check-ins come newest first.
func (m *Model) undoToday(item habitItem) {
	checkIns, err := m.service.ListCheckIns(m.ctx, item.habit.ID)
	if err != nil {
		m.err = err
		return
	}
	today := m.service.Today()
	if len(checkIns) == 0 || checkIns[0].Date != today {
		m.status = fmt.Sprintf("%s has no check-in today", item.habit.Name)
		return
	}
	if _, err := m.service.DeleteCheckIn(m.ctx, item.habit.ID, checkIns[0].ID); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("Removed today's check-in for %s", item.habit.Name)
	m.reload()
}
