package tui

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
)

// Service is what the dashboard needs from service.HabitService.
type Service interface {
	Today() civil.Date
	ListHabits(ctx context.Context) ([]models.Habit, error)
	CreateHabit(ctx context.Context, name string, description *string) (models.Habit, error)
	DeleteHabit(ctx context.Context, id string) (bool, error)
	CheckIn(ctx context.Context, habitID string, date *civil.Date, note *string) (models.CheckIn, error)
	ListCheckIns(ctx context.Context, habitID string) ([]models.CheckIn, error)
	DeleteCheckIn(ctx context.Context, habitID, checkInID string) (bool, error)
	Streaks(ctx context.Context, habitID string) ([]models.Streak, error)
	Summary(ctx context.Context, habitID string) (models.Summary, error)
}

type HabitFormModel struct {
	Name        string
	Description string
}

type Model struct {
	ctx       context.Context
	service   Service
	state     constants.SessionState
	keys      KeyMap
	help      help.Model
	habits    list.Model
	streaks   table.Model
	current   *habitItem
	form      *huh.Form
	habitForm *HabitFormModel
	status    string
	err       error
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx context.Context, service Service) Model {
	m := Model{
		ctx:     ctx,
		service: service,
		state:   constants.StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		habits:  newHabitList(80, 20),
		streaks: newStreakTable(10),
		width:   80,
		height:  24,
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the dashboard on the alternate screen and blocks until it exits.
func Run(ctx context.Context, service Service) error {
	_, err := tea.NewProgram(NewModel(ctx, service), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// reload rebuilds the habit list with fresh summaries, keeping the cursor.
func (m *Model) reload() {
	habits, err := m.service.ListHabits(m.ctx)
	if err != nil {
		m.err = err
		return
	}

	items := make([]list.Item, 0, len(habits))
	for _, h := range habits {
		sum, err := m.service.Summary(m.ctx, h.ID)
		if err != nil {
			m.err = err
			return
		}
		items = append(items, habitItem{habit: h, summary: sum})
	}

	index := m.habits.Index()
	m.habits.SetItems(items)
	if index >= len(items) && len(items) > 0 {
		index = len(items) - 1
	}
	m.habits.Select(index)
}

func (m *Model) selected() (habitItem, bool) {
	item, ok := m.habits.SelectedItem().(habitItem)
	return item, ok
}

func (m *Model) openStreaks(item habitItem) {
	streaks, err := m.service.Streaks(m.ctx, item.habit.ID)
	if err != nil {
		m.err = err
		return
	}
	m.current = &item
	m.streaks.SetRows(streakRows(streaks))
	m.streaks.SetCursor(0)
	m.state = constants.StateStreaks
}

func (m *Model) newHabitForm() {
	m.habitForm = &HabitFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&m.habitForm.Name).
				CharLimit(constants.MaxHabitNameLength),
			huh.NewInput().
				Title("Description (optional)").
				Value(&m.habitForm.Description),
		),
	).WithShowHelp(false)
	m.state = constants.StateAddHabit
}
