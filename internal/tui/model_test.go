package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/service"
	"github.com/julianstephens/habitstreak/internal/storage/sqlite"
	"github.com/julianstephens/habitstreak/internal/utils"
)

func setupTestModel(t *testing.T, names ...string) (Model, *service.HabitService) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := utils.FixedClock{T: time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)}
	svc := service.NewHabitService(store, clock)
	ctx := context.Background()
	for _, name := range names {
		if _, err := svc.CreateHabit(ctx, name, nil); err != nil {
			t.Fatalf("failed to create habit %q: %v", name, err)
		}
	}
	return NewModel(ctx, svc), svc
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNewModelLoadsHabits(t *testing.T) {
	m, _ := setupTestModel(t, "Read", "Run")
	if got := len(m.habits.Items()); got != 2 {
		t.Fatalf("expected 2 habits, got %d", got)
	}
	if !strings.Contains(m.View(), "○") {
		t.Errorf("expected unchecked marker in view:\n%s", m.View())
	}
}

func TestEmptyView(t *testing.T) {
	m, _ := setupTestModel(t)
	if !strings.Contains(m.View(), "No habits yet") {
		t.Errorf("expected empty state, got:\n%s", m.View())
	}
}

func TestCheckInAndUndo(t *testing.T) {
	m, svc := setupTestModel(t, "Read")
	item, _ := m.selected()

	m = press(t, m, "c")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	item, _ = m.selected()
	if !item.summary.CheckedInToday || item.summary.CurrentStreak != 1 {
		t.Errorf("expected checked in with streak 1, got %+v", item.summary)
	}

	m = press(t, m, "c")
	if m.err != nil {
		t.Fatalf("duplicate check-in should not surface as an error: %v", m.err)
	}
	if !strings.Contains(m.status, "already checked in") {
		t.Errorf("unexpected status %q", m.status)
	}

	m = press(t, m, "u")
	checkIns, err := svc.ListCheckIns(context.Background(), item.habit.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(checkIns) != 0 {
		t.Errorf("expected undo to remove today's check-in, have %d", len(checkIns))
	}

	m = press(t, m, "u")
	if !strings.Contains(m.status, "no check-in today") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestStreaksScreen(t *testing.T) {
	m, svc := setupTestModel(t, "Read")
	item, _ := m.selected()
	ctx := context.Background()
	for _, s := range []string{"2024-05-10", "2024-05-11", "2024-05-19"} {
		d, _ := utils.ParseDate(s)
		if _, err := svc.CheckIn(ctx, item.habit.ID, &d, nil); err != nil {
			t.Fatal(err)
		}
	}

	m = press(t, m, "enter")
	if m.state != constants.StateStreaks {
		t.Fatalf("expected streaks screen, got state %d", m.state)
	}
	rows := m.streaks.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 streak rows, got %d", len(rows))
	}
	if rows[0][0] != "2024-05-19" {
		t.Errorf("expected newest streak first, got %v", rows[0])
	}

	m = press(t, m, "esc")
	if m.state != constants.StateHabits {
		t.Errorf("expected esc to return to habits, got state %d", m.state)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, svc := setupTestModel(t, "Read")

	m = press(t, m, "d")
	if m.state != constants.StateConfirmDelete {
		t.Fatalf("expected confirmation state, got %d", m.state)
	}
	m = press(t, m, "n")
	if m.state != constants.StateHabits || len(m.habits.Items()) != 1 {
		t.Fatalf("cancel should keep the habit")
	}

	m = press(t, m, "d", "y")
	habits, err := svc.ListHabits(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 0 || len(m.habits.Items()) != 0 {
		t.Errorf("expected habit to be deleted")
	}
}

func TestAddOpensForm(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(t, m, "a")
	if m.state != constants.StateAddHabit || m.form == nil {
		t.Fatalf("expected add form to open")
	}
	m = press(t, m, "esc")
	if m.state != constants.StateHabits || m.form != nil {
		t.Errorf("expected esc to close the form")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(Model).quitting || cmd == nil {
		t.Errorf("expected q to quit")
	}
}
