package storage

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitstreak/internal/models"
)

// Provider is the persistence boundary. Adapters report a missing row as
// errors.ErrNotFound, a (habit, day) collision as errors.ErrDuplicateCheckIn
// and wrap everything else in errors.ErrStorage.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetHabitsByName(ctx context.Context, name string) ([]models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	// DeleteHabit removes the habit and, by cascade, all of its check-ins.
	DeleteHabit(ctx context.Context, id string) (bool, error)

	// Check-ins
	// InsertCheckIn stores a check-in in one statement; the UNIQUE(habit_id, day)
	// constraint decides concurrent races.
	InsertCheckIn(ctx context.Context, checkIn models.CheckIn) error
	GetCheckIn(ctx context.Context, id string) (models.CheckIn, error)
	// GetCheckInsForHabit returns the habit's check-ins, newest day first.
	GetCheckInsForHabit(ctx context.Context, habitID string) ([]models.CheckIn, error)
	// ListCheckInDates returns the habit's check-in days in ascending order.
	ListCheckInDates(ctx context.Context, habitID string) ([]civil.Date, error)
	DeleteCheckIn(ctx context.Context, id string) (bool, error)
	// StreaksForHabit groups check-in days inside the database with a window query.
	StreaksForHabit(ctx context.Context, habitID string) ([]models.Streak, error)

	// Bulk Retrieval for Migration
	GetAllCheckIns(ctx context.Context) ([]models.CheckIn, error)

	// Utils
	GetConfigPath() string
	Ping(ctx context.Context) error
}

// IsPostgres reports whether target is a PostgreSQL connection string rather than a file path.
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") ||
		strings.HasPrefix(target, "postgresql://") ||
		strings.Contains(target, "host=") ||
		strings.Contains(target, "dbname=")
}
