package postgres

import (
	"context"
	"errors"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/streak"
)

// TestStore_Integration runs against a real database.
// Example: HABITSTREAK_TEST_POSTGRES="postgres://habitstreak@localhost:5432/habitstreak_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("HABITSTREAK_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("HABITSTREAK_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	habit := models.Habit{ID: uuid.NewString(), Name: "integration " + uuid.NewString()[:8], CreatedAt: now, UpdatedAt: now}
	if err := store.AddHabit(ctx, habit); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	defer store.DeleteHabit(ctx, habit.ID)

	newCheckIn := func(d civil.Date) models.CheckIn {
		return models.CheckIn{ID: uuid.NewString(), HabitID: habit.ID, Date: d, CreatedAt: now}
	}

	t.Run("Duplicate", func(t *testing.T) {
		d := civil.Date{Year: 2025, Month: time.May, Day: 1}
		if err := store.InsertCheckIn(ctx, newCheckIn(d)); err != nil {
			t.Fatalf("InsertCheckIn() error = %v", err)
		}
		if err := store.InsertCheckIn(ctx, newCheckIn(d)); !errors.Is(err, apperrors.ErrDuplicateCheckIn) {
			t.Errorf("InsertCheckIn() duplicate error = %v, want ErrDuplicateCheckIn", err)
		}
	})

	t.Run("Concurrent", func(t *testing.T) {
		d := civil.Date{Year: 2025, Month: time.June, Day: 1}
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = store.InsertCheckIn(ctx, newCheckIn(d))
			}(i)
		}
		wg.Wait()
		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
			} else if !errors.Is(err, apperrors.ErrDuplicateCheckIn) {
				t.Errorf("unexpected error: %v", err)
			}
		}
		if ok != 1 {
			t.Errorf("%d concurrent inserts succeeded, want 1", ok)
		}
	})

	t.Run("UnknownHabit", func(t *testing.T) {
		c := newCheckIn(civil.Date{Year: 2025, Month: time.May, Day: 2})
		c.HabitID = uuid.NewString()
		if err := store.InsertCheckIn(ctx, c); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("InsertCheckIn() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("StreaksMatchEngine", func(t *testing.T) {
		for _, d := range []civil.Date{
			{Year: 2025, Month: time.May, Day: 2},
			{Year: 2025, Month: time.May, Day: 3},
			{Year: 2025, Month: time.May, Day: 31},
		} {
			if err := store.InsertCheckIn(ctx, newCheckIn(d)); err != nil {
				t.Fatalf("InsertCheckIn(%s) error = %v", d, err)
			}
		}
		dates, err := store.ListCheckInDates(ctx, habit.ID)
		if err != nil {
			t.Fatalf("ListCheckInDates() error = %v", err)
		}
		fromDB, err := store.StreaksForHabit(ctx, habit.ID)
		if err != nil {
			t.Fatalf("StreaksForHabit() error = %v", err)
		}
		if want := streak.Compute(dates); !reflect.DeepEqual(fromDB, want) {
			t.Errorf("StreaksForHabit() = %v, want %v", fromDB, want)
		}
	})

	t.Run("Cascade", func(t *testing.T) {
		deleted, err := store.DeleteHabit(ctx, habit.ID)
		if err != nil || !deleted {
			t.Fatalf("DeleteHabit() = %v, %v", deleted, err)
		}
		dates, err := store.ListCheckInDates(ctx, habit.ID)
		if err != nil || len(dates) != 0 {
			t.Errorf("check-ins survived habit deletion: %v, %v", dates, err)
		}
	})
}
