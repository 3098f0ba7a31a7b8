package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/streak"
)

var _ storage.Provider = (*Store)(nil)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func addHabit(t *testing.T, store *Store, name string) models.Habit {
	t.Helper()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	h := models.Habit{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := store.AddHabit(context.Background(), h); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	return h
}

func checkIn(habitID string, day civil.Date) models.CheckIn {
	return models.CheckIn{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Date:      day,
		CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("Load() on a missing database should fail")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer second.Close()

	if err := second.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if second.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", second.GetConfigPath(), path)
	}
}

func TestHabitCRUD(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	desc := "read 20 pages"
	h := addHabit(t, store, "Reading")
	h.Description = &desc
	h.UpdatedAt = h.UpdatedAt.Add(time.Hour)
	if err := store.UpdateHabit(ctx, h); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}

	got, err := store.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got.Name != "Reading" || got.Description == nil || *got.Description != desc {
		t.Errorf("GetHabit() = %+v", got)
	}
	if !got.UpdatedAt.Equal(h.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, h.UpdatedAt)
	}

	byName, err := store.GetHabitsByName(ctx, "Reading")
	if err != nil || len(byName) != 1 {
		t.Fatalf("GetHabitsByName() = %v, %v", byName, err)
	}

	addHabit(t, store, "Running")
	all, err := store.GetAllHabits(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetAllHabits() = %d habits, err %v", len(all), err)
	}

	deleted, err := store.DeleteHabit(ctx, h.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteHabit() = %v, %v", deleted, err)
	}
	deleted, err = store.DeleteHabit(ctx, h.ID)
	if err != nil || deleted {
		t.Errorf("second DeleteHabit() = %v, %v; want false, nil", deleted, err)
	}

	if _, err := store.GetHabit(ctx, h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateHabit(ctx, h); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateHabit() after delete error = %v, want ErrNotFound", err)
	}
}

func TestInsertCheckInDuplicate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	h := addHabit(t, store, "Meditate")

	if err := store.InsertCheckIn(ctx, checkIn(h.ID, day("2025-03-01"))); err != nil {
		t.Fatalf("first InsertCheckIn() error = %v", err)
	}
	err := store.InsertCheckIn(ctx, checkIn(h.ID, day("2025-03-01")))
	if !errors.Is(err, apperrors.ErrDuplicateCheckIn) {
		t.Fatalf("second InsertCheckIn() error = %v, want ErrDuplicateCheckIn", err)
	}
	if errors.Is(err, apperrors.ErrStorage) {
		t.Error("duplicate should not be reported as a storage failure")
	}

	other := addHabit(t, store, "Stretch")
	if err := store.InsertCheckIn(ctx, checkIn(other.ID, day("2025-03-01"))); err != nil {
		t.Errorf("same day on another habit error = %v", err)
	}
}

func TestInsertCheckInConcurrent(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	h := addHabit(t, store, "Meditate")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.InsertCheckIn(ctx, checkIn(h.ID, day("2025-03-01")))
		}(i)
	}
	wg.Wait()

	successes, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperrors.ErrDuplicateCheckIn):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || duplicates != workers-1 {
		t.Errorf("successes = %d, duplicates = %d; want 1, %d", successes, duplicates, workers-1)
	}
}

func TestInsertCheckInUnknownHabit(t *testing.T) {
	store := setupTestStore(t)
	err := store.InsertCheckIn(context.Background(), checkIn("no-such-habit", day("2025-03-01")))
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("InsertCheckIn() error = %v, want ErrNotFound", err)
	}
}

func TestCheckInReadsAndDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	h := addHabit(t, store, "Run")

	note := "5k"
	days := []string{"2025-01-03", "2025-01-01", "2025-01-02"}
	var ids []string
	for _, d := range days {
		c := checkIn(h.ID, day(d))
		c.Note = &note
		if err := store.InsertCheckIn(ctx, c); err != nil {
			t.Fatalf("InsertCheckIn(%s) error = %v", d, err)
		}
		ids = append(ids, c.ID)
	}

	dates, err := store.ListCheckInDates(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListCheckInDates() error = %v", err)
	}
	want := []civil.Date{day("2025-01-01"), day("2025-01-02"), day("2025-01-03")}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("ListCheckInDates() = %v, want %v", dates, want)
	}

	list, err := store.GetCheckInsForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetCheckInsForHabit() error = %v", err)
	}
	if len(list) != 3 || list[0].Date != day("2025-01-03") || list[2].Date != day("2025-01-01") {
		t.Errorf("GetCheckInsForHabit() not newest first: %+v", list)
	}
	if list[0].Note == nil || *list[0].Note != note {
		t.Errorf("note not preserved: %+v", list[0])
	}

	got, err := store.GetCheckIn(ctx, ids[0])
	if err != nil || got.Date != day("2025-01-03") {
		t.Errorf("GetCheckIn() = %+v, %v", got, err)
	}

	removed, err := store.DeleteCheckIn(ctx, ids[0])
	if err != nil || !removed {
		t.Fatalf("DeleteCheckIn() = %v, %v", removed, err)
	}
	removed, err = store.DeleteCheckIn(ctx, ids[0])
	if err != nil || removed {
		t.Errorf("DeleteCheckIn() of absent id = %v, %v; want false, nil", removed, err)
	}
	if _, err := store.GetCheckIn(ctx, ids[0]); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetCheckIn() after delete error = %v, want ErrNotFound", err)
	}

	empty, err := store.ListCheckInDates(ctx, "unknown")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListCheckInDates() for unknown habit = %v, %v; want empty slice", empty, err)
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	h := addHabit(t, store, "Journal")
	c := checkIn(h.ID, day("2025-02-10"))
	if err := store.InsertCheckIn(ctx, c); err != nil {
		t.Fatalf("InsertCheckIn() error = %v", err)
	}

	if _, err := store.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}
	if _, err := store.GetCheckIn(ctx, c.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("check-in survived habit deletion: %v", err)
	}
	all, err := store.GetAllCheckIns(ctx)
	if err != nil || len(all) != 0 {
		t.Errorf("GetAllCheckIns() = %v, %v; want empty", all, err)
	}
}

func TestStreaksForHabitMatchesEngine(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	h := addHabit(t, store, "Write")

	days := []string{
		"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01",
		"2024-03-05",
		"2024-12-30", "2024-12-31", "2025-01-01",
		"2025-03-31", "2025-04-01",
	}
	for _, d := range days {
		if err := store.InsertCheckIn(ctx, checkIn(h.ID, day(d))); err != nil {
			t.Fatalf("InsertCheckIn(%s) error = %v", d, err)
		}
	}

	fromDB, err := store.StreaksForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("StreaksForHabit() error = %v", err)
	}
	dates, err := store.ListCheckInDates(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListCheckInDates() error = %v", err)
	}
	inProcess := streak.Compute(dates)

	if !reflect.DeepEqual(fromDB, inProcess) {
		t.Errorf("StreaksForHabit() = %v, engine = %v", fromDB, inProcess)
	}
	if len(fromDB) != 4 || fromDB[0].Days != 4 || fromDB[2].Days != 3 {
		t.Errorf("unexpected streaks: %v", fromDB)
	}

	none, err := store.StreaksForHabit(ctx, "unknown")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("StreaksForHabit() for no check-ins = %v, %v; want empty slice", none, err)
	}
}
