package service

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/julianstephens/habitstreak/internal/checkin"
	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/streak"
	"github.com/julianstephens/habitstreak/internal/utils"
	"github.com/julianstephens/habitstreak/internal/validation"
)

// HabitService is the entry point shared by the CLI, the TUI and the HTTP API.
// Every habit-scoped call verifies the habit exists before touching check-ins.
type HabitService struct {
	store    storage.Provider
	checkIns *checkin.Store
	engine   *streak.Engine
	clock    utils.Clock
}

func NewHabitService(store storage.Provider, clock utils.Clock) *HabitService {
	checkIns := checkin.New(store, clock)
	return &HabitService{
		store:    store,
		checkIns: checkIns,
		engine:   streak.New(checkIns),
		clock:    clock,
	}
}

// Today is the reference date used for the future-date rule and summaries.
func (s *HabitService) Today() civil.Date {
	return utils.Today(s.clock)
}

func (s *HabitService) CreateHabit(ctx context.Context, name string, description *string) (models.Habit, error) {
	name, err := validation.HabitName(name)
	if err != nil {
		return models.Habit{}, err
	}
	if description != nil {
		description = validation.OptionalText(*description)
	}

	now := s.clock.Now().UTC()
	habit := models.Habit{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.AddHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}

	logger.Info("Habit created", "id", habit.ID, "name", habit.Name)
	return habit, nil
}

func (s *HabitService) ListHabits(ctx context.Context) ([]models.Habit, error) {
	return s.store.GetAllHabits(ctx)
}

func (s *HabitService) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	return s.store.GetHabit(ctx, id)
}

// ResolveHabit finds a habit by id, falling back to an exact name match.
// A name shared by several habits is rejected as ambiguous.
func (s *HabitService) ResolveHabit(ctx context.Context, ref string) (models.Habit, error) {
	habit, err := s.store.GetHabit(ctx, ref)
	if err == nil {
		return habit, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return models.Habit{}, err
	}

	matches, err := s.store.GetHabitsByName(ctx, ref)
	if err != nil {
		return models.Habit{}, err
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, apperrors.NotFound("habit", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, apperrors.Invalid("%d habits are named %q, use the id instead", len(matches), ref)
	}
}

// UpdateHabit applies a partial update. An empty description clears it.
func (s *HabitService) UpdateHabit(ctx context.Context, id string, update models.HabitUpdate) (models.Habit, error) {
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, err
	}

	if update.Name != nil {
		name, err := validation.HabitName(*update.Name)
		if err != nil {
			return models.Habit{}, err
		}
		habit.Name = name
	}
	if update.Description != nil {
		habit.Description = validation.OptionalText(*update.Description)
	}
	habit.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit removes the habit and, by cascade, its check-ins.
func (s *HabitService) DeleteHabit(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.DeleteHabit(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		logger.Info("Habit deleted", "id", id)
	}
	return deleted, nil
}

func (s *HabitService) CheckIn(ctx context.Context, habitID string, date *civil.Date, note *string) (models.CheckIn, error) {
	if _, err := s.store.GetHabit(ctx, habitID); err != nil {
		return models.CheckIn{}, err
	}
	if note != nil {
		note = validation.OptionalText(*note)
	}
	return s.checkIns.Create(ctx, habitID, date, note)
}

// ListCheckIns returns the habit's check-ins, newest date first.
func (s *HabitService) ListCheckIns(ctx context.Context, habitID string) ([]models.CheckIn, error) {
	if _, err := s.store.GetHabit(ctx, habitID); err != nil {
		return nil, err
	}
	return s.store.GetCheckInsForHabit(ctx, habitID)
}

// DeleteCheckIn removes a check-in. When habitID is non-empty the check-in
// must belong to that habit; otherwise it is reported as absent.
func (s *HabitService) DeleteCheckIn(ctx context.Context, habitID, checkInID string) (bool, error) {
	if habitID != "" {
		if _, err := s.store.GetHabit(ctx, habitID); err != nil {
			return false, err
		}
		c, err := s.store.GetCheckIn(ctx, checkInID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if c.HabitID != habitID {
			return false, nil
		}
	}
	return s.checkIns.DeleteByID(ctx, checkInID)
}

// Streaks recomputes the habit's streaks from storage on every call.
func (s *HabitService) Streaks(ctx context.Context, habitID string) ([]models.Streak, error) {
	if _, err := s.store.GetHabit(ctx, habitID); err != nil {
		return nil, err
	}
	return s.engine.ForHabit(ctx, habitID)
}

func (s *HabitService) Summary(ctx context.Context, habitID string) (models.Summary, error) {
	streaks, err := s.Streaks(ctx, habitID)
	if err != nil {
		return models.Summary{}, err
	}
	return streak.Summarize(habitID, streaks, s.Today()), nil
}

// VerifyStreaks compares the in-process engine with the store's own
// window-function computation for a habit.
func (s *HabitService) VerifyStreaks(ctx context.Context, habitID string) error {
	inProcess, err := s.Streaks(ctx, habitID)
	if err != nil {
		return err
	}
	fromStore, err := s.store.StreaksForHabit(ctx, habitID)
	if err != nil {
		return err
	}
	if len(inProcess) != len(fromStore) {
		return fmt.Errorf("habit %s: engine found %d streaks, store found %d", habitID, len(inProcess), len(fromStore))
	}
	for i := range inProcess {
		if inProcess[i] != fromStore[i] {
			return fmt.Errorf("habit %s: streak %d differs: engine %+v, store %+v", habitID, i, inProcess[i], fromStore[i])
		}
	}
	return nil
}
