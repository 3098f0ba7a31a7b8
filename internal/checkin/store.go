// Package checkin owns the per-day completion facts of a habit. It enforces
// the write-time rules (one check-in per habit per day, no future dates) and
// serves the ordered date reads the streak engine consumes.
package checkin

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

// Repository is the slice of storage.Provider the store needs.
type Repository interface {
	InsertCheckIn(ctx context.Context, c models.CheckIn) error
	ListCheckInDates(ctx context.Context, habitID string) ([]civil.Date, error)
	DeleteCheckIn(ctx context.Context, id string) (bool, error)
}

type Store struct {
	repo  Repository
	clock utils.Clock
}

func New(repo Repository, clock utils.Clock) *Store {
	return &Store{repo: repo, clock: clock}
}

// ListDatesForHabit returns the habit's check-in dates ascending. A habit
// with no check-ins yields an empty slice.
func (s *Store) ListDatesForHabit(ctx context.Context, habitID string) ([]civil.Date, error) {
	dates, err := s.repo.ListCheckInDates(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []civil.Date{}
	}
	return dates, nil
}

// Create records a check-in. A nil date means today on the store's clock.
// Uniqueness is enforced by the repository in a single statement, so two
// concurrent calls for the same day produce one success and one
// ErrDuplicateCheckIn.
func (s *Store) Create(ctx context.Context, habitID string, date *civil.Date, note *string) (models.CheckIn, error) {
	today := utils.Today(s.clock)
	day := today
	if date != nil {
		if !date.IsValid() {
			return models.CheckIn{}, apperrors.Invalid("date %s is not a calendar date", date)
		}
		day = *date
	}
	if day.After(today) {
		return models.CheckIn{}, fmt.Errorf("%s is after %s: %w", day, today, apperrors.ErrFutureDate)
	}

	c := models.CheckIn{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Date:      day,
		Note:      note,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.InsertCheckIn(ctx, c); err != nil {
		return models.CheckIn{}, err
	}

	logger.Debug("Check-in created", "habit", habitID, "date", day.String())
	return c, nil
}

// DeleteByID reports whether a check-in was removed. An absent id is not an error.
func (s *Store) DeleteByID(ctx context.Context, checkInID string) (bool, error) {
	return s.repo.DeleteCheckIn(ctx, checkInID)
}
