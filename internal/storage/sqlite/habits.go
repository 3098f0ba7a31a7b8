package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

const habitColumns = "id, name, description, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var description sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&h.ID, &h.Name, &description, &createdAt, &updatedAt); err != nil {
		return models.Habit{}, err
	}
	if description.Valid {
		d := description.String
		h.Description = &d
	}

	var err error
	h.CreatedAt, err = utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.UpdatedAt, err = utils.ParseTimestamp(updatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return h, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, nullable(habit.Description),
		utils.FormatTimestamp(habit.CreatedAt), utils.FormatTimestamp(habit.UpdatedAt))
	if err != nil {
		return apperrors.Storage("insert habit", err)
	}
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	if err != nil {
		return models.Habit{}, apperrors.Storage("get habit", err)
	}
	return h, nil
}

func (s *Store) GetHabitsByName(ctx context.Context, name string) ([]models.Habit, error) {
	return s.queryHabits(ctx, "get habits by name",
		`SELECT `+habitColumns+` FROM habits WHERE name = ? ORDER BY created_at, id`, name)
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	return s.queryHabits(ctx, "list habits",
		`SELECT `+habitColumns+` FROM habits ORDER BY created_at, id`)
}

func (s *Store) queryHabits(ctx context.Context, op, query string, args ...any) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, apperrors.Storage(op, err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return habits, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits SET name = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		habit.Name, nullable(habit.Description), utils.FormatTimestamp(habit.UpdatedAt), habit.ID)
	if err != nil {
		return apperrors.Storage("update habit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Storage("update habit", err)
	}
	if n == 0 {
		return apperrors.NotFound("habit", habit.ID)
	}
	return nil
}

// DeleteHabit removes the habit; its check-ins go with it via ON DELETE CASCADE.
func (s *Store) DeleteHabit(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return false, apperrors.Storage("delete habit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage("delete habit", err)
	}
	return n > 0, nil
}
