package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

const checkInColumns = "id, habit_id, day, note, created_at"

// streaksQuery groups consecutive days by the invariant day - rank.
const streaksQuery = `
	WITH ordered AS (
		SELECT day, ROW_NUMBER() OVER (ORDER BY day) AS rn
		FROM check_ins
		WHERE habit_id = ?
	),
	grouped AS (
		SELECT day, date(julianday(day) - rn) AS grp
		FROM ordered
	)
	SELECT MIN(day), MAX(day), COUNT(*)
	FROM grouped
	GROUP BY grp
	ORDER BY MIN(day)`

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	var day, createdAt string
	var note sql.NullString

	if err := row.Scan(&c.ID, &c.HabitID, &day, &note, &createdAt); err != nil {
		return models.CheckIn{}, err
	}

	var err error
	c.Date, err = civil.ParseDate(day)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to parse day: %w", err)
	}
	if note.Valid {
		n := note.String
		c.Note = &n
	}
	c.CreatedAt, err = utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return c, nil
}

// InsertCheckIn relies on UNIQUE(habit_id, day) for atomic duplicate detection.
func (s *Store) InsertCheckIn(ctx context.Context, c models.CheckIn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO check_ins (`+checkInColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.HabitID, c.Date.String(), nullable(c.Note), utils.FormatTimestamp(c.CreatedAt))
	if err != nil {
		return classifyInsert("insert check-in", c.HabitID, err)
	}
	return nil
}

func (s *Store) GetCheckIn(ctx context.Context, id string) (models.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+checkInColumns+` FROM check_ins WHERE id = ?`, id)
	c, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckIn{}, apperrors.NotFound("check-in", id)
	}
	if err != nil {
		return models.CheckIn{}, apperrors.Storage("get check-in", err)
	}
	return c, nil
}

func (s *Store) GetCheckInsForHabit(ctx context.Context, habitID string) ([]models.CheckIn, error) {
	return s.queryCheckIns(ctx, "list check-ins",
		`SELECT `+checkInColumns+` FROM check_ins WHERE habit_id = ? ORDER BY day DESC`, habitID)
}

func (s *Store) GetAllCheckIns(ctx context.Context) ([]models.CheckIn, error) {
	return s.queryCheckIns(ctx, "list all check-ins",
		`SELECT `+checkInColumns+` FROM check_ins ORDER BY habit_id, day`)
}

func (s *Store) queryCheckIns(ctx context.Context, op, query string, args ...any) ([]models.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}
	defer rows.Close()

	checkIns := []models.CheckIn{}
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, apperrors.Storage(op, err)
		}
		checkIns = append(checkIns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return checkIns, nil
}

func (s *Store) ListCheckInDates(ctx context.Context, habitID string) ([]civil.Date, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day FROM check_ins WHERE habit_id = ? ORDER BY day ASC`, habitID)
	if err != nil {
		return nil, apperrors.Storage("list check-in dates", err)
	}
	defer rows.Close()

	dates := []civil.Date{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, apperrors.Storage("list check-in dates", err)
		}
		d, err := civil.ParseDate(day)
		if err != nil {
			return nil, apperrors.Storage("list check-in dates", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list check-in dates", err)
	}
	return dates, nil
}

func (s *Store) DeleteCheckIn(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM check_ins WHERE id = ?`, id)
	if err != nil {
		return false, apperrors.Storage("delete check-in", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage("delete check-in", err)
	}
	return n > 0, nil
}

// StreaksForHabit computes streaks inside SQLite with a window function.
func (s *Store) StreaksForHabit(ctx context.Context, habitID string) ([]models.Streak, error) {
	rows, err := s.db.QueryContext(ctx, streaksQuery, habitID)
	if err != nil {
		return nil, apperrors.Storage("compute streaks", err)
	}
	defer rows.Close()

	streaks := []models.Streak{}
	for rows.Next() {
		var first, last string
		var st models.Streak
		if err := rows.Scan(&first, &last, &st.Days); err != nil {
			return nil, apperrors.Storage("compute streaks", err)
		}
		if st.First, err = civil.ParseDate(first); err != nil {
			return nil, apperrors.Storage("compute streaks", err)
		}
		if st.Last, err = civil.ParseDate(last); err != nil {
			return nil, apperrors.Storage("compute streaks", err)
		}
		streaks = append(streaks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("compute streaks", err)
	}
	return streaks, nil
}
