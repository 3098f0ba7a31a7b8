package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cloud.google.com/go/civil"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/models"
)

const checkInColumns = "id, habit_id, day, note, created_at"

const streaksQuery = `
	WITH ordered AS (
		SELECT day, ROW_NUMBER() OVER (ORDER BY day) AS rn
		FROM check_ins
		WHERE habit_id = $1
	)
	SELECT MIN(day), MAX(day), COUNT(*)
	FROM ordered
	GROUP BY day - rn::int
	ORDER BY MIN(day)`

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	var day time.Time
	var note sql.NullString
	if err := row.Scan(&c.ID, &c.HabitID, &day, &note, &c.CreatedAt); err != nil {
		return models.CheckIn{}, err
	}
	c.Date = civil.DateOf(day)
	if note.Valid {
		n := note.String
		c.Note = &n
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *Store) InsertCheckIn(ctx context.Context, c models.CheckIn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO check_ins (`+checkInColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.HabitID, c.Date.String(), nullable(c.Note), c.CreatedAt)
	if err != nil {
		return classifyInsert("insert check-in", c.HabitID, err)
	}
	return nil
}

func (s *Store) GetCheckIn(ctx context.Context, id string) (models.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+checkInColumns+` FROM check_ins WHERE id = $1`, id)
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
		`SELECT `+checkInColumns+` FROM check_ins WHERE habit_id = $1 ORDER BY day DESC`, habitID)
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
		`SELECT day FROM check_ins WHERE habit_id = $1 ORDER BY day ASC`, habitID)
	if err != nil {
		return nil, apperrors.Storage("list check-in dates", err)
	}
	defer rows.Close()

	dates := []civil.Date{}
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, apperrors.Storage("list check-in dates", err)
		}
		dates = append(dates, civil.DateOf(day))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list check-in dates", err)
	}
	return dates, nil
}

func (s *Store) DeleteCheckIn(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM check_ins WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.Storage("delete check-in", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage("delete check-in", err)
	}
	return n > 0, nil
}

// StreaksForHabit groups by day - rank, which is constant within a run of
// consecutive dates.
func (s *Store) StreaksForHabit(ctx context.Context, habitID string) ([]models.Streak, error) {
	rows, err := s.db.QueryContext(ctx, streaksQuery, habitID)
	if err != nil {
		return nil, apperrors.Storage("compute streaks", err)
	}
	defer rows.Close()

	streaks := []models.Streak{}
	for rows.Next() {
		var first, last time.Time
		var st models.Streak
		if err := rows.Scan(&first, &last, &st.Days); err != nil {
			return nil, apperrors.Storage("compute streaks", err)
		}
		st.First = civil.DateOf(first)
		st.Last = civil.DateOf(last)
		streaks = append(streaks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("compute streaks", err)
	}
	return streaks, nil
}
