package postgres

import (
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
)

const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
)

func classifyInsert(op string, habitID string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, apperrors.ErrDuplicateCheckIn)
		case foreignKeyViolation:
			return apperrors.NotFound("habit", habitID)
		}
	}
	return apperrors.Storage(op, err)
}
