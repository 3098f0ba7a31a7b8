package sqlite

import (
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
)

func constraintKind(err error) string {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return ""
	}
	code := se.Code()
	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return "unique"
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return "foreign_key"
	case code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"):
		return "unique"
	case code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY"):
		return "foreign_key"
	}
	return ""
}

// classifyInsert maps constraint violations on check_ins to the domain taxonomy.
func classifyInsert(op string, habitID string, err error) error {
	switch constraintKind(err) {
	case "unique":
		return fmt.Errorf("%s: %w", op, apperrors.ErrDuplicateCheckIn)
	case "foreign_key":
		return apperrors.NotFound("habit", habitID)
	}
	return apperrors.Storage(op, err)
}
