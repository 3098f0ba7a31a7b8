package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitstreak/internal/logger"
)

var (
	// ErrNotFound is returned when a referenced habit or check-in does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrDuplicateCheckIn is returned when a habit already has a check-in for the date
	ErrDuplicateCheckIn = stderrors.New("check-in already exists for this date")
	// ErrFutureDate is returned when a check-in is dated after today
	ErrFutureDate = stderrors.New("check-in date cannot be in the future")
	// ErrInvalidInput is returned for malformed field values (names, dates)
	ErrInvalidInput = stderrors.New("invalid input")
	// ErrStorage wraps any underlying persistence failure
	ErrStorage = stderrors.New("storage failure")
)

// Storage wraps a driver error so that it matches ErrStorage while keeping the cause.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// NotFound returns an ErrNotFound naming the missing entity.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q %w", kind, id, ErrNotFound)
}

// Invalid returns an ErrInvalidInput with a field-specific message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Code returns a stable machine-readable code for err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNotFound):
		return "not_found"
	case stderrors.Is(err, ErrDuplicateCheckIn):
		return "duplicate_check_in"
	case stderrors.Is(err, ErrFutureDate):
		return "future_date"
	case stderrors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case stderrors.Is(err, ErrStorage):
		return "storage_failure"
	default:
		return "internal"
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
