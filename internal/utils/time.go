package utils

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Clock supplies the current instant. It is injected wherever "today" matters
// so that the future-date rule can be tested and follow a configured zone.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock and reports it in Location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock for the given IANA timezone name.
func NewSystemClock(timezone string) (SystemClock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return SystemClock{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return SystemClock{Location: loc}, nil
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Today returns the calendar date of the clock's current instant in the clock's own zone.
func Today(c Clock) civil.Date {
	return civil.DateOf(c.Now())
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("invalid calendar date: %s", s)
	}
	return d, nil
}

// DateFromTime returns the calendar date of t as stored by a database driver.
// Drivers return DATE columns at midnight; the zone of t is kept.
func DateFromTime(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" it returns the system's local timezone; empty means UTC.
func LoadLocation(timezone string) (*time.Location, error) {
	switch timezone {
	case "":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// FormatTimestamp renders a stored timestamp the way the SQLite store keeps it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp is the inverse of FormatTimestamp and also accepts plain RFC3339.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
