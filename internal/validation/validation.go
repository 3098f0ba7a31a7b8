package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitstreak/internal/constants"
	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/utils"
)

// HabitName trims name and checks it is non-blank and at most
// MaxHabitNameLength characters.
func HabitName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apperrors.Invalid("habit name cannot be empty")
	}
	if n := utf8.RuneCountInString(trimmed); n > constants.MaxHabitNameLength {
		return "", apperrors.Invalid("habit name is %d characters, maximum is %d", n, constants.MaxHabitNameLength)
	}
	return trimmed, nil
}

// OptionalText trims s and returns nil when nothing is left.
func OptionalText(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// OptionalDate parses a YYYY-MM-DD value; an empty string means "not given".
func OptionalDate(s string) (*civil.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return nil, apperrors.Invalid("%v", err)
	}
	return &d, nil
}

// ConflictType represents the type of data integrity problem
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictDuplicateCheckIn   ConflictType = "duplicate_check_in"
	ConflictFutureCheckIn      ConflictType = "future_check_in"
	ConflictOrphanCheckIn      ConflictType = "orphan_check_in"
)

// Conflict is one detected integrity problem
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string
	Items       []string
}

type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks stored habits and check-ins for problems the schema
// cannot rule out on its own, such as dates that became "future" after a
// timezone change or data imported from another store.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateData(habits []models.Habit, checkIns []models.CheckIn, today civil.Date) ValidationResult {
	var result ValidationResult
	result.Conflicts = append(result.Conflicts, v.duplicateNames(habits)...)
	result.Conflicts = append(result.Conflicts, v.checkInProblems(habits, checkIns, today)...)
	return result
}

func (v *Validator) duplicateNames(habits []models.Habit) []Conflict {
	byName := make(map[string][]string)
	for _, h := range habits {
		key := strings.ToLower(h.Name)
		byName[key] = append(byName[key], h.ID)
	}

	names := make([]string, 0, len(byName))
	for name, ids := range byName {
		if len(ids) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	conflicts := make([]Conflict, 0, len(names))
	for _, name := range names {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictDuplicateHabitName,
			Description: fmt.Sprintf("%d habits are named %q; refer to them by id", len(byName[name]), name),
			Items:       byName[name],
		})
	}
	return conflicts
}

func (v *Validator) checkInProblems(habits []models.Habit, checkIns []models.CheckIn, today civil.Date) []Conflict {
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}

	type key struct {
		habitID string
		day     civil.Date
	}
	seen := make(map[key]string, len(checkIns))

	var conflicts []Conflict
	for _, c := range checkIns {
		if !known[c.HabitID] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictOrphanCheckIn,
				Description: fmt.Sprintf("check-in %s references missing habit %s", c.ID, c.HabitID),
				Date:        c.Date.String(),
				Items:       []string{c.ID},
			})
		}
		if c.Date.After(today) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictFutureCheckIn,
				Description: fmt.Sprintf("check-in %s is dated %s, after today (%s)", c.ID, c.Date, today),
				Date:        c.Date.String(),
				Items:       []string{c.ID},
			})
		}
		k := key{c.HabitID, c.Date}
		if first, ok := seen[k]; ok {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateCheckIn,
				Description: fmt.Sprintf("habit %s has more than one check-in on %s", c.HabitID, c.Date),
				Date:        c.Date.String(),
				Items:       []string{first, c.ID},
			})
			continue
		}
		seen[k] = c.ID
	}
	return conflicts
}
