package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CheckIn records that a habit was completed on a calendar day.
// At most one exists per (HabitID, Date).
type CheckIn struct {
	ID        string     `json:"id"`
	HabitID   string     `json:"habit_id"`
	Date      civil.Date `json:"date"`
	Note      *string    `json:"note"`
	CreatedAt time.Time  `json:"created_at"`
}

// HabitUpdate carries a partial update; nil fields are left unchanged.
type HabitUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
