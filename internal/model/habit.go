package model

import "time"

type Habit struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Icon            string    `json:"icon"`
	Color           string    `json:"color"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Completion records that a habit was done on one calendar day. Day is the
// epoch day number; Date is its YYYY-MM-DD rendering for clients. At most
// one completion exists per (habit, day), and a completion is never updated
// after insert.
type Completion struct {
	ID        int64     `json:"id"`
	HabitID   int64     `json:"habit_id"`
	UserID    int64     `json:"user_id"`
	Day       int       `json:"day"`
	Date      string    `json:"completed_at"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
