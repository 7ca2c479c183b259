package models

import "time"

// Day is a canonical calendar-day record: at most one exists per distinct
// date. It acts as a shared lookup key, not an owner. Habit days reference
// it weakly and a Day is only deleted once nothing references it.
type Day struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"` // truncated to local midnight
}

// HabitDay is the execution record for a habit on one calendar day. It belongs
// to exactly one challenge while that challenge is active.
type HabitDay struct {
	ID        string    `json:"id"`
	DayID     string    `json:"day_id"`
	Date      time.Time `json:"date"` // denormalized from the Day record
	Executed  bool      `json:"executed"`
	UpdatedAt time.Time `json:"updated_at"`
}
