package models

import "time"

// Notification is one concrete, dated reminder instance derived from a habit
// day crossed with a fire time. ExternalID keys the reminder at the external
// notifier; Scheduled flips to true only after the notifier confirms the
// submission. Notification sets are always torn down and rebuilt wholesale,
// never patched in place.
type Notification struct {
	ID         string    `json:"id"`
	HabitID    string    `json:"habit_id"`
	FireTimeID string    `json:"fire_time_id"`
	ExternalID string    `json:"external_id"`
	FireAt     time.Time `json:"fire_at"`
	Scheduled  bool      `json:"scheduled"`
}
