package notify

import "time"

// Content is the user-visible payload of one scheduled reminder.
type Content struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	Tag      string `json:"tag"`
}

// Request pairs reminder content with the instant it should fire at, keyed by
// the notification's external identifier.
type Request struct {
	ID      string    `json:"id"`
	Content Content   `json:"content"`
	FireAt  time.Time `json:"fire_at"`
}

// Notifier is the external OS-level notification service the sync scheduler
// reconciles against. All operations are asynchronous and best-effort:
// submitting twice with the same id overwrites, cancelling an unknown id is a
// no-op, and delivery carries no guarantee beyond what the service provides.
type Notifier interface {
	// RequestAuthorization asks the service for permission to post reminders.
	RequestAuthorization(cb func(granted bool, err error))
	// AuthorizationStatus reports whether reminders may currently be posted.
	AuthorizationStatus(cb func(authorized bool))
	// Submit registers a reminder keyed by id, replacing any previous
	// reminder with the same id.
	Submit(id string, content Content, fireAt time.Time, cb func(err error))
	// Cancel withdraws the reminders with the given ids, ignoring unknown ones.
	Cancel(ids []string)
	// PendingIDs lists the ids of reminders the service still holds.
	PendingIDs(cb func(ids []string, err error))
}
