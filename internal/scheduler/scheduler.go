package scheduler

import (
	"sync"

	"github.com/ritual-app/ritual/internal/logger"
	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/notify"
)

// Store is the slice of the persistence layer the scheduler needs for its
// follow-up writes: recording that the external notifier accepted a
// submission.
type Store interface {
	MarkNotificationScheduled(id string, scheduled bool) error
}

// ContentFunc renders the reminder content for one notification.
type ContentFunc func(n models.Notification) notify.Content

// Scheduler reconciles committed notification rows with the external
// notifier. Submissions and cancellations run asynchronously and never block
// the writer transaction that produced the rows; the Scheduled flag is
// confirmed by a follow-up write once the notifier's callback returns. One
// failed submission never aborts the rest of a batch.
type Scheduler struct {
	notifier notify.Notifier
	store    Store

	wg sync.WaitGroup
}

func New(notifier notify.Notifier, store Store) *Scheduler {
	return &Scheduler{notifier: notifier, store: store}
}

// Schedule submits every notification in the batch, keyed by its external id.
// The external layer treats resubmission of an id as an overwrite, so a retry
// can never produce two live reminders for one notification. Failures are
// logged per instance and leave Scheduled false so a later rebuild retries.
func (s *Scheduler) Schedule(batch []models.Notification, content ContentFunc) {
	for _, n := range batch {
		n := n
		s.wg.Add(1)
		s.notifier.Submit(n.ExternalID, content(n), n.FireAt, func(err error) {
			defer s.wg.Done()
			if err != nil {
				logger.Warn("Failed to schedule reminder",
					"external_id", n.ExternalID, "fire_at", n.FireAt, "error", err)
				return
			}
			if err := s.store.MarkNotificationScheduled(n.ID, true); err != nil {
				logger.Error("Failed to record scheduled flag",
					"notification_id", n.ID, "error", err)
			}
		})
	}
}

// Unschedule cancels the batch at the external notifier. Cancelling an id the
// notifier no longer holds is a no-op there, so this is safe to call with
// stale or never-confirmed notifications.
func (s *Scheduler) Unschedule(batch []models.Notification) {
	if len(batch) == 0 {
		return
	}
	ids := make([]string, 0, len(batch))
	for _, n := range batch {
		ids = append(ids, n.ExternalID)
	}
	s.notifier.Cancel(ids)
}

// RequestAuthorization forwards an authorization request to the notifier.
func (s *Scheduler) RequestAuthorization(cb func(granted bool, err error)) {
	s.notifier.RequestAuthorization(cb)
}

// AuthorizationStatus reports whether the notifier will accept submissions.
// Missing authorization surfaces here, never as per-notification errors.
func (s *Scheduler) AuthorizationStatus(cb func(authorized bool)) {
	s.notifier.AuthorizationStatus(cb)
}

// Flush blocks until every in-flight submission callback has completed. The
// CLI calls this before exiting; tests use it to observe follow-up writes.
func (s *Scheduler) Flush() {
	s.wg.Wait()
}
