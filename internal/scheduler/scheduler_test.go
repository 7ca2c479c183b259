package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/notify"
)

// fakeNotifier records submissions and cancellations synchronously.
type fakeNotifier struct {
	mu         sync.Mutex
	submitted  map[string]notify.Request
	canceled   []string
	failIDs    map[string]bool
	authorized bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		submitted:  map[string]notify.Request{},
		failIDs:    map[string]bool{},
		authorized: true,
	}
}

func (f *fakeNotifier) RequestAuthorization(cb func(bool, error)) {
	cb(f.authorized, nil)
}

func (f *fakeNotifier) AuthorizationStatus(cb func(bool)) {
	cb(f.authorized)
}

func (f *fakeNotifier) Submit(id string, content notify.Content, fireAt time.Time, cb func(error)) {
	f.mu.Lock()
	fail := f.failIDs[id]
	if !fail {
		f.submitted[id] = notify.Request{ID: id, Content: content, FireAt: fireAt}
	}
	f.mu.Unlock()

	if fail {
		cb(errors.New("notifier refused submission"))
		return
	}
	cb(nil)
}

func (f *fakeNotifier) Cancel(ids []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.submitted, id)
		f.canceled = append(f.canceled, id)
	}
}

func (f *fakeNotifier) PendingIDs(cb func([]string, error)) {
	f.mu.Lock()
	ids := make([]string, 0, len(f.submitted))
	for id := range f.submitted {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	cb(ids, nil)
}

// fakeStore records scheduled-flag writes.
type fakeStore struct {
	mu        sync.Mutex
	scheduled map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{scheduled: map[string]bool{}}
}

func (f *fakeStore) MarkNotificationScheduled(id string, scheduled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[id] = scheduled
	return nil
}

func notificationBatch(n int) []models.Notification {
	out := make([]models.Notification, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Notification{
			ID:         uuid.New().String(),
			HabitID:    "habit-1",
			FireTimeID: "ft-1",
			ExternalID: uuid.New().String(),
			FireAt:     time.Now().Add(time.Duration(i+1) * time.Hour),
		})
	}
	return out
}

func plainContent(n models.Notification) notify.Content {
	return notify.Content{Title: "guitar", Body: "practice", Tag: n.HabitID}
}

func TestScheduleMarksScheduled(t *testing.T) {
	notifier := newFakeNotifier()
	store := newFakeStore()
	s := New(notifier, store)

	batch := notificationBatch(3)
	s.Schedule(batch, plainContent)
	s.Flush()

	for _, n := range batch {
		if _, ok := notifier.submitted[n.ExternalID]; !ok {
			t.Errorf("expected %s submitted", n.ExternalID)
		}
		if !store.scheduled[n.ID] {
			t.Errorf("expected follow-up write marking %s scheduled", n.ID)
		}
	}
}

func TestSchedulePartialFailure(t *testing.T) {
	notifier := newFakeNotifier()
	store := newFakeStore()
	s := New(notifier, store)

	batch := notificationBatch(3)
	notifier.failIDs[batch[1].ExternalID] = true

	s.Schedule(batch, plainContent)
	s.Flush()

	if len(notifier.submitted) != 2 {
		t.Errorf("expected 2 successful submissions, got %d", len(notifier.submitted))
	}
	if store.scheduled[batch[1].ID] {
		t.Error("expected failed notification to stay unscheduled")
	}
	if !store.scheduled[batch[0].ID] || !store.scheduled[batch[2].ID] {
		t.Error("expected one failure not to abort the rest of the batch")
	}
}

func TestScheduleContentCarriesOrdinalBody(t *testing.T) {
	notifier := newFakeNotifier()
	store := newFakeStore()
	s := New(notifier, store)

	batch := notificationBatch(1)
	s.Schedule(batch, func(n models.Notification) notify.Content {
		return notify.Content{Title: "guitar", Body: "This is the 2nd day of your challenge.", Tag: n.HabitID}
	})
	s.Flush()

	req := notifier.submitted[batch[0].ExternalID]
	if req.Content.Body != "This is the 2nd day of your challenge." {
		t.Errorf("unexpected body %q", req.Content.Body)
	}
	if req.Content.Tag != "habit-1" {
		t.Errorf("expected habit tag, got %q", req.Content.Tag)
	}
}

func TestUnscheduleCancelsByExternalID(t *testing.T) {
	notifier := newFakeNotifier()
	store := newFakeStore()
	s := New(notifier, store)

	batch := notificationBatch(2)
	s.Schedule(batch, plainContent)
	s.Flush()

	s.Unschedule(batch)

	if len(notifier.submitted) != 0 {
		t.Errorf("expected all reminders withdrawn, %d still live", len(notifier.submitted))
	}
	if len(notifier.canceled) != 2 {
		t.Errorf("expected 2 cancellations, got %d", len(notifier.canceled))
	}
}

func TestUnscheduleUnknownIDsIsNoop(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier, newFakeStore())

	// Nothing was ever scheduled; cancel-of-absent must not blow up.
	s.Unschedule(notificationBatch(2))

	if len(notifier.canceled) != 2 {
		t.Errorf("expected cancel calls to pass through, got %d", len(notifier.canceled))
	}
}

func TestAuthorizationPassthrough(t *testing.T) {
	notifier := newFakeNotifier()
	notifier.authorized = false
	s := New(notifier, newFakeStore())

	var status bool
	s.AuthorizationStatus(func(ok bool) { status = ok })
	if status {
		t.Error("expected unauthorized status")
	}

	var granted bool
	s.RequestAuthorization(func(ok bool, err error) { granted = ok })
	if granted {
		t.Error("expected authorization denied")
	}
}
