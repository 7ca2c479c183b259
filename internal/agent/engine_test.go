package agent

import (
	"sort"
	"testing"
	"time"

	"github.com/ritual-app/ritual/internal/notify"
)

func TestEngineRejectsZeroFireTime(t *testing.T) {
	e := NewEngine(4)
	e.Start()
	defer e.Stop()

	if err := e.Schedule(notify.Request{ID: "a"}); err != ErrInvalidFireTime {
		t.Errorf("expected ErrInvalidFireTime, got %v", err)
	}
}

func TestEngineFiresInOrder(t *testing.T) {
	e := NewEngine(8)
	e.Start()
	defer e.Stop()

	now := time.Now()
	// Schedule out of order on purpose.
	for _, spec := range []struct {
		id    string
		delay time.Duration
	}{
		{"third", 90 * time.Millisecond},
		{"first", 30 * time.Millisecond},
		{"second", 60 * time.Millisecond},
	} {
		if err := e.Schedule(notify.Request{ID: spec.id, FireAt: now.Add(spec.delay)}); err != nil {
			t.Fatalf("failed to schedule %s: %v", spec.id, err)
		}
	}

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case req := <-e.C():
			got = append(got, req.ID)
		case <-timeout:
			t.Fatalf("timed out, fired so far: %v", got)
		}
	}

	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected fire order %v, got %v", want, got)
		}
	}
}

func TestEngineOverwriteByID(t *testing.T) {
	e := NewEngine(8)
	e.Start()
	defer e.Stop()

	far := time.Now().Add(time.Hour)
	if err := e.Schedule(notify.Request{ID: "x", FireAt: far}); err != nil {
		t.Fatal(err)
	}
	if err := e.Schedule(notify.Request{ID: "x", FireAt: far.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	pending := e.Pending()
	if len(pending) != 1 || pending[0] != "x" {
		t.Errorf("expected a single pending entry for id x, got %v", pending)
	}
}

func TestEngineCancel(t *testing.T) {
	e := NewEngine(8)
	e.Start()
	defer e.Stop()

	far := time.Now().Add(time.Hour)
	for _, id := range []string{"a", "b", "c"} {
		if err := e.Schedule(notify.Request{ID: id, FireAt: far}); err != nil {
			t.Fatal(err)
		}
	}

	e.Cancel([]string{"b", "unknown"})

	pending := e.Pending()
	sort.Strings(pending)
	if len(pending) != 2 || pending[0] != "a" || pending[1] != "c" {
		t.Errorf("expected pending [a c], got %v", pending)
	}
}

func TestEngineStopRejectsSchedule(t *testing.T) {
	e := NewEngine(4)
	e.Start()
	e.Stop()

	err := e.Schedule(notify.Request{ID: "late", FireAt: time.Now().Add(time.Hour)})
	if err != ErrEngineStopped {
		t.Errorf("expected ErrEngineStopped, got %v", err)
	}
}
