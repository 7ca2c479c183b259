package agent

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ritual-app/ritual/internal/notify"
)

var (
	// ErrInvalidFireTime is returned when a request carries a zero instant.
	ErrInvalidFireTime = errors.New("agent: invalid fire time")
	// ErrEngineStopped is returned once the engine has shut down.
	ErrEngineStopped = errors.New("agent: engine stopped")
)

type queueItem struct {
	req notify.Request
}

type requestQueue []queueItem

func (q requestQueue) Len() int { return len(q) }

func (q requestQueue) Less(i, j int) bool {
	return q[i].req.FireAt.Before(q[j].req.FireAt)
}

func (q requestQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *requestQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *requestQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine holds pending reminder requests in a time-ordered heap and emits
// them on its out channel when due. Scheduling an id that is already pending
// overwrites the earlier request, so resubmission never yields two live
// reminders for one id.
type Engine struct {
	mu      sync.Mutex
	queue   requestQueue
	byID    map[string]struct{}
	out     chan notify.Request
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(requestQueue, 0),
		byID:   make(map[string]struct{}),
		out:    make(chan notify.Request, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C is the channel of due reminder requests.
func (e *Engine) C() <-chan notify.Request {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule enqueues a request, replacing any pending request with the same id.
func (e *Engine) Schedule(req notify.Request) error {
	if req.FireAt.IsZero() {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	if _, exists := e.byID[req.ID]; exists {
		e.removeLocked(req.ID)
	}

	heap.Push(&e.queue, queueItem{req: req})
	e.byID[req.ID] = struct{}{}
	e.signalWakeup()
	return nil
}

// Cancel drops pending requests by id. Unknown ids are ignored.
func (e *Engine) Cancel(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		if _, exists := e.byID[id]; exists {
			e.removeLocked(id)
		}
	}
	e.signalWakeup()
}

// Pending returns the ids of requests still waiting to fire.
func (e *Engine) Pending() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.byID))
	for id := range e.byID {
		ids = append(ids, id)
	}
	return ids
}

// Dropped reports how many due requests were discarded because the out
// channel was full.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// removeLocked deletes the queue entry for id. Callers hold e.mu.
func (e *Engine) removeLocked(id string) {
	for i := range e.queue {
		if e.queue[i].req.ID == id {
			heap.Remove(&e.queue, i)
			break
		}
	}
	delete(e.byID, id)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, req := range due {
				select {
				case e.out <- req:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (notify.Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return notify.Request{}, false
	}
	return e.queue[0].req, true
}

func (e *Engine) popDue(now time.Time) []notify.Request {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]notify.Request, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].req
		if next.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		delete(e.byID, item.req.ID)
		out = append(out, item.req)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
