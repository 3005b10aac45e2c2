package schedule

import (
	"sync"
	"testing"
	"time"
)

// taskQueue stands in for the host's task queue: posts land in a
// slice and run only when the test drains them, the way a host turn
// would.
type taskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *taskQueue) post(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// drain runs all queued tasks and returns how many ran.
func (q *taskQueue) drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		fn()
		n++
	}
}

func drainUntil(t *testing.T, q *taskQueue, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		q.drain()
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPassRunsOnlyWhenDrained(t *testing.T) {
	runs := 0
	q := &taskQueue{}
	s := NewSelectionScheduler(func() { runs++ }, q.post, WithThrottle(20*time.Millisecond))
	defer s.Stop()

	s.Notify()
	// The timers fire on their own goroutines, but the pass must wait
	// for the queue.
	time.Sleep(30 * time.Millisecond)
	if runs != 0 {
		t.Fatalf("runs before drain = %d, want 0", runs)
	}
	drainUntil(t, q, func() bool { return runs == 1 })
}

func TestBurstCoalescesToOneRun(t *testing.T) {
	runs := 0
	q := &taskQueue{}
	s := NewSelectionScheduler(func() { runs++ }, q.post, WithThrottle(20*time.Millisecond))
	defer s.Stop()

	// A first run to arm the throttle, then a same-turn burst.
	s.Notify()
	drainUntil(t, q, func() bool { return runs == 1 })

	for i := 0; i < 10; i++ {
		s.Notify()
	}
	drainUntil(t, q, func() bool { return runs == 2 })

	// The trailing edge has fired; no further runs arrive.
	time.Sleep(60 * time.Millisecond)
	q.drain()
	if runs != 2 {
		t.Errorf("runs = %d, want 2 (burst coalesced)", runs)
	}
}

func TestThrottleDelaysSecondRun(t *testing.T) {
	var stamps []time.Time
	q := &taskQueue{}
	interval := 50 * time.Millisecond
	s := NewSelectionScheduler(func() { stamps = append(stamps, time.Now()) }, q.post, WithThrottle(interval))
	defer s.Stop()

	s.Notify()
	drainUntil(t, q, func() bool { return len(stamps) == 1 })
	s.Notify()
	drainUntil(t, q, func() bool { return len(stamps) == 2 })

	if gap := stamps[1].Sub(stamps[0]); gap < interval-5*time.Millisecond {
		t.Errorf("second run after %v, want at least ~%v", gap, interval)
	}
}

func TestFlushRunsPendingSynchronously(t *testing.T) {
	runs := 0
	q := &taskQueue{}
	s := NewSelectionScheduler(func() { runs++ }, q.post, WithThrottle(time.Hour))
	defer s.Stop()

	s.Notify()
	drainUntil(t, q, func() bool { return runs == 1 })

	// This pass is throttled an hour out; Flush must not wait for it.
	s.Notify()
	time.Sleep(10 * time.Millisecond) // let the debounce hand off
	s.Flush()
	if runs != 2 {
		t.Errorf("runs after Flush = %d, want 2", runs)
	}
}

func TestFlushConsumesPostedPass(t *testing.T) {
	runs := 0
	q := &taskQueue{}
	s := NewSelectionScheduler(func() { runs++ }, q.post)
	defer s.Stop()

	s.Notify()
	// Wait for the pass to be posted, then flush before draining: the
	// flush runs it, the stale queued delivery must not run it again.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		q.mu.Lock()
		posted := len(q.tasks) > 0
		q.mu.Unlock()
		if posted {
			break
		}
		time.Sleep(time.Millisecond)
	}
	s.Flush()
	if runs != 1 {
		t.Fatalf("runs after Flush = %d, want 1", runs)
	}
	q.drain()
	if runs != 1 {
		t.Errorf("runs after drain = %d, want 1 (stale delivery ran)", runs)
	}
}

func TestFlushWithNothingPendingIsNoop(t *testing.T) {
	runs := 0
	q := &taskQueue{}
	s := NewSelectionScheduler(func() { runs++ }, q.post)
	defer s.Stop()

	s.Flush()
	if runs != 0 {
		t.Errorf("runs = %d, want 0", runs)
	}
}

func TestStopCancelsPending(t *testing.T) {
	runs := 0
	q := &taskQueue{}
	s := NewSelectionScheduler(func() { runs++ }, q.post, WithThrottle(time.Hour))

	s.Notify()
	drainUntil(t, q, func() bool { return runs == 1 })
	s.Notify()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Flush()
	s.Notify()
	time.Sleep(10 * time.Millisecond)
	q.drain()
	if runs != 1 {
		t.Errorf("runs after Stop = %d, want 1", runs)
	}
}
