package schedule

import (
	"sync"
	"time"
)

// DefaultThrottle is the inner throttle interval bounding
// reconciliation frequency during pointer drags.
const DefaultThrottle = 100 * time.Millisecond

// SelectionScheduler wraps a selection-change handler in a throttle
// and a zero-delay debounce. The ordering guarantees are part of the
// contract: a burst of notifications within one turn yields exactly
// one handler run, and Flush runs any pending pass synchronously.
//
// The handler itself never runs on a timer goroutine. When a pass
// comes due, it is posted through the post function (the host's task
// queue), so the handler only ever executes on the host turn alongside
// every other mutation of the shared model.
type SelectionScheduler struct {
	mu sync.Mutex

	fn       func()
	post     func(fn func())
	interval time.Duration

	lastRun       time.Time
	debouncePend  bool
	throttlePend  bool
	deliverPend   bool
	debounceTimer *time.Timer
	throttleTimer *time.Timer
	stopped       bool
}

// Option configures a SelectionScheduler.
type Option func(*SelectionScheduler)

// WithThrottle overrides the inner throttle interval.
func WithThrottle(d time.Duration) Option {
	return func(s *SelectionScheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewSelectionScheduler wraps fn. post marshals a function onto the
// host turn; fn is only ever invoked through it, or synchronously from
// Flush (whose callers are on the host turn already).
func NewSelectionScheduler(fn func(), post func(fn func()), opts ...Option) *SelectionScheduler {
	s := &SelectionScheduler{fn: fn, post: post, interval: DefaultThrottle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify records a native selection-change notification. The outer
// debounce coalesces all notifications issued within the current turn;
// the inner throttle then decides whether the pass is posted now or at
// the trailing edge of the interval.
func (s *SelectionScheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.debouncePend {
		// Already coalescing this turn's burst.
		return
	}
	s.debouncePend = true
	s.debounceTimer = time.AfterFunc(0, s.debounced)
}

// debounced is the outer layer's trailing edge: hand the pass to the
// throttle.
func (s *SelectionScheduler) debounced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.debouncePend {
		return
	}
	s.debouncePend = false
	s.throttleLocked()
}

// throttleLocked posts the pass now if the interval has elapsed,
// otherwise schedules a trailing-edge post. Callers hold the lock.
func (s *SelectionScheduler) throttleLocked() {
	since := time.Since(s.lastRun)
	if since >= s.interval {
		s.postLocked()
		return
	}
	if s.throttlePend {
		return
	}
	s.throttlePend = true
	s.throttleTimer = time.AfterFunc(s.interval-since, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped || !s.throttlePend {
			return
		}
		s.throttlePend = false
		s.postLocked()
	})
}

// postLocked hands the pass to the host turn. Callers hold the lock.
// The throttle interval is measured from the post, not the delivery.
func (s *SelectionScheduler) postLocked() {
	if s.deliverPend {
		return
	}
	s.deliverPend = true
	s.lastRun = time.Now()
	s.post(s.deliver)
}

// deliver runs the handler on the host turn. A pass flushed or
// stopped between post and delivery is a no-op.
func (s *SelectionScheduler) deliver() {
	s.mu.Lock()
	if s.stopped || !s.deliverPend {
		s.mu.Unlock()
		return
	}
	s.deliverPend = false
	fn := s.fn
	s.mu.Unlock()
	fn()
}

// Flush forces any pending pass to run immediately and synchronously,
// whether it was still debouncing, throttled, or already posted. If
// nothing is pending, Flush is a no-op.
func (s *SelectionScheduler) Flush() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	pending := s.debouncePend || s.throttlePend || s.deliverPend
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	if s.throttleTimer != nil {
		s.throttleTimer.Stop()
	}
	s.debouncePend = false
	s.throttlePend = false
	s.deliverPend = false
	var fn func()
	if pending {
		s.lastRun = time.Now()
		fn = s.fn
	}
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop cancels any pending pass. The scheduler cannot be restarted.
func (s *SelectionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	if s.throttleTimer != nil {
		s.throttleTimer.Stop()
	}
	s.debouncePend = false
	s.throttlePend = false
	s.deliverPend = false
}
