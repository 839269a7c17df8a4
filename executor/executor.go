// Package executor provides the cancellable scheduled-work primitive used
// by offerqueue (decline timers) and taskgroups (retry timers). It is the
// "Timers + handles" design note from spec.md §9: any runtime-provided
// scheduled executor works, cancellation is best-effort, and handlers
// must re-check liveness at the top of each firing (spec §5).
package executor

import (
	"sync"
	"time"
)

// Handle lets a caller cancel a scheduled work item. Cancel is
// best-effort: a handler racing with Cancel may still fire once, so
// callers re-check preconditions at the top of their handler rather than
// relying on Cancel alone (spec §5).
type Handle interface {
	// Cancel prevents a not-yet-fired work item from firing. Returns
	// false if the item already fired or was already cancelled.
	Cancel() bool
}

type timerHandle struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func (h *timerHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.stopped = true
	return h.timer.Stop()
}

// Executor schedules one-shot work on a shared logical timeline. The zero
// value is not usable; construct with New.
type Executor struct {
	// clock allows tests to control time without sleeping (see
	// WithClock). Defaults to the real wall clock.
	now func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithClock overrides Now's time source. Schedule itself always runs on
// the real wall clock (time.AfterFunc offers no injection point); this
// only affects what Now reports to callers that stamp state with it.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New returns an Executor that schedules work with time.AfterFunc.
func New(opts ...Option) *Executor {
	e := &Executor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schedule runs fn after d, returning a Handle that can cancel it before
// it fires. fn is invoked on its own goroutine, matching time.AfterFunc.
func (e *Executor) Schedule(d time.Duration, fn func()) Handle {
	h := &timerHandle{}
	h.timer = time.AfterFunc(d, fn)
	return h
}

// Now returns the executor's notion of the current time.
func (e *Executor) Now() time.Time {
	return e.now()
}
