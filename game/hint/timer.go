// Package hint schedules the idle hint for a game session.
//
// A Timer holds at most one pending callback. Reset cancels whatever is
// pending and schedules a new one, so the last call wins; Stop cancels it.
package hint

import (
	"sync"
	"time"
)

// Timer is a cancellable deferred callback
type Timer struct {
	mu    sync.Mutex
	delay time.Duration
	fire  func()
	timer *time.Timer
	gen   uint64
}

// NewTimer returns an idle timer that runs fire after delay of inactivity.
// A non-positive delay disables the timer.
func NewTimer(delay time.Duration, fire func()) *Timer {
	return &Timer{delay: delay, fire: fire}
}

// Reset cancels any pending callback and schedules a new one
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if t.delay <= 0 || t.fire == nil {
		return
	}

	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		// a Reset or Stop raced with expiry
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.gen++
		t.mu.Unlock()

		t.fire()
	})
}

// Stop cancels the pending callback, if any
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Pending reports whether a callback is scheduled
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Delay returns the configured idle delay
func (t *Timer) Delay() time.Duration {
	return t.delay
}

func (t *Timer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}
