// Package debounce provides a cancellable timer that coalesces bursts of
// triggers into a single deferred call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once the wait window
// has passed without another trigger. At most one call is pending at a time.
type Debouncer struct {
	wait time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64 // bumped on every Trigger/Cancel; a fired timer runs only if its gen is current
	stopped bool
}

// New creates a Debouncer with the given quiet window.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Wait returns the quiet window.
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Trigger schedules fn to run after the wait window, replacing any call
// that is still pending. fn runs on its own goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending call, if any, and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Pending reports whether a call is scheduled and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending call and disables future triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() bool {
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
