package search

import (
	"sync"
	"time"
)

// DebounceInterval is the quiet period applied to query input before the
// ranker recomputes. Fast typing collapses into a single recomputation.
const DebounceInterval = 300 * time.Millisecond

// Debouncer coalesces rapid query changes into trailing-edge callbacks.
// Safe for concurrent use; the callback runs on a timer goroutine.
type Debouncer struct {
	interval time.Duration
	fn       func(query string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	stopped bool
}

// NewDebouncer wraps fn so it only fires after input has been quiet for the
// given interval. A zero interval falls back to DebounceInterval.
func NewDebouncer(interval time.Duration, fn func(query string)) *Debouncer {
	if interval <= 0 {
		interval = DebounceInterval
	}
	return &Debouncer{interval: interval, fn: fn}
}

// Trigger records a new query value, resetting the quiet-period timer.
// Only the last value observed before the timer fires is delivered.
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = query

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	query := d.pending
	d.mu.Unlock()

	d.fn(query)
}

// Stop cancels any pending callback. The debouncer ignores further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
