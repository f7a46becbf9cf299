package fs

import (
	"sync"
	"time"

	"github.com/aretw0/clipmemo/pkg/core"
)

// debouncer coalesces bursts of filesystem events per storage key. Editors
// and atomic renames fire several notifications for one logical write; only
// the last event within the window is delivered.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
	}
}

// add schedules emit(event) after the quiet period, replacing any pending
// delivery for the same key.
func (d *debouncer) add(event core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, ok := d.timers[event.Key]; ok {
		if timer.Stop() {
			d.wg.Done()
		}
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		// Only clear the slot if it still belongs to this timer; a newer
		// event may have replaced it already.
		if d.timers[event.Key] == timer {
			delete(d.timers, event.Key)
		}
		d.mu.Unlock()

		emit(event)
	})
	d.timers[event.Key] = timer
}

// stopAndWait stops accepting events and waits (bounded) for in-flight
// timers to finish, so a closing events channel cannot race a delivery.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, timer := range d.timers {
		if timer.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
