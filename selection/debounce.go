package selection

import (
	"sync"
	"time"
)

// debouncer runs fn once a burst of Trigger calls has been quiet for delay.
// A zero delay runs fn synchronously on every Trigger.
type debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	armed   bool
	stopped bool
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) Trigger() {
	if d.delay <= 0 {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			d.fn()
		}
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.armed = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
		return
	}
	d.timer.Reset(d.delay)
}

// Flush runs a pending call immediately.
func (d *debouncer) Flush() {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.armed = false
	d.mu.Unlock()
	d.fn()
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *debouncer) fire() {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	d.armed = false
	d.mu.Unlock()
	d.fn()
}
