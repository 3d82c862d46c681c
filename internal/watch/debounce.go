package watch

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of triggers into one request on a buffered
// channel. A request already pending absorbs further ones.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	requests chan struct{}
	stopped  bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, requests: make(chan struct{}, 1)}
}

// C delivers coalesced requests. It is closed by Stop.
func (d *debouncer) C() <-chan struct{} { return d.requests }

// Trigger (re)starts the quiet period.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	select {
	case d.requests <- struct{}{}:
	default:
	}
}

// Stop cancels any pending timer and closes C. Later triggers are no-ops.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.requests)
}
