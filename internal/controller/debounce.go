package controller

import (
	"sync"
	"time"
)

// Debounce is a single-shot cancellable delayed task: each Trigger
// supersedes any pending one, so only the last call within the quiet
// period actually runs.
type Debounce struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebounce(delay time.Duration) *Debounce {
	return &Debounce{delay: delay}
}

// Trigger schedules fn to run after the quiet period, cancelling any
// previously scheduled run.
func (d *Debounce) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels a pending run, if any.
func (d *Debounce) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
