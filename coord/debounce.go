package coord

import (
	"sync"
	"time"
)

// debouncer coalesces rapid events such as selection changes. Successive
// calls within the window reset the timer; only the last call's function
// runs.
type debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window}
}

// debounce executes fn after the window has elapsed without any new calls.
func (d *debouncer) debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// cancel stops any pending call.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
