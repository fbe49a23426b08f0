package coord

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// TabLimiter provides per-tab rate limiting using token buckets. Each tab
// gets its own limiter so a chatty page cannot starve extraction of other
// tabs.
type TabLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewTabLimiter creates a new TabLimiter with the specified extractions
// per second limit. Each tab gets a burst of 1 (no bursting allowed).
func NewTabLimiter(rps float64) *TabLimiter {
	return &TabLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows an extraction for the tab.
// Returns an error if the context is canceled before the wait completes.
func (t *TabLimiter) Wait(ctx context.Context, tabID string) error {
	t.mu.Lock()
	limiter, ok := t.limiters[tabID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(t.rps), 1)
		t.limiters[tabID] = limiter
	}
	t.mu.Unlock()

	return limiter.Wait(ctx)
}

// Forget releases the limiter for a closed tab.
func (t *TabLimiter) Forget(tabID string) {
	t.mu.Lock()
	delete(t.limiters, tabID)
	t.mu.Unlock()
}
