package mailgate

import (
	"sync"
	"time"
)

// rateLimitEntry tracks one client's submissions in its current window.
// resetTime is always creation time + window; it is never extended, only
// replaced when a fresh window starts.
type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter is an in-memory fixed-window limiter keyed by client
// identifier (typically the submitting IP). State is scoped to one process;
// horizontally scaled deployments each count independently, which is an
// accepted limitation rather than something to paper over here.
//
// The background sweep is purely a memory bound under many distinct clients.
// It is never auto-started: the hosting process calls Start and Stop as part
// of its own lifecycle, and tests simply never start it.
type RateLimiter struct {
	limit         int
	window        time.Duration
	sweepInterval time.Duration

	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	done    chan struct{}

	now func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window, sweepInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:         limit,
		window:        window,
		sweepInterval: sweepInterval,
		entries:       make(map[string]*rateLimitEntry),
		now:           time.Now,
	}
}

// Allow records a request from clientID and reports whether it is within the
// limit. A denied request leaves state unchanged.
func (rl *RateLimiter) Allow(clientID string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[clientID]
	if !ok || now.After(e.resetTime) {
		rl.entries[clientID] = &rateLimitEntry{count: 1, resetTime: now.Add(rl.window)}
		return true
	}
	if e.count >= rl.limit {
		return false
	}
	e.count++
	return true
}

// RateLimitInfo is a read-only snapshot, suitable for rate-limit response
// headers.
type RateLimitInfo struct {
	Remaining int
	ResetTime time.Time
}

// Info reports clientID's remaining quota and window expiry without mutating
// state. Absent or expired entries report the full limit.
func (rl *RateLimiter) Info(clientID string) RateLimitInfo {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[clientID]
	if !ok || now.After(e.resetTime) {
		return RateLimitInfo{Remaining: rl.limit, ResetTime: now.Add(rl.window)}
	}

	remaining := rl.limit - e.count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitInfo{Remaining: remaining, ResetTime: e.resetTime}
}

// Reset drops clientID's entry, restoring its full quota. No-op for unknown
// clients.
func (rl *RateLimiter) Reset(clientID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.entries, clientID)
}

// Start launches the background eviction sweep. Calling Start on a running
// limiter is a no-op.
func (rl *RateLimiter) Start() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.done != nil {
		return
	}
	rl.done = make(chan struct{})
	go rl.sweepLoop(rl.done)
}

// Stop halts the background sweep. Safe to call repeatedly or without a
// prior Start.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.done == nil {
		return
	}
	close(rl.done)
	rl.done = nil
}

func (rl *RateLimiter) sweepLoop(done <-chan struct{}) {
	ticker := time.NewTicker(rl.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep deletes entries whose window has fully expired. It only ever removes
// entries a concurrent Allow would have treated as expired anyway.
func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for id, e := range rl.entries {
		if now.After(e.resetTime) {
			delete(rl.entries, id)
		}
	}
}
