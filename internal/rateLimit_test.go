package mailgate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLimiter returns a limiter with a controllable clock. Advancing the
// returned pointer moves the limiter's notion of now.
func testLimiter() (*RateLimiter, *time.Time) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(DefaultRateLimit, DefaultRateWindow, DefaultSweepInterval)
	rl.now = func() time.Time { return current }
	return rl, &current
}

func TestRateLimiterFixedWindow(t *testing.T) {
	rl, now := testLimiter()

	for i := 1; i <= 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "call %d should be allowed", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"), "sixth call within the window should be denied")

	// Crossing the window boundary starts a fresh count.
	*now = now.Add(60001 * time.Millisecond)
	for i := 1; i <= 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "call %d in new window should be allowed", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiterDeniedCallDoesNotMutate(t *testing.T) {
	rl, _ := testLimiter()

	for i := 0; i < 5; i++ {
		rl.Allow("1.2.3.4")
	}
	before := rl.Info("1.2.3.4")
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.Equal(t, before, rl.Info("1.2.3.4"))
}

func TestRateLimiterIndependentClients(t *testing.T) {
	rl, _ := testLimiter()

	for i := 0; i < 5; i++ {
		require.True(t, rl.Allow("1.2.3.4"))
	}
	require.False(t, rl.Allow("1.2.3.4"))

	assert.True(t, rl.Allow("5.6.7.8"), "exhausting one client must not affect another")
}

func TestRateLimiterInfo(t *testing.T) {
	rl, now := testLimiter()

	fresh := rl.Info("1.2.3.4")
	assert.Equal(t, 5, fresh.Remaining)
	assert.Equal(t, now.Add(time.Minute), fresh.ResetTime)

	// Info is read-only: querying it must not create an entry.
	assert.Equal(t, fresh, rl.Info("1.2.3.4"))

	for i := 0; i < 3; i++ {
		rl.Allow("1.2.3.4")
	}
	info := rl.Info("1.2.3.4")
	assert.Equal(t, 2, info.Remaining)
	assert.Equal(t, now.Add(time.Minute), info.ResetTime)

	// An expired entry reads as a full fresh window.
	*now = now.Add(time.Minute + time.Millisecond)
	expired := rl.Info("1.2.3.4")
	assert.Equal(t, 5, expired.Remaining)
}

func TestRateLimiterReset(t *testing.T) {
	rl, _ := testLimiter()

	for i := 0; i < 5; i++ {
		rl.Allow("1.2.3.4")
	}
	require.False(t, rl.Allow("1.2.3.4"))

	rl.Reset("1.2.3.4")
	assert.True(t, rl.Allow("1.2.3.4"), "reset should restore full quota")
	assert.Equal(t, 4, rl.Info("1.2.3.4").Remaining)

	assert.NotPanics(t, func() { rl.Reset("never-seen") })
}

func TestRateLimiterSweepEvictsOnlyExpired(t *testing.T) {
	rl, now := testLimiter()

	rl.Allow("stale")
	*now = now.Add(time.Minute + time.Second)
	rl.Allow("active")

	rl.sweep()

	rl.mu.Lock()
	_, staleOK := rl.entries["stale"]
	_, activeOK := rl.entries["active"]
	rl.mu.Unlock()

	assert.False(t, staleOK, "expired entry should be evicted")
	assert.True(t, activeOK, "live entry must survive the sweep")
}

func TestRateLimiterStartStop(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimit, DefaultRateWindow, 10*time.Millisecond)

	rl.Start()
	rl.Start() // second Start is a no-op
	rl.Stop()
	rl.Stop() // Stop is idempotent

	assert.NotPanics(t, func() { NewRateLimiter(1, time.Second, time.Second).Stop() },
		"Stop without Start must be safe")
}
