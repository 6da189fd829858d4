package bot

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter()
	for i := range rateLimitMaxRequests {
		require.True(t, rl.Allow("user-1"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("user-1"), "request beyond limit should be denied")
}

func TestRateLimiterIsolatesUsers(t *testing.T) {
	rl := NewRateLimiter()
	for range rateLimitMaxRequests {
		rl.Allow("user-1")
	}
	assert.False(t, rl.Allow("user-1"))
	assert.True(t, rl.Allow("user-2"), "different user should not be affected")
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiterWithLimits(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("user-1"))
	require.True(t, rl.Allow("user-1"))
	require.False(t, rl.Allow("user-1"))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.Allow("user-1"), "should allow after old entries expire")
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewRateLimiterWithLimits(3, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("stale")
	now = now.Add(2 * time.Minute)
	rl.Allow("active")

	assert.Equal(t, 1, rl.Sweep())
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.requests, "stale")
	assert.Contains(t, rl.requests, "active")
}

func TestRateLimiterConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter()
	var wg sync.WaitGroup
	allowed := make([]int, 10)

	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i)
			for range rateLimitMaxRequests + 2 {
				if rl.Allow(userID) {
					allowed[i]++
				}
			}
		}()
	}
	wg.Wait()

	for i, count := range allowed {
		assert.Equal(t, rateLimitMaxRequests, count, "user-%d should have exactly %d allowed requests", i, rateLimitMaxRequests)
	}
}
