package bot

import (
	"sync"
	"time"
)

const (
	rateLimitMaxRequests = 5
	rateLimitWindow      = 60 * time.Second
)

// RateLimiter is a per-user sliding window limiter.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithLimits(rateLimitMaxRequests, rateLimitWindow)
}

func NewRateLimiterWithLimits(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

func (r *RateLimiter) Allow(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	pruned := r.prune(r.requests[userID], cutoff)
	if len(pruned) >= r.max {
		r.requests[userID] = pruned
		return false
	}

	r.requests[userID] = append(pruned, now)
	return true
}

// Sweep drops users whose every request has left the window.
func (r *RateLimiter) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.window)
	removed := 0
	for userID, timestamps := range r.requests {
		if len(r.prune(timestamps, cutoff)) == 0 {
			delete(r.requests, userID)
			removed++
		}
	}
	return removed
}

func (r *RateLimiter) prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	pruned := timestamps[:0]
	for _, t := range timestamps {
		if t.After(cutoff) {
			pruned = append(pruned, t)
		}
	}
	return pruned
}
