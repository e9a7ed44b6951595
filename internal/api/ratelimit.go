package api

import (
	"sync"
	"time"
)

// RateLimiter keeps a token bucket per client. Buckets refill continuously
// at limit tokens per minute up to a burst of limit.
type RateLimiter struct {
	limiters map[string]*clientLimiter
	limit    int
	mu       sync.RWMutex
	now      func() time.Time
}

// clientLimiter is one client's bucket.
type clientLimiter struct {
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute per
// client.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    requestsPerMinute,
		now:      time.Now,
	}
}

// Allow reports whether the client may make a request now, consuming one
// token if so.
func (rl *RateLimiter) Allow(client string) bool {
	limiter := rl.getLimiter(client)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(limiter.lastRefill)
	limiter.tokens += elapsed.Minutes() * float64(rl.limit)
	if limiter.tokens > float64(rl.limit) {
		limiter.tokens = float64(rl.limit)
	}
	limiter.lastRefill = now

	if limiter.tokens < 1 {
		return false
	}
	limiter.tokens--
	return true
}

// getLimiter gets or creates the bucket for a client.
func (rl *RateLimiter) getLimiter(client string) *clientLimiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[client]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := rl.limiters[client]; exists {
		return limiter
	}

	limiter = &clientLimiter{
		tokens:     float64(rl.limit),
		lastRefill: rl.now(),
	}
	rl.limiters[client] = limiter
	return limiter
}
