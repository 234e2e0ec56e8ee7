package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrRateLimited is returned by Allow when a key used up its window.
var ErrRateLimited = errors.New("too many requests")

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a fixed-window limiter keyed by client (usually the IP).
type RateLimiter struct {
	limits map[string]*rateLimitEntry
	mu     sync.Mutex
	window time.Duration
	limit  int
	now    func() time.Time
}

// NewRateLimiter allows limit requests per key every window.
func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*rateLimitEntry),
		window: window,
		limit:  limit,
		now:    time.Now,
	}
}

// Allow records one request for key and reports whether it may proceed.
func (rl *RateLimiter) Allow(key string) error {
	if key == "" {
		key = "anonymous"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.limits[key]
	if !ok || now.After(entry.resetTime) {
		rl.limits[key] = &rateLimitEntry{count: 1, resetTime: now.Add(rl.window)}
		return nil
	}
	if entry.count >= rl.limit {
		return fmt.Errorf("%w: try again in %v", ErrRateLimited, entry.resetTime.Sub(now).Round(time.Second))
	}
	entry.count++
	return nil
}

// Remaining returns how many requests key may still make in its window.
func (rl *RateLimiter) Remaining(key string) int {
	if key == "" {
		key = "anonymous"
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limits[key]
	if !ok || rl.now().After(entry.resetTime) {
		return rl.limit
	}
	return max(rl.limit-entry.count, 0)
}

// Run drops expired entries every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, entry := range rl.limits {
		if now.After(entry.resetTime) {
			delete(rl.limits, key)
		}
	}
}

// Size returns the number of keys being tracked.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}
