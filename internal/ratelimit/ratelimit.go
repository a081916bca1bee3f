package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter enforces a minimum delay between consecutive requests to the same upstream.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: upstream name
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// requests to the same upstream.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// MinDelay returns the configured gap between requests.
func (r *Limiter) MinDelay() time.Duration {
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request to the given upstream.
// Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, upstream string) error {
	r.mu.Lock()
	last, ok := r.lastCall[upstream]
	now := time.Now()

	if !ok || now.Sub(last) >= r.minDelay {
		r.lastCall[upstream] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - now.Sub(last)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", upstream, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[upstream] = time.Now()
	r.mu.Unlock()

	return nil
}
