// Package ratelimit provides a per-key token-bucket limiter used to
// throttle credential-guessing on the auth endpoints.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key (client address).
type Limiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

// New creates a Limiter allowing rps requests per second with the
// given burst per key.
func New(rps, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Allow reports whether a request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// StartCleanupWorker periodically resets the bucket map so abandoned
// keys do not accumulate. Runs until ctx is cancelled.
func (l *Limiter) StartCleanupWorker(ctx context.Context, interval time.Duration, maxKeys int) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.mu.Lock()
				if len(l.limiters) > maxKeys {
					l.limiters = make(map[string]*rate.Limiter)
				}
				l.mu.Unlock()
			}
		}
	}()
}
