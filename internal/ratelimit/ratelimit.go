// Package ratelimit provides a keyed token-bucket rate limiter. Each key
// (typically a client IP) gets its own bucket; idle buckets are evicted so
// the map does not grow with every address that ever hit the server.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// evictAfter is how long a key may sit unused before its bucket is dropped.
// A dropped key starts over with a full burst, which is acceptable for
// auth-endpoint protection.
const evictAfter = 10 * time.Minute

// entry pairs a limiter with its last access time for eviction.
type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages an independent token bucket per key.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed rate limiter allowing rps requests per second with the
// given burst per key, and starts the background eviction loop.
func New(rps float64, burst int) *KeyedRateLimiter {
	l := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go l.evictLoop()

	return l
}

// Allow reports whether a request for key may proceed right now.
func (l *KeyedRateLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// Wait blocks until a request for key is allowed or ctx is done.
func (l *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return l.limiter(key).Wait(ctx)
}

func (l *KeyedRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// Stop terminates the eviction loop.
func (l *KeyedRateLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func (l *KeyedRateLimiter) evictLoop() {
	ticker := time.NewTicker(evictAfter / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle(time.Now())
		case <-l.done:
			return
		}
	}
}

func (l *KeyedRateLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if now.Sub(e.lastSeen) >= evictAfter {
			delete(l.entries, key)
		}
	}
}
