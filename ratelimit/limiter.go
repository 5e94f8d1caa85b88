// Package ratelimit bounds request throughput per identifier with a
// fixed-window counter held in process memory.
//
// Windows reset entirely on the first request after expiry rather than
// decaying continuously, so callers must accept up to 2x the limit in
// a burst straddling two windows. The limiter is single-process: a
// multi-instance deployment needs an external shared counter instead.
package ratelimit

import (
	"math/rand/v2"
	"sync"
	"time"
)

// sweepProbability is the chance that any given Check call scans the
// whole table and evicts expired entries. Cleanup latency is therefore
// unbounded under low traffic, which is acceptable because stale
// entries self-correct on their next access anyway.
const sweepProbability = 0.01

// Decision is the outcome of a limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter owns its counter table explicitly; construct one per process
// (or per test) rather than sharing module-level state.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
	roll    func() float64
}

// New returns a limiter using the wall clock.
func New() *Limiter {
	return &Limiter{
		entries: make(map[string]entry),
		now:     time.Now,
		roll:    rand.Float64,
	}
}

// NewWithClock injects the clock and the sweep dice roll, for tests.
func NewWithClock(now func() time.Time, roll func() float64) *Limiter {
	return &Limiter{
		entries: make(map[string]entry),
		now:     now,
		roll:    roll,
	}
}

// Check records a request for identifier against a fixed window of the
// given size. The first request in a window (or after the previous
// window expired) starts a fresh count; a request over the limit is
// denied without incrementing the counter.
func (l *Limiter) Check(identifier string, maxRequests int, window time.Duration) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.roll() < sweepProbability {
		l.sweepLocked(now)
	}

	e, ok := l.entries[identifier]
	if !ok || !e.resetAt.After(now) {
		resetAt := now.Add(window)
		l.entries[identifier] = entry{count: 1, resetAt: resetAt}
		return Decision{Allowed: true, Remaining: maxRequests - 1, ResetAt: resetAt}
	}

	if e.count >= maxRequests {
		return Decision{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++
	l.entries[identifier] = e
	return Decision{Allowed: true, Remaining: maxRequests - e.count, ResetAt: e.resetAt}
}

// Size reports the number of tracked identifiers, expired or not.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Limiter) sweepLocked(now time.Time) {
	for id, e := range l.entries {
		if !e.resetAt.After(now) {
			delete(l.entries, id)
		}
	}
}
