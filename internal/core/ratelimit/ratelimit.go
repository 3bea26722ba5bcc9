// Package ratelimit provides an in-process fixed-window request limiter.
//
// Counters live in a mutex-guarded map keyed by caller-supplied identifiers,
// so independent policies (login, enrollment) are just independent Limiter
// instances. A window that straddles a reset boundary can admit up to twice
// MaxAttempts in a burst; that imprecision is inherent to fixed windows and
// accepted here. Horizontal scaling needs an external shared store instead.
package ratelimit

import (
	"sync"
	"time"
)

// Policy configures a Limiter.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts attempts per identifier within a fixed window. Safe for
// concurrent use.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*window
	policy  Policy

	now func() time.Time // overridable in tests
}

// New creates a Limiter with the given policy.
func New(policy Policy) *Limiter {
	return &Limiter{
		entries: make(map[string]*window),
		policy:  policy,
		now:     time.Now,
	}
}

// Allow records an attempt for identifier and reports whether it is admitted.
// The first attempt opens a window; attempts beyond MaxAttempts inside the
// window are rejected; an expired window resets to a fresh count of one.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.entries[identifier]
	if !ok || now.After(w.resetAt) {
		l.entries[identifier] = &window{count: 1, resetAt: now.Add(l.policy.Window)}
		return true
	}

	if w.count < l.policy.MaxAttempts {
		w.count++
		return true
	}
	return false
}

// Clear removes the counter for identifier, permitting a fresh window
// immediately. Called on successful authentication so a prior run of failed
// attempts does not penalize a legitimate user.
func (l *Limiter) Clear(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, identifier)
}

// Remaining reports how many attempts identifier has left in its current
// window. Diagnostic only; the answer may be stale by the time it is used.
func (l *Limiter) Remaining(identifier string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.entries[identifier]
	if !ok || l.now().After(w.resetAt) {
		return l.policy.MaxAttempts
	}
	if w.count >= l.policy.MaxAttempts {
		return 0
	}
	return l.policy.MaxAttempts - w.count
}
