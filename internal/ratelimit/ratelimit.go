package ratelimit

import (
	"sync"
	"time"
)

// Defaults matching the submission throttle: 5 attempts per minute.
const (
	DefaultMaxAttempts = 5
	DefaultWindow      = time.Minute
)

// Limiter is a sliding-window attempt counter keyed by an opaque identifier
// (user key or "anonymous"). State is process-local, so across multiple
// replicas the limit is advisory, not a security control. Identifiers are
// never evicted; growth is bounded by the number of distinct keys seen.
type Limiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string][]time.Time
	now         func() time.Time
}

// New constructs a limiter. Non-positive arguments fall back to the defaults.
// The limiter is plain state meant to be built once and injected; there is no
// package-level instance.
func New(maxAttempts int, window time.Duration) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow prunes attempts older than the window for id, then records the
// current attempt and returns true iff the remaining count was under the
// limit. A denied attempt is not recorded.
func (l *Limiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(id, now)

	if len(recent) >= l.maxAttempts {
		l.attempts[id] = recent
		return false
	}

	l.attempts[id] = append(recent, now)
	return true
}

// RemainingTime reports how long until the oldest retained attempt for id
// leaves the window, floored at zero. Zero when id has no history.
func (l *Limiter) RemainingTime(id string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(id, now)
	l.attempts[id] = recent

	if len(recent) == 0 {
		return 0
	}

	oldest := recent[0]
	for _, t := range recent[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}

	remaining := l.window - now.Sub(oldest)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// prune drops attempts that fell out of the window. Caller holds the lock.
func (l *Limiter) prune(id string, now time.Time) []time.Time {
	recent := l.attempts[id][:0]
	for _, t := range l.attempts[id] {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}
	return recent
}
