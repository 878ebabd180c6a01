package submit

import (
	"sync"
	"time"
)

// Limiter caps public submissions per client address with a fixed
// budget that refills in full once the window elapses. A nil Limiter
// or a non-positive limit allows everything.
type Limiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens int
	reset  time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: map[string]*bucket{},
	}
}

// Allow consumes one token for key and reports whether the submission
// may proceed.
func (l *Limiter) Allow(key string, now time.Time) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || !now.Before(b.reset) {
		l.prune(now)
		b = &bucket{tokens: l.limit, reset: now.Add(l.window)}
		l.buckets[key] = b
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// prune drops expired buckets so one-off addresses do not pile up.
// Called with the mutex held, on bucket creation only.
func (l *Limiter) prune(now time.Time) {
	for key, b := range l.buckets {
		if !now.Before(b.reset) {
			delete(l.buckets, key)
		}
	}
}
