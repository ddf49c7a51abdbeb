// Package ratelimit implements a per-client rolling-window request
// limiter for the intake endpoint.
package ratelimit

import (
	"sync"
	"time"
)

// Policy is the limiter configuration: at most MaxRequests per client
// within any rolling Window.
type Policy struct {
	Window      time.Duration
	MaxRequests int
}

// Limiter tracks request timestamps per client key.
type Limiter struct {
	policy Policy
	now    func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time
}

// New creates a limiter for the given policy.
func New(policy Policy) *Limiter {
	return &Limiter{
		policy:  policy,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
}

// Allow records a request for key and reports whether it is within the
// policy. Timestamps older than the window are pruned on each call, so
// idle clients do not accumulate state.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.policy.Window)

	recent := l.clients[key][:0]
	for _, ts := range l.clients[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.policy.MaxRequests {
		l.clients[key] = recent
		return false
	}

	l.clients[key] = append(recent, now)
	return true
}
