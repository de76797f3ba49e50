// Package ratelimit provides a per-client sliding-window request limiter.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Admitter decides whether a request from the given client may proceed.
// Handlers depend on this interface so tests can substitute deterministic
// implementations.
type Admitter interface {
	Admit(clientID string) bool
}

// Limiter is an in-memory sliding-window limiter. State is process-local
// and lost on restart; the limiter dampens abuse, it is not a global
// correctness guarantee across instances.
type Limiter struct {
	ceiling int
	window  time.Duration
	now     func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
	// lastSweep tracks the last full eviction pass so clients that never
	// return don't accumulate stale entries forever.
	lastSweep time.Time
}

// New creates a limiter admitting at most ceiling requests per client
// within the trailing window.
func New(ceiling int, window time.Duration) *Limiter {
	return &Limiter{
		ceiling: ceiling,
		window:  window,
		now:     time.Now,
		hits:    make(map[string][]time.Time),
	}
}

// NewWithClock creates a limiter with an injected clock for tests.
func NewWithClock(ceiling int, window time.Duration, now func() time.Time) *Limiter {
	l := New(ceiling, window)
	l.now = now
	return l
}

// Admit records an attempt for clientID and reports whether it is within
// the ceiling. Attempts are counted whether or not they are admitted, so
// a client hammering the endpoint does not regain capacity until it
// backs off for a full window.
func (l *Limiter) Admit(clientID string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := prune(l.hits[clientID], cutoff)
	recent = append(recent, now)
	l.hits[clientID] = recent

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	return len(recent) <= l.ceiling
}

// prune drops timestamps at or before cutoff, keeping order.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// sweep evicts clients with no activity inside the window. prune
// compacts in place, so the pruned slice must be stored back or the
// map's stale header would alias the shifted backing array. Caller
// holds l.mu.
func (l *Limiter) sweep(cutoff time.Time) {
	for id, ts := range l.hits {
		pruned := prune(ts, cutoff)
		if len(pruned) == 0 {
			delete(l.hits, id)
			continue
		}
		l.hits[id] = pruned
	}
}

// ClientID derives the rate-limit key for a request: the first entry of
// X-Forwarded-For when present, otherwise the host part of the peer
// address.
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
