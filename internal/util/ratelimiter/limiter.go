// Package ratelimiter provides the two throttles used by the downloader:
// an interval Limiter that lets one action through per interval, and a
// Bandwidth limiter that caps bytes per second.
package ratelimiter

import (
	"sync"
	"time"
)

// Limiter allows one action per interval and is safe for concurrent use
type Limiter struct {
	mu          sync.Mutex
	interval    time.Duration
	lastAllowed time.Time
}

// New creates a limiter allowing at most one action per interval
func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
	}
}

// Allow reports whether an action may run now. When it may, the call is
// recorded; otherwise the remaining wait is returned.
func (l *Limiter) Allow() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	since := now.Sub(l.lastAllowed)
	if since >= l.interval {
		l.lastAllowed = now
		return true, 0
	}
	return false, l.interval - since
}

// Reset lets the next action through immediately
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.lastAllowed = time.Time{}
	l.mu.Unlock()
}

// Interval returns the configured interval
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
