package fetcher

import (
	"context"
	"sync"
	"time"
)

// hostLimiter enforces a minimum interval between requests to the same host.
// Different hosts are rate-limited independently, so a scan that spans
// subdomains is not serialized behind a single clock.
type hostLimiter struct {
	// interval is the minimum time between requests to one host.
	// Zero disables limiting.
	interval time.Duration

	// mutex protects lastRequest.
	mutex sync.Mutex

	// lastRequest records the most recent request time per host.
	lastRequest map[string]time.Time
}

func newHostLimiter(interval time.Duration) *hostLimiter {
	return &hostLimiter{
		interval:    interval,
		lastRequest: make(map[string]time.Time),
	}
}

// wait blocks until the host's interval has elapsed or the context is done.
// It reserves the slot before sleeping so concurrent callers queue up
// instead of all firing after the same deadline.
func (l *hostLimiter) wait(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return nil
	}

	l.mutex.Lock()
	now := time.Now()
	next := l.lastRequest[host].Add(l.interval)
	if next.Before(now) {
		next = now
	}
	l.lastRequest[host] = next
	l.mutex.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
