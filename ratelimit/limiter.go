package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Result is the outcome of one Check call.
type Result struct {
	// Admitted reports whether the request is within budget.
	Admitted bool
	// Remaining is the number of requests left in the current window.
	Remaining int
	// RetryAfter is how long until the window resets. Zero when admitted.
	RetryAfter time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per key under named fixed-window policies.
// Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	policies map[string]Policy
	windows  map[string]*window

	now      func() time.Time
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithSweepInterval sets how often elapsed windows are discarded
// (default: 1m).
func WithSweepInterval(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter with the given policies and starts its sweep
// goroutine. Callers must Stop the limiter when done with it.
func New(policies []Policy, opts ...Option) (*Limiter, error) {
	l := &Limiter{
		policies: make(map[string]Policy, len(policies)),
		windows:  make(map[string]*window),
		now:      time.Now,
		interval: time.Minute,
		stop:     make(chan struct{}),
	}
	for _, p := range policies {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := l.policies[p.Name]; dup {
			return nil, fmt.Errorf("ratelimit: duplicate policy %s", p.Name)
		}
		l.policies[p.Name] = p
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.sweep()
	return l, nil
}

// Check counts one request for key under the named policy and reports
// whether it is admitted. Rejected requests keep counting: a caller hammering
// a closed window does not earn a fresh budget sooner.
func (l *Limiter) Check(policy, key string) (Result, error) {
	p, ok := l.policies[policy]
	if !ok {
		return Result{}, fmt.Errorf("ratelimit: unknown policy %s", policy)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	k := policy + "\x00" + key
	w, ok := l.windows[k]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(p.Window)}
		l.windows[k] = w
	}
	w.count++

	if w.count > p.Max {
		return Result{Admitted: false, Remaining: 0, RetryAfter: w.resetAt.Sub(now)}, nil
	}
	return Result{Admitted: true, Remaining: p.Max - w.count}, nil
}

// Reset clears the window for key under the named policy. Endpoints whose
// policy counts failures only call this after a success.
func (l *Limiter) Reset(policy, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, policy+"\x00"+key)
}

// Stop terminates the sweep goroutine. The limiter remains usable, but
// elapsed windows are then only replaced lazily on their next Check.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for k, w := range l.windows {
				if !now.Before(w.resetAt) {
					delete(l.windows, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// size reports the tracked window count. Test hook.
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
