// Package circuit guards calls to flaky dependencies. After a run of
// consecutive failures the breaker opens and callers shed work instead of
// waiting out timeouts. While open it lets a single probe through per
// cooldown window, so a recovered dependency closes the breaker again.
package circuit

import (
	"sync"
	"time"
)

// State of a breaker.
type State int

const (
	// Closed lets every call through.
	Closed State = iota
	// Open sheds calls until the cooldown elapses.
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

const (
	defaultThreshold = 5
	defaultCooldown  = 30 * time.Second
)

// Breaker is a two-state circuit breaker with time-based probing.
// Construct with New; the zero value has no thresholds configured.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithThreshold sets how many consecutive failures open the breaker.
// Default is 5.
func WithThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithCooldown sets how long the breaker stays open before letting a
// probe through. Default is 30 seconds.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New builds a named breaker. The name identifies it in logs.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:      name,
		threshold: defaultThreshold,
		cooldown:  defaultCooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name identifies the breaker in logs.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether the caller should attempt the operation. While
// open it grants one probe per cooldown window. Granting a probe re-arms
// the window, so concurrent callers cannot stampede a struggling
// dependency.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Closed {
		return true
	}
	if b.now().Sub(b.openedAt) >= b.cooldown {
		b.openedAt = b.now()
		return true
	}
	return false
}

// Success records a successful call and closes the breaker if it was open.
// Returns true on the open-to-closed transition so callers can log it.
func (b *Breaker) Success() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state == Open {
		b.state = Closed
		return true
	}
	return false
}

// Failure records a failed call. Returns true on the closed-to-open
// transition so callers can log it.
func (b *Breaker) Failure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.state == Open || b.failures < b.threshold {
		return false
	}
	b.state = Open
	b.openedAt = b.now()
	return true
}
