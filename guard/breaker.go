package guard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	// BreakerClosed lets every call through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects calls until the cooldown passes.
	BreakerOpen
	// BreakerHalfOpen lets a limited number of probe calls through.
	BreakerHalfOpen
)

// String returns the lowercase state name.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// MaxFailures is the consecutive failure count that opens the breaker.
	// Default: 5
	MaxFailures int

	// Cooldown is how long the breaker stays open before probing.
	// Default: 30s
	Cooldown time.Duration

	// Probes is how many calls may run while half-open. Default: 1
	Probes int

	// IsFailure reports whether err counts against the breaker.
	// Default: any non-nil error except cancellation by the caller.
	IsFailure func(err error) bool

	// OnStateChange is called with the lock held; it must not call back
	// into the breaker.
	OnStateChange func(from, to BreakerState)

	now func() time.Time
}

// Breaker stops calling a backend that keeps failing.
type Breaker struct {
	config BreakerConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  int
}

// NewBreaker creates a closed Breaker, applying defaults to unset fields.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.Probes <= 0 {
		config.Probes = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		}
	}
	if config.now == nil {
		config.now = time.Now
	}
	return &Breaker{config: config}
}

// Do runs op unless the breaker is open.
func (b *Breaker) Do(ctx context.Context, op func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := op(ctx)
	b.record(err)
	return err
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Reset closes the breaker and clears its failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.transition(BreakerClosed)
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case BreakerOpen:
		return ErrBreakerOpen
	case BreakerHalfOpen:
		if b.probing >= b.config.Probes {
			return ErrBreakerOpen
		}
		b.probing++
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := b.config.IsFailure(err)

	switch b.state {
	case BreakerClosed:
		if !failed {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.config.MaxFailures {
			b.openedAt = b.config.now()
			b.transition(BreakerOpen)
		}

	case BreakerHalfOpen:
		if failed {
			b.openedAt = b.config.now()
			b.transition(BreakerOpen)
			return
		}
		b.failures = 0
		b.transition(BreakerClosed)
	}
}

func (b *Breaker) stateLocked() BreakerState {
	if b.state == BreakerOpen && b.config.now().Sub(b.openedAt) >= b.config.Cooldown {
		b.transition(BreakerHalfOpen)
	}
	return b.state
}

func (b *Breaker) transition(to BreakerState) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.probing = 0
	if b.config.OnStateChange != nil {
		b.config.OnStateChange(from, to)
	}
}
