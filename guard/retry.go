package guard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Backoff selects how the delay grows between attempts.
type Backoff int

const (
	// BackoffExponential multiplies the delay by Multiplier each attempt.
	BackoffExponential Backoff = iota
	// BackoffLinear grows the delay by InitialDelay each attempt.
	BackoffLinear
	// BackoffConstant waits InitialDelay between every attempt.
	BackoffConstant
)

// RetryConfig configures Retry.
type RetryConfig struct {
	// MaxAttempts counts the first call. Default: 3
	MaxAttempts int

	// InitialDelay is the wait before the second attempt. Default: 50ms
	InitialDelay time.Duration

	// MaxDelay caps any single wait. Default: 5s
	MaxDelay time.Duration

	// Multiplier applies to BackoffExponential. Default: 2.0
	Multiplier float64

	Backoff Backoff

	// Jitter adds up to 25% random delay to each wait.
	Jitter bool

	// Retryable reports whether err is worth another attempt.
	// Default: Retryable.
	Retryable func(err error) bool

	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry repeats failed calls with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a Retry, applying defaults to unset fields.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 50 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 5 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.Retryable == nil {
		config.Retryable = Retryable
	}
	return &Retry{config: config}
}

// Retryable is the default retry predicate. Context errors and an open
// breaker are final; everything else may be retried.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrBreakerOpen):
		return false
	}
	return true
}

// Do calls op until it succeeds, returns a non-retryable error, or runs out
// of attempts.
func (r *Retry) Do(ctx context.Context, op func(context.Context) error) error {
	var last error

	for attempt := 1; ; attempt++ {
		last = op(ctx)
		if last == nil {
			return nil
		}
		if !r.config.Retryable(last) {
			return last
		}
		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, last, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(last, ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w (%d): %w", ErrAttemptsExhausted, r.config.MaxAttempts, last)
}

func (r *Retry) delay(attempt int) time.Duration {
	var d time.Duration
	switch r.config.Backoff {
	case BackoffConstant:
		d = r.config.InitialDelay
	case BackoffLinear:
		d = r.config.InitialDelay * time.Duration(attempt)
	default:
		f := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
		d = time.Duration(min(f, float64(r.config.MaxDelay)))
	}

	d = min(d, r.config.MaxDelay)
	if r.config.Jitter && d >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		d += time.Duration(rand.Int64N(int64(d / 4)))
	}
	return d
}

// Config returns the effective configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
