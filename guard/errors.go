package guard

import "errors"

// Sentinel errors for guarded calls.
var (
	// ErrBreakerOpen is returned while the breaker rejects calls.
	ErrBreakerOpen = errors.New("guard: breaker is open")

	// ErrAttemptsExhausted wraps the last error once every retry failed.
	ErrAttemptsExhausted = errors.New("guard: attempts exhausted")

	// ErrSaturated is returned when no concurrency slot frees up in time.
	ErrSaturated = errors.New("guard: limiter saturated")

	// ErrDeadline is returned when a single attempt overruns its deadline.
	ErrDeadline = errors.New("guard: deadline exceeded")
)
