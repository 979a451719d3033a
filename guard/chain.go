package guard

import (
	"context"
	"time"
)

// Chain composes guards around a call.
type Chain struct {
	limiter  *Limiter
	breaker  *Breaker
	retry    *Retry
	deadline *Deadline
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// NewChain creates a Chain. An empty Chain calls op directly.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLimiter adds a concurrency limit.
func WithLimiter(l *Limiter) ChainOption {
	return func(c *Chain) {
		c.limiter = l
	}
}

// WithBreaker adds a breaker.
func WithBreaker(b *Breaker) ChainOption {
	return func(c *Chain) {
		c.breaker = b
	}
}

// WithRetry adds retries.
func WithRetry(r *Retry) ChainOption {
	return func(c *Chain) {
		c.retry = r
	}
}

// WithDeadline bounds each attempt.
func WithDeadline(timeout time.Duration) ChainOption {
	return func(c *Chain) {
		c.deadline = NewDeadline(timeout)
	}
}

// Do runs op through Limiter, Breaker, Retry and Deadline, in that order.
func (c *Chain) Do(ctx context.Context, op func(context.Context) error) error {
	if c == nil {
		return op(ctx)
	}

	call := op
	if c.deadline != nil {
		call = wrap(call, c.deadline.Do)
	}
	if c.retry != nil {
		call = wrap(call, c.retry.Do)
	}
	if c.breaker != nil {
		call = wrap(call, c.breaker.Do)
	}
	if c.limiter != nil {
		call = wrap(call, c.limiter.Do)
	}
	return call(ctx)
}

type doer func(context.Context, func(context.Context) error) error

func wrap(inner func(context.Context) error, outer doer) func(context.Context) error {
	return func(ctx context.Context) error {
		return outer(ctx, inner)
	}
}
