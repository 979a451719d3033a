package guard

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// LimiterConfig configures a Limiter.
type LimiterConfig struct {
	// MaxConcurrent bounds simultaneous calls. Default: 10
	MaxConcurrent int64

	// MaxWait is how long a call may queue for a slot. Zero rejects
	// immediately when the limiter is full.
	MaxWait time.Duration
}

// Limiter bounds how many guarded calls run at once.
type Limiter struct {
	config LimiterConfig
	sem    *semaphore.Weighted

	active   atomic.Int64
	rejected atomic.Int64
}

// NewLimiter creates a Limiter, applying defaults to unset fields.
func NewLimiter(config LimiterConfig) *Limiter {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Limiter{
		config: config,
		sem:    semaphore.NewWeighted(config.MaxConcurrent),
	}
}

// Do runs op once a slot is available.
func (l *Limiter) Do(ctx context.Context, op func(context.Context) error) error {
	if err := l.acquire(ctx); err != nil {
		return err
	}
	l.active.Add(1)
	defer func() {
		l.active.Add(-1)
		l.sem.Release(1)
	}()
	return op(ctx)
}

func (l *Limiter) acquire(ctx context.Context) error {
	if l.sem.TryAcquire(1) {
		return nil
	}
	if l.config.MaxWait <= 0 {
		l.rejected.Add(1)
		return ErrSaturated
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.config.MaxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			l.rejected.Add(1)
			return ErrSaturated
		}
		return err
	}
	return nil
}

// LimiterStats is a snapshot of limiter activity.
type LimiterStats struct {
	Active        int64
	Rejected      int64
	MaxConcurrent int64
}

// Stats returns a snapshot of limiter activity.
func (l *Limiter) Stats() LimiterStats {
	return LimiterStats{
		Active:        l.active.Load(),
		Rejected:      l.rejected.Load(),
		MaxConcurrent: l.config.MaxConcurrent,
	}
}
