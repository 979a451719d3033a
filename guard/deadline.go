package guard

import (
	"context"
	"errors"
	"time"
)

// Deadline bounds a single call. Calls that ignore their context are
// abandoned when the deadline passes; their goroutine finishes on its own.
type Deadline struct {
	timeout time.Duration
}

// NewDeadline creates a Deadline. A non-positive timeout defaults to 30s.
func NewDeadline(timeout time.Duration) *Deadline {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Deadline{timeout: timeout}
}

// Do runs op with the deadline applied.
func (d *Deadline) Do(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			return ErrDeadline
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrDeadline
		}
		return ctx.Err()
	}
}

// Timeout returns the configured timeout.
func (d *Deadline) Timeout() time.Duration {
	return d.timeout
}
