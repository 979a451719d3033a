package health

import (
	"context"
	"fmt"
	"time"
)

// Status is the health of a pool, handle or guard. Higher values are worse.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

var statusNames = [...]string{"healthy", "degraded", "unhealthy"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Worse returns the more severe of s and o.
func (s Status) Worse(o Status) Status {
	return max(s, o)
}

// Result is the outcome of one check. Details carry what the checker
// inspected: a pool size, a breaker state, the facets a handle has loaded.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

func report(status Status, err error, details map[string]any, format string, args ...any) Result {
	return Result{
		Status:    status,
		Message:   fmt.Sprintf(format, args...),
		Details:   details,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// Checker reports the health of one component. Check must return promptly
// once ctx is done and be safe for concurrent use.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckFunc is the body of a check.
type CheckFunc func(ctx context.Context) Result

// Named returns a Checker called name that runs f.
func (f CheckFunc) Named(name string) Checker {
	return namedCheck{name: name, fn: f}
}

type namedCheck struct {
	name string
	fn   CheckFunc
}

func (c namedCheck) Name() string                     { return c.name }
func (c namedCheck) Check(ctx context.Context) Result { return c.fn(ctx) }
