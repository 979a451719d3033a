package health

import (
	"context"

	"github.com/jonwraymond/lazyops/guard"
)

// Sizer is satisfied by *pool.Pool. Wrap other counters, such as
// Registry.Len, with SizerFunc.
type Sizer interface {
	Size() int
}

// SizerFunc adapts a function to Sizer.
type SizerFunc func() int

// Size implements Sizer.
func (f SizerFunc) Size() int { return f() }

// PoolThresholds sets the sizes at which a pool stops being healthy.
// Zero disables a threshold.
type PoolThresholds struct {
	Warn int
	Max  int
}

// NewPoolChecker reports a pool's size against thresholds. Pools never
// evict by default, so unbounded growth is the failure mode worth watching.
func NewPoolChecker(name string, pool Sizer, limits PoolThresholds) Checker {
	return CheckFunc(func(context.Context) Result {
		size := pool.Size()
		details := map[string]any{"size": size}

		switch {
		case limits.Max > 0 && size >= limits.Max:
			return report(StatusUnhealthy, ErrPoolFull, details, "%d entries", size)
		case limits.Warn > 0 && size >= limits.Warn:
			return report(StatusDegraded, nil, details, "%d entries", size)
		}
		return report(StatusHealthy, nil, details, "%d entries", size)
	}).Named(name)
}

// Handle is the part of *facet.Handle a HandleChecker needs.
type Handle interface {
	ID() string
	Get(ctx context.Context, name string) (any, error)
	IsMaterialized() bool
	Loaded() []string
}

// HandleCheck configures a HandleChecker.
type HandleCheck struct {
	// Probe names a facet to fetch on every check. Fetching materializes
	// the handle on first use; later checks are served from cache.
	Probe string

	// RequireMaterialized reports Degraded while the handle is unmaterialized.
	RequireMaterialized bool
}

// NewHandleChecker reports whether a handle can serve facets.
func NewHandleChecker(name string, h Handle, check HandleCheck) Checker {
	return CheckFunc(func(ctx context.Context) Result {
		if check.Probe != "" {
			if _, err := h.Get(ctx, check.Probe); err != nil {
				return report(StatusUnhealthy, err, map[string]any{"handle": h.ID()}, "probe %q failed", check.Probe)
			}
		}

		loaded := h.Loaded()
		details := map[string]any{
			"handle":       h.ID(),
			"materialized": h.IsMaterialized(),
			"loaded":       loaded,
		}
		if check.RequireMaterialized && !h.IsMaterialized() {
			return report(StatusDegraded, ErrNotMaterialized, details, "not materialized")
		}
		return report(StatusHealthy, nil, details, "%d facets loaded", len(loaded))
	}).Named(name)
}

// NewBreakerChecker maps a guard.Breaker state to a status: closed is
// healthy, half-open degraded, open unhealthy.
func NewBreakerChecker(name string, b *guard.Breaker) Checker {
	return CheckFunc(func(context.Context) Result {
		state := b.State()
		details := map[string]any{"state": state.String(), "failures": b.Failures()}

		switch state {
		case guard.BreakerOpen:
			return report(StatusUnhealthy, guard.ErrBreakerOpen, details, "breaker open")
		case guard.BreakerHalfOpen:
			return report(StatusDegraded, nil, details, "breaker probing")
		}
		return report(StatusHealthy, nil, details, "breaker closed")
	}).Named(name)
}
