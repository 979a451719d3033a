package facet

import "context"

// Loader reaches the expensive resource behind a handle.
//
// Contract:
// - Construct builds the backing resource for an identity. It may be slow
//   and may fail. It is called at most once per handle unless it fails.
// - Load computes one named facet from a constructed resource. It may be
//   slow and may fail. It is called at most once per facet unless it fails.
// - Repeatability: both calls must be safe to repeat when no earlier call
//   was observed to succeed.
// - Context: the context carries the caller's values but is not canceled
//   when a single waiter gives up.
type Loader[ID any, R any] interface {
	Construct(ctx context.Context, id ID) (R, error)
	Load(ctx context.Context, real R, facet string) (any, error)
}

// LoaderFuncs adapts a pair of functions to the Loader interface.
type LoaderFuncs[ID any, R any] struct {
	ConstructFunc func(ctx context.Context, id ID) (R, error)
	LoadFunc      func(ctx context.Context, real R, facet string) (any, error)
}

// Construct implements Loader.
func (f LoaderFuncs[ID, R]) Construct(ctx context.Context, id ID) (R, error) {
	if f.ConstructFunc == nil {
		var zero R
		return zero, ErrNilLoader
	}
	return f.ConstructFunc(ctx, id)
}

// Load implements Loader.
func (f LoaderFuncs[ID, R]) Load(ctx context.Context, real R, facet string) (any, error) {
	if f.LoadFunc == nil {
		return nil, ErrNilLoader
	}
	return f.LoadFunc(ctx, real, facet)
}

var _ Loader[string, struct{}] = LoaderFuncs[string, struct{}]{}
