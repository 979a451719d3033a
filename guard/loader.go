package guard

import (
	"context"
	"sync"

	"github.com/jonwraymond/lazyops/facet"
	"github.com/jonwraymond/lazyops/pool"
)

// LoaderChains selects the chain for each loader call. A nil chain calls
// through unguarded.
type LoaderChains struct {
	Construct *Chain
	Load      *Chain
}

type guardedLoader[ID any, R any] struct {
	next   facet.Loader[ID, R]
	chains LoaderChains
}

// WrapLoader guards Construct and Load calls of next.
func WrapLoader[ID any, R any](next facet.Loader[ID, R], chains LoaderChains) facet.Loader[ID, R] {
	return &guardedLoader[ID, R]{next: next, chains: chains}
}

func (g *guardedLoader[ID, R]) Construct(ctx context.Context, id ID) (R, error) {
	return call(ctx, g.chains.Construct, func(ctx context.Context) (R, error) {
		return g.next.Construct(ctx, id)
	})
}

func (g *guardedLoader[ID, R]) Load(ctx context.Context, real R, name string) (any, error) {
	return call(ctx, g.chains.Load, func(ctx context.Context) (any, error) {
		return g.next.Load(ctx, real, name)
	})
}

// WrapFactory guards a pool factory with chain.
func WrapFactory[K comparable, V any](next pool.Factory[K, V], chain *Chain) pool.Factory[K, V] {
	return func(ctx context.Context, key K) (V, error) {
		return call(ctx, chain, func(ctx context.Context) (V, error) {
			return next(ctx, key)
		})
	}
}

// attempt is one fn call. A Deadline may abandon it while it still runs.
type attempt[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func (a *attempt[T]) failed() bool {
	select {
	case <-a.done:
		return a.err != nil
	default:
		return false
	}
}

// call runs fn through c and returns its value. At most one fn call is in
// flight: a retry after an abandoned attempt waits for that attempt instead
// of starting another. A value that arrives after call has given up on it
// is closed if it has a Close method.
func call[T any](ctx context.Context, c *Chain, fn func(context.Context) (T, error)) (T, error) {
	var (
		mu      sync.Mutex
		current *attempt[T]
		settled bool
	)

	err := c.Do(ctx, func(ctx context.Context) error {
		mu.Lock()
		a := current
		if a == nil || a.failed() {
			a = &attempt[T]{done: make(chan struct{})}
			current = a
			go func() {
				v, err := fn(ctx)
				mu.Lock()
				a.val, a.err = v, err
				late := settled && err == nil
				close(a.done)
				mu.Unlock()
				if late {
					release(v)
				}
			}()
		}
		mu.Unlock()

		select {
		case <-a.done:
			return a.err
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	// An attempt still running sees settled and releases its own value.
	mu.Lock()
	settled = true
	a := current
	unused := false
	if err != nil && a != nil {
		select {
		case <-a.done:
			unused = a.err == nil
		default:
		}
	}
	mu.Unlock()

	if err != nil {
		if unused {
			release(a.val)
		}
		var zero T
		return zero, err
	}
	return a.val, nil
}

func release(v any) {
	switch c := v.(type) {
	case interface{ Close() error }:
		_ = c.Close()
	case interface{ Close() }:
		c.Close()
	}
}

var _ facet.Loader[string, struct{}] = (*guardedLoader[string, struct{}])(nil)
