package facet

import (
	"context"
	"slices"

	"github.com/jonwraymond/lazyops/pool"
)

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	handleOpts []Option
	poolOpts   []pool.Option
}

// WithHandleOptions applies opts to every handle the registry creates.
// WithID is ignored so that each handle keeps a unique ID.
func WithHandleOptions(opts ...Option) RegistryOption {
	return func(o *registryOptions) {
		o.handleOpts = append(o.handleOpts, opts...)
	}
}

// WithPoolOptions configures the pool that holds the handles.
func WithPoolOptions(opts ...pool.Option) RegistryOption {
	return func(o *registryOptions) {
		o.poolOpts = append(o.poolOpts, opts...)
	}
}

// Registry shares one Handle per identity.
//
// Contract:
// - Identity: every Handle call with an equal identity returns the same
//   *Handle while it is registered, so the resource is materialized once
//   across all callers.
// - Laziness: creating a handle performs no loader calls.
// - Concurrency: safe for concurrent use.
type Registry[ID comparable, R any] struct {
	loader  Loader[ID, R]
	opts    []Option
	handles *pool.Pool[ID, *Handle[ID, R]]
}

// NewRegistry creates a registry whose handles all use loader.
func NewRegistry[ID comparable, R any](loader Loader[ID, R], opts ...RegistryOption) *Registry[ID, R] {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &Registry[ID, R]{
		loader:  loader,
		opts:    o.handleOpts,
		handles: pool.New[ID, *Handle[ID, R]](o.poolOpts...),
	}
}

// Handle returns the shared handle for id, creating it if needed.
func (r *Registry[ID, R]) Handle(ctx context.Context, id ID) (*Handle[ID, R], error) {
	return r.handles.GetOrCreate(ctx, id, r.newHandle)
}

// Len returns the number of registered handles.
func (r *Registry[ID, R]) Len() int {
	return r.handles.Size()
}

func (r *Registry[ID, R]) newHandle(_ context.Context, id ID) (*Handle[ID, R], error) {
	if r.loader == nil {
		return nil, ErrNilLoader
	}
	opts := append(slices.Clone(r.opts), WithID(""))
	return New(id, r.loader, opts...), nil
}
