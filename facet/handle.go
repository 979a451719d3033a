package facet

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/lazyops/observe"
)

// constructKey is the single flight key for materialization. It lives in
// its own group, so it can never collide with a facet name.
const constructKey = "construct"

// Option configures a Handle.
type Option func(*options)

type options struct {
	id       string
	recorder observe.Recorder
}

// WithID overrides the generated handle ID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithRecorder attaches a Recorder that receives hit, miss, dedup,
// construct, load and cancel events.
func WithRecorder(r observe.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// Handle lazily materializes one resource and memoizes its facets.
//
// Contract:
// - Laziness: New performs no loader calls.
// - Construction: Loader.Construct succeeds at most once per handle.
// - Memoization: each facet name maps to at most one cached value, which
//   never changes once Loaded.
// - Concurrency: safe for concurrent use. Callers for the same facet share
//   one in-flight load; different facets load independently.
// - Errors: failures are returned wrapped in ErrConstruction or ErrLoad and
//   are never cached.
// - Ownership: the backing resource is private to the handle.
type Handle[ID any, R any] struct {
	identity ID
	loader   Loader[ID, R]
	opts     options

	mu           sync.RWMutex
	real         R
	materialized bool
	values       map[string]any
	inflight     map[string]struct{}

	construct singleflight.Group
	loads     singleflight.Group
}

// New returns an unmaterialized handle for identity. It does no work.
func New[ID any, R any](identity ID, loader Loader[ID, R], opts ...Option) *Handle[ID, R] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	return &Handle[ID, R]{
		identity: identity,
		loader:   loader,
		opts:     o,
		values:   make(map[string]any),
		inflight: make(map[string]struct{}),
	}
}

// Get returns the named facet, materializing the resource and loading the
// facet on first use.
func (h *Handle[ID, R]) Get(ctx context.Context, name string) (any, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if h.loader == nil {
		return nil, ErrNilLoader
	}

	if v, ok := h.cached(name); ok {
		h.emit(ctx, observe.EventData{Event: observe.EventHit, Facet: name})
		return v, nil
	}

	if err := ctx.Err(); err != nil {
		h.emit(ctx, observe.EventData{Event: observe.EventCanceled, Facet: name, Err: err})
		return nil, fmt.Errorf("%w: %q: %w", ErrCanceled, name, err)
	}

	// Only the flight this caller started sets these.
	leader, hit := false, false
	flightCtx := context.WithoutCancel(ctx)

	ch := h.loads.DoChan(name, func() (any, error) {
		if v, ok := h.cached(name); ok {
			hit = true
			return v, nil
		}

		leader = true
		h.emit(flightCtx, observe.EventData{Event: observe.EventMiss, Facet: name})
		return h.load(flightCtx, name)
	})

	select {
	case res := <-ch:
		switch {
		case hit:
			h.emit(ctx, observe.EventData{Event: observe.EventHit, Facet: name})
		case !leader:
			h.emit(ctx, observe.EventData{Event: observe.EventDedup, Facet: name})
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil

	case <-ctx.Done():
		h.emit(ctx, observe.EventData{Event: observe.EventCanceled, Facet: name, Err: ctx.Err()})
		return nil, fmt.Errorf("%w: %q: %w", ErrCanceled, name, ctx.Err())
	}
}

// GetAs returns the named facet asserted to type T.
func GetAs[T any, ID any, R any](ctx context.Context, h *Handle[ID, R], name string) (T, error) {
	var zero T

	v, err := h.Get(ctx, name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, want %T", ErrFacetType, name, v, zero)
	}
	return t, nil
}

// Preload loads several facets concurrently and returns the first error.
// When one load fails the remaining waiters stop waiting, but their loads
// still finish and are cached.
func (h *Handle[ID, R]) Preload(ctx context.Context, names ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			_, err := h.Get(gctx, name)
			return err
		})
	}
	return g.Wait()
}

// IsMaterialized reports whether the backing resource has been constructed.
func (h *Handle[ID, R]) IsMaterialized() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.materialized
}

// State reports the lifecycle state of the named facet.
func (h *Handle[ID, R]) State(name string) State {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.values[name]; ok {
		return Loaded
	}
	if _, ok := h.inflight[name]; ok {
		return Loading
	}
	return Unloaded
}

// Loaded returns the names of cached facets in sorted order.
func (h *Handle[ID, R]) Loaded() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Sorted(maps.Keys(h.values))
}

// Identity returns the identity the handle was created for.
func (h *Handle[ID, R]) Identity() ID {
	return h.identity
}

// ID returns the handle's instance ID, used to correlate events.
func (h *Handle[ID, R]) ID() string {
	return h.opts.id
}

func (h *Handle[ID, R]) cached(name string) (any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.values[name]
	return v, ok
}

// load runs inside the facet's flight.
func (h *Handle[ID, R]) load(ctx context.Context, name string) (value any, err error) {
	h.mu.Lock()
	h.inflight[name] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.inflight, name)
		h.mu.Unlock()
	}()

	real, err := h.materialize(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%w: %q: loader panicked: %v", ErrLoad, name, r)
		}
		h.emit(ctx, observe.EventData{
			Event:    observe.EventLoad,
			Facet:    name,
			Start:    start,
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	v, err := h.loader.Load(ctx, real, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrLoad, name, err)
	}

	h.mu.Lock()
	h.values[name] = v
	h.mu.Unlock()
	return v, nil
}

func (h *Handle[ID, R]) materialize(ctx context.Context) (R, error) {
	h.mu.RLock()
	if h.materialized {
		real := h.real
		h.mu.RUnlock()
		return real, nil
	}
	h.mu.RUnlock()

	v, err, _ := h.construct.Do(constructKey, func() (any, error) {
		h.mu.RLock()
		if h.materialized {
			real := h.real
			h.mu.RUnlock()
			return real, nil
		}
		h.mu.RUnlock()

		real, err := h.build(ctx)
		if err != nil {
			return nil, err
		}
		return real, nil
	})
	if err != nil {
		var zero R
		return zero, err
	}

	real, _ := v.(R)
	return real, nil
}

func (h *Handle[ID, R]) build(ctx context.Context) (real R, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v: loader panicked: %v", ErrConstruction, h.identity, r)
		}
		h.emit(ctx, observe.EventData{
			Event:    observe.EventConstruct,
			Start:    start,
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	real, err = h.loader.Construct(ctx, h.identity)
	if err != nil {
		var zero R
		return zero, fmt.Errorf("%w: %v: %w", ErrConstruction, h.identity, err)
	}

	h.mu.Lock()
	h.real = real
	h.materialized = true
	h.mu.Unlock()
	return real, nil
}

func (h *Handle[ID, R]) emit(ctx context.Context, e observe.EventData) {
	if h.opts.recorder == nil {
		return
	}
	e.Component = observe.ComponentFacet
	e.Resource = fmt.Sprintf("%v", h.identity)
	e.Handle = h.opts.id
	h.opts.recorder.Record(ctx, e)
}
