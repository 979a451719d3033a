package pool

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/lazyops/observe"
)

// Factory builds the instance for a key on a pool miss.
//
// The context passed to a factory is detached from the cancellation of the
// caller that triggered it, because other callers may be waiting on the
// same result. It still carries the caller's values.
type Factory[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Option configures a Pool.
type Option func(*options)

type options struct {
	name     string
	keyer    Keyer
	policy   Policy
	recorder observe.Recorder
}

// WithName labels the pool in emitted events.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithKeyer overrides the default ValueKeyer. Keys with equal storage keys
// but unequal values fail with ErrKeyCollision.
func WithKeyer(k Keyer) Option {
	return func(o *options) {
		if k != nil {
			o.keyer = k
		}
	}
}

// WithPolicy sets the entry lifetime policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithRecorder attaches a Recorder that receives hit, miss, dedup, create
// and cancel events.
func WithRecorder(r observe.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// Pool deduplicates instances by key.
//
// Contract:
// - Concurrency: safe for concurrent use. Calls for different keys never
//   wait on each other; calls for an equal key share one factory call.
// - Identity: while an entry is registered, every GetOrCreate for a key
//   that is == to its key returns the same instance. Unequal keys never
//   share an instance.
// - Errors: factory errors and panics are returned wrapped in ErrConstruction
//   and leave the key unregistered.
// - Ownership: instances are shared by reference and must not be mutated.
type Pool[K comparable, V any] struct {
	opts  options
	store *gocache.Cache
	group singleflight.Group
}

// entry is what the store holds. Keeping the key lets lookups confirm
// equality and keeps pointer keys alive while registered.
type entry[K comparable, V any] struct {
	key K
	val V
}

// New creates an empty pool.
func New[K comparable, V any](opts ...Option) *Pool[K, V] {
	o := options{
		keyer:  ValueKeyer{},
		policy: DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Pool[K, V]{
		opts:  o,
		store: gocache.New(o.policy.expiration(), o.policy.cleanupInterval()),
	}
}

// GetOrCreate returns the instance registered for key, calling factory
// to build and register it on a miss.
func (p *Pool[K, V]) GetOrCreate(ctx context.Context, key K, factory Factory[K, V]) (V, error) {
	var zero V

	if factory == nil {
		return zero, ErrNilFactory
	}

	sk, err := p.storageKey(key)
	if err != nil {
		return zero, err
	}

	if v, ok := p.lookup(sk, key); ok {
		p.emit(ctx, observe.EventData{Event: observe.EventHit}, key)
		return v, nil
	}

	if err := ctx.Err(); err != nil {
		p.emit(ctx, observe.EventData{Event: observe.EventCanceled, Err: err}, key)
		return zero, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	// Only the flight this caller started sets these.
	leader, hit := false, false
	flightCtx := context.WithoutCancel(ctx)

	ch := p.group.DoChan(sk, func() (any, error) {
		// A flight that finished between our lookup and DoChan has already
		// registered its instance.
		if v, ok := p.lookup(sk, key); ok {
			hit = true
			return v, nil
		}

		leader = true
		p.emit(flightCtx, observe.EventData{Event: observe.EventMiss}, key)
		return p.create(flightCtx, sk, key, factory)
	})

	select {
	case res := <-ch:
		switch {
		case hit:
			p.emit(ctx, observe.EventData{Event: observe.EventHit}, key)
		case !leader:
			p.emit(ctx, observe.EventData{Event: observe.EventDedup}, key)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil

	case <-ctx.Done():
		p.emit(ctx, observe.EventData{Event: observe.EventCanceled, Err: ctx.Err()}, key)
		return zero, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	}
}

// create runs the factory and registers its result. It runs inside the
// key's flight, so at most one create per key is active at a time.
func (p *Pool[K, V]) create(ctx context.Context, sk string, key K, factory Factory[K, V]) (result any, err error) {
	if cur, ok := p.entry(sk); ok && cur.key != key {
		return nil, fmt.Errorf("%w: %v and %v", ErrKeyCollision, key, cur.key)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v: factory panicked: %v", ErrConstruction, key, r)
		}
		p.emit(ctx, observe.EventData{
			Event:    observe.EventCreate,
			Start:    start,
			Duration: time.Since(start),
			Err:      err,
		}, key)
	}()

	v, err := factory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrConstruction, key, err)
	}

	// Add refuses to replace a live entry; keep the registered instance.
	if err := p.store.Add(sk, entry[K, V]{key: key, val: v}, gocache.DefaultExpiration); err != nil {
		if cur, ok := p.entry(sk); ok {
			if cur.key != key {
				return nil, fmt.Errorf("%w: %v and %v", ErrKeyCollision, key, cur.key)
			}
			return cur.val, nil
		}
	}
	return v, nil
}

// Get returns the registered instance for key without creating one.
func (p *Pool[K, V]) Get(key K) (V, bool) {
	sk, err := p.storageKey(key)
	if err != nil {
		var zero V
		return zero, false
	}
	return p.lookup(sk, key)
}

// Size returns the number of distinct keys currently registered.
func (p *Pool[K, V]) Size() int {
	if p.opts.policy.Expires() {
		// ItemCount includes expired entries awaiting cleanup.
		return len(p.store.Items())
	}
	return p.store.ItemCount()
}

func (p *Pool[K, V]) storageKey(key K) (string, error) {
	sk, err := p.opts.keyer.Key(key)
	if err != nil {
		return "", err
	}
	if err := ValidateKey(sk); err != nil {
		return "", fmt.Errorf("%w: %v", err, key)
	}
	return sk, nil
}

func (p *Pool[K, V]) lookup(sk string, key K) (V, bool) {
	e, ok := p.entry(sk)
	if !ok || e.key != key {
		var zero V
		return zero, false
	}
	return e.val, true
}

func (p *Pool[K, V]) entry(sk string) (entry[K, V], bool) {
	item, ok := p.store.Get(sk)
	if !ok {
		return entry[K, V]{}, false
	}
	e, ok := item.(entry[K, V])
	return e, ok
}

func (p *Pool[K, V]) emit(ctx context.Context, e observe.EventData, key K) {
	if p.opts.recorder == nil {
		return
	}
	e.Component = observe.ComponentPool
	e.Resource = fmt.Sprintf("%v", key)
	if p.opts.name != "" {
		e.Resource = p.opts.name + ":" + e.Resource
	}
	p.opts.recorder.Record(ctx, e)
}
