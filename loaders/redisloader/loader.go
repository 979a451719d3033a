package redisloader

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/lazyops/facet"
)

const defaultPrefix = "lazyops"

// Client captures the subset of redis.Client used by the loader.
type Client interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// Kind selects how a facet is read.
type Kind int

const (
	// KindHash reads a hash as map[string]string.
	KindHash Kind = iota
	// KindString reads a string value.
	KindString
	// KindJSON reads a string value and decodes it as JSON.
	KindJSON
)

// Config configures a Loader.
type Config[ID any] struct {
	Client Client

	// Prefix namespaces all keys. Default: "lazyops"
	Prefix string

	// Key renders an identity into its key segment. Default: fmt %v.
	Key func(id ID) string

	Facets map[string]Kind
}

// Session is the materialized resource: a verified client bound to one
// identity's key namespace.
type Session struct {
	client Client
	base   string
}

// Key returns the full key for a facet.
func (s *Session) Key(facet string) string {
	return s.base + ":" + facet
}

// Loader loads facets from Redis keys.
type Loader[ID any] struct {
	cfg Config[ID]
}

// New creates a Loader, applying defaults to unset fields.
func New[ID any](cfg Config[ID]) *Loader[ID] {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.Key == nil {
		cfg.Key = func(id ID) string { return fmt.Sprintf("%v", id) }
	}
	return &Loader[ID]{cfg: cfg}
}

// Construct implements facet.Loader.
func (l *Loader[ID]) Construct(ctx context.Context, id ID) (*Session, error) {
	if l.cfg.Client == nil {
		return nil, ErrNilClient
	}
	if err := l.cfg.Client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Session{client: l.cfg.Client, base: l.cfg.Prefix + ":" + l.cfg.Key(id)}, nil
}

// Load implements facet.Loader.
func (l *Loader[ID]) Load(ctx context.Context, s *Session, name string) (any, error) {
	kind, ok := l.cfg.Facets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, name)
	}
	key := s.Key(name)

	switch kind {
	case KindHash:
		m, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return m, nil

	case KindString, KindJSON:
		raw, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		if err != nil {
			return nil, err
		}
		if kind == KindString {
			return raw, nil
		}

		var v any
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q has kind %d", ErrUnknownFacet, name, kind)
}

var (
	_ facet.Loader[string, *Session] = (*Loader[string])(nil)
	_ Client                         = (*redis.Client)(nil)
)
