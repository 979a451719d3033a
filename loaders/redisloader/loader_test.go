package redisloader

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/lazyops/facet"
)

type fakeClient struct {
	pings   atomic.Int32
	pingErr error
	strings map[string]string
	hashes  map[string]map[string]string
}

func (c *fakeClient) Ping(context.Context) *redis.StatusCmd {
	c.pings.Add(1)
	return redis.NewStatusResult("PONG", c.pingErr)
}

func (c *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := c.strings[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *fakeClient) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	return redis.NewMapStringStringResult(c.hashes[key], nil)
}

type user struct {
	First, Last string
}

func newClient() *fakeClient {
	return &fakeClient{
		strings: map[string]string{
			"users:gabriel.galacci:addresses": `[{"rua": "Av. Brasil", "numero": 500}]`,
			"users:gabriel.galacci:nickname":  "gabi",
			"users:gabriel.galacci:broken":    `{not json`,
		},
		hashes: map[string]map[string]string{
			"users:gabriel.galacci:profile": {"cpf": "111.111.111-11", "rg": "11.111.111-1"},
		},
	}
}

func newLoader(c Client) *Loader[user] {
	return New(Config[user]{
		Client: c,
		Prefix: "users",
		Key:    func(u user) string { return "gabriel.galacci" },
		Facets: map[string]Kind{
			"profile":   KindHash,
			"addresses": KindJSON,
			"nickname":  KindString,
			"broken":    KindJSON,
			"missing":   KindString,
			"nohash":    KindHash,
		},
	})
}

func TestLoader_ThroughHandle(t *testing.T) {
	c := newClient()
	h := facet.New(user{"Gabriel", "Galacci"}, newLoader(c))
	ctx := context.Background()

	profile, err := h.Get(ctx, "profile")
	if err != nil {
		t.Fatalf("Get(profile) failed: %v", err)
	}
	if !reflect.DeepEqual(profile, map[string]string{"cpf": "111.111.111-11", "rg": "11.111.111-1"}) {
		t.Errorf("profile = %v", profile)
	}

	addrs, err := h.Get(ctx, "addresses")
	if err != nil {
		t.Fatalf("Get(addresses) failed: %v", err)
	}
	want := []any{map[string]any{"rua": "Av. Brasil", "numero": float64(500)}}
	if !reflect.DeepEqual(addrs, want) {
		t.Errorf("addresses = %#v, want %#v", addrs, want)
	}

	if nick, _ := h.Get(ctx, "nickname"); nick != "gabi" {
		t.Errorf("nickname = %v", nick)
	}
	if c.pings.Load() != 1 {
		t.Errorf("pings = %d, want 1", c.pings.Load())
	}
}

func TestLoader_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		facet string
		want  error
	}{
		{"unknown facet", "orders", ErrUnknownFacet},
		{"missing string", "missing", ErrNotFound},
		{"missing hash", "nohash", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := facet.New(user{}, newLoader(newClient()))
			_, err := h.Get(ctx, tt.facet)
			if !errors.Is(err, facet.ErrLoad) || !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want ErrLoad wrapping %v", err, tt.want)
			}
		})
	}

	t.Run("bad json", func(t *testing.T) {
		h := facet.New(user{}, newLoader(newClient()))
		if _, err := h.Get(ctx, "broken"); !errors.Is(err, facet.ErrLoad) {
			t.Errorf("error = %v, want ErrLoad", err)
		}
	})

	t.Run("ping failure", func(t *testing.T) {
		c := newClient()
		c.pingErr = errors.New("connection refused")
		h := facet.New(user{}, newLoader(c))
		if _, err := h.Get(ctx, "profile"); !errors.Is(err, facet.ErrConstruction) {
			t.Errorf("error = %v, want ErrConstruction", err)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		if _, err := New(Config[user]{}).Construct(ctx, user{}); !errors.Is(err, ErrNilClient) {
			t.Errorf("error = %v, want ErrNilClient", err)
		}
	})
}

func TestNew_Defaults(t *testing.T) {
	l := New(Config[string]{Client: newClient()})
	s, err := l.Construct(context.Background(), "gabriel")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Key("profile"); got != "lazyops:gabriel:profile" {
		t.Errorf("Key() = %q", got)
	}
}
