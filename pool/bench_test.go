package pool

import (
	"context"
	"testing"
)

func BenchmarkPool_Hit(b *testing.B) {
	p := New[addressKey, *address]()
	ctx := context.Background()
	key := addressKey{"Av. Brasil", "Centro", "11111-111"}
	factory := func(context.Context, addressKey) (*address, error) { return &address{}, nil }
	_, _ = p.GetOrCreate(ctx, key, factory)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = p.GetOrCreate(ctx, key, factory)
		}
	})
}

func BenchmarkCanonicalKeyer(b *testing.B) {
	k := CanonicalKeyer{}
	key := addressKey{"Av. Brasil", "Centro", "11111-111"}
	for b.Loop() {
		_, _ = k.Key(key)
	}
}

func BenchmarkValueKeyer(b *testing.B) {
	k := ValueKeyer{}
	key := addressKey{"Av. Brasil", "Centro", "11111-111"}
	for b.Loop() {
		_, _ = k.Key(key)
	}
}
