package facet

import (
	"context"
	"testing"
)

func BenchmarkHandle_GetCached(b *testing.B) {
	h := New(gabriel, &fakeLoader{})
	ctx := context.Background()
	if _, err := h.Get(ctx, "profile"); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = h.Get(ctx, "profile")
		}
	})
}

func BenchmarkRegistry_Handle(b *testing.B) {
	reg := NewRegistry[person, *conn](&fakeLoader{})
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		_, _ = reg.Handle(ctx, gabriel)
	}
}
