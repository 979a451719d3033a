package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRun_MemoryBackend(t *testing.T) {
	t.Setenv("LAZYOPS_BACKEND", "memory")
	t.Setenv("LAZYOPS_LOG_LEVEL", "error")

	var out bytes.Buffer
	err := run(context.Background(), &out, demoOptions{first: "Gabriel", last: "Galacci", repeat: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"user Gabriel Galacci (materialized: false)",
		"map[cpf:111.111.111-11 rg:11.111.111-1]",
		"[map[numero:500 rua:Av. Brasil]]",
		"Gabriel: Av. Brasil 50 Centro Casa 11111-111",
		"Joana: Av. Brasil 250A Centro AP 555 11111-111",
		"shared address: true, distinct addresses: 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "profile (cached)"); n != 2 {
		t.Errorf("cached reads = %d, want 2", n)
	}
	if strings.Contains(got, "unhealthy") || strings.Contains(got, "degraded") {
		t.Errorf("all checks should be healthy:\n%s", got)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("LAZYOPS_BACKEND", "mongo")

	err := run(context.Background(), &bytes.Buffer{}, demoOptions{})
	if err == nil || !strings.Contains(err.Error(), "config") {
		t.Fatalf("error = %v, want config error", err)
	}
}
