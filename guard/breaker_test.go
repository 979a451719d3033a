package guard

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(clock *fakeClock, maxFailures int) *Breaker {
	return NewBreaker(BreakerConfig{
		MaxFailures: maxFailures,
		Cooldown:    time.Minute,
		now:         clock.now,
	})
}

func fail(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker(BreakerConfig{})
	if b.State() != BreakerClosed {
		t.Errorf("initial state = %v, want closed", b.State())
	}
	if b.config.MaxFailures != 5 {
		t.Errorf("MaxFailures = %d, want 5", b.config.MaxFailures)
	}
	if b.config.Cooldown != 30*time.Second {
		t.Errorf("Cooldown = %v, want 30s", b.config.Cooldown)
	}
	if b.config.Probes != 1 {
		t.Errorf("Probes = %d, want 1", b.config.Probes)
	}
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := newTestBreaker(clock, 3)
	ctx := context.Background()
	errDown := errors.New("down")

	_ = b.Do(ctx, fail(errDown))
	_ = b.Do(ctx, fail(nil))
	if b.Failures() != 0 {
		t.Errorf("success should reset failures, got %d", b.Failures())
	}

	for range 3 {
		if err := b.Do(ctx, fail(errDown)); !errors.Is(err, errDown) {
			t.Fatalf("Do() error = %v, want %v", err, errDown)
		}
	}
	if b.State() != BreakerOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	if !errors.Is(err, ErrBreakerOpen) || called {
		t.Fatalf("open breaker should reject without calling, err = %v", err)
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []string
	b := NewBreaker(BreakerConfig{
		MaxFailures: 1,
		Cooldown:    time.Minute,
		now:         clock.now,
		OnStateChange: func(from, to BreakerState) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})
	ctx := context.Background()
	errDown := errors.New("down")

	_ = b.Do(ctx, fail(errDown))
	clock.advance(time.Minute)

	if b.State() != BreakerHalfOpen {
		t.Fatalf("state = %v, want half-open", b.State())
	}

	// A failed probe reopens.
	_ = b.Do(ctx, fail(errDown))
	if b.State() != BreakerOpen {
		t.Fatalf("state = %v after failed probe, want open", b.State())
	}

	clock.advance(time.Minute)
	if err := b.Do(ctx, fail(nil)); err != nil {
		t.Fatalf("probe error = %v", err)
	}
	if b.State() != BreakerClosed {
		t.Fatalf("state = %v after successful probe, want closed", b.State())
	}

	want := []string{"closed>open", "open>half-open", "half-open>open", "open>half-open", "half-open>closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition[%d] = %s, want %s", i, transitions[i], want[i])
		}
	}
}

func TestBreaker_HalfOpenLimitsProbes(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := newTestBreaker(clock, 1)
	ctx := context.Background()

	_ = b.Do(ctx, fail(errors.New("down")))
	clock.advance(time.Minute)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Do(ctx, func(context.Context) error { <-release; return nil })
	}()

	// Wait until the probe is admitted.
	for b.probes() == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := b.Do(ctx, fail(nil)); !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("second probe error = %v, want ErrBreakerOpen", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("probe error = %v", err)
	}
}

func TestBreaker_CancellationIsNotFailure(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 1})
	_ = b.Do(context.Background(), fail(context.Canceled))
	if b.State() != BreakerClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 1})
	_ = b.Do(context.Background(), fail(errors.New("down")))
	b.Reset()
	if b.State() != BreakerClosed || b.Failures() != 0 {
		t.Errorf("after Reset state = %v failures = %d", b.State(), b.Failures())
	}
}

func TestBreakerState_String(t *testing.T) {
	tests := map[BreakerState]string{
		BreakerClosed:   "closed",
		BreakerOpen:     "open",
		BreakerHalfOpen: "half-open",
		BreakerState(7): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func (b *Breaker) probes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.probing
}
