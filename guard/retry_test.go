package guard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetry_Defaults(t *testing.T) {
	r := NewRetry(RetryConfig{})
	c := r.Config()

	if c.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", c.MaxAttempts)
	}
	if c.InitialDelay != 50*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 50ms", c.InitialDelay)
	}
	if c.MaxDelay != 5*time.Second {
		t.Errorf("MaxDelay = %v, want 5s", c.MaxDelay)
	}
	if c.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", c.Multiplier)
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	var retries []int
	r := NewRetry(RetryConfig{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		OnRetry:      func(attempt int, _ error, _ time.Duration) { retries = append(retries, attempt) },
	})
	errDown := errors.New("down")

	err := r.Do(context.Background(), func(context.Context) error { return errDown })

	if !errors.Is(err, ErrAttemptsExhausted) || !errors.Is(err, errDown) {
		t.Fatalf("Do() error = %v, want ErrAttemptsExhausted wrapping cause", err)
	}
	if len(retries) != 1 || retries[0] != 1 {
		t.Errorf("OnRetry calls = %v, want [1]", retries)
	}
}

func TestRetry_NonRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"canceled", context.Canceled},
		{"deadline", context.DeadlineExceeded},
		{"breaker open", ErrBreakerOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetry(RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond})
			attempts := 0
			err := r.Do(context.Background(), func(context.Context) error {
				attempts++
				return tt.err
			})
			if !errors.Is(err, tt.err) {
				t.Errorf("Do() error = %v, want %v", err, tt.err)
			}
			if attempts != 1 {
				t.Errorf("attempts = %d, want 1", attempts)
			}
		})
	}
}

func TestRetry_ContextCanceledDuringWait(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	errDown := errors.New("down")

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := r.Do(ctx, func(context.Context) error { return errDown })
	if !errors.Is(err, context.Canceled) || !errors.Is(err, errDown) {
		t.Fatalf("Do() error = %v, want both cause and context.Canceled", err)
	}
}

func TestRetry_Delay(t *testing.T) {
	tests := []struct {
		name    string
		config  RetryConfig
		attempt int
		want    time.Duration
	}{
		{"exponential first", RetryConfig{InitialDelay: 10 * time.Millisecond}, 1, 10 * time.Millisecond},
		{"exponential third", RetryConfig{InitialDelay: 10 * time.Millisecond}, 3, 40 * time.Millisecond},
		{"exponential capped", RetryConfig{InitialDelay: time.Second, MaxDelay: 3 * time.Second}, 10, 3 * time.Second},
		{"linear", RetryConfig{InitialDelay: 10 * time.Millisecond, Backoff: BackoffLinear}, 3, 30 * time.Millisecond},
		{"constant", RetryConfig{InitialDelay: 10 * time.Millisecond, Backoff: BackoffConstant}, 7, 10 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRetry(tt.config).delay(tt.attempt); got != tt.want {
				t.Errorf("delay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetry_Jitter(t *testing.T) {
	r := NewRetry(RetryConfig{InitialDelay: 100 * time.Millisecond, Backoff: BackoffConstant, Jitter: true})
	for range 20 {
		d := r.delay(1)
		if d < 100*time.Millisecond || d >= 125*time.Millisecond {
			t.Fatalf("jittered delay %v outside [100ms, 125ms)", d)
		}
	}
}
