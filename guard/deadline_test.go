package guard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDeadline(t *testing.T) {
	tests := []struct {
		name string
		op   func(context.Context) error
		want error
	}{
		{
			name: "fast",
			op:   func(context.Context) error { return nil },
		},
		{
			name: "respects context",
			op: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			want: ErrDeadline,
		},
		{
			name: "ignores context",
			op: func(context.Context) error {
				time.Sleep(100 * time.Millisecond)
				return nil
			},
			want: ErrDeadline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeadline(10 * time.Millisecond)
			if err := d.Do(context.Background(), tt.op); !errors.Is(err, tt.want) {
				t.Errorf("Do() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDeadline_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDeadline(time.Second).Do(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestNewDeadline_Default(t *testing.T) {
	if got := NewDeadline(0).Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", got)
	}
}
