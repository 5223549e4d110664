package jitter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDurationBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Duration(10*time.Millisecond, DefaultJitter)
		if d < 10*time.Millisecond || d > 15*time.Millisecond {
			t.Fatalf("duration out of range: %s", d)
		}
	}
}

func TestExponentialBackoffCapped(t *testing.T) {
	if d := ExponentialBackoff(time.Millisecond, 4*time.Millisecond, 10, 0); d != 4*time.Millisecond {
		t.Fatalf("backoff = %s", d)
	}
	if d := ExponentialBackoff(time.Millisecond, time.Second, 2, 0); d != 4*time.Millisecond {
		t.Fatalf("backoff = %s", d)
	}
}

func TestRetry(t *testing.T) {
	transient := errors.New("transient")
	fatal := errors.New("fatal")
	isTransient := func(err error) bool { return errors.Is(err, transient) }
	b := Backoff{Base: time.Microsecond, Max: time.Millisecond, Attempts: 3}

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		err := b.Retry(context.Background(), isTransient, func(int) error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Fatalf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := b.Retry(context.Background(), isTransient, func(int) error {
			calls++
			return transient
		})
		if !errors.Is(err, transient) || calls != 3 {
			t.Fatalf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("stops on non retryable", func(t *testing.T) {
		calls := 0
		err := b.Retry(context.Background(), isTransient, func(int) error {
			calls++
			return fatal
		})
		if !errors.Is(err, fatal) || calls != 1 {
			t.Fatalf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := Backoff{Base: time.Second, Max: time.Second, Attempts: 5}
		err := slow.Retry(ctx, isTransient, func(int) error { return transient })
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v", err)
		}
	})
}
