package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReturnsAfterSleep(t *testing.T) {
	original := sleep
	defer func() { sleep = original }()

	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }

	if err := WaitFor(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != time.Second {
		t.Fatalf("expected sleep of 1s, got %s", slept)
	}
}

func TestWaitForHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    time.Duration
		max     time.Duration
		attempt int
		expect  time.Duration
	}{
		{name: "first attempt uses base", base: 100 * time.Millisecond, attempt: 1, expect: 100 * time.Millisecond},
		{name: "doubles per attempt", base: 100 * time.Millisecond, attempt: 3, expect: 400 * time.Millisecond},
		{name: "capped by max", base: time.Second, max: 3 * time.Second, attempt: 5, expect: 3 * time.Second},
		{name: "zero base", base: 0, attempt: 2, expect: 0},
		{name: "zero attempt", base: time.Second, attempt: 0, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Backoff(tt.base, tt.max, tt.attempt); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}
