package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, clock func() time.Time) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   1,
	})
	b.now = clock
	return b
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	current := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	b := newTestBreaker(3, 10*time.Second, func() time.Time { return current })

	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow before threshold: %v", err)
		}
		b.RecordFailure()
	}

	if !errors.Is(b.Allow(), ErrCircuitOpen) {
		t.Fatal("expected open circuit after threshold failures")
	}
}

func TestCircuitBreaker_HalfOpenProbeClosesOnSuccess(t *testing.T) {
	current := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, 10*time.Second, func() time.Time { return current })

	b.RecordFailure()
	if !errors.Is(b.Allow(), ErrCircuitOpen) {
		t.Fatal("expected open circuit")
	}

	current = current.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass: %v", err)
	}
	b.RecordSuccess()

	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after probe success, got %s", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	current := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, 10*time.Second, func() time.Time { return current })

	b.RecordFailure()
	current = current.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass: %v", err)
	}
	b.RecordFailure()

	if !errors.Is(b.Allow(), ErrCircuitOpen) {
		t.Fatal("expected circuit to reopen after probe failure")
	}
}
