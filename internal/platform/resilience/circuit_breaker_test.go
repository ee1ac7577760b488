package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1}, clock)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	clock.Advance(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}, clock)
	boom := errors.New("connection refused")

	if err := b.Execute(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	called := false
	err := b.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run while the circuit is open")
	}
}

func TestCircuitBreaker_CallerCancellationIsNotAFailure(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}, clockwork.NewFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = b.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })

	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after caller cancellation, got %s", state)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	want := DefaultCircuitBreakerConfig()
	if got != want {
		t.Fatalf("unexpected normalized config: got=%+v want=%+v", got, want)
	}
}

func TestCircuitBreakerConfig_Validate(t *testing.T) {
	if err := DefaultCircuitBreakerConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cases := map[string]func(*CircuitBreakerConfig){
		"zero threshold":     func(c *CircuitBreakerConfig) { c.FailureThreshold = 0 },
		"zero open timeout":  func(c *CircuitBreakerConfig) { c.OpenTimeout = 0 },
		"zero half-open max": func(c *CircuitBreakerConfig) { c.HalfOpenMaxReq = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultCircuitBreakerConfig()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
			if NormalizeCircuitBreakerConfig(cfg).Validate() != nil {
				t.Fatalf("normalized config should validate")
			}
		})
	}
}
