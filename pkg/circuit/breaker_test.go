package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(config Config) (*Breaker, *manualClock) {
	clock := &manualClock{t: time.Unix(1_700_000_000, 0)}
	b := NewBreaker("test", config, zap.NewNop())
	b.now = clock.now
	return b, clock
}

func TestNewBreaker(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State().String())
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 3, Timeout: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("upstream 502"))
	}

	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN after 3 failures, got %s", breaker.State().String())
	}
	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 2, Timeout: time.Second})

	breaker.Record(errors.New("e1"))
	breaker.Record(nil)
	breaker.Record(errors.New("e2"))

	if breaker.State() != StateClosed {
		t.Errorf("Expected CLOSED, non-consecutive failures must not open, got %s", breaker.State().String())
	}
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	breaker.Record(errors.New("down"))
	clock.advance(1500 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected probe to be admitted, got %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Fatalf("Expected HALF_OPEN, got %s", breaker.State().String())
	}
	if err := breaker.Allow(); err != ErrTooManyRequests {
		t.Errorf("Expected second probe to be rejected, got %v", err)
	}

	breaker.Record(nil)
	if breaker.State() != StateClosed {
		t.Errorf("Expected CLOSED after successful probe, got %s", breaker.State().String())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, SuccessThreshold: 2, MaxHalfOpen: 1})

	breaker.Record(errors.New("down"))
	clock.advance(2 * time.Second)
	_ = breaker.Allow()
	breaker.Record(errors.New("still down"))

	if breaker.State() != StateOpen {
		t.Errorf("Expected OPEN after failed probe, got %s", breaker.State().String())
	}
}

func TestBreaker_IgnoresCallerCancellation(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Second})

	breaker.Record(context.Canceled)

	if breaker.State() != StateClosed {
		t.Errorf("Expected cancellation not to count, got %s", breaker.State().String())
	}
}

func TestBreaker_CustomFailureClassifier(t *testing.T) {
	errClient := errors.New("bad request")
	breaker, _ := newTestBreaker(Config{
		Threshold: 1,
		Timeout:   time.Second,
		IsFailure: func(err error) bool { return !errors.Is(err, errClient) },
	})

	err := breaker.Execute(func() error { return errClient })
	if err != errClient {
		t.Fatalf("Expected the call error to be returned, got %v", err)
	}
	if breaker.State() != StateClosed {
		t.Errorf("Expected client errors not to trip the breaker, got %s", breaker.State().String())
	}
}

func TestBreaker_Reset(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Hour})
	breaker.Record(errors.New("down"))
	breaker.Reset()

	if breaker.State() != StateClosed {
		t.Errorf("Expected CLOSED after reset, got %s", breaker.State().String())
	}
}

func TestBreakerRegistry(t *testing.T) {
	registry := NewBreakerRegistry(DefaultConfig(), zap.NewNop())

	first := registry.GetOrCreate("gemini")
	second := registry.GetOrCreate("gemini")
	if first != second {
		t.Error("Expected the same breaker instance for one name")
	}
	registry.GetOrCreate("maps")

	snapshots := registry.Snapshots()
	if len(snapshots) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(snapshots))
	}
	for _, s := range snapshots {
		if s.State != "CLOSED" {
			t.Errorf("Expected %s CLOSED, got %s", s.Name, s.State)
		}
	}
}
