package resilience

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 3, ResetTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return errBoom }); !errors.Is(err, errBoom) {
			t.Fatalf("attempt %d error = %v, want errBoom", i, err)
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	err := cb.Execute(func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("execute while open = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 1, ResetTimeout: 10 * time.Millisecond})

	cb.Execute(func() error { return errBoom })
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	time.Sleep(20 * time.Millisecond)
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Errorf("state after successful probe = %v, want closed", cb.GetState())
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 1, ResetTimeout: 10 * time.Millisecond})

	cb.Execute(func() error { return errBoom })
	time.Sleep(20 * time.Millisecond)

	cb.Execute(func() error { return errBoom })
	if cb.GetState() != StateOpen {
		t.Errorf("state after failed probe = %v, want open", cb.GetState())
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 2, ResetTimeout: time.Hour})

	cb.Execute(func() error { return errBoom })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return errBoom })

	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed (failures interleaved with success)", cb.GetState())
	}
}

func TestBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 1, ResetTimeout: time.Hour})

	cb.Execute(func() error { return errBoom })
	cb.Reset()
	if cb.GetState() != StateClosed {
		t.Errorf("state after Reset = %v, want closed", cb.GetState())
	}
}
