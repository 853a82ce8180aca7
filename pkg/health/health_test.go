package health

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestCheckerAggregatesWorstStatus(t *testing.T) {
	c := NewChecker()
	c.Register("up", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusUp}
	})
	c.Register("degraded", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusDegraded, Message: "slow"}
	})

	report := c.Run(context.Background())
	if report.Status != StatusDegraded {
		t.Errorf("overall status = %v, want degraded", report.Status)
	}
	if len(report.Components) != 2 {
		t.Errorf("components = %d, want 2", len(report.Components))
	}
}

func TestCheckerDownWins(t *testing.T) {
	c := NewChecker()
	c.Register("up", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusUp}
	})
	c.Register("down", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusDown}
	})

	if report := c.Run(context.Background()); report.Status != StatusDown {
		t.Errorf("overall status = %v, want down", report.Status)
	}
}

func TestReadyHandlerStatusCodes(t *testing.T) {
	c := NewChecker()
	c.Register("ok", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusUp}
	})

	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest("GET", "/health/ready", nil))
	if rec.Code != 200 {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	c.Register("bad", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusDown}
	})
	rec = httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest("GET", "/health/ready", nil))
	if rec.Code != 503 {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
}
