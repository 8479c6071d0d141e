package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubCheckable struct {
	err error
}

func (s *stubCheckable) HealthCheck(_ context.Context) error {
	return s.err
}

func TestRegistry_AllHealthy(t *testing.T) {
	r := NewRegistry()
	r.Register(NewPingChecker("liveness"))
	r.Register(NewDatabaseChecker("mongodb", &stubCheckable{}))

	result := r.Check(context.Background())
	if !result.IsHealthy() {
		t.Fatalf("status = %s, want healthy", result.Status)
	}
	if len(result.Checks) != 2 {
		t.Fatalf("checks = %d, want 2", len(result.Checks))
	}
}

func TestRegistry_UnhealthyComponentDominates(t *testing.T) {
	r := NewRegistry()
	r.Register(NewPingChecker("liveness"))
	r.Register(NewCacheChecker("redis", &stubCheckable{err: errors.New("connection refused")}))

	result := r.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("status = %s, want unhealthy", result.Status)
	}
}

func TestRegistry_CheckOne(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunc("custom", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "custom", Status: StatusDegraded, Timestamp: time.Now()}
	})

	result, err := r.CheckOne(context.Background(), "custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusDegraded {
		t.Fatalf("status = %s, want degraded", result.Status)
	}

	if _, err := r.CheckOne(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown checker")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	r.Register(NewPingChecker("liveness"))
	r.Unregister("liveness")
	if got := len(r.List()); got != 0 {
		t.Fatalf("registered checkers = %d, want 0", got)
	}
}

func TestAdapterChecker_ReportsError(t *testing.T) {
	c := NewAdapterChecker("db", &stubCheckable{err: errors.New("down")}, time.Second)
	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("status = %s, want unhealthy", result.Status)
	}
	if result.Error != "down" {
		t.Fatalf("error = %q, want down", result.Error)
	}
}
