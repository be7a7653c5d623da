package health

import (
	"context"
	"testing"
)

func TestCheckAllEmpty(t *testing.T) {
	r := NewRegistry()
	healthy, statuses := r.CheckAll(context.Background())
	if !healthy {
		t.Error("empty registry should be healthy")
	}
	if len(statuses) != 0 {
		t.Errorf("expected no statuses, got %d", len(statuses))
	}
}

func TestCheckAllAggregates(t *testing.T) {
	r := NewRegistry()
	r.Register("database", func(ctx context.Context) Status {
		return Status{Name: "database", Healthy: true}
	})
	r.Register("external_alerts", func(ctx context.Context) Status {
		return Status{Name: "external_alerts", Healthy: false, Detail: "connection refused"}
	})

	healthy, statuses := r.CheckAll(context.Background())
	if healthy {
		t.Error("one failing checker should make the aggregate unhealthy")
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Name != "database" || !statuses[0].Healthy {
		t.Errorf("unexpected first status: %+v", statuses[0])
	}
	if statuses[1].Detail != "connection refused" {
		t.Errorf("detail not propagated: %+v", statuses[1])
	}
}

func TestRegisterReplacesAndKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("database", func(ctx context.Context) Status {
		return Status{Name: "database", Healthy: false, Detail: "stale probe"}
	})
	r.Register("external_alerts", func(ctx context.Context) Status {
		return Status{Name: "external_alerts", Healthy: true}
	})
	r.Register("database", func(ctx context.Context) Status {
		return Status{Name: "database", Healthy: true}
	})

	healthy, statuses := r.CheckAll(context.Background())
	if !healthy {
		t.Error("replaced probe should have taken effect")
	}
	if statuses[0].Name != "database" || statuses[1].Name != "external_alerts" {
		t.Errorf("registration order not preserved: %+v", statuses)
	}
}
