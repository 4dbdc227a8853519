package health

import (
	"context"
	"testing"
	"time"
)

type mockChecker struct {
	name   string
	result *Result
	delay  time.Duration
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) *Result {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return Unhealthy("check cancelled").WithDetail("error", ctx.Err().Error())
		}
	}
	return m.result
}

func TestRunKeepsOrder(t *testing.T) {
	m := NewManager()
	m.AddChecker(&mockChecker{name: "config", result: Healthy("ok"), delay: 30 * time.Millisecond})
	m.AddChecker(&mockChecker{name: "backend", result: Degraded("slow")})
	m.AddChecker(&mockChecker{name: "session", result: Healthy("ok")})

	report := m.Run(context.Background())

	if m.Count() != 3 || len(report.Checks) != 3 {
		t.Fatalf("got %d checks, want 3", len(report.Checks))
	}
	for i, want := range []string{"config", "backend", "session"} {
		if report.Checks[i].Name != want {
			t.Errorf("Checks[%d].Name = %q, want %q", i, report.Checks[i].Name, want)
		}
	}
	if report.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", report.Status)
	}
	if !report.Healthy() {
		t.Error("a degraded report should still pass")
	}
	if report.Checks[0].Latency < 30*time.Millisecond {
		t.Errorf("Latency = %v, want measured duration", report.Checks[0].Latency)
	}
}

func TestRunTimeout(t *testing.T) {
	m := NewManager().WithTimeout(50 * time.Millisecond)
	m.AddChecker(&mockChecker{name: "slow", result: Healthy("late"), delay: time.Second})

	report := m.Run(context.Background())

	if got := report.Checks[0]; got.Status != StatusUnhealthy || got.Message != "check cancelled" {
		t.Errorf("slow check = %v %q, want unhealthy cancelled", got.Status, got.Message)
	}
	if report.Healthy() {
		t.Error("report should fail")
	}
}

func TestRunNilResult(t *testing.T) {
	m := NewManager()
	m.AddChecker(&mockChecker{name: "broken"})

	report := m.Run(context.Background())
	if report.Checks[0].Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", report.Checks[0].Status)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		want   Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Check{{Result: Healthy("")}, {Result: Healthy("")}}, StatusHealthy},
		{"degraded", []Check{{Result: Healthy("")}, {Result: Degraded("")}}, StatusDegraded},
		{"unhealthy wins", []Check{{Result: Degraded("")}, {Result: Unhealthy("")}}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overall(tt.checks); got != tt.want {
				t.Errorf("Overall() = %v, want %v", got, tt.want)
			}
		})
	}
}
