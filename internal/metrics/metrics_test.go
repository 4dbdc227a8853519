package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
)

func TestNewMetrics(t *testing.T) {
	_, m := NewRegistry()

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"Requests", m.Requests},
		{"RequestDuration", m.RequestDuration},
		{"TransportErrors", m.TransportErrors},
		{"CommandExecutions", m.CommandExecutions},
		{"CommandDuration", m.CommandDuration},
		{"Errors", m.Errors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestObserveRequest(t *testing.T) {
	_, m := NewRegistry()

	m.ObserveRequest("GET", "/places/:id", 200, 120*time.Millisecond)
	m.ObserveRequest("GET", "/places/:id", 404, 80*time.Millisecond)
	m.ObserveRequest("GET", "/places/:id", 204, 10*time.Millisecond)
	m.ObserveRequest("POST", "/places", 0, time.Second)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/places/:id", "2xx")); got != 2 {
		t.Errorf("2xx requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/places/:id", "4xx")); got != 1 {
		t.Errorf("4xx requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TransportErrors.WithLabelValues("POST", "/places")); got != 1 {
		t.Errorf("transport errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("POST", "/places", "none")); got != 1 {
		t.Errorf("none requests = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RequestDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestObserveCommand(t *testing.T) {
	_, m := NewRegistry()

	m.ObserveCommand("places list", nil, time.Second)
	m.ObserveCommand("places list", perrors.NewNotLoggedInError(), time.Second)
	m.ObserveCommand("places list", errors.New("boom"), time.Second)

	if got := testutil.ToFloat64(m.CommandExecutions.WithLabelValues("places list", "true")); got != 1 {
		t.Errorf("successes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CommandExecutions.WithLabelValues("places list", "false")); got != 2 {
		t.Errorf("failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues(string(perrors.ErrCodeAuthRequired), "cmd")); got != 1 {
		t.Errorf("coded errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues("unknown", "cmd")); got != 1 {
		t.Errorf("unknown errors = %v, want 1", got)
	}
}

func TestRecordError_Wrapped(t *testing.T) {
	_, m := NewRegistry()

	err := fmt.Errorf("listing: %w", perrors.NewBackendUnreachableError("http://x", errors.New("refused")))
	m.RecordError(err, "platform")

	if got := testutil.ToFloat64(m.Errors.WithLabelValues(string(perrors.ErrCodeNetUnreachable), "platform")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "none", 200: "2xx", 201: "2xx", 302: "3xx", 401: "4xx", 503: "5xx", 600: "none"}
	for status, want := range tests {
		if got := StatusClass(status); got != want {
			t.Errorf("StatusClass(%d) = %q, want %q", status, got, want)
		}
	}
}
