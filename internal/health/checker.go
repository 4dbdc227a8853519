// Package health runs the diagnostics behind 'placesadmin doctor': whether
// the config parses, the backend answers and the stored session is usable.
//
//	m := health.NewManager()
//	m.AddChecker(health.NewConfigChecker(path, load))
//	m.AddChecker(health.NewBackendChecker(baseURL, ping))
//	report := m.Run(ctx)
package health

import (
	"context"
	"time"
)

// Checker is one diagnostic.
type Checker interface {
	// Name is a short lowercase identifier, e.g. "backend".
	Name() string
	// Check must honor the context deadline.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	StatusHealthy Status = "healthy"
	// StatusDegraded means commands still work but something needs
	// attention, e.g. nobody is logged in.
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// Result is the outcome of one check.
type Result struct {
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Hint    string         `json:"hint,omitempty" yaml:"hint,omitempty"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

// NewResult creates a result with an empty detail map.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail adds a detail and returns r for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

// WithHint sets the suggested fix.
func (r *Result) WithHint(hint string) *Result {
	r.Hint = hint
	return r
}

// WithLatency sets the latency and returns r for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

// Healthy creates a healthy result.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
