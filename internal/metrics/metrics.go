package metrics

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
)

// Metrics holds all Prometheus metrics for placesadmin
type Metrics struct {
	// Backend request metrics
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TransportErrors *prometheus.CounterVec

	// Command execution metrics
	CommandExecutions *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placesadmin_backend_requests_total",
				Help: "Total number of backend API requests",
			},
			[]string{"method", "route", "status_class"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "placesadmin_backend_request_duration_seconds",
				Help:    "Backend API request latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"method", "route"},
		),
		TransportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placesadmin_backend_transport_errors_total",
				Help: "Total number of backend requests that got no response",
			},
			[]string{"method", "route"},
		),

		CommandExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placesadmin_command_executions_total",
				Help: "Total number of command executions",
			},
			[]string{"command", "success"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "placesadmin_command_duration_seconds",
				Help:    "Command execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placesadmin_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// ObserveRequest records one finished backend request. status 0 means no
// response was received.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if status == 0 {
		m.TransportErrors.WithLabelValues(method, route).Inc()
	}
	m.Requests.WithLabelValues(method, route, StatusClass(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveCommand records one command execution and, on failure, its error
// code.
func (m *Metrics) ObserveCommand(command string, err error, elapsed time.Duration) {
	m.CommandExecutions.WithLabelValues(command, strconv.FormatBool(err == nil)).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
	if err != nil {
		m.RecordError(err, "cmd")
	}
}

// RecordError counts err under its structured code, or "unknown".
func (m *Metrics) RecordError(err error, component string) {
	code := "unknown"
	var coded *perrors.Error
	if stderrors.As(err, &coded) {
		code = string(coded.Code)
	}
	m.Errors.WithLabelValues(code, component).Inc()
}

// StatusClass buckets an HTTP status into "2xx".."5xx", or "none".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}
