package health

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds each check.
const DefaultTimeout = 10 * time.Second

// Manager runs checks in parallel and reports them in registration order.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	timeout  time.Duration
}

// NewManager creates a manager with DefaultTimeout.
func NewManager() *Manager {
	return &Manager{timeout: DefaultTimeout}
}

// WithTimeout sets the per-check timeout.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return m
}

// AddChecker registers a check.
func (m *Manager) AddChecker(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)
}

// Count returns the number of registered checks.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.checkers)
}

// Check is a named result.
type Check struct {
	Name string `json:"name" yaml:"name"`
	*Result
}

// Report is the outcome of Run.
type Report struct {
	Status Status  `json:"status" yaml:"status"`
	Checks []Check `json:"checks" yaml:"checks"`
}

// Healthy reports whether no check failed. Degraded checks count as
// passing.
func (r Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// Run executes every check, each under the manager timeout. A check that
// returns nil is reported unhealthy.
func (m *Manager) Run(ctx context.Context) Report {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	timeout := m.timeout
	m.mu.RUnlock()

	checks := make([]Check, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			res := c.Check(checkCtx)
			if res == nil {
				res = Unhealthy("check returned no result")
			}
			if res.Latency == 0 {
				res.Latency = time.Since(start)
			}
			checks[i] = Check{Name: c.Name(), Result: res}
		}(i, c)
	}
	wg.Wait()

	return Report{Status: Overall(checks), Checks: checks}
}

// Overall is unhealthy if any check is, else degraded if any check is,
// else healthy.
func Overall(checks []Check) Status {
	status := StatusHealthy
	for _, c := range checks {
		switch c.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
