package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

// ConfigChecker verifies that the config file parses.
type ConfigChecker struct {
	path string
	load func(path string) error
}

// NewConfigChecker checks path with load.
func NewConfigChecker(path string, load func(path string) error) *ConfigChecker {
	return &ConfigChecker{path: path, load: load}
}

func (c *ConfigChecker) Name() string { return "config" }

func (c *ConfigChecker) Check(context.Context) *Result {
	if err := c.load(c.path); err != nil {
		return Unhealthy("configuration is invalid").
			WithDetail("path", c.path).
			WithDetail("error", err.Error()).
			WithHint("Fix the file or run 'placesadmin config edit'")
	}
	return Healthy("configuration loaded").WithDetail("path", c.path)
}

// SlowBackend is the latency above which the backend is reported degraded.
const SlowBackend = 3 * time.Second

// BackendChecker verifies that the backend answers. Any HTTP response,
// including an error status, proves it is reachable.
type BackendChecker struct {
	baseURL string
	ping    func(ctx context.Context) error
}

// NewBackendChecker probes baseURL with ping.
func NewBackendChecker(baseURL string, ping func(ctx context.Context) error) *BackendChecker {
	return &BackendChecker{baseURL: baseURL, ping: ping}
}

func (c *BackendChecker) Name() string { return "backend" }

func (c *BackendChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	err := c.ping(ctx)
	elapsed := time.Since(start)

	var herr *platform.HTTPError
	switch {
	case err == nil, errors.As(err, &herr):
	case platform.IsConnectivity(err):
		return Unhealthy(fmt.Sprintf("cannot reach %s", c.baseURL)).
			WithDetail("error", err.Error()).
			WithLatency(elapsed).
			WithHint("Check --api-url, PLACESADMIN_API_URL or 'placesadmin config set api_url'")
	default:
		return Unhealthy("backend check failed").
			WithDetail("error", err.Error()).
			WithLatency(elapsed)
	}

	res := Healthy(fmt.Sprintf("%s answered in %s", c.baseURL, elapsed.Round(time.Millisecond)))
	if herr != nil {
		res.WithDetail("status", herr.Status)
	}
	if elapsed > SlowBackend {
		res.Status = StatusDegraded
		res.Hint = "The hosted backend may be waking up; raise the timeout if requests fail"
	}
	return res.WithLatency(elapsed)
}

// ExpiringSoon is how close to expiry a token is reported degraded.
const ExpiringSoon = 10 * time.Minute

// SessionInfo is what SessionChecker needs to know about the stored
// session.
type SessionInfo struct {
	Authenticated bool
	Email         string
	ExpiresAt     time.Time // zero for tokens without an expiry
}

// SessionChecker reports whether commands that need a login will work.
type SessionChecker struct {
	info SessionInfo
	now  func() time.Time
}

// NewSessionChecker checks info against the current time.
func NewSessionChecker(info SessionInfo, now func() time.Time) *SessionChecker {
	if now == nil {
		now = time.Now
	}
	return &SessionChecker{info: info, now: now}
}

func (c *SessionChecker) Name() string { return "session" }

func (c *SessionChecker) Check(context.Context) *Result {
	if !c.info.Authenticated {
		return Degraded("not logged in").WithHint("Run 'placesadmin auth login'")
	}
	res := Healthy("logged in as " + c.info.Email)
	if c.info.ExpiresAt.IsZero() {
		return res
	}
	res.WithDetail("expiresAt", c.info.ExpiresAt)
	if c.info.ExpiresAt.Sub(c.now()) < ExpiringSoon {
		res.Status = StatusDegraded
		res.Message = fmt.Sprintf("session for %s expires %s", c.info.Email, humanize.Time(c.info.ExpiresAt))
		res.Hint = "Log in again before it expires"
	}
	return res
}
