package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tecsupnav/placesadmin/internal/config"
	"github.com/tecsupnav/placesadmin/internal/health"
	"github.com/tecsupnav/placesadmin/internal/session"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, backend and session",
	Long: `Run diagnostics to check that placesadmin can do its job.

Checks include:
  • The config file parses and validates
  • The backend answers at the configured URL
  • A session is stored and is not about to expire

Examples:
  placesadmin doctor
  placesadmin doctor -o json`,
	Args: cobra.NoArgs,
	RunE: withEnv(runDoctor),
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// errUnhealthy is returned when a check failed; the report says which.
var errUnhealthy = errors.New("one or more checks failed")

type doctorReport struct {
	health.Report `yaml:",inline"`
}

func (r doctorReport) RenderText(w io.Writer, th ux.Theme) error {
	for _, c := range r.Checks {
		mark := th.Success.Render("✓")
		switch c.Status {
		case health.StatusDegraded:
			mark = th.Muted.Render("!")
		case health.StatusUnhealthy:
			mark = th.Danger.Render("✗")
		}
		if _, err := fmt.Fprintf(w, "%s %-8s %s\n", mark, c.Name, c.Message); err != nil {
			return err
		}
		if c.Hint != "" {
			if _, err := fmt.Fprintf(w, "  %s\n", th.Muted.Render(c.Hint)); err != nil {
				return err
			}
		}
	}
	return nil
}

func runDoctor(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	s := env.session.Init(ctx)
	info := health.SessionInfo{Authenticated: s.IsAuthenticated()}
	if s.User != nil {
		info.Email = s.User.Email
	}
	if exp, ok := session.ExpiresAt(s.Token); ok {
		info.ExpiresAt = exp
	}

	m := health.NewManager().WithTimeout(env.cfg.RequestTimeout())
	m.AddChecker(health.NewConfigChecker(env.cfgPath, func(path string) error {
		_, err := config.Load(path)
		return err
	}))
	m.AddChecker(health.NewBackendChecker(env.baseURL, func(ctx context.Context) error {
		_, err := env.client.Get(ctx, "/auth/profile")
		return err
	}))
	m.AddChecker(health.NewSessionChecker(info, nil))

	report := m.Run(ctx)
	if err := env.print(doctorReport{Report: report}); err != nil {
		return err
	}
	if !report.Healthy() {
		return errUnhealthy
	}
	return nil
}
