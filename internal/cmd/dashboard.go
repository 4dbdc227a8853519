package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
	"github.com/tecsupnav/placesadmin/internal/router"
	"github.com/tecsupnav/placesadmin/internal/session"
	"github.com/tecsupnav/placesadmin/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	Long: `Open the full-screen dashboard. Logging in, place types, places and users
are all reachable from it; press ? for the key bindings.

Logs go to ~/.placesadmin/logs/dashboard.log while the dashboard runs.

Examples:
  placesadmin dashboard
  placesadmin dashboard --path /places
  placesadmin dashboard --path /places/p-1/edit`,
	Args: cobra.NoArgs,
	RunE: withEnv(runDashboard),
}

var dashboardPath string

func init() {
	dashboardCmd.Flags().StringVar(&dashboardPath, "path", "/", "screen to open, e.g. /places or /place-types/new")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	if !interactive() {
		return perrors.New(perrors.ErrCodeValidationInvalid, "the dashboard needs a terminal").
			WithSuggestion("Use the places, place-types and users commands in scripts")
	}

	logger, path, err := dashboardLogger(env.cc, env.cfg)
	if err != nil {
		return fmt.Errorf("failed to open dashboard log: %w", err)
	}
	_ = env.logger.Close()
	env.logger = logger
	env.logger.Info("dashboard starting", "log", path, "backend", env.baseURL)

	history := router.NewHistory(dashboardPath)
	if err := env.connect(logger, session.WithNavigator(history)); err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Store:    env.session,
		History:  history,
		Services: env.client,
		PageSize: env.cfg.PageSize(),
		Logger:   logger,
	})
}
