package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect app users",
	Long: `Inspect the students and teachers who signed in to the campus app
with Google. The roster is read-only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List app users",
	Long: `List app users. --filter matches the full name or email, ignoring case
and accents.

Examples:
  placesadmin users list
  placesadmin users list --filter jose`,
	Args: cobra.NoArgs,
	RunE: withEnv(runUsersList),
}

var usersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show app user counts",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runUsersStats),
}

var usersFilter string

func init() {
	usersListCmd.Flags().StringVar(&usersFilter, "filter", "", "filter by name or email")
	usersCmd.AddCommand(usersListCmd, usersStatsCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	users := resource.NewUsers(env.client)
	if err := users.Fetch(ctx); err != nil {
		return err
	}
	st := users.State()
	return env.print(ux.UserList{
		Users:  resource.FilterUsers(st.Users, usersFilter),
		Count:  len(st.Users),
		Filter: usersFilter,
	})
}

func runUsersStats(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	stats, err := env.client.GoogleUsersStats(ctx)
	if err != nil {
		return err
	}
	return env.print(ux.UserStatsView{GoogleUsersStats: *stats})
}
