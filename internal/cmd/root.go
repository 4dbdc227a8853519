// Package cmd is the placesadmin command tree.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "placesadmin",
	Short: "Administer TecsupNav campus places",
	Long: `placesadmin manages the places, place types and users behind the
TecsupNav campus navigation app.

Log in once with 'placesadmin auth login'; the session is kept in
~/.placesadmin/session.json and shared by every command and by the
interactive dashboard.

Examples:
  placesadmin auth login --email admin@tecsup.edu.pe
  placesadmin places list --status active
  placesadmin place-types create --nombre Auditorio --color "#1e88e5"
  placesadmin dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// SIGINT/SIGTERM by main.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "backend base URL (overrides PLACESADMIN_API_URL and api_url)")
	pf.String("config", "", "config file (default is $HOME/.placesadmin/config.yaml)")
	pf.StringP("format", "o", "", "output format: text, json or yaml (default from config)")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-format", "", "log format: text or json")
	pf.Bool("no-color", false, "disable colored output")
}
