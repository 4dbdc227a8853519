package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/tecsupnav/placesadmin/internal/config"
	"github.com/tecsupnav/placesadmin/internal/testutil"
)

type cli struct {
	t       *testing.T
	backend *testutil.Backend
	home    string
	cfgPath string
	apiURL  string
	stdin   string
}

// newCLI points the command tree at a fresh fake backend and a temporary
// home directory. Prompts are disabled.
func newCLI(t *testing.T) *cli {
	t.Helper()
	b := testutil.NewBackend(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvEnvironment, "")
	t.Setenv("PLACESADMIN_LOG_LEVEL", "")
	t.Setenv("PLACESADMIN_SESSION_PASSPHRASE", "")

	stubPrompts(t, false)
	return &cli{
		t:       t,
		backend: b,
		home:    home,
		cfgPath: filepath.Join(home, config.DirName, config.FileName),
		apiURL:  b.URL,
	}
}

// stubPrompts replaces the terminal hooks for one test.
func stubPrompts(t *testing.T, tty bool) {
	t.Helper()
	origInteractive, origConfirm := interactive, confirm
	origLogin, origText := promptLogin, promptText
	t.Cleanup(func() {
		interactive, confirm = origInteractive, origConfirm
		promptLogin, promptText = origLogin, origText
	})
	interactive = func() bool { return tty }
}

// run executes args and returns stdout, stderr and the error.
func (c *cli) run(args ...string) (string, string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(bytes.NewBufferString(c.stdin))
	rootCmd.SetArgs(append(args, "--config", c.cfgPath, "--api-url", c.apiURL, "--no-color"))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// mustRun fails the test when args fail.
func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, stderr, err := c.run(args...)
	require.NoError(c.t, err, "stderr: %s", stderr)
	return out
}

func (c *cli) login() {
	c.t.Helper()
	c.mustRun("auth", "login", "--email", testutil.AdminEmail, "--password", testutil.AdminPassword)
}

// resetFlags restores every flag to its default. Flag values live in
// package variables and would otherwise leak between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
