package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/session"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the staff session",
	Long: `Log in, log out and inspect the staff session.

The session (token and user) is stored in ~/.placesadmin/session.json. Set
PLACESADMIN_SESSION_PASSPHRASE to keep it encrypted at rest.

Subcommands:
  login   Log in with email and password
  logout  End the session
  status  Show who is logged in`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Log in to the backend with staff credentials.

Missing credentials are prompted for when running in a terminal. In scripts
pass --email and either --password or --password-stdin.

Examples:
  placesadmin auth login
  placesadmin auth login --email admin@tecsup.edu.pe
  echo "$PASSWORD" | placesadmin auth login --email admin@tecsup.edu.pe --password-stdin`,
	Args: cobra.NoArgs,
	RunE: withEnv(runAuthLogin),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	Long: `Log out of the backend and remove the local session.

The local session is removed even when the backend cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: withEnv(runAuthLogout),
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	Long: `Show the stored session. With --verify the backend is asked for the
current profile; a rejected token ends the session.`,
	Args: cobra.NoArgs,
	RunE: withEnv(runAuthStatus),
}

var (
	loginEmail         string
	loginPassword      string
	loginPasswordStdin bool
	statusVerify       bool
)

func init() {
	authLoginCmd.Flags().StringVar(&loginEmail, "email", "", "staff email")
	authLoginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prefer --password-stdin)")
	authLoginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")
	authStatusCmd.Flags().BoolVar(&statusVerify, "verify", false, "check the token with the backend")

	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCredentials(cmd *cobra.Command) (platform.Credentials, error) {
	creds := platform.Credentials{Email: strings.TrimSpace(loginEmail), Password: loginPassword}
	if loginPasswordStdin {
		pw, err := readPassword(cmd.InOrStdin())
		if err != nil {
			return creds, err
		}
		creds.Password = pw
	}
	if creds.Email != "" && creds.Password != "" {
		return creds, nil
	}
	if !interactive() {
		if creds.Email == "" {
			return creds, perrors.NewRequiredFieldError("email").WithSuggestion("Pass --email")
		}
		return creds, perrors.NewRequiredFieldError("password").WithSuggestion("Pass --password-stdin")
	}
	return promptLogin(creds.Email)
}

func runAuthLogin(ctx context.Context, env *environment, cmd *cobra.Command, _ []string) error {
	creds, err := loginCredentials(cmd)
	if err != nil {
		return err
	}
	if err := ux.ValidateEmail(creds.Email); err != nil {
		return perrors.New(perrors.ErrCodeValidationInvalid, err.Error())
	}

	env.session.Init(ctx)
	if _, err := env.session.Login(ctx, creds); err != nil {
		if platform.IsUnauthorized(err) {
			return perrors.NewInvalidCredentialsError(err)
		}
		return err
	}
	return env.print(env.status())
}

func runAuthLogout(ctx context.Context, env *environment, cmd *cobra.Command, _ []string) error {
	if s := env.session.Init(ctx); !s.IsAuthenticated() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Not logged in.")
	}
	if err := env.session.Logout(ctx); err != nil {
		return err
	}
	return env.print(env.status())
}

func runAuthStatus(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	s := env.session.Init(ctx)
	if statusVerify && s.IsAuthenticated() {
		if _, err := env.session.Profile(ctx); err != nil {
			return err
		}
	}
	return env.print(env.status())
}

// status describes the current session.
func (e *environment) status() ux.SessionStatus {
	s := e.session.Snapshot()
	st := ux.SessionStatus{
		Authenticated: s.IsAuthenticated(),
		User:          s.User,
		Backend:       e.baseURL,
	}
	if exp, ok := session.ExpiresAt(s.Token); ok {
		st.ExpiresAt = &exp
	}
	return st
}
