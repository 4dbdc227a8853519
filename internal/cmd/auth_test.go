package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tecsupnav/placesadmin/internal/exitcode"
	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/testutil"
)

func TestAuthLoginStatusLogout(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("auth", "login", "--email", testutil.AdminEmail, "--password", testutil.AdminPassword)
	assert.Contains(t, out, "Logged in")
	assert.Contains(t, out, testutil.AdminEmail)
	assert.FileExists(t, c.home+"/.placesadmin/session.json")

	out = c.mustRun("auth", "status", "-o", "json")
	assert.True(t, gjson.Get(out, "authenticated").Bool())
	assert.Equal(t, testutil.AdminEmail, gjson.Get(out, "user.email").String())
	assert.Equal(t, c.backend.URL, gjson.Get(out, "backend").String())
	assert.True(t, gjson.Get(out, "expiresAt").Exists(), "JWT expiry should be reported")

	out = c.mustRun("auth", "logout")
	assert.Contains(t, out, "Not logged in")
	_, ok := c.backend.LastRequest("POST", "/auth/logout")
	assert.True(t, ok, "backend should be told about the logout")

	out = c.mustRun("auth", "status")
	assert.Contains(t, out, "Not logged in")
}

func TestAuthLoginPasswordStdin(t *testing.T) {
	c := newCLI(t)
	c.stdin = testutil.AdminPassword + "\n"

	out := c.mustRun("auth", "login", "--email", testutil.AdminEmail, "--password-stdin")
	assert.Contains(t, out, "Logged in")
}

func TestAuthLoginRejected(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run("auth", "login", "--email", testutil.AdminEmail, "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Credenciales inválidas")
	assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))

	out := c.mustRun("auth", "status")
	assert.Contains(t, out, "Not logged in")
}

func TestAuthLoginMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no email", args: []string{"--password", "x"}, want: "email is required"},
		{name: "no password", args: []string{"--email", testutil.AdminEmail}, want: "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			_, _, err := c.run(append([]string{"auth", "login"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, exitcode.UsageError, exitcode.DetermineExitCode(err))
			assert.Empty(t, c.backend.Requests(), "nothing should be sent")
		})
	}
}

func TestAuthLoginPromptsInTerminal(t *testing.T) {
	c := newCLI(t)
	stubPrompts(t, true)
	var prompted string
	promptLogin = func(email string) (platform.Credentials, error) {
		prompted = email
		return platform.Credentials{Email: email, Password: testutil.AdminPassword}, nil
	}

	out := c.mustRun("auth", "login", "--email", testutil.AdminEmail)
	assert.Equal(t, testutil.AdminEmail, prompted)
	assert.Contains(t, out, "Logged in")
}

func TestAuthStatusVerifyRevoked(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.backend.Fail("GET", "/auth/profile", 401, `{"message":"Unauthorized","statusCode":401}`)

	_, _, err := c.run("auth", "status", "--verify")
	require.Error(t, err)
	assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))

	c.backend.ClearFailures()
	out := c.mustRun("auth", "status")
	assert.Contains(t, out, "Not logged in", "a revoked token ends the session")
}

func TestCommandsRequireLogin(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{
		{"places", "list"},
		{"place-types", "list"},
		{"users", "list"},
		{"places", "stats"},
	} {
		_, _, err := c.run(args...)
		require.Error(t, err, "%v", args)
		assert.Contains(t, err.Error(), "not logged in")
		assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))
	}
	assert.Empty(t, c.backend.Requests())
}

func TestBackendUnreachable(t *testing.T) {
	c := newCLI(t)
	c.apiURL = "http://127.0.0.1:1"

	_, _, err := c.run("auth", "login", "--email", testutil.AdminEmail, "--password", testutil.AdminPassword)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reach backend")
	assert.Equal(t, exitcode.NetworkError, exitcode.DetermineExitCode(err))
}
