package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, cfg.RequestTimeout())
	assert.Equal(t, DefaultPageSize, cfg.PageSize())
	assert.Equal(t, "/users/google", cfg.Endpoints.Users.Google)
	assert.Equal(t, "/users/google/stats", cfg.Endpoints.Users.GoogleStats)
	assert.Equal(t, "/users", cfg.Endpoints.Users.All)
	assert.Equal(t, "text", cfg.Defaults.Format)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api_url: http://example.test/api
timeout: 5s
endpoints:
  users:
    google: /google-users
defaults:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/api", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "/google-users", cfg.Endpoints.Users.Google)
	assert.Equal(t, "/users/google/stats", cfg.Endpoints.Users.GoogleStats, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Defaults.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    perrors.ErrorCode
	}{
		{"bad yaml", "api_url: [unclosed", perrors.ErrCodeFileUnmarshal},
		{"bad format", "defaults:\n  format: xml\n", perrors.ErrCodeConfigInvalid},
		{"bad environment", "environment: staging\n", perrors.ErrCodeConfigInvalid},
		{"negative rate", "rate_limit: -1\n", perrors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)

			var coded *perrors.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, tt.code, coded.Code)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.APIURL = "http://localhost:4000/api"
	cfg.RateLimit = 2.5
	cfg.StrictContract = true
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("api_url", "http://x.test"))
	v, err := cfg.Get("api_url")
	require.NoError(t, err)
	assert.Equal(t, "http://x.test", v)

	require.NoError(t, cfg.Set("timeout", "45s"))
	v, _ = cfg.Get("timeout")
	assert.Equal(t, "45s", v)

	require.NoError(t, cfg.Set("strict_contract", "true"))
	assert.True(t, cfg.StrictContract)

	require.NoError(t, cfg.Set("defaults.page_size", "50"))
	assert.Equal(t, 50, cfg.PageSize())

	require.NoError(t, cfg.Set("endpoints.users.google", "/v2/google-users"))
	assert.Equal(t, "/v2/google-users", cfg.Endpoints.Users.Google)
}

func TestSetInvalidLeavesConfigUnchanged(t *testing.T) {
	cfg := Default()

	err := cfg.Set("defaults.format", "xml")
	require.Error(t, err)
	assert.Equal(t, "text", cfg.Defaults.Format)

	err = cfg.Set("timeout", "soon")
	require.Error(t, err)
	assert.Equal(t, DefaultTimeout, cfg.RequestTimeout())

	err = cfg.Set("strict_contract", "maybe")
	require.Error(t, err)
}

func TestUnknownKey(t *testing.T) {
	cfg := Default()

	_, err := cfg.Get("providers.default")
	var coded *perrors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, perrors.ErrCodeConfigKey, coded.Code)

	require.Error(t, cfg.Set("nope", "1"))
}

func TestKeysSortedAndGettable(t *testing.T) {
	cfg := Default()
	ks := Keys()
	require.NotEmpty(t, ks)
	assert.IsIncreasing(t, ks)
	for _, k := range ks {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".placesadmin"), ExpandHome("~/.placesadmin"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "rel", ExpandHome("rel"))
}
