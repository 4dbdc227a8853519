// Package config loads the placesadmin configuration file and resolves the
// backend base URL.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tecsupnav/placesadmin/internal/errors"
)

const (
	// DirName is the per-user state directory under $HOME.
	DirName = ".placesadmin"
	// FileName is the configuration file inside DirName.
	FileName = "config.yaml"

	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 20
)

// Config is the on-disk configuration.
type Config struct {
	APIURL         string          `yaml:"api_url,omitempty"`
	Environment    string          `yaml:"environment,omitempty"` // "development" or "production"
	Timeout        time.Duration   `yaml:"timeout,omitempty"`
	RateLimit      float64         `yaml:"rate_limit,omitempty"` // requests per second, 0 disables
	StrictContract bool            `yaml:"strict_contract,omitempty"`
	Endpoints      EndpointsConfig `yaml:"endpoints,omitempty"`
	Session        SessionConfig   `yaml:"session,omitempty"`
	Defaults       CommandDefaults `yaml:"defaults,omitempty"`
	Logging        LoggingConfig   `yaml:"logging,omitempty"`
	Metrics        MetricsConfig   `yaml:"metrics,omitempty"`
}

type EndpointsConfig struct {
	Users UserEndpoints `yaml:"users,omitempty"`
}

// UserEndpoints locates the user roster on the backend. The backend has
// exposed these under different paths over time.
type UserEndpoints struct {
	Google      string `yaml:"google,omitempty"`
	GoogleStats string `yaml:"google_stats,omitempty"`
	All         string `yaml:"all,omitempty"`
}

type SessionConfig struct {
	Dir string `yaml:"dir,omitempty"`
	// PassphraseEnv names an environment variable; when it is set the
	// session file is encrypted with its value.
	PassphraseEnv string `yaml:"passphrase_env,omitempty"`
}

type CommandDefaults struct {
	Format   string `yaml:"format,omitempty"` // "text", "json", "yaml"
	PageSize int    `yaml:"page_size,omitempty"`
	NoColor  bool   `yaml:"no_color,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format,omitempty"` // "text", "json"
	Dir    string `yaml:"dir,omitempty"`    // dashboard log directory
}

type MetricsConfig struct {
	// Textfile, when set, receives client request metrics in Prometheus
	// text format after every command.
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: EnvProduction,
		Timeout:     DefaultTimeout,
		Endpoints: EndpointsConfig{
			Users: UserEndpoints{
				Google:      "/users/google",
				GoogleStats: "/users/google/stats",
				All:         "/users",
			},
		},
		Session: SessionConfig{
			Dir:           "~/" + DirName,
			PassphraseEnv: "PLACESADMIN_SESSION_PASSPHRASE",
		},
		Defaults: CommandDefaults{
			Format:   "text",
			PageSize: DefaultPageSize,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Dir:    "~/" + DirName + "/logs",
		},
	}
}

// DefaultPath returns ~/.placesadmin/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName, FileName), nil
}

// Load reads the configuration at path. A missing file yields the defaults.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read config", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write config", err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Defaults.Format {
	case "", "text", "json", "yaml":
	default:
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("defaults.format must be text, json or yaml, got %q", c.Defaults.Format))
	}
	if c.Timeout < 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "timeout must not be negative")
	}
	if c.RateLimit < 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "rate_limit must not be negative")
	}
	if c.Defaults.PageSize < 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "defaults.page_size must not be negative")
	}
	switch c.Environment {
	case "", EnvDevelopment, EnvProduction:
	default:
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("environment must be %s or %s, got %q", EnvDevelopment, EnvProduction, c.Environment))
	}
	return nil
}

// RequestTimeout returns the HTTP timeout, falling back to the default.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// PageSize returns the list page size, falling back to the default.
func (c *Config) PageSize() int {
	if c.Defaults.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.Defaults.PageSize
}

// SessionDir returns the expanded session directory.
func (c *Config) SessionDir() string {
	if c.Session.Dir == "" {
		return ExpandHome("~/" + DirName)
	}
	return ExpandHome(c.Session.Dir)
}

// LogDir returns the expanded dashboard log directory.
func (c *Config) LogDir() string {
	if c.Logging.Dir == "" {
		return ExpandHome("~/" + DirName + "/logs")
	}
	return ExpandHome(c.Logging.Dir)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
