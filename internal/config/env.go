package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL      = "PLACESADMIN_API_URL"
	EnvEnvironment = "PLACESADMIN_ENV"

	EnvDevelopment = "development"
	EnvProduction  = "production"

	DevelopmentURL = "http://localhost:3000/api"
	ProductionURL  = "https://backend-tecsupnav-fxg2.onrender.com"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Missing files are skipped; variables that
// are already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ResolveBaseURL picks the backend base URL: explicit override, then
// PLACESADMIN_API_URL, then the config file's api_url, then the
// environment default, then the production fallback. A trailing slash is
// trimmed so endpoints can be appended directly.
func ResolveBaseURL(override string, cfg *Config, getenv func(string) string) string {
	candidates := []string{override, getenv(EnvAPIURL)}
	if cfg != nil {
		candidates = append(candidates, cfg.APIURL)
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return strings.TrimRight(c, "/")
		}
	}

	env := getenv(EnvEnvironment)
	if env == "" && cfg != nil {
		env = cfg.Environment
	}
	if strings.EqualFold(env, EnvDevelopment) {
		return DevelopmentURL
	}
	return ProductionURL
}
