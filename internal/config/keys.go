package config

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/tecsupnav/placesadmin/internal/errors"
)

type accessor struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringKey(field func(*Config) *string) accessor {
	return accessor{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func boolKey(field func(*Config) *bool) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false: %w", err)
			}
			*field(c) = b
			return nil
		},
	}
}

var keys = map[string]accessor{
	"api_url":     stringKey(func(c *Config) *string { return &c.APIURL }),
	"environment": stringKey(func(c *Config) *string { return &c.Environment }),
	"timeout": {
		get: func(c *Config) string { return c.RequestTimeout().String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("expected a duration such as 30s: %w", err)
			}
			c.Timeout = d
			return nil
		},
	},
	"rate_limit": {
		get: func(c *Config) string { return strconv.FormatFloat(c.RateLimit, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("expected requests per second: %w", err)
			}
			c.RateLimit = f
			return nil
		},
	},
	"strict_contract":              boolKey(func(c *Config) *bool { return &c.StrictContract }),
	"endpoints.users.google":       stringKey(func(c *Config) *string { return &c.Endpoints.Users.Google }),
	"endpoints.users.google_stats": stringKey(func(c *Config) *string { return &c.Endpoints.Users.GoogleStats }),
	"endpoints.users.all":          stringKey(func(c *Config) *string { return &c.Endpoints.Users.All }),
	"session.dir":                  stringKey(func(c *Config) *string { return &c.Session.Dir }),
	"session.passphrase_env":       stringKey(func(c *Config) *string { return &c.Session.PassphraseEnv }),
	"defaults.format":              stringKey(func(c *Config) *string { return &c.Defaults.Format }),
	"defaults.page_size": {
		get: func(c *Config) string { return strconv.Itoa(c.PageSize()) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer: %w", err)
			}
			c.Defaults.PageSize = n
			return nil
		},
	},
	"defaults.no_color": boolKey(func(c *Config) *bool { return &c.Defaults.NoColor }),
	"logging.level":     stringKey(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":    stringKey(func(c *Config) *string { return &c.Logging.Format }),
	"logging.dir":       stringKey(func(c *Config) *string { return &c.Logging.Dir }),
	"metrics.textfile":  stringKey(func(c *Config) *string { return &c.Metrics.Textfile }),
}

// Keys lists every dot-notation key accepted by Get and Set, sorted.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns the value of a dot-notation key.
func (c *Config) Get(key string) (string, error) {
	a, ok := keys[key]
	if !ok {
		return "", errors.NewConfigKeyError(key)
	}
	return a.get(c), nil
}

// Set assigns a dot-notation key and validates the result. On error the
// config is left unchanged.
func (c *Config) Set(key, value string) error {
	a, ok := keys[key]
	if !ok {
		return errors.NewConfigKeyError(key)
	}

	next := *c
	if err := a.set(&next, value); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid value for %s", key), err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
