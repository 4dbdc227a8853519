package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tecsupnav/placesadmin/internal/config"
	"github.com/tecsupnav/placesadmin/internal/contract"
	perrors "github.com/tecsupnav/placesadmin/internal/errors"
	"github.com/tecsupnav/placesadmin/internal/log"
	"github.com/tecsupnav/placesadmin/internal/metrics"
	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/session"
	"github.com/tecsupnav/placesadmin/internal/storage"
	"github.com/tecsupnav/placesadmin/internal/ux"
	"github.com/tecsupnav/placesadmin/internal/version"
)

// SessionFileName is the session file inside the session directory.
const SessionFileName = "session.json"

// Hooks replaced in tests.
var (
	interactive = ux.IsInteractive
	confirm     = ux.Confirm
	promptLogin = ux.PromptCredentials
	promptText  = ux.PromptString
)

// CommandContext holds the global flags of one invocation.
type CommandContext struct {
	APIURL     string
	ConfigPath string
	Format     string
	LogLevel   string
	LogFormat  string
	NoColor    bool
}

// NewCommandContext extracts the persistent flags from cmd.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()
	cc := &CommandContext{}
	var err error
	if cc.APIURL, err = flags.GetString("api-url"); err != nil {
		return nil, err
	}
	if cc.ConfigPath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cc.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cc.LogLevel, err = flags.GetString("log-level"); err != nil {
		return nil, err
	}
	if cc.LogFormat, err = flags.GetString("log-format"); err != nil {
		return nil, err
	}
	if cc.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	return cc, nil
}

// environment is everything a command needs, built from flags and the
// config file.
type environment struct {
	cc       *CommandContext
	cfg      *config.Config
	cfgPath  string
	baseURL  string
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	storage  *storage.FileStore
	client   *platform.Client
	session  *session.Store
	out      io.Writer
	theme    ux.Theme
	format   ux.Formatter
}

func newEnvironment(cmd *cobra.Command) (*environment, error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}
	if err := config.LoadDotEnv(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeConfigInvalid, "failed to load .env", err)
	}

	cfgPath := cc.ConfigPath
	if cfgPath == "" {
		if cfgPath, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	env := &environment{
		cc:      cc,
		cfg:     cfg,
		cfgPath: cfgPath,
		baseURL: config.ResolveBaseURL(cc.APIURL, cfg, os.Getenv),
		out:     cmd.OutOrStdout(),
	}
	env.logger = newLogger(cc, cfg, log.NewOutput(cmd.ErrOrStderr()))
	env.registry, env.metrics = metrics.NewRegistry()

	noColor := cc.NoColor || cfg.Defaults.NoColor || os.Getenv("NO_COLOR") != ""
	format := cc.Format
	if format == "" {
		format = cfg.Defaults.Format
	}
	env.theme = ux.NewTheme(noColor)
	if env.format, err = ux.NewFormatter(format, &ux.FormatterOptions{Writer: env.out, NoColor: noColor}); err != nil {
		return nil, perrors.New(perrors.ErrCodeValidationInvalid, err.Error()).
			WithSuggestion("Use --format text, json or yaml")
	}

	env.storage = storage.NewFileStore(
		filepath.Join(cfg.SessionDir(), SessionFileName),
		storage.WithPassphrase(os.Getenv(cfg.Session.PassphraseEnv)),
	)

	if err := env.connect(env.logger); err != nil {
		return nil, err
	}
	return env, nil
}

// connect builds the backend client and the session store around logger.
// It runs again when a command swaps the logger.
func (e *environment) connect(logger *log.Logger, opts ...session.Option) error {
	cfg := e.cfg
	clientOpts := []platform.Option{
		platform.WithTokenSource(platform.StoredToken(e.storage)),
		platform.WithTimeout(cfg.RequestTimeout()),
		platform.WithRateLimit(cfg.RateLimit),
		platform.WithLogger(logger),
		platform.WithObserver(e.metrics),
		platform.WithUserAgent(version.GetInfo().UserAgent()),
		platform.WithUserEndpoints(platform.UserEndpoints{
			Google:      cfg.Endpoints.Users.Google,
			GoogleStats: cfg.Endpoints.Users.GoogleStats,
			All:         cfg.Endpoints.Users.All,
		}),
	}
	if cfg.StrictContract {
		v, err := contract.New(e.baseURL)
		if err != nil {
			return err
		}
		clientOpts = append(clientOpts, platform.WithValidator(v))
	}
	e.client = platform.NewClient(e.baseURL, clientOpts...)
	e.session = session.New(e.storage, e.client, append([]session.Option{session.WithLogger(logger)}, opts...)...)
	return nil
}

// requireLogin restores the session and fails when nobody is logged in.
func (e *environment) requireLogin(ctx context.Context) error {
	if s := e.session.Init(ctx); !s.IsAuthenticated() {
		return perrors.NewNotLoggedInError()
	}
	return nil
}

func (e *environment) print(v any) error {
	return e.format.Format(v)
}

// finish records the command outcome and flushes metrics.
func (e *environment) finish(cmd *cobra.Command, err error, elapsed time.Duration) {
	e.metrics.ObserveCommand(cmd.CommandPath(), err, elapsed)
	if err != nil {
		e.logger.WithError(err).Debug("command failed", "command", cmd.CommandPath())
	}
	if path := config.ExpandHome(e.cfg.Metrics.Textfile); path != "" {
		if werr := metrics.WriteTextfile(path, e.registry); werr != nil {
			e.logger.WithError(werr).Warn("failed to write metrics textfile", "path", path)
		}
	}
	e.session.Close()
	_ = e.logger.Close()
}

// runFunc is a command body with its environment ready.
type runFunc func(ctx context.Context, env *environment, cmd *cobra.Command, args []string) error

// withEnv builds the environment, runs fn and maps the result to the coded
// errors the CLI reports.
func withEnv(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		env, err := newEnvironment(cmd)
		if err != nil {
			return ux.EnhanceError(err)
		}
		err = ux.EnhanceError(fn(cmd.Context(), env, cmd, args))
		env.finish(cmd, err, time.Since(start))
		return err
	}
}
