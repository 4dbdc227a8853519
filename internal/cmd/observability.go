package cmd

import (
	"os"
	"path/filepath"

	"github.com/tecsupnav/placesadmin/internal/config"
	"github.com/tecsupnav/placesadmin/internal/log"
	"github.com/tecsupnav/placesadmin/internal/version"
)

// DashboardLogFile is the dashboard log inside the log directory.
const DashboardLogFile = "dashboard.log"

func logLevel(cc *CommandContext, cfg *config.Config) string {
	if cc.LogLevel != "" {
		return cc.LogLevel
	}
	if lvl := os.Getenv("PLACESADMIN_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	if cfg.Logging.Level != "" {
		return cfg.Logging.Level
	}
	return "warn"
}

func logFormat(cc *CommandContext, cfg *config.Config) string {
	if cc.LogFormat != "" {
		return cc.LogFormat
	}
	return cfg.Logging.Format
}

func newLogger(cc *CommandContext, cfg *config.Config, out log.Output) *log.Logger {
	logger := log.New(log.Config{
		Level:          log.ParseLevel(logLevel(cc, cfg)),
		Format:         log.ParseFormat(logFormat(cc, cfg)),
		Output:         out,
		ServiceName:    "placesadmin",
		ServiceVersion: version.GetInfo().Version,
	})
	log.SetDefaultLogger(logger)
	return logger
}

// dashboardLogger writes to a file so the terminal UI stays intact. The
// caller closes it.
func dashboardLogger(cc *CommandContext, cfg *config.Config) (*log.Logger, string, error) {
	path := filepath.Join(cfg.LogDir(), DashboardLogFile)
	out, err := log.OutputFile(path)
	if err != nil {
		return nil, "", err
	}
	return newLogger(cc, cfg, out), path, nil
}
