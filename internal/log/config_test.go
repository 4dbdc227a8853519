package log

import (
	"log/slog"
	"os"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{" Info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelWarn},
		{"", LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelToSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
	}

	for _, tt := range tests {
		if got := tt.level.ToSlogLevel(); got != tt.want {
			t.Errorf("%v.ToSlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON || ParseFormat("JSON") != FormatJSON {
		t.Error("json should parse to FormatJSON")
	}
	if ParseFormat("text") != FormatText || ParseFormat("console") != FormatText {
		t.Error("anything else should parse to FormatText")
	}
	if FormatJSON.String() != "json" || FormatText.String() != "text" {
		t.Error("format String() mismatch")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelWarn {
		t.Errorf("DefaultConfig.Level = %v, want WARN", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("DefaultConfig.Format = %v, want text", cfg.Format)
	}
	if cfg.Output.Writer() != os.Stderr {
		t.Error("DefaultConfig should write to stderr")
	}
	if cfg.ServiceName != "placesadmin" {
		t.Errorf("DefaultConfig.ServiceName = %q", cfg.ServiceName)
	}
}

func TestDevelopmentConfig(t *testing.T) {
	cfg := DevelopmentConfig()
	if cfg.Level != LevelDebug || !cfg.AddSource {
		t.Errorf("DevelopmentConfig = %+v", cfg)
	}
}

func TestZeroOutputFallsBackToStderr(t *testing.T) {
	var out Output
	if out.Writer() != os.Stderr {
		t.Error("zero Output should write to stderr")
	}
	if err := out.Close(); err != nil {
		t.Errorf("zero Output Close() = %v", err)
	}
}
