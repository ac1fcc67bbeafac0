package logging

import (
	"log/slog"
	"testing"

	"github.com/giygas/medisync-api/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" Error ", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetConsoleLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		env      config.Environment
		logLevel string
		verbose  bool
		expected slog.Level
	}{
		{"dev default", config.EnvDevelopment, "", false, slog.LevelInfo},
		{"dev override", config.EnvDevelopment, "debug", false, slog.LevelDebug},
		{"staging default", config.EnvStaging, "", false, slog.LevelWarn},
		{"prod default", config.EnvProduction, "", false, slog.LevelWarn},
		{"prod override", config.EnvProduction, "error", false, slog.LevelError},
		{"test quiet", config.EnvTest, "", false, slog.LevelError},
		{"test ignores override", config.EnvTest, "debug", false, slog.LevelError},
		{"test verbose", config.EnvTest, "", true, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetConsoleLogLevel(tt.env, tt.logLevel, tt.verbose)
			if got != tt.expected {
				t.Errorf("GetConsoleLogLevel(%s, %q, %v) = %v, want %v",
					tt.env, tt.logLevel, tt.verbose, got, tt.expected)
			}
		})
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	saved := DefaultLoggingService
	DefaultLoggingService = nil
	defer func() { DefaultLoggingService = saved }()

	// Must not panic without an initialized service
	Info("info before init")
	Warn("warn before init")
	Error("error before init")
	Debug("debug before init")
}

func TestInitLoggerWithConfig(t *testing.T) {
	saved := DefaultLoggingService
	defer func() { DefaultLoggingService = saved }()

	cfg := &config.Config{
		Env:               config.EnvTest,
		LogDir:            t.TempDir(),
		LogRetentionWeeks: 2,
		MaxLogFileSize:    1024 * 1024,
	}

	closer := InitLoggerWithConfig(cfg)
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		t.Fatal("expected global logging service to be initialized")
	}
	if DefaultLoggingService.file == nil {
		t.Error("expected rotating file to be opened")
	}

	Info("written to file")

	if err := closer.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}
