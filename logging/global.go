// Package logging configures slog for the service: console output, a rotating JSON file,
// and package-level helpers usable before initialization.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/giygas/medisync-api/config"
)

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger with info level console output.
// An empty logDir disables the file sink, which is what tests use.
func InitLogger(logDir string) {
	setDefault(newService(logDir, slog.LevelInfo, 4, 0))
}

// InitLoggerWithConfig initializes the global logger from the service configuration.
// The returned closer flushes and closes the rotating file.
func InitLoggerWithConfig(cfg *config.Config) io.Closer {
	level := GetConsoleLogLevel(cfg.Env, cfg.LogLevel, os.Getenv("VERBOSE") != "")
	svc := newService(cfg.LogDir, level, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	setDefault(svc)
	return svc
}

// Close releases the rotating file if one is open.
func (s *LoggingService) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

func setDefault(svc *LoggingService) {
	DefaultLoggingService = svc
	slog.SetDefault(svc.Logger)
}

func newService(logDir string, consoleLevel slog.Level, retentionWeeks int, maxFileSize int64) *LoggingService {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: consoleLevel})
	if logDir == "" {
		return &LoggingService{Logger: slog.New(console)}
	}

	file, err := OpenRotatingLogger(logDir, retentionWeeks, maxFileSize)
	if err != nil {
		logger := slog.New(console)
		logger.Error("Failed to initialize rotating logger, logging to console only", "error", err)
		return &LoggingService{Logger: logger}
	}

	// The file always keeps info and above regardless of the console level
	fileLevel := min(consoleLevel, slog.LevelInfo)
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: fileLevel})

	return &LoggingService{
		Logger: slog.New(&multiHandler{handlers: []slog.Handler{console, fileHandler}}),
		file:   file,
	}
}

// current returns the initialized logger or a stderr fallback at the given level.
func current(level slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return DefaultLoggingService.Logger
}

// Logger returns the initialized logger, or a stderr logger at info level before initialization.
func Logger() *slog.Logger {
	return current(slog.LevelInfo)
}

func Info(msg string, args ...any) {
	current(slog.LevelInfo).Info(msg, args...)
}

func Warn(msg string, args ...any) {
	current(slog.LevelWarn).Warn(msg, args...)
}

func Error(msg string, args ...any) {
	current(slog.LevelError).Error(msg, args...)
}

func Debug(msg string, args ...any) {
	current(slog.LevelDebug).Debug(msg, args...)
}
