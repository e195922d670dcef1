package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Constants for logging levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Environments the service may run in
// Production logs JSON, development logs human readable text
const (
	EnvProduction  = "prod"
	EnvDevelopment = "dev"
)

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// New creates a logger appropriate for the environment
func New(environment string, level string) (Logger, error) {
	opts := &slog.HandlerOptions{
		Level:       parseLevelString(level),
		AddSource:   true,
		ReplaceAttr: trimSourcePath,
	}

	switch environment {
	case EnvProduction:
		return &slogLogger{logger: slog.New(slog.NewJSONHandler(os.Stdout, opts))}, nil
	case EnvDevelopment:
		return &slogLogger{logger: slog.New(slog.NewTextHandler(os.Stdout, opts))}, nil
	default:
		return nil, fmt.Errorf("unknown environment %q", environment)
	}
}

// NewNoOpLogger creates a logger that discards all log messages
func NewNoOpLogger() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}
