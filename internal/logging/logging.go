// internal/logging/logging.go
// Package logging builds the zap loggers used across the application.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// option adjusts the zap configuration before the logger is built.
type option func(*zap.Config)

// withOutputPaths redirects log output (default: stderr).
func withOutputPaths(paths ...string) option {
	return func(cfg *zap.Config) {
		cfg.OutputPaths = paths
	}
}

// withLevel overrides the minimum enabled level.
func withLevel(level zapcore.Level) option {
	return func(cfg *zap.Config) {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
}

// New builds a logger. Production mode writes JSON at info level; debug mode
// switches to the console encoder at debug level. Stdout carries reports, so
// logs always go to stderr unless overridden.
func New(debug bool, options ...option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	for _, apply := range options {
		apply(&cfg)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Install builds a logger and makes it the process-wide zap logger so the
// panic handler can reach it. The returned function restores the previous
// global logger.
func Install(debug bool, options ...option) (*zap.Logger, func(), error) {
	logger, err := New(debug, options...)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return logger, restore, nil
}
