// Package observability provides the structured logging setup shared by the
// server and CLI binaries.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crumbworks/teamsmith/internal/config"
)

// NewLogger builds the application logger from cfg. JSON output is
// production-shaped with sampling disabled; optimizer traffic is low volume
// and every request line matters. Console output is for local development.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.Sampling = nil
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// RequestLogger annotates base with the request ID so every line a request
// produces can be correlated.
func RequestLogger(base *zap.Logger, requestID string) *zap.Logger {
	return base.With(zap.String("request_id", requestID))
}
