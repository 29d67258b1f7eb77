package logger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. JSON output is forced in production so
// log shipping never sees the colored console encoding.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// ParseLevel maps a configured level name to a zap level, falling back to info
func ParseLevel(name string) zapcore.Level {
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// WithRequest adds request context to logger
func WithRequest(log *zap.Logger, method, path, requestID string) *zap.Logger {
	return log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}

// WithModule scopes a logger to one project module
func WithModule(log *zap.Logger, moduleID uuid.UUID) *zap.Logger {
	return log.With(zap.String("module_id", moduleID.String()))
}

// WithEstimate scopes a logger to one labor estimate view of a module
func WithEstimate(log *zap.Logger, moduleID uuid.UUID, kind string) *zap.Logger {
	return log.With(
		zap.String("module_id", moduleID.String()),
		zap.String("kind", kind),
	)
}
