package logger

import (
	"billing-checkout/internal/config"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger from the LOG_LEVEL / LOG_FORMAT settings.
func New(cfg config.Log, env config.Environment) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if env.Name == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "json":
		zapCfg.Encoding = "json"
	case "console":
		zapCfg.Encoding = "console"
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	return zapCfg.Build()
}
