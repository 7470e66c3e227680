package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"starwars-gateway/internal/config"
)

// newLogger builds a JSON production logger, or a console logger in development mode
func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
