package utils

import (
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// InitializeLogger builds the process logger and installs it as zap's global.
// Production uses JSON output at the configured level; anything else gets the
// colourised development encoder.
func InitializeLogger(production bool, level string) *zap.Logger {
	loggerOnce.Do(func() {
		var cfg zap.Config
		if production {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		lvl := zapcore.InfoLevel
		if !production {
			lvl = zapcore.DebugLevel
		}
		if level != "" {
			_ = lvl.UnmarshalText([]byte(level))
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)

		var err error
		logger, err = cfg.Build()
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		zap.ReplaceGlobals(logger)
	})
	return logger
}

// GetLogger retrieves the global logger, building a development logger on
// first use. It goes through the Once so concurrent callers never read a
// half-initialised logger.
func GetLogger() *zap.Logger {
	return InitializeLogger(false, "")
}
