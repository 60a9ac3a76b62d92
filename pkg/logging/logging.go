package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Format "json" selects the production encoder, anything else the
// human-readable development encoder.
func New(levelStr, format string) (logger *zap.Logger, err error) {
	var level zapcore.Level
	level, err = ParseLevel(levelStr)
	if err != nil {
		return logger, err
	}

	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err = cfg.Build()
	if err != nil {
		err = errors.Wrap(err, "failed to build logger")
		return logger, err
	}

	return logger, err
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(levelStr string) (level zapcore.Level, err error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "", "info":
		level = zapcore.InfoLevel
	case "debug":
		level = zapcore.DebugLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		err = errors.Errorf("unknown log level: %s", levelStr)
	}
	return level, err
}

// OrNop returns logger, or a no-op logger when logger is nil.
func OrNop(logger *zap.Logger) (result *zap.Logger) {
	result = logger
	if result == nil {
		result = zap.NewNop()
	}
	return result
}
