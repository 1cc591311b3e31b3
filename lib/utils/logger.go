package utils

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogger builds the process logger. Unknown levels fall back to INFO.
func SetupLogger(level string) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	if IsDevModeEnabled() {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(ParseLogLevel(level))
	logger := zap.Must(config.Build())
	return logger.Sugar()
}

func ParseLogLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}
