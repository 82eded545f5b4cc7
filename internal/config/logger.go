package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MustCreateLogger builds the root logger for the configured run mode.
func MustCreateLogger(conf Config) *zap.Logger {
	var loggingConfig zap.Config

	switch conf.RunMode {
	case ModeProd:
		loggingConfig = zap.NewProductionConfig()
		loggingConfig.DisableCaller = true
	case ModeDebug:
		loggingConfig = zap.NewDevelopmentConfig()
		loggingConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case ModeTest:
		return zap.NewNop()
	default:
		panic(fmt.Sprintf("Unknown run mode: %s", conf.RunMode))
	}

	level, errLevel := zap.ParseAtomicLevel(conf.LogLevel)
	if errLevel != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", errLevel))
	}

	loggingConfig.Level.SetLevel(level.Level())

	l, errLogger := loggingConfig.Build()
	if errLogger != nil {
		panic("Failed to create log config")
	}

	return l.Named("mtlist")
}
