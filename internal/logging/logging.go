// Package logging builds the process logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to stderr. level is one of debug, info, warn
// or error; format is json or console.
func New(level, format string) (*zap.Logger, error) {
	zc, err := newConfig(level, format)
	if err != nil {
		return nil, err
	}
	return zc.Build()
}

func newConfig(level, format string) (zap.Config, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("log level: %w", err)
	}

	var encodeLevel zapcore.LevelEncoder
	switch format {
	case "json":
		encodeLevel = zapcore.LowercaseLevelEncoder
	case "console":
		encodeLevel = zapcore.CapitalLevelEncoder
	default:
		return zap.Config{}, fmt.Errorf("log format %q: expected json or console", format)
	}

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		DisableCaller:     true,
		DisableStacktrace: lvl > zapcore.DebugLevel,
		Encoding:          format,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "message",
			LevelKey:       "level",
			TimeKey:        "time",
			NameKey:        "name",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    encodeLevel,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}, nil
}
