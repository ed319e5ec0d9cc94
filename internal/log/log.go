package log

import (
	"go.uber.org/zap"
)

var defaultLogger = zap.NewNop()

func Get() *zap.Logger {
	return defaultLogger
}

// Set builds the process logger. Without a path the logger writes to stderr.
// Non-verbose loggers drop debug entries, which carry per-mutation traces.
func Set(verbose bool, path string) error {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	output := "stderr"
	if path != "" {
		output = path
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      verbose,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

func Flush() {
	_ = defaultLogger.Sync()
}
