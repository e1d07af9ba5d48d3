package contract

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger builds the process-wide logger and installs it as the zap global.
// Logs go to stderr so they never mix with results written to stdout.
func InitLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	return zap.L()
}

// LogFatal logs an error and exits the program.
// Before InitLogger runs the global logger discards everything, so the
// message falls back to plain stderr.
func LogFatal(msg string, err error) {
	if zap.L().Core().Enabled(zapcore.ErrorLevel) {
		zap.L().Error(msg, zap.Error(err))
		_ = zap.L().Sync()
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	}
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	zap.L().Warn(msg, zap.Error(err))
}
