package contract

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is shared by the whole CLI. It writes to stderr so stdout stays free for
// results and for the MCP stdio transport.
var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// NewLogger builds the console logger used by the CLI.
func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// SetupLogger replaces the shared logger with a console logger.
func SetupLogger(verbose bool) error {
	l, err := NewLogger(verbose)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the shared logger. A nil logger silences logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	return logger.Load()
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	l := Logger()
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		// Logger was never set up
		if fallback, buildErr := NewLogger(false); buildErr == nil {
			l = fallback
		}
	}
	l.Error("Fatal "+msg, zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, zap.Error(err))
}
