package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string // debug, info, warn, error
	OutputPath string // stdout, stderr, or file path
	Format     string // json or console
	Service    string // added to every entry when set
}

// NewLogger creates the service logger. Unknown levels fall back to info.
// When entries go to a file, errors are also echoed to stderr so that a
// failing server is visible on its console.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	sink, err := openSink(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	level := parseLevel(cfg.Level)
	core := zapcore.NewCore(newEncoder(cfg.Format, true), sink, level)
	if isFile(cfg.OutputPath) {
		console := zapcore.NewCore(newEncoder("console", true), zapcore.Lock(os.Stderr), zapcore.ErrorLevel)
		core = zapcore.NewTee(core, console)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.Service)))
	}
	return zap.New(core, opts...), nil
}

// NewCLILogger creates a console logger for command line tools. It writes
// to stderr without timestamps or callers so that stdout stays parseable.
func NewCLILogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(newEncoder("console", false), zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}

func parseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func newEncoder(format string, timestamps bool) zapcore.Encoder {
	var ec zapcore.EncoderConfig
	if format == "json" {
		ec = zap.NewProductionEncoderConfig()
	} else {
		ec = zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if !timestamps {
		ec.TimeKey = zapcore.OmitKey
		ec.CallerKey = zapcore.OmitKey
	}

	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	return zapcore.NewConsoleEncoder(ec)
}

func isFile(path string) bool {
	return path != "" && path != "stdout" && path != "stderr"
}

// openSink resolves stdout, stderr or a log file, creating its directory
func openSink(path string) (zapcore.WriteSyncer, error) {
	if path == "" {
		path = "stdout"
	}
	if isFile(path) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	}
	sink, _, err := zap.Open(path)
	if err != nil {
		return nil, err
	}
	return sink, nil
}
