// Package logging builds the zap loggers used by coca commands and the
// recorder.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options describe how to configure a logger instance.
type Options struct {
	Level  string
	Format string // console (default) or json
	Output io.Writer
	Color  bool
}

// New creates a logger and the AtomicLevel controlling it. Changing the
// level later through the AtomicLevel applies to the returned logger.
func New(opts Options) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atom := zap.NewAtomicLevelAt(lvl)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.Color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console", "text":
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), atom)
	return zap.New(core), atom, nil
}

// ParseLevel maps a settings log level name to a zap level. The empty
// string means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unhandled log level %q", level)
}

// SetLevel applies a level name to atom, leaving it unchanged when the name
// is not recognised.
func SetLevel(atom zap.AtomicLevel, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	atom.SetLevel(lvl)
	return nil
}
