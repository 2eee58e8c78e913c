// Package logx wraps zap for the checker. The library never logs unless the
// caller hands it a logger; diagnostics about inputs are data, not log lines.
package logx

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap logger.
type Logger struct {
	zap *zap.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	// Output defaults to stderr; stdout is reserved for machine output.
	Output io.Writer
	Color  bool
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// New builds a logger from cfg.
func New(cfg Config) (*Logger, error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "", "console":
		if cfg.Color {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return &Logger{zap: zap.New(core)}, nil
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}

// Or returns l, or a nop logger when l is nil.
func (l *Logger) Or() *Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// Named returns a child logger.
func (l *Logger) Named(name string) *Logger {
	return &Logger{zap: l.Or().zap.Named(name)}
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.Or().zap.With(fields...)}
}

// Enabled reports whether entries of lvl are written.
func (l *Logger) Enabled(lvl zapcore.Level) bool {
	return l.Or().zap.Core().Enabled(lvl)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.Or().zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.Or().zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.Or().zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.Or().zap.Error(msg, fields...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zap.Sync()
}
