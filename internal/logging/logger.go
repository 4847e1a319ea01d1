// internal/logging/logger.go
package logging

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps Zap with context-aware methods and the field layout used for
// intercepted calls.
type Logger struct {
	zap    *zap.Logger
	config *Config
}

// NewLogger creates a logger from config.
// otelProvider can be nil to disable OTEL output.
func NewLogger(cfg *Config, otelProvider log.LoggerProvider) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	core, err := newCore(cfg, otelProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	opts := []zap.Option{}
	if cfg.Caller.Enabled {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(cfg.Caller.Skip))
	}

	zapLogger := zap.New(core, opts...)

	if len(cfg.Fields) > 0 {
		fields := make([]zap.Field, 0, len(cfg.Fields))
		for k, v := range cfg.Fields {
			fields = append(fields, zap.String(k, v))
		}
		zapLogger = zapLogger.With(fields...)
	}

	return &Logger{
		zap:    zapLogger,
		config: cfg,
	}, nil
}

// FromZap adapts an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zap: z, config: NewDefaultConfig()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return FromZap(zap.NewNop())
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = levelEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// Log writes msg at an arbitrary level, including TraceLevel.
func (l *Logger) Log(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	if !l.Enabled(level) {
		return
	}
	allFields := append(ContextFields(ctx), fields...)
	l.zap.Log(level, msg, allFields...)
}

func (l *Logger) Trace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Log(ctx, TraceLevel, msg, fields...)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.Log(ctx, zapcore.DebugLevel, msg, fields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.Log(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.Log(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.Log(ctx, zapcore.ErrorLevel, msg, fields...)
}

// CallRecord is one intercepted call event in sink-neutral form.
type CallRecord struct {
	Message  string
	Target   string
	Phase    string
	Params   []string
	Result   string
	Error    string
	Context  string
	Depth    int
	Duration time.Duration
	Time     time.Time
}

// LogCall writes rec at level. Result fields are written for the "return"
// phase and error fields for the "error" phase; params, context and time
// only when present.
func (l *Logger) LogCall(ctx context.Context, level zapcore.Level, rec CallRecord) {
	if !l.Enabled(level) {
		return
	}

	fields := make([]zap.Field, 0, 8)
	fields = append(fields,
		zap.String("target", rec.Target),
		zap.String("phase", rec.Phase),
	)
	if rec.Params != nil {
		fields = append(fields, zap.Strings("params", rec.Params))
	}
	switch rec.Phase {
	case "return":
		fields = append(fields, zap.String("result", rec.Result), zap.Duration("duration", rec.Duration))
	case "error":
		fields = append(fields,
			zap.String("error", rec.Error),
			zap.Int("depth", rec.Depth),
			zap.Duration("duration", rec.Duration),
		)
	}
	if rec.Context != "" {
		fields = append(fields, zap.String("context", rec.Context))
	}
	if !rec.Time.IsZero() {
		fields = append(fields, zap.Time("timestamp", rec.Time))
	}

	l.Log(ctx, level, rec.Message, fields...)
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		zap:    l.zap.With(fields...),
		config: l.config,
	}
}

// Named returns a child logger with a name segment appended.
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		zap:    l.zap.Named(name),
		config: l.config,
	}
}

// Enabled returns true if the given level is enabled.
func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.zap.Core().Enabled(level)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	err := l.zap.Sync()
	// Ignore sync errors on stdout/stderr (common on Linux)
	if err != nil && isStdoutSyncError(err) {
		return nil
	}
	return err
}

// Underlying returns the underlying zap.Logger.
func (l *Logger) Underlying() *zap.Logger {
	return l.zap
}

// isStdoutSyncError checks if error is harmless stdout/stderr sync error.
// On Linux, syncing stdout/stderr returns EINVAL or ENOTTY which are safe to ignore.
func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
