package logging

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.NotNil(t, logger.zap)
	assert.Equal(t, cfg, logger.config)
	assert.True(t, logger.Enabled(TraceLevel))
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	logger, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Nil(t, logger)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewLogger_OTELWithoutProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stdout = false
	cfg.Output.OTEL = true

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one output")
}

func TestNewLogger_FileOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stdout = false
	cfg.Output.File.Path = filepath.Join(t.TempDir(), "calls.log")
	cfg.Level = "info"

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(zapcore.DebugLevel))

	logger.Info(context.Background(), "written to file")
	assert.NoError(t, logger.Sync())
	assert.FileExists(t, cfg.Output.File.Path)
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	logger := &Logger{
		zap:    zap.New(core),
		config: NewDefaultConfig(),
	}

	ctx := context.Background()

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
		message string
	}{
		{
			name:    "trace",
			logFunc: func() { logger.Trace(ctx, "trace message", zap.String("key", "val")) },
			level:   TraceLevel,
			message: "trace message",
		},
		{
			name:    "debug",
			logFunc: func() { logger.Debug(ctx, "debug message", zap.String("key", "val")) },
			level:   zapcore.DebugLevel,
			message: "debug message",
		},
		{
			name:    "info",
			logFunc: func() { logger.Info(ctx, "info message", zap.String("key", "val")) },
			level:   zapcore.InfoLevel,
			message: "info message",
		},
		{
			name:    "warn",
			logFunc: func() { logger.Warn(ctx, "warn message", zap.String("key", "val")) },
			level:   zapcore.WarnLevel,
			message: "warn message",
		},
		{
			name:    "error",
			logFunc: func() { logger.Error(ctx, "error message", zap.String("key", "val")) },
			level:   zapcore.ErrorLevel,
			message: "error message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()
			tt.logFunc()

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, tt.message, logs[0].Message)
			assert.Len(t, logs[0].Context, 1)
		})
	}
}

func TestLogger_LevelGate(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Trace(context.Background(), "dropped")
	logger.Debug(context.Background(), "dropped")
	logger.Info(context.Background(), "kept")

	require.Equal(t, 1, observed.Len())
	assert.Equal(t, "kept", observed.All()[0].Message)
}

func TestLogger_With(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	child := logger.With(zap.String("child_field", "value"))
	child.Info(context.Background(), "child log")

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "value", logs[0].ContextMap()["child_field"])
}

func TestLogger_Named(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Named("intercept").Info(context.Background(), "named log")

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "intercept", logs[0].LoggerName)
}

func TestLogger_InjectsCallID(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	ctx := WithCallID(context.Background(), "call-1")
	logger.Info(ctx, "with call id")

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "call-1", logs[0].ContextMap()["call.id"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.False(t, logger.Enabled(zapcore.ErrorLevel))
	assert.NotPanics(t, func() { logger.Error(context.Background(), "nothing") })
}

func TestFromZap_Nil(t *testing.T) {
	assert.NotNil(t, FromZap(nil).Underlying())
}

func TestLogger_LogCall(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		rec     CallRecord
		want    map[string]interface{}
		missing []string
	}{
		{
			name: "call",
			rec:  CallRecord{Message: "Svc.Get called", Target: "Svc.Get", Phase: "call", Params: []string{"1"}},
			want: map[string]interface{}{
				"target": "Svc.Get",
				"phase":  "call",
				"params": []interface{}{"1"},
			},
			missing: []string{"result", "error", "depth", "duration", "context", "timestamp"},
		},
		{
			name: "return",
			rec:  CallRecord{Message: "Svc.Get returned", Target: "Svc.Get", Phase: "return", Result: "ok", Duration: time.Second},
			want: map[string]interface{}{
				"result":   "ok",
				"duration": time.Second,
			},
			missing: []string{"params", "error", "depth"},
		},
		{
			name: "error",
			rec: CallRecord{
				Message: "Svc.Get failed", Target: "Svc.Get", Phase: "error",
				Error: "boom", Depth: 2, Context: "ctx", Time: now,
			},
			want: map[string]interface{}{
				"error":     "boom",
				"depth":     int64(2),
				"context":   "ctx",
				"timestamp": now,
			},
			missing: []string{"result"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(TraceLevel)
			FromZap(zap.New(core)).LogCall(context.Background(), zapcore.WarnLevel, tt.rec)

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.rec.Message, logs[0].Message)
			assert.Equal(t, zapcore.WarnLevel, logs[0].Level)

			fields := logs[0].ContextMap()
			for k, v := range tt.want {
				assert.Equal(t, v, fields[k], k)
			}
			for _, k := range tt.missing {
				assert.NotContains(t, fields, k)
			}
		})
	}
}

func TestLogger_LogCallDisabled(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	FromZap(zap.New(core)).LogCall(context.Background(), TraceLevel, CallRecord{Message: "dropped"})
	assert.Zero(t, observed.Len())
}
