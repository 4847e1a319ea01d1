package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_Creation(t *testing.T) {
	tl := NewTestLogger()
	assert.NotNil(t, tl.Logger)
	assert.NotNil(t, tl.observed)
	assert.True(t, tl.Enabled(TraceLevel))
}

func TestTestLogger_AssertLogged(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "test message", zap.String("key", "value"))

	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "test message")
}

func TestTestLogger_AssertField(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "test", zap.String("key", "value"), zap.Int("n", 3))

	tl.AssertField(t, "test", "key", "value")
	tl.AssertField(t, "test", "n", int64(3))
}

func TestTestLogger_AssertNoValue(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "safe", zap.Strings("params", []string{"alice", "***"}))

	tl.AssertNoValue(t, "secret123")
}

func TestTestLogger_Reset(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "one")
	tl.Trace(context.Background(), "two")
	assert.Equal(t, 2, tl.Len())

	tl.Reset()
	assert.Equal(t, 0, tl.Len())
	assert.Empty(t, tl.All())
}

func TestTestLogger_FilterMessage(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "UserService.Get returned")
	tl.Info(context.Background(), "UserService.Put returned")

	assert.Equal(t, 1, tl.FilterMessage("Get").Len())
}

func TestTestLogger_Calls(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()
	tl.LogCall(ctx, TraceLevel, CallRecord{Message: "Svc.Get called", Target: "Svc.Get", Phase: "call"})
	tl.LogCall(ctx, zapcore.InfoLevel, CallRecord{Message: "Svc.Put called", Target: "Svc.Put", Phase: "call"})
	tl.LogCall(ctx, zapcore.ErrorLevel, CallRecord{Message: "Svc.Get failed", Target: "Svc.Get", Phase: "error", Error: "boom"})

	assert.Len(t, tl.Calls("Svc.Get"), 2)
	assert.Empty(t, tl.Calls("Svc.Delete"))
	tl.AssertPhases(t, "Svc.Get", "call", "error")
	tl.AssertPhases(t, "Svc.Put", "call")
}
