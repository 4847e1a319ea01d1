package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestContextFields_Trace(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x0a, 0x0b},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	fields := ContextFields(ctx)

	assertFieldExists(t, fields, "trace_id", sc.TraceID().String())
	assertFieldExists(t, fields, "span_id", sc.SpanID().String())

	var sampled bool
	for _, f := range fields {
		if f.Key == "trace_sampled" {
			sampled = true
		}
	}
	assert.True(t, sampled, "sampled span should be flagged")
}

func TestContextFields_UnsampledTrace(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01},
		SpanID:  trace.SpanID{0x02},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	for _, f := range ContextFields(ctx) {
		assert.NotEqual(t, "trace_sampled", f.Key)
	}
}

func TestCallID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CallIDFromContext(ctx))

	outer := WithCallID(ctx, "outer")
	inner := WithCallID(outer, "inner")

	assert.Equal(t, "outer", CallIDFromContext(outer))
	assert.Equal(t, "inner", CallIDFromContext(inner))
	assertFieldExists(t, ContextFields(inner), "call.id", "inner")
}

func assertFieldExists(t *testing.T, fields []zap.Field, key, value string) {
	t.Helper()
	for _, f := range fields {
		if f.Key == key {
			assert.Equal(t, value, f.String)
			return
		}
	}
	t.Errorf("field %q not found in %v", key, fields)
}
