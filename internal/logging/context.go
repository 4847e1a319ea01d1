// internal/logging/context.go
package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields := make([]zap.Field, 0, 4)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
		if sc.IsSampled() {
			fields = append(fields, zap.Bool("trace_sampled", true))
		}
	}

	if id := CallIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("call.id", id))
	}

	return fields
}

type callCtxKey struct{}

// WithCallID tags ctx with the id of the intercepted call it belongs to.
// Nested calls overwrite it, so the innermost id wins.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callCtxKey{}, id)
}

// CallIDFromContext returns the innermost intercepted call id, if any.
func CallIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(callCtxKey{}).(string); ok {
		return id
	}
	return ""
}
