// Package logging provides the zap-backed sink used when interception is
// configured without an explicit Logger.
//
// # Overview
//
// The package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Stdout, rotated file (lumberjack) and OpenTelemetry outputs
//   - Context correlation fields (trace_id, span_id, call.id)
//   - Encoder-level redaction as a second line behind the sanitizers
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info(ctx, "UserService.Get returned", zap.String("result", "..."))
//
// # Testing
//
// Use TestLogger for assertions on what interception emitted:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//	tl.AssertNoValue(t, "secret123")
//
// # Concurrency Safety
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
