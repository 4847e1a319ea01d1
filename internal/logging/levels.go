// internal/logging/levels.go
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel is a custom level below Debug. Interception uses it for
// parameter dumps that are too noisy for debug.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses one of trace, debug, info, warn or error,
// case-insensitively. Zap's dpanic, panic and fatal are rejected: writing an
// interception event must never stop the caller.
func LevelFromString(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	if l > zapcore.ErrorLevel {
		return zapcore.InfoLevel, fmt.Errorf("level %q is not allowed", level)
	}
	return l, nil
}

// levelEncoder prints TraceLevel as "trace" instead of "Level(-2)".
func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(l, enc)
}
