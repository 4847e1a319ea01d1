package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestTraceLevel(t *testing.T) {
	assert.Equal(t, zapcore.Level(-2), TraceLevel)
	assert.Less(t, int8(TraceLevel), int8(zapcore.DebugLevel))
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"trace", TraceLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{" WARN ", zapcore.WarnLevel, false},
		{"Trace", TraceLevel, false},
		{"verbose", zapcore.InfoLevel, true},
		{"fatal", zapcore.InfoLevel, true},
		{"dpanic", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := LevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLevelEncoder(t *testing.T) {
	enc := &stringCollector{}
	levelEncoder(TraceLevel, enc)
	levelEncoder(zapcore.WarnLevel, enc)
	assert.Equal(t, []string{"trace", "warn"}, enc.vals)
}

// stringCollector records AppendString calls.
type stringCollector struct {
	zapcore.PrimitiveArrayEncoder
	vals []string
}

func (s *stringCollector) AppendString(v string) { s.vals = append(s.vals, v) }
