// internal/logging/testing.go
package logging

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger wraps Logger with test observation capabilities.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger creates a logger for testing with full observation.
func NewTestLogger() *TestLogger {
	core, observed := observer.New(TraceLevel)
	return &TestLogger{
		Logger: &Logger{
			zap:    zap.New(core),
			config: NewDefaultConfig(),
		},
		observed: observed,
	}
}

// All returns all logged entries.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// Len returns the number of logged entries.
func (t *TestLogger) Len() int {
	return t.observed.Len()
}

// FilterMessage returns entries matching message substring.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.observed.FilterMessageSnippet(msg)
}

// Reset clears all logged entries.
func (t *TestLogger) Reset() {
	t.observed.TakeAll()
}

// AssertLogged verifies a log at level containing message was logged.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			return
		}
	}
	tb.Errorf("expected log at %v containing %q, logs: %+v", level, msgContains, t.observed.All())
}

// AssertNotLogged verifies no log at level containing message was logged.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			tb.Errorf("unexpected log at %v containing %q", level, msgContains)
		}
	}
}

// AssertField verifies a field with key and value exists in message.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, expected interface{}) {
	tb.Helper()
	for _, entry := range t.observed.FilterMessageSnippet(msg).All() {
		if got, ok := entry.ContextMap()[key]; ok {
			if got == expected || reflect.DeepEqual(got, expected) {
				return
			}
		}
	}
	tb.Errorf("field %q=%v not found in message %q", key, expected, msg)
}

// Calls returns the intercepted-call entries for target, in log order.
func (t *TestLogger) Calls(target string) []observer.LoggedEntry {
	return t.observed.Filter(func(e observer.LoggedEntry) bool {
		return e.ContextMap()["target"] == target
	}).All()
}

// AssertPhases verifies the phases logged for target, in order.
func (t *TestLogger) AssertPhases(tb testing.TB, target string, phases ...string) {
	tb.Helper()
	calls := t.Calls(target)
	got := make([]string, 0, len(calls))
	for _, e := range calls {
		p, _ := e.ContextMap()["phase"].(string)
		got = append(got, p)
	}
	if !reflect.DeepEqual(got, phases) {
		tb.Errorf("phases for %q = %v, want %v", target, got, phases)
	}
}

// AssertNoValue verifies no string field of any entry contains val.
// Used to prove a sanitizer kept raw data out of the logs.
func (t *TestLogger) AssertNoValue(tb testing.TB, val string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if strings.Contains(entry.Message, val) {
			tb.Errorf("value %q leaked into message %q", val, entry.Message)
		}
		for k, v := range entry.ContextMap() {
			if strings.Contains(stringify(v), val) {
				tb.Errorf("value %q leaked into field %q", val, k)
			}
		}
	}
}

func stringify(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case []interface{}:
		parts := make([]string, 0, len(vv))
		for _, p := range vv {
			parts = append(parts, stringify(p))
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
