package intercept

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/logwrap/internal/logging"
)

// Phase identifies which step of an intercepted call an Entry describes.
type Phase string

// Phases.
const (
	PhaseCall   Phase = "call"
	PhaseReturn Phase = "return"
	PhaseError  Phase = "error"
)

// Entry is one log event produced by an intercepted call. All data fields
// hold sanitizer output, never raw values.
type Entry struct {
	// Target is "Owner.Member", prefixed with "App/" when an app name is set.
	Target string
	Phase  Phase
	CallID string

	Params  []string
	Result  string
	Error   string
	Context string

	// Depth is the number of wrapped frames the error has crossed,
	// counting this one.
	Depth    int
	Duration time.Duration

	// Time is set only when timestamps are enabled.
	Time time.Time
}

// Message returns the human-readable summary line for e.
func (e Entry) Message() string {
	switch e.Phase {
	case PhaseCall:
		return e.Target + " called"
	case PhaseReturn:
		return e.Target + " returned"
	default:
		return e.Target + " failed"
	}
}

// Logger receives interception events.
type Logger interface {
	Log(ctx context.Context, level Level, entry Entry)
}

// LevelEnabler is implemented by loggers that know in advance which levels
// they drop. Events at a disabled level are not sanitized.
type LevelEnabler interface {
	Enabled(level Level) bool
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(ctx context.Context, level Level, entry Entry)

// Log calls f.
func (f LoggerFunc) Log(ctx context.Context, level Level, entry Entry) {
	f(ctx, level, entry)
}

// LevelLoggers routes each level to its own function. Events at levels
// without a function are dropped.
type LevelLoggers map[Level]LoggerFunc

// Log dispatches entry to the function registered for level.
func (m LevelLoggers) Log(ctx context.Context, level Level, entry Entry) {
	if fn, ok := m[level]; ok && fn != nil {
		fn(ctx, level, entry)
	}
}

// Enabled reports whether a function is registered for level.
func (m LevelLoggers) Enabled(level Level) bool {
	return m[level] != nil
}

// ZapLogger adapts a zap logger. Trace events are written at level -2, below
// Debug.
func ZapLogger(z *zap.Logger) Logger {
	return &zapSink{log: logging.FromZap(z)}
}

type zapSink struct {
	log *logging.Logger
}

func (s *zapSink) Enabled(level Level) bool {
	lvl, err := logging.LevelFromString(string(level))
	return err == nil && s.log.Enabled(lvl)
}

func (s *zapSink) Log(ctx context.Context, level Level, e Entry) {
	lvl, err := logging.LevelFromString(string(level))
	if err != nil {
		return
	}
	s.log.LogCall(ctx, lvl, logging.CallRecord{
		Message:  e.Message(),
		Target:   e.Target,
		Phase:    string(e.Phase),
		Params:   e.Params,
		Result:   e.Result,
		Error:    e.Error,
		Context:  e.Context,
		Depth:    e.Depth,
		Duration: e.Duration,
		Time:     e.Time,
	})
}

var (
	defaultOnce     sync.Once
	defaultSink     Logger
	defaultFallback func(context.Context, error)
)

func initDefaults() {
	defaultOnce.Do(func() {
		l, err := logging.NewLogger(logging.NewDefaultConfig(), global.GetLoggerProvider())
		if err != nil {
			l = logging.Nop()
		}
		defaultSink = &zapSink{log: l}
		defaultFallback = newFallback(l.Named("logwrap"), time.Second, 5)
	})
}

// DefaultLogger returns the process-wide console logger used when Config has
// no Logger. It is created on first use and never replaced.
func DefaultLogger() Logger {
	initDefaults()
	return defaultSink
}

// newFallback returns a fallback that writes a warning for each pipeline
// failure to l, allowing at most burst reports at once and one more per
// interval.
func newFallback(l *logging.Logger, interval time.Duration, burst int) func(context.Context, error) {
	limiter := rate.NewLimiter(rate.Every(interval), burst)
	return func(ctx context.Context, err error) {
		if limiter.Allow() {
			l.Warn(ctx, "interception logging failed", zap.Error(err))
		}
	}
}

func defaultFallbackFunc() func(context.Context, error) {
	initDefaults()
	return defaultFallback
}
