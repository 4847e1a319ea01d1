package intercept

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/logwrap/internal/logging"
)

// interceptor is a wrapped callable. Its type doubles as the marker that
// prevents double wrapping.
type interceptor struct {
	target   string
	next     Callable
	eff      *Effective
	md       Metadata
	ctxValue any

	logger   Logger
	fallback func(context.Context, error)
}

func newInterceptor(target string, next Callable, eff *Effective, ctxValue any) *interceptor {
	ic := &interceptor{
		target:   target,
		next:     next,
		eff:      eff,
		ctxValue: ctxValue,
		logger:   eff.Logger,
		fallback: eff.Fallback,
	}
	if ic.logger == nil {
		ic.logger = DefaultLogger()
	}
	if ic.fallback == nil {
		ic.fallback = defaultFallbackFunc()
	}
	src := MetadataOf(next)
	for _, key := range eff.KeepMetadata {
		if v, ok := src[key]; ok {
			if ic.md == nil {
				ic.md = make(Metadata, len(eff.KeepMetadata))
			}
			ic.md[key] = v
		}
	}
	return ic
}

func (ic *interceptor) metadata() Metadata { return ic.md }

// Call logs params when configured, runs the original callable with the
// original arguments and logs its outcome. Results and errors are returned
// unchanged. A *Future result is observed, not awaited.
func (ic *interceptor) Call(ctx context.Context, args ...any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	fr := ic.begin(ctx, args)
	fr.logCall()

	res, err := ic.next.Call(fr.ctx, args...)
	if err != nil {
		fr.fail(err)
		return res, err
	}
	if fut, ok := res.(*Future); ok && fut != nil {
		fut.onSettle(fr.settle)
		return res, nil
	}
	fr.succeed(res)
	return res, nil
}

// frame is the state of one intercepted invocation.
type frame struct {
	ic    *interceptor
	ctx   context.Context
	scope *scope
	id    string
	args  []any
	start time.Time

	paramsOnce sync.Once
	params     []string
}

func (ic *interceptor) begin(ctx context.Context, args []any) *frame {
	id := uuid.NewString()
	ctx, s := enterScope(logging.WithCallID(ctx, id))
	return &frame{
		ic:    ic,
		ctx:   ctx,
		scope: s,
		id:    id,
		args:  args,
		start: time.Now(),
	}
}

// sanitizedParams sanitizes the arguments once per invocation.
func (fr *frame) sanitizedParams() []string {
	fr.paramsOnce.Do(func() {
		params, err := sanitizeEach(fr.ic.eff.ParamsSanitizer, fr.args)
		if err != nil {
			fr.report(err)
		}
		fr.params = params
	})
	return fr.params
}

func (fr *frame) sanitizeOne(s Sanitizer, v any) string {
	out, err := sanitize(s, v)
	if err != nil {
		fr.report(err)
		return Unsanitizable
	}
	return out
}

func (fr *frame) logCall() {
	eff := fr.ic.eff
	if !eff.ParamsLevel.IsSet() {
		return
	}
	fr.emit(PhaseCall, eff.ParamsLevel, LevelInfo, fr.args, func(e *Entry) {
		e.Params = fr.sanitizedParams()
	})
}

func (fr *frame) succeed(res any) {
	eff := fr.ic.eff
	if eff.ErrorsOnly {
		return
	}
	fr.emit(PhaseReturn, eff.Level, LevelInfo, res, func(e *Entry) {
		e.Result = fr.sanitizeOne(eff.ResultSanitizer, res)
	})
}

func (fr *frame) fail(err error) {
	eff := fr.ic.eff
	depth, log := observeError(fr.scope, err, eff.Deepest)
	if !log {
		return
	}
	fr.emit(PhaseError, eff.ErrorLevel, LevelError, err, func(e *Entry) {
		e.Params = fr.sanitizedParams()
		e.Error = fr.sanitizeOne(eff.ErrorSanitizer, err)
		e.Depth = depth
	})
}

// settle observes the outcome of a *Future returned by the original callable.
func (fr *frame) settle(value any, err error) {
	if err != nil {
		fr.fail(err)
		return
	}
	fr.succeed(value)
}

// emit resolves the level, builds the entry and hands it to the logger.
// Nothing raised here reaches the business caller. Loggers that report the
// level as disabled get nothing, and nothing is sanitized for them.
func (fr *frame) emit(phase Phase, spec LevelSpec, def Level, data any, fill func(*Entry)) {
	defer func() {
		if r := recover(); r != nil {
			fr.report(fmt.Errorf("%w: panic: %v", ErrLogger, r))
		}
	}()

	eff := fr.ic.eff
	level, err := spec.resolve(data, def)
	if err != nil {
		fr.report(err)
	}
	if le, ok := fr.ic.logger.(LevelEnabler); ok && !le.Enabled(level) {
		return
	}

	e := Entry{
		Target: fr.ic.target,
		Phase:  phase,
		CallID: fr.id,
	}
	if phase != PhaseCall {
		e.Duration = time.Since(fr.start)
	}
	if eff.Timestamp {
		e.Time = time.Now()
	}
	if eff.ContextSanitizer != nil && fr.ic.ctxValue != nil {
		e.Context = fr.sanitizeOne(eff.ContextSanitizer, fr.ic.ctxValue)
	}
	fill(&e)

	fr.ic.logger.Log(fr.ctx, level, e)
}

// report passes a pipeline failure to the fallback. A failing fallback is
// ignored.
func (fr *frame) report(err error) {
	defer func() { _ = recover() }()
	fr.ic.fallback(fr.ctx, err)
}
