package intercept

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type record struct {
	ctx   context.Context
	level Level
	entry Entry
}

// recorder is a Logger that keeps every event.
type recorder struct {
	mu      sync.Mutex
	records []record
}

func (r *recorder) Log(ctx context.Context, level Level, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record{ctx: ctx, level: level, entry: entry})
}

func (r *recorder) all() []record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]record(nil), r.records...)
}

func (r *recorder) phase(p Phase) []record {
	var out []record
	for _, rec := range r.all() {
		if rec.entry.Phase == p {
			out = append(out, rec)
		}
	}
	return out
}

// trail returns "Target phase" for every event, in order.
func (r *recorder) trail() []string {
	var out []string
	for _, rec := range r.all() {
		out = append(out, rec.entry.Target+" "+string(rec.entry.Phase))
	}
	return out
}

// failures collects fallback reports.
type failures struct {
	mu   sync.Mutex
	errs []error
}

func (f *failures) report(_ context.Context, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func (f *failures) all() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errs...)
}

// newTestWrapper returns a Wrapper logging to a recorder.
func newTestWrapper(t *testing.T, opts Options) (*Wrapper, *recorder, *failures) {
	t.Helper()
	rec := &recorder{}
	fails := &failures{}
	w, err := New(Config{Logger: rec, Fallback: fails.report, Options: opts})
	require.NoError(t, err)
	return w, rec, fails
}

func constant(v any) Func {
	return func(context.Context, ...any) (any, error) { return v, nil }
}

func failing(err error) Func {
	return func(context.Context, ...any) (any, error) { return nil, err }
}

// wrapFunc wraps fn and fails the test on a configuration error.
func wrapFunc(t *testing.T, w *Wrapper, name string, fn Callable, opts *Options) Callable {
	t.Helper()
	c, err := w.WrapFunc(name, fn, opts)
	require.NoError(t, err)
	return c
}
