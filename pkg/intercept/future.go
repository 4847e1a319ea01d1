package intercept

import (
	"context"
	"fmt"
	"sync"
)

// Future is the eventual outcome of asynchronous work. A Callable that
// returns a *Future is treated as asynchronous: its return or error event is
// logged when the future settles, and the wrapper hands the caller the very
// same *Future.
type Future struct {
	done chan struct{}

	mu        sync.Mutex
	settled   bool
	value     any
	err       error
	callbacks []func(any, error)
}

// NewFuture returns an unsettled future and the function that settles it.
// Only the first call to settle has any effect.
func NewFuture() (*Future, func(value any, err error)) {
	f := &Future{done: make(chan struct{})}
	return f, f.settle
}

// Resolved returns a future that is already settled.
func Resolved(value any, err error) *Future {
	f, settle := NewFuture()
	settle(value, err)
	return f
}

// Go runs fn in a new goroutine and returns a future for its outcome. A panic
// in fn settles the future with ErrFuturePanicked.
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) *Future {
	f, settle := NewFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				settle(nil, fmt.Errorf("%w: %v", ErrFuturePanicked, r))
			}
		}()
		settle(fn(ctx))
	}()
	return f
}

// Done is closed once the future has settled and its observers have run.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done. Cancelling ctx only
// stops this wait; the future itself is unaffected.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome if the future has settled.
func (f *Future) Result() (value any, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		return nil, nil, false
	}
}

// onSettle registers cb to observe the outcome. Observers run in
// registration order before Done is closed. If the future already settled,
// cb runs immediately.
func (f *Future) onSettle(cb func(any, error)) {
	f.mu.Lock()
	if f.settled {
		value, err := f.value, f.err
		f.mu.Unlock()
		cb(value, err)
		return
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}

func (f *Future) settle(value any, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value, f.err = value, err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	defer close(f.done)
	for _, cb := range callbacks {
		cb(value, err)
	}
}
