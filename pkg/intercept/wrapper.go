package intercept

import (
	"context"
	"fmt"
	"slices"
)

// Wrapper applies interception using a fixed process-wide Config.
type Wrapper struct {
	cfg Config
}

// New validates cfg and returns a Wrapper. cfg is copied; later changes to
// the caller's value have no effect.
func New(cfg Config) (*Wrapper, error) {
	cfg.Include = slices.Clone(cfg.Include)
	cfg.Exclude = slices.Clone(cfg.Exclude)
	cfg.KeepMetadata = slices.Clone(cfg.KeepMetadata)
	if _, err := Resolve(cfg, nil); err != nil {
		return nil, err
	}
	return &Wrapper{cfg: cfg}, nil
}

// Config returns a copy of the process-wide configuration.
func (w *Wrapper) Config() Config {
	cfg := w.cfg
	cfg.Include = slices.Clone(cfg.Include)
	cfg.Exclude = slices.Clone(cfg.Exclude)
	cfg.KeepMetadata = slices.Clone(cfg.KeepMetadata)
	return cfg
}

// Resolve merges opts over the Wrapper's configuration.
func (w *Wrapper) Resolve(opts *Options) (*Effective, error) {
	return Resolve(w.cfg, opts)
}

// Wrap intercepts the selected members of obj in place and returns obj.
// Members that are already intercepted are skipped unless Duplicates is set.
// Concurrent wraps of the same Object are serialized.
func (w *Wrapper) Wrap(obj *Object, opts *Options) (*Object, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: nil object", ErrNotCallable)
	}
	eff, err := w.Resolve(opts)
	if err != nil {
		return nil, err
	}

	obj.mu.Lock()
	defer obj.mu.Unlock()

	for _, m := range obj.selectMembers(eff) {
		if m.fn == nil || !shouldWrap(m.fn, eff) {
			continue
		}
		m.fn = newInterceptor(w.target(obj.name+"."+m.Name), m.fn, eff, obj.ctxValue)
		if m.writeBack != nil {
			m.writeBack(m.fn)
		}
	}
	return obj, nil
}

// WrapFunc intercepts a standalone callable. It returns fn unchanged when fn
// is already intercepted (and Duplicates is off) or when name is filtered out
// by Include, Exclude or MethodNameFilter.
func (w *Wrapper) WrapFunc(name string, fn Callable, opts *Options) (Callable, error) {
	return w.WrapFuncWithContext(name, fn, nil, opts)
}

// WrapFuncWithContext is WrapFunc with a value for the context sanitizer.
func (w *Wrapper) WrapFuncWithContext(name string, fn Callable, contextValue any, opts *Options) (Callable, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %s is nil", ErrNotCallable, name)
	}
	eff, err := w.Resolve(opts)
	if err != nil {
		return nil, err
	}
	if !eff.allows(name) || !shouldWrap(fn, eff) {
		return fn, nil
	}
	return newInterceptor(w.target(name), fn, eff, contextValue), nil
}

func (w *Wrapper) target(name string) string {
	if w.cfg.AppName == "" {
		return name
	}
	return w.cfg.AppName + "/" + name
}

// Wrap0 intercepts a typed function without arguments.
func Wrap0[R any](w *Wrapper, name string, fn func(context.Context) (R, error), opts *Options) (func(context.Context) (R, error), error) {
	c, err := w.WrapFunc(name, Func(func(ctx context.Context, _ ...any) (any, error) {
		return fn(ctx)
	}), opts)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (R, error) {
		return typed[R](c.Call(ctx))
	}, nil
}

// Wrap1 intercepts a typed function of one argument.
func Wrap1[A, R any](w *Wrapper, name string, fn func(context.Context, A) (R, error), opts *Options) (func(context.Context, A) (R, error), error) {
	c, err := w.WrapFunc(name, Func(func(ctx context.Context, args ...any) (any, error) {
		a, _ := args[0].(A)
		return fn(ctx, a)
	}), opts)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, a A) (R, error) {
		return typed[R](c.Call(ctx, a))
	}, nil
}

// Wrap2 intercepts a typed function of two arguments.
func Wrap2[A, B, R any](w *Wrapper, name string, fn func(context.Context, A, B) (R, error), opts *Options) (func(context.Context, A, B) (R, error), error) {
	c, err := w.WrapFunc(name, Func(func(ctx context.Context, args ...any) (any, error) {
		a, _ := args[0].(A)
		b, _ := args[1].(B)
		return fn(ctx, a, b)
	}), opts)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, a A, b B) (R, error) {
		return typed[R](c.Call(ctx, a, b))
	}, nil
}

func typed[R any](res any, err error) (R, error) {
	r, _ := res.(R)
	return r, err
}
