package intercept

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Bind builds an Object from receiver by reflection. Exported methods become
// methods. When receiver points to a struct, exported non-nil func fields
// become properties, and wrapping them stores the intercepted func back in
// the field.
//
// Bound funcs may take a context.Context first and may return an error last.
// Any other results are returned as a single value, or as []any when there
// are several.
func Bind(receiver any) (*Object, error) {
	rv := reflect.ValueOf(receiver)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil receiver", ErrNotCallable)
	}

	rt := rv.Type()
	name := rt.Name()
	if rt.Kind() == reflect.Pointer {
		name = rt.Elem().Name()
	}
	obj := NewObject(name).WithContext(receiver)

	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		obj.Method(m.Name, reflectCallable(rv.Method(i)))
	}

	if rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Struct && !rv.IsNil() {
		sv := rv.Elem()
		st := sv.Type()
		for i := 0; i < st.NumField(); i++ {
			sf := st.Field(i)
			fv := sv.Field(i)
			if !sf.IsExported() || sf.Type.Kind() != reflect.Func || fv.IsNil() {
				continue
			}
			c, ok := boundCallable(fv)
			if !ok {
				c = reflectCallable(fv)
			}
			obj.add(sf.Name, KindProperty, c, func(wrapped Callable) {
				bindField(fv, wrapped)
			})
		}
	}

	if len(obj.Members()) == 0 {
		return nil, fmt.Errorf("%w: %s has no exported methods or func fields", ErrNotCallable, rt)
	}
	return obj, nil
}

// boundFuncs maps the funcs written into struct fields by bindField to the
// callables they route through. Entries keep the func alive, so a closure
// address is never reused while it is registered.
var boundFuncs sync.Map // unsafe.Pointer -> boundFunc

type boundFunc struct {
	fn any
	c  Callable
}

// bindField stores a func routing through c in the addressable field fv.
func bindField(fv reflect.Value, c Callable) {
	fv.Set(makeFunc(fv.Type(), c))
	boundFuncs.Store(closureOf(fv), boundFunc{fn: fv.Interface(), c: c})
}

// boundCallable returns the callable behind a func that bindField stored in
// fv, so binding the same struct again sees the existing interceptor.
func boundCallable(fv reflect.Value) (Callable, bool) {
	if !fv.CanAddr() {
		return nil, false
	}
	b, ok := boundFuncs.Load(closureOf(fv))
	if !ok {
		return nil, false
	}
	return b.(boundFunc).c, true
}

// closureOf returns the closure pointer held by the func field fv. Unlike
// Value.Pointer it differs between funcs built by reflect.MakeFunc.
func closureOf(fv reflect.Value) unsafe.Pointer {
	return *(*unsafe.Pointer)(fv.Addr().UnsafePointer())
}

// reflectCallable adapts a func value to Callable. The func value is captured
// when the adapter is built, so later writes to a struct field do not affect
// it.
func reflectCallable(fn reflect.Value) Callable {
	fn = reflect.ValueOf(fn.Interface())
	ft := fn.Type()
	takesCtx := ft.NumIn() > 0 && ft.In(0) == contextType

	return Func(func(ctx context.Context, args ...any) (any, error) {
		in, err := buildArgs(ft, takesCtx, ctx, args)
		if err != nil {
			return nil, err
		}
		return splitResults(ft, fn.Call(in))
	})
}

func buildArgs(ft reflect.Type, takesCtx bool, ctx context.Context, args []any) ([]reflect.Value, error) {
	first := 0
	if takesCtx {
		first = 1
	}
	fixed := ft.NumIn() - first
	if ft.IsVariadic() {
		fixed--
	}
	if len(args) < fixed || (!ft.IsVariadic() && len(args) > fixed) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrBadArguments, ft, fixed, len(args))
	}

	in := make([]reflect.Value, 0, first+len(args))
	if takesCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
	}
	for i, a := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(first + i)
		} else {
			pt = ft.In(ft.NumIn() - 1).Elem()
		}
		v, err := convertArg(a, pt)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %w", ErrBadArguments, i, err)
		}
		in = append(in, v)
	}
	return in, nil
}

func convertArg(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch t.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", t)
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) && v.Kind() != reflect.String && t.Kind() != reflect.String {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
}

func splitResults(ft reflect.Type, out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1].Interface(); e != nil {
			err = e.(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	default:
		vals := make([]any, len(out))
		for i, v := range out {
			vals[i] = v.Interface()
		}
		return vals, err
	}
}

// makeFunc builds a func of type ft that routes calls through c.
func makeFunc(ft reflect.Type, c Callable) reflect.Value {
	takesCtx := ft.NumIn() > 0 && ft.In(0) == contextType
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		ctx := context.Background()
		if takesCtx {
			if v, ok := in[0].Interface().(context.Context); ok && v != nil {
				ctx = v
			}
			in = in[1:]
		}

		args := make([]any, 0, len(in))
		for i, v := range in {
			if ft.IsVariadic() && i == len(in)-1 {
				for j := 0; j < v.Len(); j++ {
					args = append(args, v.Index(j).Interface())
				}
				continue
			}
			args = append(args, v.Interface())
		}

		res, err := c.Call(ctx, args...)
		return joinResults(ft, res, err)
	})
}

func joinResults(ft reflect.Type, res any, err error) []reflect.Value {
	n := ft.NumOut()
	out := make([]reflect.Value, n)
	values := n
	if n > 0 && ft.Out(n-1) == errorType {
		values--
		out[n-1] = reflect.Zero(errorType)
		if err != nil {
			out[n-1] = reflect.ValueOf(&err).Elem()
		}
	}

	var parts []any
	switch values {
	case 0:
	case 1:
		parts = []any{res}
	default:
		parts, _ = res.([]any)
	}
	for i := 0; i < values; i++ {
		out[i] = reflect.Zero(ft.Out(i))
		if i < len(parts) && parts[i] != nil {
			if v := reflect.ValueOf(parts[i]); v.Type().AssignableTo(ft.Out(i)) {
				out[i] = v
			}
		}
	}
	return out
}
