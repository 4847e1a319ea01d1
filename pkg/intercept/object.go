package intercept

import (
	"context"
	"fmt"
	"sync"
)

// Kind classifies an Object member.
type Kind int

// Member kinds.
const (
	KindMethod Kind = iota
	KindGetter
	KindSetter
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindGetter:
		return "getter"
	case KindSetter:
		return "setter"
	case KindProperty:
		return "property"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Member describes one callable member of an Object.
type Member struct {
	Name string
	Kind Kind
}

type member struct {
	Member
	fn Callable

	// writeBack publishes a replacement callable outside the Object, for
	// members bound to struct fields.
	writeBack func(Callable)
}

// Object is a named set of callable members that can be wrapped in place.
// Members keep their declaration order. A getter and a setter may share a
// name; other kinds must be unique per name.
type Object struct {
	name     string
	ctxValue any

	mu      sync.RWMutex
	members []*member
}

// NewObject returns an empty Object.
func NewObject(name string) *Object {
	return &Object{name: name}
}

// Name returns the owner name used in log targets.
func (o *Object) Name() string {
	return o.name
}

// WithContext sets the value passed to the context sanitizer for every
// member of o.
func (o *Object) WithContext(v any) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ctxValue = v
	return o
}

// Method registers a method.
func (o *Object) Method(name string, fn Callable) *Object {
	return o.add(name, KindMethod, fn, nil)
}

// Getter registers an accessor that reads a value.
func (o *Object) Getter(name string, fn Callable) *Object {
	return o.add(name, KindGetter, fn, nil)
}

// Setter registers an accessor that stores a value.
func (o *Object) Setter(name string, fn Callable) *Object {
	return o.add(name, KindSetter, fn, nil)
}

// Property registers a callable stored as a plain property.
func (o *Object) Property(name string, fn Callable) *Object {
	return o.add(name, KindProperty, fn, nil)
}

func (o *Object) add(name string, kind Kind, fn Callable, writeBack func(Callable)) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	m := &member{Member: Member{Name: name, Kind: kind}, fn: fn, writeBack: writeBack}
	for i, existing := range o.members {
		if existing.Name == name && existing.Kind == kind {
			o.members[i] = m
			return o
		}
	}
	o.members = append(o.members, m)
	return o
}

// Members lists the members in declaration order.
func (o *Object) Members() []Member {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Member, len(o.members))
	for i, m := range o.members {
		out[i] = m.Member
	}
	return out
}

// Lookup returns the current callable for a member.
func (o *Object) Lookup(name string, kind Kind) (Callable, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, m := range o.members {
		if m.Name == name && m.Kind == kind {
			return m.fn, true
		}
	}
	return nil, false
}

// Call invokes the method or property named name.
func (o *Object) Call(ctx context.Context, name string, args ...any) (any, error) {
	fn, ok := o.Lookup(name, KindMethod)
	if !ok {
		fn, ok = o.Lookup(name, KindProperty)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMember, o.name, name)
	}
	return fn.Call(ctx, args...)
}

// Get invokes the getter named name.
func (o *Object) Get(ctx context.Context, name string) (any, error) {
	fn, ok := o.Lookup(name, KindGetter)
	if !ok {
		return nil, fmt.Errorf("%w: getter %s.%s", ErrUnknownMember, o.name, name)
	}
	return fn.Call(ctx)
}

// Set invokes the setter named name with v.
func (o *Object) Set(ctx context.Context, name string, v any) error {
	fn, ok := o.Lookup(name, KindSetter)
	if !ok {
		return fmt.Errorf("%w: setter %s.%s", ErrUnknownMember, o.name, name)
	}
	_, err := fn.Call(ctx, v)
	return err
}

// selectMembers returns the members eligible for wrapping under eff, in
// declaration order. The caller must hold o.mu.
func (o *Object) selectMembers(eff *Effective) []*member {
	var out []*member
	for _, m := range o.members {
		switch m.Kind {
		case KindGetter:
			if !eff.Getters {
				continue
			}
		case KindSetter:
			if !eff.Setters {
				continue
			}
		case KindProperty:
			if !eff.ClassProperties {
				continue
			}
		}
		if eff.allows(m.Name) {
			out = append(out, m)
		}
	}
	return out
}
