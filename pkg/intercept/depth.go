package intercept

import (
	"context"
	"reflect"
	"sync"
)

// scope collects the errors reported by the wrapped calls made beneath one
// intercepted call. It travels in the context handed to the original
// callable, so nesting is only visible when business code passes ctx on.
type scope struct {
	parent *scope

	mu   sync.Mutex
	seen []observed
}

type observed struct {
	err   error
	depth int
}

type scopeKey struct{}

// enterScope returns a child context carrying a fresh scope whose parent is
// the scope already in ctx, if any.
func enterScope(ctx context.Context) (context.Context, *scope) {
	parent, _ := ctx.Value(scopeKey{}).(*scope)
	s := &scope{parent: parent}
	return context.WithValue(ctx, scopeKey{}, s), s
}

// lookup returns the depth recorded for err by a nested call.
func (s *scope) lookup(err error) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	depth, found := 0, false
	for _, o := range s.seen {
		if chainContains(err, o.err) && o.depth > depth {
			depth, found = o.depth, true
		}
	}
	return depth, found
}

func (s *scope) record(err error, depth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.seen {
		if sameError(o.err, err) {
			s.seen[i].depth = max(o.depth, depth)
			return
		}
	}
	s.seen = append(s.seen, observed{err: err, depth: depth})
}

// observeError applies deepest-error tracking to err in the frame owning s.
// It returns the depth of err at this frame and whether the frame should log
// it, and records err in the parent frame's scope.
func observeError(s *scope, err error, deepest bool) (depth int, log bool) {
	inner, propagated := s.lookup(err)
	depth = 1
	if propagated {
		depth = inner + 1
	}
	if s.parent != nil && isComparable(err) {
		s.parent.record(err, depth)
	}
	return depth, !deepest || !propagated
}

// chainContains reports whether target is err itself or is reachable from
// err through Unwrap. Only identity counts: two errors with the same message
// are different errors.
func chainContains(err, target error) bool {
	if !isComparable(target) {
		return false
	}
	for err != nil {
		if sameError(err, target) {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				if chainContains(e, target) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

// isComparable reports whether err can be used with ==. A comparable struct
// type is not enough: an interface field holding a slice still panics.
func isComparable(err error) bool {
	return err != nil && reflect.ValueOf(err).Comparable()
}

func sameError(a, b error) bool {
	return isComparable(a) && isComparable(b) && a == b
}
