package intercept

import (
	"context"
	"maps"
)

// Callable is anything that can be intercepted.
type Callable interface {
	Call(ctx context.Context, args ...any) (any, error)
}

// Func adapts a plain function to Callable.
type Func func(ctx context.Context, args ...any) (any, error)

// Call invokes f.
func (f Func) Call(ctx context.Context, args ...any) (any, error) {
	return f(ctx, args...)
}

// Metadata is a string-keyed sidecar attached to a Callable by frameworks
// (route tables, schedulers, validators). Only keys listed in KeepMetadata
// survive wrapping.
type Metadata map[string]any

type metadataCarrier interface {
	metadata() Metadata
}

// annotated attaches metadata to a callable without changing its behaviour.
type annotated struct {
	Callable
	md Metadata
}

func (a *annotated) metadata() Metadata { return a.md }

// Annotate returns c with md attached. Keys already attached to c are kept
// unless md overrides them.
func Annotate(c Callable, md Metadata) Callable {
	merged := MetadataOf(c)
	if merged == nil {
		merged = make(Metadata, len(md))
	}
	maps.Copy(merged, md)
	if a, ok := c.(*annotated); ok {
		c = a.Callable
	}
	return &annotated{Callable: c, md: merged}
}

// MetadataOf returns a copy of the metadata attached to c, or nil.
func MetadataOf(c Callable) Metadata {
	if mc, ok := c.(metadataCarrier); ok {
		return maps.Clone(mc.metadata())
	}
	return nil
}

// unwrapAnnotation returns the callable behind any annotation.
func unwrapAnnotation(c Callable) Callable {
	if a, ok := c.(*annotated); ok {
		return a.Callable
	}
	return c
}
