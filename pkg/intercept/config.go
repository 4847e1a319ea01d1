package intercept

import (
	"context"
	"fmt"
	"slices"
)

// Config holds the process-wide defaults supplied once to New.
type Config struct {
	// Logger receives events. Nil means DefaultLogger.
	Logger Logger

	// AppName prefixes every target name when set.
	AppName string

	// Fallback receives sanitizer, level function and logger failures.
	// Nil means a rate-limited warning on the default logger.
	Fallback func(ctx context.Context, err error)

	Options
}

// Options are per-target settings. Nil pointers, unset level specs, nil
// sanitizers and nil slices inherit from Config, then from the built-in
// defaults.
type Options struct {
	Timestamp   *bool
	Level       LevelSpec
	ErrorLevel  LevelSpec
	ParamsLevel LevelSpec
	ErrorsOnly  *bool
	LogErrors   LogErrors

	ParamsSanitizer  Sanitizer
	ResultSanitizer  Sanitizer
	ErrorSanitizer   Sanitizer
	ContextSanitizer Sanitizer

	Duplicates   *bool
	KeepMetadata []string

	Getters         *bool
	Setters         *bool
	ClassProperties *bool

	Include          []string
	Exclude          []string
	MethodNameFilter func(name string) bool
}

// LogErrors controls error-chain handling. It is merged field by field.
type LogErrors struct {
	// Deepest logs a propagating error only at the innermost wrapped frame
	// that observed it.
	Deepest *bool
}

// Bool returns a pointer to v, for Options fields.
func Bool(v bool) *bool {
	return &v
}

// Effective is a fully resolved configuration. It is computed once per
// wrapped target and never modified.
type Effective struct {
	// Logger and Fallback stay nil when Config leaves them unset; the
	// process-wide defaults are applied when an interceptor is built.
	Logger   Logger
	AppName  string
	Fallback func(ctx context.Context, err error)

	Timestamp   bool
	Level       LevelSpec
	ErrorLevel  LevelSpec
	ParamsLevel LevelSpec
	ErrorsOnly  bool
	Deepest     bool

	ParamsSanitizer  Sanitizer
	ResultSanitizer  Sanitizer
	ErrorSanitizer   Sanitizer
	ContextSanitizer Sanitizer

	Duplicates   bool
	KeepMetadata []string

	Getters         bool
	Setters         bool
	ClassProperties bool

	Include          []string
	Exclude          []string
	MethodNameFilter func(name string) bool
}

// DefaultMethodNameFilter excludes constructors.
func DefaultMethodNameFilter(name string) bool {
	return name != "constructor"
}

// Resolve merges local over global over the built-in defaults. It has no
// side effects.
func Resolve(global Config, local *Options) (*Effective, error) {
	if local == nil {
		local = &Options{}
	}
	g := &global.Options

	eff := &Effective{
		Logger:   global.Logger,
		AppName:  global.AppName,
		Fallback: global.Fallback,

		Timestamp:   flag(local.Timestamp, g.Timestamp, false),
		Level:       levelSpec(local.Level, g.Level, Static(LevelInfo)),
		ErrorLevel:  levelSpec(local.ErrorLevel, g.ErrorLevel, Static(LevelError)),
		ParamsLevel: levelSpec(local.ParamsLevel, g.ParamsLevel, LevelSpec{}),
		ErrorsOnly:  flag(local.ErrorsOnly, g.ErrorsOnly, false),
		Deepest:     flag(local.LogErrors.Deepest, g.LogErrors.Deepest, false),

		ParamsSanitizer:  sanitizer(local.ParamsSanitizer, g.ParamsSanitizer, Inspect),
		ResultSanitizer:  sanitizer(local.ResultSanitizer, g.ResultSanitizer, Inspect),
		ErrorSanitizer:   sanitizer(local.ErrorSanitizer, g.ErrorSanitizer, Inspect),
		ContextSanitizer: sanitizer(local.ContextSanitizer, g.ContextSanitizer, nil),

		Duplicates:   flag(local.Duplicates, g.Duplicates, false),
		KeepMetadata: slices.Clone(list(local.KeepMetadata, g.KeepMetadata)),

		Getters:         flag(local.Getters, g.Getters, false),
		Setters:         flag(local.Setters, g.Setters, false),
		ClassProperties: flag(local.ClassProperties, g.ClassProperties, false),

		Include:          slices.Clone(list(local.Include, g.Include)),
		Exclude:          slices.Clone(list(local.Exclude, g.Exclude)),
		MethodNameFilter: local.MethodNameFilter,
	}

	if eff.MethodNameFilter == nil {
		eff.MethodNameFilter = g.MethodNameFilter
	}
	if eff.MethodNameFilter == nil {
		eff.MethodNameFilter = DefaultMethodNameFilter
	}
	if err := eff.validate(); err != nil {
		return nil, err
	}
	return eff, nil
}

func (e *Effective) validate() error {
	for field, spec := range map[string]LevelSpec{
		"level":        e.Level,
		"error_level":  e.ErrorLevel,
		"params_level": e.ParamsLevel,
	} {
		if err := spec.validate(field); err != nil {
			return err
		}
	}
	for _, name := range e.Include {
		if name == "" {
			return fmt.Errorf("%w: include: empty member name", ErrInvalidConfig)
		}
	}
	for _, name := range e.Exclude {
		if name == "" {
			return fmt.Errorf("%w: exclude: empty member name", ErrInvalidConfig)
		}
	}
	return nil
}

// allows reports whether a member named name passes Exclude, Include and
// MethodNameFilter.
func (e *Effective) allows(name string) bool {
	if slices.Contains(e.Exclude, name) {
		return false
	}
	if len(e.Include) > 0 && !slices.Contains(e.Include, name) {
		return false
	}
	return e.MethodNameFilter(name)
}

func flag(local, global *bool, def bool) bool {
	switch {
	case local != nil:
		return *local
	case global != nil:
		return *global
	default:
		return def
	}
}

func levelSpec(local, global, def LevelSpec) LevelSpec {
	switch {
	case local.IsSet():
		return local
	case global.IsSet():
		return global
	default:
		return def
	}
}

func sanitizer(local, global, def Sanitizer) Sanitizer {
	switch {
	case local != nil:
		return local
	case global != nil:
		return global
	default:
		return def
	}
}

func list(local, global []string) []string {
	if local != nil {
		return local
	}
	return global
}
