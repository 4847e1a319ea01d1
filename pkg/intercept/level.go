package intercept

import (
	"fmt"
	"strings"
)

// Level is a log level from the closed set trace, debug, info, warn, error.
type Level string

// Levels, lowest to highest.
const (
	LevelTrace Level = "trace"
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Valid reports whether l belongs to the closed level set.
func (l Level) Valid() bool {
	switch l {
	case LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

// ParseLevel converts a string to a Level. Matching is case-insensitive.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: unknown level %q", ErrInvalidConfig, s)
	}
	return l, nil
}

// LevelSpec is either a constant level or a function computing one from the
// event data (params for call events, the result for return events, the
// error for error events). The zero LevelSpec is unset.
type LevelSpec struct {
	static  Level
	dynamic func(data any) Level
}

// Static returns a LevelSpec that always resolves to l.
func Static(l Level) LevelSpec {
	return LevelSpec{static: l}
}

// Dynamic returns a LevelSpec that calls fn once per emitted event.
func Dynamic(fn func(data any) Level) LevelSpec {
	return LevelSpec{dynamic: fn}
}

// IsSet reports whether s carries a level or a level function.
func (s LevelSpec) IsSet() bool {
	return s.static != "" || s.dynamic != nil
}

// IsDynamic reports whether s resolves through a function.
func (s LevelSpec) IsDynamic() bool {
	return s.dynamic != nil
}

func (s LevelSpec) String() string {
	switch {
	case s.dynamic != nil:
		return "dynamic"
	case s.static != "":
		return string(s.static)
	default:
		return "unset"
	}
}

func (s LevelSpec) validate(field string) error {
	if s.dynamic == nil && s.static != "" && !s.static.Valid() {
		return fmt.Errorf("%w: %s: unknown level %q", ErrInvalidConfig, field, s.static)
	}
	return nil
}

// resolve returns the level for one event. A level function that panics or
// returns a level outside the closed set yields fallback and a non-nil error
// describing the failure.
func (s LevelSpec) resolve(data any, fallback Level) (lvl Level, err error) {
	if s.dynamic == nil {
		if s.static == "" {
			return fallback, nil
		}
		return s.static, nil
	}

	defer func() {
		if r := recover(); r != nil {
			lvl, err = fallback, fmt.Errorf("%w: level function panicked: %v", ErrResolver, r)
		}
	}()

	lvl = s.dynamic(data)
	if !lvl.Valid() {
		return fallback, fmt.Errorf("%w: level function returned %q", ErrResolver, lvl)
	}
	return lvl, nil
}
