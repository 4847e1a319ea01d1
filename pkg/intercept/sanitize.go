package intercept

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/davecgh/go-spew/spew"

	"github.com/fyrsmithlabs/logwrap/internal/leaks"
	"github.com/fyrsmithlabs/logwrap/internal/secrets"
)

// Mask replaces data hidden by the built-in sanitizers.
const Mask = "***"

// Unsanitizable is logged in place of a value whose sanitizer failed.
const Unsanitizable = "[unsanitizable]"

// Sanitizer converts one value into its loggable form. Sanitizers must only
// read their input. Params are sanitized one argument at a time, so the
// logged params always have one entry per argument.
type Sanitizer func(v any) (string, error)

var inspector = spew.ConfigState{SortKeys: true}

// Inspect renders v without hiding anything: strings verbatim, errors by
// their message, nil as <nil>, everything else in %+v form. A top-level
// pointer is followed so the value, not its address, is logged.
func Inspect(v any) (string, error) {
	return inspect(v), nil
}

func inspect(v any) string {
	switch vv := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return vv
	case error:
		return vv.Error()
	default:
		rv := reflect.ValueOf(vv)
		if rv.Kind() == reflect.Pointer && !rv.IsNil() {
			vv = rv.Elem().Interface()
		}
		return inspector.Sprintf("%+v", vv)
	}
}

// Redact inspects v and replaces every match of re with Mask.
func Redact(re *regexp.Regexp) Sanitizer {
	return func(v any) (string, error) {
		return re.ReplaceAllString(inspect(v), Mask), nil
	}
}

// MustRedact is Redact for a pattern known to compile. It panics otherwise.
func MustRedact(pattern string) Sanitizer {
	return Redact(regexp.MustCompile(pattern))
}

// ScrubRule is a secret detection rule for ScrubWith.
type ScrubRule = secrets.Rule

// Scrub inspects v and masks anything the default secret rules detect:
// credentials in key/value pairs and URLs, bearer tokens, private keys, JWTs
// and well-known API key formats.
func Scrub() Sanitizer {
	return scrubWith(secrets.MustNew(secrets.DefaultConfig()))
}

// ScrubWith is Scrub with custom rules. Nil rules means the defaults.
func ScrubWith(rules []ScrubRule, allowList ...string) (Sanitizer, error) {
	s, err := secrets.New(&secrets.Config{
		Enabled:   true,
		Rules:     rules,
		Mask:      Mask,
		AllowList: allowList,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return scrubWith(s), nil
}

// Gitleaks masks anything the Gitleaks rule set detects. It is slower than
// Scrub and covers far more vendor token formats. Allowlists are
// Gitleaks-style TOML files; missing files are skipped.
func Gitleaks(allowlists ...string) (Sanitizer, error) {
	allow, err := leaks.LoadAllowlists(allowlists...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	d, err := leaks.New(allow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return gitleaksWith(d), nil
}

func gitleaksWith(d *leaks.Detector) Sanitizer {
	return func(v any) (string, error) {
		out, _ := d.Redact(inspect(v), Mask)
		return out, nil
	}
}

func scrubWith(s secrets.Scrubber) Sanitizer {
	return func(v any) (string, error) {
		return s.Scrub(inspect(v)).Scrubbed, nil
	}
}

// Chain runs sanitizers in order, feeding each the previous output.
func Chain(first Sanitizer, rest ...Sanitizer) Sanitizer {
	return func(v any) (string, error) {
		out, err := first(v)
		if err != nil {
			return "", err
		}
		for _, s := range rest {
			if out, err = s(out); err != nil {
				return "", err
			}
		}
		return out, nil
	}
}

// sanitize applies s to v. Errors and panics are returned as ErrSanitizer.
func sanitize(s Sanitizer, v any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: panic: %v", ErrSanitizer, r)
		}
	}()
	out, err = s(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSanitizer, err)
	}
	return out, nil
}

// sanitizeEach maps s over args. Failed entries become Unsanitizable; the
// first failure is returned.
func sanitizeEach(s Sanitizer, args []any) ([]string, error) {
	out := make([]string, len(args))
	var firstErr error
	for i, a := range args {
		v, err := sanitize(s, a)
		if err != nil {
			v = Unsanitizable
			if firstErr == nil {
				firstErr = err
			}
		}
		out[i] = v
	}
	return out, firstErr
}
