package intercept

import "errors"

// Configuration errors, returned at wrap time.
var (
	ErrInvalidConfig = errors.New("invalid interception config")
	ErrNotCallable   = errors.New("target is not callable")
	ErrUnknownMember = errors.New("unknown member")
	ErrBadArguments  = errors.New("arguments do not match signature")
)

// Runtime failures of the logging pipeline. They never reach business
// callers; they are passed to Config.Fallback.
var (
	ErrResolver  = errors.New("level resolution failed")
	ErrSanitizer = errors.New("sanitizer failed")
	ErrLogger    = errors.New("logger failed")
)

// ErrFuturePanicked is the outcome of a Future whose function panicked.
var ErrFuturePanicked = errors.New("future function panicked")
