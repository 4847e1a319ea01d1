// Package leaks detects credentials in logged text with the Gitleaks rule
// set and masks them.
//
// It complements internal/secrets: that scrubber is small and fast, while a
// Detector carries several hundred vendor rules and is meant for
// `sanitize.gitleaks` and the `logwrap redact --gitleaks` filter.
package leaks

import "errors"

var (
	// ErrInvalidRegex indicates an allowlist pattern failed to compile.
	ErrInvalidRegex = errors.New("invalid regex pattern")

	// ErrInvalidTOML indicates an allowlist file could not be parsed.
	ErrInvalidTOML = errors.New("invalid TOML format")
)
