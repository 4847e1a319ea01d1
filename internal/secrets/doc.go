// Package secrets detects credentials in already-formatted log text and
// masks them.
//
// It backs the Scrub sanitizer: rules are regular expressions, optionally
// gated by cheap keyword checks, and an allow list exempts known-safe
// matches. When a rule has a capture group only the group is masked, so
// "password=hunter22" becomes "password=***" and the key stays readable.
// Scrubbing is idempotent for the default rules: masked output never
// matches again.
package secrets
