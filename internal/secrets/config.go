package secrets

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultMask replaces each detected secret.
const DefaultMask = "***"

// ErrInvalidRule is returned when a rule cannot be compiled.
var ErrInvalidRule = errors.New("invalid scrub rule")

// Config configures the scrubber.
type Config struct {
	// Enabled controls whether scrubbing is active.
	Enabled bool `koanf:"enabled" yaml:"enabled"`

	// Rules defines the detection rules. Nil means DefaultRules.
	Rules []Rule `koanf:"rules" yaml:"rules"`

	// Mask replaces detected secrets (default: "***").
	Mask string `koanf:"mask" yaml:"mask"`

	// AllowList contains patterns for matches that must be kept.
	AllowList []string `koanf:"allow_list" yaml:"allow_list"`
}

// Rule defines a secret detection rule.
type Rule struct {
	ID string `koanf:"id" yaml:"id"`

	// Pattern matches the secret. If it has a capture group, only the first
	// group is masked.
	Pattern string `koanf:"pattern" yaml:"pattern"`

	// Keywords gate the rule: at least one must appear (case-insensitive)
	// before the pattern is tried.
	Keywords []string `koanf:"keywords" yaml:"keywords"`
}

// DefaultConfig returns an enabled configuration with the default rules.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Rules:   DefaultRules(),
		Mask:    DefaultMask,
	}
}

type compiledRule struct {
	id       string
	pattern  *regexp.Regexp
	keywords []*regexp.Regexp
}

// compile validates cfg and returns its compiled rules and allow list.
func compile(cfg *Config) ([]*compiledRule, []*regexp.Regexp, error) {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	compiled := make([]*compiledRule, 0, len(rules))
	for i, rule := range rules {
		if rule.ID == "" {
			return nil, nil, fmt.Errorf("%w: rule %d: id is required", ErrInvalidRule, i)
		}
		if rule.Pattern == "" {
			return nil, nil, fmt.Errorf("%w: rule %s: pattern is required", ErrInvalidRule, rule.ID)
		}
		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: rule %s: %v", ErrInvalidRule, rule.ID, err)
		}
		cr := &compiledRule{
			id:       rule.ID,
			pattern:  pattern,
			keywords: make([]*regexp.Regexp, 0, len(rule.Keywords)),
		}
		for _, kw := range rule.Keywords {
			cr.keywords = append(cr.keywords, regexp.MustCompile("(?i)"+regexp.QuoteMeta(kw)))
		}
		compiled = append(compiled, cr)
	}

	allow := make([]*regexp.Regexp, 0, len(cfg.AllowList))
	for i, p := range cfg.AllowList {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: allow_list %d: %v", ErrInvalidRule, i, err)
		}
		allow = append(allow, re)
	}

	return compiled, allow, nil
}
