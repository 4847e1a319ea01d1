// Package config loads process-wide interception defaults from a YAML file
// and LOGWRAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/fyrsmithlabs/logwrap/internal/leaks"
	"github.com/fyrsmithlabs/logwrap/internal/logging"
	"github.com/fyrsmithlabs/logwrap/internal/secrets"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// levels is the closed set accepted for level fields.
var levels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config holds the process-wide interception defaults.
type Config struct {
	AppName string `koanf:"app_name" yaml:"app_name"`

	Level       string `koanf:"level" yaml:"level"`
	ErrorLevel  string `koanf:"error_level" yaml:"error_level"`
	ParamsLevel string `koanf:"params_level" yaml:"params_level,omitempty"`

	Timestamp  bool            `koanf:"timestamp" yaml:"timestamp"`
	ErrorsOnly bool            `koanf:"errors_only" yaml:"errors_only"`
	LogErrors  LogErrorsConfig `koanf:"log_errors" yaml:"log_errors"`
	Duplicates bool            `koanf:"duplicates" yaml:"duplicates"`

	KeepMetadata    []string `koanf:"keep_metadata" yaml:"keep_metadata,omitempty"`
	Getters         bool     `koanf:"getters" yaml:"getters"`
	Setters         bool     `koanf:"setters" yaml:"setters"`
	ClassProperties bool     `koanf:"class_properties" yaml:"class_properties"`
	Include         []string `koanf:"include" yaml:"include,omitempty"`
	Exclude         []string `koanf:"exclude" yaml:"exclude,omitempty"`

	Sanitize SanitizeConfig `koanf:"sanitize" yaml:"sanitize"`
	Fallback FallbackConfig `koanf:"fallback" yaml:"fallback"`
	Logging  logging.Config `koanf:"logging" yaml:"logging"`
}

// LogErrorsConfig controls error-chain handling.
type LogErrorsConfig struct {
	// Deepest logs a propagating error only at the innermost wrapped frame.
	Deepest bool `koanf:"deepest" yaml:"deepest"`
}

// SanitizeConfig selects the sanitizers installed for params, results and errors.
type SanitizeConfig struct {
	// Redact lists regular expressions whose matches are masked.
	Redact   []string       `koanf:"redact" yaml:"redact,omitempty"`
	Scrub    secrets.Config `koanf:"scrub" yaml:"scrub"`
	Gitleaks GitleaksConfig `koanf:"gitleaks" yaml:"gitleaks"`
}

// GitleaksConfig enables the full Gitleaks rule set after the other
// sanitizers. Allowlists are Gitleaks-style TOML files; missing ones are skipped.
type GitleaksConfig struct {
	Enabled    bool     `koanf:"enabled" yaml:"enabled"`
	Allowlists []string `koanf:"allowlists" yaml:"allowlists,omitempty"`
}

// FallbackConfig throttles reports of swallowed sanitizer, level and logger failures.
type FallbackConfig struct {
	Interval Duration `koanf:"interval" yaml:"interval"`
	Burst    int      `koanf:"burst" yaml:"burst"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg := &Config{
		Sanitize: SanitizeConfig{
			Scrub: secrets.Config{Mask: secrets.DefaultMask},
		},
		Logging: *logging.NewDefaultConfig(),
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.ErrorLevel == "" {
		cfg.ErrorLevel = "error"
	}
	if cfg.Fallback.Interval == 0 {
		cfg.Fallback.Interval = Duration(time.Second)
	}
	if cfg.Fallback.Burst == 0 {
		cfg.Fallback.Burst = 5
	}
	if cfg.Sanitize.Scrub.Mask == "" {
		cfg.Sanitize.Scrub.Mask = secrets.DefaultMask
	}
}

// Validate checks the configuration. All problems are reported wrapped in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	for field, level := range map[string]string{
		"level":       c.Level,
		"error_level": c.ErrorLevel,
	} {
		if !levels[level] {
			errs = append(errs, fmt.Errorf("%s: unknown level %q", field, level))
		}
	}
	if c.ParamsLevel != "" && !levels[c.ParamsLevel] {
		errs = append(errs, fmt.Errorf("params_level: unknown level %q", c.ParamsLevel))
	}

	for _, name := range c.Include {
		if name == "" {
			errs = append(errs, errors.New("include: empty member name"))
		}
	}
	for _, name := range c.Exclude {
		if name == "" {
			errs = append(errs, errors.New("exclude: empty member name"))
		}
	}
	for _, key := range c.KeepMetadata {
		if key == "" {
			errs = append(errs, errors.New("keep_metadata: empty key"))
		}
	}

	for _, p := range c.Sanitize.Redact {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("sanitize.redact: invalid pattern %q: %w", p, err))
		}
	}
	if c.Sanitize.Scrub.Enabled {
		if _, err := secrets.New(&c.Sanitize.Scrub); err != nil {
			errs = append(errs, fmt.Errorf("sanitize.scrub: %w", err))
		}
	}
	if c.Sanitize.Gitleaks.Enabled {
		if _, err := leaks.LoadAllowlists(c.Sanitize.Gitleaks.Allowlists...); err != nil {
			errs = append(errs, fmt.Errorf("sanitize.gitleaks: %w", err))
		}
	}

	if c.Fallback.Burst < 0 {
		errs = append(errs, fmt.Errorf("fallback.burst: must be non-negative, got %d", c.Fallback.Burst))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
