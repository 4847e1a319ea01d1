// internal/logging/config.go
package logging

import (
	"fmt"
	"regexp"
)

// Config holds configuration for the sink that receives interception logs
// when no Logger is supplied.
type Config struct {
	Level     string            `koanf:"level" yaml:"level"`
	Format    string            `koanf:"format" yaml:"format"`
	Output    OutputConfig      `koanf:"output" yaml:"output"`
	Caller    CallerConfig      `koanf:"caller" yaml:"caller"`
	Fields    map[string]string `koanf:"fields" yaml:"fields"`
	Redaction RedactionConfig   `koanf:"redaction" yaml:"redaction"`
}

// OutputConfig controls where logs are written.
type OutputConfig struct {
	Stdout bool       `koanf:"stdout" yaml:"stdout"`
	OTEL   bool       `koanf:"otel" yaml:"otel"`
	File   FileConfig `koanf:"file" yaml:"file"`
}

// FileConfig enables a size-rotated log file.
type FileConfig struct {
	Path       string `koanf:"path" yaml:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `koanf:"compress" yaml:"compress"`
}

// Enabled reports whether file output is configured.
func (f FileConfig) Enabled() bool {
	return f.Path != ""
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
	Skip    int  `koanf:"skip" yaml:"skip"`
}

// RedactionConfig controls sink-level redaction. It runs after the
// interception sanitizers and only sees what they produced.
type RedactionConfig struct {
	Enabled  bool     `koanf:"enabled" yaml:"enabled"`
	Fields   []string `koanf:"fields" yaml:"fields"`
	Patterns []string `koanf:"patterns" yaml:"patterns"`
}

// NewDefaultConfig returns the console configuration used by the default logger.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  "trace",
		Format: "console",
		Output: OutputConfig{
			Stdout: true,
			File: FileConfig{
				MaxSizeMB:  100,
				MaxBackups: 7,
				MaxAgeDays: 30,
			},
		},
		Caller: CallerConfig{
			Enabled: false,
		},
		Redaction: RedactionConfig{
			Enabled: true,
			Fields: []string{
				"password", "secret", "token", "api_key",
				"authorization", "credential", "private_key",
			},
			Patterns: []string{
				`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`,
			},
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if _, err := LevelFromString(c.Level); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stdout && !c.Output.OTEL && !c.Output.File.Enabled() {
		return fmt.Errorf("at least one output must be enabled (stdout, otel or file)")
	}
	if c.Output.File.Enabled() && c.Output.File.MaxSizeMB <= 0 {
		return fmt.Errorf("file max_size_mb must be > 0, got %d", c.Output.File.MaxSizeMB)
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}

	if c.Redaction.Enabled {
		for _, pattern := range c.Redaction.Patterns {
			if len(pattern) > maxPatternLen {
				return fmt.Errorf("redaction pattern too long (max %d chars): %q", maxPatternLen, pattern)
			}
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("invalid redaction pattern %q: %w", pattern, err)
			}
		}
	}

	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}

	return nil
}
