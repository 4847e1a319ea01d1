package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "error", cfg.ErrorLevel)
	assert.Empty(t, cfg.ParamsLevel)
	assert.False(t, cfg.LogErrors.Deepest)
	assert.False(t, cfg.Sanitize.Scrub.Enabled)
	assert.Equal(t, "***", cfg.Sanitize.Scrub.Mask)
	assert.Equal(t, time.Second, cfg.Fallback.Interval.Duration())
	assert.Equal(t, 5, cfg.Fallback.Burst)
	assert.Equal(t, "console", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown level",
			mutate:  func(c *Config) { c.Level = "verbose" },
			wantErr: `level: unknown level "verbose"`,
		},
		{
			name:    "unknown error level",
			mutate:  func(c *Config) { c.ErrorLevel = "fatal" },
			wantErr: `error_level: unknown level "fatal"`,
		},
		{
			name:    "unknown params level",
			mutate:  func(c *Config) { c.ParamsLevel = "loud" },
			wantErr: `params_level: unknown level "loud"`,
		},
		{
			name:   "params level set",
			mutate: func(c *Config) { c.ParamsLevel = "debug" },
		},
		{
			name:    "empty include entry",
			mutate:  func(c *Config) { c.Include = []string{"Get", ""} },
			wantErr: "include: empty member name",
		},
		{
			name:    "empty exclude entry",
			mutate:  func(c *Config) { c.Exclude = []string{""} },
			wantErr: "exclude: empty member name",
		},
		{
			name:    "empty metadata key",
			mutate:  func(c *Config) { c.KeepMetadata = []string{""} },
			wantErr: "keep_metadata: empty key",
		},
		{
			name:    "invalid redact pattern",
			mutate:  func(c *Config) { c.Sanitize.Redact = []string{"[unclosed"} },
			wantErr: "sanitize.redact: invalid pattern",
		},
		{
			name: "invalid scrub rule",
			mutate: func(c *Config) {
				c.Sanitize.Scrub.Enabled = true
				c.Sanitize.Scrub.AllowList = []string{"("}
			},
			wantErr: "sanitize.scrub",
		},
		{
			name: "gitleaks with missing allowlist",
			mutate: func(c *Config) {
				c.Sanitize.Gitleaks.Enabled = true
				c.Sanitize.Gitleaks.Allowlists = []string{"/nonexistent/allow.toml"}
			},
		},
		{
			name:    "negative burst",
			mutate:  func(c *Config) { c.Fallback.Burst = -1 },
			wantErr: "fallback.burst",
		},
		{
			name:    "invalid logging config",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "250ms", want: 250 * time.Millisecond},
		{in: "2", want: 2 * time.Second},
		{in: " 1m ", want: time.Minute},
		{in: "0", want: 0},
		{in: "-1s", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}

	text, err := Duration(2 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2s", string(text))
}
