package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix marks environment variables read by Load.
	EnvPrefix = "LOGWRAP_"
)

// sections maps environment prefixes to nested keys, longest first, so
// LOGWRAP_LOGGING_OUTPUT_FILE_PATH maps to logging.output.file.path rather
// than logging.output_file_path.
var sections = []struct{ env, key string }{
	{"logging_output_file", "logging.output.file"},
	{"logging_output", "logging.output"},
	{"logging_redaction", "logging.redaction"},
	{"logging_caller", "logging.caller"},
	{"logging_fields", "logging.fields"},
	{"logging", "logging"},
	{"sanitize_scrub", "sanitize.scrub"},
	{"sanitize_gitleaks", "sanitize.gitleaks"},
	{"sanitize", "sanitize"},
	{"log_errors", "log_errors"},
	{"fallback", "fallback"},
}

// Load reads configuration from the YAML file at path, then overrides it with
// LOGWRAP_* environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (LOGWRAP_LEVEL, LOGWRAP_LOG_ERRORS_DEEPEST, etc.)
//  2. YAML config file
//  3. Defaults (see Default)
//
// An empty path skips the file. A missing file is an error, since the caller
// asked for it explicitly.
//
// # Environment Variable Mapping
//
//	LOGWRAP_APP_NAME            -> app_name
//	LOGWRAP_PARAMS_LEVEL        -> params_level
//	LOGWRAP_LOG_ERRORS_DEEPEST  -> log_errors.deepest
//	LOGWRAP_LOGGING_FORMAT      -> logging.format
//	LOGWRAP_SANITIZE_SCRUB_MASK -> sanitize.scrub.mask
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// readConfigFile opens path once and validates its size on the open
// descriptor before reading it.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// envKey maps LOGWRAP_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if field, ok := strings.CutPrefix(key, section.env+"_"); ok {
			return section.key + "." + field
		}
	}
	return key
}
