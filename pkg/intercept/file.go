package intercept

import (
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/log/global"

	"github.com/fyrsmithlabs/logwrap/internal/config"
	"github.com/fyrsmithlabs/logwrap/internal/logging"
	"github.com/fyrsmithlabs/logwrap/internal/secrets"
)

// ConfigFromFile loads process-wide defaults from a YAML file and LOGWRAP_*
// environment variables. An empty path reads the environment only.
//
// The returned Config logs through a zap logger built from the file's logging
// section. Its OTEL output, when enabled, uses the global LoggerProvider.
func ConfigFromFile(path string) (Config, error) {
	fc, err := config.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return fromFileConfig(fc)
}

func fromFileConfig(fc *config.Config) (Config, error) {
	logger, err := logging.NewLogger(&fc.Logging, global.GetLoggerProvider())
	if err != nil {
		return Config{}, fmt.Errorf("%w: logging: %w", ErrInvalidConfig, err)
	}

	cfg := Config{
		Logger:   &zapSink{log: logger},
		AppName:  fc.AppName,
		Fallback: newFallback(logger.Named("logwrap"), fc.Fallback.Interval.Duration(), fc.Fallback.Burst),
		Options: Options{
			Timestamp:       Bool(fc.Timestamp),
			ErrorsOnly:      Bool(fc.ErrorsOnly),
			LogErrors:       LogErrors{Deepest: Bool(fc.LogErrors.Deepest)},
			Duplicates:      Bool(fc.Duplicates),
			KeepMetadata:    fc.KeepMetadata,
			Getters:         Bool(fc.Getters),
			Setters:         Bool(fc.Setters),
			ClassProperties: Bool(fc.ClassProperties),
			Include:         fc.Include,
			Exclude:         fc.Exclude,
		},
	}

	for _, lv := range []struct {
		value string
		dst   *LevelSpec
	}{
		{fc.Level, &cfg.Level},
		{fc.ErrorLevel, &cfg.ErrorLevel},
		{fc.ParamsLevel, &cfg.ParamsLevel},
	} {
		if lv.value == "" {
			continue
		}
		l, err := ParseLevel(lv.value)
		if err != nil {
			return Config{}, err
		}
		*lv.dst = Static(l)
	}

	s, err := fileSanitizer(fc.Sanitize)
	if err != nil {
		return Config{}, err
	}
	if s != nil {
		cfg.ParamsSanitizer = s
		cfg.ResultSanitizer = s
		cfg.ErrorSanitizer = s
	}
	return cfg, nil
}

// fileSanitizer builds the sanitizer described by a file's sanitize section,
// or nil when it only asks for the default.
func fileSanitizer(sc config.SanitizeConfig) (Sanitizer, error) {
	var steps []Sanitizer

	if len(sc.Redact) > 0 {
		parts := make([]string, len(sc.Redact))
		for i, p := range sc.Redact {
			parts[i] = "(?:" + p + ")"
		}
		re, err := regexp.Compile(strings.Join(parts, "|"))
		if err != nil {
			return nil, fmt.Errorf("%w: sanitize.redact: %w", ErrInvalidConfig, err)
		}
		steps = append(steps, Redact(re))
	}

	if sc.Scrub.Enabled {
		s, err := secrets.New(&sc.Scrub)
		if err != nil {
			return nil, fmt.Errorf("%w: sanitize.scrub: %w", ErrInvalidConfig, err)
		}
		steps = append(steps, scrubWith(s))
	}

	if sc.Gitleaks.Enabled {
		s, err := Gitleaks(sc.Gitleaks.Allowlists...)
		if err != nil {
			return nil, fmt.Errorf("sanitize.gitleaks: %w", err)
		}
		steps = append(steps, s)
	}

	switch len(steps) {
	case 0:
		return nil, nil
	case 1:
		return steps[0], nil
	default:
		return Chain(steps[0], steps[1:]...), nil
	}
}
