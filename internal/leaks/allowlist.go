package leaks

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Allowlist holds content patterns that are never treated as secrets.
type Allowlist struct {
	Regexes   []string
	StopWords []string
}

// Empty reports whether the allowlist has nothing to apply.
func (a *Allowlist) Empty() bool {
	return a == nil || (len(a.Regexes) == 0 && len(a.StopWords) == 0)
}

// LoadAllowlists reads Gitleaks-style TOML files and merges them. Missing
// files are skipped; a file that exists but is invalid is an error.
//
//	[allowlist]
//	regexes = ['''DEMO_[A-Z_]+''']
//	stopwords = ["example"]
func LoadAllowlists(paths ...string) (*Allowlist, error) {
	merged := &Allowlist{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		a, err := loadTOML(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		merged.Regexes = append(merged.Regexes, a.Regexes...)
		merged.StopWords = append(merged.StopWords, a.StopWords...)
	}
	return merged, nil
}

func loadTOML(path string) (*Allowlist, error) {
	var file struct {
		Allowlist struct {
			Regexes   []string `toml:"regexes"`
			StopWords []string `toml:"stopwords"`
		} `toml:"allowlist"`
	}

	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}

	a := &Allowlist{
		Regexes:   file.Allowlist.Regexes,
		StopWords: file.Allowlist.StopWords,
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func (a *Allowlist) validate() error {
	for _, p := range a.Regexes {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidRegex, p, err)
		}
	}
	return nil
}
