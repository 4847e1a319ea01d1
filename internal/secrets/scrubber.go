package secrets

import (
	"regexp"
	"sort"
)

// Scrubber detects and masks secrets.
type Scrubber interface {
	// Scrub masks secrets in content.
	Scrub(content string) Result

	// Check detects secrets without masking.
	Check(content string) Result

	// IsEnabled returns whether scrubbing is enabled.
	IsEnabled() bool
}

// Result contains the scrubbing result.
type Result struct {
	// Scrubbed is the content with secrets masked.
	Scrubbed string

	// Findings lists what was detected. Matched text is never included.
	Findings []Finding
}

// Finding represents a detected secret.
type Finding struct {
	RuleID string
	Start  int
	End    int
}

// HasFindings returns true if any secrets were found.
func (r Result) HasFindings() bool {
	return len(r.Findings) > 0
}

// RuleIDs returns the distinct rule IDs that matched, sorted.
func (r Result) RuleIDs() []string {
	seen := make(map[string]struct{}, len(r.Findings))
	ids := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		if _, ok := seen[f.RuleID]; ok {
			continue
		}
		seen[f.RuleID] = struct{}{}
		ids = append(ids, f.RuleID)
	}
	sort.Strings(ids)
	return ids
}

type scrubber struct {
	enabled bool
	mask    string
	rules   []*compiledRule
	allow   []*regexp.Regexp
}

// New creates a Scrubber. If cfg is nil, DefaultConfig() is used.
// The scrubber is immutable and safe for concurrent use.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Enabled {
		return NoopScrubber{}, nil
	}

	rules, allow, err := compile(cfg)
	if err != nil {
		return nil, err
	}

	mask := cfg.Mask
	if mask == "" {
		mask = DefaultMask
	}

	return &scrubber{
		enabled: true,
		mask:    mask,
		rules:   rules,
		allow:   allow,
	}, nil
}

// MustNew creates a new Scrubber, panicking on error.
func MustNew(cfg *Config) Scrubber {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Scrub masks secrets in content.
func (s *scrubber) Scrub(content string) Result {
	findings := s.find(content)
	if len(findings) == 0 {
		return Result{Scrubbed: content}
	}
	return Result{
		Scrubbed: s.apply(content, findings),
		Findings: findings,
	}
}

// Check detects secrets without masking.
func (s *scrubber) Check(content string) Result {
	return Result{Scrubbed: content, Findings: s.find(content)}
}

// IsEnabled returns true.
func (s *scrubber) IsEnabled() bool {
	return s.enabled
}

// find returns the spans to mask, ordered by start.
func (s *scrubber) find(content string) []Finding {
	var findings []Finding
	for _, rule := range s.rules {
		if !rule.applies(content) {
			continue
		}
		for _, m := range rule.pattern.FindAllStringSubmatchIndex(content, -1) {
			start, end := m[0], m[1]
			// Mask only the first group when the rule captures one.
			if len(m) >= 4 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			if start == end || s.isAllowed(content[start:end]) {
				continue
			}
			findings = append(findings, Finding{RuleID: rule.id, Start: start, End: end})
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Start < findings[j].Start
	})
	return findings
}

// apply masks the findings, merging overlapping spans so the mask is
// written once per region.
func (s *scrubber) apply(content string, findings []Finding) string {
	out := make([]byte, 0, len(content))
	pos := 0
	for i := 0; i < len(findings); i++ {
		start, end := findings[i].Start, findings[i].End
		for i+1 < len(findings) && findings[i+1].Start <= end {
			i++
			if findings[i].End > end {
				end = findings[i].End
			}
		}
		if start < pos {
			start = pos
		}
		out = append(out, content[pos:start]...)
		out = append(out, s.mask...)
		pos = end
	}
	out = append(out, content[pos:]...)
	return string(out)
}

func (s *scrubber) isAllowed(match string) bool {
	for _, re := range s.allow {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

func (r *compiledRule) applies(content string) bool {
	if len(r.keywords) == 0 {
		return true
	}
	for _, kw := range r.keywords {
		if kw.MatchString(content) {
			return true
		}
	}
	return false
}

// NoopScrubber returns content unchanged.
type NoopScrubber struct{}

// Scrub returns content unchanged.
func (NoopScrubber) Scrub(content string) Result { return Result{Scrubbed: content} }

// Check returns content unchanged.
func (NoopScrubber) Check(content string) Result { return Result{Scrubbed: content} }

// IsEnabled returns false.
func (NoopScrubber) IsEnabled() bool { return false }

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = NoopScrubber{}
)
