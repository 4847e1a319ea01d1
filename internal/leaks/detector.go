package leaks

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	gitleaksRegexp "github.com/zricethezav/gitleaks/v8/regexp"
)

// Finding is one detected secret.
type Finding struct {
	RuleID   string
	RuleDesc string
	Line     int
	Secret   string
}

// Detector scans text with the default Gitleaks configuration. Building
// one compiles every rule, so callers keep it around.
type Detector struct {
	mu       sync.Mutex
	detector *detect.Detector
}

// New builds a Detector, applying allow when it is non-empty.
func New(allow *Allowlist) (*Detector, error) {
	if !allow.Empty() {
		if err := allow.validate(); err != nil {
			return nil, err
		}
	}

	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading gitleaks rules: %w", err)
	}
	if !allow.Empty() {
		applyAllowlist(&d.Config, allow)
	}
	return &Detector{detector: d}, nil
}

// Detect returns the secrets found in content.
func (d *Detector) Detect(content string) []Finding {
	if content == "" {
		return nil
	}

	d.mu.Lock()
	found := d.detector.DetectString(content)
	d.mu.Unlock()

	out := make([]Finding, 0, len(found))
	for _, f := range found {
		if f.Secret == "" {
			continue
		}
		out = append(out, Finding{
			RuleID:   f.RuleID,
			RuleDesc: f.Description,
			Line:     f.StartLine,
			Secret:   f.Secret,
		})
	}
	return out
}

// Redact replaces every detected secret in content with mask.
func (d *Detector) Redact(content, mask string) (string, []Finding) {
	findings := d.Detect(content)
	if len(findings) == 0 {
		return content, nil
	}
	return replaceSecrets(content, findings, mask), findings
}

// replaceSecrets masks longer secrets first so a secret that contains
// another is not left half masked.
func replaceSecrets(content string, findings []Finding, mask string) string {
	secrets := make([]string, 0, len(findings))
	seen := make(map[string]struct{}, len(findings))
	for _, f := range findings {
		if _, ok := seen[f.Secret]; ok {
			continue
		}
		seen[f.Secret] = struct{}{}
		secrets = append(secrets, f.Secret)
	}
	sort.Slice(secrets, func(i, j int) bool { return len(secrets[i]) > len(secrets[j]) })

	for _, s := range secrets {
		content = strings.ReplaceAll(content, s, mask)
	}
	return content
}

func applyAllowlist(cfg *gitleaksConfig.Config, allow *Allowlist) {
	global := &gitleaksConfig.Allowlist{
		Description: "logwrap allowlist",
		StopWords:   append([]string(nil), allow.StopWords...),
	}
	for _, p := range allow.Regexes {
		// Validated in New.
		re := regexp.MustCompile(p)
		global.Regexes = append(global.Regexes, (*gitleaksRegexp.Regexp)(re))
	}
	cfg.Allowlists = append(cfg.Allowlists, global)
}
