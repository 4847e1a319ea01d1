package secrets

// DefaultRules returns the built-in detection rules. They target the
// credential shapes most likely to show up in method arguments and
// results: key=value pairs, bearer headers, connection strings, and
// self-identifying vendor tokens.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "key-value-secret",
			Pattern:  `(?i)(?:secret|password|passwd|pwd|token)["']?\s*[:=]\s*["']?([^\s"',}]{4,})`,
			Keywords: []string{"secret", "pass", "pwd", "token"},
		},
		{
			ID:       "api-key",
			Pattern:  `(?i)api[_-]?key["']?\s*[:=]\s*["']?([A-Za-z0-9_\-]{12,})`,
			Keywords: []string{"api"},
		},
		{
			ID:       "bearer-token",
			Pattern:  `(?i)bearer\s+([A-Za-z0-9._~+/=-]{8,})`,
			Keywords: []string{"bearer"},
		},
		{
			ID:      "url-credentials",
			Pattern: `[a-zA-Z][a-zA-Z0-9+.-]*://[^:/\s]+:([^@\s*]+)@`,
		},
		{
			ID:      "private-key",
			Pattern: `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY-----[\s\S]*?-----END (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY-----`,
		},
		{
			ID:      "jwt",
			Pattern: `eyJ[A-Za-z0-9_-]{8,}\.eyJ[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{8,}`,
		},
		{
			ID:      "aws-access-key-id",
			Pattern: `(?:AKIA|ASIA|AGPA|AIDA|AROA)[A-Z0-9]{16}`,
		},
		{
			ID:      "github-token",
			Pattern: `(?:ghp|gho|ghu|ghs)_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{22,}`,
		},
		{
			ID:      "slack-token",
			Pattern: `xox[baprs]-[A-Za-z0-9-]{10,}`,
		},
		{
			ID:      "stripe-key",
			Pattern: `(?:sk|rk)_(?:live|test)_[A-Za-z0-9]{16,}`,
		},
	}
}
