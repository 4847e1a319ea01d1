package leaks

import "encoding/json"

// Summary aggregates findings for reporting. It never holds secret values.
type Summary struct {
	TotalSecrets int            `json:"total_secrets"`
	UniqueRules  int            `json:"unique_rules"`
	RuleCounts   map[string]int `json:"rule_counts"`
}

// Summarize counts findings per rule.
func Summarize(findings []Finding) Summary {
	s := Summary{RuleCounts: make(map[string]int)}
	for _, f := range findings {
		s.RuleCounts[f.RuleID]++
	}
	s.TotalSecrets = len(findings)
	s.UniqueRules = len(s.RuleCounts)
	return s
}

// Add merges other into s.
func (s *Summary) Add(other Summary) {
	if s.RuleCounts == nil {
		s.RuleCounts = make(map[string]int)
	}
	for id, n := range other.RuleCounts {
		s.RuleCounts[id] += n
	}
	s.TotalSecrets += other.TotalSecrets
	s.UniqueRules = len(s.RuleCounts)
}

// JSON returns the summary as compact JSON.
func (s Summary) JSON() string {
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}
