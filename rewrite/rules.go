package rewrite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/srclift/srep/rewrite/query"
)

// Rule pairs a match pattern with its rewrite template. An empty Rewrite
// deletes whatever Match finds.
type Rule struct {
	Name    string `yaml:"name" json:"name"`
	Match   string `yaml:"match" json:"match"`
	Rewrite string `yaml:"rewrite" json:"rewrite"`
}

// RuleSet is the on-disk rule file format.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// RuleResult records the changes one rule produced. Offsets refer to the
// text the rule ran against, after any earlier rules in the set.
type RuleResult struct {
	Rule    Rule     `json:"rule"`
	Changes []Change `json:"changes"`
}

// LoadRules reads and validates a YAML rule file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	var cfg RuleSet
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	for i, rule := range cfg.Rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rule %d: missing name", i+1)
		}
		if rule.Match == "" {
			return nil, fmt.Errorf("rule %q: missing match pattern", rule.Name)
		}
		if _, err := query.Parse(rule.Match); err != nil {
			return nil, fmt.Errorf("rule %q: invalid match pattern: %w", rule.Name, err)
		}
	}
	return cfg.Rules, nil
}

// ApplyRules runs each rule's transform in order, feeding the output of one
// rule into the next. A malformed pattern aborts with an error naming the
// rule.
func ApplyRules(source string, rules []Rule) (string, []RuleResult, error) {
	result := source
	results := make([]RuleResult, 0, len(rules))
	for _, rule := range rules {
		tr, err := Transform(result, rule.Match, rule.Rewrite)
		if err != nil {
			return "", nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		results = append(results, RuleResult{Rule: rule, Changes: tr.Changes})
		result = tr.Result
	}
	return result, results, nil
}
