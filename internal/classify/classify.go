// Package classify assigns a category and a risk level to sanitized
// command text. Both are pure functions of the text driven by the
// ordered rule tables from the policy, so any record's classification
// can be re-derived at any time.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/cmdgate/internal/domain"
)

// Classifier holds compiled category and risk tables.
type Classifier struct {
	categories []domain.CategoryRule
	risks      []compiledRiskRule
}

type compiledRiskRule struct {
	re    *regexp.Regexp
	level domain.RiskLevel
}

// New compiles the rule tables.
func New(categories []domain.CategoryRule, risks []domain.RiskRule) (*Classifier, error) {
	var compiled []compiledRiskRule
	for _, rule := range risks {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile risk pattern %q: %w", rule.Pattern, err)
		}
		compiled = append(compiled, compiledRiskRule{re: re, level: ParseRiskLevel(rule.Level)})
	}
	return &Classifier{categories: categories, risks: compiled}, nil
}

// Category returns the first matching category rule, or "other".
func (c *Classifier) Category(command string) domain.Category {
	command = strings.TrimSpace(command)
	first := command
	if idx := strings.IndexAny(command, " \t"); idx > 0 {
		first = command[:idx]
	}
	for _, rule := range c.categories {
		for _, prefix := range rule.Prefixes {
			if first == prefix {
				return rule.Category
			}
		}
		for _, sub := range rule.Contains {
			if strings.Contains(command, sub) {
				return rule.Category
			}
		}
	}
	return domain.CategoryOther
}

// Risk returns the highest risk level among matching rules, or low.
func (c *Classifier) Risk(command string) domain.RiskLevel {
	level := domain.RiskLow
	for _, rule := range c.risks {
		if rule.re.MatchString(command) && domain.MoreSevere(rule.level, level) {
			level = rule.level
		}
	}
	return level
}

// ParseRiskLevel maps a policy string onto a risk level, defaulting
// to low.
func ParseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskLow
	}
}
