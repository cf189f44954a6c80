// Package sanitize neutralizes characters known to hang native
// terminal execution: Thai-block script mixing, zero-width invisible
// formatting and raw control characters.
//
// Everything here is a pure function of its input. Sanitize is total
// and idempotent; Validate never mutates its argument.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/cmdgate/internal/domain"
)

// Sanitizer applies the character tables plus the dangerous-operation
// patterns from the loaded policy.
type Sanitizer struct {
	patterns  []compiledPattern
	maxLength int
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule domain.DangerPattern
}

// New compiles the danger patterns. maxLength of 0 selects the
// default ceiling of 1000 characters.
func New(patterns []domain.DangerPattern, maxLength int) (*Sanitizer, error) {
	var compiled []compiledPattern
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile danger pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	if maxLength == 0 {
		maxLength = 1000
	}
	return &Sanitizer{patterns: compiled, maxLength: maxLength}, nil
}

func isThai(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

func isInvisible(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF':
		return true
	}
	return false
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

// Sanitize strips Thai, invisible and control characters, then trims
// surrounding whitespace. It never fails and only removes characters,
// so len(Sanitize(x)) <= len(x).
func (s *Sanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isThai(r) || isInvisible(r) || isControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Report sanitizes and describes what was removed.
func (s *Sanitizer) Report(text string) domain.SanitizationReport {
	var counts domain.CharacterCounts
	for _, r := range text {
		switch {
		case isThai(r):
			counts.Thai++
		case isInvisible(r):
			counts.Invisible++
		case isControl(r):
			counts.Control++
		}
	}
	sanitized := s.Sanitize(text)
	return domain.SanitizationReport{
		Original:          text,
		Sanitized:         sanitized,
		CharactersRemoved: len([]rune(text)) - len([]rune(sanitized)),
		CategoryCounts:    counts,
	}
}

// Validate reports every reason the text should not run: problematic
// character classes, emptiness after sanitization, dangerous-operation
// matches and the length ceiling. The sanitized form rides along for
// convenience.
func (s *Sanitizer) Validate(text string) domain.ValidationResult {
	sanitized := s.Sanitize(text)
	var issues []string

	hasThai, hasInvisible, hasControl := false, false, false
	for _, r := range text {
		switch {
		case isThai(r):
			hasThai = true
		case isInvisible(r):
			hasInvisible = true
		case isControl(r):
			hasControl = true
		}
	}
	if hasThai {
		issues = append(issues, "Contains Thai characters")
	}
	if hasInvisible {
		issues = append(issues, "Contains invisible characters")
	}
	if hasControl {
		issues = append(issues, "Contains control characters")
	}
	if sanitized == "" {
		issues = append(issues, "Command is empty")
	}
	for _, pattern := range s.patterns {
		if pattern.re.MatchString(sanitized) {
			issues = append(issues, fmt.Sprintf("Dangerous operation: %s", pattern.rule.Message))
		}
	}
	if len([]rune(text)) > s.maxLength {
		issues = append(issues, fmt.Sprintf("Command exceeds maximum length of %d characters", s.maxLength))
	}

	return domain.ValidationResult{
		IsValid:       len(issues) == 0,
		Issues:        issues,
		SanitizedText: sanitized,
	}
}

// DetectEncodingIssues reports mixed-script confusion: Thai characters
// sharing the text with Latin letters or digits. This is the exact
// shape of the corruption this layer exists to prevent.
func (s *Sanitizer) DetectEncodingIssues(text string) bool {
	hasThai, hasLatin := false, false
	for _, r := range text {
		if isThai(r) {
			hasThai = true
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			hasLatin = true
		}
	}
	return hasThai && hasLatin
}

// ProblematicCharacters lists every offending character for
// diagnostics, class by class (thai, invisible, control), preserving
// encounter order within each class.
func (s *Sanitizer) ProblematicCharacters(text string) []string {
	var out []string
	for _, r := range text {
		if isThai(r) {
			out = append(out, fmt.Sprintf("thai: %s (U+%04X)", string(r), r))
		}
	}
	for _, r := range text {
		if isInvisible(r) {
			out = append(out, fmt.Sprintf("invisible: %s (U+%04X)", string(r), r))
		}
	}
	for _, r := range text {
		if isControl(r) {
			out = append(out, fmt.Sprintf("control: %s (U+%04X)", string(r), r))
		}
	}
	return out
}

// SanitizeAll applies Sanitize element-wise, preserving order.
func (s *Sanitizer) SanitizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = s.Sanitize(text)
	}
	return out
}

// ValidateAll applies Validate element-wise, preserving order.
func (s *Sanitizer) ValidateAll(texts []string) []domain.ValidationResult {
	out := make([]domain.ValidationResult, len(texts))
	for i, text := range texts {
		out[i] = s.Validate(text)
	}
	return out
}

// MaxLength returns the configured command length ceiling.
func (s *Sanitizer) MaxLength() int {
	return s.maxLength
}

// PatternCount returns how many danger patterns are loaded.
func (s *Sanitizer) PatternCount() int {
	return len(s.patterns)
}
