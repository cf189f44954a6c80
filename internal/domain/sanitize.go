package domain

// CharacterCounts breaks removed characters down by class.
type CharacterCounts struct {
	Thai      int `json:"thai"`
	Invisible int `json:"invisible"`
	Control   int `json:"control"`
}

// Total sums all classes.
func (c CharacterCounts) Total() int {
	return c.Thai + c.Invisible + c.Control
}

// SanitizationReport describes one sanitization pass.
type SanitizationReport struct {
	Original          string          `json:"original"`
	Sanitized         string          `json:"sanitized"`
	CharactersRemoved int             `json:"characters_removed"`
	CategoryCounts    CharacterCounts `json:"category_counts"`
}

// ValidationResult reports why a command may not run. Issues is empty
// exactly when IsValid is true.
type ValidationResult struct {
	IsValid       bool     `json:"is_valid"`
	Issues        []string `json:"issues"`
	SanitizedText string   `json:"sanitized_text"`
}

// DangerPattern is one dangerous-operation rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
}

// CategoryRule assigns a category by command prefix or substring.
// Rules are evaluated in order; the first match wins.
type CategoryRule struct {
	Category Category `yaml:"category"`
	Prefixes []string `yaml:"prefixes"`
	Contains []string `yaml:"contains"`
}

// RiskRule raises the risk level when its pattern matches.
type RiskRule struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
}
