// Package policy loads the ordered rule tables (dangerous operations,
// category rules, risk rules) that drive sanitization and
// classification. Rules are data, not code: the YAML file under
// ~/.cmdgate/policy.yaml can extend them without touching control
// flow, and compiled-in defaults apply when the file is missing.
package policy

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdgate/internal/domain"
)

// Document is the YAML schema root.
type Document struct {
	Rules struct {
		DangerPatterns   []domain.DangerPattern `yaml:"danger_patterns"`
		CategoryRules    []domain.CategoryRule  `yaml:"category_rules"`
		RiskRules        []domain.RiskRule      `yaml:"risk_rules"`
		MaxCommandLength int                    `yaml:"max_command_length"`
	} `yaml:"rules"`
}

// Load reads the policy file, falling back to defaults when the file
// is missing or leaves a table empty.
func Load(path string) (Document, error) {
	var doc Document
	path = ResolvePath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return withDefaults(doc), nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return withDefaults(doc), nil
}

// Save writes the document to disk.
func Save(path string, doc Document) error {
	path = ResolvePath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ResolvePath expands the policy path to an absolute location.
func ResolvePath(path string) string {
	if path == "" {
		return filepath.Join(userHome(), ".cmdgate", "policy.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHome(), path[2:])
	}
	return filepath.Join(userHome(), path)
}

func withDefaults(doc Document) Document {
	if len(doc.Rules.DangerPatterns) == 0 {
		doc.Rules.DangerPatterns = DefaultDangerPatterns()
	}
	if len(doc.Rules.CategoryRules) == 0 {
		doc.Rules.CategoryRules = DefaultCategoryRules()
	}
	if len(doc.Rules.RiskRules) == 0 {
		doc.Rules.RiskRules = DefaultRiskRules()
	}
	if doc.Rules.MaxCommandLength == 0 {
		doc.Rules.MaxCommandLength = 1000
	}
	return doc
}

// DefaultDangerPatterns covers the operations validation refuses
// outright: recursive deletes, force kills, filesystem formats and
// host shutdown.
func DefaultDangerPatterns() []domain.DangerPattern {
	return []domain.DangerPattern{
		{Pattern: `rm\s+-rf?\s+/(\s|$)`, Level: "critical", Message: "Recursive delete of root"},
		{Pattern: `rm\s+-rf\b`, Level: "critical", Message: "Recursive force delete"},
		{Pattern: `(?i)\bdel\s+/[sq]\b`, Level: "critical", Message: "Recursive delete"},
		{Pattern: `\bkill\s+-9\b`, Level: "high", Message: "Force kill"},
		{Pattern: `\bpkill\s+-9\b`, Level: "high", Message: "Force kill"},
		{Pattern: `(?i)\bmkfs\b|\bformat\s+[a-z]:`, Level: "critical", Message: "Filesystem format"},
		{Pattern: `\bdd\s+if=`, Level: "critical", Message: "Raw disk writing"},
		{Pattern: `(?i)\b(shutdown|reboot|halt|poweroff)\b`, Level: "high", Message: "System shutdown or reboot"},
		{Pattern: `:\(\)\s*\{\s*:\|:&\s*\};:`, Level: "critical", Message: "Fork bomb"},
	}
}

// DefaultCategoryRules assigns categories by first match, so order
// matters: the build/test substring rules come before the tool
// prefixes, otherwise npm/yarn would shadow "npm test" and friends.
func DefaultCategoryRules() []domain.CategoryRule {
	return []domain.CategoryRule{
		{Category: domain.CategoryBuild, Prefixes: []string{"make", "gcc", "gradle", "mvn", "cargo", "webpack"}, Contains: []string{"go build", "npm run build"}},
		{Category: domain.CategoryTest, Prefixes: []string{"pytest", "jest", "mocha"}, Contains: []string{"go test", "npm test", "yarn test"}},
		{Category: domain.CategoryGit, Prefixes: []string{"git"}},
		{Category: domain.CategoryNpm, Prefixes: []string{"npm", "npx"}},
		{Category: domain.CategoryYarn, Prefixes: []string{"yarn"}},
		{Category: domain.CategoryNode, Prefixes: []string{"node"}},
		{Category: domain.CategoryNavigation, Prefixes: []string{"cd", "pushd", "popd"}},
		{Category: domain.CategoryListing, Prefixes: []string{"ls", "dir", "tree", "pwd"}},
		{Category: domain.CategoryDeletion, Prefixes: []string{"rm", "rmdir", "del", "unlink"}},
		{Category: domain.CategoryFileOp, Prefixes: []string{"cp", "mv", "mkdir", "touch", "cat", "chmod", "chown"}},
		{Category: domain.CategoryProcess, Prefixes: []string{"kill", "pkill", "killall", "ps", "top", "htop"}},
	}
}

// DefaultRiskRules; the highest matching level wins, low otherwise.
func DefaultRiskRules() []domain.RiskRule {
	return []domain.RiskRule{
		{Pattern: `rm\s+-rf\b`, Level: "critical"},
		{Pattern: `(?i)\bmkfs\b|\bformat\s+[a-z]:`, Level: "critical"},
		{Pattern: `\bdd\s+if=`, Level: "critical"},
		{Pattern: `>\s*/dev/(sd[a-z]|nvme)`, Level: "critical"},
		{Pattern: `:\(\)\s*\{\s*:\|:&\s*\};:`, Level: "critical"},
		{Pattern: `\bsudo\s+rm\b`, Level: "high"},
		{Pattern: `\bkill\s+-9\b`, Level: "high"},
		{Pattern: `(?i)\b(shutdown|reboot|halt|poweroff)\b`, Level: "high"},
		{Pattern: `\bchmod\s+777\b`, Level: "high"},
		{Pattern: `curl\s+.*\|\s*(sudo\s+)?(ba|z)?sh`, Level: "high"},
		{Pattern: `\brm\b`, Level: "medium"},
		{Pattern: `\bmv\b`, Level: "medium"},
		{Pattern: `\bkill(all)?\b`, Level: "medium"},
		{Pattern: `\bchmod\b|\bchown\b`, Level: "medium"},
	}
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
