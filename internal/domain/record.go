package domain

import "time"

// Category buckets a command by what it operates on.
type Category string

const (
	CategoryGit        Category = "git"
	CategoryNpm        Category = "npm"
	CategoryYarn       Category = "yarn"
	CategoryNode       Category = "node"
	CategoryNavigation Category = "navigation"
	CategoryListing    Category = "listing"
	CategoryFileOp     Category = "file_operation"
	CategoryDeletion   Category = "deletion"
	CategoryProcess    Category = "process_management"
	CategoryBuild      Category = "build"
	CategoryTest       Category = "test"
	CategoryOther      Category = "other"
)

// Categories lists every category in breakdown order.
func Categories() []Category {
	return []Category{
		CategoryGit, CategoryNpm, CategoryYarn, CategoryNode,
		CategoryNavigation, CategoryListing, CategoryFileOp,
		CategoryDeletion, CategoryProcess, CategoryBuild,
		CategoryTest, CategoryOther,
	}
}

// RiskLevel is the coarse severity assigned from static pattern rules.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevels lists every risk level in breakdown order.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
}

// MoreSevere reports whether next outranks current.
func MoreSevere(next RiskLevel, current RiskLevel) bool {
	order := map[RiskLevel]int{
		RiskLow:      1,
		RiskMedium:   2,
		RiskHigh:     3,
		RiskCritical: 4,
	}
	return order[next] > order[current]
}

// ExecutionRecord captures one execution attempt, successful or not.
// Records are immutable after creation.
type ExecutionRecord struct {
	ID               string              `json:"id"`
	Timestamp        time.Time           `json:"timestamp"`
	OriginalCommand  string              `json:"original_command"`
	SanitizedCommand string              `json:"sanitized_command"`
	Success          bool                `json:"success"`
	Error            string              `json:"error,omitempty"`
	Output           string              `json:"output,omitempty"`
	ExecutionTimeMS  int64               `json:"execution_time_ms"`
	TimeoutUsed      bool                `json:"timeout_used"`
	Sanitization     *SanitizationReport `json:"sanitization,omitempty"`
	Category         Category            `json:"category"`
	RiskLevel        RiskLevel           `json:"risk_level"`
}

// RunnerResult is what a command runner reports back to the executor.
type RunnerResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecOptions controls one Execute call. The zero value means: 30s
// timeout, sanitize, validate and log enabled, no retries.
type ExecOptions struct {
	// TimeoutMS is clamped to [1000, 300000]; 0 selects the default of 30000.
	TimeoutMS int
	// NoSanitize skips the sanitization pass.
	NoSanitize bool
	// NoValidate skips validation (the command runs as-is).
	NoValidate bool
	// NoLog keeps the attempt out of the execution ledger.
	NoLog          bool
	RetryOnFailure bool
	// MaxRetries defaults to 3 when RetryOnFailure is set.
	MaxRetries int
}

const (
	DefaultTimeoutMS = 30000
	MinTimeoutMS     = 1000
	MaxTimeoutMS     = 300000
	DefaultRetries   = 3
)

// Normalized applies defaults and clamps out-of-range values. Bad
// configuration degrades gracefully instead of failing.
func (o ExecOptions) Normalized() ExecOptions {
	if o.TimeoutMS == 0 {
		o.TimeoutMS = DefaultTimeoutMS
	}
	if o.TimeoutMS < MinTimeoutMS {
		o.TimeoutMS = MinTimeoutMS
	}
	if o.TimeoutMS > MaxTimeoutMS {
		o.TimeoutMS = MaxTimeoutMS
	}
	if o.RetryOnFailure && o.MaxRetries <= 0 {
		o.MaxRetries = DefaultRetries
	}
	return o
}

// ExecutionStats aggregates the executor ledger.
type ExecutionStats struct {
	Total           int     `json:"total"`
	Successes       int     `json:"successes"`
	Failures        int     `json:"failures"`
	Timeouts        int     `json:"timeouts"`
	SuccessRate     float64 `json:"success_rate"`
	TotalTimeMS     int64   `json:"total_time_ms"`
	AverageTimeMS   float64 `json:"average_time_ms"`
	LedgerOccupancy int     `json:"ledger_occupancy"`
}
