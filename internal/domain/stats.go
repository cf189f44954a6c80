package domain

import "time"

// Trend classifies the direction of change between two history windows.
type Trend string

const (
	TrendImproving  Trend = "improving"
	TrendDeclining  Trend = "declining"
	TrendStable     Trend = "stable"
	TrendFaster     Trend = "faster"
	TrendSlower     Trend = "slower"
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
)

// TrendAnalysis compares the most recent window of executions against
// the one before it.
type TrendAnalysis struct {
	SuccessRate   Trend `json:"success_rate"`
	ExecutionTime Trend `json:"execution_time"`
	Volume        Trend `json:"volume"`
}

// DailyStats aggregates one calendar day of ledger activity.
type DailyStats struct {
	Executions       int `json:"executions"`
	DistinctCommands int `json:"distinct_commands"`
}

// Statistics is a fresh aggregate over the monitor ledger. Breakdown
// maps carry every enum key, defaulting to zero.
type Statistics struct {
	TotalExecutions int                   `json:"total_executions"`
	Successes       int                   `json:"successes"`
	Failures        int                   `json:"failures"`
	Timeouts        int                   `json:"timeouts"`
	SuccessRate     float64               `json:"success_rate"`
	TotalTimeMS     int64                 `json:"total_time_ms"`
	AverageTimeMS   float64               `json:"average_time_ms"`
	ByCategory      map[Category]int      `json:"by_category"`
	ByRiskLevel     map[RiskLevel]int     `json:"by_risk_level"`
	HourlyHistogram [24]int               `json:"hourly_histogram"`
	DailyHistogram  map[string]DailyStats `json:"daily_histogram"`
	Trend           TrendAnalysis         `json:"trend"`
	ActiveAlerts    int                   `json:"active_alerts"`
}

// FailurePattern is a recurring error signature derived from the
// ledger on demand, never stored.
type FailurePattern struct {
	Pattern         string    `json:"pattern"`
	Frequency       int       `json:"frequency"`
	Percentage      float64   `json:"percentage"`
	ExampleCommands []string  `json:"example_commands"`
	LastOccurrence  time.Time `json:"last_occurrence"`
	Severity        RiskLevel `json:"severity"`
}
