package domain

import "time"

// AlertType names the monitor rule that raised an alert.
type AlertType string

const (
	AlertHighFailureRate AlertType = "high_failure_rate"
	AlertTimeoutIncrease AlertType = "timeout_increase"
	AlertSuspiciousCmd   AlertType = "suspicious_command"
	AlertPerformance     AlertType = "performance_degradation"
)

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityError    AlertSeverity = "error"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a raised, individually resolvable notification. The only
// permitted mutation is the unresolved -> resolved transition.
type Alert struct {
	ID                 string        `json:"id"`
	Type               AlertType     `json:"type"`
	Severity           AlertSeverity `json:"severity"`
	Message            string        `json:"message"`
	Timestamp          time.Time     `json:"timestamp"`
	RelatedExecutionID string        `json:"related_execution_id,omitempty"`
	Resolved           bool          `json:"resolved"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
}
