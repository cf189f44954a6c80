// Package monitor turns the stream of execution records into
// operational intelligence: a bounded history ledger, threshold
// alerts, fresh statistics with trend analysis, and failure-pattern
// detection.
package monitor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

const (
	// DefaultCapacity bounds the monitor ledger.
	DefaultCapacity = 10000
	// DefaultAlertCapacity bounds the alert store.
	DefaultAlertCapacity = 1000

	failureRateWindow    = 50
	failureRateThreshold = 0.20
	slowExecutionMS      = 10000
)

// Monitor ingests execution records and raises alerts against
// threshold policies. It owns no execution itself.
type Monitor struct {
	log ports.Logger
	seq uint64

	mu            sync.Mutex
	ledger        []domain.ExecutionRecord
	alerts        []domain.Alert
	capacity      int
	alertCapacity int
}

// New builds a monitor with default capacities.
func New(log ports.Logger) *Monitor {
	return &Monitor{
		log:           log,
		capacity:      DefaultCapacity,
		alertCapacity: DefaultAlertCapacity,
	}
}

// LogExecution appends the record to the ledger, evicting oldest-first
// past capacity, then runs the alert rules. Repeated triggers create
// repeated alerts; nothing is deduplicated.
func (m *Monitor) LogExecution(rec domain.ExecutionRecord) {
	m.mu.Lock()
	m.ledger = append(m.ledger, rec)
	if len(m.ledger) > m.capacity {
		m.ledger = m.ledger[len(m.ledger)-m.capacity:]
	}
	raised := m.evaluateRules(rec)
	m.mu.Unlock()

	for _, alert := range raised {
		m.log.Warn("alert raised", map[string]interface{}{
			"id":       alert.ID,
			"type":     string(alert.Type),
			"severity": string(alert.Severity),
			"message":  alert.Message,
		})
	}
}

// evaluateRules runs with m.mu held: the rule set reads the ledger and
// writes the alert store in one step.
func (m *Monitor) evaluateRules(rec domain.ExecutionRecord) []domain.Alert {
	var raised []domain.Alert

	window := m.ledger
	if len(window) > failureRateWindow {
		window = window[len(window)-failureRateWindow:]
	}
	failed := 0
	for _, r := range window {
		if !r.Success {
			failed++
		}
	}
	if len(window) > 0 {
		rate := float64(failed) / float64(len(window))
		if rate > failureRateThreshold {
			raised = append(raised, m.raise(domain.AlertHighFailureRate, domain.SeverityError,
				fmt.Sprintf("High failure rate: %.1f%% over the last %d executions", rate*100, len(window)), rec.ID))
		}
	}

	if rec.TimeoutUsed {
		raised = append(raised, m.raise(domain.AlertTimeoutIncrease, domain.SeverityWarning,
			fmt.Sprintf("Command timed out: %s", rec.SanitizedCommand), rec.ID))
	}
	if rec.RiskLevel == domain.RiskHigh || rec.RiskLevel == domain.RiskCritical {
		raised = append(raised, m.raise(domain.AlertSuspiciousCmd, domain.SeverityWarning,
			fmt.Sprintf("High-risk command executed: %s", rec.SanitizedCommand), rec.ID))
	}
	if rec.ExecutionTimeMS > slowExecutionMS {
		raised = append(raised, m.raise(domain.AlertPerformance, domain.SeverityWarning,
			fmt.Sprintf("Slow execution: %d ms for %s", rec.ExecutionTimeMS, rec.SanitizedCommand), rec.ID))
	}
	return raised
}

func (m *Monitor) raise(alertType domain.AlertType, severity domain.AlertSeverity, message, executionID string) domain.Alert {
	alert := domain.Alert{
		ID:                 m.nextID(),
		Type:               alertType,
		Severity:           severity,
		Message:            message,
		Timestamp:          time.Now(),
		RelatedExecutionID: executionID,
	}
	m.alerts = append(m.alerts, alert)
	if len(m.alerts) > m.alertCapacity {
		m.alerts = m.alerts[len(m.alerts)-m.alertCapacity:]
	}
	return alert
}

// ResolveAlert marks the alert resolved and stamps ResolvedAt. It is
// idempotent: resolving an already-resolved id changes nothing.
// Returns false when the id is unknown.
func (m *Monitor) ResolveAlert(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID != id {
			continue
		}
		if !m.alerts[i].Resolved {
			now := time.Now()
			m.alerts[i].Resolved = true
			m.alerts[i].ResolvedAt = &now
		}
		return true
	}
	return false
}

// Alerts returns up to limit alerts, newest first. Resolved alerts are
// skipped unless includeResolved is set.
func (m *Monitor) Alerts(limit int, includeResolved bool) []domain.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Alert
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if m.alerts[i].Resolved && !includeResolved {
			continue
		}
		out = append(out, m.alerts[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Recent returns up to limit ledger records, newest first.
func (m *Monitor) Recent(limit int) []domain.ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ExecutionRecord
	for i := len(m.ledger) - 1; i >= 0; i-- {
		out = append(out, m.ledger[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Size reports current ledger occupancy.
func (m *Monitor) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ledger)
}

// Reset clears the ledger and the alert store.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = nil
	m.alerts = nil
}

func (m *Monitor) nextID() string {
	n := atomic.AddUint64(&m.seq, 1)
	return fmt.Sprintf("alert-%06d-%s", n, uuid.NewString()[:8])
}

func (m *Monitor) snapshot() []domain.ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ExecutionRecord, len(m.ledger))
	copy(out, m.ledger)
	return out
}
