package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/pkg/logger"
)

func record(id string, success bool, opts ...func(*domain.ExecutionRecord)) domain.ExecutionRecord {
	rec := domain.ExecutionRecord{
		ID:               id,
		Timestamp:        time.Now(),
		OriginalCommand:  "git status",
		SanitizedCommand: "git status",
		Success:          success,
		ExecutionTimeMS:  100,
		Category:         domain.CategoryGit,
		RiskLevel:        domain.RiskLow,
	}
	if !success {
		rec.Error = "exit status 1"
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

func TestHighFailureRateAlert(t *testing.T) {
	m := New(logger.Nop{})
	for i := 0; i < 8; i++ {
		m.LogExecution(record(fmt.Sprintf("e%d", i), true))
	}
	// 3 failures in 11 records is over the 20% threshold
	for i := 0; i < 3; i++ {
		m.LogExecution(record(fmt.Sprintf("f%d", i), false))
	}

	alerts := m.Alerts(0, false)
	require.NotEmpty(t, alerts)
	found := false
	for _, alert := range alerts {
		if alert.Type == domain.AlertHighFailureRate {
			found = true
			assert.Equal(t, domain.SeverityError, alert.Severity)
		}
	}
	assert.True(t, found, "expected a high_failure_rate alert")
}

func TestTimeoutAlert(t *testing.T) {
	m := New(logger.Nop{})
	m.LogExecution(record("e1", false, func(r *domain.ExecutionRecord) {
		r.TimeoutUsed = true
		r.Error = "Command timed out after 1000 ms"
	}))

	alerts := m.Alerts(0, false)
	require.NotEmpty(t, alerts)
	var typed []domain.AlertType
	for _, alert := range alerts {
		typed = append(typed, alert.Type)
	}
	assert.Contains(t, typed, domain.AlertTimeoutIncrease)
}

func TestSuspiciousCommandAlert(t *testing.T) {
	m := New(logger.Nop{})
	m.LogExecution(record("e1", true, func(r *domain.ExecutionRecord) {
		r.RiskLevel = domain.RiskCritical
		r.SanitizedCommand = "rm -rf build"
	}))

	alerts := m.Alerts(0, false)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertSuspiciousCmd, alerts[0].Type)
	assert.Equal(t, domain.SeverityWarning, alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "rm -rf build")
}

func TestPerformanceAlert(t *testing.T) {
	m := New(logger.Nop{})
	m.LogExecution(record("e1", true, func(r *domain.ExecutionRecord) {
		r.ExecutionTimeMS = 15000
	}))

	alerts := m.Alerts(0, false)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertPerformance, alerts[0].Type)
}

func TestAlertsAreNotDeduplicated(t *testing.T) {
	m := New(logger.Nop{})
	for i := 0; i < 3; i++ {
		m.LogExecution(record(fmt.Sprintf("e%d", i), true, func(r *domain.ExecutionRecord) {
			r.RiskLevel = domain.RiskHigh
		}))
	}
	assert.Len(t, m.Alerts(0, false), 3)
}

func TestResolveAlertIdempotent(t *testing.T) {
	m := New(logger.Nop{})
	m.LogExecution(record("e1", true, func(r *domain.ExecutionRecord) {
		r.RiskLevel = domain.RiskHigh
	}))
	alerts := m.Alerts(0, false)
	require.Len(t, alerts, 1)
	id := alerts[0].ID

	require.True(t, m.ResolveAlert(id))
	resolved := m.Alerts(1, true)
	require.Len(t, resolved, 1)
	require.True(t, resolved[0].Resolved)
	require.NotNil(t, resolved[0].ResolvedAt)
	firstStamp := *resolved[0].ResolvedAt
	assert.False(t, firstStamp.Before(resolved[0].Timestamp))

	time.Sleep(5 * time.Millisecond)
	require.True(t, m.ResolveAlert(id))
	again := m.Alerts(1, true)
	assert.Equal(t, firstStamp, *again[0].ResolvedAt, "ResolvedAt must not change")

	assert.False(t, m.ResolveAlert("alert-unknown"))
}

func TestLedgerBound(t *testing.T) {
	m := New(logger.Nop{})
	m.capacity = 20
	for i := 0; i < 50; i++ {
		m.LogExecution(record(fmt.Sprintf("e%d", i), true))
	}
	assert.Equal(t, 20, m.Size())
	recent := m.Recent(0)
	assert.Equal(t, "e49", recent[0].ID)
	assert.Equal(t, "e30", recent[len(recent)-1].ID)
}

func TestStatisticsEmptyLedger(t *testing.T) {
	m := New(logger.Nop{})
	stats := m.Statistics()

	assert.Equal(t, 0, stats.TotalExecutions)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Len(t, stats.ByCategory, len(domain.Categories()))
	assert.Len(t, stats.ByRiskLevel, len(domain.RiskLevels()))
	assert.Equal(t, domain.TrendStable, stats.Trend.SuccessRate)
	assert.Equal(t, domain.TrendStable, stats.Trend.ExecutionTime)
	assert.Equal(t, domain.TrendStable, stats.Trend.Volume)
}

func TestStatisticsAggregates(t *testing.T) {
	m := New(logger.Nop{})
	now := time.Now()
	m.LogExecution(record("e1", true, func(r *domain.ExecutionRecord) {
		r.Timestamp = now
		r.ExecutionTimeMS = 100
	}))
	m.LogExecution(record("e2", true, func(r *domain.ExecutionRecord) {
		r.Timestamp = now
		r.SanitizedCommand = "npm install"
		r.Category = domain.CategoryNpm
		r.ExecutionTimeMS = 300
	}))
	m.LogExecution(record("e3", false, func(r *domain.ExecutionRecord) {
		r.Timestamp = now
		r.ExecutionTimeMS = 200
	}))

	stats := m.Statistics()
	assert.Equal(t, 3, stats.TotalExecutions)
	assert.Equal(t, 2, stats.Successes)
	assert.Equal(t, 1, stats.Failures)
	assert.InDelta(t, 66.7, stats.SuccessRate, 0.1)
	assert.Equal(t, int64(600), stats.TotalTimeMS)
	assert.Equal(t, 200.0, stats.AverageTimeMS)
	assert.Equal(t, 2, stats.ByCategory[domain.CategoryGit])
	assert.Equal(t, 1, stats.ByCategory[domain.CategoryNpm])
	assert.Equal(t, 0, stats.ByCategory[domain.CategoryYarn])
	assert.Equal(t, 3, stats.ByRiskLevel[domain.RiskLow])
	assert.Equal(t, 3, stats.HourlyHistogram[now.Local().Hour()])

	day := now.Local().Format("2006-01-02")
	daily := stats.DailyHistogram[day]
	assert.Equal(t, 3, daily.Executions)
	assert.Equal(t, 2, daily.DistinctCommands)
}

func TestTrendStableWithFewRecords(t *testing.T) {
	m := New(logger.Nop{})
	for i := 0; i < 15; i++ {
		m.LogExecution(record(fmt.Sprintf("e%d", i), true))
	}
	// 15 records: the previous window is empty, everything stays stable
	stats := m.Statistics()
	assert.Equal(t, domain.TrendStable, stats.Trend.SuccessRate)
}

func TestTrendDecliningSuccessRate(t *testing.T) {
	m := New(logger.Nop{})
	// previous window: all succeed; recent window: 80% fail
	for i := 0; i < 100; i++ {
		m.LogExecution(record(fmt.Sprintf("p%d", i), true))
	}
	for i := 0; i < 100; i++ {
		m.LogExecution(record(fmt.Sprintf("r%d", i), i%5 == 0))
	}
	stats := m.Statistics()
	assert.Equal(t, domain.TrendDeclining, stats.Trend.SuccessRate)
	assert.Equal(t, domain.TrendStable, stats.Trend.Volume)
}

func TestTrendSlowerExecution(t *testing.T) {
	m := New(logger.Nop{})
	for i := 0; i < 100; i++ {
		m.LogExecution(record(fmt.Sprintf("p%d", i), true, func(r *domain.ExecutionRecord) {
			r.ExecutionTimeMS = 100
		}))
	}
	for i := 0; i < 100; i++ {
		m.LogExecution(record(fmt.Sprintf("r%d", i), true, func(r *domain.ExecutionRecord) {
			r.ExecutionTimeMS = 2000
		}))
	}
	stats := m.Statistics()
	assert.Equal(t, domain.TrendSlower, stats.Trend.ExecutionTime)
}

func TestFailurePatternSingleGroup(t *testing.T) {
	m := New(logger.Nop{})
	for i := 0; i < 5; i++ {
		m.LogExecution(record(fmt.Sprintf("e%d", i), false, func(r *domain.ExecutionRecord) {
			r.Error = "X"
			r.OriginalCommand = fmt.Sprintf("make task%d", i)
		}))
	}

	patterns := m.FailurePatterns()
	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, "X", p.Pattern)
	assert.Equal(t, 5, p.Frequency)
	assert.Equal(t, 100.0, p.Percentage)
	assert.Equal(t, domain.RiskCritical, p.Severity)
	assert.Len(t, p.ExampleCommands, 3)
	assert.False(t, p.LastOccurrence.IsZero())
}

func TestFailurePatternThresholdAndOrder(t *testing.T) {
	m := New(logger.Nop{})
	for i := 0; i < 6; i++ {
		m.LogExecution(record(fmt.Sprintf("a%d", i), false, func(r *domain.ExecutionRecord) { r.Error = "common" }))
	}
	for i := 0; i < 3; i++ {
		m.LogExecution(record(fmt.Sprintf("b%d", i), false, func(r *domain.ExecutionRecord) { r.Error = "rare" }))
	}
	// below the 3-occurrence floor, never reported
	for i := 0; i < 2; i++ {
		m.LogExecution(record(fmt.Sprintf("c%d", i), false, func(r *domain.ExecutionRecord) { r.Error = "noise" }))
	}

	patterns := m.FailurePatterns()
	require.Len(t, patterns, 2)
	assert.Equal(t, "common", patterns[0].Pattern)
	assert.Equal(t, "rare", patterns[1].Pattern)
	assert.InDelta(t, 54.5, patterns[0].Percentage, 0.1)
	assert.Equal(t, domain.RiskCritical, patterns[0].Severity)
	assert.Equal(t, domain.RiskHigh, patterns[1].Severity)
}

func TestResetClearsEverything(t *testing.T) {
	m := New(logger.Nop{})
	m.LogExecution(record("e1", false, func(r *domain.ExecutionRecord) { r.TimeoutUsed = true }))
	require.NotEmpty(t, m.Alerts(0, false))

	m.Reset()
	assert.Equal(t, 0, m.Size())
	assert.Empty(t, m.Alerts(0, true))
}
