package monitor

import (
	"sort"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
)

const (
	trendWindow     = 100
	minTrendSamples = 10

	successRateDeltaPts = 5.0
	executionTimeDeltaM = 1000.0
)

// Statistics computes a fresh aggregate over the current ledger.
// Breakdown maps carry every enum key; an empty ledger yields zeroes
// throughout.
func (m *Monitor) Statistics() domain.Statistics {
	ledger := m.snapshot()

	stats := domain.Statistics{
		TotalExecutions: len(ledger),
		ByCategory:      make(map[domain.Category]int),
		ByRiskLevel:     make(map[domain.RiskLevel]int),
		DailyHistogram:  make(map[string]domain.DailyStats),
		Trend: domain.TrendAnalysis{
			SuccessRate:   domain.TrendStable,
			ExecutionTime: domain.TrendStable,
			Volume:        domain.TrendStable,
		},
	}
	for _, cat := range domain.Categories() {
		stats.ByCategory[cat] = 0
	}
	for _, level := range domain.RiskLevels() {
		stats.ByRiskLevel[level] = 0
	}

	dailyCommands := make(map[string]map[string]struct{})
	for _, rec := range ledger {
		if rec.Success {
			stats.Successes++
		} else {
			stats.Failures++
		}
		if rec.TimeoutUsed {
			stats.Timeouts++
		}
		stats.TotalTimeMS += rec.ExecutionTimeMS
		stats.ByCategory[rec.Category]++
		stats.ByRiskLevel[rec.RiskLevel]++
		stats.HourlyHistogram[rec.Timestamp.Local().Hour()]++

		day := rec.Timestamp.Local().Format("2006-01-02")
		entry := stats.DailyHistogram[day]
		entry.Executions++
		if dailyCommands[day] == nil {
			dailyCommands[day] = make(map[string]struct{})
		}
		dailyCommands[day][rec.SanitizedCommand] = struct{}{}
		entry.DistinctCommands = len(dailyCommands[day])
		stats.DailyHistogram[day] = entry
	}
	if stats.TotalExecutions > 0 {
		stats.SuccessRate = float64(stats.Successes) / float64(stats.TotalExecutions) * 100.0
		stats.AverageTimeMS = float64(stats.TotalTimeMS) / float64(stats.TotalExecutions)
	}
	stats.Trend = analyzeTrend(ledger)

	m.mu.Lock()
	for _, alert := range m.alerts {
		if !alert.Resolved {
			stats.ActiveAlerts++
		}
	}
	m.mu.Unlock()
	return stats
}

// analyzeTrend compares the most recent trendWindow records against
// the preceding trendWindow. Windows with fewer than minTrendSamples
// records report stable across the board.
func analyzeTrend(ledger []domain.ExecutionRecord) domain.TrendAnalysis {
	trend := domain.TrendAnalysis{
		SuccessRate:   domain.TrendStable,
		ExecutionTime: domain.TrendStable,
		Volume:        domain.TrendStable,
	}

	n := len(ledger)
	recentStart := n - trendWindow
	if recentStart < 0 {
		recentStart = 0
	}
	recent := ledger[recentStart:]
	previousStart := recentStart - trendWindow
	if previousStart < 0 {
		previousStart = 0
	}
	previous := ledger[previousStart:recentStart]

	if len(recent) < minTrendSamples || len(previous) < minTrendSamples {
		return trend
	}

	recentRate, recentAvg := windowAggregates(recent)
	previousRate, previousAvg := windowAggregates(previous)

	switch delta := recentRate - previousRate; {
	case delta > successRateDeltaPts:
		trend.SuccessRate = domain.TrendImproving
	case delta < -successRateDeltaPts:
		trend.SuccessRate = domain.TrendDeclining
	}
	switch delta := recentAvg - previousAvg; {
	case delta > executionTimeDeltaM:
		trend.ExecutionTime = domain.TrendSlower
	case delta < -executionTimeDeltaM:
		trend.ExecutionTime = domain.TrendFaster
	}
	switch {
	case len(recent) > len(previous):
		trend.Volume = domain.TrendIncreasing
	case len(recent) < len(previous):
		trend.Volume = domain.TrendDecreasing
	}
	return trend
}

func windowAggregates(window []domain.ExecutionRecord) (successRate, averageMS float64) {
	if len(window) == 0 {
		return 0, 0
	}
	successes := 0
	var totalMS int64
	for _, rec := range window {
		if rec.Success {
			successes++
		}
		totalMS += rec.ExecutionTimeMS
	}
	successRate = float64(successes) / float64(len(window)) * 100.0
	averageMS = float64(totalMS) / float64(len(window))
	return successRate, averageMS
}

// FailurePatterns groups failed records by their literal error string,
// keeps groups of three or more, and grades each by its share of all
// failures. The result is sorted by descending frequency.
func (m *Monitor) FailurePatterns() []domain.FailurePattern {
	ledger := m.snapshot()

	type group struct {
		count    int
		examples []string
		last     time.Time
	}
	groups := make(map[string]*group)
	totalFailures := 0
	for _, rec := range ledger {
		if rec.Success {
			continue
		}
		totalFailures++
		g := groups[rec.Error]
		if g == nil {
			g = &group{}
			groups[rec.Error] = g
		}
		g.count++
		if len(g.examples) < 3 {
			g.examples = append(g.examples, rec.OriginalCommand)
		}
		if rec.Timestamp.After(g.last) {
			g.last = rec.Timestamp
		}
	}

	var patterns []domain.FailurePattern
	for signature, g := range groups {
		if g.count < 3 {
			continue
		}
		share := float64(g.count) / float64(totalFailures) * 100.0
		patterns = append(patterns, domain.FailurePattern{
			Pattern:         signature,
			Frequency:       g.count,
			Percentage:      share,
			ExampleCommands: g.examples,
			LastOccurrence:  g.last,
			Severity:        patternSeverity(share),
		})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Frequency == patterns[j].Frequency {
			return patterns[i].Pattern < patterns[j].Pattern
		}
		return patterns[i].Frequency > patterns[j].Frequency
	})
	return patterns
}

func patternSeverity(share float64) domain.RiskLevel {
	switch {
	case share > 50:
		return domain.RiskCritical
	case share > 25:
		return domain.RiskHigh
	case share > 10:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
