package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
	"github.com/doeshing/cmdgate/internal/domain"
)

func printAlerts(cmd *cobra.Command, alerts []domain.Alert) {
	if len(alerts) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Active alerts (%d):\n", len(alerts))
	for _, alert := range alerts {
		fmt.Fprintf(out, "  [%s] %s: %s (%s)\n",
			alert.Severity, alert.Type, alert.Message, humanize.Time(alert.Timestamp))
	}
}

func printStatistics(cmd *cobra.Command, stats domain.Statistics) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Executions:    %s (%.1f%% success, %d timeout)\n",
		humanize.Comma(int64(stats.TotalExecutions)), stats.SuccessRate, stats.Timeouts)
	fmt.Fprintf(out, "Average time:  %.0f ms\n", stats.AverageTimeMS)

	var categories []string
	for _, cat := range domain.Categories() {
		if n := stats.ByCategory[cat]; n > 0 {
			categories = append(categories, fmt.Sprintf("%s=%d", cat, n))
		}
	}
	if len(categories) > 0 {
		fmt.Fprintf(out, "Categories:    %s\n", strings.Join(categories, " "))
	}
	var risks []string
	for _, level := range domain.RiskLevels() {
		if n := stats.ByRiskLevel[level]; n > 0 {
			risks = append(risks, fmt.Sprintf("%s=%d", level, n))
		}
	}
	if len(risks) > 0 {
		fmt.Fprintf(out, "Risk levels:   %s\n", strings.Join(risks, " "))
	}
	fmt.Fprintf(out, "Trend:         success=%s time=%s volume=%s\n",
		stats.Trend.SuccessRate, stats.Trend.ExecutionTime, stats.Trend.Volume)
	if stats.ActiveAlerts > 0 {
		fmt.Fprintf(out, "Active alerts: %d\n", stats.ActiveAlerts)
	}
}

// exportIfRequested writes the monitor ledger to path when set.
func exportIfRequested(container *app.Container, path, format string) error {
	if path == "" {
		return nil
	}
	if strings.EqualFold(format, "sqlite") {
		return container.Monitor.ExportSQLite(path)
	}
	data, err := container.Monitor.Export(format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}
