package monitor

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
)

// csvHeader is the fixed 10-column export layout.
var csvHeader = []string{
	"id", "timestamp", "success", "original", "sanitized",
	"executionTime", "timeoutUsed", "error", "category", "riskLevel",
}

// Export serializes the full ledger as "json" or "csv".
func (m *Monitor) Export(format string) (string, error) {
	ledger := m.snapshot()
	switch strings.ToLower(format) {
	case "", "json":
		data, err := json.MarshalIndent(ledger, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "csv":
		return recordsCSV(ledger)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

func recordsCSV(ledger []domain.ExecutionRecord) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, rec := range ledger {
		row := []string{
			rec.ID,
			rec.Timestamp.Format(time.RFC3339),
			strconv.FormatBool(rec.Success),
			rec.OriginalCommand,
			rec.SanitizedCommand,
			strconv.FormatInt(rec.ExecutionTimeMS, 10),
			strconv.FormatBool(rec.TimeoutUsed),
			rec.Error,
			string(rec.Category),
			string(rec.RiskLevel),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
