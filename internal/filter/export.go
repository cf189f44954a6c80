package filter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
)

var historyCSVHeader = []string{
	"id", "timestamp", "responseLength", "extracted", "safe", "unsafe",
}

// Export serializes the processing history as "json" or "csv".
func (f *Filter) Export(format string) (string, error) {
	f.mu.Lock()
	history := make([]domain.ProcessingRecord, len(f.history))
	copy(history, f.history)
	f.mu.Unlock()

	rows := make([][]string, 0, len(history))
	for _, rec := range history {
		rows = append(rows, []string{
			rec.ID,
			rec.Timestamp.Format(time.RFC3339),
			strconv.Itoa(rec.ResponseLength),
			strconv.Itoa(rec.Extracted),
			strconv.Itoa(rec.Safe),
			strconv.Itoa(rec.Unsafe),
		})
	}

	switch strings.ToLower(format) {
	case "", "json":
		data, err := json.MarshalIndent(history, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "csv":
		var b strings.Builder
		w := csv.NewWriter(&b)
		if err := w.Write(historyCSVHeader); err != nil {
			return "", err
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", err
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}
