package monitor

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ExportSQLite writes a snapshot of the ledger into a SQLite database
// at path. This is a one-way export artifact; the monitor never reads
// it back.
func (m *Monitor) ExportSQLite(path string) error {
	ledger := m.snapshot()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS executions (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		success INTEGER,
		original TEXT,
		sanitized TEXT,
		execution_time_ms INTEGER,
		timeout_used INTEGER,
		error TEXT,
		category TEXT,
		risk_level TEXT
	);`); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO executions
		(id, timestamp, success, original, sanitized, execution_time_ms, timeout_used, error, category, risk_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range ledger {
		if _, err := stmt.Exec(
			rec.ID,
			rec.Timestamp.Format(time.RFC3339),
			boolToInt(rec.Success),
			rec.OriginalCommand,
			rec.SanitizedCommand,
			rec.ExecutionTimeMS,
			boolToInt(rec.TimeoutUsed),
			rec.Error,
			string(rec.Category),
			string(rec.RiskLevel),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
