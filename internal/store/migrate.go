package store

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 3 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if v < 1 {
		if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS status_overrides (
  job_id INTEGER NOT NULL,
  status TEXT NOT NULL,
  value TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  synced INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (job_id, status)
);
`); err != nil {
			return err
		}

		if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_status_overrides_synced
ON status_overrides(synced, updated_at);
`); err != nil {
			return err
		}
	}

	// ---- Schema v2: sync bookkeeping ----

	if !columnExists(tx, "status_overrides", "attempts") {
		if _, err := tx.Exec(`ALTER TABLE status_overrides ADD COLUMN attempts INTEGER NOT NULL DEFAULT 0;`); err != nil {
			return err
		}
	}
	if !columnExists(tx, "status_overrides", "last_error") {
		if _, err := tx.Exec(`ALTER TABLE status_overrides ADD COLUMN last_error TEXT NOT NULL DEFAULT '';`); err != nil {
			return err
		}
	}

	// ---- Schema v3: retry rotation and sync time ----

	if !columnExists(tx, "status_overrides", "last_attempt_ns") {
		if _, err := tx.Exec(`ALTER TABLE status_overrides ADD COLUMN last_attempt_ns INTEGER NOT NULL DEFAULT 0;`); err != nil {
			return err
		}
	}
	if !columnExists(tx, "status_overrides", "synced_at") {
		if _, err := tx.Exec(`ALTER TABLE status_overrides ADD COLUMN synced_at TEXT NOT NULL DEFAULT '';`); err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE status_overrides SET synced_at = updated_at WHERE synced = 1;`); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_status_overrides_retry
ON status_overrides(synced, last_attempt_ns, updated_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 3;`); err != nil {
		return err
	}

	return tx.Commit()
}

func columnExists(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, table, col string) bool {
	query := fmt.Sprintf(`
SELECT 1
FROM pragma_table_info('%s')
WHERE name = ?
LIMIT 1;
`, table)

	var one int
	err := q.QueryRow(query, col).Scan(&one)
	return err == nil
}
