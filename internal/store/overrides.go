package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobs-portal/internal/domain"
)

// Override is a status flag the user set locally. It stays until the
// backend has accepted it and the retention window has passed.
type Override struct {
	JobID     int64         `json:"jobId"`
	Status    domain.Status `json:"status"`
	Value     domain.Flag   `json:"value"`
	Category  string        `json:"category"`
	Synced    bool          `json:"synced"`
	Attempts  int           `json:"attempts"`
	LastError string        `json:"lastError,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
	SyncedAt  time.Time     `json:"syncedAt,omitempty"`
}

const overrideCols = `job_id, status, value, category, synced, attempts, last_error, updated_at, synced_at`

// PutOverride records (or replaces) a local status change. It starts unsynced.
func PutOverride(ctx context.Context, db *sql.DB, o Override) error {
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO status_overrides(job_id, status, value, category, synced, attempts, last_error, updated_at, last_attempt_ns, synced_at)
VALUES(?,?,?,?,0,0,'',?,0,'')
ON CONFLICT(job_id, status) DO UPDATE SET
  value = excluded.value,
  category = excluded.category,
  synced = 0,
  attempts = 0,
  last_error = '',
  updated_at = excluded.updated_at,
  last_attempt_ns = 0,
  synced_at = '';
`, o.JobID, string(o.Status), string(o.Value), o.Category, o.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put override job=%d status=%s: %w", o.JobID, o.Status, err)
	}
	return nil
}

// OverridesFor returns the overrides for the given job ids, grouped by id.
func OverridesFor(ctx context.Context, db *sql.DB, ids []int64) (map[int64][]Override, error) {
	out := make(map[int64][]Override)
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT ` + overrideCols + ` FROM status_overrides WHERE job_id IN (` +
		strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + `) ORDER BY job_id, status;`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out[o.JobID] = append(out[o.JobID], o)
	}
	return out, rows.Err()
}

// ListUnsynced returns overrides the backend has not accepted yet. Never
// tried ones come first, then the least recently tried, so a batch of
// overrides that keep failing cannot hold back newer ones.
func ListUnsynced(ctx context.Context, db *sql.DB, limit int) ([]Override, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
SELECT `+overrideCols+`
FROM status_overrides
WHERE synced = 0
ORDER BY last_attempt_ns ASC, updated_at ASC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func MarkSynced(ctx context.Context, db *sql.DB, jobID int64, status domain.Status) error {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
UPDATE status_overrides
SET synced = 1, last_error = '', last_attempt_ns = ?, synced_at = ?
WHERE job_id = ? AND status = ?;`, now.UnixNano(), now.Format(time.RFC3339), jobID, string(status))
	return err
}

// MarkSyncFailed records a failed push and sends the override to the back
// of the retry queue.
func MarkSyncFailed(ctx context.Context, db *sql.DB, jobID int64, status domain.Status, reason string) error {
	if len(reason) > 256 {
		reason = reason[:256]
	}
	_, err := db.ExecContext(ctx, `
UPDATE status_overrides
SET attempts = attempts + 1, last_error = ?, last_attempt_ns = ?
WHERE job_id = ? AND status = ?;`, reason, time.Now().UnixNano(), jobID, string(status))
	return err
}

// DeleteOverride forgets a local status change.
func DeleteOverride(ctx context.Context, db *sql.DB, jobID int64, status domain.Status) error {
	_, err := db.ExecContext(ctx, `DELETE FROM status_overrides WHERE job_id = ? AND status = ?;`, jobID, string(status))
	if err != nil {
		return fmt.Errorf("delete override job=%d status=%s: %w", jobID, status, err)
	}
	return nil
}

// CountUnsynced is used by the health endpoint.
func CountUnsynced(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM status_overrides WHERE synced = 0;`).Scan(&n)
	return n, err
}

// PruneSynced deletes overrides synced more than maxAge ago. By then the
// backend's own flags are authoritative.
func PruneSynced(ctx context.Context, db *sql.DB, maxAge time.Duration) (deleted int64, err error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)
	res, err := db.ExecContext(ctx, `
DELETE FROM status_overrides
WHERE synced = 1 AND synced_at != '' AND synced_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune overrides: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanOverride(rows *sql.Rows) (Override, error) {
	var o Override
	var status, value, updated, syncedAt string
	var synced int
	if err := rows.Scan(&o.JobID, &status, &value, &o.Category, &synced, &o.Attempts, &o.LastError, &updated, &syncedAt); err != nil {
		return Override{}, err
	}
	o.Status = domain.Status(status)
	o.Value = domain.Flag(value)
	o.Synced = synced != 0
	o.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	if syncedAt != "" {
		o.SyncedAt, _ = time.Parse(time.RFC3339, syncedAt)
	}
	return o, nil
}

// Apply overlays the overrides onto jobs in place.
func Apply(jobs []domain.Job, ovs map[int64][]Override) {
	if len(ovs) == 0 {
		return
	}
	for i := range jobs {
		for _, o := range ovs[jobs[i].ID] {
			jobs[i] = jobs[i].WithStatus(o.Status, o.Value)
		}
	}
}
