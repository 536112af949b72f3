// Package storage persists coverage analysis runs and their gap lists to
// a local sqlite database, so regressions between template revisions can
// be tracked over time.
package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sw33tLie/formgap/pkg/report"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS analysis_runs (
  id             INTEGER PRIMARY KEY,
  created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  source         TEXT NOT NULL,
  dim1           TEXT NOT NULL,
  dim2           TEXT,
  total          INTEGER NOT NULL,
  covered        INTEGER NOT NULL,
  gaps           INTEGER NOT NULL,
  not_applicable INTEGER NOT NULL,
  coverage_pct   REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_time ON analysis_runs(created_at);
CREATE TABLE IF NOT EXISTS coverage_gaps (
  id         INTEGER PRIMARY KEY,
  run_id     INTEGER NOT NULL REFERENCES analysis_runs(id),
  dim1_value TEXT NOT NULL,
  dim2_value TEXT,
  severity   TEXT NOT NULL CHECK (severity IN ('high','medium')),
  message    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_gaps_run ON coverage_gaps(run_id);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveRun stores a report and its gap list in one transaction, returning
// the new run id.
func (d *DB) SaveRun(ctx context.Context, source string, r *report.Report) (int64, error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	s := r.Summary
	res, err := tx.ExecContext(ctx,
		`INSERT INTO analysis_runs(source, dim1, dim2, total, covered, gaps, not_applicable, coverage_pct) VALUES(?,?,?,?,?,?,?,?)`,
		source, s.Dim1, nullIfEmpty(s.Dim2), s.Total, s.Covered, s.Gaps, s.NotApplicable, s.CoveragePct)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, g := range r.Gaps {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO coverage_gaps(run_id, dim1_value, dim2_value, severity, message) VALUES(?,?,?,?,?)`,
			runID, g.Dim1Value, nullIfEmpty(g.Dim2Value), g.Severity, g.Message); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns all runs, newest first.
func (d *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, created_at, source, dim1, COALESCE(dim2,''), total, covered, gaps, not_applicable, coverage_pct FROM analysis_runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Source, &r.Dim1, &r.Dim2, &r.Total, &r.Covered, &r.Gaps, &r.NotApplicable, &r.CoveragePct); err != nil {
			return nil, err
		}
		if t, perr := time.Parse("2006-01-02 15:04:05", created); perr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListGaps returns the gap entries of one run.
func (d *DB) ListGaps(ctx context.Context, runID int64) ([]Gap, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT run_id, dim1_value, COALESCE(dim2_value,''), severity, message FROM coverage_gaps WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gaps []Gap
	for rows.Next() {
		var g Gap
		if err := rows.Scan(&g.RunID, &g.Dim1Value, &g.Dim2Value, &g.Severity, &g.Message); err != nil {
			return nil, err
		}
		gaps = append(gaps, g)
	}
	return gaps, rows.Err()
}

// GetStats aggregates run counts and the latest coverage per dimension
// pair.
func (d *DB) GetStats(ctx context.Context) ([]Stat, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT dim1, COALESCE(dim2,''), COUNT(*),
       (SELECT coverage_pct FROM analysis_runs r2
        WHERE r2.dim1 = r.dim1 AND COALESCE(r2.dim2,'') = COALESCE(r.dim2,'')
        ORDER BY r2.created_at DESC, r2.id DESC LIMIT 1)
FROM analysis_runs r
GROUP BY dim1, COALESCE(dim2,'')
ORDER BY dim1, dim2`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stat
	for rows.Next() {
		var s Stat
		if err := rows.Scan(&s.Dim1, &s.Dim2, &s.RunCount, &s.LatestPct); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
