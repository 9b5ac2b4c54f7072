package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/metarh/vagas/internal/model"
)

// ErrNoSnapshot is returned by LoadSnapshot before the first save.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Ensure SQLiteStore implements model.SnapshotStore.
var _ model.SnapshotStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the last successful job list in a SQLite database so it
// can be served while the upstream is unreachable.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// snapshot tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// busy_timeout lets API reads wait out a snapshot write instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_jobs (
			position      INTEGER PRIMARY KEY,
			job_id        TEXT NOT NULL,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL,
			summary       TEXT NOT NULL,
			city          TEXT NOT NULL,
			state         TEXT NOT NULL,
			department    TEXT NOT NULL,
			contract_type TEXT NOT NULL,
			published_at  TEXT NOT NULL,
			url_apply     TEXT NOT NULL,
			remote        INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			fetched_at TEXT NOT NULL,
			job_count  INTEGER NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating snapshot tables: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// SaveSnapshot replaces the stored snapshot with jobs in a single transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, jobs []model.NormalizedJob) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_jobs"); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_jobs
		(position, job_id, title, description, summary, city, state, department, contract_type, published_at, url_apply, remote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, j := range jobs {
		remote := 0
		if j.Remote {
			remote = 1
		}
		if _, err := stmt.ExecContext(ctx, i, j.ID, j.Title, j.Description, j.Summary, j.City, j.State,
			j.Department, j.ContractType, j.PublishedAt, j.URLApply, remote); err != nil {
			return fmt.Errorf("inserting job %s: %w", j.ID, err)
		}
	}

	fetchedAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta (id, fetched_at, job_count) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at, job_count = excluded.job_count`,
		fetchedAt, len(jobs)); err != nil {
		return fmt.Errorf("recording snapshot time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored jobs in their saved order and the time they
// were fetched. Returns ErrNoSnapshot if nothing was ever saved.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) ([]model.NormalizedJob, time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT fetched_at FROM snapshot_meta WHERE id = 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading snapshot time: %w", err)
	}
	fetchedAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parsing snapshot time %q: %w", raw, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT job_id, title, description, summary, city, state, department,
		contract_type, published_at, url_apply, remote FROM snapshot_jobs ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	jobs := []model.NormalizedJob{}
	for rows.Next() {
		var j model.NormalizedJob
		var remote int
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.Summary, &j.City, &j.State, &j.Department,
			&j.ContractType, &j.PublishedAt, &j.URLApply, &remote); err != nil {
			return nil, time.Time{}, fmt.Errorf("scanning snapshot row: %w", err)
		}
		j.Remote = remote == 1
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterating snapshot: %w", err)
	}
	return jobs, fetchedAt, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
