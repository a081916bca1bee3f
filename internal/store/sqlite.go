package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobpulse/internal/model"
)

// timeLayout has fixed-width fractional seconds so stored values sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned by Run when no row has the given id.
var ErrRunNotFound = errors.New("run not found")

// SQLiteStore keeps an append-only history of pipeline runs in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// runs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS runs (
		run_id       TEXT PRIMARY KEY,
		started_at   TEXT NOT NULL,
		finished_at  TEXT NOT NULL,
		fetched      INTEGER NOT NULL,
		normalized   INTEGER NOT NULL,
		dropped      INTEGER NOT NULL,
		unique_jobs  INTEGER NOT NULL,
		dataset_path TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// RecordRun appends one run. Rows are never updated, so recording the same
// run id twice is an error.
func (s *SQLiteStore) RecordRun(run model.RunSummary) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, started_at, finished_at, fetched, normalized, dropped, unique_jobs, dataset_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.Fetched, run.Normalized, run.Dropped, run.Unique,
		run.DatasetPath,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]model.RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT run_id, started_at, finished_at, fetched, normalized, dropped, unique_jobs, dataset_path
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Run returns the run with the given id.
func (s *SQLiteStore) Run(runID string) (model.RunSummary, error) {
	row := s.db.QueryRow(
		`SELECT run_id, started_at, finished_at, fetched, normalized, dropped, unique_jobs, dataset_path
		 FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunSummary{}, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	return run, err
}

// Prune deletes runs that started before now minus olderThan and returns
// how many were removed.
func (s *SQLiteStore) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC().Format(timeLayout)
	res, err := s.db.Exec("DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs older than %v: %w", olderThan, err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (model.RunSummary, error) {
	var (
		run              model.RunSummary
		started, finished string
	)
	err := sc.Scan(&run.RunID, &started, &finished, &run.Fetched, &run.Normalized, &run.Dropped, &run.Unique, &run.DatasetPath)
	if err != nil {
		return run, err
	}
	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return run, fmt.Errorf("run %s started_at: %w", run.RunID, err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return run, fmt.Errorf("run %s finished_at: %w", run.RunID, err)
	}
	return run, nil
}
