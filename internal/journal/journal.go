package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Status values for artifact records.
const (
	StatusDownloaded = "downloaded"
	StatusSkipped    = "skipped"
	StatusFailed     = "failed"
)

// Journal stores run and artifact records in a SQLite database.
type Journal struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Open opens or creates a journal database at the given directory.
func Open(dbDir string) (*Journal, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, "iliasdl.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite only supports one writer; the crawl funnels all journal
	// writes through this single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the location of the database file.
func (j *Journal) Path() string {
	return j.dbPath
}

// createTables creates the schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	-- One row per sync run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		output_root TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME
	);

	-- One row per artifact a run touched
	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		path TEXT NOT NULL,
		source_url TEXT,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		bytes INTEGER DEFAULT 0,
		detail TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_status ON artifacts(status);
	CREATE INDEX IF NOT EXISTS idx_artifacts_path ON artifacts(path);
	`
	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// BeginRun records the start of a sync run and returns its id.
func (j *Journal) BeginRun(ctx context.Context, outputRoot string) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		"INSERT INTO runs (output_root) VALUES (?)", outputRoot)
	if err != nil {
		return 0, fmt.Errorf("failed to record run start: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run's completion time.
func (j *Journal) FinishRun(ctx context.Context, runID int64) error {
	_, err := j.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = CURRENT_TIMESTAMP WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	return nil
}

// Artifact is one journal entry of a run.
type Artifact struct {
	// Path is the destination path relative to the output root.
	Path string

	// SourceURL is the remote reference the artifact came from.
	SourceURL string

	// Kind is the content node kind (file, video, thread, ...).
	Kind string

	// Status is one of the Status constants.
	Status string

	// Bytes is the byte count written, when known.
	Bytes int64

	// Detail carries the failure chain or skip reason, when present.
	Detail string
}

// Record appends one artifact entry to a run.
func (j *Journal) Record(ctx context.Context, runID int64, a Artifact) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO artifacts (run_id, path, source_url, kind, status, bytes, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, a.Path, a.SourceURL, a.Kind, a.Status, a.Bytes, a.Detail)
	if err != nil {
		return fmt.Errorf("failed to record artifact %s: %w", a.Path, err)
	}
	return nil
}

// Summary aggregates a run's artifact records.
type Summary struct {
	// RunID identifies the summarized run.
	RunID int64

	// OutputRoot is the mirror directory of the run.
	OutputRoot string

	// Downloaded, Skipped and Failed count artifacts by status.
	Downloaded int
	Skipped    int
	Failed     int

	// Bytes is the total byte count written.
	Bytes int64

	// ByKind counts downloaded artifacts per node kind.
	ByKind map[string]int

	// Failures lists the failed artifacts with their error chains.
	Failures []Artifact
}

// Summarize aggregates all artifact records of a run.
func (j *Journal) Summarize(ctx context.Context, runID int64) (*Summary, error) {
	s := &Summary{RunID: runID, ByKind: make(map[string]int)}

	if err := j.db.QueryRowContext(ctx,
		"SELECT output_root FROM runs WHERE id = ?", runID).Scan(&s.OutputRoot); err != nil {
		return nil, fmt.Errorf("failed to load run %d: %w", runID, err)
	}

	rows, err := j.db.QueryContext(ctx,
		"SELECT path, source_url, kind, status, bytes, detail FROM artifacts WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts of run %d: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a Artifact
		var sourceURL, detail sql.NullString
		if err := rows.Scan(&a.Path, &sourceURL, &a.Kind, &a.Status, &a.Bytes, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		a.SourceURL = sourceURL.String
		a.Detail = detail.String

		switch a.Status {
		case StatusDownloaded:
			s.Downloaded++
			s.Bytes += a.Bytes
			s.ByKind[a.Kind]++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
			s.Failures = append(s.Failures, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}
	return s, nil
}
