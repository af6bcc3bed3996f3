package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one table generation.
type Run struct {
	RunID      string
	Kind       string // movement, distance or path
	Class      string // edge or corner; empty for movement tables
	OutputPath string
	Status     string
	MaxDepth   *int
	Entries    *int64
	Bytes      *int64
	Error      *string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs *int64
}

// RunRepository records generation runs.
type RunRepository struct {
	db  *DB
	now func() time.Time
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Start records a new running generation and returns its ID.
func (r *RunRepository) Start(kind, class, outputPath string, maxDepth int) (string, error) {
	id := uuid.New().String()

	var classPtr *string
	if class != "" {
		classPtr = &class
	}
	var depthPtr *int
	if maxDepth > 0 {
		depthPtr = &maxDepth
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (run_id, kind, class, output_path, status, max_depth, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, kind, classPtr, outputPath, StatusRunning, depthPtr, r.now().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	return id, nil
}

// Complete marks a run as finished with the size of what it wrote.
func (r *RunRepository) Complete(runID string, entries, bytes int64) error {
	return r.finish(runID, StatusCompleted, &entries, &bytes, nil)
}

// Fail marks a run as failed.
func (r *RunRepository) Fail(runID string, cause error) error {
	msg := cause.Error()
	return r.finish(runID, StatusFailed, nil, nil, &msg)
}

func (r *RunRepository) finish(runID, status string, entries, bytes *int64, errMsg *string) error {
	endedAt := r.now()

	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM runs WHERE run_id = ?", runID).Scan(&startedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return fmt.Errorf("failed to get run start time: %w", err)
	}

	startedAt, err := time.Parse(timeLayout, startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to parse start time: %w", err)
	}
	durationMs := endedAt.Sub(startedAt).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE runs
		SET status = ?, entries = ?, bytes = ?, error = ?, ended_at = ?, duration_ms = ?
		WHERE run_id = ?
	`, status, entries, bytes, errMsg, endedAt.Format(timeLayout), durationMs, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	return nil
}

const runColumns = `run_id, kind, class, output_path, status, max_depth, entries, bytes, error,
	started_at, ended_at, duration_ms`

// Get retrieves a run by ID.
func (r *RunRepository) Get(runID string) (*Run, error) {
	row := r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first. A limit of zero returns all.
func (r *RunRepository) List(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent completed run of a kind and class.
func (r *RunRepository) Latest(kind, class string) (*Run, error) {
	row := r.db.QueryRow(`
		SELECT `+runColumns+` FROM runs
		WHERE kind = ? AND COALESCE(class, '') = ? AND status = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`, kind, class, StatusCompleted)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no completed %s %s run", ErrRunNotFound, class, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// Delete removes a run and its summary rows.
func (r *RunRepository) Delete(runID string) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var class sql.NullString
	var startedAtStr string
	var endedAtStr sql.NullString

	err := s.Scan(
		&run.RunID, &run.Kind, &class, &run.OutputPath, &run.Status,
		&run.MaxDepth, &run.Entries, &run.Bytes, &run.Error,
		&startedAtStr, &endedAtStr, &run.DurationMs,
	)
	if err != nil {
		return nil, err
	}

	run.Class = class.String
	run.StartedAt, err = time.Parse(timeLayout, startedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time: %w", err)
	}
	if endedAtStr.Valid {
		t, err := time.Parse(timeLayout, endedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end time: %w", err)
		}
		run.EndedAt = &t
	}

	return &run, nil
}
