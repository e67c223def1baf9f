package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const runColumns = "run_id, started_at, finished_at, books_json, status, error_message"

// ErrRunNotFound is returned when finishing a run that was never started.
var ErrRunNotFound = errors.New("build run not found")

// StartRun records a running build for the given books.
func (s *Store) StartRun(ctx context.Context, runID string, books []int) (*Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, errors.New("start run: run id is empty")
	}
	booksJSON, err := json.Marshal(books)
	if err != nil {
		return nil, fmt.Errorf("marshal run books: %w", err)
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO build_runs (run_id, started_at, books_json, status) VALUES (?, ?, ?, ?)`,
		runID, formatTime(time.Now()), string(booksJSON), RunRunning,
	); err != nil {
		return nil, fmt.Errorf("insert run %s: %w", runID, err)
	}
	return s.Run(ctx, runID)
}

// FinishRun marks a run terminal with status and an optional error summary.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, errMsg string) error {
	switch status {
	case RunSucceeded, RunPartial, RunFailed:
	default:
		return fmt.Errorf("finish run %s: invalid status %q", runID, status)
	}
	now := time.Now()
	res, err := s.execWithRetry(ctx,
		`UPDATE build_runs SET finished_at = ?, status = ?, error_message = ? WHERE run_id = ?`,
		nullableTime(&now), status, nullableString(errMsg), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// Run fetches a run by id. A missing row yields (nil, nil).
func (s *Store) Run(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM build_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// Runs lists the most recent runs first. A non-positive limit returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM build_runs ORDER BY started_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		booksJSON   string
		status      string
		errMsg      sql.NullString
	)
	if err := scanner.Scan(&run.ID, &startedRaw, &finishedRaw, &booksJSON, &status, &errMsg); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(booksJSON), &run.Books); err != nil {
		return nil, fmt.Errorf("run %s books: %w", run.ID, err)
	}
	run.Status = RunStatus(status)
	run.Error = errMsg.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}
