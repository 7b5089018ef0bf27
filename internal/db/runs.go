package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/david/store-finder/internal/ingest"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// HarvestRun is one row of the harvest_runs ledger.
type HarvestRun struct {
	RunID        string
	Status       string
	Queries      []string
	Candidates   int
	Unique       int
	Saved        int
	Skipped      int
	Error        *string
	SnapshotPath string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// Duration is zero while the run is still in progress.
func (r HarvestRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// RunStore records harvest runs. It satisfies ingest.RunRecorder.
type RunStore struct {
	pool *pgxpool.Pool
}

func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

var _ ingest.RunRecorder = (*RunStore)(nil)

func (s *RunStore) StartRun(ctx context.Context, runID string, queries []string, snapshotPath string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO harvest_runs (run_id, status, queries, snapshot_path) VALUES ($1, $2, $3, $4)`,
		runID, RunStatusRunning, queries, snapshotPath)
	if err != nil {
		return fmt.Errorf("insert harvest run %s: %w", runID, err)
	}
	return nil
}

func (s *RunStore) FinishRun(ctx context.Context, runID string, stats ingest.Stats, runErr error) error {
	status, errText := runOutcome(runErr)
	_, err := s.pool.Exec(ctx,
		`UPDATE harvest_runs SET
			status = $1,
			candidates = $2,
			unique_places = $3,
			saved = $4,
			skipped = $5,
			error = $6,
			duration_ms = $7,
			completed_at = NOW()
		WHERE run_id = $8`,
		status, stats.Candidates, stats.Unique, stats.Saved, stats.Skipped, errText,
		stats.Duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("update harvest run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]HarvestRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT run_id, status, queries, candidates, unique_places, saved, skipped, error, snapshot_path, started_at, completed_at
		FROM harvest_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list harvest runs: %w", err)
	}
	defer rows.Close()

	var runs []HarvestRun
	for rows.Next() {
		var r HarvestRun
		if err := rows.Scan(&r.RunID, &r.Status, &r.Queries, &r.Candidates, &r.Unique, &r.Saved, &r.Skipped,
			&r.Error, &r.SnapshotPath, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan harvest run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func runOutcome(runErr error) (status string, errText *string) {
	if runErr == nil {
		return RunStatusCompleted, nil
	}
	msg := runErr.Error()
	return RunStatusFailed, &msg
}
