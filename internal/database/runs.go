package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
)

// ErrRunNotFound is returned when a run lookup fails.
var ErrRunNotFound = errors.New("run not found")

// ErrRunExists is returned when a batch already has a run for the seed.
var ErrRunExists = errors.New("run already recorded")

// Run is one recorded Generate call.
type Run struct {
	ID               int64
	Batch            string
	Seed             int64
	Width            int
	Height           int
	Success          bool
	Attempts         int
	Forced           bool
	Rooms            int
	UnusedConnectors int
	Elapsed          time.Duration
	CreatedAt        time.Time
}

// NewRun builds a Run for the given batch from a generation report.
func NewRun(batch string, width, height int, r dungeon.Report) *Run {
	return &Run{
		Batch:            batch,
		Seed:             r.Seed,
		Width:            width,
		Height:           height,
		Success:          r.Success,
		Attempts:         r.Attempts,
		Forced:           r.Forced,
		Rooms:            r.Rooms,
		UnusedConnectors: r.UnusedConnectors,
		Elapsed:          r.Elapsed,
	}
}

// BatchStats aggregates every run of a batch.
type BatchStats struct {
	Runs         int
	Failures     int
	Forced       int
	MaxAttempts  int
	AvgAttempts  float64
	AvgRooms     float64
	AvgUnused    float64
	TotalElapsed time.Duration
}

// SuccessRate returns the fraction of successful runs, or 0 for an empty batch.
func (s *BatchStats) SuccessRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Runs-s.Failures) / float64(s.Runs)
}

// RecordRun stores a run and sets its ID.
func (d *Database) RecordRun(run *Run) error {
	if run.Batch == "" {
		return errors.New("batch cannot be empty")
	}

	query := d.qb.BuildWithReturning(`INSERT INTO generation_runs
		(batch, seed, width, height, success, attempts, forced, rooms, unused_connectors, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{
		run.Batch, run.Seed, run.Width, run.Height,
		boolToInt(run.Success), run.Attempts, boolToInt(run.Forced),
		run.Rooms, run.UnusedConnectors, run.Elapsed.Milliseconds(),
	}

	var id int64
	if d.dialect.SupportsLastInsertID() {
		result, err := d.db.Exec(query, args...)
		if err != nil {
			return d.insertError(err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get run ID: %w", err)
		}
	} else if err := d.db.QueryRow(query, args...).Scan(&id); err != nil {
		return d.insertError(err)
	}

	run.ID = id
	run.CreatedAt = time.Now()
	return nil
}

func (d *Database) insertError(err error) error {
	if d.dialect.IsDuplicateKeyError(err) {
		return ErrRunExists
	}
	return fmt.Errorf("failed to record run: %w", err)
}

const runColumns = `id, batch, seed, width, height, success, attempts, forced,
	rooms, unused_connectors, elapsed_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var success, forced int
	var elapsedMS int64
	var createdAt sql.NullTime

	err := row.Scan(&run.ID, &run.Batch, &run.Seed, &run.Width, &run.Height,
		&success, &run.Attempts, &forced, &run.Rooms, &run.UnusedConnectors,
		&elapsedMS, &createdAt)
	if err != nil {
		return nil, err
	}

	run.Success = success != 0
	run.Forced = forced != 0
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
	return &run, nil
}

// GetRun retrieves the run of a batch for the given seed.
func (d *Database) GetRun(batch string, seed int64) (*Run, error) {
	query := d.qb.Build("SELECT " + runColumns + " FROM generation_runs WHERE batch = ? AND seed = ?")
	run, err := scanRun(d.db.QueryRow(query, batch, seed))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns every run of a batch ordered by seed.
func (d *Database) ListRuns(batch string) ([]*Run, error) {
	query := d.qb.Build("SELECT " + runColumns + " FROM generation_runs WHERE batch = ? ORDER BY seed")
	rows, err := d.db.Query(query, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FailedSeeds returns the seeds of a batch whose generation gave up.
func (d *Database) FailedSeeds(batch string) ([]int64, error) {
	query := d.qb.Build("SELECT seed FROM generation_runs WHERE batch = ? AND success = 0 ORDER BY seed")
	rows, err := d.db.Query(query, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed seeds: %w", err)
	}
	defer rows.Close()

	var seeds []int64
	for rows.Next() {
		var seed int64
		if err := rows.Scan(&seed); err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, rows.Err()
}

// Stats aggregates the runs of a batch.
func (d *Database) Stats(batch string) (*BatchStats, error) {
	query := d.qb.Build(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(forced), 0),
		COALESCE(MAX(attempts), 0),
		COALESCE(AVG(attempts), 0),
		COALESCE(AVG(rooms), 0),
		COALESCE(AVG(unused_connectors), 0),
		COALESCE(SUM(elapsed_ms), 0)
		FROM generation_runs WHERE batch = ?`)

	var s BatchStats
	var elapsedMS int64
	err := d.db.QueryRow(query, batch).Scan(&s.Runs, &s.Failures, &s.Forced, &s.MaxAttempts,
		&s.AvgAttempts, &s.AvgRooms, &s.AvgUnused, &elapsedMS)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate runs: %w", err)
	}
	s.TotalElapsed = time.Duration(elapsedMS) * time.Millisecond
	return &s, nil
}

// DeleteBatch removes every run of a batch and returns how many were removed.
func (d *Database) DeleteBatch(batch string) (int64, error) {
	query := d.qb.Build("DELETE FROM generation_runs WHERE batch = ?")
	result, err := d.db.Exec(query, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to delete batch: %w", err)
	}
	return result.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
