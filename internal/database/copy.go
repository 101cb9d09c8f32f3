package database

import (
	"errors"
	"fmt"
)

// Batches returns the names of every recorded batch in order.
func (d *Database) Batches() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT batch FROM generation_runs ORDER BY batch")
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// CopyStats counts the outcome of CopyRuns.
type CopyStats struct {
	Copied  int
	Skipped int
}

// CopyRuns copies every run of the given batches from src into d. Runs d
// already holds are skipped. An empty batches list copies every batch.
// With dryRun set nothing is written and every run counts as copied.
func (d *Database) CopyRuns(src *Database, batches []string, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	if len(batches) == 0 {
		var err error
		if batches, err = src.Batches(); err != nil {
			return stats, err
		}
	}

	for _, batch := range batches {
		runs, err := src.ListRuns(batch)
		if err != nil {
			return stats, err
		}
		for _, run := range runs {
			if dryRun {
				stats.Copied++
				continue
			}
			copied := *run
			copied.ID = 0
			err := d.RecordRun(&copied)
			switch {
			case errors.Is(err, ErrRunExists):
				stats.Skipped++
			case err != nil:
				return stats, fmt.Errorf("batch %s seed %d: %w", batch, run.Seed, err)
			default:
				stats.Copied++
			}
		}
	}

	return stats, nil
}
