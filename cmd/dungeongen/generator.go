package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/database"
	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
	"github.com/lawnchairsociety/deepcrawl/internal/layout"
	"github.com/lawnchairsociety/deepcrawl/internal/logger"
	"github.com/lawnchairsociety/deepcrawl/internal/render"
)

// Options selects what BatchGenerator produces for each seed.
type Options struct {
	OutputDir string
	ASCII     bool
	Owners    bool
	Legend    bool
	YAML      bool
	PNG       bool
	Scale     int
	Labels    bool
	Batch     string
}

// BatchGenerator generates a dungeon per seed, writes the requested
// outputs and records each run.
type BatchGenerator struct {
	cfg  *config.GeneratorConfig
	opts Options
	db   *database.Database
	out  io.Writer

	runs     int
	failures int
	forced   int
	attempts int
	elapsed  time.Duration
}

// NewBatchGenerator creates a batch generator. db may be nil.
func NewBatchGenerator(cfg *config.GeneratorConfig, opts Options, db *database.Database, out io.Writer) *BatchGenerator {
	return &BatchGenerator{cfg: cfg, opts: opts, db: db, out: out}
}

// GenerateSeed generates one dungeon. A failed generation is not an error;
// only output failures are.
func (g *BatchGenerator) GenerateSeed(seed int64) (dungeon.Report, error) {
	m := dungeon.New(g.cfg, seed)
	report := m.Generate()

	g.runs++
	g.attempts += report.Attempts
	g.elapsed += report.Elapsed
	if !report.Success {
		g.failures++
	}
	if report.Forced {
		g.forced++
	}

	status := "OK"
	if !report.Success {
		status = "FAILED"
	} else if report.Forced {
		status = "OK (forced)"
	}
	fmt.Fprintf(g.out, "Seed %d: %s, %d rooms, %d attempt(s), %d unused connector(s)\n",
		seed, status, report.Rooms, report.Attempts, report.UnusedConnectors)

	if g.opts.ASCII {
		header := fmt.Sprintf("Dungeon (Seed: %d)", seed)
		opts := render.Options{Owners: g.opts.Owners, Legend: g.opts.Legend}
		if err := render.ASCII(g.out, m.Layout(), header, opts); err != nil {
			return report, fmt.Errorf("failed to print map: %w", err)
		}
		fmt.Fprintln(g.out, render.Summary(m.Layout()))
	}

	if g.opts.YAML {
		if err := g.writeYAML(m, report); err != nil {
			return report, err
		}
	}

	if g.opts.PNG {
		if err := g.writePNG(m); err != nil {
			return report, err
		}
	}

	if g.db != nil {
		run := database.NewRun(g.opts.Batch, g.cfg.Map.Width, g.cfg.Map.Height, report)
		if err := g.db.RecordRun(run); err != nil {
			logger.Warning("Failed to record run", "seed", seed, "batch", g.opts.Batch, "error", err)
		}
	}

	return report, nil
}

func (g *BatchGenerator) writeYAML(m *dungeon.Map, report dungeon.Report) error {
	out, err := layout.FromMap(m, report)
	if err != nil {
		logger.Warning("Skipping YAML dump", "seed", m.Seed(), "error", err)
		return nil
	}
	path := filepath.Join(g.opts.OutputDir, fmt.Sprintf("dungeon_%d.yaml", m.Seed()))
	if err := layout.WriteLayoutYAML(out, path); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	logger.Debug("Wrote layout", "path", path)
	return nil
}

func (g *BatchGenerator) writePNG(m *dungeon.Map) error {
	path := filepath.Join(g.opts.OutputDir, fmt.Sprintf("dungeon_%d.png", m.Seed()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := render.PNG(f, m.Layout(), render.ImageOptions{Scale: g.opts.Scale, Labels: g.opts.Labels}); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	logger.Debug("Wrote image", "path", path)
	return f.Close()
}

// PrintSummary writes the aggregate of this batch. With a run log it also
// reports the stored totals, which include earlier invocations of the batch.
func (g *BatchGenerator) PrintSummary(w io.Writer) error {
	fmt.Fprintf(w, "\nGenerated %d dungeon(s): %d failed, %d forced\n", g.runs, g.failures, g.forced)
	if g.runs > 0 {
		fmt.Fprintf(w, "Average attempts: %.2f, average time: %v\n",
			float64(g.attempts)/float64(g.runs), g.elapsed/time.Duration(g.runs))
	}

	if g.db == nil {
		return nil
	}

	stats, err := g.db.Stats(g.opts.Batch)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Run log %q: %d run(s), %.1f%% success, max attempts %d, avg rooms %.1f, avg unused connectors %.2f\n",
		g.opts.Batch, stats.Runs, stats.SuccessRate()*100, stats.MaxAttempts, stats.AvgRooms, stats.AvgUnused)

	failed, err := g.db.FailedSeeds(g.opts.Batch)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "Failed seeds: %v\n", failed)
	}
	return nil
}
