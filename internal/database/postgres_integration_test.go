package database

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set these environment variables to run PostgreSQL tests:
//
//	DEEPCRAWL_TEST_POSTGRES (any value enables the tests)
//	DEEPCRAWL_TEST_POSTGRES_HOST (default: localhost)
//	DEEPCRAWL_TEST_POSTGRES_PORT (default: 5432)
//	DEEPCRAWL_TEST_POSTGRES_USER (default: deepcrawl)
//	DEEPCRAWL_TEST_POSTGRES_PASSWORD (default: deepcrawl)
//	DEEPCRAWL_TEST_POSTGRES_DATABASE (default: deepcrawl_test)
func getPostgresTestConfig() *Config {
	if os.Getenv("DEEPCRAWL_TEST_POSTGRES") == "" {
		return nil
	}

	env := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	port := 5432
	if portStr := os.Getenv("DEEPCRAWL_TEST_POSTGRES_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}

	pg := DefaultPostgresConfig()
	pg.Host = env("DEEPCRAWL_TEST_POSTGRES_HOST", "localhost")
	pg.Port = port
	pg.User = env("DEEPCRAWL_TEST_POSTGRES_USER", "deepcrawl")
	pg.Password = env("DEEPCRAWL_TEST_POSTGRES_PASSWORD", "deepcrawl")
	pg.Database = env("DEEPCRAWL_TEST_POSTGRES_DATABASE", "deepcrawl_test")
	pg.MaxOpenConns = 10
	pg.ConnMaxLifetime = time.Minute

	return &Config{Driver: "postgres", Postgres: pg}
}

// setupPostgresTestDB opens PostgreSQL and clears the run log, or skips.
func setupPostgresTestDB(t *testing.T) (*Database, *Config) {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: DEEPCRAWL_TEST_POSTGRES not set")
	}

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	if _, err := db.db.Exec("DELETE FROM generation_runs"); err != nil {
		t.Logf("Note: could not clean generation_runs: %v", err)
	}
	t.Cleanup(func() {
		db.db.Exec("DELETE FROM generation_runs")
		db.Close()
	})
	return db, cfg
}

func TestPostgres_OpenWithConfig(t *testing.T) {
	db, cfg := setupPostgresTestDB(t)

	if _, ok := db.Dialect().(*PostgresDialect); !ok {
		t.Errorf("Dialect() = %T, want *PostgresDialect", db.Dialect())
	}
	if got := db.db.Stats().MaxOpenConnections; got != cfg.Postgres.MaxOpenConns {
		t.Errorf("MaxOpenConnections = %d, want %d", got, cfg.Postgres.MaxOpenConns)
	}
}

func TestPostgres_RecordAndStats(t *testing.T) {
	db, _ := setupPostgresTestDB(t)

	for _, r := range []*Run{
		testRun("pg", 1, true, 1),
		testRun("pg", 2, false, 50),
		testRun("pg", 3, true, 2),
	} {
		if err := db.RecordRun(r); err != nil {
			t.Fatalf("RecordRun(%d) failed: %v", r.Seed, err)
		}
		if r.ID == 0 {
			t.Errorf("RecordRun(%d) did not set ID", r.Seed)
		}
	}

	if err := db.RecordRun(testRun("pg", 1, true, 1)); !errors.Is(err, ErrRunExists) {
		t.Errorf("duplicate RecordRun() error = %v, want ErrRunExists", err)
	}

	s, err := db.Stats("pg")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if s.Runs != 3 || s.Failures != 1 || s.MaxAttempts != 50 {
		t.Errorf("Stats() = %+v", s)
	}

	failed, err := db.FailedSeeds("pg")
	if err != nil || len(failed) != 1 || failed[0] != 2 {
		t.Errorf("FailedSeeds() = %v, %v", failed, err)
	}
}

func TestPostgres_ConcurrentWrites(t *testing.T) {
	db, _ := setupPostgresTestDB(t)

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				seed := int64(w*perWorker + j)
				if err := db.RecordRun(testRun("concurrent", seed, true, 1)); err != nil {
					errs <- fmt.Errorf("worker %d seed %d: %w", w, seed, err)
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	runs, err := db.ListRuns("concurrent")
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != workers*perWorker {
		t.Errorf("got %d runs, want %d", len(runs), workers*perWorker)
	}
}
