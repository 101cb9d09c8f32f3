// migrate-to-postgres copies the generation run log from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/runs.db \
//	    -pg-host localhost \
//	    -pg-user deepcrawl \
//	    -pg-password deepcrawl \
//	    -pg-database deepcrawl
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/lawnchairsociety/deepcrawl/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/runs.db", "Path to SQLite run log")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "deepcrawl", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "deepcrawl", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	batches := flag.String("batches", "", "Comma-separated batches to copy (default: all)")
	dryRun := flag.Bool("dry-run", false, "Show what would be copied without making changes")
	flag.Parse()

	log.Println("Run log migration: SQLite to PostgreSQL")

	log.Printf("Opening SQLite run log: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite run log: %v", err)
	}
	defer src.Close()

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	var selected []string
	if *batches != "" {
		for _, b := range strings.Split(*batches, ",") {
			if b = strings.TrimSpace(b); b != "" {
				selected = append(selected, b)
			}
		}
	}

	stats, err := dst.CopyRuns(src, selected, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d run(s): %v", stats.Copied, err)
	}

	log.Printf("Migration complete: %d run(s) copied, %d already present", stats.Copied, stats.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}
