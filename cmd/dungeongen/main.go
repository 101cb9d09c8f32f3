package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/database"
	"github.com/lawnchairsociety/deepcrawl/internal/logger"
)

func main() {
	seeds := flag.String("seeds", "1", "Seed range to generate (e.g., 1-100, -20..-10 or 42)")
	configFile := flag.String("config", "data/generator.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	outDir := flag.String("out", "", "Output directory for YAML and PNG files (empty: no files)")
	showASCII := flag.Bool("ascii", true, "Print each map as ASCII")
	showOwners := flag.Bool("owners", false, "Print owning room ids instead of floor dots")
	showLegend := flag.Bool("legend", false, "Print the legend after each map")
	writeYAML := flag.Bool("yaml", true, "Write a YAML dump per seed (requires -out)")
	writePNG := flag.Bool("png", false, "Write a PNG per seed (requires -out)")
	scale := flag.Int("scale", 8, "PNG pixels per tile")
	labels := flag.Bool("labels", true, "Draw room ids on PNGs")
	dbFile := flag.String("db", "", "Path to SQLite run log (empty: no run log)")
	dbConfigFile := flag.String("db-config", "", "Path to database config YAML file (overrides -db)")
	batch := flag.String("batch", "", "Run log batch name (default: seeds-<range>)")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	start, end, err := parseSeedRange(*seeds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid seed range: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load generator config: %v\n", err)
		os.Exit(1)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
			os.Exit(1)
		}
	}

	db, err := openRunLog(*dbFile, *dbConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	batchName := *batch
	if batchName == "" {
		batchName = fmt.Sprintf("seeds-%d-%d", start, end)
	}

	gen := NewBatchGenerator(cfg, Options{
		OutputDir: *outDir,
		ASCII:     *showASCII,
		Owners:    *showOwners,
		Legend:    *showLegend,
		YAML:      *writeYAML && *outDir != "",
		PNG:       *writePNG && *outDir != "",
		Scale:     *scale,
		Labels:    *labels,
		Batch:     batchName,
	}, db, os.Stdout)

	logger.Info("Generating dungeons", "seeds", *seeds, "batch", batchName, "size", fmt.Sprintf("%dx%d", cfg.Map.Width, cfg.Map.Height))

	failed := 0
	err = eachSeed(start, end, func(seed int64) error {
		report, err := gen.GenerateSeed(seed)
		if err != nil {
			return fmt.Errorf("seed %d: %w", seed, err)
		}
		if !report.Success {
			failed++
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := gen.PrintSummary(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		logger.Warning("Some seeds failed to generate", "failed", failed)
		if db != nil {
			db.Close()
		}
		os.Exit(2)
	}
}

// openRunLog opens the run log named by the flags, or returns nil when
// neither flag is set.
func openRunLog(path, configPath string) (*database.Database, error) {
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read database config: %w", err)
		}
		dbConfig := database.DefaultConfig(path)
		dbConfig.Postgres = database.DefaultPostgresConfig()
		if err := yaml.Unmarshal(data, &dbConfig); err != nil {
			return nil, fmt.Errorf("failed to parse database config: %w", err)
		}
		return database.OpenWithConfig(dbConfig)
	}
	if path == "" {
		return nil, nil
	}
	return database.Open(path)
}
