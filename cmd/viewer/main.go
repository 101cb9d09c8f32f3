package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/logger"
)

func main() {
	seed := flag.Int64("seed", 0, "Dungeon seed (default: random based on current time)")
	configFile := flag.String("config", "data/generator.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load generator config, using defaults", "path", *configFile, "error", err)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	logger.Info("Starting viewer", "seed", s)

	ebiten.SetWindowTitle("deepcrawl")
	ebiten.SetWindowSize(screenWidth, screenHeight)
	if err := ebiten.RunGame(NewGame(cfg, s)); err != nil {
		logger.Error("Viewer stopped", "error", err)
		os.Exit(1)
	}
}
