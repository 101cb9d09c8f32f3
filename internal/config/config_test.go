package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	if cfg.Rooms.Margin != 6 {
		t.Errorf("expected margin 6, got %d", cfg.Rooms.Margin)
	}

	if cfg.Generation.MaxAttempts != 50 {
		t.Errorf("expected 50 attempts, got %d", cfg.Generation.MaxAttempts)
	}

	if cfg.Pathfinding.RobustMaxNodes != 5000 {
		t.Errorf("expected robust cap 5000, got %d", cfg.Pathfinding.RobustMaxNodes)
	}

	enabled := 0
	for _, s := range cfg.Rooms.Special {
		if s.Enabled {
			enabled++
			if s.Entrances != 1 {
				t.Errorf("special room %s should have 1 entrance, got %d", s.Type, s.Entrances)
			}
		}
	}
	if enabled != 5 {
		t.Errorf("expected 5 enabled special rooms, got %d", enabled)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/dungeon.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}

	if cfg.Map.Width != 128 {
		t.Errorf("expected default width 128, got %d", cfg.Map.Width)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dungeon.yaml")

	content := `
map:
  width: 96
  height: 80
rooms:
  target_count: 8
pathfinding:
  turn_penalty: 15
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Map.Width != 96 || cfg.Map.Height != 80 {
		t.Errorf("expected 96x80, got %dx%d", cfg.Map.Width, cfg.Map.Height)
	}

	if cfg.Rooms.TargetCount != 8 {
		t.Errorf("expected target count 8, got %d", cfg.Rooms.TargetCount)
	}

	if cfg.Pathfinding.TurnPenalty != 15 {
		t.Errorf("expected turn penalty 15, got %d", cfg.Pathfinding.TurnPenalty)
	}

	// Unset fields keep their defaults
	if cfg.Map.TileSize != 32 {
		t.Errorf("expected default tile size 32, got %d", cfg.Map.TileSize)
	}
	if cfg.Rooms.Margin != 6 {
		t.Errorf("expected default margin 6, got %d", cfg.Rooms.Margin)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dungeon.yaml")

	if err := os.WriteFile(configPath, []byte("map: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if cfg == nil || cfg.Map.Width != 128 {
		t.Error("expected defaults to be returned alongside the error")
	}
}

func TestLoadConfig_RejectsImpossibleMap(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dungeon.yaml")

	if err := os.WriteFile(configPath, []byte("map:\n  width: 12\n  height: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(configPath)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *GeneratorConfig)
	}{
		{"zero width", func(c *GeneratorConfig) { c.Map.Width = 0 }},
		{"zero tile size", func(c *GeneratorConfig) { c.Map.TileSize = 0 }},
		{"negative margin", func(c *GeneratorConfig) { c.Rooms.Margin = -1 }},
		{"inverted size range", func(c *GeneratorConfig) { c.Rooms.MinSize = 12; c.Rooms.MaxSize = 10 }},
		{"tiny rooms", func(c *GeneratorConfig) { c.Rooms.MinSize = 3 }},
		{"no entrances", func(c *GeneratorConfig) { c.Rooms.MinEntrances = 0 }},
		{"no attempts", func(c *GeneratorConfig) { c.Generation.MaxAttempts = 0 }},
		{"oversized start", func(c *GeneratorConfig) { c.Rooms.Start.Width = 200 }},
		{"tiny start", func(c *GeneratorConfig) { c.Rooms.Start.Width, c.Rooms.Start.Height = 3, 3 }},
		{"tiny disabled start", func(c *GeneratorConfig) { c.Rooms.Start.Enabled = false; c.Rooms.Start.Height = 2 }},
		{"tiny special", func(c *GeneratorConfig) { c.Rooms.Special[4].Width, c.Rooms.Special[4].Height = 2, 2 }},
		{"negative lead", func(c *GeneratorConfig) { c.Pathfinding.LeadLength = -8 }},
		{"zero lead", func(c *GeneratorConfig) { c.Pathfinding.LeadLength = 0 }},
		{"zero robust cap", func(c *GeneratorConfig) { c.Pathfinding.RobustMaxNodes = 0 }},
		{"zero reconstruct steps", func(c *GeneratorConfig) { c.Pathfinding.ReconstructMaxSteps = 0 }},
		{"negative search cap", func(c *GeneratorConfig) { c.Pathfinding.MaxSearchNodes = -1 }},
		{"negative junction density", func(c *GeneratorConfig) { c.Repair.JunctionDensity = -1 }},
		{"junction density above 8", func(c *GeneratorConfig) { c.Repair.JunctionDensity = 9 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidate_AcceptsBoundaryValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rooms.MinSize = 4
	cfg.Rooms.Special[0].Width, cfg.Rooms.Special[0].Height = 4, 4
	cfg.Pathfinding.LeadLength = 1
	cfg.Repair.JunctionDensity = 8

	if err := cfg.Validate(); err != nil {
		t.Errorf("boundary values should validate, got %v", err)
	}

	cfg.Repair.JunctionDensity = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("junction density 0 should validate, got %v", err)
	}
}

func TestLoadConfig_RejectsNegativeLead(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dungeon.yaml")
	if err := os.WriteFile(configPath, []byte("pathfinding:\n  lead_length: -8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if cfg == nil || cfg.Pathfinding.LeadLength != 3 {
		t.Error("expected defaults to be returned alongside the error")
	}
}

func TestValidate_IgnoresDisabledRooms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rooms.Special = append(cfg.Rooms.Special,
		RoomSpec{Type: "shop", Width: 500, Height: 500, Enabled: false},
		RoomSpec{Type: "altar", Width: 2, Height: 2, Enabled: false})

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled oversized room should be ignored, got %v", err)
	}
}

func TestSearchNodeLimit(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.SearchNodeLimit(); got != 128*128 {
		t.Errorf("SearchNodeLimit() = %d, want %d", got, 128*128)
	}

	cfg.Pathfinding.MaxSearchNodes = 777
	if got := cfg.SearchNodeLimit(); got != 777 {
		t.Errorf("SearchNodeLimit() = %d, want 777", got)
	}
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "data", "generator.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("data/generator.yaml drifted from DefaultConfig():\n%+v\n%+v", *cfg, *DefaultConfig())
	}
}
