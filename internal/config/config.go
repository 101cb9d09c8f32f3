package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid generator config")

// GeneratorConfig holds every tunable of the dungeon generator.
type GeneratorConfig struct {
	Map         MapConfig         `yaml:"map"`
	Rooms       RoomsConfig       `yaml:"rooms"`
	Generation  GenerationConfig  `yaml:"generation"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Repair      RepairConfig      `yaml:"repair"`
}

// MapConfig holds grid dimensions.
type MapConfig struct {
	// Width and Height are in tiles.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// TileSize is the pixel size of one tile, used by IsWall.
	TileSize int `yaml:"tile_size"`

	// EdgePadding keeps rooms this many tiles away from the map border
	// so corridors can still be routed around them.
	EdgePadding int `yaml:"edge_padding"`
}

// RoomSpec describes a room with a fixed size, such as the start room
// or one of the special rooms.
type RoomSpec struct {
	Type      string `yaml:"type"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Entrances int    `yaml:"entrances"`
	Enabled   bool   `yaml:"enabled"`
}

// RoomsConfig holds room placement settings.
type RoomsConfig struct {
	// TargetCount is the number of random rooms to aim for. It is a soft goal.
	TargetCount int `yaml:"target_count"`

	// PlacementBudget bounds how many random rooms are attempted in total.
	PlacementBudget int `yaml:"placement_budget"`

	// AttemptsPerRoom is the number of random positions tried per room.
	AttemptsPerRoom int `yaml:"attempts_per_room"`

	// Margin is the minimum gap in tiles between two room rectangles.
	Margin int `yaml:"margin"`

	MinSize int `yaml:"min_size"`
	MaxSize int `yaml:"max_size"`

	MinEntrances int `yaml:"min_entrances"`
	MaxEntrances int `yaml:"max_entrances"`

	// ConnectorSpacing is the minimum Manhattan distance between two
	// connectors on the same room.
	ConnectorSpacing int `yaml:"connector_spacing"`

	Start   RoomSpec   `yaml:"start"`
	Special []RoomSpec `yaml:"special"`
}

// GenerationConfig holds retry loop settings.
type GenerationConfig struct {
	MaxAttempts     int     `yaml:"max_attempts"`
	ExtraEdgeChance float64 `yaml:"extra_edge_chance"`
}

// PathfindingConfig holds the corridor search weights. The values are
// empirically tuned and shape the character of generated layouts.
type PathfindingConfig struct {
	LeadLength           int `yaml:"lead_length"`
	EndpointRadius       int `yaml:"endpoint_radius"`
	ThicknessPenalty     int `yaml:"thickness_penalty"`
	TurnPenalty          int `yaml:"turn_penalty"`
	DoubleTurnPenalty    int `yaml:"double_turn_penalty"`
	ParallelPenalty      int `yaml:"parallel_penalty"`
	ParallelGoalDistance int `yaml:"parallel_goal_distance"`
	RobustMaxNodes       int `yaml:"robust_max_nodes"`
	ReconstructMaxSteps  int `yaml:"reconstruct_max_steps"`

	// MaxSearchNodes caps FindPath expansions. 0 means width*height.
	MaxSearchNodes int `yaml:"max_search_nodes"`

	AxisBonus         int `yaml:"axis_bonus"`
	CrossroadInterval int `yaml:"crossroad_interval"`
}

// RepairConfig holds the connector stitching settings.
type RepairConfig struct {
	RayLength       int `yaml:"ray_length"`
	JunctionDensity int `yaml:"junction_density"`
	ScanRadius      int `yaml:"scan_radius"`
}

// DefaultConfig returns the generator defaults.
func DefaultConfig() *GeneratorConfig {
	return &GeneratorConfig{
		Map: MapConfig{
			Width:       128,
			Height:      128,
			TileSize:    32,
			EdgePadding: 4,
		},
		Rooms: RoomsConfig{
			TargetCount:      15,
			PlacementBudget:  200,
			AttemptsPerRoom:  50,
			Margin:           6,
			MinSize:          10,
			MaxSize:          16,
			MinEntrances:     2,
			MaxEntrances:     4,
			ConnectorSpacing: 4,
			Start:            RoomSpec{Type: "start", Width: 14, Height: 14, Entrances: 8, Enabled: true},
			Special: []RoomSpec{
				{Type: "treasure", Width: 8, Height: 8, Entrances: 1, Enabled: true},
				{Type: "staircase", Width: 8, Height: 8, Entrances: 1, Enabled: true},
				{Type: "statue", Width: 10, Height: 10, Entrances: 1, Enabled: true},
				{Type: "altar", Width: 10, Height: 10, Entrances: 1, Enabled: true},
				{Type: "shop", Width: 12, Height: 10, Entrances: 1, Enabled: true},
				{Type: "training", Width: 12, Height: 12, Entrances: 2, Enabled: false},
			},
		},
		Generation: GenerationConfig{
			MaxAttempts:     50,
			ExtraEdgeChance: 0.10,
		},
		Pathfinding: PathfindingConfig{
			LeadLength:           3,
			EndpointRadius:       5,
			ThicknessPenalty:     50,
			TurnPenalty:          10,
			DoubleTurnPenalty:    100,
			ParallelPenalty:      1000,
			ParallelGoalDistance: 3,
			RobustMaxNodes:       5000,
			ReconstructMaxSteps:  10000,
			MaxSearchNodes:       0,
			AxisBonus:            50,
			CrossroadInterval:    30,
		},
		Repair: RepairConfig{
			RayLength:       20,
			JunctionDensity: 5,
			ScanRadius:      40,
		},
	}
}

// LoadConfig loads generator configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*GeneratorConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// minRoomSide is the smallest room edge that leaves open interior and
// room for a two-tile door on every side.
const minRoomSide = 4

// Validate rejects configurations that cannot produce a map.
func (c *GeneratorConfig) Validate() error {
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("%w: map size %dx%d", ErrInvalidConfig, c.Map.Width, c.Map.Height)
	}
	if c.Map.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidConfig, c.Map.TileSize)
	}
	if c.Rooms.Margin < 0 || c.Map.EdgePadding < 0 {
		return fmt.Errorf("%w: negative margin or padding", ErrInvalidConfig)
	}
	if c.Rooms.MinSize < minRoomSide || c.Rooms.MaxSize < c.Rooms.MinSize {
		return fmt.Errorf("%w: room size range %d..%d", ErrInvalidConfig, c.Rooms.MinSize, c.Rooms.MaxSize)
	}
	if c.Rooms.MinEntrances < 1 || c.Rooms.MaxEntrances < c.Rooms.MinEntrances {
		return fmt.Errorf("%w: entrance range %d..%d", ErrInvalidConfig, c.Rooms.MinEntrances, c.Rooms.MaxEntrances)
	}

	// The start room is placed whether or not it is marked enabled.
	start := c.Rooms.Start
	start.Enabled = true
	specs := append([]RoomSpec{start}, c.Rooms.Special...)
	specs = append(specs, RoomSpec{Type: "normal", Width: c.Rooms.MaxSize, Height: c.Rooms.MaxSize, Enabled: true})
	for _, s := range specs {
		if !s.Enabled {
			continue
		}
		if s.Width < minRoomSide || s.Height < minRoomSide {
			return fmt.Errorf("%w: %s room %dx%d has no interior, need at least %dx%d",
				ErrInvalidConfig, s.Type, s.Width, s.Height, minRoomSide, minRoomSide)
		}
		if s.Width+2*c.Map.EdgePadding > c.Map.Width || s.Height+2*c.Map.EdgePadding > c.Map.Height {
			return fmt.Errorf("%w: %s room %dx%d does not fit a %dx%d map",
				ErrInvalidConfig, s.Type, s.Width, s.Height, c.Map.Width, c.Map.Height)
		}
	}

	if c.Generation.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts %d", ErrInvalidConfig, c.Generation.MaxAttempts)
	}

	pf := c.Pathfinding
	if pf.LeadLength < 1 {
		return fmt.Errorf("%w: lead length %d", ErrInvalidConfig, pf.LeadLength)
	}
	if pf.RobustMaxNodes <= 0 || pf.ReconstructMaxSteps <= 0 || pf.MaxSearchNodes < 0 {
		return fmt.Errorf("%w: search limits %d/%d/%d", ErrInvalidConfig,
			pf.RobustMaxNodes, pf.ReconstructMaxSteps, pf.MaxSearchNodes)
	}
	if c.Repair.JunctionDensity < 0 || c.Repair.JunctionDensity > 8 {
		return fmt.Errorf("%w: junction density %d outside 0..8", ErrInvalidConfig, c.Repair.JunctionDensity)
	}

	return nil
}

// SearchNodeLimit returns the FindPath expansion cap for this map.
func (c *GeneratorConfig) SearchNodeLimit() int {
	if c.Pathfinding.MaxSearchNodes > 0 {
		return c.Pathfinding.MaxSearchNodes
	}
	return c.Map.Width * c.Map.Height
}
