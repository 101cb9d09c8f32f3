package dungeon

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/logger"
)

// Report summarizes one Generate call.
type Report struct {
	Seed    int64
	Success bool

	// Attempts is the number of full attempts made, including the final one.
	Attempts int

	// Forced is true when the accepted attempt needed a ForceConnectivity pass.
	Forced bool

	Rooms            int
	UnusedConnectors int
	Elapsed          time.Duration
}

// Map owns the tile grid, owner grid and room list of a dungeon level and
// answers gameplay queries against them.
type Map struct {
	cfg    *config.GeneratorConfig
	seed   int64
	rng    *rand.Rand
	log    *slog.Logger
	layout *Layout
}

// New creates an empty map. The same seed and config always generate the
// same dungeon.
func New(cfg *config.GeneratorConfig, seed int64) *Map {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Map{
		cfg:    cfg,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		log:    logger.With("seed", seed),
		layout: NewLayout(cfg.Map.Width, cfg.Map.Height),
	}
}

// Generate builds a new dungeon, discarding any previous one. Attempts
// that end with unreachable rooms are thrown away and rebuilt from
// scratch. If every attempt fails the last layout is kept as is and the
// failure is logged; Generate never fails outright.
func (m *Map) Generate() Report {
	start := time.Now()
	report := Report{Seed: m.seed}

	for attempt := 1; attempt <= m.cfg.Generation.MaxAttempts; attempt++ {
		report.Attempts = attempt
		m.layout = NewLayout(m.cfg.Map.Width, m.cfg.Map.Height)

		ok, forced := m.attempt(attempt)
		report.Forced = forced
		if ok {
			report.Success = true
			break
		}
		m.log.Debug("attempt discarded", "attempt", attempt)
	}

	report.Rooms = len(m.layout.Rooms)
	for _, r := range m.layout.Rooms {
		report.UnusedConnectors += len(r.UnusedConnectors())
	}
	report.Elapsed = time.Since(start)

	if report.Success {
		m.log.Info("dungeon generated",
			"attempts", report.Attempts,
			"rooms", report.Rooms,
			"forced", report.Forced,
			"unused_connectors", report.UnusedConnectors,
			"elapsed", report.Elapsed)
	} else {
		m.log.Error("dungeon generation failed, keeping last attempt",
			"attempts", report.Attempts,
			"rooms", report.Rooms)
	}
	return report
}

// attempt runs one full placement and connection pass on the current
// layout. It returns whether every room ended up reachable and whether a
// forced repair was needed.
func (m *Map) attempt(n int) (ok, forced bool) {
	placer := NewRoomPlacer(m.layout, m.cfg, m.rng, m.log)
	m.placeStartRoom(placer)
	m.placeRandomRooms(placer)
	m.placeSpecialRooms(placer)

	pf := NewPathfinder(m.layout, m.cfg, m.log)
	rc := NewRoomConnector(m.layout, pf, m.cfg, m.rng, m.log)
	rc.ConnectRooms()

	conn := rc.CheckConnectivity()
	if conn.Success {
		return true, false
	}

	ids := make([]int, len(conn.Unreachable))
	for i, r := range conn.Unreachable {
		ids[i] = r.ID
	}
	m.log.Warn("unreachable rooms, forcing connectivity", "attempt", n, "rooms", ids)

	rc.ForceConnectivity(conn.Unreachable)
	return rc.CheckConnectivity().Success, true
}

func (m *Map) placeStartRoom(placer *RoomPlacer) {
	spec := m.cfg.Rooms.Start
	pos := Point{(m.layout.Width - spec.Width) / 2, (m.layout.Height - spec.Height) / 2}
	_, ok := placer.PlaceRoom(RoomConfig{
		W:          spec.Width,
		H:          spec.Height,
		Type:       RoomStart,
		Shape:      ShapeSquare,
		Position:   &pos,
		Connectors: StartRoomConnectors(spec.Width, spec.Height),
	})
	if !ok {
		m.log.Error("start room did not fit", "w", spec.Width, "h", spec.Height)
	}
}

func (m *Map) placeRandomRooms(placer *RoomPlacer) {
	rooms := m.cfg.Rooms
	shapes := AllShapes()
	placed := 0
	for i := 0; i < rooms.PlacementBudget && placed < rooms.TargetCount; i++ {
		rc := RoomConfig{
			W:         m.between(rooms.MinSize, rooms.MaxSize),
			H:         m.between(rooms.MinSize, rooms.MaxSize),
			Type:      RoomNormal,
			Shape:     shapes[m.rng.Intn(len(shapes))],
			Entrances: m.between(rooms.MinEntrances, rooms.MaxEntrances),
		}
		if _, ok := placer.PlaceRoom(rc); ok {
			placed++
		}
	}
	if placed < rooms.TargetCount {
		m.log.Debug("random room target missed", "placed", placed, "target", rooms.TargetCount)
	}
}

func (m *Map) placeSpecialRooms(placer *RoomPlacer) {
	for _, spec := range m.cfg.Rooms.Special {
		if !spec.Enabled {
			continue
		}
		t, err := ParseRoomType(spec.Type)
		if err != nil {
			m.log.Warn("skipping special room", "error", err)
			continue
		}
		placer.PlaceRoom(RoomConfig{
			W:         spec.Width,
			H:         spec.Height,
			Type:      t,
			Shape:     ShapeSquare,
			Entrances: spec.Entrances,
		})
	}
}

// between returns a uniform random int in [lo, hi].
func (m *Map) between(lo, hi int) int {
	return lo + m.rng.Intn(hi-lo+1)
}

// Seed returns the seed the map was created with.
func (m *Map) Seed() int64 {
	return m.seed
}

// Config returns the generator configuration.
func (m *Map) Config() *config.GeneratorConfig {
	return m.cfg
}

// Layout returns the current grid state.
func (m *Map) Layout() *Layout {
	return m.layout
}

// Rooms returns the placed rooms, indexed by id.
func (m *Map) Rooms() []*Room {
	return m.layout.Rooms
}

// Owner returns the id of the room owning tile (tx, ty), or NoRoom.
func (m *Map) Owner(tx, ty int) int {
	return m.layout.Owner(tx, ty)
}

// TileAt returns the tile at (tx, ty). Off-map tiles read as walls.
func (m *Map) TileAt(tx, ty int) Tile {
	return m.layout.Tile(tx, ty)
}

// IsWall reports whether the pixel position (px, py) blocks movement.
// Walls, locked doors and anything off the map block.
func (m *Map) IsWall(px, py float64) bool {
	ts := float64(m.cfg.Map.TileSize)
	tx := int(math.Floor(px / ts))
	ty := int(math.Floor(py / ts))
	if !m.layout.InBounds(tx, ty) {
		return true
	}
	return m.layout.Tiles[ty][tx] != TileFloor
}

// RoomAt returns the room whose rectangle contains tile (tx, ty), or nil.
func (m *Map) RoomAt(tx, ty int) *Room {
	return m.layout.Room(m.layout.Owner(tx, ty))
}

// CloseRoom locks every doorway of r that has a corridor behind it.
func (m *Map) CloseRoom(r *Room) {
	m.setDoors(r, TileFloor, TileLockedDoor)
	r.Active = true
}

// OpenRoom unlocks the doorways of r and marks it cleared.
func (m *Map) OpenRoom(r *Room) {
	m.setDoors(r, TileLockedDoor, TileFloor)
	r.Active = false
	r.Cleared = true
}

func (m *Map) setDoors(r *Room, from, to Tile) {
	for _, c := range r.Connectors {
		if !c.Used {
			continue
		}
		for _, e := range c.Entrance() {
			if m.layout.Tile(e.X, e.Y) == from {
				m.layout.SetTile(e.X, e.Y, to)
			}
		}
	}
}
