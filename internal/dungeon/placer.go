package dungeon

import (
	"log/slog"
	"math/rand"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
)

// RoomConfig describes one room to place.
type RoomConfig struct {
	W, H      int
	Type      RoomType
	Shape     Shape
	Entrances int

	// Position fixes the room's top-left corner; nil means random placement.
	Position *Point

	// Connectors, if set, replaces connector generation. Coordinates are
	// offsets from the room's top-left corner.
	Connectors []Connector
}

// RoomPlacer places non-overlapping rooms on a Layout.
type RoomPlacer struct {
	layout  *Layout
	cfg     config.RoomsConfig
	padding int
	rng     *rand.Rand
	log     *slog.Logger
}

// NewRoomPlacer creates a placer for the given layout.
func NewRoomPlacer(layout *Layout, cfg *config.GeneratorConfig, rng *rand.Rand, log *slog.Logger) *RoomPlacer {
	return &RoomPlacer{
		layout:  layout,
		cfg:     cfg.Rooms,
		padding: cfg.Map.EdgePadding,
		rng:     rng,
		log:     log,
	}
}

// PlaceRoom tries to place a room. A fixed position gets exactly one
// attempt, a random one gets AttemptsPerRoom. On success the room is
// carved, stamped, shaped, given connectors and appended to the layout.
func (p *RoomPlacer) PlaceRoom(rc RoomConfig) (*Room, bool) {
	attempts := p.cfg.AttemptsPerRoom
	if rc.Position != nil {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		var x, y int
		if rc.Position != nil {
			x, y = rc.Position.X, rc.Position.Y
		} else {
			maxX := p.layout.Width - rc.W - p.padding
			maxY := p.layout.Height - rc.H - p.padding
			if maxX < p.padding || maxY < p.padding {
				break
			}
			x = p.padding + p.rng.Intn(maxX-p.padding+1)
			y = p.padding + p.rng.Intn(maxY-p.padding+1)
		}

		if !p.fits(x, y, rc.W, rc.H) {
			continue
		}

		room := &Room{
			ID:    len(p.layout.Rooms),
			X:     x,
			Y:     y,
			W:     rc.W,
			H:     rc.H,
			Type:  rc.Type,
			Shape: rc.Shape,
		}
		p.carveRoom(room)
		p.carveShape(room)

		if rc.Connectors != nil {
			for _, c := range rc.Connectors {
				room.Connectors = append(room.Connectors, &Connector{X: x + c.X, Y: y + c.Y, Dir: c.Dir})
			}
		} else {
			p.GenerateConnectors(room, rc.Entrances)
		}

		p.layout.Rooms = append(p.layout.Rooms, room)
		return room, true
	}

	p.log.Debug("room placement failed", "type", rc.Type.String(), "w", rc.W, "h", rc.H, "attempts", attempts)
	return nil, false
}

// fits reports whether a w x h rectangle at (x, y) is on the map and at
// least Margin tiles away from every placed room.
func (p *RoomPlacer) fits(x, y, w, h int) bool {
	if x < 0 || y < 0 || x+w > p.layout.Width || y+h > p.layout.Height {
		return false
	}
	m := p.cfg.Margin
	for _, r := range p.layout.Rooms {
		if x-m < r.X+r.W && x+w+m > r.X && y-m < r.Y+r.H && y+h+m > r.Y {
			return false
		}
	}
	return true
}

// carveRoom opens the interior and claims the whole rectangle.
func (p *RoomPlacer) carveRoom(r *Room) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.layout.Owners[y][x] = r.ID
			if x > r.X && x < r.X+r.W-1 && y > r.Y && y < r.Y+r.H-1 {
				p.layout.Tiles[y][x] = TileFloor
			} else {
				p.layout.Tiles[y][x] = TileWall
			}
		}
	}
}

// GenerateConnectors picks up to count door positions on the room's
// perimeter, at least ConnectorSpacing apart. A 4x4 room always gets its
// four mid-edge doors.
func (p *RoomPlacer) GenerateConnectors(r *Room, count int) {
	if r.W == 4 && r.H == 4 {
		r.Connectors = []*Connector{
			{X: r.X + 1, Y: r.Y, Dir: North},
			{X: r.X + 1, Y: r.Y + 3, Dir: South},
			{X: r.X, Y: r.Y + 1, Dir: West},
			{X: r.X + 3, Y: r.Y + 1, Dir: East},
		}
		return
	}

	var candidates []*Connector
	// Skip the two tiles nearest each corner; the entrance is two tiles
	// wide so the last usable start is three in from the far corner.
	for x := r.X + 2; x+1 <= r.X+r.W-3; x++ {
		candidates = p.appendCandidate(candidates, x, r.Y, North)
		candidates = p.appendCandidate(candidates, x, r.Y+r.H-1, South)
	}
	for y := r.Y + 2; y+1 <= r.Y+r.H-3; y++ {
		candidates = p.appendCandidate(candidates, r.X, y, West)
		candidates = p.appendCandidate(candidates, r.X+r.W-1, y, East)
	}

	p.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, c := range candidates {
		if len(r.Connectors) >= count {
			break
		}
		tooClose := false
		for _, other := range r.Connectors {
			if c.Pos().Manhattan(other.Pos()) < p.cfg.ConnectorSpacing {
				tooClose = true
				break
			}
		}
		if !tooClose {
			r.Connectors = append(r.Connectors, c)
		}
	}
}

// appendCandidate adds a connector at (x, y) if both entrance tiles have
// open floor directly behind them.
func (p *RoomPlacer) appendCandidate(candidates []*Connector, x, y int, dir Point) []*Connector {
	c := &Connector{X: x, Y: y, Dir: dir}
	for _, e := range c.Entrance() {
		in := e.Sub(dir)
		if p.layout.Tile(in.X, in.Y) != TileFloor {
			return candidates
		}
	}
	return append(candidates, c)
}

// StartRoomConnectors returns the eight fixed doors of a w x h start room,
// two per side, as offsets from its top-left corner.
func StartRoomConnectors(w, h int) []Connector {
	ax, bx := w/3, w-w/3-2
	ay, by := h/3, h-h/3-2
	return []Connector{
		{X: ax, Y: 0, Dir: North},
		{X: bx, Y: 0, Dir: North},
		{X: ax, Y: h - 1, Dir: South},
		{X: bx, Y: h - 1, Dir: South},
		{X: 0, Y: ay, Dir: West},
		{X: 0, Y: by, Dir: West},
		{X: w - 1, Y: ay, Dir: East},
		{X: w - 1, Y: by, Dir: East},
	}
}
