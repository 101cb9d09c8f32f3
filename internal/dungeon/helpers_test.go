package dungeon

import (
	"log/slog"
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
)

var testLog = slog.New(slog.DiscardHandler)

// testRig bundles the generator parts around one hand-built layout.
type testRig struct {
	cfg    *config.GeneratorConfig
	layout *Layout
	placer *RoomPlacer
	pf     *Pathfinder
	rc     *RoomConnector
}

func newTestRig(w, h int) *testRig {
	cfg := config.DefaultConfig()
	cfg.Map.Width, cfg.Map.Height = w, h
	rng := rand.New(rand.NewSource(1))
	l := NewLayout(w, h)
	pf := NewPathfinder(l, cfg, testLog)
	return &testRig{
		cfg:    cfg,
		layout: l,
		placer: NewRoomPlacer(l, cfg, rng, testLog),
		pf:     pf,
		rc:     NewRoomConnector(l, pf, cfg, rng, testLog),
	}
}

// place puts a square room at a fixed position with the given doors,
// failing the test if it does not fit.
func (r *testRig) place(t *testing.T, x, y, w, h int, doors ...Connector) *Room {
	t.Helper()
	pos := Point{x, y}
	room, ok := r.placer.PlaceRoom(RoomConfig{
		W:          w,
		H:          h,
		Shape:      ShapeSquare,
		Position:   &pos,
		Connectors: doors,
	})
	if !ok {
		t.Fatalf("room at (%d,%d) %dx%d did not fit", x, y, w, h)
	}
	return room
}

// claim marks every unclaimed tile of a rectangle as owned by id.
func claim(l *Layout, x0, y0, x1, y1, id int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if l.InBounds(x, y) && l.Owners[y][x] == NoRoom {
				l.Owners[y][x] = id
			}
		}
	}
}

// checkLayout asserts the structural invariants every generated layout holds.
func checkLayout(t *testing.T, l *Layout, margin int) {
	t.Helper()

	for i, r := range l.Rooms {
		if r.ID != i {
			t.Errorf("room %d has id %d", i, r.ID)
		}
	}

	for i, a := range l.Rooms {
		for _, b := range l.Rooms[i+1:] {
			if a.X-margin < b.X+b.W && a.X+a.W+margin > b.X &&
				a.Y-margin < b.Y+b.H && a.Y+a.H+margin > b.Y {
				t.Errorf("rooms %d and %d are closer than %d tiles", a.ID, b.ID, margin)
			}
		}
	}

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			id := l.Owners[y][x]
			if id == NoRoom {
				continue
			}
			r := l.Room(id)
			if r == nil {
				t.Fatalf("tile (%d,%d) owned by unknown room %d", x, y, id)
			}
			if !r.Contains(x, y) {
				t.Errorf("tile (%d,%d) owned by room %d outside its rect", x, y, id)
			}
		}
	}
	for _, r := range l.Rooms {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				if l.Owners[y][x] != r.ID {
					t.Errorf("tile (%d,%d) in room %d owned by %d", x, y, r.ID, l.Owners[y][x])
				}
			}
		}
	}

	for _, r := range l.Rooms {
		for _, c := range r.Connectors {
			in := c.Inward()
			if l.Tile(in.X, in.Y) != TileFloor {
				t.Errorf("room %d connector at (%d,%d) faces %s inward", r.ID, c.X, c.Y, l.Tile(in.X, in.Y))
			}
		}
	}

	for x := 0; x < l.Width; x++ {
		if l.Tiles[0][x] != TileWall || l.Tiles[l.Height-1][x] != TileWall {
			t.Fatalf("border opened at column %d", x)
		}
	}
	for y := 0; y < l.Height; y++ {
		if l.Tiles[y][0] != TileWall || l.Tiles[y][l.Width-1] != TileWall {
			t.Fatalf("border opened at row %d", y)
		}
	}
}

// checkWide asserts every path point is the corner of an open 2x2 block.
func checkWide(t *testing.T, l *Layout, path []Point) {
	t.Helper()
	for _, p := range path {
		for _, c := range []Point{p, {p.X + 1, p.Y}, {p.X, p.Y + 1}, {p.X + 1, p.Y + 1}} {
			if !l.IsOpen(c.X, c.Y) {
				t.Fatalf("corridor narrower than 2 at (%d,%d)", c.X, c.Y)
			}
		}
	}
}
