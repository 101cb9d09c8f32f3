// Package viewer walks a generated dungeon in real time.
package viewer

import (
	"log/slog"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
	"github.com/lawnchairsociety/deepcrawl/internal/logger"
)

const (
	// PlayerSize is the side of the player's collision box in pixels.
	PlayerSize = 20.0

	// LockTicks is how long an entered room stays locked, in updates.
	LockTicks = 180

	// lockDepth is how many tiles past a room's border the player must be
	// before the room locks, so closing doors never land on the player.
	lockDepth = 2
)

// Session holds one generated map and the player walking it.
type Session struct {
	cfg    *config.GeneratorConfig
	m      *dungeon.Map
	report dungeon.Report
	log    *slog.Logger

	// X and Y are the pixel coordinates of the player's center.
	X, Y float64

	locked    *dungeon.Room
	lockTimer int
}

// NewSession generates the map for seed and spawns the player in the start room.
func NewSession(cfg *config.GeneratorConfig, seed int64) *Session {
	s := &Session{cfg: cfg}
	s.Regenerate(seed)
	return s
}

// Regenerate replaces the map with a fresh one for seed.
func (s *Session) Regenerate(seed int64) {
	s.m = dungeon.New(s.cfg, seed)
	s.report = s.m.Generate()
	s.log = logger.With("seed", seed)
	s.locked = nil
	s.lockTimer = 0

	ts := float64(s.m.Config().Map.TileSize)
	if rooms := s.m.Rooms(); len(rooms) > 0 {
		p, ok := rooms[0].RepresentativePoint(s.m.Layout())
		if !ok {
			p = rooms[0].Center()
		}
		s.X = (float64(p.X) + 0.5) * ts
		s.Y = (float64(p.Y) + 0.5) * ts
	}
	s.log.Info("Viewer map ready", "success", s.report.Success, "rooms", s.report.Rooms)
}

// Map returns the current map.
func (s *Session) Map() *dungeon.Map {
	return s.m
}

// Report returns the generation report of the current map.
func (s *Session) Report() dungeon.Report {
	return s.report
}

// Locked returns the room the player is locked in, or nil.
func (s *Session) Locked() *dungeon.Room {
	return s.locked
}

// Move moves the player by (dx, dy) pixels, one axis at a time so the
// player slides along walls.
func (s *Session) Move(dx, dy float64) {
	if dx != 0 && s.fits(s.X+dx, s.Y) {
		s.X += dx
	}
	if dy != 0 && s.fits(s.X, s.Y+dy) {
		s.Y += dy
	}
	s.checkRoomEntry()
}

// fits reports whether the player's box centered at (x, y) touches no wall.
func (s *Session) fits(x, y float64) bool {
	h := PlayerSize / 2
	// Right and bottom edges are exclusive.
	const e = 0.001
	return !s.m.IsWall(x-h, y-h) &&
		!s.m.IsWall(x+h-e, y-h) &&
		!s.m.IsWall(x-h, y+h-e) &&
		!s.m.IsWall(x+h-e, y+h-e)
}

// Tile returns the tile under the player's center.
func (s *Session) Tile() dungeon.Point {
	ts := float64(s.m.Config().Map.TileSize)
	return dungeon.Point{X: int(s.X / ts), Y: int(s.Y / ts)}
}

func (s *Session) checkRoomEntry() {
	if s.locked != nil {
		return
	}
	t := s.Tile()
	r := s.m.RoomAt(t.X, t.Y)
	if r == nil || r.Type == dungeon.RoomStart || r.Cleared || r.Active {
		return
	}
	if t.X < r.X+lockDepth || t.X >= r.X+r.W-lockDepth || t.Y < r.Y+lockDepth || t.Y >= r.Y+r.H-lockDepth {
		return
	}

	s.m.CloseRoom(r)
	s.locked = r
	s.lockTimer = LockTicks
	s.log.Debug("Room locked", "room", r.ID, "type", r.Type.String())
}

// Tick advances the lock timer, opening the room when it runs out.
func (s *Session) Tick() {
	if s.locked == nil {
		return
	}
	s.lockTimer--
	if s.lockTimer <= 0 {
		s.Unlock()
	}
}

// Unlock opens the locked room, if any.
func (s *Session) Unlock() {
	if s.locked == nil {
		return
	}
	s.m.OpenRoom(s.locked)
	s.log.Debug("Room cleared", "room", s.locked.ID)
	s.locked = nil
	s.lockTimer = 0
}
