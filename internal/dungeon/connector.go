package dungeon

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
)

// RoomConnector joins the rooms of a layout with corridors and repairs
// the result when some rooms end up unreachable.
type RoomConnector struct {
	layout *Layout
	pf     *Pathfinder
	cfg    *config.GeneratorConfig
	rng    *rand.Rand
	log    *slog.Logger

	connected mapset.Set[[2]int]
}

// NewRoomConnector creates a connector for the given layout.
func NewRoomConnector(layout *Layout, pf *Pathfinder, cfg *config.GeneratorConfig, rng *rand.Rand, log *slog.Logger) *RoomConnector {
	return &RoomConnector{
		layout:    layout,
		pf:        pf,
		cfg:       cfg,
		rng:       rng,
		log:       log,
		connected: mapset.New[[2]int](),
	}
}

func pairKey(a, b *Room) [2]int {
	if a.ID > b.ID {
		a, b = b, a
	}
	return [2]int{a.ID, b.ID}
}

// Connected reports whether a corridor has been carved between two rooms.
func (rc *RoomConnector) Connected(a, b *Room) bool {
	return rc.connected.Has(pairKey(a, b))
}

// ConnectRooms carves corridors in three passes: a chain through the
// rooms in placement order, a few random extra edges, and finally a pass
// that tries to give every still unused connector a corridor.
func (rc *RoomConnector) ConnectRooms() {
	rooms := rc.layout.Rooms
	if len(rooms) < 2 {
		return
	}

	for i := 0; i+1 < len(rooms); i++ {
		rc.ConnectTwoRooms(rooms[i], rooms[i+1], nil)
	}

	for i, r := range rooms {
		if rc.rng.Float64() >= rc.cfg.Generation.ExtraEdgeChance {
			continue
		}
		j := rc.rng.Intn(len(rooms) - 1)
		if j >= i {
			j++
		}
		other := rooms[j]
		if rc.Connected(r, other) {
			continue
		}
		rc.ConnectTwoRooms(r, other, nil)
	}

	for _, r := range rooms {
		for _, c := range r.Connectors {
			if c.Used {
				continue
			}
			if target := rc.nearestRoom(r); target != nil {
				rc.ConnectTwoRooms(r, target, c)
			}
			if !c.Used {
				rc.ForceConnectConnector(r, c)
			}
		}
	}
}

// nearestRoom returns the room whose bounding box is closest to r.
func (rc *RoomConnector) nearestRoom(r *Room) *Room {
	var best *Room
	bestGap := 0
	for _, o := range rc.layout.Rooms {
		if o == r {
			continue
		}
		if g := r.gap(o); best == nil || g < bestGap {
			best, bestGap = o, g
		}
	}
	return best
}

type connectorPair struct {
	a, b  *Connector
	score int
}

// candidatePairs ranks connector pairs between two rooms by Manhattan
// distance, with a bonus for pairs sharing a row or column.
func (rc *RoomConnector) candidatePairs(r1, r2 *Room, force *Connector) []connectorPair {
	from := []*Connector{force}
	if force == nil {
		from = candidates(r1)
	}
	to := candidates(r2)

	var pairs []connectorPair
	for _, a := range from {
		for _, b := range to {
			score := a.Pos().Manhattan(b.Pos())
			if a.X == b.X || a.Y == b.Y {
				score -= rc.cfg.Pathfinding.AxisBonus
			}
			pairs = append(pairs, connectorPair{a: a, b: b, score: score})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })
	return pairs
}

// candidates returns the unused connectors of r, or all of them once
// every door already has a corridor.
func candidates(r *Room) []*Connector {
	if unused := r.UnusedConnectors(); len(unused) > 0 {
		return unused
	}
	return r.Connectors
}

// ConnectTwoRooms carves a corridor between the best connector pair of
// two rooms, falling back once to the next best pair. If force is set it
// is always the corridor's start. It returns the carved path, or nil.
func (rc *RoomConnector) ConnectTwoRooms(r1, r2 *Room, force *Connector) []Point {
	if r1 == r2 {
		return nil
	}
	pairs := rc.candidatePairs(r1, r2, force)
	for i := 0; i < len(pairs) && i < 2; i++ {
		p := pairs[i]
		path := rc.pf.FindPath(p.a, p.b, r1, r2)
		if path == nil {
			continue
		}

		rc.layout.drawPath(path, rc.cfg.Pathfinding.CrossroadInterval)
		rc.layout.openEntrance(p.a)
		rc.layout.openEntrance(p.b)
		p.a.Used = true
		p.b.Used = true
		rc.connected.Put(pairKey(r1, r2))

		rc.log.Debug("rooms connected",
			"from", r1.ID, "to", r2.ID, "length", len(path), "attempt", i+1)
		return path
	}

	rc.log.Debug("rooms not connected", "from", r1.ID, "to", r2.ID, "pairs", len(pairs))
	return nil
}

// ForceConnectConnector stitches a connector that normal pathing could
// not serve. It first casts a ray out of the door looking for a nearby
// junction, then routes a relaxed search to the nearest open tile. It
// reports whether a corridor was carved.
func (rc *RoomConnector) ForceConnectConnector(room *Room, c *Connector) bool {
	if rc.castRay(room, c) {
		c.Used = true
		rc.log.Debug("connector joined by ray", "room", room.ID, "dir", dirName(c.Dir))
		return true
	}

	target, ok := rc.nearestOpenTile(room, c)
	if !ok {
		rc.log.Debug("connector left unused", "room", room.ID, "reason", "no open tile in range")
		return false
	}

	lead := rc.cfg.Pathfinding.LeadLength
	from := c.Pos().Add(c.Dir.Scale(lead))
	path := rc.pf.FindRobustPath(from, target, room.ID)
	if path == nil {
		rc.log.Debug("connector left unused", "room", room.ID, "reason", "robust search failed",
			"expanded", rc.pf.Expanded)
		return false
	}
	path = append(path, target)

	rc.layout.carveStraight(c.Pos(), c.Dir, lead)
	for _, p := range path {
		rc.layout.carveBlock(p)
	}
	rc.layout.openEntrance(c)
	c.Used = true
	rc.log.Debug("connector joined by robust path", "room", room.ID, "length", len(path))
	return true
}

// castRay walks outward from c looking for an open tile that looks like
// part of an existing junction. The last two tiles of the ray must not
// belong to another room.
func (rc *RoomConnector) castRay(room *Room, c *Connector) bool {
	l := rc.layout
	foreign := func(p Point) bool {
		id := l.Owner(p.X, p.Y)
		return id != NoRoom && id != room.ID
	}

	prev := c.Pos()
	for k := 1; k <= rc.cfg.Repair.RayLength; k++ {
		p := c.Pos().Add(c.Dir.Scale(k))
		if !l.blockFits(p) {
			return false
		}
		if l.IsOpen(p.X, p.Y) && l.density(p) >= rc.cfg.Repair.JunctionDensity {
			if foreign(p) || foreign(prev) {
				return false
			}
			l.carveStraight(c.Pos(), c.Dir, k)
			l.openEntrance(c)
			return true
		}
		prev = p
	}
	return false
}

// nearestOpenTile scans a square around c for the closest open tile the
// room does not own, preferring tiles no room owns at all.
func (rc *RoomConnector) nearestOpenTile(room *Room, c *Connector) (Point, bool) {
	l := rc.layout
	r := rc.cfg.Repair.ScanRadius
	origin := c.Pos()

	var free, owned Point
	freeDist, ownedDist := -1, -1
	for y := origin.Y - r; y <= origin.Y+r; y++ {
		for x := origin.X - r; x <= origin.X+r; x++ {
			if !l.IsOpen(x, y) {
				continue
			}
			id := l.Owner(x, y)
			if id == room.ID {
				continue
			}
			p := Point{x, y}
			d := origin.Manhattan(p)
			if id == NoRoom {
				if freeDist < 0 || d < freeDist {
					free, freeDist = p, d
				}
			} else if ownedDist < 0 || d < ownedDist {
				owned, ownedDist = p, d
			}
		}
	}

	switch {
	case freeDist >= 0:
		return free, true
	case ownedDist >= 0:
		return owned, true
	default:
		return Point{}, false
	}
}
