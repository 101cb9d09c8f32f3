package dungeon

import (
	"github.com/zyedidia/generic/mapset"
)

// Connectivity is the result of a reachability check.
type Connectivity struct {
	Success     bool
	Unreachable []*Room
}

// reachable flood-fills the open tiles connected to start.
func (l *Layout) reachable(start Point) mapset.Set[Point] {
	seen := mapset.New[Point]()
	if !l.IsOpen(start.X, start.Y) {
		return seen
	}
	seen.Put(start)
	queue := []Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range AllDirections() {
			n := p.Add(d)
			if seen.Has(n) || !l.IsOpen(n.X, n.Y) {
				continue
			}
			seen.Put(n)
			queue = append(queue, n)
		}
	}
	return seen
}

// fromOrigin returns the tiles reachable from the first room.
func (l *Layout) fromOrigin() mapset.Set[Point] {
	if len(l.Rooms) == 0 {
		return mapset.New[Point]()
	}
	origin, ok := l.Rooms[0].RepresentativePoint(l)
	if !ok {
		return mapset.New[Point]()
	}
	return l.reachable(origin)
}

// CheckConnectivity reports every room whose representative point cannot
// be reached from the first room over floor and locked doors.
func (l *Layout) CheckConnectivity() Connectivity {
	seen := l.fromOrigin()
	var unreachable []*Room
	for _, r := range l.Rooms {
		p, ok := r.RepresentativePoint(l)
		if !ok || !seen.Has(p) {
			unreachable = append(unreachable, r)
		}
	}
	return Connectivity{Success: len(unreachable) == 0, Unreachable: unreachable}
}

// CheckConnectivity checks the layout the connector is working on.
func (rc *RoomConnector) CheckConnectivity() Connectivity {
	return rc.layout.CheckConnectivity()
}

// ForceConnectivity carves an L-shaped corridor from each given room to
// the closest tile reachable from the first room, ignoring every routing
// constraint.
func (rc *RoomConnector) ForceConnectivity(unreachable []*Room) {
	seen := rc.layout.fromOrigin()
	if seen.Size() == 0 {
		rc.log.Error("cannot force connectivity: first room has no open floor")
		return
	}

	for _, r := range unreachable {
		from, ok := r.RepresentativePoint(rc.layout)
		if !ok {
			rc.log.Warn("room has no open floor to connect", "room", r.ID)
			continue
		}

		var best Point
		bestDist := -1
		seen.Each(func(p Point) {
			d := from.Manhattan(p)
			if bestDist < 0 || d < bestDist ||
				(d == bestDist && (p.Y < best.Y || (p.Y == best.Y && p.X < best.X))) {
				best, bestDist = p, d
			}
		})

		rc.layout.carveL(from, best)
		rc.log.Debug("forced corridor", "room", r.ID, "from", from, "to", best, "distance", bestDist)
	}
}
