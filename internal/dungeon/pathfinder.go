package dungeon

import (
	"log/slog"
	"math"

	"github.com/zyedidia/generic/heap"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
)

// searchDirs is indexed by the direction ids stored during a search.
var searchDirs = [4]Point{North, East, South, West}

func dirIndex(d Point) int8 {
	for i, s := range searchDirs {
		if s == d {
			return int8(i)
		}
	}
	return -1
}

// Pathfinder routes two-tile-wide corridors over a Layout. Searches only
// read the layout; carving is the caller's job.
type Pathfinder struct {
	layout   *Layout
	cfg      config.PathfindingConfig
	maxNodes int
	log      *slog.Logger

	// Expanded is the number of nodes the most recent search expanded.
	Expanded int
}

// NewPathfinder creates a pathfinder for the given layout.
func NewPathfinder(layout *Layout, cfg *config.GeneratorConfig, log *slog.Logger) *Pathfinder {
	return &Pathfinder{
		layout:   layout,
		cfg:      cfg.Pathfinding,
		maxNodes: cfg.SearchNodeLimit(),
		log:      log,
	}
}

type searchNode struct {
	idx int
	f   int
	g   int
}

// search holds the per-cell bookkeeping of one grid search.
type search struct {
	width  int
	g      []int
	parent []int
	dir    []int8
	turned []bool
	closed []bool
	open   *heap.Heap[searchNode]
}

func newSearch(l *Layout) *search {
	n := l.Width * l.Height
	s := &search{
		width:  l.Width,
		g:      make([]int, n),
		parent: make([]int, n),
		dir:    make([]int8, n),
		turned: make([]bool, n),
		closed: make([]bool, n),
		open: heap.New[searchNode](func(a, b searchNode) bool {
			if a.f == b.f {
				return a.g > b.g
			}
			return a.f < b.f
		}),
	}
	for i := range s.g {
		s.g[i] = math.MaxInt
		s.parent[i] = -1
		s.dir[i] = -1
	}
	return s
}

func (s *search) index(p Point) int {
	return p.Y*s.width + p.X
}

func (s *search) point(i int) Point {
	return Point{i % s.width, i / s.width}
}

func (s *search) push(p Point, g, h int) {
	s.open.Push(searchNode{idx: s.index(p), f: g + h, g: g})
}

// trace walks parent pointers from idx back to the search origin.
func (s *search) trace(idx, limit int) ([]Point, bool) {
	var rev []Point
	for steps := 0; idx != -1; steps++ {
		if steps > limit {
			return nil, false
		}
		rev = append(rev, s.point(idx))
		idx = s.parent[idx]
	}
	path := make([]Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path, true
}

// FindPath searches for a corridor between two connectors of different
// rooms. The search runs between the points LeadLength tiles out from
// each connector so corridors leave rooms straight; the returned path
// runs from the start connector to the end connector, lead segments
// included. It returns nil if no route satisfies the constraints.
func (pf *Pathfinder) FindPath(start, end *Connector, startRoom, endRoom *Room) []Point {
	pf.Expanded = 0
	lead := pf.cfg.LeadLength
	from := start.Pos().Add(start.Dir.Scale(lead))
	to := end.Pos().Add(end.Dir.Scale(lead))
	if !pf.layout.blockFits(from) || !pf.layout.blockFits(to) {
		return nil
	}

	anchors := [2]Point{start.Pos(), end.Pos()}
	allow := func(id int) bool { return id == startRoom.ID || id == endRoom.ID }

	s := newSearch(pf.layout)
	fromIdx := s.index(from)
	s.g[fromIdx] = 0
	s.dir[fromIdx] = dirIndex(start.Dir)
	s.push(from, 0, from.Manhattan(to))

	for s.open.Size() > 0 && pf.Expanded < pf.maxNodes {
		cur, _ := s.open.Pop()
		if s.closed[cur.idx] {
			continue
		}
		s.closed[cur.idx] = true
		pf.Expanded++

		p := s.point(cur.idx)
		if p == to {
			mid, ok := s.trace(cur.idx, pf.cfg.ReconstructMaxSteps)
			if !ok {
				pf.log.Error("corridor reconstruction exceeded step limit",
					"from", startRoom.ID, "to", endRoom.ID, "limit", pf.cfg.ReconstructMaxSteps)
				return nil
			}
			return pf.withLeads(start, end, mid)
		}

		for di, d := range searchDirs {
			n := p.Add(d)
			if !pf.layout.blockFits(n) {
				continue
			}
			ni := s.index(n)
			if s.closed[ni] {
				continue
			}
			if !pf.corridorAllowed(n, d, anchors, allow) {
				continue
			}

			cost := 1
			if pf.thinSeam(n) {
				cost += pf.cfg.ThicknessPenalty
			}
			prev := s.dir[cur.idx]
			turned := prev >= 0 && prev != int8(di)
			if turned {
				cost += pf.cfg.TurnPenalty
				if s.turned[cur.idx] {
					cost += pf.cfg.DoubleTurnPenalty
				}
			}

			g := s.g[cur.idx] + cost
			if g < s.g[ni] {
				s.g[ni] = g
				s.parent[ni] = cur.idx
				s.dir[ni] = int8(di)
				s.turned[ni] = turned
				s.push(n, g, n.Manhattan(to))
			}
		}
	}

	pf.log.Debug("corridor search failed",
		"from", startRoom.ID, "to", endRoom.ID, "expanded", pf.Expanded)
	return nil
}

// withLeads frames a search path with the straight lead segments of both
// connectors.
func (pf *Pathfinder) withLeads(start, end *Connector, mid []Point) []Point {
	lead := pf.cfg.LeadLength
	path := make([]Point, 0, len(mid)+2*lead)
	for k := 0; k < lead; k++ {
		path = append(path, start.Pos().Add(start.Dir.Scale(k)))
	}
	path = append(path, mid...)
	for k := lead - 1; k >= 0; k-- {
		path = append(path, end.Pos().Add(end.Dir.Scale(k)))
	}
	return path
}

// corridorAllowed applies the hard constraints to the 2x2 block at n
// entered while moving in direction d.
func (pf *Pathfinder) corridorAllowed(n, d Point, anchors [2]Point, allow func(int) bool) bool {
	l := pf.layout
	r := pf.cfg.EndpointRadius
	nearAnchor := func(c Point) bool {
		return c.Manhattan(anchors[0]) <= r || c.Manhattan(anchors[1]) <= r
	}

	// The corridor itself never claims room tiles away from its doors.
	for dy := 0; dy <= 1; dy++ {
		for dx := 0; dx <= 1; dx++ {
			c := Point{n.X + dx, n.Y + dy}
			if l.Owner(c.X, c.Y) != NoRoom && !nearAnchor(c) {
				return false
			}
		}
	}

	// Look ahead for rooms other than the two being joined.
	perp := d.Perp()
	for f := 0; f <= 2; f++ {
		for s := -1; s <= 2; s++ {
			c := n.Add(d.Scale(f)).Add(perp.Scale(s))
			id := l.Owner(c.X, c.Y)
			if id != NoRoom && !allow(id) && !nearAnchor(c) {
				return false
			}
		}
	}

	// New floor must not run alongside unrelated floor.
	if l.blockHasWall(n) {
		for y := n.Y - 1; y <= n.Y+2; y++ {
			for x := n.X - 1; x <= n.X+2; x++ {
				inBlock := x >= n.X && x <= n.X+1 && y >= n.Y && y <= n.Y+1
				if inBlock {
					continue
				}
				if l.IsOpen(x, y) && !nearAnchor(Point{x, y}) {
					return false
				}
			}
		}
	}

	return true
}

// thinSeam reports whether carving the block at n would touch existing
// floor only diagonally, leaving a one-tile pinch.
func (pf *Pathfinder) thinSeam(n Point) bool {
	l := pf.layout
	corners := [4][3]Point{
		{{n.X - 1, n.Y - 1}, {n.X, n.Y - 1}, {n.X - 1, n.Y}},
		{{n.X + 2, n.Y - 1}, {n.X + 1, n.Y - 1}, {n.X + 2, n.Y}},
		{{n.X - 1, n.Y + 2}, {n.X, n.Y + 2}, {n.X - 1, n.Y + 1}},
		{{n.X + 2, n.Y + 2}, {n.X + 1, n.Y + 2}, {n.X + 2, n.Y + 1}},
	}
	for _, c := range corners {
		corner, a, b := c[0], c[1], c[2]
		if l.IsOpen(corner.X, corner.Y) && !l.IsOpen(a.X, a.Y) && !l.IsOpen(b.X, b.Y) {
			return true
		}
	}
	return false
}

// FindRobustPath is the relaxed search used by repair passes. Any room
// other than roomID blocks a cell outright; running next to existing
// floor far from the goal is penalized instead of forbidden. The search
// stops at the first cell within one tile of goal and gives up after
// RobustMaxNodes expansions.
func (pf *Pathfinder) FindRobustPath(start, goal Point, roomID int) []Point {
	pf.Expanded = 0
	if !pf.layout.blockFits(start) {
		return nil
	}

	allow := func(id int) bool { return id == roomID }

	s := newSearch(pf.layout)
	startIdx := s.index(start)
	s.g[startIdx] = 0
	s.push(start, 0, start.Manhattan(goal))

	for s.open.Size() > 0 {
		if pf.Expanded >= pf.cfg.RobustMaxNodes {
			pf.log.Debug("robust search hit node cap", "room", roomID, "cap", pf.cfg.RobustMaxNodes)
			return nil
		}

		cur, _ := s.open.Pop()
		if s.closed[cur.idx] {
			continue
		}
		s.closed[cur.idx] = true
		pf.Expanded++

		p := s.point(cur.idx)
		if p.Chebyshev(goal) <= 1 {
			path, ok := s.trace(cur.idx, pf.cfg.ReconstructMaxSteps)
			if !ok {
				pf.log.Error("robust reconstruction exceeded step limit", "room", roomID)
				return nil
			}
			return path
		}

		for _, d := range searchDirs {
			n := p.Add(d)
			if !pf.layout.blockFits(n) {
				continue
			}
			ni := s.index(n)
			if s.closed[ni] || pf.layout.blockOwned(n, allow) {
				continue
			}

			cost := 1
			if n.Manhattan(goal) > pf.cfg.ParallelGoalDistance && pf.runsAlongFloor(n) {
				cost += pf.cfg.ParallelPenalty
			}

			g := s.g[cur.idx] + cost
			if g < s.g[ni] {
				s.g[ni] = g
				s.parent[ni] = cur.idx
				s.push(n, g, n.Manhattan(goal))
			}
		}
	}

	return nil
}

// runsAlongFloor reports whether carving the block at n opens new floor
// next to existing floor.
func (pf *Pathfinder) runsAlongFloor(n Point) bool {
	l := pf.layout
	if !l.blockHasWall(n) {
		return false
	}
	for y := n.Y - 1; y <= n.Y+2; y++ {
		for x := n.X - 1; x <= n.X+2; x++ {
			if x >= n.X && x <= n.X+1 && y >= n.Y && y <= n.Y+1 {
				continue
			}
			if l.IsOpen(x, y) {
				return true
			}
		}
	}
	return false
}
