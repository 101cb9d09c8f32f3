package dungeon

// drawPath carves a path as a two-tile-wide corridor. Every interval
// tiles of straight run the corridor widens into a small crossroad,
// limited to unclaimed tiles.
func (l *Layout) drawPath(path []Point, interval int) {
	run := 0
	var prevDir Point
	for i, p := range path {
		l.carveBlock(p)
		if i == 0 {
			continue
		}
		d := p.Sub(path[i-1])
		if d == prevDir {
			run++
		} else {
			run = 1
			prevDir = d
		}
		if interval > 0 && run >= interval {
			l.widen(p)
			run = 0
		}
	}
}

// widen opens the unclaimed tiles of the 4x4 square around the block at p.
func (l *Layout) widen(p Point) {
	for y := p.Y - 1; y <= p.Y+2; y++ {
		for x := p.X - 1; x <= p.X+2; x++ {
			if l.Owner(x, y) == NoRoom {
				l.carve(x, y)
			}
		}
	}
}

// openEntrance opens both entrance tiles of a connector and the floor
// right behind them.
func (l *Layout) openEntrance(c *Connector) {
	for _, e := range c.Entrance() {
		l.carve(e.X, e.Y)
		in := e.Sub(c.Dir)
		l.carve(in.X, in.Y)
	}
}

// carveStraight opens a two-wide corridor from a along d for n tiles.
func (l *Layout) carveStraight(a, d Point, n int) {
	for k := 0; k <= n; k++ {
		l.carveBlock(a.Add(d.Scale(k)))
	}
}

// carveL opens a two-wide corridor from a to b, first along x then along y.
func (l *Layout) carveL(a, b Point) {
	step := 1
	if b.X < a.X {
		step = -1
	}
	for x := a.X; x != b.X; x += step {
		l.carveBlock(Point{x, a.Y})
	}
	step = 1
	if b.Y < a.Y {
		step = -1
	}
	for y := a.Y; y != b.Y; y += step {
		l.carveBlock(Point{b.X, y})
	}
	l.carveBlock(b)
}
