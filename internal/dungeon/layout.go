package dungeon

// Layout is the state of one generation attempt: the tile grid, the
// parallel owner grid and the room list. A failed attempt discards its
// Layout entirely.
type Layout struct {
	Width, Height int
	Tiles         [][]Tile
	Owners        [][]int
	Rooms         []*Room
}

// NewLayout returns a solid-wall layout with no owners and no rooms.
func NewLayout(width, height int) *Layout {
	l := &Layout{
		Width:  width,
		Height: height,
		Tiles:  make([][]Tile, height),
		Owners: make([][]int, height),
	}
	for y := 0; y < height; y++ {
		l.Tiles[y] = make([]Tile, width)
		l.Owners[y] = make([]int, width)
		for x := 0; x < width; x++ {
			l.Tiles[y][x] = TileWall
			l.Owners[y][x] = NoRoom
		}
	}
	return l
}

// InBounds reports whether (x, y) is on the grid.
func (l *Layout) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// Tile returns the tile at (x, y). Off-grid cells read as walls.
func (l *Layout) Tile(x, y int) Tile {
	if !l.InBounds(x, y) {
		return TileWall
	}
	return l.Tiles[y][x]
}

// SetTile sets the tile at (x, y) if it is on the grid.
func (l *Layout) SetTile(x, y int, t Tile) {
	if l.InBounds(x, y) {
		l.Tiles[y][x] = t
	}
}

// Owner returns the id of the room claiming (x, y), or NoRoom.
func (l *Layout) Owner(x, y int) int {
	if !l.InBounds(x, y) {
		return NoRoom
	}
	return l.Owners[y][x]
}

// IsOpen reports whether (x, y) can be walked for connectivity purposes.
func (l *Layout) IsOpen(x, y int) bool {
	t := l.Tile(x, y)
	return t == TileFloor || t == TileLockedDoor
}

// Room returns the room with the given id, or nil.
func (l *Layout) Room(id int) *Room {
	if id < 0 || id >= len(l.Rooms) {
		return nil
	}
	return l.Rooms[id]
}

// carve turns (x, y) into floor. The outermost ring of the map stays wall
// and ownership is left untouched: a room keeps its claim on any of its
// tiles that a corridor opens.
func (l *Layout) carve(x, y int) {
	if x < 1 || y < 1 || x > l.Width-2 || y > l.Height-2 {
		return
	}
	if l.Tiles[y][x] == TileWall {
		l.Tiles[y][x] = TileFloor
	}
}

// carveBlock opens the 2x2 block whose top-left corner is p.
func (l *Layout) carveBlock(p Point) {
	l.carve(p.X, p.Y)
	l.carve(p.X+1, p.Y)
	l.carve(p.X, p.Y+1)
	l.carve(p.X+1, p.Y+1)
}

// blockOwned reports whether any cell of the 2x2 block at p is claimed by
// a room for which allow returns false.
func (l *Layout) blockOwned(p Point, allow func(id int) bool) bool {
	for dy := 0; dy <= 1; dy++ {
		for dx := 0; dx <= 1; dx++ {
			id := l.Owner(p.X+dx, p.Y+dy)
			if id != NoRoom && !allow(id) {
				return true
			}
		}
	}
	return false
}

// blockHasWall reports whether carving the 2x2 block at p would open any
// new floor.
func (l *Layout) blockHasWall(p Point) bool {
	for dy := 0; dy <= 1; dy++ {
		for dx := 0; dx <= 1; dx++ {
			if l.Tile(p.X+dx, p.Y+dy) == TileWall {
				return true
			}
		}
	}
	return false
}

// density counts the 8 neighbors of p that are open or claimed by a room.
func (l *Layout) density(p Point) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := p.X+dx, p.Y+dy
			if l.IsOpen(x, y) || l.Owner(x, y) != NoRoom {
				n++
			}
		}
	}
	return n
}

// blockFits reports whether the 2x2 block at p stays inside the carvable
// interior of the map.
func (l *Layout) blockFits(p Point) bool {
	return p.X >= 1 && p.Y >= 1 && p.X+1 <= l.Width-2 && p.Y+1 <= l.Height-2
}
