package dungeon

import "fmt"

// Tile is the kind of a single grid cell.
type Tile uint8

const (
	TileFloor      Tile = 0
	TileWall       Tile = 1
	TileLockedDoor Tile = 2 // encounter lockdown; passable for connectivity
)

// String returns the string representation of a Tile
func (t Tile) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TileLockedDoor:
		return "locked_door"
	default:
		return "unknown"
	}
}

// NoRoom marks a cell that no room claims.
const NoRoom = -1

// Point is a tile coordinate, or a unit direction when used as one.
type Point struct {
	X, Y int
}

var (
	North = Point{0, -1}
	East  = Point{1, 0}
	South = Point{0, 1}
	West  = Point{-1, 0}
)

// AllDirections returns the four cardinal directions
func AllDirections() []Point {
	return []Point{North, East, South, West}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Scale(k int) Point {
	return Point{p.X * k, p.Y * k}
}

// Perp returns the positive perpendicular of a direction: East for a
// vertical direction, South for a horizontal one. Corridors are two tiles
// wide along this axis.
func (p Point) Perp() Point {
	return Point{abs(p.Y), abs(p.X)}
}

// Manhattan returns the Manhattan distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Chebyshev returns the Chebyshev distance between p and q.
func (p Point) Chebyshev(q Point) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

func dirName(d Point) string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "none"
	}
}

// ParseDirection converts a direction name into a unit Point.
func ParseDirection(s string) (Point, error) {
	for _, d := range AllDirections() {
		if dirName(d) == s {
			return d, nil
		}
	}
	return Point{}, fmt.Errorf("unknown direction %q", s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
