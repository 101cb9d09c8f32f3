package dungeon

import "fmt"

// RoomType identifies the gameplay role of a room
type RoomType int

const (
	RoomNormal RoomType = iota
	RoomStart
	RoomTreasure
	RoomStaircase
	RoomStatue
	RoomAltar
	RoomShop
	RoomTraining
)

// String returns the string representation of a RoomType
func (t RoomType) String() string {
	switch t {
	case RoomNormal:
		return "normal"
	case RoomStart:
		return "start"
	case RoomTreasure:
		return "treasure"
	case RoomStaircase:
		return "staircase"
	case RoomStatue:
		return "statue"
	case RoomAltar:
		return "altar"
	case RoomShop:
		return "shop"
	case RoomTraining:
		return "training"
	default:
		return "unknown"
	}
}

// ParseRoomType converts a config name into a RoomType.
func ParseRoomType(s string) (RoomType, error) {
	for t := RoomNormal; t <= RoomTraining; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return RoomNormal, fmt.Errorf("unknown room type %q", s)
}

// Shape is the floor footprint carved inside a room's rectangle
type Shape int

const (
	ShapeSquare Shape = iota
	ShapeIsland
	ShapeL
	ShapeCross
	ShapeU
	ShapeT
)

// AllShapes returns every shape a random room may take.
func AllShapes() []Shape {
	return []Shape{ShapeSquare, ShapeIsland, ShapeL, ShapeCross, ShapeU, ShapeT}
}

// String returns the string representation of a Shape
func (s Shape) String() string {
	switch s {
	case ShapeSquare:
		return "square"
	case ShapeIsland:
		return "island"
	case ShapeL:
		return "L"
	case ShapeCross:
		return "cross"
	case ShapeU:
		return "U"
	case ShapeT:
		return "T"
	default:
		return "unknown"
	}
}

// ParseShape converts a shape name back into a Shape.
func ParseShape(s string) (Shape, error) {
	for _, sh := range AllShapes() {
		if sh.String() == s {
			return sh, nil
		}
	}
	return ShapeSquare, fmt.Errorf("unknown shape %q", s)
}

// Connector is a door position on a room's perimeter. Dir points away
// from the room interior.
type Connector struct {
	X, Y int
	Dir  Point
	Used bool
}

// Pos returns the connector's tile coordinate.
func (c *Connector) Pos() Point {
	return Point{c.X, c.Y}
}

// Entrance returns the two perimeter tiles a corridor opens at this
// connector: side by side for north/south doors, stacked for east/west.
func (c *Connector) Entrance() [2]Point {
	p := c.Pos()
	return [2]Point{p, p.Add(c.Dir.Perp())}
}

// Facing returns the name of the direction the connector faces.
func (c *Connector) Facing() string {
	return dirName(c.Dir)
}

// Inward returns the tile just inside the room behind the connector.
func (c *Connector) Inward() Point {
	return c.Pos().Sub(c.Dir)
}

// Room is a placed rectangle of the map. Its border ring stays wall
// except where connectors are opened.
type Room struct {
	ID         int
	X, Y       int
	W, H       int
	Type       RoomType
	Shape      Shape
	Connectors []*Connector

	// Gameplay flags, toggled by CloseRoom/OpenRoom.
	Cleared bool
	Active  bool
}

// Contains reports whether (x, y) lies inside the room rectangle,
// border included.
func (r *Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the tile at the middle of the room rectangle.
func (r *Room) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// UnusedConnectors returns the connectors no corridor has been carved through.
func (r *Room) UnusedConnectors() []*Connector {
	var out []*Connector
	for _, c := range r.Connectors {
		if !c.Used {
			out = append(out, c)
		}
	}
	return out
}

// RepresentativePoint returns an open interior tile of the room: the
// center if it is open, otherwise the first open interior tile in
// row-major order. ok is false if the room has no open interior.
func (r *Room) RepresentativePoint(l *Layout) (Point, bool) {
	c := r.Center()
	if l.IsOpen(c.X, c.Y) {
		return c, true
	}
	for y := r.Y + 1; y < r.Y+r.H-1; y++ {
		for x := r.X + 1; x < r.X+r.W-1; x++ {
			if l.IsOpen(x, y) {
				return Point{x, y}, true
			}
		}
	}
	return Point{}, false
}

// gap returns the Manhattan distance between the bounding boxes of two
// rooms, 0 if they touch or overlap.
func (r *Room) gap(o *Room) int {
	dx := max(0, o.X-(r.X+r.W), r.X-(o.X+o.W))
	dy := max(0, o.Y-(r.Y+r.H), r.Y-(o.Y+o.H))
	return dx + dy
}
