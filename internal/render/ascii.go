// Package render draws generated dungeons as text or images.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
)

// Options controls text rendering.
type Options struct {
	// Owners prints the owning room id in base 36 on room floor tiles
	// instead of the plain floor glyph.
	Owners bool

	// Legend appends the glyph legend.
	Legend bool
}

// ASCII writes a text picture of the layout to w: one character per
// tile, with each room marked by its type symbol at its center.
func ASCII(w io.Writer, l *dungeon.Layout, header string, opts Options) error {
	var output strings.Builder

	if header != "" {
		output.WriteString(header + "\n")
		output.WriteString(strings.Repeat("=", min(l.Width, 60)) + "\n")
	}

	marks := make(map[dungeon.Point]byte, len(l.Rooms))
	for _, r := range l.Rooms {
		marks[r.Center()] = RoomSymbol(r.Type)
	}

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if sym, ok := marks[dungeon.Point{X: x, Y: y}]; ok && sym != ' ' {
				output.WriteByte(sym)
				continue
			}
			output.WriteByte(tileGlyph(l, x, y, opts.Owners))
		}
		output.WriteByte('\n')
	}

	if opts.Legend {
		output.WriteString(Legend())
	}

	_, err := io.WriteString(w, output.String())
	return err
}

func tileGlyph(l *dungeon.Layout, x, y int, owners bool) byte {
	switch l.Tile(x, y) {
	case dungeon.TileWall:
		return '#'
	case dungeon.TileLockedDoor:
		return '+'
	}
	if owners {
		if id := l.Owner(x, y); id != dungeon.NoRoom {
			return ownerDigit(id)
		}
	}
	return '.'
}

func ownerDigit(id int) byte {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	return digits[id%len(digits)]
}

// RoomSymbol returns the map symbol of a room type. Normal rooms have none.
func RoomSymbol(t dungeon.RoomType) byte {
	switch t {
	case dungeon.RoomStart:
		return 'S'
	case dungeon.RoomTreasure:
		return '$'
	case dungeon.RoomStaircase:
		return 'v'
	case dungeon.RoomStatue:
		return '&'
	case dungeon.RoomAltar:
		return 'A'
	case dungeon.RoomShop:
		return 'M'
	case dungeon.RoomTraining:
		return 'T'
	default:
		return ' '
	}
}

// Summary returns one line per room: id, type, shape, rect and doors.
func Summary(l *dungeon.Layout) string {
	var output strings.Builder
	output.WriteString("Room Details:\n")
	for _, r := range l.Rooms {
		used := len(r.Connectors) - len(r.UnusedConnectors())
		details := fmt.Sprintf("  [%2d] %-10s %-7s (%3d,%3d) %2dx%-2d doors %d/%d",
			r.ID, r.Type, r.Shape, r.X, r.Y, r.W, r.H, used, len(r.Connectors))
		if sym := RoomSymbol(r.Type); sym != ' ' {
			details += fmt.Sprintf(" [%c]", sym)
		}
		output.WriteString(details + "\n")
	}
	return output.String()
}

// Legend returns the glyph legend.
func Legend() string {
	return `
Legend:
  #   Wall
  .   Floor
  +   Locked door
  [S] Start room
  [$] Treasure room
  [v] Staircase
  [&] Statue room
  [A] Altar
  [M] Shop
  [T] Training room
`
}
