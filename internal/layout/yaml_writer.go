// Package layout writes generated dungeons to YAML for offline inspection.
package layout

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
)

// ErrNoRooms is returned when asked to dump a map that has no rooms.
var ErrNoRooms = errors.New("layout: map has no rooms")

// LayoutYAML represents a generated map in YAML format
type LayoutYAML struct {
	Seed     int64             `yaml:"seed"`
	Width    int               `yaml:"width"`
	Height   int               `yaml:"height"`
	TileSize int               `yaml:"tile_size"`
	Report   ReportYAML        `yaml:"report"`
	Rooms    map[int]*RoomYAML `yaml:"rooms"`
	Tiles    []string          `yaml:"tiles"`
}

// ReportYAML represents the generation report in YAML format
type ReportYAML struct {
	Success          bool  `yaml:"success"`
	Attempts         int   `yaml:"attempts"`
	Forced           bool  `yaml:"forced"`
	UnusedConnectors int   `yaml:"unused_connectors"`
	ElapsedMS        int64 `yaml:"elapsed_ms"`
}

// RoomYAML represents a room in YAML format
type RoomYAML struct {
	Type       string          `yaml:"type"`
	Shape      string          `yaml:"shape"`
	X          int             `yaml:"x"`
	Y          int             `yaml:"y"`
	W          int             `yaml:"w"`
	H          int             `yaml:"h"`
	Connectors []ConnectorYAML `yaml:"connectors,omitempty"`
}

// ConnectorYAML represents a connector in YAML format
type ConnectorYAML struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Dir  string `yaml:"dir"`
	Used bool   `yaml:"used"`
}

// FromMap converts a generated map and its report.
func FromMap(m *dungeon.Map, report dungeon.Report) (*LayoutYAML, error) {
	l := m.Layout()
	if len(l.Rooms) == 0 {
		return nil, ErrNoRooms
	}

	out := &LayoutYAML{
		Seed:     m.Seed(),
		Width:    l.Width,
		Height:   l.Height,
		TileSize: m.Config().Map.TileSize,
		Report: ReportYAML{
			Success:          report.Success,
			Attempts:         report.Attempts,
			Forced:           report.Forced,
			UnusedConnectors: report.UnusedConnectors,
			ElapsedMS:        report.Elapsed.Milliseconds(),
		},
		Rooms: make(map[int]*RoomYAML, len(l.Rooms)),
		Tiles: EncodeTiles(l),
	}

	for _, r := range l.Rooms {
		room := &RoomYAML{
			Type:  r.Type.String(),
			Shape: r.Shape.String(),
			X:     r.X,
			Y:     r.Y,
			W:     r.W,
			H:     r.H,
		}
		for _, c := range r.Connectors {
			room.Connectors = append(room.Connectors, ConnectorYAML{X: c.X, Y: c.Y, Dir: c.Facing(), Used: c.Used})
		}
		out.Rooms[r.ID] = room
	}

	return out, nil
}

// EncodeTiles returns the tile grid as one string per row:
// '#' wall, '.' floor, '+' locked door.
func EncodeTiles(l *dungeon.Layout) []string {
	rows := make([]string, l.Height)
	row := make([]byte, l.Width)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			switch l.Tile(x, y) {
			case dungeon.TileFloor:
				row[x] = '.'
			case dungeon.TileLockedDoor:
				row[x] = '+'
			default:
				row[x] = '#'
			}
		}
		rows[y] = string(row)
	}
	return rows
}

// ToLayout rebuilds a dungeon layout from a dump. Each room claims its
// rectangle in the owner grid, as it did when generated.
func ToLayout(in *LayoutYAML) (*dungeon.Layout, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", in.Width, in.Height)
	}
	if len(in.Tiles) != in.Height {
		return nil, fmt.Errorf("tile grid has %d rows, want %d", len(in.Tiles), in.Height)
	}

	l := dungeon.NewLayout(in.Width, in.Height)
	for y, row := range in.Tiles {
		if len(row) != in.Width {
			return nil, fmt.Errorf("tile row %d has %d columns, want %d", y, len(row), in.Width)
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '.':
				l.Tiles[y][x] = dungeon.TileFloor
			case '+':
				l.Tiles[y][x] = dungeon.TileLockedDoor
			case '#':
			default:
				return nil, fmt.Errorf("unknown tile %q at (%d,%d)", row[x], x, y)
			}
		}
	}

	ids := make([]int, 0, len(in.Rooms))
	for id := range in.Rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for i, id := range ids {
		if id != i {
			return nil, fmt.Errorf("room ids are not contiguous: missing %d", i)
		}
		ry := in.Rooms[id]
		rt, err := dungeon.ParseRoomType(ry.Type)
		if err != nil {
			return nil, fmt.Errorf("room %d: %w", id, err)
		}
		shape, err := dungeon.ParseShape(ry.Shape)
		if err != nil {
			return nil, fmt.Errorf("room %d: %w", id, err)
		}
		r := &dungeon.Room{ID: id, X: ry.X, Y: ry.Y, W: ry.W, H: ry.H, Type: rt, Shape: shape}
		for _, c := range ry.Connectors {
			dir, err := dungeon.ParseDirection(c.Dir)
			if err != nil {
				return nil, fmt.Errorf("room %d: %w", id, err)
			}
			r.Connectors = append(r.Connectors, &dungeon.Connector{X: c.X, Y: c.Y, Dir: dir, Used: c.Used})
		}
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				if l.InBounds(x, y) {
					l.Owners[y][x] = id
				}
			}
		}
		l.Rooms = append(l.Rooms, r)
	}

	return l, nil
}

// WriteLayoutYAML writes a layout to a YAML file
func WriteLayoutYAML(layout *LayoutYAML, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := Write(f, layout); err != nil {
		return err
	}
	return f.Close()
}

// Write encodes a layout as YAML to w.
func Write(w io.Writer, layout *LayoutYAML) error {
	fmt.Fprintf(w, "# Dungeon %dx%d\n", layout.Width, layout.Height)
	fmt.Fprintf(w, "# Generated with seed: %d\n", layout.Seed)
	fmt.Fprintf(w, "# Room count: %d\n\n", len(layout.Rooms))

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	// Metadata first, then rooms sorted by id, then the grid
	ordered := &orderedLayoutYAML{
		Seed:     layout.Seed,
		Width:    layout.Width,
		Height:   layout.Height,
		TileSize: layout.TileSize,
		Report:   layout.Report,
		Rooms:    sortRooms(layout.Rooms),
		Tiles:    layout.Tiles,
	}

	if err := encoder.Encode(ordered); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// Read loads a layout written by WriteLayoutYAML.
func Read(path string) (*LayoutYAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	var layout LayoutYAML
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	return &layout, nil
}

// orderedLayoutYAML is used for serialization with ordered rooms
type orderedLayoutYAML struct {
	Seed     int64      `yaml:"seed"`
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	TileSize int        `yaml:"tile_size"`
	Report   ReportYAML `yaml:"report"`
	Rooms    yaml.Node  `yaml:"rooms"`
	Tiles    []string   `yaml:"tiles"`
}

// sortRooms returns rooms as an ordered YAML node
func sortRooms(rooms map[int]*RoomYAML) yaml.Node {
	ids := make([]int, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	node := yaml.Node{
		Kind: yaml.MappingNode,
	}

	for _, id := range ids {
		room := rooms[id]

		keyNode := yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: strconv.Itoa(id),
		}

		valueNode := yaml.Node{
			Kind: yaml.MappingNode,
		}

		addStringField(&valueNode, "type", room.Type)
		addStringField(&valueNode, "shape", room.Shape)
		addIntField(&valueNode, "x", room.X)
		addIntField(&valueNode, "y", room.Y)
		addIntField(&valueNode, "w", room.W)
		addIntField(&valueNode, "h", room.H)

		if len(room.Connectors) > 0 {
			addConnectorsField(&valueNode, room.Connectors)
		}

		node.Content = append(node.Content, &keyNode, &valueNode)
	}

	return node
}

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)},
	)
}

// addConnectorsField writes one flow-style mapping per connector so each
// door stays on a single line.
func addConnectorsField(node *yaml.Node, connectors []ConnectorYAML) {
	seqNode := yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range connectors {
		item := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		addIntField(item, "x", c.X)
		addIntField(item, "y", c.Y)
		addStringField(item, "dir", c.Dir)
		item.Content = append(item.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "used"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(c.Used)},
		)
		seqNode.Content = append(seqNode.Content, item)
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "connectors"},
		&seqNode,
	)
}
