package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
)

func generated(t *testing.T) *dungeon.Map {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Map.Width, cfg.Map.Height = 64, 64
	cfg.Rooms.TargetCount = 4
	m := dungeon.New(cfg, 21)
	if report := m.Generate(); !report.Success {
		t.Fatalf("generation failed: %+v", report)
	}
	return m
}

func TestASCII(t *testing.T) {
	m := generated(t)
	l := m.Layout()

	var buf bytes.Buffer
	if err := ASCII(&buf, l, "", Options{}); err != nil {
		t.Fatalf("ASCII() failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != l.Height {
		t.Fatalf("got %d lines, want %d", len(lines), l.Height)
	}
	for i, line := range lines {
		if len(line) != l.Width {
			t.Fatalf("line %d has %d chars, want %d", i, len(line), l.Width)
		}
	}
	if lines[0] != strings.Repeat("#", l.Width) {
		t.Error("top border is not solid wall")
	}

	start := l.Rooms[0].Center()
	if lines[start.Y][start.X] != 'S' {
		t.Errorf("start room center = %q, want 'S'", lines[start.Y][start.X])
	}
	if !strings.Contains(buf.String(), ".") {
		t.Error("no floor rendered")
	}
}

func TestASCIIHeaderAndLegend(t *testing.T) {
	m := generated(t)

	var buf bytes.Buffer
	if err := ASCII(&buf, m.Layout(), "Dungeon (Seed: 21)", Options{Legend: true}); err != nil {
		t.Fatalf("ASCII() failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Dungeon (Seed: 21)\n") {
		t.Error("header missing")
	}
	if !strings.Contains(out, "Legend:") {
		t.Error("legend missing")
	}
}

func TestASCIIOwners(t *testing.T) {
	l := dungeon.NewLayout(12, 8)
	l.Tiles[3][3] = dungeon.TileFloor
	l.Owners[3][3] = 11
	l.Tiles[3][5] = dungeon.TileFloor
	l.Tiles[3][7] = dungeon.TileLockedDoor

	var buf bytes.Buffer
	if err := ASCII(&buf, l, "", Options{Owners: true}); err != nil {
		t.Fatalf("ASCII() failed: %v", err)
	}
	row := strings.Split(buf.String(), "\n")[3]
	if row != "###b#.#+####" {
		t.Errorf("row 3 = %q", row)
	}
}

func TestRoomSymbol(t *testing.T) {
	tests := []struct {
		t    dungeon.RoomType
		want byte
	}{
		{dungeon.RoomNormal, ' '},
		{dungeon.RoomStart, 'S'},
		{dungeon.RoomTreasure, '$'},
		{dungeon.RoomStaircase, 'v'},
		{dungeon.RoomAltar, 'A'},
		{dungeon.RoomShop, 'M'},
	}
	for _, tc := range tests {
		if got := RoomSymbol(tc.t); got != tc.want {
			t.Errorf("RoomSymbol(%s) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

func TestSummary(t *testing.T) {
	m := generated(t)
	s := Summary(m.Layout())
	if got := strings.Count(s, "\n"); got != len(m.Rooms())+1 {
		t.Errorf("summary has %d lines, want %d", got, len(m.Rooms())+1)
	}
	if !strings.Contains(s, "start") {
		t.Error("summary does not mention the start room")
	}
}

func TestPNG(t *testing.T) {
	m := generated(t)
	l := m.Layout()

	var buf bytes.Buffer
	if err := PNG(&buf, l, ImageOptions{Scale: 4}); err != nil {
		t.Fatalf("PNG() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != l.Width*4 || b.Dy() != l.Height*4 {
		t.Fatalf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), l.Width*4, l.Height*4)
	}

	r, g, bl, _ := img.At(1, 1).RGBA()
	wr, wg, wb, _ := WallColor.RGBA()
	if r != wr || g != wg || bl != wb {
		t.Error("corner pixel is not wall colored")
	}

	c := l.Rooms[0].Center()
	r, g, bl, _ = img.At(c.X*4+1, c.Y*4+1).RGBA()
	sr, sg, sb, _ := RoomColor(dungeon.RoomStart).RGBA()
	if r != sr || g != sg || bl != sb {
		t.Error("start room center is not start colored")
	}
}

func TestImageLabels(t *testing.T) {
	m := generated(t)
	l := m.Layout()

	plain := Image(l, ImageOptions{Scale: 8})
	labeled := Image(l, ImageOptions{Scale: 8, Labels: true})

	changed := 0
	for i := range plain.Pix {
		if plain.Pix[i] != labeled.Pix[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("labels did not change the image")
	}
}

func TestImageMinimumScale(t *testing.T) {
	l := dungeon.NewLayout(10, 6)
	img := Image(l, ImageOptions{})
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 6 {
		t.Errorf("bounds = %v, want 10x6", img.Bounds())
	}
}
