package main

import (
	"strings"
	"testing"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
	"github.com/lawnchairsociety/deepcrawl/internal/layout"
	"github.com/lawnchairsociety/deepcrawl/internal/render"
)

func dumpFor(t *testing.T, seed int64) *layout.LayoutYAML {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Map.Width, cfg.Map.Height = 64, 64
	cfg.Rooms.TargetCount = 4
	m := dungeon.New(cfg, seed)
	dump, err := layout.FromMap(m, m.Generate())
	if err != nil {
		t.Fatalf("FromMap() failed: %v", err)
	}
	return dump
}

func TestRenderDump(t *testing.T) {
	dump := dumpFor(t, 6)
	l, err := layout.ToLayout(dump)
	if err != nil {
		t.Fatalf("ToLayout() failed: %v", err)
	}

	out := renderDump(dump, l, render.Options{Legend: true})
	for _, want := range []string{
		"Dungeon 64x64 (Seed: 6",
		"Room Details:",
		"Connectivity: all rooms reachable",
		"Legend:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderDumpReportsUnreachable(t *testing.T) {
	dump := dumpFor(t, 6)
	l, err := layout.ToLayout(dump)
	if err != nil {
		t.Fatalf("ToLayout() failed: %v", err)
	}

	// Wall in the last room completely.
	r := l.Rooms[len(l.Rooms)-1]
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if x == r.X || y == r.Y || x == r.X+r.W-1 || y == r.Y+r.H-1 {
				l.SetTile(x, y, dungeon.TileWall)
			}
		}
	}

	out := renderDump(dump, l, render.Options{})
	if !strings.Contains(out, "Connectivity: WARNING") {
		t.Errorf("unreachable room %d not reported", r.ID)
	}
}
