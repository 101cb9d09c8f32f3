package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lawnchairsociety/deepcrawl/internal/config"
	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
	"github.com/lawnchairsociety/deepcrawl/internal/render"
	"github.com/lawnchairsociety/deepcrawl/internal/viewer"
)

const (
	screenWidth  = 960
	screenHeight = 720

	playerSpeed = 4.0
)

var (
	playerColor = color.RGBA{0xf5, 0xf5, 0xf0, 0xff}
	lockedTint  = color.RGBA{0xc0, 0x30, 0x30, 0xff}
)

var zoomLevels = []float64{1, 0.5, 0.25}

// Game implements ebiten.Game on top of a Session.
type Game struct {
	session *viewer.Session
	seed    int64
	zoom    int
	hud     bool
}

// NewGame creates a game showing the map for seed.
func NewGame(cfg *config.GeneratorConfig, seed int64) *Game {
	return &Game{
		session: viewer.NewSession(cfg, seed),
		seed:    seed,
		hud:     true,
	}
}

// Update reads input and advances the session by one tick.
func (g *Game) Update() error {
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= playerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += playerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= playerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += playerSpeed
	}
	g.session.Move(dx, dy)
	g.session.Tick()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.seed++
		g.session.Regenerate(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.zoom = (g.zoom + 1) % len(zoomLevels)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud = !g.hud
	}
	return nil
}

// Draw renders the visible part of the map around the player.
func (g *Game) Draw(screen *ebiten.Image) {
	m := g.session.Map()
	l := m.Layout()
	scale := zoomLevels[g.zoom]
	ts := float64(m.Config().Map.TileSize) * scale

	// Camera keeps the player centered.
	camX := g.session.X*scale - screenWidth/2
	camY := g.session.Y*scale - screenHeight/2

	screen.Fill(render.WallColor)

	x0 := max(int(camX/ts), 0)
	y0 := max(int(camY/ts), 0)
	x1 := min(int((camX+screenWidth)/ts)+1, l.Width-1)
	y1 := min(int((camY+screenHeight)/ts)+1, l.Height-1)

	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			c, ok := tileColor(l, tx, ty)
			if !ok {
				continue
			}
			px := float32(float64(tx)*ts - camX)
			py := float32(float64(ty)*ts - camY)
			vector.DrawFilledRect(screen, px, py, float32(ts), float32(ts), c, false)
		}
	}

	if r := g.session.Locked(); r != nil {
		vector.StrokeRect(screen,
			float32(float64(r.X)*ts-camX), float32(float64(r.Y)*ts-camY),
			float32(float64(r.W)*ts), float32(float64(r.H)*ts),
			3, lockedTint, false)
	}

	size := float32(viewer.PlayerSize * scale)
	vector.DrawFilledRect(screen, screenWidth/2-size/2, screenHeight/2-size/2, size, size, playerColor, false)

	if g.hud {
		ebitenutil.DebugPrint(screen, g.status())
	}
}

func (g *Game) status() string {
	report := g.session.Report()
	t := g.session.Tile()
	room := "corridor"
	if r := g.session.Map().RoomAt(t.X, t.Y); r != nil {
		room = fmt.Sprintf("room %d (%s)", r.ID, r.Type)
	}
	lock := ""
	if r := g.session.Locked(); r != nil {
		lock = fmt.Sprintf("\nLOCKED in room %d, SPACE to clear", r.ID)
	}
	return fmt.Sprintf("seed %d  rooms %d  attempts %d  forced %v\ntile (%d,%d) %s%s\nWASD move  R next seed  Z zoom  H hide",
		g.seed, report.Rooms, report.Attempts, report.Forced, t.X, t.Y, room, lock)
}

func tileColor(l *dungeon.Layout, x, y int) (color.Color, bool) {
	switch l.Tile(x, y) {
	case dungeon.TileWall:
		return nil, false
	case dungeon.TileLockedDoor:
		return render.LockedDoorColor, true
	}
	if r := l.Room(l.Owner(x, y)); r != nil {
		return render.RoomColor(r.Type), true
	}
	return render.CorridorColor, true
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
