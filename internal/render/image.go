package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
)

var (
	WallColor       = color.RGBA{0x1a, 0x1a, 0x22, 0xff}
	CorridorColor   = color.RGBA{0x8c, 0x84, 0x78, 0xff}
	LockedDoorColor = color.RGBA{0xc0, 0x30, 0x30, 0xff}
	LabelColor      = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// RoomColor returns the floor color used for rooms of type t.
func RoomColor(t dungeon.RoomType) color.RGBA {
	switch t {
	case dungeon.RoomStart:
		return color.RGBA{0x4c, 0xaf, 0x50, 0xff}
	case dungeon.RoomTreasure:
		return color.RGBA{0xe6, 0xb8, 0x22, 0xff}
	case dungeon.RoomStaircase:
		return color.RGBA{0x42, 0x7b, 0xd6, 0xff}
	case dungeon.RoomStatue:
		return color.RGBA{0x9e, 0x9e, 0xb0, 0xff}
	case dungeon.RoomAltar:
		return color.RGBA{0xa0, 0x52, 0xc8, 0xff}
	case dungeon.RoomShop:
		return color.RGBA{0xe0, 0x7b, 0x39, 0xff}
	case dungeon.RoomTraining:
		return color.RGBA{0x3a, 0xa8, 0xa0, 0xff}
	default:
		return color.RGBA{0xb8, 0xac, 0x98, 0xff}
	}
}

// ImageOptions controls image rendering.
type ImageOptions struct {
	// Scale is the pixel size of one tile. Values below 1 mean 1.
	Scale int

	// Labels draws each room's id at its center.
	Labels bool
}

// Image paints the layout, one Scale x Scale square per tile.
func Image(l *dungeon.Layout, opts ImageOptions) *image.RGBA {
	s := max(opts.Scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, l.Width*s, l.Height*s))

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			c := tileColor(l, x, y)
			draw.Draw(img, image.Rect(x*s, y*s, (x+1)*s, (y+1)*s), image.NewUniform(c), image.Point{}, draw.Src)
		}
	}

	if opts.Labels {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(LabelColor),
			Face: basicfont.Face7x13,
		}
		for _, r := range l.Rooms {
			label := strconv.Itoa(r.ID)
			c := r.Center()
			width := d.MeasureString(label)
			px := fixed.I(c.X*s+s/2) - width/2
			py := fixed.I(c.Y*s + s/2 + basicfont.Face7x13.Ascent/2)
			d.Dot = fixed.Point26_6{X: px, Y: py}
			d.DrawString(label)
		}
	}

	return img
}

func tileColor(l *dungeon.Layout, x, y int) color.RGBA {
	switch l.Tile(x, y) {
	case dungeon.TileWall:
		return WallColor
	case dungeon.TileLockedDoor:
		return LockedDoorColor
	}
	if r := l.Room(l.Owner(x, y)); r != nil {
		return RoomColor(r.Type)
	}
	return CorridorColor
}

// PNG encodes the rendered layout as a PNG image.
func PNG(w io.Writer, l *dungeon.Layout, opts ImageOptions) error {
	return png.Encode(w, Image(l, opts))
}
