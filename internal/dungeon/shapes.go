package dungeon

// minShapedInterior is the smallest interior side that can take a
// non-square shape and keep its floor in one piece.
const minShapedInterior = 6

// carveShape re-walls parts of a fully carved interior. Every recipe
// leaves the remaining floor connected and never touches ownership.
func (p *RoomPlacer) carveShape(r *Room) {
	ix, iy := r.X+1, r.Y+1
	iw, ih := r.W-2, r.H-2

	if r.Shape != ShapeSquare && (iw < minShapedInterior || ih < minShapedInterior) {
		r.Shape = ShapeSquare
	}

	switch r.Shape {
	case ShapeIsland:
		switch p.rng.Intn(3) {
		case 0:
			bw, bh := iw/3, ih/3
			p.wallRect(ix+bw, iy+bh, iw-2*bw, ih-2*bh)
		case 1:
			pw, ph := max(1, iw/5), max(1, ih/3)
			py := iy + (ih-ph)/2
			p.wallRect(ix+2, py, pw, ph)
			p.wallRect(ix+iw-2-pw, py, pw, ph)
		default:
			pw, ph := max(1, iw/3), max(1, ih/5)
			px := ix + (iw-pw)/2
			p.wallRect(px, iy+2, pw, ph)
			p.wallRect(px, iy+ih-2-ph, pw, ph)
		}

	case ShapeL:
		qw, qh := iw/2, ih/2
		switch p.rng.Intn(4) {
		case 0:
			p.wallRect(ix, iy, qw, qh)
		case 1:
			p.wallRect(ix+iw-qw, iy, qw, qh)
		case 2:
			p.wallRect(ix, iy+ih-qh, qw, qh)
		default:
			p.wallRect(ix+iw-qw, iy+ih-qh, qw, qh)
		}

	case ShapeCross:
		cw, ch := iw/3, ih/3
		if p.rng.Intn(2) == 0 {
			cw, ch = max(1, iw/4), max(1, ih/4)
		}
		p.wallRect(ix, iy, cw, ch)
		p.wallRect(ix+iw-cw, iy, cw, ch)
		p.wallRect(ix, iy+ih-ch, cw, ch)
		p.wallRect(ix+iw-cw, iy+ih-ch, cw, ch)

	case ShapeU:
		switch p.rng.Intn(4) {
		case 0:
			nw, nh := iw/3, ih/2
			p.wallRect(ix+(iw-nw)/2, iy, nw, nh)
		case 1:
			nw, nh := iw/3, ih/2
			p.wallRect(ix+(iw-nw)/2, iy+ih-nh, nw, nh)
		case 2:
			nw, nh := iw/2, ih/3
			p.wallRect(ix, iy+(ih-nh)/2, nw, nh)
		default:
			nw, nh := iw/2, ih/3
			p.wallRect(ix+iw-nw, iy+(ih-nh)/2, nw, nh)
		}

	case ShapeT:
		switch p.rng.Intn(4) {
		case 0: // bar on top
			tw, th := iw/3, ih/2
			p.wallRect(ix, iy+ih-th, tw, th)
			p.wallRect(ix+iw-tw, iy+ih-th, tw, th)
		case 1: // bar on bottom
			tw, th := iw/3, ih/2
			p.wallRect(ix, iy, tw, th)
			p.wallRect(ix+iw-tw, iy, tw, th)
		case 2: // bar on the left
			tw, th := iw/2, ih/3
			p.wallRect(ix+iw-tw, iy, tw, th)
			p.wallRect(ix+iw-tw, iy+ih-th, tw, th)
		default: // bar on the right
			tw, th := iw/2, ih/3
			p.wallRect(ix, iy, tw, th)
			p.wallRect(ix, iy+ih-th, tw, th)
		}
	}
}

func (p *RoomPlacer) wallRect(x, y, w, h int) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			p.layout.SetTile(xx, yy, TileWall)
		}
	}
}
