package kite

import "math"

// GridLine is one background grid line in world space, before tilt.
type GridLine struct {
	From, To Vec2
	Index    int
	Major    bool
}

// isMajor reports whether the line at grid index i is emphasized. Index 0 is
// always major, as is every multiple of every in either direction.
func isMajor(i, every int) bool {
	if every <= 0 {
		return false
	}
	return i%every == 0
}

// gridLines returns the vertical then horizontal lines covering a square of
// side diagonal centered on center. The square is large enough that tilting
// it about center never exposes ungridded corners of the viewport.
func gridLines(center Vec2, diagonal, unit float64, every int, buf []GridLine) []GridLine {
	buf = buf[:0]
	if unit <= 0 {
		return buf
	}
	left := center.X - diagonal/2
	right := center.X + diagonal/2
	top := center.Y - diagonal/2
	bottom := center.Y + diagonal/2

	startX := math.Floor(left / unit)
	for i := 0; ; i++ {
		x := (startX + float64(i)) * unit
		if x > right {
			break
		}
		idx := int(startX) + i
		buf = append(buf, GridLine{
			From: Vec2{x, top}, To: Vec2{x, bottom},
			Index: idx, Major: isMajor(idx, every),
		})
	}

	startY := math.Floor(top / unit)
	for i := 0; ; i++ {
		y := (startY + float64(i)) * unit
		if y > bottom {
			break
		}
		idx := int(startY) + i
		buf = append(buf, GridLine{
			From: Vec2{left, y}, To: Vec2{right, y},
			Index: idx, Major: isMajor(idx, every),
		})
	}
	return buf
}

// Background draws the motion trail and the tilted world grid.
type Background struct {
	cfg   BackgroundConfig
	lines []GridLine
}

// NewBackground creates a background renderer.
func NewBackground(cfg BackgroundConfig) *Background {
	return &Background{cfg: cfg}
}

// DrawTrail fills the whole viewport with low-alpha black, fading whatever
// the previous frame left behind instead of clearing it.
func (b *Background) DrawTrail(s *Surface) {
	s.FillScreen(ColorBlack.WithAlpha(b.cfg.TrailAlpha))
}

// DrawGrid strokes the grid around camera. s must already carry the camera
// translation; the tilt is applied about the camera position and undone
// before returning.
func (b *Background) DrawGrid(s *Surface, camera Vec2, viewport Vec2) {
	s.Save()
	defer s.Restore()

	s.Translate(camera.X, camera.Y)
	s.Rotate(b.cfg.TiltDegrees * math.Pi / 180)
	s.Translate(-camera.X, -camera.Y)

	diagonal := math.Hypot(viewport.X, viewport.Y)
	b.lines = gridLines(camera, diagonal, b.cfg.GridSize, b.cfg.MajorEvery, b.lines)

	major := ColorWhite.WithAlpha(b.cfg.MajorAlpha)
	minor := ColorWhite.WithAlpha(b.cfg.MinorAlpha)
	for _, l := range b.lines {
		clr := minor
		if l.Major {
			clr = major
		}
		s.StrokeLine(l.From, l.To, b.cfg.LineWidth, clr)
	}
}
