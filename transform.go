package kite

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Surface is the rendering target for one frame together with the affine
// transform currently in effect on it.
//
// Translate, Rotate and Scale compose the way a 2D canvas context does: the
// new operation is applied to points before the existing transform. The
// transform is written only while rendering; ToScreen and ToWorld read it.
type Surface struct {
	target *ebiten.Image
	base   ebiten.GeoM
	m      ebiten.GeoM
	stack  []ebiten.GeoM
}

// NewSurface creates a surface whose base transform scales logical pixels
// to device pixels.
func NewSurface(pixelRatio float64) *Surface {
	s := &Surface{}
	s.SetPixelRatio(pixelRatio)
	return s
}

// SetPixelRatio replaces the base device pixel scale and resets the current
// transform to it.
func (s *Surface) SetPixelRatio(pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	s.base.Reset()
	s.base.Scale(pixelRatio, pixelRatio)
	s.m = s.base
}

// Begin starts a frame on target: the transform is reset to the base scale
// and the save stack is emptied.
func (s *Surface) Begin(target *ebiten.Image) {
	s.target = target
	s.m = s.base
	s.stack = s.stack[:0]
}

// Target returns the image the current frame renders into. Nil outside Draw.
func (s *Surface) Target() *ebiten.Image {
	return s.target
}

// Save pushes the current transform.
func (s *Surface) Save() {
	s.stack = append(s.stack, s.m)
}

// Restore pops the transform pushed by the matching Save. Unbalanced calls
// are ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.m = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// ResetTransform restores the base scale without touching the save stack.
func (s *Surface) ResetTransform() {
	s.m = s.base
}

// Transform returns a copy of the current transform.
func (s *Surface) Transform() ebiten.GeoM {
	return s.m
}

// SetTransform replaces the current transform.
func (s *Surface) SetTransform(m ebiten.GeoM) {
	s.m = m
}

func (s *Surface) prepend(op ebiten.GeoM) {
	op.Concat(s.m)
	s.m = op
}

// Translate moves the origin by (tx, ty) in the current coordinate space.
func (s *Surface) Translate(tx, ty float64) {
	var op ebiten.GeoM
	op.Translate(tx, ty)
	s.prepend(op)
}

// Rotate rotates the current coordinate space by theta radians (clockwise on
// screen, since Y grows downward).
func (s *Surface) Rotate(theta float64) {
	var op ebiten.GeoM
	op.Rotate(theta)
	s.prepend(op)
}

// Scale scales the current coordinate space.
func (s *Surface) Scale(sx, sy float64) {
	var op ebiten.GeoM
	op.Scale(sx, sy)
	s.prepend(op)
}

// ToScreen maps a world point to device pixels through the current transform.
func (s *Surface) ToScreen(p Vec2) Vec2 {
	x, y := s.m.Apply(p.X, p.Y)
	return Vec2{x, y}
}

// ToWorld maps a device pixel position back to world space. The inverse is
// recomputed on every call because the transform changes every frame.
// A non-invertible transform returns p unchanged.
func (s *Surface) ToWorld(p Vec2) Vec2 {
	inv := s.m
	if !inv.IsInvertible() {
		return p
	}
	inv.Invert()
	x, y := inv.Apply(p.X, p.Y)
	return Vec2{x, y}
}

// scaleFactor approximates the uniform scale of the current transform, used
// for stroke widths.
func (s *Surface) scaleFactor() float64 {
	a, b := s.m.Element(0, 0), s.m.Element(1, 0)
	return math.Hypot(a, b)
}

// StrokeLine strokes a line between two points in the current coordinate
// space. The width is in current-space units.
func (s *Surface) StrokeLine(from, to Vec2, width float64, clr Color) {
	if s.target == nil {
		return
	}
	a := s.ToScreen(from)
	b := s.ToScreen(to)
	vector.StrokeLine(s.target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y),
		float32(width*s.scaleFactor()), clr.toRGBA(), true)
}

// FillScreen fills the whole target with clr, ignoring the transform.
func (s *Surface) FillScreen(clr Color) {
	if s.target == nil {
		return
	}
	b := s.target.Bounds()
	vector.DrawFilledRect(s.target, float32(b.Min.X), float32(b.Min.Y),
		float32(b.Dx()), float32(b.Dy()), clr.toRGBA(), false)
}

// DrawImage draws img with its top-left at the origin of the current
// coordinate space, after the optional local transform. A nil opts draws
// it untinted.
func (s *Surface) DrawImage(img *ebiten.Image, opts *ebiten.DrawImageOptions) {
	if s.target == nil || img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	if opts != nil {
		op = *opts
	}
	op.GeoM.Concat(s.m)
	s.target.DrawImage(img, &op)
}

// DrawImageCentered draws img centered on p in the current coordinate space.
func (s *Surface) DrawImageCentered(img *ebiten.Image, p Vec2, tint color.Color) {
	if img == nil {
		return
	}
	b := img.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(p.X-float64(b.Dx())/2, p.Y-float64(b.Dy())/2)
	if tint != nil {
		op.ColorScale.ScaleWithColor(tint)
	}
	s.DrawImage(img, &op)
}
