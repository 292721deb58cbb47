package kite

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

// Vignette darkens the frame edges with a radial gradient. The gradient is
// rasterized on the CPU once per surface size and cached as an ebiten image.
type Vignette struct {
	cfg VignetteConfig

	w, h int
	img  *ebiten.Image
}

// NewVignette creates a vignette renderer.
func NewVignette(cfg VignetteConfig) *Vignette {
	return &Vignette{cfg: cfg}
}

// brush returns the gradient for a w x h surface: transparent inside
// min(w,h)*Inner, reaching Alpha black at max(w,h)*Outer.
func (v *Vignette) brush(w, h float64) *gg.RadialGradientBrush {
	inner := math.Min(w, h) * v.cfg.Inner
	outer := math.Max(w, h) * v.cfg.Outer
	return gg.NewRadialGradientBrush(w/2, h/2, inner, outer).
		AddColorStop(0, gg.RGBA2(0, 0, 0, 0)).
		AddColorStop(1, gg.RGBA2(0, 0, 0, v.cfg.Alpha))
}

// render rasterizes the gradient into a standalone image.
func (v *Vignette) render(w, h int) (image.Image, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.SetFillBrush(v.brush(float64(w), float64(h)))
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("vignette %dx%d: %w", w, h, err)
	}
	return dc.Image(), nil
}

// Draw composites the vignette over the whole target, ignoring the surface
// transform.
func (v *Vignette) Draw(s *Surface) {
	target := s.Target()
	if target == nil {
		return
	}
	b := target.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if v.img == nil || v.w != w || v.h != h {
		src, err := v.render(w, h)
		if err != nil {
			Logger().Warn("vignette render failed", "err", err)
			return
		}
		if v.img != nil {
			v.img.Deallocate()
		}
		v.img = ebiten.NewImageFromImage(src)
		v.w, v.h = w, h
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	target.DrawImage(v.img, &op)
}
