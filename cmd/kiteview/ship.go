package main

import (
	"context"
	"math"

	"github.com/phanxgames/kite"
)

var palette = []string{"#f2a33a", "#e8504f", "#62c370", "#4fb3e8", "#b07ce8"}

// ship is the tracked subject: it moves with WASD or the arrow keys, faces
// the cursor and is drawn with the currently picked sprite.
type ship struct {
	ctx   context.Context
	cache *kite.TextureCache
	tex   *kite.Texture

	pos     kite.Vec2
	heading float64
	speed   float64
	color   int
}

func newShip(ctx context.Context, cache *kite.TextureCache) *ship {
	return &ship{ctx: ctx, cache: cache, speed: 320}
}

// bind registers the ship's input handlers and follows the sprite picker.
func (s *ship) bind(c kite.Context, in *kite.Input, sprites kite.ValueSource[string]) {
	c.OnKeyPress("Space", func(string) { c.Shake(40) })
	c.OnKeyPress("KeyR", func(string) {
		s.pos = kite.Vec2{}
		c.Snap(s.pos)
	})
	in.OnClick(s.recolor)
	sprites.OnChange(s.use)
	s.use(sprites.Value())
}

// use switches to the sprite at path, loading it in the background on first
// use. Request starts at most one load per texture however fast the picker
// cycles.
func (s *ship) use(path string) {
	s.tex = s.cache.Get(path)
	done := s.tex.Request(s.ctx)
	if done == nil {
		return
	}
	tex := s.tex
	go func() {
		if err := <-done; err != nil {
			kite.Logger().Warn("sprite load failed", "path", tex.Path(), "err", err)
		}
	}()
}

// recolor cycles the sprite body through the palette and asks for a new
// raster. Rapid clicks coalesce inside the texture.
func (s *ship) recolor() {
	tex := s.tex
	if tex == nil || !tex.Loaded() {
		return
	}
	s.color = (s.color + 1) % len(palette)
	tex.SetFill("body", palette[s.color])
	go func() {
		if err := <-tex.RasterizeAsync(s.ctx); err != nil {
			kite.Logger().Warn("sprite rasterize failed", "path", tex.Path(), "err", err)
		}
	}()
}

func (s *ship) Update(c kite.Context, dt float64) {
	var dir kite.Vec2
	if c.CheckKeys("KeyW, ArrowUp") {
		dir.Y--
	}
	if c.CheckKeys("KeyS, ArrowDown") {
		dir.Y++
	}
	if c.CheckKeys("KeyA, ArrowLeft") {
		dir.X--
	}
	if c.CheckKeys("KeyD, ArrowRight") {
		dir.X++
	}
	if n := math.Hypot(dir.X, dir.Y); n > 0 {
		s.pos = s.pos.Add(dir.Scale(s.speed * dt / n))
	}

	cursor := c.CursorPosition()
	if d := cursor.Sub(s.pos); d.X != 0 || d.Y != 0 {
		s.heading = math.Atan2(d.Y, d.X)
	}
	c.Focus(s.pos)
}

func (s *ship) Draw(sf *kite.Surface) {
	sf.Save()
	defer sf.Restore()
	sf.Translate(s.pos.X, s.pos.Y)
	sf.Rotate(s.heading + math.Pi/2)

	if s.tex != nil {
		if img := s.tex.Image(); img != nil {
			sf.DrawImageCentered(img, kite.Vec2{}, nil)
			return
		}
	}
	// Placeholder until the sprite has rasterized.
	marker := kite.ColorWhite.WithAlpha(0.8)
	sf.StrokeLine(kite.Vec2{X: -12}, kite.Vec2{X: 12}, 2, marker)
	sf.StrokeLine(kite.Vec2{Y: -16}, kite.Vec2{Y: 12}, 2, marker)
}
