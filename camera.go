package kite

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// glideAnim holds active glide tweens for the camera target.
type glideAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera follows a tracked position with lag, smoothing, shake and
// pointer-driven panning. Position is the value rendering uses each frame.
type Camera struct {
	// Center is the smoothed point the camera converges toward Target.
	Center Vec2
	// Target is where the camera wants to be.
	Target Vec2
	// Position is Center plus panning and shake offsets, recomputed by Update.
	Position Vec2

	// Drag is the drag window size as a fraction of viewport width and height.
	Drag Vec2
	// Panning scales the cursor-driven panning offset.
	Panning float64
	// Speed is the follow rate per second.
	Speed float64
	// ShakeDecay is the fraction of shake magnitude removed each update.
	ShakeDecay float64
	// ShakeThreshold is the magnitude below which shake snaps to zero.
	ShakeThreshold float64

	shake          float64
	shakeDirection float64

	size  Vec2
	rng   *rand.Rand
	glide *glideAnim
}

// NewCamera creates a camera from cfg for a viewport of the given logical size.
func NewCamera(cfg CameraConfig, size Vec2) *Camera {
	return &Camera{
		Drag:           Vec2{cfg.DragX, cfg.DragY},
		Panning:        cfg.Panning,
		Speed:          cfg.Speed,
		ShakeDecay:     cfg.ShakeDecay,
		ShakeThreshold: cfg.ShakeThreshold,
		size:           size,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetRand replaces the random source used for shake directions.
func (c *Camera) SetRand(r *rand.Rand) {
	c.rng = r
}

// Resize updates the viewport size used for the drag window, panning and
// shake scaling.
func (c *Camera) Resize(size Vec2) {
	c.size = size
}

// Size returns the viewport size the camera was last resized to.
func (c *Camera) Size() Vec2 {
	return c.size
}

// Shake adds amount to the shake magnitude. Non-positive amounts are ignored
// so the magnitude never goes negative.
func (c *Camera) Shake(amount float64) {
	if !(amount > 0) {
		return
	}
	c.shake += amount
}

// ShakeMagnitude returns the current shake magnitude.
func (c *Camera) ShakeMagnitude() float64 {
	return c.shake
}

// ShakeDirection returns the angle, in radians, of the current shake offset.
func (c *Camera) ShakeDirection() float64 {
	return c.shakeDirection
}

// Snap teleports the camera: Center and Target both jump to p and any active
// glide is cancelled.
func (c *Camera) Snap(p Vec2) {
	c.Center = p
	c.Target = p
	c.glide = nil
}

// Focus keeps p inside the drag window centered on Target. While p is inside
// the window Target stays put; once p would leave on an axis, Target moves
// just enough to keep p on that axis's window edge.
func (c *Camera) Focus(p Vec2) {
	dx := c.Drag.X * c.size.X / 2
	dy := c.Drag.Y * c.size.Y / 2
	c.Target.X = math.Min(math.Max(c.Target.X, p.X-dx), p.X+dx)
	c.Target.Y = math.Min(math.Max(c.Target.Y, p.Y-dy), p.Y+dy)
}

// DragWindow returns the world-space drag window around Target.
func (c *Camera) DragWindow() Rect {
	dx := c.Drag.X * c.size.X / 2
	dy := c.Drag.Y * c.size.Y / 2
	return Rect{X: c.Target.X - dx, Y: c.Target.Y - dy, Width: 2 * dx, Height: 2 * dy}
}

// GlideTo animates Target to p over duration seconds. Smoothing still applies
// on top, so Center trails the tweened target.
func (c *Camera) GlideTo(p Vec2, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	c.glide = &glideAnim{
		tweenX: gween.New(float32(c.Target.X), float32(p.X), duration, easeFn),
		tweenY: gween.New(float32(c.Target.Y), float32(p.Y), duration, easeFn),
	}
}

// Gliding reports whether a glide is in progress.
func (c *Camera) Gliding() bool {
	return c.glide != nil
}

// Update advances shake, glide and smoothing by dt seconds and recomputes
// Position. cursor is the world-space cursor position from the last render.
func (c *Camera) Update(dt float64, cursor Vec2) {
	c.decayShake()

	if c.glide != nil {
		if !c.glide.doneX {
			val, done := c.glide.tweenX.Update(float32(dt))
			c.Target.X = float64(val)
			c.glide.doneX = done
		}
		if !c.glide.doneY {
			val, done := c.glide.tweenY.Update(float32(dt))
			c.Target.Y = float64(val)
			c.glide.doneY = done
		}
		if c.glide.doneX && c.glide.doneY {
			c.glide = nil
		}
	}

	c.Center.X += (c.Target.X - c.Center.X) * c.Speed * dt
	c.Center.Y += (c.Target.Y - c.Center.Y) * c.Speed * dt

	c.Position = c.Center.Add(c.panningOffset(cursor)).Add(c.shakeOffset())
}

// decayShake draws a fresh shake direction and shrinks the magnitude,
// snapping it to zero below the threshold.
func (c *Camera) decayShake() {
	if c.shake == 0 {
		return
	}
	c.shakeDirection = c.rng.Float64() * math.Pi * 2
	c.shake -= c.shake * c.ShakeDecay
	if c.shake < c.ShakeThreshold {
		c.shake = 0
	}
}

// panningOffset pans against the cursor: a cursor to the right pulls the view
// left.
func (c *Camera) panningOffset(cursor Vec2) Vec2 {
	var p Vec2
	if c.size.X != 0 {
		p.X = c.Panning * cursor.X / (-c.size.X / 2)
	}
	if c.size.Y != 0 {
		p.Y = c.Panning * cursor.Y / (-c.size.Y / 2)
	}
	return p
}

func (c *Camera) shakeOffset() Vec2 {
	if c.shake == 0 {
		return Vec2{}
	}
	sin, cos := math.Sincos(c.shakeDirection)
	return Vec2{
		X: cos * c.shake * c.size.X / 1000,
		Y: sin * c.shake * c.size.Y / 1000,
	}
}
