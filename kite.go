package kite

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is opaque black.
var ColorBlack = Color{0, 0, 0, 1}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns c with its alpha replaced by a.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// toRGBA converts to a premultiplied color.RGBA for ebiten draw calls.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Vec2 is a 2D point or vector. It is a plain value type; copying it copies
// the point.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectAt returns a rectangle with its top-left corner at p.
func RectAt(p Vec2, w, h float64) Rect {
	return Rect{X: p.X, Y: p.Y, Width: w, Height: h}
}

// Position returns the rectangle's top-left corner.
func (r Rect) Position() Vec2 {
	return Vec2{r.X, r.Y}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Viewport describes where the rendering surface sits on screen and how
// many device pixels back each logical pixel.
type Viewport struct {
	// Bounds is the surface's occupied region in client (logical) coordinates.
	Bounds Rect
	// PixelRatio is the device pixel density. Zero is treated as 1.
	PixelRatio float64
}

func (v Viewport) ratio() float64 {
	if v.PixelRatio <= 0 {
		return 1
	}
	return v.PixelRatio
}

// Size returns the logical width and height as a vector.
func (v Viewport) Size() Vec2 {
	return Vec2{v.Bounds.Width, v.Bounds.Height}
}

// DeviceSize returns the backing surface size in device pixels.
func (v Viewport) DeviceSize() (int, int) {
	r := v.ratio()
	return int(math.Ceil(v.Bounds.Width * r)), int(math.Ceil(v.Bounds.Height * r))
}

// ValueSource is a readable current value plus a change notification. Form
// widgets such as a sprite picker expose themselves to the engine through it.
type ValueSource[T any] interface {
	Value() T
	OnChange(fn func(T))
}
