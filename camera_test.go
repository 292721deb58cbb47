package kite

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func newTestCamera(size Vec2) *Camera {
	cam := NewCamera(DefaultConfig().Camera, size)
	cam.SetRand(rand.New(rand.NewPCG(1, 2)))
	return cam
}

func TestCameraDefaults(t *testing.T) {
	cam := newTestCamera(Vec2{800, 600})
	if cam.Drag != (Vec2{0.1, 0.25}) {
		t.Errorf("Drag = %v, want {0.1 0.25}", cam.Drag)
	}
	if cam.Panning != 5 {
		t.Errorf("Panning = %v, want 5", cam.Panning)
	}
	if cam.Speed != 2 {
		t.Errorf("Speed = %v, want 2", cam.Speed)
	}
	if cam.ShakeDecay != 0.2 || cam.ShakeThreshold != 0.1 {
		t.Errorf("shake decay/threshold = %v/%v, want 0.2/0.1", cam.ShakeDecay, cam.ShakeThreshold)
	}
	if cam.ShakeMagnitude() != 0 {
		t.Errorf("ShakeMagnitude = %v, want 0", cam.ShakeMagnitude())
	}
}

func TestCameraShakeDecaysToExactlyZero(t *testing.T) {
	cam := newTestCamera(Vec2{800, 600})
	cam.Shake(10)

	prev := cam.ShakeMagnitude()
	for i := 0; i < 100 && prev > 0; i++ {
		cam.Update(1.0/60, Vec2{})
		got := cam.ShakeMagnitude()
		if got >= prev {
			t.Fatalf("update %d: shake %v did not decrease from %v", i, got, prev)
		}
		if got < 0 {
			t.Fatalf("update %d: shake went negative: %v", i, got)
		}
		prev = got
	}
	if prev != 0 {
		t.Fatalf("shake = %v after 100 updates, want exactly 0", prev)
	}
}

func TestCameraShakeFirstDecay(t *testing.T) {
	cam := newTestCamera(Vec2{800, 600})
	cam.Shake(10)
	cam.Update(0.016, Vec2{})
	if !approxEqual(cam.ShakeMagnitude(), 8, epsilon) {
		t.Errorf("ShakeMagnitude = %v, want 8", cam.ShakeMagnitude())
	}
	dir := cam.ShakeDirection()
	if dir < 0 || dir >= 2*math.Pi {
		t.Errorf("ShakeDirection = %v, want in [0, 2pi)", dir)
	}
}

func TestCameraShakeIgnoresNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
	}{
		{"zero", 0},
		{"negative", -5},
		{"nan", math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera(Vec2{800, 600})
			cam.Shake(tt.amount)
			if cam.ShakeMagnitude() != 0 {
				t.Errorf("Shake(%v): magnitude = %v, want 0", tt.amount, cam.ShakeMagnitude())
			}
		})
	}
}

func TestCameraShakeAccumulates(t *testing.T) {
	cam := newTestCamera(Vec2{800, 600})
	cam.Shake(3)
	cam.Shake(4)
	if cam.ShakeMagnitude() != 7 {
		t.Errorf("ShakeMagnitude = %v, want 7", cam.ShakeMagnitude())
	}
}

func TestCameraShakeOffsetScale(t *testing.T) {
	// A square 1000x1000 viewport makes the offset length equal the magnitude.
	cam := newTestCamera(Vec2{1000, 1000})
	cam.Shake(20)
	cam.Update(0.016, Vec2{})

	off := cam.Position.Sub(cam.Center)
	if got, want := math.Hypot(off.X, off.Y), cam.ShakeMagnitude(); !approxEqual(got, want, 1e-6) {
		t.Errorf("shake offset length = %v, want %v", got, want)
	}
	if got := math.Atan2(off.Y, off.X); !approxEqual(math.Mod(got+2*math.Pi, 2*math.Pi), cam.ShakeDirection(), 1e-6) {
		t.Errorf("shake offset angle = %v, want %v", got, cam.ShakeDirection())
	}
}

func TestCameraFocusDragWindow(t *testing.T) {
	// size 1000x1000 with drag (0.1, 0.25) gives half-window (50, 125).
	tests := []struct {
		name   string
		p      Vec2
		target Vec2
	}{
		{"inside window", Vec2{30, 100}, Vec2{0, 0}},
		{"on right edge", Vec2{50, 0}, Vec2{0, 0}},
		{"past right", Vec2{80, 0}, Vec2{30, 0}},
		{"past left", Vec2{-80, 0}, Vec2{-30, 0}},
		{"past bottom", Vec2{0, 200}, Vec2{0, 75}},
		{"past top-left", Vec2{-80, -200}, Vec2{-30, -75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera(Vec2{1000, 1000})
			cam.Focus(tt.p)
			if !approxEqual(cam.Target.X, tt.target.X, epsilon) || !approxEqual(cam.Target.Y, tt.target.Y, epsilon) {
				t.Errorf("Focus(%v): Target = %v, want %v", tt.p, cam.Target, tt.target)
			}
		})
	}
}

func TestCameraFocusKeepsPointInWindow(t *testing.T) {
	cam := newTestCamera(Vec2{1000, 1000})
	points := []Vec2{{300, 40}, {-900, 700}, {12, -3}, {5000, 5000}}
	for _, p := range points {
		cam.Focus(p)
		w := cam.DragWindow()
		if !w.Contains(p.X, p.Y) {
			t.Errorf("after Focus(%v): drag window %v does not contain point", p, w)
		}
	}
}

func TestCameraSnap(t *testing.T) {
	cam := newTestCamera(Vec2{800, 600})
	cam.GlideTo(Vec2{500, 500}, 2, nil)
	cam.Snap(Vec2{10, -20})
	if cam.Center != (Vec2{10, -20}) || cam.Target != (Vec2{10, -20}) {
		t.Errorf("after Snap: Center = %v, Target = %v, want both {10 -20}", cam.Center, cam.Target)
	}
	if cam.Gliding() {
		t.Error("Snap should cancel the glide")
	}
}

func TestCameraSmoothing(t *testing.T) {
	cam := newTestCamera(Vec2{800, 600})
	cam.Target = Vec2{100, -50}

	cam.Update(0.1, Vec2{})
	if !approxEqual(cam.Center.X, 20, epsilon) || !approxEqual(cam.Center.Y, -10, epsilon) {
		t.Errorf("after 1 update: Center = %v, want {20 -10}", cam.Center)
	}
	cam.Update(0.1, Vec2{})
	if !approxEqual(cam.Center.X, 36, epsilon) || !approxEqual(cam.Center.Y, -18, epsilon) {
		t.Errorf("after 2 updates: Center = %v, want {36 -18}", cam.Center)
	}
	if cam.Position != cam.Center {
		t.Errorf("Position = %v, want Center %v with no shake or cursor", cam.Position, cam.Center)
	}
}

func TestCameraPanningOpposesCursor(t *testing.T) {
	cam := newTestCamera(Vec2{1000, 800})
	cam.Update(0.016, Vec2{250, -100})

	// 5 * 250 / -500 and 5 * -100 / -400
	if !approxEqual(cam.Position.X, -2.5, epsilon) || !approxEqual(cam.Position.Y, 1.25, epsilon) {
		t.Errorf("Position = %v, want {-2.5 1.25}", cam.Position)
	}
}

func TestCameraGlideTo(t *testing.T) {
	cam := newTestCamera(Vec2{800, 600})
	cam.Speed = 0
	cam.GlideTo(Vec2{100, 40}, 1, ease.Linear)
	if !cam.Gliding() {
		t.Fatal("Gliding = false after GlideTo")
	}

	cam.Update(0.5, Vec2{})
	if !approxEqual(cam.Target.X, 50, 1e-3) || !approxEqual(cam.Target.Y, 20, 1e-3) {
		t.Errorf("halfway Target = %v, want {50 20}", cam.Target)
	}
	for i := 0; i < 10 && cam.Gliding(); i++ {
		cam.Update(0.1, Vec2{})
	}
	if cam.Gliding() {
		t.Fatal("glide did not finish")
	}
	if !approxEqual(cam.Target.X, 100, 1e-3) || !approxEqual(cam.Target.Y, 40, 1e-3) {
		t.Errorf("final Target = %v, want {100 40}", cam.Target)
	}
	if cam.Center != (Vec2{}) {
		t.Errorf("Center = %v, want origin with zero speed", cam.Center)
	}
}

func TestCameraDragWindow(t *testing.T) {
	cam := newTestCamera(Vec2{1000, 1000})
	cam.Target = Vec2{10, 20}
	got := cam.DragWindow()
	want := Rect{X: -40, Y: -105, Width: 100, Height: 250}
	if got != want {
		t.Errorf("DragWindow = %v, want %v", got, want)
	}
}
