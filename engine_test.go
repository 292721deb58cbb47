package kite

import (
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeClock advances by step on every read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

// recordingSubject logs the engine phases it sees.
type recordingSubject struct {
	events  []string
	cursors []Vec2
	dts     []float64
	update  func(c Context, dt float64)
}

func (s *recordingSubject) Update(c Context, dt float64) {
	s.events = append(s.events, "update")
	s.cursors = append(s.cursors, c.CursorPosition())
	s.dts = append(s.dts, dt)
	if s.update != nil {
		s.update(c, dt)
	}
}

func (s *recordingSubject) Draw(sf *Surface) {
	s.events = append(s.events, "draw")
}

func newTestEngine(t *testing.T, subj Subject, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: 16 * time.Millisecond}
	base := []Option{
		WithEventSource(nil),
		WithPixelRatio(func() float64 { return 1 }),
		WithClock(clock.now),
	}
	e := NewEngine(DefaultConfig(), subj, append(base, opts...)...)
	return e, clock
}

// runFrame runs one Update followed by one Draw, as ebiten does per frame.
func runFrame(e *Engine, screen *ebiten.Image) error {
	if err := e.Update(); err != nil {
		return err
	}
	e.Draw(screen)
	return nil
}

func TestEngineUpdateStrictlyPrecedesDraw(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj)
	screen := ebiten.NewImage(960, 640)

	for i := 0; i < 3; i++ {
		if err := runFrame(e, screen); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"update", "draw", "update", "draw", "update", "draw"}
	if len(subj.events) != len(want) {
		t.Fatalf("events = %v, want %v", subj.events, want)
	}
	for i := range want {
		if subj.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", subj.events, want)
		}
	}
	if e.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", e.Frame())
	}
}

func TestEngineDeltaTimes(t *testing.T) {
	subj := &recordingSubject{}
	e, clock := newTestEngine(t, subj)

	_ = e.Update()
	_ = e.Update()
	clock.t = clock.t.Add(2 * time.Second) // window was backgrounded
	_ = e.Update()

	if subj.dts[0] != MaxDelta {
		t.Errorf("first dt = %v, want %v", subj.dts[0], MaxDelta)
	}
	if !approxEqual(subj.dts[1], 0.016, 1e-12) {
		t.Errorf("second dt = %v, want 0.016", subj.dts[1])
	}
	if subj.dts[2] != 0.05 {
		t.Errorf("dt after stall = %v, want exactly 0.05", subj.dts[2])
	}
}

func TestEngineCameraUpdatesBeforeSubject(t *testing.T) {
	var seen Vec2
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj)
	subj.update = func(c Context, dt float64) { seen = e.Camera().Center }
	e.Camera().Target = Vec2{100, 0}

	_ = e.Update()
	if seen.X == 0 {
		t.Error("subject saw the camera before this frame's smoothing step")
	}
}

// The subject reads the cursor before Draw recomputes it, so every value it
// sees lags the pointer by one frame.
func TestEngineCursorLagsOneFrame(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj)
	screen := ebiten.NewImage(960, 640)

	e.InjectMove(480+100, 320+50)
	_ = runFrame(e, screen)
	if subj.cursors[0] != (Vec2{}) {
		t.Errorf("first update cursor = %v, want the zero value", subj.cursors[0])
	}
	if got := e.CursorPosition(); !approxEqual(got.X, 100, 1e-9) || !approxEqual(got.Y, 50, 1e-9) {
		t.Errorf("cursor after Draw = %v, want {100 50}", got)
	}

	_ = e.Update()
	if got := subj.cursors[1]; !approxEqual(got.X, 100, 1e-9) || !approxEqual(got.Y, 50, 1e-9) {
		t.Errorf("second update cursor = %v, want {100 50}", got)
	}
}

func TestEngineHighDensityCursor(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj, WithPixelRatio(func() float64 { return 2 }))

	w, h := e.Layout(960, 640)
	if w != 1920 || h != 1280 {
		t.Fatalf("Layout = %dx%d, want 1920x1280", w, h)
	}
	if e.Viewport().PixelRatio != 2 {
		t.Fatalf("PixelRatio = %v, want 2", e.Viewport().PixelRatio)
	}

	e.InjectMove(480+10, 320)
	_ = runFrame(e, ebiten.NewImage(w, h))
	if got := e.CursorPosition(); !approxEqual(got.X, 10, 1e-9) || !approxEqual(got.Y, 0, 1e-9) {
		t.Errorf("cursor = %v, want {10 0}", got)
	}
}

func TestEngineViewportOffsetCursor(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj)
	e.Resize(Viewport{Bounds: Rect{X: 40, Y: 30, Width: 200, Height: 100}, PixelRatio: 1})

	e.InjectMove(40+100, 30+50) // viewport center
	_ = runFrame(e, ebiten.NewImage(200, 100))
	if got := e.CursorPosition(); !approxEqual(got.X, 0, 1e-9) || !approxEqual(got.Y, 0, 1e-9) {
		t.Errorf("cursor = %v, want the camera position {0 0}", got)
	}
}

func TestEngineTransformRoundTrip(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj)
	e.Snap(Vec2{300, -200})
	_ = runFrame(e, ebiten.NewImage(960, 640))

	pos := e.Camera().Position
	assertNear(t, "camera on screen", e.ToScreen(pos), Vec2{480, 320})
	for _, p := range []Vec2{{0, 0}, {300, -200}, {-1e3, 5e2}} {
		assertNear(t, "ToWorld(ToScreen(p))", e.ToWorld(e.ToScreen(p)), p)
	}
}

func TestEngineContextDelegates(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj)

	var c Context = e
	c.Shake(5)
	if e.Camera().ShakeMagnitude() != 5 {
		t.Errorf("Shake not forwarded: %v", e.Camera().ShakeMagnitude())
	}
	c.Snap(Vec2{7, 8})
	if e.Camera().Target != (Vec2{7, 8}) {
		t.Errorf("Snap not forwarded: %v", e.Camera().Target)
	}
	c.Focus(Vec2{1000, 8})
	if e.Camera().Target.X == 7 {
		t.Error("Focus outside the drag window did not move the target")
	}

	pressed := 0
	h := c.OnKeyPress("KeyJ", func(string) { pressed++ })
	e.InjectKeyDown("KeyJ")
	_ = e.Update()
	if pressed != 1 || !c.CheckKeys("KeyJ, KeyK") {
		t.Errorf("pressed = %d, down = %v", pressed, c.CheckKeys("KeyJ"))
	}
	h.Remove()
}

func TestEngineClickScopedToViewport(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj)
	e.Resize(Viewport{Bounds: Rect{X: 100, Y: 100, Width: 200, Height: 200}, PixelRatio: 1})
	clicks := 0
	e.Input().OnClick(func() { clicks++ })

	e.InjectClick(50, 50)
	e.InjectClick(150, 150)
	for e.Pending() > 0 {
		_ = e.Update()
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestEngineMetrics(t *testing.T) {
	m := NewMetrics(nil)
	subj := &recordingSubject{}
	e, clock := newTestEngine(t, subj, WithMetrics(m))

	_ = e.Update() // first tick clamps
	_ = e.Update()
	clock.t = clock.t.Add(time.Second)
	_ = e.Update()

	if got := testutil.ToFloat64(m.Frames); got != 3 {
		t.Errorf("Frames = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.ClampedFrames); got != 2 {
		t.Errorf("ClampedFrames = %v, want 2", got)
	}
}

func TestEngineTextFocusOption(t *testing.T) {
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj, WithTextFocus(TextFocusFunc(func() bool { return true })))
	e.InjectKeyDown("KeyW")
	_ = e.Update()
	if e.CheckKeys("KeyW") {
		t.Error("key registered while a text field had focus")
	}
}

// stubSource records how often it was pumped.
type stubSource struct{ pumps int }

func (s *stubSource) Pump(sink EventSink) { s.pumps++ }

func TestEngineInjectedInputSkipsHost(t *testing.T) {
	src := &stubSource{}
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj, WithEventSource(src))

	e.InjectKeyDown("KeyA")
	_ = e.Update()
	_ = e.Update()
	if src.pumps != 1 {
		t.Errorf("host pumped %d times, want 1 (skipped on the injected frame)", src.pumps)
	}
}

func TestEngineExitAfterScript(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps":[{"action":"wait","frames":1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	subj := &recordingSubject{}
	e, _ := newTestEngine(t, subj, WithExitAfterScript())
	e.SetTestRunner(runner)

	var last error
	for i := 0; i < 10 && last == nil; i++ {
		last = e.Update()
	}
	if !errors.Is(last, ebiten.Termination) {
		t.Fatalf("Update error = %v, want ebiten.Termination", last)
	}
}
