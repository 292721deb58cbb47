package kite

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Context is what the tracked subject sees of the engine during Update.
// *Engine implements it.
type Context interface {
	// CheckKeys reports whether any of the comma separated key codes is down.
	CheckKeys(codes string) bool
	OnKeyPress(codes string, fn KeyCallback) KeyHandle
	OnKeyRelease(codes string, fn KeyCallback) KeyHandle

	// CursorPosition is the world-space cursor as of the last rendered frame.
	CursorPosition() Vec2
	ToScreen(p Vec2) Vec2
	ToWorld(p Vec2) Vec2

	Shake(amount float64)
	Snap(p Vec2)
	Focus(p Vec2)
}

// Subject is the tracked entity the camera follows. Its behavior is owned by
// the caller; the engine only sequences it. Update runs after the camera, and
// Draw runs inside the camera transform after the grid.
type Subject interface {
	Update(c Context, dt float64)
	Draw(s *Surface)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used to compute delta times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.clock = now }
}

// WithEventSource replaces the host input source. Nil disables host input;
// injected events still arrive.
func WithEventSource(src EventSource) Option {
	return func(e *Engine) { e.source = src }
}

// WithMetrics records frame metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTextFocus installs the text-entry focus probe used to suppress key
// handling while the user is typing.
func WithTextFocus(tf TextFocus) Option {
	return func(e *Engine) { e.input.SetTextFocus(tf) }
}

// WithExitAfterScript makes Update return ebiten.Termination once an
// attached TestRunner has finished and its screenshots are written.
func WithExitAfterScript() Option {
	return func(e *Engine) { e.exitAfterScript = true }
}

// WithPixelRatio replaces the device pixel ratio probe consulted by Layout.
func WithPixelRatio(ratio func() float64) Option {
	return func(e *Engine) { e.pixelRatio = ratio }
}

// Engine drives one viewport: it owns the input dispatcher, camera, loop
// clock and background, and sequences the subject's update and render once
// per displayed frame. It implements ebiten.Game.
type Engine struct {
	cfg     Config
	subject Subject

	input      *Input
	camera     *Camera
	loop       *Loop
	surface    *Surface
	background *Background
	vignette   *Vignette
	metrics    *Metrics

	clock      func() time.Time
	source     EventSource
	pixelRatio func() float64

	viewport Viewport
	// view is the camera transform of the last rendered frame.
	view   ebiten.GeoM
	cursor Vec2

	frame  uint64
	lastDt float64

	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string
	exitAfterScript bool
	debug           bool
	overlay         debugOverlay
}

// NewEngine creates an engine for subject using cfg. The viewport starts at
// cfg.Width x cfg.Height with a pixel ratio of 1 until the first Layout.
func NewEngine(cfg Config, subject Subject, opts ...Option) *Engine {
	size := Vec2{float64(cfg.Width), float64(cfg.Height)}
	e := &Engine{
		cfg:        cfg,
		subject:    subject,
		input:      NewInput(),
		camera:     NewCamera(cfg.Camera, size),
		loop:       NewLoop(cfg.Loop.MaxDelta),
		surface:    NewSurface(1),
		background: NewBackground(cfg.Background),
		vignette:   NewVignette(cfg.Vignette),
		clock:      time.Now,
		pixelRatio: deviceScaleFactor,
	}
	e.source = NewEbitenSource(func() float64 { return e.viewport.ratio() })
	for _, opt := range opts {
		opt(e)
	}
	e.Resize(Viewport{Bounds: Rect{Width: size.X, Height: size.Y}, PixelRatio: 1})
	return e
}

func deviceScaleFactor() float64 {
	return ebiten.Monitor().DeviceScaleFactor()
}

// Input returns the engine's dispatcher.
func (e *Engine) Input() *Input { return e.input }

// Camera returns the engine's camera.
func (e *Engine) Camera() *Camera { return e.camera }

// Viewport returns the current viewport.
func (e *Engine) Viewport() Viewport { return e.viewport }

// Frame returns the number of updates run so far.
func (e *Engine) Frame() uint64 { return e.frame }

// Resize places the viewport. Clicks are scoped to v.Bounds and the camera
// is resized to its logical size.
func (e *Engine) Resize(v Viewport) {
	e.viewport = v
	e.input.SetBounds(v.Bounds)
	e.camera.Resize(v.Size())
	e.surface.SetPixelRatio(v.ratio())
}

// Update implements ebiten.Game. It advances the clock, delivers one frame
// of input, then updates the camera followed by the subject.
func (e *Engine) Update() error {
	if e.exitAfterScript && e.testRunner != nil && e.testRunner.Done() && len(e.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	dt := e.loop.Advance(e.clock())
	e.lastDt = dt
	e.frame++
	e.metrics.frame(dt, e.loop.Clamped())

	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	if !e.processInjected() && e.source != nil {
		e.source.Pump(e.input)
	}

	e.camera.Update(dt, e.cursor)
	if e.subject != nil {
		e.subject.Update(e, dt)
	}
	return nil
}

// Draw implements ebiten.Game. The screen is never cleared by ebiten; the
// trail fill fades the previous frame instead.
func (e *Engine) Draw(screen *ebiten.Image) {
	s := e.surface
	s.Begin(screen)
	e.background.DrawTrail(s)

	size := e.viewport.Size()
	pos := e.camera.Position
	s.Save()
	s.Translate(size.X/2-pos.X, size.Y/2-pos.Y)
	e.view = s.Transform()
	e.cursor = s.ToWorld(e.deviceCursor())

	e.background.DrawGrid(s, pos, size)
	if e.subject != nil {
		e.subject.Draw(s)
	}
	s.Restore()

	e.vignette.Draw(s)
	if e.debug {
		e.drawDebug(screen)
	}
	e.flushScreenshots(screen)
}

// deviceCursor converts the raw client pointer to device pixels relative to
// the viewport origin.
func (e *Engine) deviceCursor() Vec2 {
	return e.input.Pointer().Sub(e.viewport.Bounds.Position()).Scale(e.viewport.ratio())
}

// Layout implements ebiten.Game. The backing surface is sized in device
// pixels so strokes stay crisp on high density displays.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := 1.0
	if e.pixelRatio != nil {
		if r := e.pixelRatio(); r > 0 {
			ratio = r
		}
	}
	v := Viewport{
		Bounds:     Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)},
		PixelRatio: ratio,
	}
	if v != e.viewport {
		e.Resize(v)
	}
	return v.DeviceSize()
}

// Run opens a window and blocks until it is closed. One Update runs per
// displayed frame.
func (e *Engine) Run() error {
	ebiten.SetWindowTitle(e.cfg.Title)
	ebiten.SetWindowSize(e.cfg.Width, e.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetScreenClearedEveryFrame(false)
	return ebiten.RunGame(e)
}

// --- Context ---

// CheckKeys implements Context.
func (e *Engine) CheckKeys(codes string) bool { return e.input.CheckKeys(codes) }

// OnKeyPress implements Context.
func (e *Engine) OnKeyPress(codes string, fn KeyCallback) KeyHandle {
	return e.input.OnKeyPress(codes, fn)
}

// OnKeyRelease implements Context.
func (e *Engine) OnKeyRelease(codes string, fn KeyCallback) KeyHandle {
	return e.input.OnKeyRelease(codes, fn)
}

// CursorPosition returns the world-space cursor computed by the last Draw.
// During Update this lags the pointer by one frame.
func (e *Engine) CursorPosition() Vec2 { return e.cursor }

// ToScreen maps a world point to device pixels through the camera transform
// of the last rendered frame.
func (e *Engine) ToScreen(p Vec2) Vec2 {
	x, y := e.view.Apply(p.X, p.Y)
	return Vec2{x, y}
}

// ToWorld maps device pixels back to world space through the camera
// transform of the last rendered frame. The inverse is taken per call.
func (e *Engine) ToWorld(p Vec2) Vec2 {
	inv := e.view
	if !inv.IsInvertible() {
		return p
	}
	inv.Invert()
	x, y := inv.Apply(p.X, p.Y)
	return Vec2{x, y}
}

// Shake implements Context.
func (e *Engine) Shake(amount float64) { e.camera.Shake(amount) }

// Snap implements Context.
func (e *Engine) Snap(p Vec2) { e.camera.Snap(p) }

// Focus implements Context.
func (e *Engine) Focus(p Vec2) { e.camera.Focus(p) }
