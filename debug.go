package kite

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often, in seconds, the overlay resamples the frame rate.
const fpsRefresh = 0.5

// debugOverlay holds the sampled frame rate shown by the overlay.
type debugOverlay struct {
	fps     float64
	elapsed float64
	sampled bool
}

// tick accumulates dt and resamples fps once fpsRefresh has passed.
func (o *debugOverlay) tick(dt float64, fps func() float64) {
	o.elapsed += dt
	if o.sampled && o.elapsed < fpsRefresh {
		return
	}
	o.elapsed = 0
	o.sampled = true
	o.fps = fps()
}

// SetDebugMode toggles the on-screen diagnostics overlay and per-frame debug
// logging.
func (e *Engine) SetDebugMode(on bool) {
	e.debug = on
}

// DebugMode reports whether the overlay is enabled.
func (e *Engine) DebugMode() bool {
	return e.debug
}

// debugText formats the overlay contents.
func (e *Engine) debugText(fps float64) string {
	c := e.camera
	return fmt.Sprintf("fps %.1f  dt %.4f  frame %d\ncamera %.1f, %.1f  target %.1f, %.1f\ncursor %.1f, %.1f  shake %.2f\nkeys %v",
		fps, e.lastDt, e.frame,
		c.Position.X, c.Position.Y, c.Target.X, c.Target.Y,
		e.cursor.X, e.cursor.Y, c.ShakeMagnitude(),
		e.input.DownKeys())
}

func (e *Engine) drawDebug(screen *ebiten.Image) {
	e.overlay.tick(e.lastDt, ebiten.ActualFPS)
	text := e.debugText(e.overlay.fps)
	ebitenutil.DebugPrint(screen, text)
	Logger().Debug("frame",
		"frame", e.frame,
		"dt", e.lastDt,
		"camera_x", e.camera.Position.X,
		"camera_y", e.camera.Position.Y,
		"shake", e.camera.ShakeMagnitude(),
	)
}
