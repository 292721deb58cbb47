// Package kite drives an interactive 2D scene on [Ebitengine]: a camera that
// follows a tracked subject, a transform layer between screen and world
// space, an edge-triggered key dispatcher, a clamped animation loop, a
// procedural background and an on-demand SVG texture pipeline.
//
// # Quick start
//
// Implement [Subject] and hand it to an [Engine]:
//
//	type ship struct{ pos kite.Vec2 }
//
//	func (s *ship) Update(c kite.Context, dt float64) {
//		if c.CheckKeys("KeyD, ArrowRight") {
//			s.pos.X += 200 * dt
//		}
//		c.Focus(s.pos)
//	}
//
//	func (s *ship) Draw(sf *kite.Surface) { ... }
//
//	engine := kite.NewEngine(kite.DefaultConfig(), &ship{})
//	if err := engine.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Frame order
//
// Each displayed frame runs exactly one [Engine.Update] followed by one
// [Engine.Draw]. Update advances the [Loop] clock, delivers input, updates
// the [Camera] and then the subject. Draw fills the motion trail, applies
// the camera translation, recomputes the world cursor, strokes the tilted
// grid, renders the subject and composites the [Vignette].
//
// The subject reads [Context.CursorPosition] during Update, before Draw has
// recomputed it, so the value it sees is one frame old.
//
// # Input
//
// Key codes are DOM-style names such as "KeyW", "ArrowUp" and "Space" (see
// [KeyCode]). [Input.OnKeyPress] and [Input.OnKeyRelease] take comma
// separated lists. Auto-repeat is ignored, and losing focus releases every
// held key so nothing stays stuck.
//
// # Textures
//
// [TextureCache] maps paths to [Texture] values. A texture holds an editable
// SVG document and rasterizes it on demand; overlapping [Texture.Rasterize]
// calls collapse into at most one follow-up pass.
//
//	tex := cache.Get("ship.svg")
//	if err := tex.Load(ctx); err != nil { ... }
//	tex.SetFill("hull", "#ff8800")
//	<-tex.RasterizeAsync(ctx)
//
// # Automation
//
// [Engine.Screenshot], the Inject methods and [TestRunner] drive the engine
// without a human, for visual regression runs.
//
// [Ebitengine]: https://ebitengine.org
package kite
