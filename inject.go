package kite

type syntheticKind uint8

const (
	syntheticKeyDown syntheticKind = iota
	syntheticKeyUp
	syntheticBlur
	syntheticMove
	syntheticClick
)

// syntheticEvent is a single injected input event. Pointer coordinates are
// client coordinates, the same space the host event source reports.
type syntheticEvent struct {
	kind syntheticKind
	code string
	x, y float64
}

func (e *Engine) inject(ev syntheticEvent) {
	e.injectQueue = append(e.injectQueue, ev)
}

// InjectKeyDown queues a key down edge. The event is consumed on the next
// Update, in place of host input for that frame.
func (e *Engine) InjectKeyDown(code string) {
	e.inject(syntheticEvent{kind: syntheticKeyDown, code: code})
}

// InjectKeyUp queues a key up edge.
func (e *Engine) InjectKeyUp(code string) {
	e.inject(syntheticEvent{kind: syntheticKeyUp, code: code})
}

// InjectTap queues a key down followed by its key up. Consumes two frames.
func (e *Engine) InjectTap(code string) {
	e.InjectKeyDown(code)
	e.InjectKeyUp(code)
}

// InjectBlur queues a focus loss.
func (e *Engine) InjectBlur() {
	e.inject(syntheticEvent{kind: syntheticBlur})
}

// InjectMove queues a pointer move to (x, y) in client coordinates.
func (e *Engine) InjectMove(x, y float64) {
	e.inject(syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectClick queues a pointer move to (x, y) followed by a click there.
// Consumes two frames.
func (e *Engine) InjectClick(x, y float64) {
	e.InjectMove(x, y)
	e.inject(syntheticEvent{kind: syntheticClick, x: x, y: y})
}

// Pending returns the number of injected events not yet consumed.
func (e *Engine) Pending() int {
	return len(e.injectQueue)
}

// processInjected pops one event from the inject queue and feeds it to the
// dispatcher. Returns true if an event was consumed, in which case host
// input is skipped for the frame.
func (e *Engine) processInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch ev.kind {
	case syntheticKeyDown:
		e.input.KeyDown(ev.code, false)
	case syntheticKeyUp:
		e.input.KeyUp(ev.code)
	case syntheticBlur:
		e.input.Blur()
	case syntheticMove:
		e.input.PointerMove(ev.x, ev.y)
	case syntheticClick:
		e.input.PointerMove(ev.x, ev.y)
		e.input.Click(ev.x, ev.y)
	}
	return true
}
