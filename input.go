package kite

import (
	"strings"
)

// KeyCallback receives the code of the key that triggered it.
type KeyCallback func(code string)

// TextFocus reports whether keyboard focus currently sits on a text-entry
// surface (text field, text area, freely editable region). While it does,
// key-down edges are not consumed so typing is never hijacked.
type TextFocus interface {
	TextEntryFocused() bool
}

// TextFocusFunc adapts a plain function to TextFocus.
type TextFocusFunc func() bool

// TextEntryFocused implements TextFocus.
func (f TextFocusFunc) TextEntryFocused() bool { return f() }

// EventSink receives host input notifications. *Input implements it.
type EventSink interface {
	KeyDown(code string, repeat bool)
	KeyUp(code string)
	Blur()
	SetVisible(visible bool)
	PointerMove(x, y float64)
	Click(x, y float64)
}

// EventSource delivers pending host events to a sink. Pump is called once
// per frame at the start of Update.
type EventSource interface {
	Pump(sink EventSink)
}

// --- Handler registry ---

type keyHandler struct {
	id uint32
	fn KeyCallback
}

// keyRegistry maps a key code to its callbacks in registration order.
type keyRegistry struct {
	byCode map[string][]keyHandler
}

func (r *keyRegistry) add(code string, h keyHandler) {
	if r.byCode == nil {
		r.byCode = make(map[string][]keyHandler)
	}
	r.byCode[code] = append(r.byCode[code], h)
}

func (r *keyRegistry) remove(code string, id uint32) {
	s := r.byCode[code]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = keyHandler{}
			s = s[:len(s)-1]
			break
		}
	}
	if len(s) == 0 {
		delete(r.byCode, code)
		return
	}
	r.byCode[code] = s
}

// fire invokes every callback for code. The slice is copied first so a
// callback may register or remove handlers without disturbing this pass.
func (r *keyRegistry) fire(code string) {
	s := r.byCode[code]
	if len(s) == 0 {
		return
	}
	handlers := make([]keyHandler, len(s))
	copy(handlers, s)
	for _, h := range handlers {
		h.fn(code)
	}
}

func (r *keyRegistry) count(code string) int {
	return len(r.byCode[code])
}

// KeyHandle allows removing a registered key callback.
type KeyHandle struct {
	id    uint32
	reg   *keyRegistry
	codes []string
}

// Remove unregisters the callback from every code it was registered for.
func (h KeyHandle) Remove() {
	if h.reg == nil {
		return
	}
	for _, code := range h.codes {
		h.reg.remove(code, h.id)
	}
}

type clickHandler struct {
	id uint32
	fn func()
}

// ClickHandle allows removing a registered click callback.
type ClickHandle struct {
	id uint32
	in *Input
}

// Remove unregisters the click callback.
func (h ClickHandle) Remove() {
	if h.in == nil {
		return
	}
	s := h.in.clicks
	for i := range s {
		if s[i].id == h.id {
			h.in.clicks = append(s[:i], s[i+1:]...)
			return
		}
	}
}

// Input tracks key edges, pointer position and viewport-scoped clicks for
// one viewport. It is not safe for concurrent use; all events arrive on the
// game goroutine.
type Input struct {
	down      map[string]struct{}
	downOrder []string

	press   keyRegistry
	release keyRegistry
	nextID  uint32

	clicks     []clickHandler
	visibility []func(bool)
	visible    bool

	pointer   Vec2
	bounds    Rect
	textFocus TextFocus
}

// NewInput creates an empty dispatcher.
func NewInput() *Input {
	return &Input{
		down:    make(map[string]struct{}),
		visible: true,
	}
}

// SetTextFocus installs the text-entry focus probe. Nil disables the check.
func (in *Input) SetTextFocus(tf TextFocus) {
	in.textFocus = tf
}

// SetBounds sets the viewport's occupied region in client coordinates. Clicks
// outside it are dropped.
func (in *Input) SetBounds(r Rect) {
	in.bounds = r
}

// parseKeys splits a comma separated key list, trimming blanks and dropping
// empty entries.
func parseKeys(codes string) []string {
	parts := strings.Split(strings.TrimSpace(codes), ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (in *Input) register(reg *keyRegistry, codes string, fn KeyCallback) KeyHandle {
	in.nextID++
	id := in.nextID
	parsed := parseKeys(codes)
	for _, code := range parsed {
		reg.add(code, keyHandler{id: id, fn: fn})
	}
	return KeyHandle{id: id, reg: reg, codes: parsed}
}

// OnKeyPress registers fn for the down edge of every code in codes, e.g.
// "KeyW, ArrowUp".
func (in *Input) OnKeyPress(codes string, fn KeyCallback) KeyHandle {
	return in.register(&in.press, codes, fn)
}

// OnKeyRelease registers fn for the up edge of every code in codes. Release
// callbacks also fire when focus is lost while the key is down.
func (in *Input) OnKeyRelease(codes string, fn KeyCallback) KeyHandle {
	return in.register(&in.release, codes, fn)
}

// CheckKeys reports whether any of the comma separated codes is down.
func (in *Input) CheckKeys(codes string) bool {
	for _, code := range parseKeys(codes) {
		if _, ok := in.down[code]; ok {
			return true
		}
	}
	return false
}

// IsDown reports whether code is currently down.
func (in *Input) IsDown(code string) bool {
	_, ok := in.down[code]
	return ok
}

// DownKeys returns the down codes in the order they were pressed.
func (in *Input) DownKeys() []string {
	out := make([]string, len(in.downOrder))
	copy(out, in.downOrder)
	return out
}

// OnClick registers a callback for clicks inside the viewport.
func (in *Input) OnClick(fn func()) ClickHandle {
	in.nextID++
	in.clicks = append(in.clicks, clickHandler{id: in.nextID, fn: fn})
	return ClickHandle{id: in.nextID, in: in}
}

// OnVisibilityChange registers a callback for visibility transitions.
func (in *Input) OnVisibilityChange(fn func(visible bool)) {
	in.visibility = append(in.visibility, fn)
}

// Pointer returns the raw pointer position in client coordinates.
func (in *Input) Pointer() Vec2 {
	return in.pointer
}

// --- EventSink ---

// KeyDown handles a down edge. Auto-repeat, already-down keys and keys typed
// into a focused text-entry surface are ignored.
func (in *Input) KeyDown(code string, repeat bool) {
	if repeat || code == "" {
		return
	}
	if _, ok := in.down[code]; ok {
		return
	}
	if in.textFocus != nil && in.textFocus.TextEntryFocused() {
		return
	}
	in.down[code] = struct{}{}
	in.downOrder = append(in.downOrder, code)
	in.press.fire(code)
}

// KeyUp handles an up edge. Codes not tracked as down are ignored.
func (in *Input) KeyUp(code string) {
	if _, ok := in.down[code]; !ok {
		return
	}
	in.forget(code)
	in.release.fire(code)
}

func (in *Input) forget(code string) {
	delete(in.down, code)
	for i, c := range in.downOrder {
		if c == code {
			in.downOrder = append(in.downOrder[:i], in.downOrder[i+1:]...)
			break
		}
	}
}

// Blur releases every down key as if it had been let go, then clears the
// down set.
func (in *Input) Blur() {
	keys := make([]string, len(in.downOrder))
	copy(keys, in.downOrder)
	for _, code := range keys {
		in.release.fire(code)
	}
	clear(in.down)
	in.downOrder = in.downOrder[:0]
}

// SetVisible notifies visibility subscribers of a change. Becoming hidden
// flushes down keys like Blur.
func (in *Input) SetVisible(visible bool) {
	if visible == in.visible {
		return
	}
	in.visible = visible
	for _, fn := range in.visibility {
		fn(visible)
	}
	if !visible {
		in.Blur()
	}
}

// PointerMove records the raw pointer position in client coordinates.
func (in *Input) PointerMove(x, y float64) {
	in.pointer = Vec2{x, y}
}

// Click forwards a click to every click callback if (x, y) lies inside the
// viewport bounds.
func (in *Input) Click(x, y float64) {
	if !in.bounds.Contains(x, y) {
		return
	}
	handlers := make([]clickHandler, len(in.clicks))
	copy(handlers, in.clicks)
	for _, h := range handlers {
		h.fn()
	}
}
