package kite

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyCode returns the DOM-style code for an ebiten key: letters become
// "KeyA".."KeyZ", every other key uses its ebiten name ("ArrowUp", "Space",
// "Digit1", "ShiftLeft").
func KeyCode(k ebiten.Key) string {
	name := k.String()
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return "Key" + name
	}
	return name
}

// ebitenSource polls Ebitengine once per frame and turns its state into
// edge notifications.
type ebitenSource struct {
	pixelRatio func() float64
	keys       []ebiten.Key
	focused    bool
	started    bool
}

// NewEbitenSource returns the EventSource backed by the running Ebitengine
// window. pixelRatio converts the layout's device pixels back into client
// coordinates; nil means 1.
func NewEbitenSource(pixelRatio func() float64) EventSource {
	return &ebitenSource{pixelRatio: pixelRatio}
}

func (s *ebitenSource) ratio() float64 {
	if s.pixelRatio == nil {
		return 1
	}
	if r := s.pixelRatio(); r > 0 {
		return r
	}
	return 1
}

// Pump implements EventSource.
func (s *ebitenSource) Pump(sink EventSink) {
	focused := ebiten.IsFocused()
	if !s.started {
		s.started = true
		s.focused = focused
	}
	if s.focused && !focused {
		sink.Blur()
	}
	s.focused = focused

	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		sink.KeyDown(KeyCode(k), false)
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		sink.KeyUp(KeyCode(k))
	}

	mx, my := ebiten.CursorPosition()
	r := s.ratio()
	x, y := float64(mx)/r, float64(my)/r
	sink.PointerMove(x, y)

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		sink.Click(x, y)
	}
}
