package main

import "github.com/phanxgames/kite"

// picker is a keyboard-driven sprite selector exposed as a ValueSource.
type picker struct {
	options []string
	index   int
	subs    []func(string)
}

var _ kite.ValueSource[string] = (*picker)(nil)

func newPicker(options []string) *picker {
	return &picker{options: options}
}

func (p *picker) Value() string {
	if len(p.options) == 0 {
		return ""
	}
	return p.options[p.index]
}

func (p *picker) OnChange(fn func(string)) {
	p.subs = append(p.subs, fn)
}

// Next selects the following option, wrapping around.
func (p *picker) Next() {
	if len(p.options) < 2 {
		return
	}
	p.index = (p.index + 1) % len(p.options)
	v := p.Value()
	for _, fn := range p.subs {
		fn(v)
	}
}
