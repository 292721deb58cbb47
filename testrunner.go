package kite

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is one entry of an automation script as written on disk.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label"`
	Key    string  `yaml:"key"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Frames int     `yaml:"frames"`
}

// scriptOp is a validated step. wait is the number of extra frames to idle
// after run.
type scriptOp struct {
	run  func(e *Engine)
	wait int
}

// TestRunner plays a scripted sequence of input events and screenshots, one
// step per frame. Attach to an Engine via SetTestRunner.
//
// Scripts are YAML or JSON documents with a "steps" list. Actions: keydown,
// keyup and tap take "key"; move and click take "x" and "y"; blur takes
// nothing; wait takes "frames"; screenshot takes "label".
type TestRunner struct {
	ops  []scriptOp
	next int
	idle int
	done bool
}

// LoadTestScript parses and validates a script. Every step is checked up
// front so a typo fails before the first frame runs.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var doc struct {
		Steps []scriptStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	ops := make([]scriptOp, 0, len(doc.Steps))
	for i, st := range doc.Steps {
		op, err := compileStep(st)
		if err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return &TestRunner{ops: ops}, nil
}

func compileStep(st scriptStep) (scriptOp, error) {
	switch st.Action {
	case "keydown", "keyup", "tap":
		if st.Key == "" {
			return scriptOp{}, fmt.Errorf("%s needs a key", st.Action)
		}
	}
	key, label, x, y := st.Key, st.Label, st.X, st.Y
	switch st.Action {
	case "keydown":
		return scriptOp{run: func(e *Engine) { e.InjectKeyDown(key) }}, nil
	case "keyup":
		return scriptOp{run: func(e *Engine) { e.InjectKeyUp(key) }}, nil
	case "tap":
		return scriptOp{run: func(e *Engine) { e.InjectTap(key) }}, nil
	case "move":
		return scriptOp{run: func(e *Engine) { e.InjectMove(x, y) }}, nil
	case "click":
		return scriptOp{run: func(e *Engine) { e.InjectClick(x, y) }}, nil
	case "blur":
		return scriptOp{run: (*Engine).InjectBlur}, nil
	case "screenshot":
		return scriptOp{run: func(e *Engine) { e.Screenshot(label) }}, nil
	case "wait":
		// The frame that reads the step is the first waited frame.
		return scriptOp{run: func(*Engine) {}, wait: max(st.Frames-1, 0)}, nil
	}
	return scriptOp{}, fmt.Errorf("unknown action %q", st.Action)
}

// SetTestRunner attaches a TestRunner to the engine. Its step runs at the
// start of every Update, before input is delivered.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// Done reports whether every step has run and its input has been delivered.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step(e *Engine) {
	switch {
	case r.done:
		return
	case e.Pending() > 0:
		// A multi-frame injection is still draining.
		return
	case r.idle > 0:
		r.idle--
		return
	case r.next == len(r.ops):
		r.done = true
		return
	}

	op := r.ops[r.next]
	r.next++
	op.run(e)
	r.idle = op.wait

	if r.next == len(r.ops) && r.idle == 0 && e.Pending() == 0 {
		r.done = true
	}
}
