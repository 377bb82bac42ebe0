package rill

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoSteps is returned by LoadTestScript for a script without steps.
var ErrNoSteps = errors.New("no steps")

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Key    string  `json:"key,omitempty"`
	Text   string  `json:"text,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	key ebiten.Key
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input events and screenshots across frames
// for automated testing. Attach to a Loop via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Loop via SetTestRunner.
//
// Actions: "keydown", "keyup", "tap" (key), "move" (x, y), "path" (fromX,
// fromY, toX, toY, frames), "type" (text), "wait" (frames), "screenshot"
// (label) and "quit".
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: %w", ErrNoSteps)
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "keydown", "keyup", "tap":
			if err := st.key.UnmarshalText([]byte(st.Key)); err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
		case "move", "path", "type", "wait", "screenshot", "quit":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the loop. The runner's step method
// is called from Loop.Update before input is read each frame.
func (l *Loop) SetTestRunner(runner *TestRunner) {
	l.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Loop.Update.
func (r *TestRunner) step(l *Loop) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(l.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		l.Screenshot(st.Label)
	case "keydown":
		l.InjectKeyDown(st.key)
	case "keyup":
		l.InjectKeyUp(st.key)
	case "tap":
		l.InjectKeyTap(st.key)
	case "move":
		l.InjectPointerMove(st.X, st.Y)
	case "path":
		l.InjectPointerPath(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "type":
		l.InjectText(st.Text)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		l.Quit()
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(l.injectQueue) == 0 {
		r.done = true
	}
}
