package rill

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "tap", "key": "ArrowDown"},
			{"action": "move", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "screenshot", "label": "after-move"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].key != ebiten.KeyArrowDown {
		t.Errorf("step 1 key = %v, want ArrowDown", runner.steps[1].key)
	}
	if runner.steps[2].X != 100 || runner.steps[2].Y != 200 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].Frames != 3 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"unknown action", `{"steps": [{"action": "click"}]}`},
		{"unknown key", `{"steps": [{"action": "tap", "key": "NoSuchKey"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadTestScript_Empty(t *testing.T) {
	_, err := LoadTestScript([]byte(`{"steps": []}`))
	if !errors.Is(err, ErrNoSteps) {
		t.Errorf("err = %v, want ErrNoSteps", err)
	}
}

func TestRunnerStep_Tap(t *testing.T) {
	l := newTestLoop()
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "tap", "key": "Space"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	l.SetTestRunner(runner)
	events := collectInput(l)

	l.Update() // queues the tap, consumes key down
	l.Update() // consumes key up
	if len(*events) != 2 {
		t.Fatalf("events = %d, want 2", len(*events))
	}
	if (*events)[0].kind != inputKeyDown || (*events)[1].kind != inputKeyUp {
		t.Errorf("kinds = %v, %v, want down then up", (*events)[0].kind, (*events)[1].kind)
	}
	l.Update()
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	l := newTestLoop()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	l.SetTestRunner(runner)

	for i := range 3 {
		l.Update()
		if len(l.screenshotQueue) != 0 {
			t.Fatalf("screenshot queued during wait frame %d", i+1)
		}
	}
	l.Update()
	if len(l.screenshotQueue) != 1 || l.screenshotQueue[0] != "after" {
		t.Errorf("queue = %v, want [after]", l.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerStep_PathDrains(t *testing.T) {
	l := newTestLoop()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "path", "fromX": 0, "fromY": 0, "toX": 30, "toY": 0, "frames": 4},
		{"action": "type", "text": "go"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	l.SetTestRunner(runner)
	events := collectInput(l)

	for range 5 {
		l.Update()
	}
	// Four moves (the first is at the current cursor, so it emits nothing),
	// then both characters.
	var moves, presses int
	for _, ev := range *events {
		switch ev.kind {
		case inputPointerMove:
			moves++
		case inputKeyPress:
			presses++
		}
	}
	if moves != 3 || presses != 2 {
		t.Errorf("moves=%d presses=%d, want 3 and 2", moves, presses)
	}
}

func TestRunnerStep_Quit(t *testing.T) {
	l := newTestLoop()
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "quit"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	l.SetTestRunner(runner)
	if err := l.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
}
