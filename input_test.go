package rill

import (
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func collectInput(l *Loop) *[]inputEvent {
	var events []inputEvent
	l.addInputListener(func(ev inputEvent) { events = append(events, ev) })
	return &events
}

func TestDispatchInputOrder(t *testing.T) {
	l := newTestLoop(InputFrame{
		CursorX:   10,
		CursorY:   20,
		KeysDown:  []ebiten.Key{ebiten.KeyA, ebiten.KeyB},
		KeysUp:    []ebiten.Key{ebiten.KeyC},
		Chars:     []rune("hi"),
		Modifiers: ModShift,
	})
	events := collectInput(l)
	l.Update()

	var got []inputKind
	for _, ev := range *events {
		got = append(got, ev.kind)
	}
	want := []inputKind{inputPointerMove, inputKeyDown, inputKeyDown, inputKeyUp, inputKeyPress, inputKeyPress}
	if !slices.Equal(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}

	ev := *events
	if ev[1].key.Key != ebiten.KeyA || ev[1].key.Name != "A" {
		t.Errorf("key down = %+v, want A", ev[1].key)
	}
	if ev[4].key.Char != 'h' || ev[4].key.Name != "h" {
		t.Errorf("key press = %+v, want h", ev[4].key)
	}
	for i, e := range ev[1:] {
		if e.key.Modifiers != ModShift {
			t.Errorf("event %d modifiers = %v, want shift", i+1, e.key.Modifiers)
		}
	}
}

func TestDispatchPointerMovement(t *testing.T) {
	l := newTestLoop(
		InputFrame{CursorX: 10, CursorY: 20},
		InputFrame{CursorX: 10, CursorY: 20},
		InputFrame{CursorX: 15, CursorY: 18},
	)
	events := collectInput(l)
	l.Update()
	l.Update()
	l.Update()

	if len(*events) != 2 {
		t.Fatalf("pointer events = %d, want 2 (unchanged cursor emits nothing)", len(*events))
	}
	second := (*events)[1].pointer
	if second.MovementX != 5 || second.MovementY != -2 {
		t.Errorf("movement = (%v, %v), want (5, -2)", second.MovementX, second.MovementY)
	}
	if second.ClientX != 15 || second.ClientY != 18 {
		t.Errorf("client = (%v, %v), want (15, 18)", second.ClientX, second.ClientY)
	}
}

func TestInputReaderFunc(t *testing.T) {
	calls := 0
	r := InputReaderFunc(func() InputFrame {
		calls++
		return InputFrame{CursorX: 1}
	})
	if f := r.ReadInput(); f.CursorX != 1 || calls != 1 {
		t.Errorf("ReadInput = %+v after %d calls", f, calls)
	}
}
