package rill

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// InputFrame is the raw input observed during one Update tick.
type InputFrame struct {
	CursorX, CursorY float64
	// KeysDown and KeysUp hold the keys pressed and released this tick.
	KeysDown []ebiten.Key
	KeysUp   []ebiten.Key
	// Chars holds the characters typed this tick.
	Chars     []rune
	Modifiers KeyModifiers
}

// InputReader produces one InputFrame per tick. The default reader polls
// ebiten; tests substitute their own.
type InputReader interface {
	ReadInput() InputFrame
}

// InputReaderFunc adapts a function to InputReader.
type InputReaderFunc func() InputFrame

// ReadInput calls f.
func (f InputReaderFunc) ReadInput() InputFrame { return f() }

// PointerEvent describes pointer movement over an element.
type PointerEvent struct {
	// ClientX and ClientY are screen coordinates.
	ClientX, ClientY float64
	// OffsetX and OffsetY are relative to the element's top-left corner.
	OffsetX, OffsetY float64
	// MovementX and MovementY are the distance moved since the last event.
	MovementX, MovementY float64
	Modifiers            KeyModifiers
}

// KeyEvent describes a key transition or a typed character.
type KeyEvent struct {
	Key ebiten.Key
	// Name is the key name ("ArrowUp", "W", "Space"), or the typed
	// character for key-press events.
	Name string
	// Char is the typed character; zero for key-down and key-up events.
	Char      rune
	Modifiers KeyModifiers
}

type inputKind uint8

const (
	inputPointerMove inputKind = iota
	inputKeyDown
	inputKeyUp
	inputKeyPress
)

// inputEvent is one discrete event derived from an InputFrame.
type inputEvent struct {
	kind    inputKind
	pointer PointerEvent
	key     KeyEvent
}

// ebitenInput polls ebiten's input state. Buffers are reused across ticks.
type ebitenInput struct {
	down  []ebiten.Key
	up    []ebiten.Key
	chars []rune
}

func (r *ebitenInput) ReadInput() InputFrame {
	mx, my := ebiten.CursorPosition()
	r.down = inpututil.AppendJustPressedKeys(r.down[:0])
	r.up = inpututil.AppendJustReleasedKeys(r.up[:0])
	r.chars = ebiten.AppendInputChars(r.chars[:0])
	return InputFrame{
		CursorX:   float64(mx),
		CursorY:   float64(my),
		KeysDown:  r.down,
		KeysUp:    r.up,
		Chars:     r.chars,
		Modifiers: readModifiers(),
	}
}

// readModifiers returns the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// dispatchInput turns an InputFrame into discrete events: pointer movement
// first, then key downs, key ups and typed characters in that order.
func (l *Loop) dispatchInput(in InputFrame) {
	if in.CursorX != l.cursor.X || in.CursorY != l.cursor.Y {
		ev := inputEvent{kind: inputPointerMove, pointer: PointerEvent{
			ClientX:   in.CursorX,
			ClientY:   in.CursorY,
			MovementX: in.CursorX - l.cursor.X,
			MovementY: in.CursorY - l.cursor.Y,
			Modifiers: in.Modifiers,
		}}
		l.cursor = Vec2{X: in.CursorX, Y: in.CursorY}
		l.inputs.emit(ev)
	}
	for _, k := range in.KeysDown {
		l.inputs.emit(inputEvent{kind: inputKeyDown, key: KeyEvent{Key: k, Name: k.String(), Modifiers: in.Modifiers}})
	}
	for _, k := range in.KeysUp {
		l.inputs.emit(inputEvent{kind: inputKeyUp, key: KeyEvent{Key: k, Name: k.String(), Modifiers: in.Modifiers}})
	}
	for _, r := range in.Chars {
		l.inputs.emit(inputEvent{kind: inputKeyPress, key: KeyEvent{Name: string(r), Char: r, Modifiers: in.Modifiers}})
	}
}
