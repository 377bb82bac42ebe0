package rill

import "github.com/hajimehoshi/ebiten/v2"

// syntheticEvent is a single injected input event. Coordinates are screen
// coordinates, exactly like those read from the real cursor.
type syntheticEvent struct {
	kind inputKind
	x, y float64
	key  ebiten.Key
	text string
}

// InjectPointerMove queues a pointer move to (x, y). The event is consumed
// on the next Update in place of real input.
func (l *Loop) InjectPointerMove(x, y float64) {
	l.injectQueue = append(l.injectQueue, syntheticEvent{kind: inputPointerMove, x: x, y: y})
}

// InjectKeyDown queues a key press.
func (l *Loop) InjectKeyDown(key ebiten.Key) {
	l.injectQueue = append(l.injectQueue, syntheticEvent{kind: inputKeyDown, key: key})
}

// InjectKeyUp queues a key release.
func (l *Loop) InjectKeyUp(key ebiten.Key) {
	l.injectQueue = append(l.injectQueue, syntheticEvent{kind: inputKeyUp, key: key})
}

// InjectKeyTap queues a press followed by a release of key. Consumes two
// frames.
func (l *Loop) InjectKeyTap(key ebiten.Key) {
	l.InjectKeyDown(key)
	l.InjectKeyUp(key)
}

// InjectText queues typed characters, all delivered in one frame.
func (l *Loop) InjectText(text string) {
	if text == "" {
		return
	}
	l.injectQueue = append(l.injectQueue, syntheticEvent{kind: inputKeyPress, text: text})
}

// InjectPointerPath queues pointer moves linearly interpolated from
// (fromX, fromY) to (toX, toY) over the given number of frames (minimum 1).
func (l *Loop) InjectPointerPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	if frames == 1 {
		l.InjectPointerMove(toX, toY)
		return
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		l.InjectPointerMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// PendingInjections returns the number of queued synthetic events.
func (l *Loop) PendingInjections() int {
	return len(l.injectQueue)
}

// nextInjected pops one event from the inject queue and expresses it as an
// InputFrame. The cursor stays where it was unless the event moves it.
// Returns false if the queue is empty (real input should be read).
func (l *Loop) nextInjected() (InputFrame, bool) {
	if len(l.injectQueue) == 0 {
		return InputFrame{}, false
	}
	evt := l.injectQueue[0]
	copy(l.injectQueue, l.injectQueue[1:])
	l.injectQueue = l.injectQueue[:len(l.injectQueue)-1]

	in := InputFrame{CursorX: l.cursor.X, CursorY: l.cursor.Y}
	switch evt.kind {
	case inputPointerMove:
		in.CursorX, in.CursorY = evt.x, evt.y
	case inputKeyDown:
		in.KeysDown = []ebiten.Key{evt.key}
	case inputKeyUp:
		in.KeysUp = []ebiten.Key{evt.key}
	case inputKeyPress:
		in.Chars = []rune(evt.text)
	}
	return in, true
}
