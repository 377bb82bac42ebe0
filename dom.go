package rill

import (
	"golang.org/x/net/html"
)

// DOMSource is the capability of a DOM driver: it resolves selectors to
// elements whose event streams are fed by the loop.
type DOMSource struct {
	doc    *Document
	loop   *Loop
	warned map[string]bool
}

// NewDOMDriver returns a source driver exposing doc, with events and
// measurements taken from loop. Components read it as Needs[*DOMSource].
func NewDOMDriver(doc *Document, loop *Loop) Driver {
	return SourceDriver(&DOMSource{doc: doc, loop: loop, warned: make(map[string]bool)})
}

// Select resolves selector to an element. A malformed selector or one that
// matches nothing yields an element whose streams never emit; a warning is
// logged once per selector.
func (d *DOMSource) Select(selector string) Element {
	n, err := d.doc.Query(selector)
	if (err != nil || n == nil) && !d.warned[selector] {
		d.warned[selector] = true
		entry := Log.WithField("selector", selector)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("dom: no element, streams will stay empty")
	}
	return Element{selector: selector, node: n, loop: d.loop}
}

// Element is one resolved document element.
type Element struct {
	selector string
	node     *html.Node
	loop     *Loop
}

// Selector returns the selector the element was resolved from.
func (el Element) Selector() string {
	return el.selector
}

// Found reports whether the selector matched an element.
func (el Element) Found() bool {
	return el.node != nil && el.loop != nil
}

// Bounds returns the element rectangle on the current screen.
func (el Element) Bounds() Rect {
	if !el.Found() {
		return Rect{}
	}
	screen := el.loop.ScreenSize()
	x, _ := numAttr(el.node, "x")
	y, _ := numAttr(el.node, "y")
	w, ok := numAttr(el.node, "width")
	if !ok {
		w = max(screen.Width-x, 0)
	}
	h, ok := numAttr(el.node, "height")
	if !ok {
		h = max(screen.Height-y, 0)
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// PointerMove emits pointer movement inside the element. Offsets are
// relative to the element's top-left corner.
func (el Element) PointerMove() Stream[PointerEvent] {
	if !el.Found() {
		return Never[PointerEvent]()
	}
	return Create(func(e *Emitter[PointerEvent]) func() {
		return el.loop.addInputListener(func(ev inputEvent) {
			if ev.kind != inputPointerMove {
				return
			}
			b := el.Bounds()
			p := ev.pointer
			if !b.Contains(p.ClientX, p.ClientY) {
				return
			}
			p.OffsetX = p.ClientX - b.X
			p.OffsetY = p.ClientY - b.Y
			e.Next(p)
		})
	})
}

// KeyDown emits key presses. Keyboard focus is document-wide, so every
// resolved element observes every key.
func (el Element) KeyDown() Stream[KeyEvent] {
	return el.keys(inputKeyDown)
}

// KeyUp emits key releases.
func (el Element) KeyUp() Stream[KeyEvent] {
	return el.keys(inputKeyUp)
}

// KeyPress emits typed characters.
func (el Element) KeyPress() Stream[KeyEvent] {
	return el.keys(inputKeyPress)
}

func (el Element) keys(kind inputKind) Stream[KeyEvent] {
	if !el.Found() {
		return Never[KeyEvent]()
	}
	return Create(func(e *Emitter[KeyEvent]) func() {
		return el.loop.addInputListener(func(ev inputEvent) {
			if ev.kind == kind {
				e.Next(ev.key)
			}
		})
	})
}

// Size emits the element size on subscription and then samples it every
// RunConfig.SampleEvery frames, emitting only when it changed.
func (el Element) Size() Stream[Size] {
	if !el.Found() {
		return Never[Size]()
	}
	every := uint64(el.loop.cfg.SampleEvery)
	return DropRepeats(Create(func(e *Emitter[Size]) func() {
		e.Next(el.Bounds().Size())
		return el.loop.frames.add(func(f Frame) {
			if f.Index%every == 0 {
				e.Next(el.Bounds().Size())
			}
		})
	}))
}
