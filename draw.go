package rill

import "errors"

// OpKind identifies a primitive drawing instruction.
type OpKind uint8

const (
	OpFillRect    OpKind = iota // fill a rectangle with the fill style
	OpClearRect                 // reset a rectangle to transparent
	OpFillStyle                 // set the fill style
	OpStrokeStyle               // set the stroke style
	OpLineWidth                 // set the stroke width
	OpBeginPath                 // discard the current path
	OpArc                       // append a circular arc to the current path
	OpStroke                    // outline the current path with the stroke style
	OpFill                      // fill the current path with the fill style
)

var opNames = [...]string{
	OpFillRect:    "fillRect",
	OpClearRect:   "clearRect",
	OpFillStyle:   "fillStyle",
	OpStrokeStyle: "strokeStyle",
	OpLineWidth:   "lineWidth",
	OpBeginPath:   "beginPath",
	OpArc:         "arc",
	OpStroke:      "stroke",
	OpFill:        "fill",
}

// String returns the canvas name of the instruction.
func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// DrawOp is one primitive drawing instruction. Only the fields relevant to
// Kind are meaningful:
//
//	OpFillRect, OpClearRect: X, Y, Width, Height
//	OpFillStyle, OpStrokeStyle: Style
//	OpLineWidth: Width
//	OpArc: X, Y (center), Radius, Start, End (radians), CounterClockwise
type DrawOp struct {
	Kind             OpKind
	X, Y             float64
	Width, Height    float64
	Radius           float64
	Start, End       float64
	CounterClockwise bool
	Style            string
}

// Draw is an immutable tree of drawing instructions: either a single DrawOp
// or the sequential composition of two Draws. The zero Draw draws nothing.
type Draw struct {
	op          DrawOp
	leaf        bool
	left, right *Draw
}

// ErrEmptyDraw is returned when composing an empty list of Draws.
var ErrEmptyDraw = errors.New("rill: cannot compose zero draws")

func single(op DrawOp) Draw {
	return Draw{op: op, leaf: true}
}

// FillRect fills the rectangle at (x, y) with the current fill style.
func FillRect(x, y, w, h float64) Draw {
	return single(DrawOp{Kind: OpFillRect, X: x, Y: y, Width: w, Height: h})
}

// ClearRect resets the rectangle at (x, y) to transparent.
func ClearRect(x, y, w, h float64) Draw {
	return single(DrawOp{Kind: OpClearRect, X: x, Y: y, Width: w, Height: h})
}

// FillStyle sets the fill style, a CSS color string.
func FillStyle(style string) Draw {
	return single(DrawOp{Kind: OpFillStyle, Style: style})
}

// StrokeStyle sets the stroke style, a CSS color string.
func StrokeStyle(style string) Draw {
	return single(DrawOp{Kind: OpStrokeStyle, Style: style})
}

// LineWidth sets the width used by Stroke.
func LineWidth(w float64) Draw {
	return single(DrawOp{Kind: OpLineWidth, Width: w})
}

// BeginPath starts a new, empty path.
func BeginPath() Draw {
	return single(DrawOp{Kind: OpBeginPath})
}

// Arc appends an arc of radius r centered at (x, y) from angle start to
// end, in radians, to the current path.
func Arc(x, y, r, start, end float64, counterClockwise bool) Draw {
	return single(DrawOp{Kind: OpArc, X: x, Y: y, Radius: r, Start: start, End: end, CounterClockwise: counterClockwise})
}

// Stroke outlines the current path.
func Stroke() Draw {
	return single(DrawOp{Kind: OpStroke})
}

// Fill fills the current path.
func Fill() Draw {
	return single(DrawOp{Kind: OpFill})
}

// And composes a and b: every instruction of a, then every instruction of b.
func And(a, b Draw) Draw {
	return Draw{left: &a, right: &b}
}

// All composes the given Draws in order. It is a left fold of And, so
// All(a, b, c) is And(And(a, b), c).
func All(first Draw, rest ...Draw) Draw {
	acc := first
	for _, d := range rest {
		acc = And(acc, d)
	}
	return acc
}

// AllOf composes a slice of Draws in order. It returns ErrEmptyDraw when
// draws is empty.
func AllOf(draws []Draw) (Draw, error) {
	if len(draws) == 0 {
		return Draw{}, ErrEmptyDraw
	}
	return All(draws[0], draws[1:]...), nil
}

// Ops flattens d into its instructions, depth-first and left to right. The
// tree is immutable, so Ops may be called any number of times.
func (d Draw) Ops() []DrawOp {
	var ops []DrawOp
	d.Walk(func(op DrawOp) { ops = append(ops, op) })
	return ops
}

// Walk calls fn for every instruction of d in composition order.
func (d Draw) Walk(fn func(DrawOp)) {
	stack := []*Draw{&d}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case n.leaf:
			fn(n.op)
		case n.left != nil:
			// Right is pushed first so the left subtree is walked first.
			stack = append(stack, n.right, n.left)
		}
	}
}

// Len returns the number of instructions in d.
func (d Draw) Len() int {
	n := 0
	d.Walk(func(DrawOp) { n++ })
	return n
}
