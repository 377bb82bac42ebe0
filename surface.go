package rill

import "fmt"

// Surface is a mutable rendering target with canvas-2D style state: a fill
// style, a stroke style, a line width and a current path.
type Surface interface {
	FillRect(x, y, w, h float64)
	ClearRect(x, y, w, h float64)
	SetFillStyle(style string)
	SetStrokeStyle(style string)
	SetLineWidth(w float64)
	BeginPath()
	Arc(x, y, r, start, end float64, counterClockwise bool)
	Stroke()
	Fill()
}

// Interpret applies every instruction of d to s in composition order and
// returns the number of instructions applied.
func Interpret(d Draw, s Surface) int {
	n := 0
	d.Walk(func(op DrawOp) {
		Apply(op, s)
		n++
	})
	return n
}

// Apply performs a single instruction on s.
func Apply(op DrawOp, s Surface) {
	switch op.Kind {
	case OpFillRect:
		s.FillRect(op.X, op.Y, op.Width, op.Height)
	case OpClearRect:
		s.ClearRect(op.X, op.Y, op.Width, op.Height)
	case OpFillStyle:
		s.SetFillStyle(op.Style)
	case OpStrokeStyle:
		s.SetStrokeStyle(op.Style)
	case OpLineWidth:
		s.SetLineWidth(op.Width)
	case OpBeginPath:
		s.BeginPath()
	case OpArc:
		s.Arc(op.X, op.Y, op.Radius, op.Start, op.End, op.CounterClockwise)
	case OpStroke:
		s.Stroke()
	case OpFill:
		s.Fill()
	default:
		panic(fmt.Sprintf("rill: unknown draw op %d", op.Kind))
	}
}

// Recorder is a Surface that records the instructions applied to it. It is
// useful in tests and for inspecting what a component renders.
type Recorder struct {
	Ops []DrawOp
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpFillRect, X: x, Y: y, Width: w, Height: h})
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpClearRect, X: x, Y: y, Width: w, Height: h})
}

func (r *Recorder) SetFillStyle(style string) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpFillStyle, Style: style})
}

func (r *Recorder) SetStrokeStyle(style string) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpStrokeStyle, Style: style})
}

func (r *Recorder) SetLineWidth(w float64) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpLineWidth, Width: w})
}

func (r *Recorder) BeginPath() {
	r.Ops = append(r.Ops, DrawOp{Kind: OpBeginPath})
}

func (r *Recorder) Arc(x, y, rad, start, end float64, ccw bool) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpArc, X: x, Y: y, Radius: rad, Start: start, End: end, CounterClockwise: ccw})
}

func (r *Recorder) Stroke() {
	r.Ops = append(r.Ops, DrawOp{Kind: OpStroke})
}

func (r *Recorder) Fill() {
	r.Ops = append(r.Ops, DrawOp{Kind: OpFill})
}

// Reset discards the recorded instructions.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
