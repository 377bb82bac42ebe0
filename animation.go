package rill

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween returns a stream that eases from `from` to `to` over duration
// seconds. Each Frame of frames advances the tween by Frame.DT and emits the
// eased value; the stream completes right after emitting `to`.
//
// Every subscription starts its own tween, so a Tween is restartable.
// A non-positive duration emits `to` on the first frame.
func Tween(frames Stream[Frame], from, to float64, duration float32, fn ease.TweenFunc) Stream[float64] {
	return Create(func(e *Emitter[float64]) func() {
		if duration <= 0 {
			return Take(frames, 1).Subscribe(forward(e, func(Frame) {
				e.Next(to)
				e.Complete()
			})).Unsubscribe
		}
		tw := gween.New(float32(from), float32(to), duration, fn)
		return frames.Subscribe(forward(e, func(f Frame) {
			val, finished := tw.Update(float32(f.DT))
			if finished {
				e.Next(to)
				e.Complete()
				return
			}
			e.Next(float64(val))
		})).Unsubscribe
	})
}

// TweenVec2 eases both coordinates of a point at once. Both axes share the
// duration and easing function, so they finish on the same frame.
func TweenVec2(frames Stream[Frame], from, to Vec2, duration float32, fn ease.TweenFunc) Stream[Vec2] {
	return Create(func(e *Emitter[Vec2]) func() {
		if duration <= 0 {
			return Take(frames, 1).Subscribe(forward(e, func(Frame) {
				e.Next(to)
				e.Complete()
			})).Unsubscribe
		}
		tx := gween.New(float32(from.X), float32(to.X), duration, fn)
		ty := gween.New(float32(from.Y), float32(to.Y), duration, fn)
		return frames.Subscribe(forward(e, func(f Frame) {
			x, doneX := tx.Update(float32(f.DT))
			y, doneY := ty.Update(float32(f.DT))
			if doneX && doneY {
				e.Next(to)
				e.Complete()
				return
			}
			e.Next(Vec2{X: float64(x), Y: float64(y)})
		})).Unsubscribe
	})
}
