package rill

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// NewSurfaceDriver returns a sink driver for Stream[Draw] that interprets
// draws against s, synchronized to the loop's Draw calls.
//
// At most one Draw is pending: a Draw received while another is still
// waiting replaces it, so only the latest is rendered. The driver emits one
// Signal per rendered Draw. When the draw stream completes, the pending Draw
// is still rendered before the signal stream completes.
func NewSurfaceDriver(l *Loop, s Surface) Driver {
	return SinkDriver(func(draws Stream[Draw]) Stream[Signal] {
		return renderStream(l, draws, func(*ebiten.Image) Surface { return s }, nil)
	})
}

// NewCanvasDriver returns a sink driver for Stream[Draw] rendering into an
// offscreen canvas the size of the screen. Like an HTML canvas, its content
// persists between frames until drawn over; it is copied to the screen on
// every frame. A resize of the screen starts a fresh, cleared canvas.
func NewCanvasDriver(l *Loop) Driver {
	return SinkDriver(func(draws Stream[Draw]) Stream[Signal] {
		return Create(func(e *Emitter[Signal]) func() {
			c := &canvas{}
			sub := renderStream(l, draws, c.surfaceFor, c.present).Subscribe(forward(e, e.Next))
			return func() {
				sub.Unsubscribe()
				c.dispose()
			}
		})
	})
}

// renderStream is the shared body of the render drivers. surfaceFor returns
// the surface to interpret against for a given screen, or nil to postpone
// rendering; present, if set, runs on every frame after interpretation.
func renderStream(l *Loop, draws Stream[Draw], surfaceFor func(*ebiten.Image) Surface, present func(*ebiten.Image)) Stream[Signal] {
	return Create(func(e *Emitter[Signal]) func() {
		var (
			pending  Draw
			has      bool
			finished bool
			dropped  int
		)

		removePainter := l.addPainter(func(screen *ebiten.Image) {
			if has {
				if surf := surfaceFor(screen); surf != nil {
					d := pending
					pending, has = Draw{}, false

					if l.cfg.Debug {
						debugCheckOps(d)
					}
					var stats renderStats
					t0 := time.Now()
					ok := guard(e, "render", func() { stats.ops = Interpret(d, surf) })
					stats.interpretTime = time.Since(t0)
					stats.dropped = dropped
					stats.frame = l.frame
					dropped = 0
					l.debugLog(stats)

					if ok {
						e.Next(Signal{})
					}
				}
			}
			if present != nil && !e.Closed() {
				present(screen)
			}
			if finished && !has {
				e.Complete()
			}
		})

		sub := draws.Subscribe(Observer[Draw]{
			Next: func(d Draw) {
				if has {
					dropped++
				}
				pending, has = d, true
			},
			Error: e.Error,
			Complete: func() {
				finished = true
				if !has {
					e.Complete()
				}
			},
		})
		return func() {
			removePainter()
			sub.Unsubscribe()
		}
	})
}

// canvas is the offscreen image behind a canvas driver.
type canvas struct {
	img  *ebiten.Image
	surf *ImageSurface
}

func (c *canvas) surfaceFor(screen *ebiten.Image) Surface {
	if screen == nil {
		return nil
	}
	b := screen.Bounds()
	if c.img == nil || c.img.Bounds().Size() != b.Size() {
		c.dispose()
		c.img = ebiten.NewImage(b.Dx(), b.Dy())
		c.surf = NewImageSurface(c.img)
	}
	return c.surf
}

func (c *canvas) present(screen *ebiten.Image) {
	if screen == nil || c.img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	origin := screen.Bounds().Min
	op.GeoM.Translate(float64(origin.X), float64(origin.Y))
	screen.DrawImage(c.img, &op)
}

func (c *canvas) dispose() {
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
		c.surf = nil
	}
}
