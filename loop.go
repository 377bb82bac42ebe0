package rill

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// Frame is one tick of the host loop. It is the animation-timing source
// components use to drive per-frame updates.
type Frame struct {
	// Index counts ticks from 1.
	Index uint64
	// DT is the tick duration in seconds.
	DT float64
	// Time is the total simulated time in seconds.
	Time float64
}

type handler[T any] struct {
	id uint32
	fn func(T)
}

// handlerRegistry holds listeners for one kind of loop event.
type handlerRegistry[T any] struct {
	handlers []handler[T]
	nextID   uint32
}

// add registers fn and returns the function that removes it.
func (r *handlerRegistry[T]) add(fn func(T)) (remove func()) {
	r.nextID++
	id := r.nextID
	r.handlers = append(r.handlers, handler[T]{id: id, fn: fn})
	return func() {
		for i, h := range r.handlers {
			if h.id == id {
				r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
				return
			}
		}
	}
}

// emit calls the handlers registered when emit starts, in registration order.
func (r *handlerRegistry[T]) emit(v T) {
	if len(r.handlers) == 0 {
		return
	}
	hs := append([]handler[T](nil), r.handlers...)
	for _, h := range hs {
		h.fn(v)
	}
}

func (r *handlerRegistry[T]) count() int {
	return len(r.handlers)
}

// Loop is the single-threaded host event loop. It implements ebiten.Game:
// every Update reads input, delivers it to element listeners and then
// emits a Frame; every Draw runs the registered painters.
//
// Everything observable through rill streams happens inside Update or Draw,
// so all composition runs on ebiten's game goroutine.
type Loop struct {
	cfg           RunConfig
	width, height int

	frame   uint64
	elapsed float64
	cursor  Vec2
	quit    bool

	reader      InputReader
	injectQueue []syntheticEvent
	testRunner  *TestRunner

	inputs   handlerRegistry[inputEvent]
	frames   handlerRegistry[Frame]
	painters handlerRegistry[*ebiten.Image]

	screenshotQueue []string
}

// NewLoop creates a loop with the given configuration. Unset fields take
// their DefaultRunConfig values.
func NewLoop(cfg RunConfig) *Loop {
	cfg = cfg.withDefaults()
	return &Loop{
		cfg:    cfg,
		width:  cfg.Width,
		height: cfg.Height,
		reader: &ebitenInput{},
	}
}

// Config returns the loop configuration.
func (l *Loop) Config() RunConfig {
	return l.cfg
}

// SetInputReader replaces the input source. A nil reader restores polling
// ebiten.
func (l *Loop) SetInputReader(r InputReader) {
	if r == nil {
		r = &ebitenInput{}
	}
	l.reader = r
}

// ScreenSize returns the current logical screen size.
func (l *Loop) ScreenSize() Size {
	return Size{Width: float64(l.width), Height: float64(l.height)}
}

// FrameCount returns the number of completed Update ticks.
func (l *Loop) FrameCount() uint64 {
	return l.frame
}

// Quit makes the next Update end the game.
func (l *Loop) Quit() {
	l.quit = true
}

// Frames returns a stream emitting one Frame per Update tick, after that
// tick's input has been delivered.
func (l *Loop) Frames() Stream[Frame] {
	return Create(func(e *Emitter[Frame]) func() {
		return l.frames.add(e.Next)
	})
}

// Update implements ebiten.Game.
func (l *Loop) Update() error {
	if l.testRunner != nil {
		l.testRunner.step(l)
	}

	in, ok := l.nextInjected()
	if !ok {
		in = l.reader.ReadInput()
	}
	l.dispatchInput(in)

	dt := 1.0 / float64(l.tps())
	l.frame++
	l.elapsed += dt
	l.frames.emit(Frame{Index: l.frame, DT: dt, Time: l.elapsed})

	if l.quit {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (l *Loop) Draw(screen *ebiten.Image) {
	l.painters.emit(screen)
	if l.cfg.ShowFPS {
		drawFPS(screen)
	}
	l.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The logical screen keeps the configured
// size unless the loop is resizable.
func (l *Loop) Layout(outsideWidth, outsideHeight int) (int, int) {
	if l.cfg.Resizable && outsideWidth > 0 && outsideHeight > 0 {
		l.width, l.height = outsideWidth, outsideHeight
	}
	return l.width, l.height
}

func (l *Loop) tps() int {
	if l.cfg.TPS > 0 {
		return l.cfg.TPS
	}
	return ebiten.TPS()
}

// addPainter registers a function called with the screen on every Draw.
func (l *Loop) addPainter(fn func(*ebiten.Image)) (remove func()) {
	return l.painters.add(fn)
}

// addInputListener registers a function called for every input event.
func (l *Loop) addInputListener(fn func(inputEvent)) (remove func()) {
	return l.inputs.add(fn)
}

// RunGame opens a window, builds the drivers against a new Loop, runs c
// against them and blocks until the window closes or Quit is called. The
// run is torn down before RunGame returns.
func RunGame(cfg RunConfig, build func(*Loop) Drivers, c Component) error {
	loop := NewLoop(cfg)
	cfg = loop.cfg
	if cfg.Debug {
		Log.SetLevel(logrus.DebugLevel)
	}

	sub, err := Run(build(loop), c)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if err := ebiten.RunGame(loop); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
