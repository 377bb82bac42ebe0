// Package rill is a small reactive application framework for [Ebitengine].
//
// A program is split into drivers, which adapt the effectful outside world,
// and a component, a pure function from the drivers' input capabilities to
// named output streams. [Run] checks that the two fit, invokes the component
// once and hands every output stream to the driver of the same name.
//
// # Quick start
//
// The simplest way to get started is [RunGame], which creates a window and
// host loop for you:
//
//	app := rill.NewComponent(func(in rill.Sources) rill.Sinks {
//		dom := rill.Input[*rill.DOMSource](in, "dom")
//		moves := dom.Select("#canvas").PointerMove()
//		return rill.Sinks{"draws": rill.Map(moves, func(p rill.PointerEvent) rill.Draw {
//			return rill.All(
//				rill.ClearRect(0, 0, 640, 480),
//				rill.FillRect(p.OffsetX-5, p.OffsetY-5, 10, 10),
//			)
//		})}
//	}, rill.Needs[*rill.DOMSource]("dom"), rill.Emits[rill.Draw]("draws"))
//
//	err := rill.RunGame(rill.RunConfig{Title: "demo"}, func(l *rill.Loop) rill.Drivers {
//		return rill.Drivers{
//			"dom":   rill.NewDOMDriver(rill.DefaultDocument(), l),
//			"draws": rill.NewCanvasDriver(l),
//		}
//	}, app)
//
// # Drivers
//
// A driver is a source ([SourceDriver]), a sink ([SinkDriver]) or both
// ([FullDriver]). Constructing one has no effect; sinks start working when
// Run subscribes them and release their listeners when the handle returned
// by Run is disposed.
//
// # Wiring contract
//
// Components declare their ports with [Needs] and [Emits]. [ShapeOf]
// derives the input and output shape of a driver set and [Check] reports
// every mismatch as a [*WiringError]; Run performs the same check and
// subscribes nothing when it fails.
//
// # State
//
// [Stateful] closes a feedback loop around a component that reads a
// Stream[S] and emits Reducer[S] values under "state". Reducers are folded
// over the initial state and each result is fed back as the next state.
//
// # Drawing
//
// A [Draw] is an immutable tree of canvas-style instructions built with
// [FillRect], [Arc], [And], [All] and friends. [Interpret] replays it in
// order against any [Surface]; [NewSurfaceDriver] and [NewCanvasDriver] do
// so once per displayed frame, dropping stale draws.
//
// [Ebitengine]: https://ebitengine.org
package rill
