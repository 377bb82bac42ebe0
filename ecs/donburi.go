package ecs

import (
	"sync"

	"github.com/phanxgames/rill"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NewEventDriver returns a full driver bridging the Donburi event type et of
// world.
//
// Its capability is a rill.Stream[T] of the events delivered by
// ProcessEvents. Its sink publishes every received value to et and runs
// et.ProcessEvents once per frame of frames, emitting a Signal for each
// frame that delivered events. Donburi stays subscribed only while the
// capability stream has subscribers.
//
// Drivers created for the same world and event type share one Donburi
// subscription.
func NewEventDriver[T any](world donburi.World, et *events.EventType[T], frames rill.Stream[rill.Frame]) rill.Driver {
	b := bridgeFor(world, et)
	return rill.FullDriver(b.events(), func(values rill.Stream[T]) rill.Stream[rill.Signal] {
		return b.publish(values, frames)
	})
}

type bridgeKey struct {
	world donburi.World
	et    any
}

var (
	bridgesMu sync.Mutex
	bridges   = map[bridgeKey]any{}
)

// bridgeFor returns the bridge of et in world, creating it on first use.
// Donburi removes handlers by function identity, and every bridge handler
// comes from the same function literal, so there must be only one bridge
// per pair.
func bridgeFor[T any](world donburi.World, et *events.EventType[T]) *eventBridge[T] {
	bridgesMu.Lock()
	defer bridgesMu.Unlock()
	key := bridgeKey{world: world, et: et}
	if b, ok := bridges[key]; ok {
		return b.(*eventBridge[T])
	}
	b := &eventBridge[T]{world: world, et: et, subject: rill.NewSubject[T]()}
	b.handler = func(_ donburi.World, v T) { b.subject.Next(v) }
	bridges[key] = b
	return b
}

// eventBridge owns the single Donburi subscription of one event type in one
// world. All stream subscribers of every driver share it through subject.
type eventBridge[T any] struct {
	world   donburi.World
	et      *events.EventType[T]
	subject *rill.Subject[T]
	handler func(donburi.World, T)
	refs    int
}

func (b *eventBridge[T]) events() rill.Stream[T] {
	return rill.Create(func(e *rill.Emitter[T]) func() {
		b.acquire()
		sub := b.subject.Stream().Subscribe(rill.Observer[T]{Next: e.Next})
		return func() {
			sub.Unsubscribe()
			b.release()
		}
	})
}

func (b *eventBridge[T]) acquire() {
	b.refs++
	if b.refs == 1 {
		b.et.Subscribe(b.world, b.handler)
	}
}

func (b *eventBridge[T]) release() {
	b.refs--
	if b.refs == 0 {
		b.et.Unsubscribe(b.world, b.handler)
	}
}

// publish queues every value of values on the event type and flushes the
// queue once per frame. When values completes, the queue is flushed on the
// next frame and the signal stream completes.
func (b *eventBridge[T]) publish(values rill.Stream[T], frames rill.Stream[rill.Frame]) rill.Stream[rill.Signal] {
	return rill.Create(func(e *rill.Emitter[rill.Signal]) func() {
		queued := 0
		finished := false

		frameSub := frames.Subscribe(rill.Observer[rill.Frame]{
			Next: func(rill.Frame) {
				b.et.ProcessEvents(b.world)
				if queued > 0 {
					queued = 0
					e.Next(rill.Signal{})
				}
				if finished {
					e.Complete()
				}
			},
			Error: e.Error,
		})
		valueSub := values.Subscribe(rill.Observer[T]{
			Next: func(v T) {
				b.et.Publish(b.world, v)
				queued++
			},
			Error: e.Error,
			Complete: func() {
				finished = true
			},
		})
		return func() {
			valueSub.Unsubscribe()
			frameSub.Unsubscribe()
		}
	})
}
