package ecs

import (
	"testing"

	"github.com/phanxgames/rill"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

type scoreEvent struct {
	Player int
	Points int
}

func frameTicker() (*rill.Subject[rill.Frame], func()) {
	s := rill.NewSubject[rill.Frame]()
	var idx uint64
	return s, func() {
		idx++
		s.Next(rill.Frame{Index: idx, DT: 1.0 / 60})
	}
}

func TestNewEventDriverKind(t *testing.T) {
	world := donburi.NewWorld()
	et := events.NewEventType[scoreEvent]()
	frames, _ := frameTicker()

	d := NewEventDriver(world, et, frames.Stream())
	if d.Kind() != rill.DriverFull {
		t.Errorf("Kind = %v, want full", d.Kind())
	}
	if _, ok := d.Capability().(rill.Stream[scoreEvent]); !ok {
		t.Errorf("Capability = %T, want rill.Stream[scoreEvent]", d.Capability())
	}
}

func TestEventDriversShareSubscription(t *testing.T) {
	world := donburi.NewWorld()
	et := events.NewEventType[scoreEvent]()
	frames, _ := frameTicker()

	first := NewEventDriver(world, et, frames.Stream()).Capability().(rill.Stream[scoreEvent])
	second := NewEventDriver(world, et, frames.Stream()).Capability().(rill.Stream[scoreEvent])

	var a, b []scoreEvent
	subA := first.Subscribe(rill.Observer[scoreEvent]{Next: func(e scoreEvent) { a = append(a, e) }})
	subB := second.Subscribe(rill.Observer[scoreEvent]{Next: func(e scoreEvent) { b = append(b, e) }})
	defer subB.Unsubscribe()

	et.Publish(world, scoreEvent{Player: 1, Points: 1})
	et.ProcessEvents(world)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("received a=%v b=%v, want one event each", a, b)
	}

	// Releasing one driver must not unsubscribe the other.
	subA.Unsubscribe()
	et.Publish(world, scoreEvent{Player: 2, Points: 3})
	et.ProcessEvents(world)
	if len(a) != 1 {
		t.Errorf("a = %v after unsubscribe, want one event", a)
	}
	if len(b) != 2 || b[1] != (scoreEvent{Player: 2, Points: 3}) {
		t.Errorf("b = %v, want the second event delivered", b)
	}
}

func TestEventDriverRoundTrip(t *testing.T) {
	world := donburi.NewWorld()
	et := events.NewEventType[scoreEvent]()
	frames, tick := frameTicker()
	trigger := rill.NewSubject[scoreEvent]()

	var received []scoreEvent
	direct := 0

	app := rill.NewComponent(func(in rill.Sources) rill.Sinks {
		scored := rill.Input[rill.Stream[scoreEvent]](in, "score")
		// Subscribing the echo keeps the capability stream alive.
		echo := rill.Filter(rill.Tap(scored, func(e scoreEvent) {
			received = append(received, e)
		}), func(scoreEvent) bool { return false })
		return rill.Sinks{"score": rill.Merge(trigger.Stream(), echo)}
	},
		rill.Needs[rill.Stream[scoreEvent]]("score"),
		rill.Emits[scoreEvent]("score"),
	)

	drivers := rill.Drivers{
		"score": NewEventDriver(world, et, frames.Stream()),
	}
	sub, err := rill.Run(drivers, app)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// A plain Donburi subscriber sees the same events.
	et.Subscribe(world, func(donburi.World, scoreEvent) { direct++ })

	trigger.Next(scoreEvent{Player: 1, Points: 3})
	trigger.Next(scoreEvent{Player: 2, Points: 1})
	if len(received) != 0 {
		t.Fatalf("received %d events before ProcessEvents, want 0", len(received))
	}

	tick()
	if len(received) != 2 {
		t.Fatalf("received %d events, want 2", len(received))
	}
	if received[0] != (scoreEvent{Player: 1, Points: 3}) {
		t.Errorf("event 0 = %+v", received[0])
	}
	if received[1] != (scoreEvent{Player: 2, Points: 1}) {
		t.Errorf("event 1 = %+v", received[1])
	}
	if direct != 2 {
		t.Errorf("direct subscriber saw %d events, want 2", direct)
	}

	sub.Unsubscribe()
	if frames.ObserverCount() != 0 {
		t.Errorf("frame observers after teardown = %d, want 0", frames.ObserverCount())
	}

	// Events published after teardown never reach the component.
	et.Publish(world, scoreEvent{Player: 3})
	et.ProcessEvents(world)
	if len(received) != 2 {
		t.Errorf("received %d events after teardown, want 2", len(received))
	}
}

func TestEventDriverCompletesAfterFlush(t *testing.T) {
	world := donburi.NewWorld()
	et := events.NewEventType[scoreEvent]()
	frames, tick := frameTicker()

	var got []scoreEvent
	et.Subscribe(world, func(_ donburi.World, e scoreEvent) { got = append(got, e) })

	d := NewEventDriver(world, et, frames.Stream())
	app := rill.NewComponent(func(rill.Sources) rill.Sinks {
		return rill.Sinks{"score": rill.Of(scoreEvent{Player: 1, Points: 7})}
	}, rill.Emits[scoreEvent]("score"))

	if _, err := rill.Run(rill.Drivers{"score": d}, app); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if frames.ObserverCount() != 1 {
		t.Fatalf("frame observers = %d, want 1", frames.ObserverCount())
	}

	tick()
	if len(got) != 1 || got[0].Points != 7 {
		t.Errorf("published = %+v, want one event with 7 points", got)
	}
	if frames.ObserverCount() != 0 {
		t.Errorf("frame observers after completion = %d, want 0", frames.ObserverCount())
	}
}
