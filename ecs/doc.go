// Package ecs bridges rill components and a [Donburi] world.
//
// [NewEventDriver] exposes a Donburi event type as a full driver: components
// read published events as a stream and publish their own values by
// emitting them under the driver's name.
//
// Usage:
//
//	var Scored = events.NewEventType[ScoreEvent]()
//
//	drivers := rill.Drivers{
//		"scored": ecs.NewEventDriver(world, Scored, loop.Frames()),
//	}
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
