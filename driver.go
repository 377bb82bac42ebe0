package rill

import "reflect"

// Signal is the completion notice a sink emits each time it has finished
// consuming a value.
type Signal struct{}

// DriverKind selects which sides of the external world a Driver adapts.
type DriverKind uint8

const (
	driverInvalid DriverKind = iota
	DriverSource             // provides an input capability
	DriverSink               // consumes an output stream
	DriverFull               // both
)

// String returns the kind name.
func (k DriverKind) String() string {
	switch k {
	case DriverSource:
		return "source"
	case DriverSink:
		return "sink"
	case DriverFull:
		return "full"
	default:
		return "invalid"
	}
}

// Provides reports whether drivers of this kind expose a capability.
func (k DriverKind) Provides() bool {
	return k == DriverSource || k == DriverFull
}

// Receives reports whether drivers of this kind accept an output stream.
func (k DriverKind) Receives() bool {
	return k == DriverSink || k == DriverFull
}

// Driver adapts one external, effectful subsystem. Constructing a Driver has
// no side effects; a sink starts working only when the stream returned by
// its receive function is subscribed, and must release everything it
// acquired when that subscription is disposed.
type Driver struct {
	kind       DriverKind
	capability any
	capType    reflect.Type
	sinkType   reflect.Type
	receive    func(AnyStream) Stream[Signal]
}

// SourceDriver wraps an input capability.
func SourceDriver[C any](capability C) Driver {
	return Driver{
		kind:       DriverSource,
		capability: capability,
		capType:    reflect.TypeFor[C](),
	}
}

// SinkDriver wraps a receive function consuming a stream of T.
func SinkDriver[T any](receive func(Stream[T]) Stream[Signal]) Driver {
	return Driver{
		kind:     DriverSink,
		sinkType: reflect.TypeFor[T](),
		receive:  receiver(receive),
	}
}

// FullDriver wraps both an input capability and a receive function.
func FullDriver[C, T any](capability C, receive func(Stream[T]) Stream[Signal]) Driver {
	return Driver{
		kind:       DriverFull,
		capability: capability,
		capType:    reflect.TypeFor[C](),
		sinkType:   reflect.TypeFor[T](),
		receive:    receiver(receive),
	}
}

// receiver erases the element type of a receive function. A nil or foreign
// stream becomes the zero Stream, which never emits.
func receiver[T any](receive func(Stream[T]) Stream[Signal]) func(AnyStream) Stream[Signal] {
	return func(a AnyStream) Stream[Signal] {
		s, _ := a.(Stream[T])
		return receive(s)
	}
}

// Kind returns the driver variant.
func (d Driver) Kind() DriverKind {
	return d.kind
}

// Capability returns the provided capability, or nil for sink drivers.
func (d Driver) Capability() any {
	return d.capability
}

// CapabilityType returns the static type of the capability, or nil.
func (d Driver) CapabilityType() reflect.Type {
	return d.capType
}

// SinkType returns the element type the sink accepts, or nil.
func (d Driver) SinkType() reflect.Type {
	return d.sinkType
}

// Drivers maps driver names to drivers. The names are the keys of the
// component's input and output records.
type Drivers map[string]Driver

// names returns the driver names in sorted order.
func (d Drivers) names() []string {
	return sortedKeys(d)
}
