package rill

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// PortDir is the direction of a component port.
type PortDir uint8

const (
	PortIn  PortDir = iota // capability the component reads
	PortOut                // stream the component produces
)

// Port declares one named input or output of a component. For inputs Type is
// the capability type; for outputs it is the stream element type.
type Port struct {
	Name string
	Dir  PortDir
	Type reflect.Type
}

// Needs declares that a component reads the capability C under name.
func Needs[C any](name string) Port {
	return Port{Name: name, Dir: PortIn, Type: reflect.TypeFor[C]()}
}

// Emits declares that a component may produce a Stream[T] under name.
func Emits[T any](name string) Port {
	return Port{Name: name, Dir: PortOut, Type: reflect.TypeFor[T]()}
}

// Sources is the input record handed to a component, keyed by driver name.
type Sources map[string]any

// Sinks is the output record a component returns, keyed by driver name.
// Missing entries are legal and drive nothing.
type Sinks map[string]AnyStream

// Input returns the capability stored under name, or the zero C if absent.
func Input[C any](in Sources, name string) C {
	c, _ := in[name].(C)
	return c
}

// Component is a pure function from an input record to an output record,
// together with the ports it declares. Run checks the ports against the
// drivers before invoking the function.
type Component struct {
	ports []Port
	fn    func(Sources) Sinks
	err   error
}

// NewComponent declares a component.
func NewComponent(fn func(Sources) Sinks, ports ...Port) Component {
	return Component{ports: append([]Port(nil), ports...), fn: fn}
}

// Ports returns a copy of the declared ports.
func (c Component) Ports() []Port {
	return append([]Port(nil), c.ports...)
}

func (c Component) port(name string, dir PortDir) (Port, bool) {
	for _, p := range c.ports {
		if p.Name == name && p.Dir == dir {
			return p, true
		}
	}
	return Port{}, false
}

// Shape is the input and output contract derived from a driver set: the
// capability type of every source or full driver, and the element type of
// every sink or full driver. Drivers lacking a side are absent from it.
type Shape struct {
	Inputs  map[string]reflect.Type
	Outputs map[string]reflect.Type
	invalid []string
}

// ShapeOf computes the shape of a driver set.
func ShapeOf(drivers Drivers) Shape {
	sh := Shape{
		Inputs:  make(map[string]reflect.Type),
		Outputs: make(map[string]reflect.Type),
	}
	for _, name := range drivers.names() {
		d := drivers[name]
		if !d.kind.Provides() && !d.kind.Receives() {
			sh.invalid = append(sh.invalid, name)
			continue
		}
		if d.kind.Provides() {
			sh.Inputs[name] = d.capType
		}
		if d.kind.Receives() {
			sh.Outputs[name] = d.sinkType
		}
	}
	return sh
}

// ErrWiring is matched by every error reported by Check and Run when a
// component and a driver set do not fit together.
var ErrWiring = errors.New("rill: wiring contract violated")

// WiringError lists every incompatibility found between a component and a
// driver set.
type WiringError struct {
	Problems []string
}

func (e *WiringError) Error() string {
	return ErrWiring.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is makes errors.Is(err, ErrWiring) hold.
func (e *WiringError) Is(target error) bool {
	return target == ErrWiring
}

// Check reports whether c can run against shape. Every required input must
// be provided with an assignable capability type, and every declared output
// must have a sink accepting exactly its element type.
func Check(shape Shape, c Component) error {
	var problems []string
	for _, name := range shape.invalid {
		problems = append(problems, fmt.Sprintf("driver %q has no source or sink side", name))
	}
	if c.fn == nil {
		problems = append(problems, "component has no function")
	}
	if c.err != nil {
		problems = append(problems, c.err.Error())
	}

	seen := make(map[Port]bool)
	for _, p := range c.ports {
		key := Port{Name: p.Name, Dir: p.Dir}
		if seen[key] {
			problems = append(problems, fmt.Sprintf("port %q declared twice", p.Name))
			continue
		}
		seen[key] = true

		switch p.Dir {
		case PortIn:
			have, ok := shape.Inputs[p.Name]
			if !ok {
				problems = append(problems, fmt.Sprintf("input %q is not provided by any source driver", p.Name))
			} else if have == nil || p.Type == nil || !have.AssignableTo(p.Type) {
				problems = append(problems, fmt.Sprintf("input %q: driver provides %v, component needs %v", p.Name, have, p.Type))
			}
		case PortOut:
			want, ok := shape.Outputs[p.Name]
			if !ok {
				problems = append(problems, fmt.Sprintf("output %q has no sink driver", p.Name))
			} else if want != p.Type {
				problems = append(problems, fmt.Sprintf("output %q: sink accepts %v, component emits %v", p.Name, want, p.Type))
			}
		}
	}
	if len(problems) > 0 {
		return &WiringError{Problems: problems}
	}
	return nil
}

// checkOutputs verifies the record a component actually returned against its
// declared outputs.
func checkOutputs(c Component, out Sinks) error {
	var problems []string
	for _, name := range sortedKeys(out) {
		s := out[name]
		if s == nil {
			continue
		}
		p, ok := c.port(name, PortOut)
		if !ok {
			problems = append(problems, fmt.Sprintf("component produced undeclared output %q", name))
			continue
		}
		if s.ElemType() != p.Type {
			problems = append(problems, fmt.Sprintf("output %q: declared %v, produced stream of %v", name, p.Type, s.ElemType()))
		}
	}
	if len(problems) > 0 {
		return &WiringError{Problems: problems}
	}
	return nil
}
