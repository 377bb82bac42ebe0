package rill

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// StateKey is the input and output name a stateful component uses for its
// state stream and its reducer stream.
const StateKey = "state"

// Reducer is a pure state transition.
type Reducer[S any] func(S) S

func identity[S any](s S) S { return s }

// Stateful hides the state concern of c. The inner component must declare
// Needs[Stream[S]](StateKey) and Emits[Reducer[S]](StateKey); the returned
// component declares neither.
//
// Inside, the reducers emitted by c are folded over initial and every
// folded value is broadcast back to c as its state input. An identity
// reducer is prepended, so initial is delivered before any reducer arrives.
// The state stream replays the latest value to late subscribers.
//
// The loop is connected while at least one of the returned outputs is
// subscribed and disconnected when the last one is released, so it starts
// and stops with the runner's sinks.
func Stateful[S any](initial S, c Component) Component {
	stateIn := reflect.TypeFor[Stream[S]]()
	reducerOut := reflect.TypeFor[Reducer[S]]()

	var ports []Port
	var problems []string
	var hasIn, hasOut bool
	for _, p := range c.ports {
		if p.Name != StateKey {
			ports = append(ports, p)
			continue
		}
		switch p.Dir {
		case PortIn:
			hasIn = true
			if p.Type != stateIn {
				problems = append(problems, fmt.Sprintf("stateful: state input is %v, want %v", p.Type, stateIn))
			}
		case PortOut:
			hasOut = true
			if p.Type != reducerOut {
				problems = append(problems, fmt.Sprintf("stateful: state output is %v, want %v", p.Type, reducerOut))
			}
		}
	}
	if !hasIn {
		problems = append(problems, fmt.Sprintf("stateful: component does not read %q", StateKey))
	}
	if !hasOut {
		problems = append(problems, fmt.Sprintf("stateful: component does not emit %q", StateKey))
	}

	wrapped := Component{ports: ports, err: c.err}
	if len(problems) > 0 {
		wrapped.err = errors.Join(wrapped.err, errors.New(strings.Join(problems, "; ")))
	}
	if c.fn == nil {
		return wrapped
	}

	wrapped.fn = func(in Sources) Sinks {
		state := NewRememberSubject[S]()

		inner := make(Sources, len(in)+1)
		for name, v := range in {
			inner[name] = v
		}
		inner[StateKey] = state.Stream()

		out := c.fn(inner)

		reducers, _ := out[StateKey].(Stream[Reducer[S]])
		folded := Scan(StartWith(reducers, Reducer[S](identity[S])), initial,
			func(s S, r Reducer[S]) S { return r(s) })

		loop := &feedback{
			connect: func() *Subscription {
				return folded.Subscribe(Observer[S]{
					Next:  state.Next,
					Error: state.Error,
				})
			},
			reset: state.reset,
		}

		result := make(Sinks, len(out))
		for name, s := range out {
			if name == StateKey || s == nil {
				continue
			}
			result[name] = s.hooked(loop.acquire, loop.release)
		}
		return result
	}
	return wrapped
}

// feedback reference-counts the subscription that closes a state loop.
// Disconnecting also clears the remembered state, since the fold restarts
// from the initial value on the next connect.
type feedback struct {
	connect func() *Subscription
	reset   func()
	sub     *Subscription
	refs    int
}

func (f *feedback) acquire() {
	f.refs++
	if f.refs == 1 {
		f.sub = f.connect()
	}
}

func (f *feedback) release() {
	f.refs--
	if f.refs == 0 && f.sub != nil {
		sub := f.sub
		f.sub = nil
		sub.Unsubscribe()
		if f.reset != nil {
			f.reset()
		}
	}
}
