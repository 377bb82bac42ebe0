package rill

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Run wires component c to drivers and starts it.
//
// The component's ports are checked against the shape of drivers first; on
// a mismatch Run returns a *WiringError and nothing is invoked or
// subscribed. Otherwise the capabilities of every source and full driver are
// gathered into one record, the component is invoked exactly once, and each
// produced stream is handed to the sink of the same name. A sink whose
// stream the component did not produce receives a stream that never emits.
//
// Subscribing the sinks is what starts event flow. The returned handle tears
// every sink (and through them every capability listener) down. An error
// from one sink is logged and stops that sink only.
func Run(drivers Drivers, c Component) (*Subscription, error) {
	shape := ShapeOf(drivers)
	if err := Check(shape, c); err != nil {
		return nil, err
	}

	in := make(Sources, len(shape.Inputs))
	for name := range shape.Inputs {
		in[name] = drivers[name].capability
	}

	out, err := invoke(c, in)
	if err != nil {
		return nil, err
	}
	if err := checkOutputs(c, out); err != nil {
		return nil, err
	}

	log := Log.WithField("run", uuid.NewString())
	root := &Subscription{}
	for _, name := range drivers.names() {
		d := drivers[name]
		if !d.kind.Receives() {
			continue
		}
		var routed AnyStream
		if s, ok := out[name]; ok {
			routed = s
		}
		dlog := log.WithField("driver", name)
		root.AddSubscription(d.receive(routed).Subscribe(Observer[Signal]{
			Error: func(err error) {
				dlog.WithError(err).Error("sink stopped")
			},
			Complete: func() {
				dlog.Debug("sink completed")
			},
		}))
	}
	root.Add(func() { log.Debug("run disposed") })

	log.WithFields(logrus.Fields{
		"sources": len(shape.Inputs),
		"sinks":   len(shape.Outputs),
	}).Debug("run started")
	return root, nil
}

// invoke calls the component function, turning a panic into an error.
func invoke(c Component, in Sources) (out Sinks, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &CallbackError{Op: "component", Value: r}
		}
	}()
	return c.fn(in), nil
}
