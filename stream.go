package rill

import (
	"fmt"
	"reflect"
)

// Observer receives the notifications of a subscribed Stream. Any callback
// may be nil.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Stream is a cold, push-based sequence of values. Nothing happens until
// Subscribe is called; every subscription runs the producer anew. All
// emissions happen synchronously on the caller's goroutine.
//
// The zero Stream never emits, never errors and never completes.
type Stream[T any] struct {
	produce func(e *Emitter[T]) (stop func())
}

// AnyStream is the type-erased view of a Stream used by component output
// records.
type AnyStream interface {
	// ElemType reports the element type of the stream.
	ElemType() reflect.Type

	hooked(onSubscribe, onDispose func()) AnyStream
}

// Emitter is handed to a producer and forwards values to one subscriber.
// After Error, Complete or unsubscription every call is ignored.
type Emitter[T any] struct {
	obs  Observer[T]
	sub  *Subscription
	done bool
}

// Create builds a Stream from a producer. The producer is invoked on each
// subscription and returns a stop function that releases whatever it
// acquired (listeners, timers, upstream subscriptions). stop may be nil.
func Create[T any](producer func(e *Emitter[T]) (stop func())) Stream[T] {
	return Stream[T]{produce: producer}
}

// Subscribe starts the stream and returns its handle.
func (s Stream[T]) Subscribe(o Observer[T]) *Subscription {
	sub := &Subscription{}
	if s.produce == nil {
		return sub
	}
	e := &Emitter[T]{obs: o, sub: sub}
	stop := s.produce(e)
	sub.Add(stop)
	return sub
}

// ElemType implements AnyStream.
func (s Stream[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// hooked returns s with onSubscribe called right after each subscription
// starts and onDispose called when it ends.
func (s Stream[T]) hooked(onSubscribe, onDispose func()) AnyStream {
	return Create(func(e *Emitter[T]) func() {
		sub := s.Subscribe(forward(e, e.Next))
		onSubscribe()
		return func() {
			onDispose()
			sub.Unsubscribe()
		}
	})
}

// Next delivers v.
func (e *Emitter[T]) Next(v T) {
	if e.Closed() {
		return
	}
	if e.obs.Next != nil {
		e.obs.Next(v)
	}
}

// Error terminates the stream with err and releases the producer.
func (e *Emitter[T]) Error(err error) {
	if e.Closed() {
		return
	}
	e.done = true
	if e.obs.Error != nil {
		e.obs.Error(err)
	}
	e.sub.Unsubscribe()
}

// Complete terminates the stream normally and releases the producer.
func (e *Emitter[T]) Complete() {
	if e.Closed() {
		return
	}
	e.done = true
	if e.obs.Complete != nil {
		e.obs.Complete()
	}
	e.sub.Unsubscribe()
}

// Closed reports whether the subscriber is gone or the stream has ended.
func (e *Emitter[T]) Closed() bool {
	return e.done || e.sub.closed
}

// Of emits the given values in order, then completes.
func Of[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// FromSlice emits the elements of values in order, then completes.
func FromSlice[T any](values []T) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		for _, v := range values {
			if e.Closed() {
				return nil
			}
			e.Next(v)
		}
		e.Complete()
		return nil
	})
}

// Empty completes immediately without emitting.
func Empty[T any]() Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		e.Complete()
		return nil
	})
}

// Never returns a stream that never emits, errors or completes.
func Never[T any]() Stream[T] {
	return Stream[T]{}
}

// Throw errors immediately with err.
func Throw[T any](err error) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		e.Error(err)
		return nil
	})
}

// CallbackError reports a panic raised by a user callback inside an
// operator. It terminates only the subscription chain that ran the callback.
type CallbackError struct {
	Op    string
	Value any
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("rill: %s callback panicked: %v", e.Op, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *CallbackError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// guard runs fn and converts a panic into an error on e. It reports whether
// fn returned normally.
func guard[T any](e *Emitter[T], op string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.Error(&CallbackError{Op: op, Value: r})
			ok = false
		}
	}()
	fn()
	return true
}
