package rill

type subjectEntry[T any] struct {
	id uint64
	e  *Emitter[T]
}

// Subject is a hot stream that multicasts the values pushed into it to every
// current subscriber. A remembering subject also replays its latest value to
// each new subscriber.
type Subject[T any] struct {
	observers []subjectEntry[T]
	nextID    uint64
	remember  bool
	latest    T
	has       bool
	done      bool
	err       error

	emitting bool
	pending  []T
}

// NewSubject creates a subject without replay.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// NewRememberSubject creates a subject that replays its latest value to new
// subscribers. It starts empty.
func NewRememberSubject[T any]() *Subject[T] {
	return &Subject[T]{remember: true}
}

// Next broadcasts v to the subscribers present when its broadcast starts.
// A Next called from a subscriber is queued and broadcast once the current
// value has reached every subscriber, so all subscribers see the same order.
func (s *Subject[T]) Next(v T) {
	if s.done {
		return
	}
	if s.emitting {
		s.pending = append(s.pending, v)
		return
	}
	s.emitting = true
	defer func() {
		s.emitting = false
		s.pending = nil
	}()
	for {
		if s.remember {
			s.latest = v
			s.has = true
		}
		for _, o := range s.snapshot() {
			o.e.Next(v)
		}
		if s.done || len(s.pending) == 0 {
			return
		}
		v = s.pending[0]
		s.pending = s.pending[1:]
	}
}

// Error terminates every subscriber with err. Later subscribers receive err
// immediately.
func (s *Subject[T]) Error(err error) {
	if s.done {
		return
	}
	s.done = true
	s.err = err
	obs := s.snapshot()
	s.observers = nil
	for _, o := range obs {
		o.e.Error(err)
	}
}

// Complete terminates every subscriber.
func (s *Subject[T]) Complete() {
	if s.done {
		return
	}
	s.done = true
	obs := s.snapshot()
	s.observers = nil
	for _, o := range obs {
		o.e.Complete()
	}
}

// Latest returns the remembered value, if any.
func (s *Subject[T]) Latest() (T, bool) {
	return s.latest, s.has
}

// ObserverCount returns the number of live subscribers.
func (s *Subject[T]) ObserverCount() int {
	return len(s.observers)
}

// Stream exposes the subject as a Stream.
func (s *Subject[T]) Stream() Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		if s.done {
			if s.err != nil {
				e.Error(s.err)
			} else {
				e.Complete()
			}
			return nil
		}
		s.nextID++
		id := s.nextID
		s.observers = append(s.observers, subjectEntry[T]{id: id, e: e})
		if s.remember && s.has {
			e.Next(s.latest)
		}
		return func() { s.remove(id) }
	})
}

// reset forgets the remembered value and any queued ones.
func (s *Subject[T]) reset() {
	var zero T
	s.latest = zero
	s.has = false
	s.pending = nil
}

func (s *Subject[T]) snapshot() []subjectEntry[T] {
	if len(s.observers) == 0 {
		return nil
	}
	return append([]subjectEntry[T](nil), s.observers...)
}

func (s *Subject[T]) remove(id uint64) {
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}
