package rill

// forward returns an observer that relays terminal notifications to e.
func forward[T, U any](e *Emitter[U], next func(T)) Observer[T] {
	return Observer[T]{Next: next, Error: e.Error, Complete: e.Complete}
}

// Map applies f to every value of s.
func Map[A, B any](s Stream[A], f func(A) B) Stream[B] {
	return Create(func(e *Emitter[B]) func() {
		return s.Subscribe(forward(e, func(v A) {
			var out B
			if guard(e, "map", func() { out = f(v) }) {
				e.Next(out)
			}
		})).Unsubscribe
	})
}

// MapTo replaces every value of s with v.
func MapTo[A, B any](s Stream[A], v B) Stream[B] {
	return Create(func(e *Emitter[B]) func() {
		return s.Subscribe(forward(e, func(A) { e.Next(v) })).Unsubscribe
	})
}

// Filter emits only the values of s for which keep returns true.
func Filter[T any](s Stream[T], keep func(T) bool) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		return s.Subscribe(forward(e, func(v T) {
			var ok bool
			if guard(e, "filter", func() { ok = keep(v) }) && ok {
				e.Next(v)
			}
		})).Unsubscribe
	})
}

// Scan folds s into a running accumulator starting at seed and emits the
// accumulator after every value. The seed itself is not emitted.
func Scan[T, A any](s Stream[T], seed A, f func(A, T) A) Stream[A] {
	return Create(func(e *Emitter[A]) func() {
		acc := seed
		return s.Subscribe(forward(e, func(v T) {
			var next A
			if guard(e, "scan", func() { next = f(acc, v) }) {
				acc = next
				e.Next(acc)
			}
		})).Unsubscribe
	})
}

// StartWith emits values before subscribing to s.
func StartWith[T any](s Stream[T], values ...T) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		for _, v := range values {
			if e.Closed() {
				return nil
			}
			e.Next(v)
		}
		if e.Closed() {
			return nil
		}
		return s.Subscribe(forward(e, e.Next)).Unsubscribe
	})
}

// Merge interleaves the values of every stream in the order they are
// emitted. It completes once all inputs complete and errors as soon as one
// input errors.
func Merge[T any](streams ...Stream[T]) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		if len(streams) == 0 {
			e.Complete()
			return nil
		}
		remaining := len(streams)
		subs := make([]*Subscription, 0, len(streams))
		for _, s := range streams {
			if e.Closed() {
				break
			}
			subs = append(subs, s.Subscribe(Observer[T]{
				Next:  e.Next,
				Error: e.Error,
				Complete: func() {
					remaining--
					if remaining == 0 {
						e.Complete()
					}
				},
			}))
		}
		return func() {
			for _, sub := range subs {
				sub.Unsubscribe()
			}
		}
	})
}

// WithLatestFrom combines every value of s with the most recent value of
// other. Values of s that arrive before other has emitted are dropped.
// Completion of other is ignored; its errors terminate the result.
func WithLatestFrom[A, B, R any](s Stream[A], other Stream[B], f func(A, B) R) Stream[R] {
	return Create(func(e *Emitter[R]) func() {
		var latest B
		var has bool
		otherSub := other.Subscribe(Observer[B]{
			Next: func(v B) {
				latest = v
				has = true
			},
			Error: e.Error,
		})
		if e.Closed() {
			return otherSub.Unsubscribe
		}
		srcSub := s.Subscribe(forward(e, func(v A) {
			if !has {
				return
			}
			var out R
			if guard(e, "withLatestFrom", func() { out = f(v, latest) }) {
				e.Next(out)
			}
		}))
		return func() {
			srcSub.Unsubscribe()
			otherSub.Unsubscribe()
		}
	})
}

// DropRepeats suppresses values equal to the previously emitted one.
func DropRepeats[T comparable](s Stream[T]) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		var last T
		var has bool
		return s.Subscribe(forward(e, func(v T) {
			if has && v == last {
				return
			}
			last = v
			has = true
			e.Next(v)
		})).Unsubscribe
	})
}

// Take emits the first n values of s, then completes.
func Take[T any](s Stream[T], n int) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		if n <= 0 {
			e.Complete()
			return nil
		}
		count := 0
		return s.Subscribe(forward(e, func(v T) {
			count++
			e.Next(v)
			if count >= n {
				e.Complete()
			}
		})).Unsubscribe
	})
}

// Tap calls fn for every value of s and passes the value through unchanged.
func Tap[T any](s Stream[T], fn func(T)) Stream[T] {
	return Create(func(e *Emitter[T]) func() {
		return s.Subscribe(forward(e, func(v T) {
			if guard(e, "tap", func() { fn(v) }) {
				e.Next(v)
			}
		})).Unsubscribe
	})
}
