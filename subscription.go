package rill

// Subscription is the disposable handle returned by Stream.Subscribe and Run.
// Unsubscribe runs every registered teardown once, newest first. Subscriptions
// are not safe for concurrent use; rill runs on a single event loop.
type Subscription struct {
	teardowns []func()
	closed    bool
}

// Add registers a teardown. If the subscription is already closed, fn runs
// immediately.
func (s *Subscription) Add(fn func()) {
	if fn == nil {
		return
	}
	if s.closed {
		fn()
		return
	}
	s.teardowns = append(s.teardowns, fn)
}

// AddSubscription ties the lifetime of child to s.
func (s *Subscription) AddSubscription(child *Subscription) {
	if child == nil || child == s {
		return
	}
	s.Add(child.Unsubscribe)
}

// Unsubscribe releases every resource attached to s. Calling it more than
// once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s.closed {
		return
	}
	s.closed = true
	fns := s.teardowns
	s.teardowns = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Closed reports whether Unsubscribe has run.
func (s *Subscription) Closed() bool {
	return s.closed
}
