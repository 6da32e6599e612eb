// Package observe provides a minimal current-value publish/subscribe
// primitive: a holder for one value plus an ordered list of listeners.
//
// Set replaces the value and then invokes every listener synchronously, in
// registration order, on the caller's goroutine. A new subscriber immediately
// receives the current value, so late subscribers never miss the latest
// state. This is the whole contract - there is no buffering, no coalescing
// and no delivery off the committing goroutine.
//
// Stores built on State follow a single-writer discipline: exactly one owner
// calls Set, everyone else reads via Get or Subscribe.
package observe

import "sync"

// Listener receives each committed value.
type Listener[T any] func(T)

// CancelFunc releases a subscription. Safe to call more than once.
//
// Owners of a subscription must cancel it before the consuming context is
// torn down; the store never drops listeners on its own.
type CancelFunc func()

// State holds a current value and its subscribers.
//
// The zero value is not usable; construct with NewState.
type State[T any] struct {
	mu        sync.Mutex
	value     T
	listeners []*registration[T]
	nextID    int
}

type registration[T any] struct {
	id int
	fn Listener[T]
}

// NewState creates a State holding the given initial value.
// The initial value is not delivered to anyone; only Set publishes.
func NewState[T any](initial T) *State[T] {
	return &State[T]{value: initial}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value and notifies all listeners in registration
// order. Notification runs synchronously on the calling goroutine and
// completes before Set returns, so within one handler no consumer can
// observe a half-committed store.
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	// Snapshot under the lock so a listener may subscribe or cancel
	// without deadlocking the fan-out.
	snapshot := make([]*registration[T], len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, reg := range snapshot {
		reg.fn(value)
	}
}

// Subscribe registers a listener and immediately invokes it with the current
// value. Returns a CancelFunc that removes the listener.
func (s *State[T]) Subscribe(fn Listener[T]) CancelFunc {
	s.mu.Lock()
	reg := &registration[T]{id: s.nextID, fn: fn}
	s.nextID++
	s.listeners = append(s.listeners, reg)
	current := s.value
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, r := range s.listeners {
			if r.id == reg.id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Len reports the number of registered listeners. Used by tests to verify
// cancellation actually releases the subscription.
func (s *State[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
