// Package presentation holds the screen state containers for the book list,
// favorites and detail screens. View models own their state and publish a new
// immutable snapshot on every transition.
package presentation

import (
	"context"
	"sync"
)

// State is an observable value. Every Update replaces the value and wakes all
// watchers; watchers that fall behind only see the latest value.
type State[T any] struct {
	mu      sync.Mutex
	value   T
	changed chan struct{}
}

// NewState creates a State holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{value: initial, changed: make(chan struct{})}
}

// Value returns the current snapshot.
func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Update replaces the snapshot with fn(current).
func (s *State[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// Watch emits the current value and then every later one until ctx is done.
func (s *State[T]) Watch(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			s.mu.Lock()
			value, changed := s.value, s.changed
			s.mu.Unlock()

			select {
			case out <- value:
			case <-ctx.Done():
				return
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
