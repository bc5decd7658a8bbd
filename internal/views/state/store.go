// Package state holds the per-view state that asynchronous requests update.
//
// Every request takes a Ticket before it starts. When the response arrives it
// is committed with that ticket and applied only if no newer request has
// started since and the view has not been closed. Late responses are dropped.
package state

import (
	"sync"
)

// Ticket identifies one in-flight request against a Store.
type Ticket uint64

// Store is safe for concurrent use. No lock is held while a request runs.
type Store[T any] struct {
	mu      sync.RWMutex
	value   T
	set     bool
	issued  Ticket
	applied Ticket
	closed  bool
}

func New[T any]() *Store[T] {
	return &Store[T]{}
}

// Begin issues the ticket for a new request. It supersedes every earlier ticket.
func (s *Store[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit applies v if t is still the latest ticket and the store is open.
// It reports whether v was applied.
func (s *Store[T]) Commit(t Ticket, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || t != s.issued || t <= s.applied {
		return false
	}
	s.value = v
	s.set = true
	s.applied = t
	return true
}

// Current reports whether t is still the latest ticket of an open store.
func (s *Store[T]) Current(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && t == s.issued
}

// Get returns the last applied value and whether one was ever applied.
func (s *Store[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.set
}

// Set replaces the value directly, outside of any request. It also
// invalidates outstanding tickets, so a response already in flight cannot
// overwrite a local change.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.issued++
	s.applied = s.issued
	s.value = v
	s.set = true
}

// Reset clears the value and invalidates outstanding tickets.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.issued++
	s.applied = s.issued
	s.value = zero
	s.set = false
}

// Close marks the view as gone. Every later Commit is a no-op.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store[T]) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
