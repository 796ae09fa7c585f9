// Package store holds a single immutable state snapshot and publishes
// replacements of it to subscribers.
package store

import (
	"sync"
	"sync/atomic"
)

// Reader is the read-only view of a Store handed to callers outside the
// owning component.
type Reader[S any] interface {
	// Snapshot returns the currently published state.
	Snapshot() S
	// Version increments once per published transition.
	Version() uint64
	// Subscribe registers fn to be called with every published snapshot.
	Subscribe(fn func(S)) (unsubscribe func())
}

type published[S any] struct {
	state   S
	version uint64
}

type subscription[S any] struct {
	id int
	fn func(S)
}

// Store owns one state snapshot. Writers are serialized; readers load the
// current snapshot without locking and always see a complete one.
type Store[S any] struct {
	current atomic.Pointer[published[S]]

	writeMu sync.Mutex

	subsMu sync.RWMutex
	subs   []subscription[S]
	nextID int
}

// New creates a store publishing initial as version zero.
func New[S any](initial S) *Store[S] {
	s := &Store[S]{}
	s.current.Store(&published[S]{state: initial})
	return s
}

var _ Reader[struct{}] = (*Store[struct{}])(nil)

func (s *Store[S]) Snapshot() S {
	return s.current.Load().state
}

func (s *Store[S]) Version() uint64 {
	return s.current.Load().version
}

// Update applies producer to the current snapshot. When producer reports a
// change the result is published and subscribers are notified before Update
// returns. A declined transition leaves the snapshot and version untouched.
//
// Subscribers run while the write lock is held and must not call Update on
// the same store.
func (s *Store[S]) Update(producer func(S) (S, bool)) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.current.Load()
	next, changed := producer(cur.state)
	if !changed {
		return false
	}

	s.current.Store(&published[S]{state: next, version: cur.version + 1})
	s.notify(next)
	return true
}

// Subscribe registers fn for future publications. It is not called with the
// current snapshot.
func (s *Store[S]) Subscribe(fn func(S)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription[S]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store[S]) unsubscribe(id int) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Store[S]) notify(state S) {
	s.subsMu.RLock()
	subs := s.subs
	s.subsMu.RUnlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}
