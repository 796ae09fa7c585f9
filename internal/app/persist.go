package app

import (
	"context"
	"log"
	"sync"
	"time"
)

const saveTimeout = 10 * time.Second

// snapshotWriter saves the latest snapshot it was handed on a background
// goroutine. Snapshots that arrive while a save is running collapse into one
// follow-up save.
type snapshotWriter[T any] struct {
	name string
	save func(context.Context, T) error

	mu     sync.Mutex
	latest T
	dirty  bool

	signal chan struct{}
	done   chan struct{}
}

func newSnapshotWriter[T any](name string, save func(context.Context, T) error) *snapshotWriter[T] {
	return &snapshotWriter[T]{
		name:   name,
		save:   save,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Offer records v as the value to persist. It never blocks, so it is safe
// to call from a store subscriber.
func (w *snapshotWriter[T]) Offer(v T) {
	w.mu.Lock()
	w.latest = v
	w.dirty = true
	w.mu.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// Run saves offered snapshots until Stop, then flushes anything pending.
func (w *snapshotWriter[T]) Run() {
	for {
		select {
		case <-w.signal:
			w.flush()
		case <-w.done:
			w.flush()
			return
		}
	}
}

func (w *snapshotWriter[T]) Stop() {
	close(w.done)
}

func (w *snapshotWriter[T]) flush() {
	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return
	}
	v := w.latest
	w.dirty = false
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := w.save(ctx, v); err != nil {
		log.Printf("[app] save %s failed: %v", w.name, err)
	}
}
