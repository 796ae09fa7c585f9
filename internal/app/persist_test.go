package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSnapshotWriterFlushesLatestOnStop(t *testing.T) {
	var (
		mu    sync.Mutex
		saved []int
	)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	w := newSnapshotWriter("numbers", func(_ context.Context, v int) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		mu.Lock()
		saved = append(saved, v)
		mu.Unlock()
		return nil
	})

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	w.Offer(1)
	<-started
	for i := 2; i <= 5; i++ {
		w.Offer(i)
	}
	w.Stop()
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(saved) != 2 || saved[0] != 1 || saved[1] != 5 {
		t.Fatalf("expected saves [1 5], got %v", saved)
	}
}

func TestSnapshotWriterKeepsRunningAfterError(t *testing.T) {
	calls := make(chan int, 4)
	w := newSnapshotWriter("failing", func(_ context.Context, v int) error {
		calls <- v
		return errors.New("disk full")
	})
	go w.Run()
	defer w.Stop()

	w.Offer(1)
	if got := <-calls; got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	w.Offer(2)
	select {
	case got := <-calls:
		if got != 2 {
			t.Fatalf("expected 2, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("second save never ran")
	}
}
