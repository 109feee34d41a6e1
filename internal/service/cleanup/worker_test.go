package cleanup

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls int
	idle  time.Duration
	done  time.Duration
}

func (s *countingSweeper) CleanupOldSessions(idleTTL, finishedTTL time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.idle, s.done = idleTTL, finishedTTL
	return 0
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestWorkerRunsUntilCancelled(t *testing.T) {
	sweeper := &countingSweeper{}
	w := NewWorker(sweeper, 5*time.Millisecond, time.Hour, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	deadline := time.After(2 * time.Second)
	for sweeper.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", sweeper.count())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	sweeper.mu.Lock()
	defer sweeper.mu.Unlock()
	if sweeper.idle != time.Hour || sweeper.done != time.Minute {
		t.Errorf("unexpected TTLs passed to the sweeper: %s, %s", sweeper.idle, sweeper.done)
	}
}
