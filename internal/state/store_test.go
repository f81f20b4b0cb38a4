package state

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/MikeSquared-Agency/haven/internal/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.October, 17, 14, 0, 0, 0, time.UTC)}
}

func TestStore_AcquireCommit(t *testing.T) {
	s := NewStore(time.Hour, discardLogger())

	sess := s.Acquire("a")
	c := sess.Conversation()
	c.Merge(report.Fields{report.FirstName: "Dorothy"})
	sess.Commit(c)
	sess.Release()

	snap, ok := s.Snapshot("a")
	if !ok || snap.Accumulated[report.FirstName] != "Dorothy" {
		t.Fatalf("snapshot = %+v, %v", snap, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_UncommittedWorkIsDiscarded(t *testing.T) {
	s := NewStore(time.Hour, discardLogger())

	sess := s.Acquire("a")
	c := sess.Conversation()
	c.Merge(report.Fields{report.FirstName: "Dorothy"})
	sess.Release()

	snap, _ := s.Snapshot("a")
	if snap.Accumulated.Has(report.FirstName) {
		t.Error("uncommitted change leaked into the session")
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(time.Hour, discardLogger())
	sess := s.Acquire("a")
	sess.Release()

	if !s.Reset("a") {
		t.Error("Reset of existing session reported false")
	}
	if s.Reset("a") {
		t.Error("Reset of missing session reported true")
	}
	if _, ok := s.Snapshot("a"); ok {
		t.Error("snapshot found a reset session")
	}
}

func TestStore_ConcurrentFirstMessages(t *testing.T) {
	s := NewStore(time.Hour, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := s.Acquire("shared")
			c := sess.Conversation()
			c.Turns++
			sess.Commit(c)
			sess.Release()
		}()
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	snap, _ := s.Snapshot("shared")
	if snap.Turns != 50 {
		t.Errorf("turns = %d, want 50", snap.Turns)
	}
}

func TestStore_Sweep(t *testing.T) {
	clock := newClock()
	s := NewStoreWithClock(time.Hour, clock.Now, discardLogger())

	s.Acquire("idle").Release()
	clock.Advance(30 * time.Minute)
	s.Acquire("recent").Release()
	busy := s.Acquire("busy")

	clock.Advance(45 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
	if _, ok := s.Snapshot("idle"); ok {
		t.Error("idle session survived the sweep")
	}

	clock.Advance(2 * time.Hour)
	if n := s.Sweep(); n != 1 {
		t.Errorf("swept %d, want 1 (busy session must be skipped)", n)
	}
	busy.Release()
	if s.Len() != 1 {
		t.Errorf("Len = %d, want only the busy session", s.Len())
	}
}

func TestStore_AcquireAfterSweepStartsFresh(t *testing.T) {
	clock := newClock()
	s := NewStoreWithClock(time.Minute, clock.Now, discardLogger())

	sess := s.Acquire("a")
	c := sess.Conversation()
	c.Turns = 3
	sess.Commit(c)
	sess.Release()

	clock.Advance(time.Hour)
	s.Sweep()

	sess = s.Acquire("a")
	defer sess.Release()
	if sess.Conversation().Turns != 0 {
		t.Error("expired conversation was reused")
	}
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	s := NewStore(time.Hour, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
