package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAtFires(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Int32
	s.At(time.Now().Add(50*time.Millisecond), func() { fired.Add(1) })
	if got := s.Pending(); got != 1 {
		t.Fatalf("pending %d, want 1", got)
	}

	deadline := time.Now().Add(3 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if fired.Load() != 1 {
		t.Fatal("timer never fired")
	}
	if got := s.Pending(); got != 0 {
		t.Fatalf("pending %d after fire, want 0", got)
	}
}

func TestAtPastFiresImmediately(t *testing.T) {
	s := New()
	defer s.Stop()

	done := make(chan struct{})
	s.At(time.Now().Add(-time.Hour), func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("past-dated entry did not fire")
	}
}

func TestStopDropsPending(t *testing.T) {
	s := New()

	var fired atomic.Int32
	s.At(time.Now().Add(time.Hour), func() { fired.Add(1) })
	s.Stop()

	if got := s.Pending(); got != 0 {
		t.Fatalf("pending %d after stop, want 0", got)
	}
	if id := s.At(time.Now(), func() { fired.Add(1) }); id != 0 {
		t.Fatalf("stopped scheduler accepted entry %d", id)
	}
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("stopped scheduler fired %d entries", fired.Load())
	}
}
