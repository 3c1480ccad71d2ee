// Package scheduler runs deferred work items at a target time. Fired
// callbacks are responsible for taking the store lock themselves, so timers
// and request handlers share one serialization domain.
package scheduler

import (
	"sync"
	"time"
)

type Scheduler struct {
	mu     sync.Mutex
	next   int64
	timers map[int64]*time.Timer
	closed bool
}

func New() *Scheduler {
	return &Scheduler{timers: map[int64]*time.Timer{}}
}

// At arranges for fn to run at or after t without blocking the caller.
// A target in the past fires immediately. The returned handle is only
// useful for debugging; entries cannot be cancelled individually.
func (s *Scheduler) At(t time.Time, fn func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	s.next++
	id := s.next
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
	return id
}

// Pending reports the number of scheduled entries that have not fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop halts every pending timer. Entries that have not fired are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
