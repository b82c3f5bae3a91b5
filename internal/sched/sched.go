// Package sched is the cooperative task-level scheduler the resource
// manager posts completion handlers onto: one dedicated goroutine drains a
// FIFO of callbacks, running each to completion before starting the next.
package sched

import (
	"sync"

	"github.com/eapache/queue"
)

// Scheduler buffers posted callbacks in a growable ring buffer and runs
// them one at a time on its own goroutine. PostCallback never blocks: a
// backend's interrupt-delivery goroutine can always hand off work here
// without waiting on whatever the scheduler is currently running.
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	q      *queue.Queue
	closed bool
	done   chan struct{}
}

// New starts a Scheduler's drain goroutine.
func New() *Scheduler {
	s := &Scheduler{q: queue.New(), done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// PostCallback enqueues fn to run later, on the scheduler's goroutine.
func (s *Scheduler) PostCallback(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.q.Add(fn)
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for s.q.Length() == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.q.Length() == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		fn := s.q.Remove().(func())
		s.mu.Unlock()
		fn()
	}
}

// Close stops accepting new callbacks and waits for already-queued ones to
// finish running.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	<-s.done
}
