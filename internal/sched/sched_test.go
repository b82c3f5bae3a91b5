package sched_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jangala-dev/i2ccore/internal/sched"
)

func TestSchedulerRunsCallbacksInOrder(t *testing.T) {
	s := sched.New()
	defer s.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		i := i
		s.PostCallback(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}

	waitOrTimeout(t, &wg, time.Second)

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want 0..4 in order", order)
		}
	}
}

func TestSchedulerDoesNotBlockPoster(t *testing.T) {
	s := sched.New()
	defer s.Close()

	block := make(chan struct{})
	s.PostCallback(func() { <-block })

	done := make(chan struct{})
	go func() {
		s.PostCallback(func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("PostCallback blocked while a prior callback was still running")
	}
	close(block)
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("timed out waiting for callbacks")
	}
}
