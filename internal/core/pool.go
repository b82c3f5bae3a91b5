package core

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sync/semaphore"
)

// Pool is a fixed-capacity free-list allocator for T. Alloc and Free are
// lock-free on the hot path (a CAS loop over an array-backed free-list, the
// same index-chasing discipline a lock-free ring buffer uses for its head
// and tail), which is what makes them safe to call from a backend's
// interrupt-delivery goroutine: no blocking, no call into the Go
// allocator once the pool is built.
type Pool[T any] struct {
	slots []T
	next  []int32 // next[i] is the free-list successor of slot i
	top   atomic.Int32
	sem   *semaphore.Weighted // admission control: caps concurrent live allocations at capacity
	inUse atomic.Int32
}

// NewPool builds a pool of the given capacity with every slot linked onto
// the free list.
func NewPool[T any](capacity int) *Pool[T] {
	p := &Pool[T]{
		slots: make([]T, capacity),
		next:  make([]int32, capacity),
		sem:   semaphore.NewWeighted(int64(capacity)),
	}
	for i := 0; i < capacity; i++ {
		if i == capacity-1 {
			p.next[i] = -1
			continue
		}
		p.next[i] = int32(i + 1)
	}
	if capacity == 0 {
		p.top.Store(-1)
	}
	return p
}

// Alloc removes a slot from the free list and returns it zeroed. It
// returns (nil, false) when the pool is at capacity.
func (p *Pool[T]) Alloc() (*T, bool) {
	if len(p.slots) == 0 {
		return nil, false
	}
	if !p.sem.TryAcquire(1) {
		return nil, false
	}
	for {
		head := p.top.Load()
		if head == -1 {
			p.sem.Release(1)
			return nil, false
		}
		nxt := p.next[head]
		if p.top.CompareAndSwap(head, nxt) {
			var zero T
			p.slots[head] = zero
			p.inUse.Add(1)
			return &p.slots[head], true
		}
	}
}

// Free returns v to the free list. v must have come from this pool's Alloc.
func (p *Pool[T]) Free(v *T) {
	idx := p.indexOf(v)
	for {
		head := p.top.Load()
		p.next[idx] = head
		if p.top.CompareAndSwap(head, idx) {
			p.inUse.Add(-1)
			p.sem.Release(1)
			return
		}
	}
}

func (p *Pool[T]) indexOf(v *T) int32 {
	var zero T
	base := uintptr(unsafe.Pointer(&p.slots[0]))
	off := uintptr(unsafe.Pointer(v)) - base
	return int32(off / unsafe.Sizeof(zero))
}

// Cap returns the pool's fixed capacity.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// InUse returns the number of slots currently allocated and not yet freed.
func (p *Pool[T]) InUse() int { return int(p.inUse.Load()) }
