package core

import "testing"

func TestPoolAllocFreeReuse(t *testing.T) {
	p := NewPool[Segment](2)

	a, ok := p.Alloc()
	if !ok {
		t.Fatalf("Alloc() failed with capacity available")
	}
	b, ok := p.Alloc()
	if !ok {
		t.Fatalf("second Alloc() failed with capacity available")
	}
	if _, ok := p.Alloc(); ok {
		t.Fatalf("Alloc() succeeded past capacity")
	}
	if got := p.InUse(); got != 2 {
		t.Fatalf("InUse() = %d, want 2", got)
	}

	p.Free(a)
	c, ok := p.Alloc()
	if !ok {
		t.Fatalf("Alloc() after Free() failed")
	}
	if c != a {
		t.Fatalf("Alloc() after Free() did not reuse the freed slot")
	}

	p.Free(b)
	p.Free(c)
	if got := p.InUse(); got != 0 {
		t.Fatalf("InUse() = %d, want 0 once every allocation is freed", got)
	}
}

func TestPoolZeroCapacity(t *testing.T) {
	p := NewPool[Transaction](0)
	if _, ok := p.Alloc(); ok {
		t.Fatalf("Alloc() on a zero-capacity pool should always fail")
	}
}

func TestPoolAllocZeroesSlot(t *testing.T) {
	p := NewPool[Segment](1)
	s, _ := p.Alloc()
	s.SetDirection(Receive)
	s.Set([]byte("dirty"))
	p.Free(s)

	s2, ok := p.Alloc()
	if !ok {
		t.Fatalf("Alloc() after Free() failed")
	}
	if s2.Direction() != Transmit || s2.GetBuf() != nil {
		t.Fatalf("reused slot was not zeroed: dir=%v buf=%v", s2.Direction(), s2.GetBuf())
	}
}
