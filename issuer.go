package i2ccore

import "github.com/jangala-dev/i2ccore/internal/core"

// heapIssuer allocates Transactions and Segments on the Go heap. It backs
// the ordinary (non-irqsafe) TransferTo path; nothing it does is safe to
// call from a backend's interrupt-delivery goroutine, since the Go
// allocator itself is not.
type heapIssuer struct{}

func (heapIssuer) NewTransaction(addr uint16, hz uint32, tenBit, irqsafe bool) *core.Transaction {
	return core.NewTransaction(addr, hz, tenBit, irqsafe, heapIssuer{})
}

func (heapIssuer) NewSegment(irqsafe bool) *core.Segment { return &core.Segment{} }

func (heapIssuer) FreeSegment(s *core.Segment, irqsafe bool) {}

func (heapIssuer) FreeTransaction(t *core.Transaction) {
	t.ReleaseSegments(func(*core.Segment) {})
}

// poolIssuer draws Transactions and Segments from fixed-capacity pools,
// making TransferToIRQSafe safe to call from ISR context: no allocator
// call, no blocking, a bounded failure (ErrMissingPoolAllocator /
// ErrNullSegment) instead of unbounded memory growth.
type poolIssuer struct {
	txPool  *core.Pool[core.Transaction]
	segPool *core.Pool[core.Segment]
}

func newPoolIssuer(txCap, segCap int) *poolIssuer {
	return &poolIssuer{
		txPool:  core.NewPool[core.Transaction](txCap),
		segPool: core.NewPool[core.Segment](segCap),
	}
}

func (p *poolIssuer) NewTransaction(addr uint16, hz uint32, tenBit, irqsafe bool) *core.Transaction {
	t, ok := p.txPool.Alloc()
	if !ok {
		return nil
	}
	return core.InitTransaction(t, addr, hz, tenBit, irqsafe, p)
}

func (p *poolIssuer) NewSegment(irqsafe bool) *core.Segment {
	s, ok := p.segPool.Alloc()
	if !ok {
		return nil
	}
	return s
}

func (p *poolIssuer) FreeSegment(s *core.Segment, irqsafe bool) {
	p.segPool.Free(s)
}

func (p *poolIssuer) FreeTransaction(t *core.Transaction) {
	t.ReleaseSegments(func(s *core.Segment) { p.segPool.Free(s) })
	p.txPool.Free(t)
}
