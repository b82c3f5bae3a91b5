package core

import "sync"

// MaxHandlers is the number of fixed event-handler slots a Transaction
// carries, mirroring the four-callback layout of the original design.
const MaxHandlers = 4

// HandlerFunc is a task-level completion handler registered against one or
// more event bits.
type HandlerFunc func(t *Transaction, event EventMask)

type handlerSlot struct {
	mask EventMask
	fn   HandlerFunc
}

// Issuer routes allocation and freeing of Transactions and Segments,
// respecting a transaction's irqsafe flag. A heap-backed Issuer uses the Go
// allocator directly; a pool-backed Issuer draws from a fixed-capacity Pool
// so it can be called from ISR context.
type Issuer interface {
	NewTransaction(addr uint16, hz uint32, tenBit, irqsafe bool) *Transaction
	NewSegment(irqsafe bool) *Segment
	FreeSegment(s *Segment, irqsafe bool)
	FreeTransaction(t *Transaction)
}

// Transaction is a FIFO-queued unit of work: an address, a chain of
// segments to execute against it in order, and up to MaxHandlers
// completion callbacks. A Transaction belongs to exactly one
// ResourceManager's queue at a time.
type Transaction struct {
	mu sync.Mutex

	Address  uint16
	TenBit   bool
	Hz       uint32
	Repeated bool
	IRQSafe  bool
	Issuer   Issuer

	root, current *Segment

	// next chains this transaction behind another in a ResourceManager's
	// queue. It is guarded by that ResourceManager's own mutex, not t.mu:
	// the decision to append and the dequeue that later detaches a
	// transaction from r.head must serialize against each other, and they
	// happen on two different Transactions' mu otherwise — see
	// ResourceManager.PostTransaction and ResourceManager.ProcessEvent.
	next *Transaction

	handlers       [MaxHandlers]handlerSlot
	nHandlers      int
	handlerDropped bool
}

// InitTransaction resets t in place to a fresh transaction. Used both by
// NewTransaction and by a pool Issuer reusing a freed slot.
func InitTransaction(t *Transaction, addr uint16, hz uint32, tenBit, irqsafe bool, issuer Issuer) *Transaction {
	*t = Transaction{Address: addr, Hz: hz, TenBit: tenBit, IRQSafe: irqsafe, Issuer: issuer}
	return t
}

// NewTransaction heap-allocates a fresh transaction.
func NewTransaction(addr uint16, hz uint32, tenBit, irqsafe bool, issuer Issuer) *Transaction {
	return InitTransaction(&Transaction{}, addr, hz, tenBit, irqsafe, issuer)
}

// NewSegment allocates a segment through the transaction's Issuer and
// appends it to the chain. Returns nil if the Issuer is out of capacity
// (pool exhaustion).
func (t *Transaction) NewSegment() *Segment {
	s := t.Issuer.NewSegment(t.IRQSafe)
	if s == nil {
		return nil
	}
	t.mu.Lock()
	if t.root == nil {
		t.root = s
	} else {
		t.current.SetNext(s)
	}
	t.current = s
	t.mu.Unlock()
	return s
}

// Root returns the first segment in the chain.
func (t *Transaction) Root() *Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root
}

// Current returns the segment the state machine is presently executing.
func (t *Transaction) Current() *Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// ResetCurrent rewinds the cursor to the head of the chain, called when a
// transaction is (re-)started.
func (t *Transaction) ResetCurrent() {
	t.mu.Lock()
	t.current = t.root
	t.mu.Unlock()
}

// AdvanceSegment moves the cursor to the next segment and reports whether
// that segment exists.
func (t *Transaction) AdvanceSegment() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = t.current.Next()
	return t.current != nil
}

// CallIRQCB invokes the current segment's IRQ hook, if any. Runs
// synchronously on whatever goroutine ProcessEvent is called from.
func (t *Transaction) CallIRQCB(event EventMask) {
	t.current.callIRQHook(event)
}

// AddEvent registers fn against mask in the next free handler slot. It
// returns false and latches HandlerDropped when all MaxHandlers slots are
// already taken.
func (t *Transaction) AddEvent(mask EventMask, fn HandlerFunc) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nHandlers >= MaxHandlers {
		t.handlerDropped = true
		return false
	}
	t.handlers[t.nHandlers] = handlerSlot{mask: mask, fn: fn}
	t.nHandlers++
	return true
}

// HandlerDropped reports whether an On() call was refused because the
// handler table was full.
func (t *Transaction) HandlerDropped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handlerDropped
}

// HandlerCount reports how many handler slots are occupied.
func (t *Transaction) HandlerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nHandlers
}

// ProcessEvent runs every registered handler whose mask intersects event.
// Called once, from task context, after the transaction has left the
// queue.
func (t *Transaction) ProcessEvent(event EventMask) {
	t.mu.Lock()
	n := t.nHandlers
	handlers := t.handlers
	t.mu.Unlock()
	for i := 0; i < n; i++ {
		if handlers[i].mask&event != 0 {
			handlers[i].fn(t, event)
		}
	}
}

// ReleaseSegments walks the segment chain, calling free on each one, then
// clears the chain. The caller's free closure is responsible for actually
// returning the segment to whichever allocator produced it.
func (t *Transaction) ReleaseSegments(free func(*Segment)) {
	t.mu.Lock()
	s := t.root
	t.root, t.current = nil, nil
	t.mu.Unlock()
	for s != nil {
		n := s.Next()
		free(s)
		s = n
	}
}
