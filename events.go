package i2ccore

import "github.com/jangala-dev/i2ccore/internal/core"

// EventMask is the set of transfer outcomes a Builder.On handler or an IRQ
// hook can be registered against.
type EventMask = core.EventMask

// Event bits. A handler may be registered against any combination.
const (
	EventComplete  = core.EventComplete
	EventEarlyNack = core.EventEarlyNack
	EventNoSlave   = core.EventNoSlave
	EventError     = core.EventError
)

// Transaction is the read-only view of a posted transfer passed to
// handlers and IRQ hooks. It does not expose anything that could mutate a
// transaction once it has been submitted with Apply.
type Transaction struct{ t *core.Transaction }

// Address returns the transaction's 7- or 10-bit target address.
func (tx Transaction) Address() uint16 { return tx.t.Address }

// TenBit reports whether Address is a 10-bit address.
func (tx Transaction) TenBit() bool { return tx.t.TenBit }

// RootSegment returns the first segment in the chain, or the zero Segment
// (ok=false) for a zero-segment transaction.
func (tx Transaction) RootSegment() (Segment, bool) {
	s := tx.t.Root()
	return Segment{s}, s != nil
}

// Segment is the read-only view of one leg of a transaction passed to
// handlers and IRQ hooks.
type Segment struct{ s *core.Segment }

// GetBuf returns the segment's buffer. For an unresolved anonymous receive
// it is nil until the backend has issued the transfer.
func (s Segment) GetBuf() []byte { return s.s.GetBuf() }

// GetLen returns the segment's length.
func (s Segment) GetLen() int { return s.s.GetLen() }

// IsEphemeral reports whether the segment's data lives inline.
func (s Segment) IsEphemeral() bool { return s.s.IsEphemeral() }

// Direction reports whether the segment is a transmit or a receive.
func (s Segment) Direction() core.Direction { return s.s.Direction() }

// Next returns the following segment in the chain, if any.
func (s Segment) Next() (Segment, bool) {
	n := s.s.Next()
	return Segment{n}, n != nil
}

// HandlerFunc is a task-level completion handler registered with
// Builder.On.
type HandlerFunc func(tx Transaction, event EventMask)

// IRQHook runs synchronously on whatever goroutine delivers the event,
// strictly before any task-level handler for the same event. Keep it
// short.
type IRQHook func(seg Segment, event EventMask)
