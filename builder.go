package i2ccore

import (
	"runtime"

	"github.com/jangala-dev/i2ccore/internal/core"
)

// Builder accumulates segments and handlers for one transfer, then submits
// it with Apply. There is no implicit submission at scope exit — Go gives
// us no deterministic destructor to hang that on — so Apply is the
// explicit terminator; a Builder dropped without Apply only ever leaks a
// single transaction back to its Issuer, caught by the finalizer below as
// a debug aid.
type Builder struct {
	i2c     *I2C
	xact    *core.Transaction
	irqsafe bool
	posted  bool
	rc      Error
}

func newBuilder(i *I2C, addr uint16, tenBit, irqsafe bool) *Builder {
	b := &Builder{i2c: i, irqsafe: irqsafe, rc: ErrNone}
	if irqsafe && i.pool == nil {
		b.rc = ErrMissingPoolAllocator
		return b
	}
	issuer := i.issuerFor(irqsafe)
	b.xact = issuer.NewTransaction(addr, i.hz, tenBit, irqsafe)
	if b.xact == nil {
		if irqsafe {
			b.rc = ErrMissingPoolAllocator
		} else {
			b.rc = ErrNullTransaction
		}
		return b
	}
	runtime.SetFinalizer(b, finalizeBuilder)
	return b
}

func finalizeBuilder(b *Builder) {
	if !b.posted && b.xact != nil {
		b.freeTransaction()
	}
}

// Frequency overrides the clock rate for this transfer only.
func (b *Builder) Frequency(hz uint32) *Builder {
	if b.xact != nil {
		b.xact.Hz = hz
	}
	return b
}

// RepeatedStart suppresses the STOP condition after the last segment, so a
// following TransferTo on the same bus can issue a repeated START instead.
func (b *Builder) RepeatedStart() *Builder {
	if b.xact != nil {
		b.xact.Repeated = true
	}
	return b
}

// Tx appends a transmit segment that references p directly; p must not be
// modified until the transfer completes.
func (b *Builder) Tx(p []byte) *Builder {
	return b.appendSegment(core.Transmit, func(s *core.Segment) { s.Set(p) })
}

// Rx appends a receive segment that writes into p directly; p must remain
// valid until the transfer completes.
func (b *Builder) Rx(p []byte) *Builder {
	return b.appendSegment(core.Receive, func(s *core.Segment) { s.Set(p) })
}

// RxLen appends a receive segment of n bytes with no caller-supplied
// buffer: up to core.InlineCap bytes land inline on the segment itself, longer
// receives are allocated anonymously by the backend and delivered by
// reference to the completion handler.
func (b *Builder) RxLen(n int) *Builder {
	return b.appendSegment(core.Receive, func(s *core.Segment) { s.SetEphemeralLen(n) })
}

func (b *Builder) appendSegment(dir core.Direction, set func(*core.Segment)) *Builder {
	if b.xact == nil {
		return b
	}
	s := b.xact.NewSegment()
	if s == nil {
		b.rc = ErrNullSegment
		return b
	}
	set(s)
	s.SetDirection(dir)
	return b
}

// On registers fn against mask in the next free handler slot (there are
// MaxHandlers of them). Once all slots are taken, further On calls are
// silently skipped for the purpose of apply() succeeding — the transaction
// still posts — but HandlerDropped reports the condition so a caller that
// cares can check.
func (b *Builder) On(mask EventMask, fn HandlerFunc) *Builder {
	if b.xact == nil {
		return b
	}
	b.xact.AddEvent(mask, func(t *core.Transaction, ev core.EventMask) {
		fn(Transaction{t}, ev)
	})
	return b
}

// OnIRQ installs seg's ISR-context hook, called synchronously on whatever
// goroutine delivers the event, strictly before any On handler for the
// same event.
func (b *Builder) OnIRQ(hook IRQHook) *Builder {
	if b.xact == nil {
		return b
	}
	if s := b.xact.Current(); s != nil {
		s.SetIRQHook(func(cs *core.Segment, ev core.EventMask) { hook(Segment{cs}, ev) })
	}
	return b
}

// HandlerDropped reports whether an On call was refused because the
// handler table was already full.
func (b *Builder) HandlerDropped() bool {
	if b.xact == nil {
		return false
	}
	return b.xact.HandlerDropped()
}

// Apply submits the transfer. Calling it more than once returns the same
// result every time without re-submitting.
func (b *Builder) Apply() Error {
	if b.posted {
		return b.rc
	}
	b.posted = true
	runtime.SetFinalizer(b, nil)

	if b.rc != ErrNone {
		if b.xact != nil {
			b.freeTransaction()
		}
		return b.rc
	}
	if b.xact == nil {
		return ErrNullTransaction
	}
	b.rc = b.i2c.post(b.xact)
	return b.rc
}

func (b *Builder) freeTransaction() {
	issuer := b.i2c.issuerFor(b.irqsafe)
	issuer.FreeTransaction(b.xact)
}
