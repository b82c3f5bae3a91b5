// Package i2ccore is the client-facing half of the driver: a small façade
// over internal/core's resource manager, plus the fluent transfer builder
// applications actually call. The engine, the HAL contract, the concrete
// backends, configuration and the scheduler all live under internal/ —
// this package is the only one meant to be imported from outside the
// module.
package i2ccore

import (
	"github.com/jangala-dev/i2ccore/internal/core"
	"github.com/jangala-dev/i2ccore/internal/pinmap"
)

const defaultHz = 100000

// Registry maps a pinmap controller index to the ResourceManager that owns
// it. Built once at startup by whatever wires up backends for the running
// board.
type Registry map[int]*core.ResourceManager

// I2C is a client handle bound to one physical controller, resolved from
// an (SDA, SCL) pin pair at construction. A handle whose pins did not
// resolve to a known controller is "poisoned": every transfer through it
// fails with ErrInvalidMaster, mirroring a -1 owner ID.
type I2C struct {
	rm   *core.ResourceManager
	hz   uint32
	heap heapIssuer
	pool *poolIssuer
}

// Dial resolves sda/scl against resolver, binds to the matching
// ResourceManager in reg, and initializes it. A handle is always returned,
// even on failure to resolve — it is simply poisoned.
func Dial(resolver *pinmap.Resolver, reg Registry, sda, scl string) *I2C {
	idx, ok := resolver.Resolve(sda, scl)
	if !ok {
		return &I2C{hz: defaultHz}
	}
	rm := reg[idx]
	if rm == nil {
		return &I2C{hz: defaultHz}
	}
	if rc := rm.Init(sda, scl); rc != ErrNone {
		return &I2C{hz: resolver.DefaultHz(idx)}
	}
	return &I2C{rm: rm, hz: resolver.DefaultHz(idx)}
}

// DialIRQSafe is Dial plus a pair of fixed-capacity pools sized txCap and
// segCap, enabling TransferToIRQSafe on the returned handle.
func DialIRQSafe(resolver *pinmap.Resolver, reg Registry, sda, scl string, txCap, segCap int) *I2C {
	i := Dial(resolver, reg, sda, scl)
	i.pool = newPoolIssuer(txCap, segCap)
	return i
}

// Frequency changes the clock rate used by transfers started after this
// call. It does not affect a transfer already in flight.
func (i *I2C) Frequency(hz uint32) { i.hz = hz }

// PoolInUse reports how many Transaction and Segment slots are currently
// allocated out of the pools passed to DialIRQSafe. Both are always zero
// for a handle built with Dial. Once every irqsafe transaction posted
// through this handle has completed, both counts return to zero.
func (i *I2C) PoolInUse() (txInUse, segInUse int) {
	if i.pool == nil {
		return 0, 0
	}
	return i.pool.txPool.InUse(), i.pool.segPool.InUse()
}

// TransferTo begins building a transfer to addr, heap-allocating its
// transaction and segments. Safe to call from task context only.
func (i *I2C) TransferTo(addr uint16) *Builder { return newBuilder(i, addr, false, false) }

// TransferToTenBit is TransferTo for a 10-bit address.
func (i *I2C) TransferToTenBit(addr uint16) *Builder { return newBuilder(i, addr, true, false) }

// TransferToIRQSafe begins building a transfer to addr, drawing its
// transaction and segments from the pools passed to DialIRQSafe. Safe to
// call from ISR context. Returns a Builder whose Apply fails with
// ErrMissingPoolAllocator if no pools were configured.
func (i *I2C) TransferToIRQSafe(addr uint16) *Builder { return newBuilder(i, addr, false, true) }

// TransferToIRQSafeTenBit is TransferToIRQSafe for a 10-bit address.
func (i *I2C) TransferToIRQSafeTenBit(addr uint16) *Builder { return newBuilder(i, addr, true, true) }

func (i *I2C) issuerFor(irqsafe bool) core.Issuer {
	if irqsafe {
		return i.pool
	}
	return i.heap
}

func (i *I2C) post(t *core.Transaction) Error {
	if i.rm == nil {
		return ErrInvalidMaster
	}
	return i.rm.PostTransaction(t)
}
