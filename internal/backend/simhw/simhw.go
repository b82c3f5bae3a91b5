// Package simhw is a deterministic in-memory I2C controller used by tests
// and the demo program. It never touches real hardware: every "interrupt"
// is delivered by an explicit Deliver call, which resolves the in-flight
// transfer according to the Controller's AckPolicy and then calls the
// installed event handler. Nothing is delivered automatically.
package simhw

import (
	"sync"

	"github.com/jangala-dev/i2ccore/internal/core"
	"github.com/jangala-dev/i2ccore/internal/hal"
)

// AckPolicy decides how a simulated transfer resolves. Given the address
// and the bytes being transmitted (nil for a receive-only segment), it
// returns the event bits to deliver and the bytes to hand back for a
// receive (ignored for a transmit).
type AckPolicy func(addr uint16, tenBit bool, txBuf []byte, rxLen int) (event core.EventMask, rxData []byte)

// AlwaysAck is the default policy: every transfer completes cleanly, and a
// receive is filled with an incrementing byte pattern so tests can tell
// segments apart.
func AlwaysAck(addr uint16, tenBit bool, txBuf []byte, rxLen int) (core.EventMask, []byte) {
	data := make([]byte, rxLen)
	for i := range data {
		data[i] = byte(i)
	}
	return core.EventComplete, data
}

// NoSlaveAt returns a policy that NAKs every transfer to addr and acks
// everything else with AlwaysAck.
func NoSlaveAt(addr uint16) AckPolicy {
	return func(a uint16, tenBit bool, txBuf []byte, rxLen int) (core.EventMask, []byte) {
		if a == addr {
			return core.EventNoSlave | core.EventError, nil
		}
		return AlwaysAck(a, tenBit, txBuf, rxLen)
	}
}

type pending struct {
	addr   uint16
	tenBit bool
	txBuf  []byte
	rxBuf  []byte
}

// Controller is a simhw.AckPolicy-driven implementation of hal.Controller.
type Controller struct {
	mu      sync.Mutex
	policy  AckPolicy
	onEvent func(core.EventMask)
	hz      uint32
	active  bool
	cur     *pending
	inited  bool
}

var _ hal.Controller = (*Controller)(nil)

// New builds a Controller using the given policy. A nil policy defaults to
// AlwaysAck.
func New(policy AckPolicy) *Controller {
	if policy == nil {
		policy = AlwaysAck
	}
	return &Controller{policy: policy}
}

func (c *Controller) Init(sda, scl string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inited = true
	return nil
}

func (c *Controller) SetFrequency(hz uint32) {
	c.mu.Lock()
	c.hz = hz
	c.mu.Unlock()
}

func (c *Controller) SetEventHandler(fn func(core.EventMask)) {
	c.mu.Lock()
	c.onEvent = fn
	c.mu.Unlock()
}

func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// TransferAsync accepts the transfer and marks the controller active.
// Resolution happens later, via Deliver.
func (c *Controller) TransferAsync(txBuf, rxBuf []byte, addr uint16, tenBit, stop bool, usage hal.DMAUsage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.cur = &pending{addr: addr, tenBit: tenBit, txBuf: txBuf, rxBuf: rxBuf}
	return nil
}

// Deliver resolves the in-flight transfer using the controller's policy
// and calls the installed event handler synchronously, as a real interrupt
// handler would.
func (c *Controller) Deliver() {
	c.mu.Lock()
	p := c.cur
	handler := c.onEvent
	c.mu.Unlock()
	if p == nil {
		return
	}

	event, rxData := c.policy(p.addr, p.tenBit, p.txBuf, len(p.rxBuf))
	if p.rxBuf != nil && len(rxData) > 0 {
		copy(p.rxBuf, rxData)
	}

	c.mu.Lock()
	c.active = false
	c.cur = nil
	c.mu.Unlock()

	if handler != nil {
		handler(event)
	}
}

// Pending reports whether a transfer is awaiting Deliver.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}
