//go:build tinygo

// Package tinygohw wraps a TinyGo tinygo.org/x/drivers-compatible I2C bus
// for on-chip use. machine.I2C.Tx is synchronous, so this backend adapts
// the async Controller contract by running the transfer inline inside
// TransferAsync and feeding the resulting event straight back through the
// installed event handler, as if the real interrupt had just fired.
package tinygohw

import (
	"sync"

	drivers "tinygo.org/x/drivers"

	"github.com/jangala-dev/i2ccore/internal/core"
	"github.com/jangala-dev/i2ccore/internal/hal"
)

// Controller adapts a drivers.I2C to hal.Controller.
type Controller struct {
	bus drivers.I2C

	mu      sync.Mutex
	onEvent func(core.EventMask)
	active  bool
}

var _ hal.Controller = (*Controller)(nil)

// New wraps an already-configured drivers.I2C (e.g. machine.I2C0).
func New(bus drivers.I2C) *Controller {
	return &Controller{bus: bus}
}

// Init is a no-op: TinyGo's machine package configures pins through the
// board's own Configure call before this Controller is constructed, since
// pin identity on TinyGo is a compile-time machine.Pin, not a string.
func (c *Controller) Init(sda, scl string) error { return nil }

// SetFrequency is a no-op here: TinyGo's I2C.Configure sets frequency once
// at bus setup and most on-chip controllers cannot reprogram it per
// transfer, so later changes are ignored.
func (c *Controller) SetFrequency(hz uint32) {}

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

// TransferAsync runs the transfer to completion before returning, then
// delivers the event synchronously. Stop/tenBit/usage are accepted for
// interface compatibility; the underlying drivers.I2C.Tx always issues a
// STOP and does not support 10-bit addressing.
func (c *Controller) TransferAsync(txBuf, rxBuf []byte, addr uint16, tenBit, stop bool, usage hal.DMAUsage) error {
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()

	err := c.bus.Tx(uint16(addr), txBuf, rxBuf)

	c.mu.Lock()
	c.active = false
	handler := c.onEvent
	c.mu.Unlock()

	event := core.EventComplete
	if err != nil {
		event = core.EventError
	}
	if handler != nil {
		handler(event)
	}
	return nil
}
