//go:build linux

// Package periphhw wraps a periph.io/x/conn/v3/i2c.Bus for Linux host
// boards (Raspberry Pi, BeagleBone and similar /dev/i2c-N controllers).
// Like tinygohw, the underlying Tx call is synchronous, so TransferAsync
// adapts it into the async Controller contract by running the transfer
// inline and delivering the event immediately afterwards.
package periphhw

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/jangala-dev/i2ccore/internal/core"
	"github.com/jangala-dev/i2ccore/internal/hal"
)

// Controller adapts a periph.io i2c.Bus to hal.Controller.
type Controller struct {
	bus i2c.Bus

	mu      sync.Mutex
	onEvent func(core.EventMask)
	active  bool
}

var _ hal.Controller = (*Controller)(nil)

// New opens the named Linux I2C bus (e.g. "/dev/i2c-1" or "1"). It first
// calls host.Init, the periph.io driver registry bootstrap.
func New(busName string) (*Controller, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periphhw: host.Init: %w", err)
	}
	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("periphhw: i2creg.Open(%q): %w", busName, err)
	}
	return &Controller{bus: b}, nil
}

// Init is a no-op: the bus is already open by the time New returns. sda/scl
// are accepted for interface compatibility but a Linux I2C adapter exposes
// no per-pin addressing; the resource manager still uses them for
// pin-mismatch detection against the pin-map's naming.
func (c *Controller) Init(sda, scl string) error { return nil }

func (c *Controller) SetFrequency(hz uint32) {
	_ = c.bus.SetSpeed(physic.Frequency(hz) * physic.Hertz)
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

func (c *Controller) TransferAsync(txBuf, rxBuf []byte, addr uint16, tenBit, stop bool, usage hal.DMAUsage) error {
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()

	err := c.bus.Tx(addr, txBuf, rxBuf)

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
