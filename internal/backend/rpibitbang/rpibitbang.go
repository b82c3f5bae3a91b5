//go:build linux && arm

// Package rpibitbang drives I2C in software over raw GPIO, for boards with
// no hardware I2C block (or whose hardware block is claimed by something
// else). SDA/SCL toggling and ACK sampling is delegated to
// github.com/aliher1911/go-i2c; this package only supplies the pin
// claim/release and the async-Controller adaptation around it, the same
// synchronous-Tx shape as periphhw and tinygohw.
package rpibitbang

import (
	"fmt"
	"sync"

	i2cdev "github.com/aliher1911/go-i2c"
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/jangala-dev/i2ccore/errcode"
	"github.com/jangala-dev/i2ccore/internal/core"
	"github.com/jangala-dev/i2ccore/internal/hal"
)

// Controller bit-bangs I2C over two rpio.Pin GPIOs.
type Controller struct {
	sda, scl rpio.Pin

	mu      sync.Mutex
	onEvent func(core.EventMask)
	active  bool
	claimed bool
}

var _ hal.Controller = (*Controller)(nil)

// New builds a Controller for the given BCM GPIO numbers. rpio.Open must
// have already been called once by the process.
func New(sdaPin, sclPin int) *Controller {
	return &Controller{sda: rpio.Pin(sdaPin), scl: rpio.Pin(sclPin)}
}

// Init claims the GPIOs for I2C use.
func (c *Controller) Init(sda, scl string) error {
	return c.claim()
}

func (c *Controller) claim() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimed {
		return nil
	}
	c.sda.Mode(rpio.Input)
	c.sda.Pull(rpio.PullUp)
	c.scl.Mode(rpio.Input)
	c.scl.Pull(rpio.PullUp)
	c.claimed = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.claimed {
		return
	}
	c.sda.Mode(rpio.Input)
	c.scl.Mode(rpio.Input)
	c.claimed = false
}

// SetFrequency is advisory only: the software bus's bit rate is governed by
// go-i2c's own timing, not a register.
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

func (c *Controller) TransferAsync(txBuf, rxBuf []byte, addr uint16, tenBit, stop bool, usage hal.DMAUsage) error {
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()

	err := c.transfer(txBuf, rxBuf, addr)

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

func (c *Controller) transfer(txBuf, rxBuf []byte, addr uint16) error {
	dev, err := i2cdev.NewI2C(int(addr), 1)
	if err != nil {
		return fmt.Errorf("rpibitbang: open address %#x: %w", addr, err)
	}
	defer dev.Close()

	if len(txBuf) > 0 {
		if _, err := dev.WriteBytes(txBuf); err != nil {
			return fmt.Errorf("rpibitbang: write: %w", err)
		}
	}
	if len(rxBuf) > 0 {
		if _, err := dev.ReadBytes(rxBuf); err != nil {
			return fmt.Errorf("rpibitbang: read: %w", err)
		}
	}
	return nil
}

// Ops adapts a Controller to core.ControllerOps, like hal.HWResourceManager,
// but additionally claims/releases the GPIO pair on power_up/power_down:
// unlike a real hardware I2C block, a bit-banged bus's "power" state is the
// pins' idle drive state, so it is worth actually toggling (spec.md's
// "backend decides how to issue" clause applied to PowerUp/PowerDown).
type Ops struct {
	*hal.HWResourceManager
	ctrl *Controller
}

// NewOps builds the rpibitbang ControllerOps around ctrl.
func NewOps(ctrl *Controller) *Ops {
	return &Ops{HWResourceManager: hal.NewHWResourceManager(ctrl, hal.DMANever), ctrl: ctrl}
}

func (o *Ops) PowerUp() errcode.Code {
	if err := o.ctrl.claim(); err != nil {
		return errcode.Error
	}
	return errcode.None
}

func (o *Ops) PowerDown() errcode.Code {
	o.ctrl.release()
	return errcode.None
}
