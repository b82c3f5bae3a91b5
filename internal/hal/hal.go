// Package hal defines the controller contract the core's resource manager
// drives, and a shared adapter (HWResourceManager) that turns any Controller
// into a core.ControllerOps by handling frequency programming, STOP
// placement and anonymous-receive buffer allocation once, instead of once
// per backend.
package hal

import (
	"github.com/jangala-dev/i2ccore/errcode"
	"github.com/jangala-dev/i2ccore/internal/core"
)

// DMAUsage hints how aggressively a backend should reach for DMA for a
// given transfer. Backends that have no DMA engine ignore it.
type DMAUsage uint8

const (
	DMANever DMAUsage = iota
	DMAOpportunistic
	DMAAlways
)

// Controller is the HAL contract: init the bus, set its frequency, issue
// one transfer, report whether it's mid-transfer, and deliver completion
// events to whatever handler was installed with SetEventHandler.
//
// Completion is always signalled through the event handler, never through
// TransferAsync's return value. An asynchronous backend (simhw) returns as
// soon as the transfer is accepted and signals later; a backend whose
// underlying driver is synchronous (tinygohw, periphhw, rpibitbang) runs
// the transfer and calls the event handler before TransferAsync returns.
type Controller interface {
	Init(sda, scl string) error
	SetFrequency(hz uint32)
	SetEventHandler(fn func(core.EventMask))
	TransferAsync(txBuf, rxBuf []byte, addr uint16, tenBit, stop bool, usage DMAUsage) error
	IsActive() bool
}

// HWResourceManager adapts a Controller to core.ControllerOps: the part of
// start_transaction/start_segment that is identical across every backend
// in this repository (frequency programming, STOP-condition placement,
// anonymous-receive allocation) lives here once.
type HWResourceManager struct {
	ctrl     Controller
	usage    DMAUsage
	sda, scl string
	inited   bool
}

// NewHWResourceManager builds an adapter around ctrl. usage is the DMA
// hint passed to every TransferAsync call.
func NewHWResourceManager(ctrl Controller, usage DMAUsage) *HWResourceManager {
	return &HWResourceManager{ctrl: ctrl, usage: usage}
}

// Bind installs rm.ProcessEvent as the controller's event handler. Call
// once, after constructing both the manager and the adapter.
func (h *HWResourceManager) Bind(rm *core.ResourceManager) {
	h.ctrl.SetEventHandler(rm.ProcessEvent)
}

func (h *HWResourceManager) Init(sda, scl string) errcode.Code {
	if h.inited {
		if h.sda != sda || h.scl != scl {
			return errcode.PinMismatch
		}
		return errcode.None
	}
	if err := h.ctrl.Init(sda, scl); err != nil {
		return errcode.Error
	}
	h.sda, h.scl = sda, scl
	h.inited = true
	return errcode.None
}

func (h *HWResourceManager) ValidateTransaction(t *core.Transaction) errcode.Code {
	return core.DefaultValidate(t)
}

func (h *HWResourceManager) StartTransaction(t *core.Transaction) errcode.Code {
	if h.ctrl.IsActive() {
		return errcode.Busy
	}
	h.ctrl.SetFrequency(t.Hz)
	t.ResetCurrent()
	return h.StartSegment(t)
}

func (h *HWResourceManager) StartSegment(t *core.Transaction) errcode.Code {
	s := t.Current()
	if s == nil {
		// Zero-segment transaction: ping the address with a zero-length write.
		if err := h.ctrl.TransferAsync(nil, nil, t.Address, t.TenBit, true, DMANever); err != nil {
			return errcode.Error
		}
		return errcode.None
	}

	stop := s.Next() == nil && !t.Repeated
	buf := s.GetBuf()
	if s.Direction() == core.Receive && buf == nil && s.GetLen() > 0 {
		anon := make([]byte, s.GetLen())
		s.BindAnonymous(anon)
		buf = anon
	}

	var err error
	if s.Direction() == core.Transmit {
		err = h.ctrl.TransferAsync(buf, nil, t.Address, t.TenBit, stop, h.usage)
	} else {
		err = h.ctrl.TransferAsync(nil, buf, t.Address, t.TenBit, stop, h.usage)
	}
	if err != nil {
		return errcode.Error
	}
	return errcode.None
}

func (h *HWResourceManager) PowerUp() errcode.Code   { return errcode.None }
func (h *HWResourceManager) PowerDown() errcode.Code { return errcode.None }
