package core

import "github.com/jangala-dev/i2ccore/errcode"

// DefaultValidate implements the address-range and observability checks a
// ControllerOps.ValidateTransaction can delegate to. All four backends in
// this repository use it unmodified.
func DefaultValidate(t *Transaction) errcode.Code {
	if t.TenBit {
		if t.Address >= 0x400 {
			return errcode.InvalidAddress
		}
	} else if t.Address == 0 || t.Address >= 0x80 {
		return errcode.InvalidAddress
	}

	unobservableReceive := false
	for s := t.Root(); s != nil; s = s.Next() {
		if s.GetLen() > MaxBufferLen {
			return errcode.BufferSize
		}
		if s.Direction() == Receive && s.GetBuf() == nil && s.GetLen() > 0 {
			unobservableReceive = true
		}
	}
	if unobservableReceive && t.HandlerCount() == 0 {
		return errcode.NullSegment
	}
	return errcode.None
}
