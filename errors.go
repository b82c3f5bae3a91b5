package i2ccore

import "github.com/jangala-dev/i2ccore/errcode"

// Error is the post-boundary error taxonomy a caller observes from
// Builder.Apply, ResourceManager.Init and friends.
type Error = errcode.Code

// Error constants, matching the taxonomy exactly.
const (
	ErrNone                 = errcode.None
	ErrInvalidMaster        = errcode.InvalidMaster
	ErrPinMismatch          = errcode.PinMismatch
	ErrBusy                 = errcode.Busy
	ErrNullTransaction      = errcode.NullTransaction
	ErrNullSegment          = errcode.NullSegment
	ErrMissingPoolAllocator = errcode.MissingPoolAllocator
	ErrInvalidAddress       = errcode.InvalidAddress
	ErrBufferSize           = errcode.BufferSize
)
