package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes. These are the post-boundary error taxonomy: the set of
// outcomes a client can observe from I2C.Builder.Apply.
const (
	None                 Code = "none"
	InvalidMaster        Code = "invalid_master"
	PinMismatch          Code = "pin_mismatch"
	Busy                 Code = "busy"
	NullTransaction      Code = "null_transaction"
	NullSegment          Code = "null_segment"
	MissingPoolAllocator Code = "missing_pool_allocator"
	InvalidAddress       Code = "invalid_address"
	BufferSize           Code = "buffer_size"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return None
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
