// Package core implements the asynchronous I2C transaction engine: the
// ephemeral buffer, the segment chain, the transaction, the fixed-capacity
// pool allocator and the resource manager that drives a controller's
// interrupt-driven hardware through them.
package core

// InlineCap is the largest payload that fits inside an EphemeralBuffer's
// own storage instead of a referenced slice. On the source this repo is
// ported from, the bound is word_size + ptr_size - 1 bytes of a packed
// union; we keep the same bound without the bit-packing.
const InlineCap = 15

// MaxBufferLen is the largest length a Ref-mode buffer may carry: the
// length field is conceptually 31 bits wide, matching the 7-bit reserved
// discriminator byte in the bit-packed original.
const MaxBufferLen = 1<<31 - 1

type bufferMode uint8

const (
	modeRef bufferMode = iota
	modeInline
)

// EphemeralBuffer is a small-buffer-optimised container: it holds either a
// referenced slice (Ref mode) or up to InlineCap bytes copied into its own
// storage (Inline mode). A Segment embeds one to avoid a second allocation
// for small replies: the received bytes live inside the Segment until the
// last callback returns.
type EphemeralBuffer struct {
	mode   bufferMode
	ref    []byte
	refLen int // valid length when ref == nil (anonymous Ref-mode receive)
	inline [InlineCap]byte
	inlineN uint8
}

// Set always selects Ref mode: the buffer aliases p, nothing is copied.
func (b *EphemeralBuffer) Set(p []byte) {
	b.mode = modeRef
	b.ref = p
	b.refLen = len(p)
}

// SetAnonymous selects Ref mode with no backing slice yet: a nil pointer
// with a non-zero length, meaning "receive into a buffer allocated later
// and delivered by reference in the completion event". A backend resolves
// this with BindAnonymous before issuing the transfer.
func (b *EphemeralBuffer) SetAnonymous(n int) {
	b.mode = modeRef
	b.ref = nil
	b.refLen = n
}

// SetEphemeral copies p into inline storage when it fits InlineCap bytes,
// otherwise it behaves like Set.
func (b *EphemeralBuffer) SetEphemeral(p []byte) {
	if len(p) <= InlineCap {
		b.mode = modeInline
		b.inlineN = uint8(len(p))
		copy(b.inline[:b.inlineN], p)
		return
	}
	b.Set(p)
}

// SetEphemeralLen mirrors the original set_ephemeral(nullptr, len): an
// inline buffer of n zeroed bytes when n fits, otherwise an anonymous
// Ref-mode receive. Used by the rx(len) builder operation.
func (b *EphemeralBuffer) SetEphemeralLen(n int) {
	if n <= InlineCap {
		b.mode = modeInline
		b.inlineN = uint8(n)
		for i := 0; i < n; i++ {
			b.inline[i] = 0
		}
		return
	}
	b.SetAnonymous(n)
}

// BindAnonymous attaches backing storage to a SetAnonymous buffer. It is a
// no-op once the buffer already has a backing slice, so calling it more
// than once is harmless.
func (b *EphemeralBuffer) BindAnonymous(p []byte) {
	if b.mode == modeRef && b.ref == nil {
		b.ref = p
		b.refLen = len(p)
	}
}

// GetBuf returns the inline storage or the referenced slice's backing
// array, whichever mode is active. It returns nil for an unbound anonymous
// Ref-mode buffer.
func (b *EphemeralBuffer) GetBuf() []byte {
	if b.mode == modeInline {
		return b.inline[:b.inlineN]
	}
	return b.ref
}

// GetLen reports the length in either mode.
func (b *EphemeralBuffer) GetLen() int {
	if b.mode == modeInline {
		return int(b.inlineN)
	}
	if b.ref != nil {
		return len(b.ref)
	}
	return b.refLen
}

// IsEphemeral reports whether the buffer holds its data inline.
func (b *EphemeralBuffer) IsEphemeral() bool {
	return b.mode == modeInline
}

// reset clears the buffer to its zero state so a pooled slot can be reused
// safely by a later allocation.
func (b *EphemeralBuffer) reset() {
	*b = EphemeralBuffer{}
}
