package core

import (
	"bytes"
	"testing"
)

func TestEphemeralBufferInlineRoundTrip(t *testing.T) {
	var b EphemeralBuffer
	data := []byte("short")
	b.SetEphemeral(data)

	if !b.IsEphemeral() {
		t.Fatalf("expected inline mode for %d-byte payload", len(data))
	}
	if b.GetLen() != len(data) {
		t.Fatalf("GetLen() = %d, want %d", b.GetLen(), len(data))
	}
	if !bytes.Equal(b.GetBuf(), data) {
		t.Fatalf("GetBuf() = %v, want %v", b.GetBuf(), data)
	}

	// Mutating the original slice must not affect the copy.
	data[0] = 'X'
	if b.GetBuf()[0] == 'X' {
		t.Fatalf("inline buffer aliases caller slice")
	}
}

func TestEphemeralBufferRefModeAliases(t *testing.T) {
	var b EphemeralBuffer
	data := make([]byte, InlineCap+1)
	b.SetEphemeral(data)

	if b.IsEphemeral() {
		t.Fatalf("expected ref mode for %d-byte payload", len(data))
	}
	if b.GetLen() != len(data) {
		t.Fatalf("GetLen() = %d, want %d", b.GetLen(), len(data))
	}

	data[0] = 0xAA
	if b.GetBuf()[0] != 0xAA {
		t.Fatalf("ref-mode buffer should alias caller slice")
	}
}

func TestEphemeralBufferAnonymousReceive(t *testing.T) {
	var b EphemeralBuffer
	b.SetEphemeralLen(32)

	if b.IsEphemeral() {
		t.Fatalf("32 bytes should not fit inline (cap=%d)", InlineCap)
	}
	if b.GetBuf() != nil {
		t.Fatalf("anonymous receive should report a nil buffer until bound")
	}
	if b.GetLen() != 32 {
		t.Fatalf("GetLen() = %d, want 32", b.GetLen())
	}

	backing := make([]byte, 32)
	b.BindAnonymous(backing)
	if &b.GetBuf()[0] != &backing[0] {
		t.Fatalf("BindAnonymous did not attach the backing slice")
	}

	// Binding again must not replace the slice.
	other := make([]byte, 32)
	b.BindAnonymous(other)
	if &b.GetBuf()[0] != &backing[0] {
		t.Fatalf("second BindAnonymous call replaced the backing slice")
	}
}

func TestEphemeralBufferEphemeralLenInline(t *testing.T) {
	var b EphemeralBuffer
	b.SetEphemeralLen(4)

	if !b.IsEphemeral() {
		t.Fatalf("4 bytes should fit inline (cap=%d)", InlineCap)
	}
	if b.GetLen() != 4 {
		t.Fatalf("GetLen() = %d, want 4", b.GetLen())
	}
	for i, v := range b.GetBuf() {
		if v != 0 {
			t.Fatalf("inline receive buffer byte %d = %d, want 0", i, v)
		}
	}
}
