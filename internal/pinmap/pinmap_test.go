package pinmap_test

import (
	"testing"

	"github.com/jangala-dev/i2ccore/internal/config"
	"github.com/jangala-dev/i2ccore/internal/pinmap"
)

func TestResolverResolvesConfiguredPins(t *testing.T) {
	r := pinmap.New(config.Board{Controller: []config.Controller{
		{Index: 0, SDA: "GP0", SCL: "GP1", DefaultHz: 400000, Backend: "sim"},
		{Index: 1, SDA: "GP2", SCL: "GP3"},
	}})

	idx, ok := r.Resolve("GP0", "GP1")
	if !ok || idx != 0 {
		t.Fatalf("Resolve(GP0,GP1) = (%d,%v), want (0,true)", idx, ok)
	}
	if hz := r.DefaultHz(0); hz != 400000 {
		t.Fatalf("DefaultHz(0) = %d, want 400000", hz)
	}
	if hz := r.DefaultHz(1); hz != 100000 {
		t.Fatalf("DefaultHz(1) = %d, want 100000 (fallback)", hz)
	}
	if got := r.Backend(0); got != "sim" {
		t.Fatalf("Backend(0) = %q, want sim", got)
	}
}

func TestResolverUnknownPinsFail(t *testing.T) {
	r := pinmap.New(config.Board{})
	if _, ok := r.Resolve("GP8", "GP9"); ok {
		t.Fatalf("Resolve() on an empty board should report ok=false")
	}
}
