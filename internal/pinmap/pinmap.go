// Package pinmap resolves an (SDA, SCL) pin pair to the physical controller
// index that owns it, per a config.Board loaded from TOML.
package pinmap

import "github.com/jangala-dev/i2ccore/internal/config"

type pinPair struct{ sda, scl string }

// Resolver maps pin pairs to controller indices and default frequencies.
type Resolver struct {
	byPins  map[pinPair]int
	hz      map[int]uint32
	backend map[int]string
	bus     map[int]string
}

// New builds a Resolver from a decoded board description.
func New(board config.Board) *Resolver {
	r := &Resolver{
		byPins:  make(map[pinPair]int, len(board.Controller)),
		hz:      make(map[int]uint32, len(board.Controller)),
		backend: make(map[int]string, len(board.Controller)),
		bus:     make(map[int]string, len(board.Controller)),
	}
	for _, c := range board.Controller {
		r.byPins[pinPair{c.SDA, c.SCL}] = c.Index
		r.hz[c.Index] = c.DefaultHz
		r.backend[c.Index] = c.Backend
		r.bus[c.Index] = c.Bus
	}
	return r
}

// Resolve reports the controller index that owns the given pin pair.
func (r *Resolver) Resolve(sda, scl string) (index int, ok bool) {
	index, ok = r.byPins[pinPair{sda, scl}]
	return index, ok
}

// DefaultHz returns the configured default frequency for a controller
// index, or 100kHz if none was set.
func (r *Resolver) DefaultHz(index int) uint32 {
	if hz, ok := r.hz[index]; ok && hz > 0 {
		return hz
	}
	return 100000
}

// Backend returns the configured backend name for a controller index.
func (r *Resolver) Backend(index int) string { return r.backend[index] }

// Bus returns the configured backend-specific bus identifier for a
// controller index.
func (r *Resolver) Bus(index int) string { return r.bus[index] }
