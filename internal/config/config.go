// Package config defines the TOML board-description schema internal/pinmap
// loads at startup, mapping named pin pairs to physical controller indices.
package config

import "github.com/BurntSushi/toml"

// Board is the top-level TOML document: one [[controller]] table per
// physical I2C master the board exposes.
type Board struct {
	Controller []Controller `toml:"controller"`
}

// Controller describes one physical master and the pin pair that selects
// it.
type Controller struct {
	Index     int    `toml:"index"`
	SDA       string `toml:"sda"`
	SCL       string `toml:"scl"`
	DefaultHz uint32 `toml:"default_hz"`
	Backend   string `toml:"backend"` // "sim", "tinygo", "periph", "bitbang"
	Bus       string `toml:"bus"`     // backend-specific bus identifier, e.g. a /dev/i2c-N name
}

// Load decodes a board description from path.
func Load(path string) (Board, error) {
	var b Board
	_, err := toml.DecodeFile(path, &b)
	return b, err
}
