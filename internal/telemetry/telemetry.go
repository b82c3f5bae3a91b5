// Package telemetry adapts a bus.Connection into a core.EventSink, so a
// resource manager can publish transaction-lifecycle events for
// observability without depending on the bus package directly.
package telemetry

import (
	"github.com/jangala-dev/i2ccore/bus"
	"github.com/jangala-dev/i2ccore/internal/core"
)

// Sink publishes one retained message per completed transaction to
// i2c/<controller>/event.
type Sink struct {
	conn       *bus.Connection
	controller string
}

// NewSink builds a Sink that publishes under the given controller name.
func NewSink(conn *bus.Connection, controller string) *Sink {
	return &Sink{conn: conn, controller: controller}
}

func (s *Sink) Publish(ev core.TxEvent) {
	s.conn.Publish(&bus.Message{
		Topic:    bus.Topic{bus.S("i2c"), bus.S(s.controller), bus.S("event")},
		Payload:  ev,
		Retained: true,
	})
}
