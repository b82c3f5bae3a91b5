// Command i2cdemo wires a simulated I2C controller, a pin-map loaded from
// TOML, and bus telemetry together end to end, then runs one
// write-then-read transfer against it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	logger "github.com/d2r2/go-logger"

	i2c "github.com/jangala-dev/i2ccore"
	"github.com/jangala-dev/i2ccore/bus"
	"github.com/jangala-dev/i2ccore/internal/backend/simhw"
	"github.com/jangala-dev/i2ccore/internal/config"
	"github.com/jangala-dev/i2ccore/internal/core"
	"github.com/jangala-dev/i2ccore/internal/hal"
	"github.com/jangala-dev/i2ccore/internal/logging"
	"github.com/jangala-dev/i2ccore/internal/pinmap"
	"github.com/jangala-dev/i2ccore/internal/sched"
	"github.com/jangala-dev/i2ccore/internal/telemetry"
)

func main() {
	boardPath := flag.String("board", "", "path to a board TOML file (uses a built-in single-controller board if empty)")
	verbose := flag.Bool("v", false, "debug-level logging")
	flag.Parse()

	if *verbose {
		logger.ChangePackageLogLevel(logging.PackageName, logger.DebugLevel)
	}

	board, err := loadBoard(*boardPath)
	if err != nil {
		log.Fatalf("i2cdemo: %v", err)
	}
	resolver := pinmap.New(board)

	scheduler := sched.New()
	defer scheduler.Close()

	msgBus := bus.NewBus(16)
	conn := msgBus.NewConnection("i2cdemo")
	events := conn.Subscribe(bus.Topic{bus.S("i2c"), bus.S("0"), bus.S("event")})

	ctrl := simhw.New(simhw.AlwaysAck)
	adapter := hal.NewHWResourceManager(ctrl, hal.DMAOpportunistic)
	rm := core.NewResourceManager(adapter, core.ManagerConfig{
		Scheduler: scheduler,
		Logger:    logging.New(),
		Sink:      telemetry.NewSink(conn, "0"),
	})
	adapter.Bind(rm)

	reg := i2c.Registry{0: rm}
	dev := i2c.Dial(resolver, reg, board.Controller[0].SDA, board.Controller[0].SCL)

	done := make(chan struct{})
	rc := dev.TransferTo(0x50).
		Tx([]byte{0x00, 0x01}).
		RepeatedStart().
		RxLen(4).
		On(i2c.EventComplete|i2c.EventError, func(tx i2c.Transaction, ev i2c.EventMask) {
			fmt.Printf("transfer to %#02x finished: %s\n", tx.Address(), ev)
			close(done)
		}).
		Apply()
	if rc != i2c.ErrNone {
		log.Fatalf("i2cdemo: Apply() = %v", rc)
	}

	ctrl.Deliver() // write segment
	ctrl.Deliver() // read segment
	<-done

	select {
	case msg := <-events.Channel():
		fmt.Printf("telemetry: %+v\n", msg.Payload)
	default:
	}
}

func loadBoard(path string) (config.Board, error) {
	if path == "" {
		return config.Board{Controller: []config.Controller{
			{Index: 0, SDA: "GP0", SCL: "GP1", DefaultHz: 100000, Backend: "sim"},
		}}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return config.Board{}, err
	}
	return config.Load(path)
}
