package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	gobotspi "gobot.io/x/gobot/v2/drivers/spi"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/barometer"
	"github.com/mklimuk/barometer/adapter"
	"github.com/mklimuk/barometer/bmp3/sim"
	"github.com/mklimuk/barometer/i2c"
	"github.com/mklimuk/barometer/pressure"
	"github.com/mklimuk/barometer/spi"
)

const (
	adapterMCP2221 = "mcp2221"
	adapterGeneric = "generic"
	adapterBoard   = "board"
	adapterSim     = "sim"
)

var hardwareFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   adapterMCP2221,
		Usage:   "bus adapter: mcp2221, generic (host i2c), board (NanoPi i2c/spi) or sim",
	},
	&cli.StringFlag{
		Name:  "device",
		Usage: "host i2c bus used by the generic adapter (e.g. /dev/i2c-1); first bus when empty",
	},
	&cli.IntFlag{
		Name:  "speed",
		Usage: "host i2c clock in Hz for the generic adapter; driver default when 0",
	},
	&cli.IntFlag{
		Name:  "bus",
		Value: -1,
		Usage: "board i2c or spi bus number; board default when negative",
	},
	&cli.IntFlag{
		Name:  "chip",
		Usage: "board spi chip select",
	},
}

// hardware opens buses selected on the command line and releases them on
// Close.
type hardware struct {
	adapter string
	device  string
	speed   int
	busNr   int
	chip    int

	board   *nanopi.Adaptor
	i2c     barometer.I2CBus
	closers []func() error
}

func newHardware(c *cli.Context) *hardware {
	return &hardware{
		adapter: c.String("adapter"),
		device:  c.String("device"),
		speed:   c.Int("speed"),
		busNr:   c.Int("bus"),
		chip:    c.Int("chip"),
	}
}

func (h *hardware) boardAdaptor() (*nanopi.Adaptor, error) {
	if h.board != nil {
		return h.board, nil
	}
	board := nanopi.NewNeoAdaptor()
	if err := board.Connect(); err != nil {
		return nil, fmt.Errorf("board adaptor connect error: %w", err)
	}
	h.board = board
	h.closers = append(h.closers, board.Finalize)
	return board, nil
}

// I2C returns the shared I2C bus.
func (h *hardware) I2C() (barometer.I2CBus, error) {
	if h.i2c != nil {
		return h.i2c, nil
	}
	switch h.adapter {
	case adapterMCP2221:
		h.i2c = adapter.NewMCP2221()
	case adapterGeneric:
		bus, err := i2c.NewGenericBus(h.device)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, bus.Close)
		if h.speed > 0 {
			if err := bus.SetSpeed(int64(h.speed)); err != nil {
				return nil, err
			}
		}
		h.i2c = bus
	case adapterBoard:
		board, err := h.boardAdaptor()
		if err != nil {
			return nil, err
		}
		bus := i2c.NewBoardBus(board, h.busNr)
		h.closers = append(h.closers, bus.Close)
		h.i2c = bus
	case adapterSim:
		return nil, fmt.Errorf("the sim adapter only simulates BMP390 sensors")
	default:
		return nil, fmt.Errorf("unknown adapter %q", h.adapter)
	}
	return h.i2c, nil
}

// BMP390 returns a sensor facade bound to the selected transport.
func (h *hardware) BMP390(ctx context.Context, addr byte, protocol pressure.Protocol) (*pressure.BMP390, error) {
	if h.adapter == adapterSim {
		return h.simBMP390(ctx, addr, protocol), nil
	}
	switch protocol {
	case pressure.I2C:
		bus, err := h.I2C()
		if err != nil {
			return nil, err
		}
		return pressure.New(addr, pressure.NewI2CBus(ctx, bus, addr), protocol), nil
	case pressure.SPI:
		if h.adapter != adapterBoard {
			return nil, fmt.Errorf("spi requires the board adapter, got %q", h.adapter)
		}
		board, err := h.boardAdaptor()
		if err != nil {
			return nil, err
		}
		opts := []func(gobotspi.Config){spi.WithChip(h.chip)}
		if h.busNr >= 0 {
			opts = append(opts, spi.WithBus(h.busNr))
		}
		d := spi.NewDriver(board, opts...)
		if err := d.Start(); err != nil {
			return nil, fmt.Errorf("spi driver start error: %w", err)
		}
		h.closers = append(h.closers, d.Halt)
		conn, err := d.Conn()
		if err != nil {
			return nil, err
		}
		return pressure.New(byte(h.chip), pressure.NewSPIBus(ctx, conn), protocol), nil
	default:
		return nil, fmt.Errorf("unsupported protocol %s", protocol)
	}
}

func (h *hardware) simBMP390(ctx context.Context, addr byte, protocol pressure.Protocol) *pressure.BMP390 {
	if protocol == pressure.SPI {
		chip := sim.New(sim.WithSPI())
		bus := pressure.BusInterface{Read: chip.Read, Write: chip.Write, Delay: chip.Delay}
		return pressure.New(byte(h.chip), bus, protocol)
	}
	bus := sim.NewBus(sim.New(), addr)
	return pressure.New(addr, pressure.NewI2CBus(ctx, bus, addr), protocol)
}

func (h *hardware) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil {
			slog.Warn("could not release hardware", "err", err)
		}
	}
	h.closers = nil
}
