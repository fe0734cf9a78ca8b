package i2c

import (
	"context"
	"fmt"
	"sync"

	goboti2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/barometer"
)

var _ barometer.I2CBus = &BoardBus{}

// BoardBus is an I2C bus reached through a Gobot board adaptor (e.g. a NanoPi).
// Connections are opened per address on first use.
type BoardBus struct {
	mx        sync.Mutex
	connector goboti2c.Connector
	bus       int
	conns     map[byte]goboti2c.Connection
}

// NewBoardBus uses bus number bus, or the adaptor default when negative.
func NewBoardBus(connector goboti2c.Connector, bus int) *BoardBus {
	if bus < 0 {
		bus = connector.DefaultI2cBus()
	}
	return &BoardBus{
		connector: connector,
		bus:       bus,
		conns:     make(map[byte]goboti2c.Connection),
	}
}

func (b *BoardBus) conn(address byte) (goboti2c.Connection, error) {
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.connector.GetI2cConnection(int(address), b.bus)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c connection to %x on bus %d: %w", address, b.bus, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *BoardBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *BoardBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	err = c.WriteBytes(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *BoardBus) Release(ctx context.Context) error {
	return nil
}

// Close closes every connection opened so far.
func (b *BoardBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close connection to %x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return firstErr
}
