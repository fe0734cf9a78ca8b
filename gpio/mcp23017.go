package gpio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/barometer"
)

type registry int

const DefaultMCP23017Address = 0x21

// Port A registries
const (
	IODIRA registry = iota
	GPPUA
	GPIOA
	OLATA
)

// BankAddr maps registries to addresses for IOCON.BANK=0 and IOCON.BANK=1.
var BankAddr = []map[registry]byte{
	{
		IODIRA: 0x00,
		GPPUA:  0x0C,
		GPIOA:  0x12,
		OLATA:  0x14,
	},
	{
		IODIRA: 0x00,
		GPPUA:  0x06,
		GPIOA:  0x09,
		OLATA:  0x0A,
	},
}

var ErrInvalidPin = fmt.Errorf("mcp23017: pin out of range (0-7)")

type MCP23017Opt func(*MCP23017)

func WithRetryLimit(limit int) MCP23017Opt {
	return func(m *MCP23017) {
		if limit > 0 {
			m.retryLimit = limit
		}
	}
}

// MCP23017 drives port A of a Microchip MCP23017 I/O expander. The output
// latch is cached so single pins can be switched without a bus read.
type MCP23017 struct {
	mx         sync.Mutex
	transport  barometer.I2CBus
	bank       int
	address    byte
	retryLimit int
	latchA     byte
}

func NewMCP23017(bus barometer.I2CBus, address byte, opts ...MCP23017Opt) *MCP23017 {
	m := &MCP23017{retryLimit: 1, transport: bus, address: address}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// retry runs op, releasing the bus and trying again while it reports
// barometer.ErrBusBusy.
func (m *MCP23017) retry(ctx context.Context, what string, op func() error) error {
	var err error
	for i := m.retryLimit; i > 0; i-- {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, barometer.ErrBusBusy) {
			return fmt.Errorf("could not %s: %w", what, err)
		}
		// try to release the bus
		_ = m.transport.Release(ctx)
	}
	return fmt.Errorf("could not %s (retry limit reached): %w", what, err)
}

func (m *MCP23017) writeRegistry(ctx context.Context, reg registry, value byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.transport.WriteToAddr(ctx, m.address, []byte{BankAddr[m.bank][reg], value})
}

func (m *MCP23017) readRegistry(ctx context.Context, reg registry) (byte, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	err := m.transport.WriteToAddr(ctx, m.address, []byte{BankAddr[m.bank][reg]})
	if err != nil {
		return 0x00, fmt.Errorf("could not set I/O registry address: %w", err)
	}
	buf := make([]byte, 1)
	err = m.transport.ReadFromAddr(ctx, m.address, buf)
	if err != nil {
		return 0x00, fmt.Errorf("could not read gpio data: %w", err)
	}
	return buf[0], nil
}

// InitA sets IODIR registry to inout on I/O pool A (1 = input, 0 = output)
func (m *MCP23017) InitA(ctx context.Context, inout byte) error {
	return m.retry(ctx, "initialize gpio A set", func() error {
		return m.writeRegistry(ctx, IODIRA, inout)
	})
}

// PullUpA sets the pull-up resistors of set A (1 = enabled). Pull-ups only
// act on input lines.
func (m *MCP23017) PullUpA(ctx context.Context, settings byte) error {
	return m.retry(ctx, "set pull-up on gpio A set", func() error {
		return m.writeRegistry(ctx, GPPUA, settings)
	})
}

// WriteA sets the output latch of set A
func (m *MCP23017) WriteA(ctx context.Context, value byte) error {
	err := m.retry(ctx, "write gpio A set", func() error {
		return m.writeRegistry(ctx, OLATA, value)
	})
	if err != nil {
		return err
	}
	m.mx.Lock()
	m.latchA = value
	m.mx.Unlock()
	return nil
}

// SetPinA drives a single output pin of set A
func (m *MCP23017) SetPinA(ctx context.Context, pin int, high bool) error {
	if pin < 0 || pin > 7 {
		return ErrInvalidPin
	}
	m.mx.Lock()
	value := m.latchA
	m.mx.Unlock()
	if high {
		value |= 1 << pin
	} else {
		value &^= 1 << pin
	}
	return m.WriteA(ctx, value)
}

// ReadA reads gpio A set values
func (m *MCP23017) ReadA(ctx context.Context) (byte, error) {
	var res byte
	err := m.retry(ctx, "read gpio A set", func() error {
		var err error
		res, err = m.readRegistry(ctx, GPIOA)
		return err
	})
	return res, err
}
