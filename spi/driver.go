// Package spi opens BMP390 connections on a Gobot SPI adaptor.
//
// Example usage:
//
//	adaptor := nanopi.NewNeoAdaptor()
//	d := spi.NewDriver(adaptor, spi.WithBus(0), spi.WithChip(0))
//	if err := d.Start(); err != nil { log.Fatal(err) }
//	conn, err := d.Conn()
//	sensor := pressure.New(0, pressure.NewSPIBus(ctx, conn), pressure.SPI)
package spi

import (
	"errors"
	"fmt"

	gobotspi "gobot.io/x/gobot/v2/drivers/spi"

	"github.com/mklimuk/barometer"
)

// DefaultSpeed is well below the 10 MHz the sensor accepts.
const DefaultSpeed int64 = 1_000_000

var ErrNotStarted = errors.New("spi driver not started")

// Driver is a Gobot SPI driver set up for the sensor: mode 0, 8 bit words.
type Driver struct {
	*gobotspi.Driver
}

// WithBus selects the SPI bus number.
func WithBus(bus int) func(gobotspi.Config) {
	return gobotspi.WithBusNumber(bus)
}

// WithChip selects the chip select line.
func WithChip(chip int) func(gobotspi.Config) {
	return gobotspi.WithChipNumber(chip)
}

// WithSpeed sets the clock in Hz.
func WithSpeed(hz int64) func(gobotspi.Config) {
	return gobotspi.WithSpeed(hz)
}

func NewDriver(adaptor gobotspi.Connector, opts ...func(gobotspi.Config)) *Driver {
	d := gobotspi.NewDriver(adaptor, "BMP390", opts...)
	// the sensor supports modes 0 and 3
	d.SetMode(0)
	d.SetBitCount(8)
	if d.GetSpeedOrDefault(0) == 0 {
		d.SetSpeed(DefaultSpeed)
	}
	return &Driver{Driver: d}
}

// Conn returns the register access subset of the started connection.
func (d *Driver) Conn() (barometer.SPIConn, error) {
	if d == nil || d.Driver == nil {
		return nil, ErrNotStarted
	}
	conn := d.Driver.Connection()
	if conn == nil {
		return nil, ErrNotStarted
	}
	ops, ok := conn.(barometer.SPIConn)
	if !ok {
		return nil, fmt.Errorf("spi connection %T does not support register access", conn)
	}
	return ops, nil
}
