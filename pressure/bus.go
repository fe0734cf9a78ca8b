package pressure

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mklimuk/barometer"
	"github.com/mklimuk/barometer/snsctx"
)

// NewI2CBus binds the sensor callbacks to a device at addr on an I2C bus.
// Reads write the register pointer first, in the same transaction when the bus
// supports it. Writes send the register followed by the payload. A transfer
// refused with barometer.ErrBusBusy is tried once more after releasing the bus.
func NewI2CBus(ctx context.Context, bus barometer.I2CBus, addr byte) BusInterface {
	logger := snsctx.Logger(ctx)
	fail := func(op string, reg byte, err error) int8 {
		logger.Debug("bmp390 bus transfer failed", "op", op, "addr", addr, "reg", reg, "err", err)
		return TransportError
	}
	retry := func(op func() error) error {
		err := op()
		if !errors.Is(err, barometer.ErrBusBusy) {
			return err
		}
		logger.Debug("bmp390 bus busy, releasing", "addr", addr)
		if rerr := bus.Release(ctx); rerr != nil {
			return fmt.Errorf("could not release bus: %w", rerr)
		}
		return op()
	}
	return BusInterface{
		Read: func(reg byte, data []byte) int8 {
			err := retry(func() error {
				if tx, ok := bus.(barometer.I2CTransactor); ok {
					return tx.TxToAddr(ctx, addr, []byte{reg}, data)
				}
				if err := bus.WriteToAddr(ctx, addr, []byte{reg}); err != nil {
					return err
				}
				return bus.ReadFromAddr(ctx, addr, data)
			})
			if err != nil {
				return fail("read", reg, err)
			}
			if snsctx.IsVerbose(ctx) {
				logger.Debug("bmp390 read", "reg", reg, "data", hex.EncodeToString(data))
			}
			return 0
		},
		Write: func(reg byte, data []byte) int8 {
			buf := make([]byte, 0, len(data)+1)
			buf = append(buf, reg)
			buf = append(buf, data...)
			if snsctx.IsVerbose(ctx) {
				logger.Debug("bmp390 write", "frame", hex.EncodeToString(buf))
			}
			err := retry(func() error {
				return bus.WriteToAddr(ctx, addr, buf)
			})
			if err != nil {
				return fail("write", reg, err)
			}
			return 0
		},
		Delay: time.Sleep,
	}
}

// NewSPIBus binds the sensor callbacks to an SPI connection. The register byte
// already carries the read/write bit set by the driver.
func NewSPIBus(ctx context.Context, conn barometer.SPIConn) BusInterface {
	logger := snsctx.Logger(ctx)
	fail := func(op string, reg byte, err error) int8 {
		logger.Debug("bmp390 spi transfer failed", "op", op, "reg", reg, "err", err)
		return TransportError
	}
	return BusInterface{
		Read: func(reg byte, data []byte) int8 {
			if err := conn.ReadCommandData([]byte{reg}, data); err != nil {
				return fail("read", reg, err)
			}
			if snsctx.IsVerbose(ctx) {
				logger.Debug("bmp390 spi read", "reg", reg, "data", hex.EncodeToString(data))
			}
			return 0
		},
		Write: func(reg byte, data []byte) int8 {
			buf := make([]byte, 0, len(data)+1)
			buf = append(buf, reg)
			buf = append(buf, data...)
			if snsctx.IsVerbose(ctx) {
				logger.Debug("bmp390 spi write", "frame", hex.EncodeToString(buf))
			}
			if err := conn.WriteBytes(buf); err != nil {
				return fail("write", reg, err)
			}
			return 0
		},
		Delay: time.Sleep,
	}
}

// NopBus returns callbacks that report success without touching the buffer.
func NopBus() BusInterface {
	return BusInterface{
		Read:  func(byte, []byte) int8 { return 0 },
		Write: func(byte, []byte) int8 { return 0 },
		Delay: func(time.Duration) {},
	}
}
