// Package barometer holds the bus abstractions shared by the sensor drivers,
// transports and the monitor.
package barometer

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// I2CTransactor performs a write followed by a read in a single transaction
// (repeated start). Buses that do not implement it fall back to two transfers.
type I2CTransactor interface {
	TxToAddr(ctx context.Context, address byte, w, r []byte) error
}

// SPIConn is the subset of a gobot SPI connection used for register access.
// The command bytes are clocked out first, then len(data) bytes are read back.
type SPIConn interface {
	ReadCommandData(command []byte, data []byte) error
	WriteBytes(data []byte) error
}
