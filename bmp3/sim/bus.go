package sim

import (
	"context"
	"fmt"

	"github.com/mklimuk/barometer"
)

var _ barometer.I2CBus = &Bus{}

// Bus exposes a simulated device as an I2C target. A single byte write sets
// the register pointer used by the following read.
type Bus struct {
	Dev  *Device
	Addr byte

	ptr byte
}

// NewBus attaches dev to a bus at addr.
func NewBus(dev *Device, addr byte) *Bus {
	return &Bus{Dev: dev, Addr: addr}
}

func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if address != b.Addr {
		return fmt.Errorf("no device at %x", address)
	}
	if len(buffer) == 0 {
		return nil
	}
	b.ptr = buffer[0]
	if len(buffer) == 1 {
		return nil
	}
	if res := b.Dev.Write(buffer[0], buffer[1:]); res != 0 {
		return fmt.Errorf("write failed with status %d", res)
	}
	return nil
}

func (b *Bus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if address != b.Addr {
		return fmt.Errorf("no device at %x", address)
	}
	if res := b.Dev.Read(b.ptr, buffer); res != 0 {
		return fmt.Errorf("read failed with status %d", res)
	}
	return nil
}

func (b *Bus) Release(ctx context.Context) error {
	return nil
}
