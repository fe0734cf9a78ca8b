package pressure

import (
	"time"

	"github.com/mklimuk/barometer/bmp3"
)

// TransportError is returned by the transport adapter when a transfer cannot
// be attempted.
const TransportError int8 = -1

// maxTransferLen is the largest transfer the bus callbacks accept.
const maxTransferLen = 0xFFFF

// ReadFunc reads len(data) bytes starting at register reg.
// It returns 0 on success and a negative value on failure.
type ReadFunc func(reg byte, data []byte) int8

// WriteFunc writes data starting at register reg.
// It returns 0 on success and a negative value on failure.
type WriteFunc func(reg byte, data []byte) int8

// DelayFunc blocks for at least d.
type DelayFunc func(d time.Duration)

// BusInterface bundles the platform bus callbacks. It is copied into the
// sensor at construction.
type BusInterface struct {
	Read  ReadFunc
	Write WriteFunc
	Delay DelayFunc
}

// transport adapts a BusInterface to the callback signatures of the bmp3
// device record.
type transport struct {
	bus BusInterface
}

func (t transport) read(reg byte, data []byte, length uint32) bmp3.Result {
	if t.bus.Read == nil || length > maxTransferLen || int(length) > len(data) {
		return bmp3.Result(TransportError)
	}
	return bmp3.Result(t.bus.Read(reg, data[:length]))
}

func (t transport) write(reg byte, data []byte, length uint32) bmp3.Result {
	if t.bus.Write == nil || length > maxTransferLen || int(length) > len(data) {
		return bmp3.Result(TransportError)
	}
	return bmp3.Result(t.bus.Write(reg, data[:length]))
}

func (t transport) delay(periodUS uint32) {
	if t.bus.Delay == nil {
		return
	}
	t.bus.Delay(time.Duration(periodUS) * time.Microsecond)
}
