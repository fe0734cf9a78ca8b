// Package sim provides a simulated BMP390 register file. It answers register
// reads and writes the way the chip does over I2C or SPI, which lets the
// driver stack run without hardware (tests, CLI dry runs).
package sim

import (
	"sync"
	"time"

	"github.com/mklimuk/barometer/bmp3"
)

// Fixture raw values. With DefaultCalibration they compensate exactly to
// FixtureTemperature and FixturePressure.
const (
	FixtureRawPressure    uint32 = 5459200
	FixtureRawTemperature uint32 = 8550400

	FixturePressure    = 101325.0
	FixtureTemperature = 25.0
)

// Calibration is the raw NVM trimming content (registers 0x31..0x45).
type Calibration struct {
	T1  uint16
	T2  uint16
	T3  int8
	P1  int16
	P2  int16
	P3  int8
	P4  int8
	P5  uint16
	P6  uint16
	P7  int8
	P8  int8
	P9  int16
	P10 int8
	P11 int8
}

// DefaultCalibration zeroes every non-linear term so that the compensated
// output is an exact function of the raw values.
var DefaultCalibration = Calibration{
	T1: 27000,
	T2: 16384,
	P1: 20480,
	P2: 16384,
	P5: 10000,
}

// Write records a single register write.
type Write struct {
	Reg   byte
	Value byte
}

// Device is a simulated BMP390.
type Device struct {
	mx   sync.Mutex
	regs [128]byte

	// SPI enables SPI framing: bit 7 of the register address selects read,
	// and reads are prefixed with one dummy byte.
	SPI bool
	// ReadStatus and WriteStatus are returned by every transfer when non-zero.
	// The transfer is not applied.
	ReadStatus  int8
	WriteStatus int8

	writes []Write
	reads  int
	delay  time.Duration
}

// Option customises a simulated device.
type Option func(*Device)

func WithSPI() Option {
	return func(d *Device) {
		d.SPI = true
	}
}

func WithChipID(id byte) Option {
	return func(d *Device) {
		d.regs[bmp3.RegChipID] = id
	}
}

func WithCalibration(c Calibration) Option {
	return func(d *Device) {
		d.SetCalibration(c)
	}
}

// New returns a BMP390 in its power-on state holding the fixture calibration
// and raw sample.
func New(opts ...Option) *Device {
	d := &Device{}
	d.regs[bmp3.RegChipID] = bmp3.ChipIDBMP390
	d.regs[bmp3.RegSensStatus] = 0x10
	d.resetConfig()
	d.SetCalibration(DefaultCalibration)
	d.SetRaw(FixtureRawPressure, FixtureRawTemperature)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) resetConfig() {
	d.regs[bmp3.RegPwrCtrl] = 0x00
	d.regs[bmp3.RegOSR] = 0x02
	d.regs[bmp3.RegODR] = 0x00
	d.regs[bmp3.RegConfig] = 0x00
	d.regs[bmp3.RegErr] = 0x00
}

// SetCalibration stores c in the NVM area.
func (d *Device) SetCalibration(c Calibration) {
	d.mx.Lock()
	defer d.mx.Unlock()
	b := d.regs[bmp3.RegCalibData : bmp3.RegCalibData+21]
	putU16(b[0:], c.T1)
	putU16(b[2:], c.T2)
	b[4] = byte(c.T3)
	putU16(b[5:], uint16(c.P1))
	putU16(b[7:], uint16(c.P2))
	b[9] = byte(c.P3)
	b[10] = byte(c.P4)
	putU16(b[11:], c.P5)
	putU16(b[13:], c.P6)
	b[15] = byte(c.P7)
	b[16] = byte(c.P8)
	putU16(b[17:], uint16(c.P9))
	b[19] = byte(c.P10)
	b[20] = byte(c.P11)
}

// SetRaw sets the 24-bit uncompensated pressure and temperature samples.
func (d *Device) SetRaw(pressure, temperature uint32) {
	d.mx.Lock()
	defer d.mx.Unlock()
	b := d.regs[bmp3.RegData : bmp3.RegData+6]
	b[0], b[1], b[2] = byte(pressure), byte(pressure>>8), byte(pressure>>16)
	b[3], b[4], b[5] = byte(temperature), byte(temperature>>8), byte(temperature>>16)
}

// SetReg forces a register value.
func (d *Device) SetReg(reg, value byte) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.regs[reg&0x7F] = value
}

// Reg returns a register value.
func (d *Device) Reg(reg byte) byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.regs[reg&0x7F]
}

// Writes returns every register write applied so far, in order.
func (d *Device) Writes() []Write {
	d.mx.Lock()
	defer d.mx.Unlock()
	out := make([]Write, len(d.writes))
	copy(out, d.writes)
	return out
}

// Reads returns the number of read transfers served.
func (d *Device) Reads() int {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.reads
}

// Delayed returns the sum of all delays requested.
func (d *Device) Delayed() time.Duration {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.delay
}

// Read serves a burst read starting at reg.
func (d *Device) Read(reg byte, data []byte) int8 {
	d.mx.Lock()
	defer d.mx.Unlock()
	if d.ReadStatus != 0 {
		return d.ReadStatus
	}
	d.reads++
	if d.SPI {
		if reg&0x80 == 0 {
			return -1
		}
		reg &= 0x7F
		if len(data) == 0 {
			return 0
		}
		// dummy byte
		data[0] = 0xFF
		data = data[1:]
	}
	for i := range data {
		data[i] = d.regs[(int(reg)+i)%len(d.regs)]
	}
	return 0
}

// Write applies a register write. Multi-byte transfers carry interleaved
// address/value pairs after the first value.
func (d *Device) Write(reg byte, data []byte) int8 {
	d.mx.Lock()
	defer d.mx.Unlock()
	if d.WriteStatus != 0 {
		return d.WriteStatus
	}
	if d.SPI && reg&0x80 != 0 {
		return -1
	}
	if len(data) == 0 {
		return 0
	}
	d.apply(reg, data[0])
	for i := 1; i+1 < len(data); i += 2 {
		d.apply(data[i], data[i+1])
	}
	return 0
}

// Delay records the requested delay without sleeping.
func (d *Device) Delay(period time.Duration) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.delay += period
}

func (d *Device) apply(reg, value byte) {
	reg &= 0x7F
	d.writes = append(d.writes, Write{Reg: reg, Value: value})
	if reg == bmp3.RegCmd && value == 0xB6 {
		d.resetConfig()
		return
	}
	d.regs[reg] = value
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
