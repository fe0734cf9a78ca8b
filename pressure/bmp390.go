// Package pressure is a thin facade over the bmp3 driver for the Bosch
// BMP390 barometric pressure sensor. It maps a small generic configuration
// onto vendor codes and forwards vendor results unchanged.
package pressure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mklimuk/barometer/bmp3"
)

// Protocol selects the bus the sensor is wired to.
type Protocol uint8

const (
	I2C Protocol = iota
	SPI
)

func (p Protocol) String() string {
	if p == SPI {
		return "spi"
	}
	return "i2c"
}

func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Protocol) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "i2c":
		*p = I2C
	case "spi":
		*p = SPI
	default:
		return fmt.Errorf("unknown protocol %q", text)
	}
	return nil
}

// Measurement is one compensated sample.
type Measurement struct {
	// PressurePa is the pressure in pascals.
	PressurePa float64
	// TemperatureC is the temperature in degrees Celsius.
	TemperatureC float64
}

// BMP390 owns one bmp3 device record. Init must succeed before Configure or
// ReadMeasurement are called; the sensor does not track its own state.
// A BMP390 is not safe for concurrent use.
type BMP390 struct {
	devID    byte
	protocol Protocol
	bus      transport
	dev      *bmp3.Dev
}

// New creates a sensor bound to bus. devID is the I2C address or SPI chip
// select the bus callbacks were built for.
func New(devID byte, bus BusInterface, protocol Protocol) *BMP390 {
	return &BMP390{
		devID:    devID,
		protocol: protocol,
		bus:      transport{bus: bus},
		dev:      &bmp3.Dev{},
	}
}

// DevID returns the device id given at construction.
func (s *BMP390) DevID() byte {
	return s.devID
}

// Protocol returns the bus protocol given at construction.
func (s *BMP390) Protocol() Protocol {
	return s.protocol
}

// Init binds the bus callbacks into the device record and runs the vendor
// initialization: chip detection, soft reset and calibration readout.
func (s *BMP390) Init() error {
	if s.dev == nil {
		return bmp3.ErrNullPtr
	}
	s.dev.Read = s.bus.read
	s.dev.Write = s.bus.write
	s.dev.Delay = s.bus.delay
	s.dev.Intf = bmp3.I2CIntf
	if s.protocol == SPI {
		s.dev.Intf = bmp3.SPIIntf
	}
	return bmp3.Init(s.dev).Err()
}

// Configure writes cfg with both channels enabled, then switches the sensor
// into normal (continuous) mode. The settings are written even when the
// oversampling does not fit the data rate; the mode switch rejects that case
// with bmp3.ErrInvalidODROSRSettings and the sensor stays asleep.
func (s *BMP390) Configure(cfg Config) error {
	settings := &bmp3.Settings{
		PressEn: bmp3.Enable,
		TempEn:  bmp3.Enable,
		ODRFilter: bmp3.ODRFilterSettings{
			PressOS:   mapOversampling(cfg.PressureOversampling),
			TempOS:    mapOversampling(cfg.TemperatureOversampling),
			IIRFilter: mapIIRFilter(cfg.IIRFilter),
			ODR:       mapODR(cfg.ODR),
		},
	}
	desired := bmp3.SelPressEn | bmp3.SelTempEn | bmp3.SelPressOS | bmp3.SelTempOS | bmp3.SelIIRFilter | bmp3.SelODR
	rslt := bmp3.SetSensorSettings(desired, settings, s.dev)
	if rslt != bmp3.OK {
		return rslt
	}
	settings.OpMode = bmp3.ModeNormal
	return bmp3.SetOpMode(settings, s.dev).Err()
}

// ReadMeasurement reads one compensated pressure and temperature sample.
//
// A positive bmp3.Result (WarnMinTemp and friends) still fills the returned
// Measurement, with the out-of-range value clamped to the sensor limit. Such a
// sample is a bound, not a reading: callers that need real data must treat any
// non-nil error as a failed read. Negative results return a zero Measurement.
func (s *BMP390) ReadMeasurement() (Measurement, error) {
	data, rslt := bmp3.GetSensorData(bmp3.PressTemp, s.dev)
	if rslt < bmp3.OK {
		return Measurement{}, rslt
	}
	return Measurement{
		PressurePa:   data.Pressure,
		TemperatureC: data.Temperature,
	}, rslt.Err()
}

// Reset issues a soft reset. The configuration returns to power-on defaults.
func (s *BMP390) Reset() error {
	if s.dev == nil {
		return bmp3.ErrNullPtr
	}
	return bmp3.SoftReset(s.dev).Err()
}

// ChipID returns the chip id detected by Init, zero before.
func (s *BMP390) ChipID() byte {
	if s.dev == nil {
		return 0
	}
	return s.dev.ChipID
}

// Close releases the device record. Any later call fails with
// bmp3.ErrNullPtr.
func (s *BMP390) Close() error {
	s.dev = nil
	return nil
}

// Code returns the integer result carried by err: 0 for nil, the vendor
// result for bmp3 errors and TransportError for anything else.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var rslt bmp3.Result
	if errors.As(err, &rslt) {
		return int(rslt)
	}
	return int(TransportError)
}
