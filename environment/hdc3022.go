package environment

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/mklimuk/barometer"
)

// HDC3022 default 7-bit I2C address (ADDR and ADDR1 tied low)
const HDC3022Address byte = 0x44

// Commands (Big Endian on the wire)
const (
	// trigger-on-demand, low power mode 0 (lowest noise)
	hdc3022CmdMeasureLPM0 uint16 = 0x2400
	hdc3022CmdSoftReset   uint16 = 0x30A2
	hdc3022CmdReadMfgID   uint16 = 0x3781
)

// HDC3022ManufacturerID is the Texas Instruments id returned by the sensor.
const HDC3022ManufacturerID uint16 = 0x3000

var ErrCRC = fmt.Errorf("hdc3022: CRC mismatch")

type HDC3022Opts struct {
	Address          byte
	MeasurementDelay time.Duration
}

type HDC3022Opt func(*HDC3022Opts)

func WithHDC3022Address(addr byte) HDC3022Opt {
	return func(o *HDC3022Opts) {
		o.Address = addr
	}
}

func WithMeasurementDelay(delay time.Duration) HDC3022Opt {
	return func(o *HDC3022Opts) {
		o.MeasurementDelay = delay
	}
}

// HDC3022 represents Texas Instruments HDC3022 Temperature/Humidity sensor.
// Typical usage:
//
//	s := NewHDC3022(bus)
//	t, h, err := s.GetTempAndHum(ctx)
type HDC3022 struct {
	mx        sync.Mutex
	config    HDC3022Opts
	transport barometer.I2CBus
	lastTemp  float32
	lastHum   float32
}

func NewHDC3022(trans barometer.I2CBus, opts ...HDC3022Opt) *HDC3022 {
	config := HDC3022Opts{
		Address:          HDC3022Address,
		MeasurementDelay: 15 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &HDC3022{config: config, transport: trans}
}

// GetTemperature performs a single measurement and returns temperature in Celsius.
func (s *HDC3022) GetTemperature(ctx context.Context) (float32, error) {
	t, _, err := s.GetTempAndHum(ctx)
	return t, err
}

// GetHumidity performs a single measurement and returns relative humidity in %RH.
func (s *HDC3022) GetHumidity(ctx context.Context) (float32, error) {
	_, h, err := s.GetTempAndHum(ctx)
	return h, err
}

// GetTempAndHum performs a single measurement and returns temperature and humidity.
func (s *HDC3022) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	if err := s.measure(ctx); err != nil {
		return 0, 0, err
	}
	return s.lastTemp, s.lastHum, nil
}

// Reset issues a soft reset.
func (s *HDC3022) Reset(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if err := s.writeCmd(ctx, hdc3022CmdSoftReset); err != nil {
		return fmt.Errorf("hdc3022: reset failed: %w", err)
	}
	return nil
}

// ManufacturerID reads the manufacturer id word.
func (s *HDC3022) ManufacturerID(ctx context.Context) (uint16, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	if err := s.writeCmd(ctx, hdc3022CmdReadMfgID); err != nil {
		return 0, fmt.Errorf("hdc3022: manufacturer id command failed: %w", err)
	}
	buf := make([]byte, 3)
	if err := s.transport.ReadFromAddr(ctx, s.config.Address, buf); err != nil {
		return 0, fmt.Errorf("hdc3022: read failed: %w", err)
	}
	if crc8(buf[0:2]) != buf[2] {
		return 0, ErrCRC
	}
	return binary.BigEndian.Uint16(buf[0:2]), nil
}

func (s *HDC3022) measure(ctx context.Context) error {
	if err := s.writeCmd(ctx, hdc3022CmdMeasureLPM0); err != nil {
		return fmt.Errorf("hdc3022: measure command failed: %w", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.config.MeasurementDelay):
	}

	// T[0:2], CRC, RH[3:5], CRC
	buf := make([]byte, 6)
	if err := s.transport.ReadFromAddr(ctx, s.config.Address, buf); err != nil {
		return fmt.Errorf("hdc3022: read failed: %w", err)
	}
	if crc8(buf[0:2]) != buf[2] {
		return fmt.Errorf("temperature: %w", ErrCRC)
	}
	if crc8(buf[3:5]) != buf[5] {
		return fmt.Errorf("humidity: %w", ErrCRC)
	}
	s.lastTemp = convertHDC3022Temperature(binary.BigEndian.Uint16(buf[0:2]))
	s.lastHum = convertHDC3022Humidity(binary.BigEndian.Uint16(buf[3:5]))
	return nil
}

func (s *HDC3022) writeCmd(ctx context.Context, cmd uint16) error {
	var out [2]byte
	binary.BigEndian.PutUint16(out[:], cmd)
	return s.transport.WriteToAddr(ctx, s.config.Address, out[:])
}

// T(C) = -45 + 175 * raw / 65535
func convertHDC3022Temperature(raw uint16) float32 {
	return -45.0 + 175.0*float32(raw)/65535.0
}

// RH(%) = 100 * raw / 65535
func convertHDC3022Humidity(raw uint16) float32 {
	return 100.0 * float32(raw) / 65535.0
}

// CRC-8, polynomial 0x31, init 0xFF
func crc8(data []byte) byte {
	var crc byte = 0xFF
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
