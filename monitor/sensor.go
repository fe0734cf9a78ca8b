// Package monitor polls a list of temperature sensors, aggregates their
// readings and raises an alarm when any of them runs hot.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mklimuk/barometer/pressure"
)

// Sensor is one entry of the monitored sensor list.
type Sensor interface {
	Name() string
	// Update takes a fresh reading.
	Update(ctx context.Context) error
	// Temperature returns the last reading in Celsius or NaN when there is none.
	Temperature() float64
	Log(logger *slog.Logger)
}

// PressureSensor is implemented by sensors that also report pressure.
type PressureSensor interface {
	// Pressure returns the last reading in Pa or NaN when there is none.
	Pressure() float64
}

// Barometer is the subset of pressure.BMP390 used by BMP390Sensor.
type Barometer interface {
	Init() error
	Configure(cfg pressure.Config) error
	ReadMeasurement() (pressure.Measurement, error)
}

var _ Barometer = &pressure.BMP390{}

type BMP390Sensor struct {
	name  string
	dev   Barometer
	last  pressure.Measurement
	valid bool
	err   error
}

func NewBMP390Sensor(name string, dev Barometer) *BMP390Sensor {
	return &BMP390Sensor{name: name, dev: dev}
}

// Setup initializes the device and starts continuous sampling with cfg.
func (s *BMP390Sensor) Setup(cfg pressure.Config) error {
	if err := s.dev.Init(); err != nil {
		return fmt.Errorf("bmp390 %s: init failed (code %d): %w", s.name, pressure.Code(err), err)
	}
	if err := s.dev.Configure(cfg); err != nil {
		return fmt.Errorf("bmp390 %s: configure failed (code %d): %w", s.name, pressure.Code(err), err)
	}
	return nil
}

func (s *BMP390Sensor) Name() string {
	return s.name
}

func (s *BMP390Sensor) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		s.valid, s.err = false, err
		return err
	}
	m, err := s.dev.ReadMeasurement()
	if err != nil {
		s.valid = false
		s.err = fmt.Errorf("bmp390 %s: read failed (code %d): %w", s.name, pressure.Code(err), err)
		return s.err
	}
	s.last, s.valid, s.err = m, true, nil
	return nil
}

func (s *BMP390Sensor) Temperature() float64 {
	if !s.valid {
		return math.NaN()
	}
	return s.last.TemperatureC
}

func (s *BMP390Sensor) Pressure() float64 {
	if !s.valid {
		return math.NaN()
	}
	return s.last.PressurePa
}

func (s *BMP390Sensor) Log(logger *slog.Logger) {
	if !s.valid {
		logger.Warn("no reading", "sensor", s.name, "kind", "bmp390", "err", s.err)
		return
	}
	logger.Info("reading", "sensor", s.name, "kind", "bmp390",
		"temperature", s.last.TemperatureC, "pressure", s.last.PressurePa)
}

// TemperatureReader is implemented by the environment package sensors.
type TemperatureReader interface {
	GetTemperature(ctx context.Context) (float32, error)
}

// TempAndHumReader is implemented by combined temperature/humidity sensors.
type TempAndHumReader interface {
	GetTempAndHum(ctx context.Context) (float32, float32, error)
}

// ThermometerSensor adapts a temperature reader (HDC3022, mocks) to Sensor.
type ThermometerSensor struct {
	name     string
	kind     string
	reader   TemperatureReader
	temp     float64
	hum      float64
	humidity bool
	err      error
}

func NewThermometerSensor(name, kind string, reader TemperatureReader) *ThermometerSensor {
	return &ThermometerSensor{name: name, kind: kind, reader: reader, temp: math.NaN(), hum: math.NaN()}
}

func (s *ThermometerSensor) Name() string {
	return s.name
}

func (s *ThermometerSensor) Update(ctx context.Context) error {
	s.temp, s.hum, s.err, s.humidity = math.NaN(), math.NaN(), nil, false
	if th, ok := s.reader.(TempAndHumReader); ok {
		t, h, err := th.GetTempAndHum(ctx)
		if err != nil {
			s.err = fmt.Errorf("%s %s: read failed: %w", s.kind, s.name, err)
			return s.err
		}
		s.temp, s.hum, s.humidity = float64(t), float64(h), true
		return nil
	}
	t, err := s.reader.GetTemperature(ctx)
	if err != nil {
		s.err = fmt.Errorf("%s %s: read failed: %w", s.kind, s.name, err)
		return s.err
	}
	s.temp = float64(t)
	return nil
}

func (s *ThermometerSensor) Temperature() float64 {
	return s.temp
}

// Humidity returns the last relative humidity or NaN.
func (s *ThermometerSensor) Humidity() float64 {
	return s.hum
}

func (s *ThermometerSensor) Log(logger *slog.Logger) {
	if s.err != nil || math.IsNaN(s.temp) {
		logger.Warn("no reading", "sensor", s.name, "kind", s.kind, "err", s.err)
		return
	}
	if s.humidity {
		logger.Info("reading", "sensor", s.name, "kind", s.kind, "temperature", s.temp, "humidity", s.hum)
		return
	}
	logger.Info("reading", "sensor", s.name, "kind", s.kind, "temperature", s.temp)
}
