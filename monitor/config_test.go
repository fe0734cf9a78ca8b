package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/barometer/pressure"
)

const sampleConfig = `
threshold: 28.5
interval: 500ms
metrics: ":9101"
alarm:
  gpio:
    pin: 2
sensors:
  - name: outdoor
    kind: BMP390
    protocol: spi
    bmp390:
      pressure_oversampling: x8
      odr: 12.5hz
  - kind: hdc3022
  - name: demo
    kind: mock
    temperature: 21.5
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 28.5, cfg.Threshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, ":9101", cfg.Metrics)
	assert.True(t, cfg.Alarm.Log)
	require.NotNil(t, cfg.Alarm.GPIO)
	assert.Equal(t, byte(0x21), cfg.Alarm.GPIO.Address)
	assert.Equal(t, 2, cfg.Alarm.GPIO.Pin)

	require.Len(t, cfg.Sensors, 3)
	bmp := cfg.Sensors[0]
	assert.Equal(t, KindBMP390, bmp.Kind)
	assert.Equal(t, byte(0x76), bmp.Address)
	assert.Equal(t, pressure.SPI, bmp.Protocol)
	assert.Equal(t, pressure.Config{
		PressureOversampling:    pressure.X8,
		TemperatureOversampling: pressure.X1,
		ODR:                     pressure.Hz12_5,
		IIRFilter:               pressure.Coeff3,
	}, *bmp.BMP390)

	assert.Equal(t, "hdc3022-1", cfg.Sensors[1].Name)
	assert.Equal(t, byte(0x44), cfg.Sensors[1].Address)
	assert.Equal(t, float32(21.5), cfg.Sensors[2].Temperature)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("sensors:\n  - kind: bmp390\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, cfg.Threshold)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Nil(t, cfg.Alarm.GPIO)
	assert.Equal(t, pressure.DefaultConfig(), *cfg.Sensors[0].BMP390)
	assert.Equal(t, pressure.I2C, cfg.Sensors[0].Protocol)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		given string
		err   string
	}{
		{"unknown kind", "sensors:\n  - kind: sht31\n", "unknown kind"},
		{"duplicate name", "sensors:\n  - {name: a, kind: mock}\n  - {name: a, kind: mock}\n", "duplicate sensor name"},
		{"bad pin", "alarm:\n  gpio:\n    pin: 9\n", "pin out of range"},
		{"bad odr", "sensors:\n  - kind: bmp390\n    bmp390:\n      odr: 1khz\n", "output data rate"},
		{"bad interval", "interval: -1s\n", "invalid interval"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(test.given))
			assert.ErrorContains(t, err, test.err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Sensors, 3)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "could not read config file")
}
