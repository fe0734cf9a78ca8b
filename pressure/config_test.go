package pressure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/barometer/bmp3"
)

func TestMapOversampling(t *testing.T) {
	tests := []struct {
		given    Oversampling
		expected byte
	}{
		{X1, bmp3.NoOversampling},
		{X2, bmp3.Oversampling2X},
		{X4, bmp3.Oversampling4X},
		{X8, bmp3.Oversampling8X},
		{X16, bmp3.Oversampling16X},
		{X32, bmp3.Oversampling32X},
		{Oversampling(6), bmp3.Oversampling4X},
		{Oversampling(255), bmp3.Oversampling4X},
	}
	for _, test := range tests {
		t.Run(test.given.String(), func(t *testing.T) {
			assert.Equal(t, test.expected, mapOversampling(test.given))
		})
	}
}

func TestMapODR(t *testing.T) {
	tests := []struct {
		given    OutputDataRate
		expected byte
	}{
		{Hz200, bmp3.ODR200Hz},
		{Hz100, bmp3.ODR100Hz},
		{Hz50, bmp3.ODR50Hz},
		{Hz25, bmp3.ODR25Hz},
		{Hz12_5, bmp3.ODR12_5Hz},
		{Hz6_25, bmp3.ODR6_25Hz},
		{Hz3_1, bmp3.ODR3_1Hz},
		{Hz1_5, bmp3.ODR1_5Hz},
		{Hz0_78, bmp3.ODR0_78Hz},
		{Hz0_39, bmp3.ODR0_39Hz},
		{Hz0_2, bmp3.ODR0_2Hz},
		{Hz0_1, bmp3.ODR0_1Hz},
		{Hz0_05, bmp3.ODR0_05Hz},
		{Hz0_02, bmp3.ODR0_02Hz},
		{Hz0_01, bmp3.ODR0_01Hz},
		{OutputDataRate(15), bmp3.ODR25Hz},
		{OutputDataRate(200), bmp3.ODR25Hz},
	}
	for _, test := range tests {
		t.Run(test.given.String(), func(t *testing.T) {
			assert.Equal(t, test.expected, mapODR(test.given))
		})
	}
}

func TestMapIIRFilter(t *testing.T) {
	tests := []struct {
		given    IIRFilterCoeff
		expected byte
	}{
		{FilterOff, bmp3.IIRFilterDisable},
		{Coeff1, bmp3.IIRFilterCoeff1},
		{Coeff3, bmp3.IIRFilterCoeff3},
		{Coeff7, bmp3.IIRFilterCoeff7},
		{Coeff15, bmp3.IIRFilterCoeff15},
		{Coeff31, bmp3.IIRFilterCoeff31},
		{Coeff63, bmp3.IIRFilterCoeff63},
		{Coeff127, bmp3.IIRFilterCoeff127},
		{IIRFilterCoeff(8), bmp3.IIRFilterCoeff3},
		{IIRFilterCoeff(99), bmp3.IIRFilterCoeff3},
	}
	for _, test := range tests {
		t.Run(test.given.String(), func(t *testing.T) {
			assert.Equal(t, test.expected, mapIIRFilter(test.given))
		})
	}
}

func TestConfig_YAML(t *testing.T) {
	var cfg Config
	err := yaml.Unmarshal([]byte(`
pressure_oversampling: x8
temperature_oversampling: X2
odr: 12.5hz
iir_filter: coeff7
`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, Config{
		PressureOversampling:    X8,
		TemperatureOversampling: X2,
		ODR:                     Hz12_5,
		IIRFilter:               Coeff7,
	}, cfg)

	out, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(out), "odr: 25hz")
	assert.Contains(t, string(out), "pressure_oversampling: x4")
}

func TestConfig_UnmarshalInvalid(t *testing.T) {
	var o Oversampling
	assert.ErrorContains(t, o.UnmarshalText([]byte("x64")), "oversampling: unknown value")
	var r OutputDataRate
	assert.Error(t, r.UnmarshalText([]byte("1khz")))
	var c IIRFilterCoeff
	assert.Error(t, c.UnmarshalText([]byte("")))
	assert.Equal(t, "invalid(9)", IIRFilterCoeff(9).String())
}

func TestConfig_YAMLPartial(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("odr: 1.5hz\n"), &cfg))
	expected := DefaultConfig()
	expected.ODR = Hz1_5
	assert.Equal(t, expected, cfg)
}

func TestProtocol_UnmarshalText(t *testing.T) {
	var p Protocol
	require.NoError(t, p.UnmarshalText([]byte("SPI")))
	assert.Equal(t, SPI, p)
	require.NoError(t, p.UnmarshalText([]byte("i2c")))
	assert.Equal(t, I2C, p)
	assert.Error(t, p.UnmarshalText([]byte("uart")))
}
