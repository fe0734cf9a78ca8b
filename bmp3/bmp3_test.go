package bmp3_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/barometer/bmp3"
	"github.com/mklimuk/barometer/bmp3/sim"
)

func newDev(chip *sim.Device, intf bmp3.Interface) *bmp3.Dev {
	return &bmp3.Dev{
		Intf: intf,
		Read: func(reg byte, data []byte, length uint32) bmp3.Result {
			return bmp3.Result(chip.Read(reg, data[:length]))
		},
		Write: func(reg byte, data []byte, length uint32) bmp3.Result {
			return bmp3.Result(chip.Write(reg, data[:length]))
		},
		Delay: func(periodUS uint32) {
			chip.Delay(time.Duration(periodUS) * time.Microsecond)
		},
	}
}

func defaultSettings() *bmp3.Settings {
	return &bmp3.Settings{
		OpMode:  bmp3.ModeNormal,
		PressEn: bmp3.Enable,
		TempEn:  bmp3.Enable,
		ODRFilter: bmp3.ODRFilterSettings{
			PressOS:   bmp3.Oversampling4X,
			TempOS:    bmp3.NoOversampling,
			IIRFilter: bmp3.IIRFilterCoeff3,
			ODR:       bmp3.ODR25Hz,
		},
	}
}

const allSettings = bmp3.SelPressEn | bmp3.SelTempEn | bmp3.SelPressOS | bmp3.SelTempOS | bmp3.SelIIRFilter | bmp3.SelODR

func TestInit(t *testing.T) {
	t.Run("i2c", func(t *testing.T) {
		chip := sim.New()
		dev := newDev(chip, bmp3.I2CIntf)
		require.Equal(t, bmp3.OK, bmp3.Init(dev))
		assert.Equal(t, bmp3.ChipIDBMP390, dev.ChipID)
		assert.Equal(t, []sim.Write{{Reg: bmp3.RegCmd, Value: 0xB6}}, chip.Writes())
		assert.Equal(t, 2*time.Millisecond, chip.Delayed())
	})
	t.Run("spi", func(t *testing.T) {
		chip := sim.New(sim.WithSPI())
		dev := newDev(chip, bmp3.SPIIntf)
		require.Equal(t, bmp3.OK, bmp3.Init(dev))
		assert.Equal(t, bmp3.ChipIDBMP390, dev.ChipID)
		// dummy chip id, chip id, status, err, calibration
		assert.Equal(t, 5, chip.Reads())
	})
	t.Run("bmp388", func(t *testing.T) {
		dev := newDev(sim.New(sim.WithChipID(bmp3.ChipIDBMP388)), bmp3.I2CIntf)
		require.Equal(t, bmp3.OK, bmp3.Init(dev))
		assert.Equal(t, bmp3.ChipIDBMP388, dev.ChipID)
	})
	t.Run("unknown chip", func(t *testing.T) {
		chip := sim.New(sim.WithChipID(0x58))
		assert.Equal(t, bmp3.ErrDevNotFound, bmp3.Init(newDev(chip, bmp3.I2CIntf)))
		assert.Empty(t, chip.Writes())
	})
	t.Run("read failure", func(t *testing.T) {
		chip := sim.New()
		chip.ReadStatus = -1
		dev := newDev(chip, bmp3.I2CIntf)
		assert.Equal(t, bmp3.ErrCommFail, bmp3.Init(dev))
		assert.Equal(t, bmp3.Result(-1), dev.IntfRslt)
	})
	t.Run("command not ready", func(t *testing.T) {
		chip := sim.New()
		chip.SetReg(bmp3.RegSensStatus, 0x00)
		assert.Equal(t, bmp3.ErrCmdExecFailed, bmp3.Init(newDev(chip, bmp3.I2CIntf)))
	})
	t.Run("nil callbacks", func(t *testing.T) {
		assert.Equal(t, bmp3.ErrNullPtr, bmp3.Init(nil))
		assert.Equal(t, bmp3.ErrNullPtr, bmp3.Init(&bmp3.Dev{}))
		dev := newDev(sim.New(), bmp3.I2CIntf)
		dev.Delay = nil
		assert.Equal(t, bmp3.ErrNullPtr, bmp3.Init(dev))
	})
}

func TestSetRegs_Interleaved(t *testing.T) {
	chip := sim.New()
	dev := newDev(chip, bmp3.I2CIntf)
	var sent []byte
	dev.Write = func(reg byte, data []byte, length uint32) bmp3.Result {
		sent = append([]byte{reg}, data[:length]...)
		return bmp3.Result(chip.Write(reg, data[:length]))
	}
	require.Equal(t, bmp3.OK, bmp3.SetRegs([]byte{0x1C, 0x1D, 0x1F}, []byte{0x02, 0x03, 0x04}, dev))
	assert.Equal(t, []byte{0x1C, 0x02, 0x1D, 0x03, 0x1F, 0x04}, sent)
	assert.Equal(t, bmp3.ErrInvalidLen, bmp3.SetRegs([]byte{0x1C}, []byte{0x01, 0x02}, dev))
	assert.Equal(t, bmp3.ErrInvalidLen, bmp3.SetRegs(nil, nil, dev))
}

func TestGetRegs_InvalidLen(t *testing.T) {
	dev := newDev(sim.New(), bmp3.I2CIntf)
	assert.Equal(t, bmp3.ErrInvalidLen, bmp3.GetRegs(bmp3.RegChipID, nil, dev))
}

func TestSetSensorSettings(t *testing.T) {
	chip := sim.New()
	dev := newDev(chip, bmp3.I2CIntf)
	require.Equal(t, bmp3.OK, bmp3.Init(dev))

	require.Equal(t, bmp3.OK, bmp3.SetSensorSettings(allSettings, defaultSettings(), dev))

	want := []sim.Write{
		{Reg: bmp3.RegCmd, Value: 0xB6},
		{Reg: bmp3.RegPwrCtrl, Value: 0x03},
		{Reg: bmp3.RegOSR, Value: 0x02},
		{Reg: bmp3.RegODR, Value: 0x03},
		{Reg: bmp3.RegConfig, Value: 0x04},
	}
	if diff := cmp.Diff(want, chip.Writes()); diff != "" {
		t.Errorf("register writes mismatch (-want +got):\n%s", diff)
	}
}

func TestSetSensorSettings_PartialSelection(t *testing.T) {
	chip := sim.New()
	dev := newDev(chip, bmp3.I2CIntf)
	require.Equal(t, bmp3.OK, bmp3.Init(dev))

	s := defaultSettings()
	s.ODRFilter.ODR = bmp3.ODR1_5Hz
	require.Equal(t, bmp3.OK, bmp3.SetSensorSettings(bmp3.SelODR, s, dev))
	assert.Equal(t, []sim.Write{
		{Reg: bmp3.RegCmd, Value: 0xB6},
		{Reg: bmp3.RegODR, Value: 0x07},
	}, chip.Writes())
	// power-on OSR untouched
	assert.Equal(t, byte(0x02), chip.Reg(bmp3.RegOSR))
}

func TestSetSensorSettings_InvalidODROSR(t *testing.T) {
	chip := sim.New()
	dev := newDev(chip, bmp3.I2CIntf)
	require.Equal(t, bmp3.OK, bmp3.Init(dev))

	s := defaultSettings()
	s.ODRFilter.PressOS = bmp3.Oversampling32X
	s.ODRFilter.TempOS = bmp3.Oversampling32X
	s.ODRFilter.ODR = bmp3.ODR200Hz
	assert.Equal(t, bmp3.ErrInvalidODROSRSettings, bmp3.SetSensorSettings(allSettings, s, dev))
	assert.Equal(t, byte(0x02), chip.Reg(bmp3.RegOSR))

	// the same combination is accepted outside normal mode
	s.OpMode = bmp3.ModeForced
	assert.Equal(t, bmp3.OK, bmp3.SetSensorSettings(allSettings, s, dev))
}

func TestSetOpMode(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		chip := sim.New()
		dev := newDev(chip, bmp3.I2CIntf)
		require.Equal(t, bmp3.OK, bmp3.Init(dev))
		s := defaultSettings()
		require.Equal(t, bmp3.OK, bmp3.SetSensorSettings(allSettings, s, dev))
		require.Equal(t, bmp3.OK, bmp3.SetOpMode(s, dev))
		assert.Equal(t, byte(0x33), chip.Reg(bmp3.RegPwrCtrl))
		mode, rslt := bmp3.GetOpMode(dev)
		require.Equal(t, bmp3.OK, rslt)
		assert.Equal(t, bmp3.ModeNormal, mode)
		// no sleep transition from power-on
		assert.Equal(t, 2*time.Millisecond, chip.Delayed())
	})
	t.Run("from normal sleeps first", func(t *testing.T) {
		chip := sim.New()
		dev := newDev(chip, bmp3.I2CIntf)
		require.Equal(t, bmp3.OK, bmp3.Init(dev))
		chip.SetReg(bmp3.RegPwrCtrl, 0x33)
		s := defaultSettings()
		s.OpMode = bmp3.ModeForced
		require.Equal(t, bmp3.OK, bmp3.SetOpMode(s, dev))
		writes := chip.Writes()
		assert.Equal(t, []sim.Write{
			{Reg: bmp3.RegCmd, Value: 0xB6},
			{Reg: bmp3.RegPwrCtrl, Value: 0x03},
			{Reg: bmp3.RegPwrCtrl, Value: 0x13},
		}, writes)
		assert.Equal(t, 7*time.Millisecond, chip.Delayed())
	})
	t.Run("configuration error", func(t *testing.T) {
		chip := sim.New()
		dev := newDev(chip, bmp3.I2CIntf)
		require.Equal(t, bmp3.OK, bmp3.Init(dev))
		s := defaultSettings()
		require.Equal(t, bmp3.OK, bmp3.SetSensorSettings(allSettings, s, dev))
		chip.SetReg(bmp3.RegErr, 0x04)
		assert.Equal(t, bmp3.ErrConfiguration, bmp3.SetOpMode(s, dev))
	})
	t.Run("odr too fast for programmed osr", func(t *testing.T) {
		chip := sim.New()
		dev := newDev(chip, bmp3.I2CIntf)
		require.Equal(t, bmp3.OK, bmp3.Init(dev))
		chip.SetReg(bmp3.RegOSR, 0x2D) // x32 / x32
		chip.SetReg(bmp3.RegODR, bmp3.ODR25Hz)
		assert.Equal(t, bmp3.ErrInvalidODROSRSettings, bmp3.SetOpMode(defaultSettings(), dev))
		assert.Equal(t, byte(0x00), chip.Reg(bmp3.RegPwrCtrl))
	})
}

func TestGetSensorData(t *testing.T) {
	chip := sim.New()
	dev := newDev(chip, bmp3.I2CIntf)
	require.Equal(t, bmp3.OK, bmp3.Init(dev))

	data, rslt := bmp3.GetSensorData(bmp3.PressTemp, dev)
	require.Equal(t, bmp3.OK, rslt)
	assert.Equal(t, sim.FixtureTemperature, data.Temperature)
	assert.Equal(t, sim.FixturePressure, data.Pressure)

	data, rslt = bmp3.GetSensorData(bmp3.Temp, dev)
	require.Equal(t, bmp3.OK, rslt)
	assert.Equal(t, sim.FixtureTemperature, data.Temperature)
	assert.Zero(t, data.Pressure)
}

func TestGetSensorData_Clamp(t *testing.T) {
	tests := []struct {
		name     string
		rawPress uint32
		rawTemp  uint32
		rslt     bmp3.Result
		temp     float64
		pressure float64
	}{
		{"hot", sim.FixtureRawPressure, 6912000 + 90*65536, bmp3.WarnMaxTemp, 85, 0},
		{"cold", sim.FixtureRawPressure, 6912000 - 50*65536, bmp3.WarnMinTemp, -40, 0},
		{"overpressure", 50000 * 256, sim.FixtureRawTemperature, bmp3.WarnMaxPres, 25, 125000},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			chip := sim.New()
			dev := newDev(chip, bmp3.I2CIntf)
			require.Equal(t, bmp3.OK, bmp3.Init(dev))
			chip.SetRaw(test.rawPress, test.rawTemp)
			data, rslt := bmp3.GetSensorData(bmp3.PressTemp, dev)
			assert.Equal(t, test.rslt, rslt)
			assert.True(t, rslt.IsWarning())
			assert.Equal(t, test.temp, data.Temperature)
			assert.Equal(t, test.pressure, data.Pressure)
		})
	}
}

func TestMeasurementTimeUS(t *testing.T) {
	assert.Equal(t, uint32(11039), bmp3.MeasurementTimeUS(*defaultSettings()))
	s := defaultSettings()
	s.TempEn = bmp3.Disable
	assert.Equal(t, uint32(8706), bmp3.MeasurementTimeUS(*s))
}

func TestResult(t *testing.T) {
	assert.NoError(t, bmp3.OK.Err())
	assert.EqualError(t, bmp3.ErrCommFail.Err(), "bmp3: communication failure (-2)")
	assert.EqualError(t, bmp3.Result(-42), "bmp3: result -42")
	assert.False(t, bmp3.ErrDevNotFound.IsWarning())
	assert.True(t, bmp3.WarnMaxPres.IsWarning())
}
