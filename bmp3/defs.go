// Package bmp3 is a Go port of the Bosch BMP3 sensor API (BMP388/BMP390).
//
// It keeps the shape of the vendor library: a device record carrying bus
// callbacks, integer result codes, and the init / settings / mode / data entry
// points. Register sequencing and compensation live here; bus access is left to
// the callbacks supplied by the caller.
//
// Datasheet: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp390-ds002.pdf
package bmp3

const (
	ChipIDBMP388 byte = 0x50
	ChipIDBMP390 byte = 0x60
)

// I2C addresses selected by the SDO pin.
const (
	AddressPrimary   byte = 0x76
	AddressSecondary byte = 0x77
)

// Register map
const (
	RegChipID     byte = 0x00
	RegErr        byte = 0x02
	RegSensStatus byte = 0x03
	RegData       byte = 0x04
	RegPwrCtrl    byte = 0x1B
	RegOSR        byte = 0x1C
	RegODR        byte = 0x1D
	RegConfig     byte = 0x1F
	RegCalibData  byte = 0x31
	RegCmd        byte = 0x7E
)

const (
	errFatal byte = 0x01
	errCmd   byte = 0x02
	errConf  byte = 0x04

	statusCmdRdy byte = 0x10

	softResetCmd byte = 0xB6
)

// Interface selects the wire protocol the device is attached with.
type Interface byte

const (
	I2CIntf Interface = iota
	SPIIntf
)

func (i Interface) String() string {
	if i == SPIIntf {
		return "spi"
	}
	return "i2c"
}

// Power modes (PWR_CTRL bits 5:4)
const (
	ModeSleep  byte = 0x00
	ModeForced byte = 0x01
	ModeNormal byte = 0x03
)

const (
	Disable byte = 0x00
	Enable  byte = 0x01
)

// Oversampling codes (OSR register, 3 bits each for pressure and temperature)
const (
	NoOversampling  byte = 0x00
	Oversampling2X  byte = 0x01
	Oversampling4X  byte = 0x02
	Oversampling8X  byte = 0x03
	Oversampling16X byte = 0x04
	Oversampling32X byte = 0x05
)

// Output data rate codes (ODR register, bits 4:0)
const (
	ODR200Hz    byte = 0x00
	ODR100Hz    byte = 0x01
	ODR50Hz     byte = 0x02
	ODR25Hz     byte = 0x03
	ODR12_5Hz   byte = 0x04
	ODR6_25Hz   byte = 0x05
	ODR3_1Hz    byte = 0x06
	ODR1_5Hz    byte = 0x07
	ODR0_78Hz   byte = 0x08
	ODR0_39Hz   byte = 0x09
	ODR0_2Hz    byte = 0x0A
	ODR0_1Hz    byte = 0x0B
	ODR0_05Hz   byte = 0x0C
	ODR0_02Hz   byte = 0x0D
	ODR0_01Hz   byte = 0x0E
	ODR0_006Hz  byte = 0x0F
	ODR0_003Hz  byte = 0x10
	ODR0_0015Hz byte = 0x11
)

// IIR filter codes (CONFIG register, bits 3:1)
const (
	IIRFilterDisable  byte = 0x00
	IIRFilterCoeff1   byte = 0x01
	IIRFilterCoeff3   byte = 0x02
	IIRFilterCoeff7   byte = 0x03
	IIRFilterCoeff15  byte = 0x04
	IIRFilterCoeff31  byte = 0x05
	IIRFilterCoeff63  byte = 0x06
	IIRFilterCoeff127 byte = 0x07
)

// Settings selection bits for SetSensorSettings.
const (
	SelPressEn   uint32 = 1 << 1
	SelTempEn    uint32 = 1 << 2
	SelDrdyEn    uint32 = 1 << 3
	SelPressOS   uint32 = 1 << 4
	SelTempOS    uint32 = 1 << 5
	SelIIRFilter uint32 = 1 << 6
	SelODR       uint32 = 1 << 7

	selPowerCtrl = SelPressEn | SelTempEn
	selODRFilter = SelPressOS | SelTempOS | SelIIRFilter | SelODR
)

// Sensor component selection for GetSensorData.
const (
	Press     uint8 = 1
	Temp      uint8 = 2
	PressTemp uint8 = Press | Temp
)

const (
	lenCalibData  = 21
	lenPTData     = 6
	lenODRFilter  = 4
	pwrCtrlMode   = 0x30
	pwrCtrlPress  = 0x01
	pwrCtrlTemp   = 0x02
	osrPressMask  = 0x07
	osrTempMask   = 0x38
	odrMask       = 0x1F
	iirFilterMask = 0x0E
)

// Timing, in microseconds.
const (
	softResetDelayUS = 2000
	sleepDelayUS     = 5000

	settleTimePress = 392
	settleTimeTemp  = 313
	adcConvTime     = 2020
	measOverhead    = 234
)

// sampling period per ODR code, in microseconds
var odrPeriodUS = [...]uint32{
	5000, 10000, 20000, 40000, 80000, 160000, 320000, 640000, 1280000,
	2560000, 5120000, 10240000, 20480000, 40960000, 81920000, 163840000,
	327680000, 655360000,
}

const (
	minTemperature = -40.0
	maxTemperature = 85.0
	minPressure    = 30000.0
	maxPressure    = 125000.0
)
