package bmp3

// ODRFilterSettings groups the OSR, ODR and CONFIG register fields.
type ODRFilterSettings struct {
	PressOS   byte
	TempOS    byte
	IIRFilter byte
	ODR       byte
}

// Settings describes the desired sensor configuration.
type Settings struct {
	OpMode    byte
	PressEn   byte
	TempEn    byte
	ODRFilter ODRFilterSettings
}

func settingsChanged(sub, desired uint32) bool {
	return sub&desired != 0
}

// SetSensorSettings writes the settings selected by desired (a mask of Sel*
// bits). Only the registers touched by the selection are written.
func SetSensorSettings(desired uint32, settings *Settings, dev *Dev) Result {
	rslt := nullPtrCheck(dev)
	if rslt != OK {
		return rslt
	}
	if settings == nil {
		return ErrNullPtr
	}
	if settingsChanged(selPowerCtrl, desired) {
		rslt = setPwrCtrlSettings(desired, settings, dev)
		if rslt != OK {
			return rslt
		}
	}
	if settingsChanged(selODRFilter, desired) {
		rslt = setODRFilterSettings(desired, settings, dev)
	}
	return rslt
}

func setPwrCtrlSettings(desired uint32, settings *Settings, dev *Dev) Result {
	reg := make([]byte, 1)
	rslt := GetRegs(RegPwrCtrl, reg, dev)
	if rslt != OK {
		return rslt
	}
	if desired&SelPressEn != 0 {
		reg[0] = setBits(reg[0], pwrCtrlPress, 0, settings.PressEn)
	}
	if desired&SelTempEn != 0 {
		reg[0] = setBits(reg[0], pwrCtrlTemp, 1, settings.TempEn)
	}
	return SetRegs([]byte{RegPwrCtrl}, reg, dev)
}

func setODRFilterSettings(desired uint32, settings *Settings, dev *Dev) Result {
	// OSR, ODR, reserved, CONFIG
	current := make([]byte, lenODRFilter)
	rslt := GetRegs(RegOSR, current, dev)
	if rslt != OK {
		return rslt
	}
	var addrs, data []byte
	if settingsChanged(SelPressOS|SelTempOS, desired) {
		osr := current[0]
		if desired&SelPressOS != 0 {
			osr = setBits(osr, osrPressMask, 0, settings.ODRFilter.PressOS)
		}
		if desired&SelTempOS != 0 {
			osr = setBits(osr, osrTempMask, 3, settings.ODRFilter.TempOS)
		}
		addrs = append(addrs, RegOSR)
		data = append(data, osr)
	}
	if desired&SelODR != 0 {
		addrs = append(addrs, RegODR)
		data = append(data, setBits(current[1], odrMask, 0, settings.ODRFilter.ODR))
	}
	if desired&SelIIRFilter != 0 {
		addrs = append(addrs, RegConfig)
		data = append(data, setBits(current[3], iirFilterMask, 1, settings.ODRFilter.IIRFilter))
	}
	if settings.OpMode == ModeNormal {
		rslt = validateOSRAndODR(settings)
		if rslt != OK {
			return rslt
		}
	}
	return SetRegs(addrs, data, dev)
}

// GetOpMode returns the current power mode.
func GetOpMode(dev *Dev) (byte, Result) {
	reg := make([]byte, 1)
	rslt := GetRegs(RegPwrCtrl, reg, dev)
	return (reg[0] & pwrCtrlMode) >> 4, rslt
}

// SetOpMode switches the device into settings.OpMode. A device that is not
// sleeping is put to sleep first. Normal mode is validated against the
// ODR/OSR currently programmed into the device.
func SetOpMode(settings *Settings, dev *Dev) Result {
	rslt := nullPtrCheck(dev)
	if rslt != OK {
		return rslt
	}
	if settings == nil {
		return ErrNullPtr
	}
	lastMode, rslt := GetOpMode(dev)
	if rslt != OK {
		return rslt
	}
	if lastMode != ModeSleep {
		rslt = putDeviceToSleep(dev)
		if rslt != OK {
			return rslt
		}
		dev.Delay(sleepDelayUS)
	}
	switch settings.OpMode {
	case ModeNormal:
		return setNormalMode(settings, dev)
	case ModeForced:
		return writePowerMode(settings.OpMode, dev)
	}
	return OK
}

func putDeviceToSleep(dev *Dev) Result {
	reg := make([]byte, 1)
	rslt := GetRegs(RegPwrCtrl, reg, dev)
	if rslt != OK {
		return rslt
	}
	reg[0] &^= pwrCtrlMode
	return SetRegs([]byte{RegPwrCtrl}, reg, dev)
}

func writePowerMode(mode byte, dev *Dev) Result {
	reg := make([]byte, 1)
	rslt := GetRegs(RegPwrCtrl, reg, dev)
	if rslt != OK {
		return rslt
	}
	reg[0] = setBits(reg[0], pwrCtrlMode, 4, mode)
	return SetRegs([]byte{RegPwrCtrl}, reg, dev)
}

func setNormalMode(settings *Settings, dev *Dev) Result {
	rslt := getODRFilterSettings(settings, dev)
	if rslt != OK {
		return rslt
	}
	rslt = validateOSRAndODR(settings)
	if rslt != OK {
		return rslt
	}
	rslt = writePowerMode(ModeNormal, dev)
	if rslt != OK {
		return rslt
	}
	confErr := make([]byte, 1)
	rslt = GetRegs(RegErr, confErr, dev)
	if rslt != OK {
		return rslt
	}
	if confErr[0]&errConf != 0 {
		return ErrConfiguration
	}
	return OK
}

func getODRFilterSettings(settings *Settings, dev *Dev) Result {
	regs := make([]byte, lenODRFilter)
	rslt := GetRegs(RegOSR, regs, dev)
	if rslt != OK {
		return rslt
	}
	settings.ODRFilter.PressOS = regs[0] & osrPressMask
	settings.ODRFilter.TempOS = (regs[0] & osrTempMask) >> 3
	settings.ODRFilter.ODR = regs[1] & odrMask
	settings.ODRFilter.IIRFilter = (regs[3] & iirFilterMask) >> 1
	return OK
}

// validateOSRAndODR checks that one conversion of the enabled channels fits
// within the sampling period of the selected ODR.
func validateOSRAndODR(settings *Settings) Result {
	if int(settings.ODRFilter.ODR) >= len(odrPeriodUS) {
		return ErrInvalidODROSRSettings
	}
	measUS := MeasurementTimeUS(*settings)
	if measUS >= odrPeriodUS[settings.ODRFilter.ODR] {
		return ErrInvalidODROSRSettings
	}
	return OK
}

// MeasurementTimeUS returns the conversion time of one sample for the given
// settings, in microseconds.
func MeasurementTimeUS(settings Settings) uint32 {
	var measUS uint32 = measOverhead
	if settings.PressEn == Enable {
		measUS += settleTimePress + (uint32(1)<<settings.ODRFilter.PressOS)*adcConvTime
	}
	if settings.TempEn == Enable {
		measUS += settleTimeTemp + (uint32(1)<<settings.ODRFilter.TempOS)*adcConvTime
	}
	return measUS
}

func setBits(reg, mask byte, pos uint, val byte) byte {
	return (reg &^ mask) | ((val << pos) & mask)
}
