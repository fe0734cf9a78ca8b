package bmp3

import "math"

// calibData holds the NVM trimming coefficients quantized to floating point
// as described in the datasheet, section 8.4.
type calibData struct {
	parT1  float64
	parT2  float64
	parT3  float64
	parP1  float64
	parP2  float64
	parP3  float64
	parP4  float64
	parP5  float64
	parP6  float64
	parP7  float64
	parP8  float64
	parP9  float64
	parP10 float64
	parP11 float64
	tLin   float64
}

func getCalibData(dev *Dev) Result {
	buf := make([]byte, lenCalibData)
	rslt := GetRegs(RegCalibData, buf, dev)
	if rslt != OK {
		return rslt
	}
	dev.calib = parseCalibData(buf)
	return OK
}

func parseCalibData(buf []byte) calibData {
	u16 := func(i int) float64 { return float64(uint16(buf[i+1])<<8 | uint16(buf[i])) }
	s16 := func(i int) float64 { return float64(int16(uint16(buf[i+1])<<8 | uint16(buf[i]))) }
	s8 := func(i int) float64 { return float64(int8(buf[i])) }

	return calibData{
		parT1:  u16(0) / math.Pow(2, -8),
		parT2:  u16(2) / math.Pow(2, 30),
		parT3:  s8(4) / math.Pow(2, 48),
		parP1:  (s16(5) - math.Pow(2, 14)) / math.Pow(2, 20),
		parP2:  (s16(7) - math.Pow(2, 14)) / math.Pow(2, 29),
		parP3:  s8(9) / math.Pow(2, 32),
		parP4:  s8(10) / math.Pow(2, 37),
		parP5:  u16(11) / math.Pow(2, -3),
		parP6:  u16(13) / math.Pow(2, 6),
		parP7:  s8(15) / math.Pow(2, 8),
		parP8:  s8(16) / math.Pow(2, 15),
		parP9:  s16(17) / math.Pow(2, 48),
		parP10: s8(19) / math.Pow(2, 48),
		parP11: s8(20) / math.Pow(2, 65),
	}
}

func compensate(comp uint8, raw uncompData, out *Data, calib *calibData) Result {
	rslt := OK
	if comp&(Press|Temp) != 0 {
		out.Temperature, rslt = compensateTemperature(raw, calib)
	}
	if comp&Press != 0 && rslt == OK {
		out.Pressure, rslt = compensatePressure(raw, calib)
	}
	return rslt
}

func compensateTemperature(raw uncompData, calib *calibData) (float64, Result) {
	partial1 := float64(raw.temperature) - calib.parT1
	partial2 := partial1 * calib.parT2
	calib.tLin = partial2 + partial1*partial1*calib.parT3
	switch {
	case calib.tLin < minTemperature:
		calib.tLin = minTemperature
		return calib.tLin, WarnMinTemp
	case calib.tLin > maxTemperature:
		calib.tLin = maxTemperature
		return calib.tLin, WarnMaxTemp
	}
	return calib.tLin, OK
}

func compensatePressure(raw uncompData, calib *calibData) (float64, Result) {
	tLin := calib.tLin
	tLin2 := tLin * tLin
	tLin3 := tLin2 * tLin
	press := float64(raw.pressure)

	out1 := calib.parP5 + calib.parP6*tLin + calib.parP7*tLin2 + calib.parP8*tLin3
	out2 := press * (calib.parP1 + calib.parP2*tLin + calib.parP3*tLin2 + calib.parP4*tLin3)
	out3 := press*press*(calib.parP9+calib.parP10*tLin) + press*press*press*calib.parP11

	comp := out1 + out2 + out3
	switch {
	case comp < minPressure:
		return minPressure, WarnMinPres
	case comp > maxPressure:
		return maxPressure, WarnMaxPres
	}
	return comp, OK
}
