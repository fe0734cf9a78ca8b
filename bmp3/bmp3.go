package bmp3

// ReadFunc reads length bytes starting at reg into data.
// It returns 0 on success and a negative value on failure.
type ReadFunc func(reg byte, data []byte, length uint32) Result

// WriteFunc writes length bytes from data starting at reg.
type WriteFunc func(reg byte, data []byte, length uint32) Result

// DelayFunc blocks for the given period in microseconds.
type DelayFunc func(periodUS uint32)

// Dev is the device state record. It is owned by a single caller and is not
// safe for concurrent use.
type Dev struct {
	// ChipID is filled in by Init.
	ChipID byte
	Intf   Interface
	Read   ReadFunc
	Write  WriteFunc
	Delay  DelayFunc
	// IntfRslt holds the last non-zero status returned by a bus callback.
	IntfRslt Result

	dummyByte int
	calib     calibData
}

// Data holds compensated sensor output.
type Data struct {
	// Pressure in Pa
	Pressure float64
	// Temperature in degrees Celsius
	Temperature float64
}

func nullPtrCheck(dev *Dev) Result {
	if dev == nil || dev.Read == nil || dev.Write == nil || dev.Delay == nil {
		return ErrNullPtr
	}
	return OK
}

// Init detects the chip, performs a soft reset and loads the calibration
// coefficients from NVM.
func Init(dev *Dev) Result {
	rslt := nullPtrCheck(dev)
	if rslt != OK {
		return rslt
	}
	chipID := make([]byte, 1)
	if dev.Intf == SPIIntf {
		// the first read switches the device into SPI mode
		dev.dummyByte = 1
		_ = GetRegs(RegChipID, chipID, dev)
	} else {
		dev.dummyByte = 0
	}
	rslt = GetRegs(RegChipID, chipID, dev)
	if rslt != OK {
		return rslt
	}
	if chipID[0] != ChipIDBMP388 && chipID[0] != ChipIDBMP390 {
		return ErrDevNotFound
	}
	dev.ChipID = chipID[0]
	rslt = SoftReset(dev)
	if rslt != OK {
		return rslt
	}
	return getCalibData(dev)
}

// GetRegs reads len(data) bytes starting at reg.
func GetRegs(reg byte, data []byte, dev *Dev) Result {
	rslt := nullPtrCheck(dev)
	if rslt != OK {
		return rslt
	}
	if len(data) == 0 {
		return ErrInvalidLen
	}
	length := uint32(len(data))
	if dev.Intf == SPIIntf {
		reg |= 0x80
		tmp := make([]byte, len(data)+dev.dummyByte)
		dev.IntfRslt = dev.Read(reg, tmp, uint32(len(tmp)))
		copy(data, tmp[dev.dummyByte:])
	} else {
		dev.IntfRslt = dev.Read(reg, data, length)
	}
	if dev.IntfRslt != OK {
		return ErrCommFail
	}
	return OK
}

// SetRegs writes data[i] to regs[i]. Bursts of more than one register are sent
// as a single transfer starting at regs[0] with the remaining addresses
// interleaved between data bytes.
func SetRegs(regs []byte, data []byte, dev *Dev) Result {
	rslt := nullPtrCheck(dev)
	if rslt != OK {
		return rslt
	}
	if len(regs) == 0 || len(regs) != len(data) {
		return ErrInvalidLen
	}
	addrs := make([]byte, len(regs))
	copy(addrs, regs)
	if dev.Intf == SPIIntf {
		for i := range addrs {
			addrs[i] &= 0x7F
		}
	}
	buf := data
	if len(data) > 1 {
		buf = interleave(addrs, data)
	}
	dev.IntfRslt = dev.Write(addrs[0], buf, uint32(len(buf)))
	if dev.IntfRslt != OK {
		return ErrCommFail
	}
	return OK
}

func interleave(addrs, data []byte) []byte {
	buf := make([]byte, 0, len(data)*2-1)
	buf = append(buf, data[0])
	for i := 1; i < len(data); i++ {
		buf = append(buf, addrs[i], data[i])
	}
	return buf
}

// SoftReset issues the soft reset command. The device must report command
// readiness, and the error register must be clear afterwards.
func SoftReset(dev *Dev) Result {
	status := make([]byte, 1)
	rslt := GetRegs(RegSensStatus, status, dev)
	if rslt != OK || status[0]&statusCmdRdy == 0 {
		return ErrCmdExecFailed
	}
	rslt = SetRegs([]byte{RegCmd}, []byte{softResetCmd}, dev)
	if rslt != OK {
		return rslt
	}
	dev.Delay(softResetDelayUS)
	errStatus := make([]byte, 1)
	rslt = GetRegs(RegErr, errStatus, dev)
	if rslt != OK || errStatus[0]&errCmd != 0 {
		return ErrCmdExecFailed
	}
	return OK
}

// GetSensorData reads the raw pressure and temperature registers and
// compensates them using the calibration loaded by Init. Temperature is always
// compensated because pressure compensation depends on it.
func GetSensorData(comp uint8, dev *Dev) (Data, Result) {
	var data Data
	buf := make([]byte, lenPTData)
	rslt := GetRegs(RegData, buf, dev)
	if rslt != OK {
		return data, rslt
	}
	raw := parseSensorData(buf)
	rslt = compensate(comp, raw, &data, &dev.calib)
	return data, rslt
}

type uncompData struct {
	pressure    uint32
	temperature uint32
}

func parseSensorData(buf []byte) uncompData {
	return uncompData{
		pressure:    uint32(buf[2])<<16 | uint32(buf[1])<<8 | uint32(buf[0]),
		temperature: uint32(buf[5])<<16 | uint32(buf[4])<<8 | uint32(buf[3]),
	}
}
