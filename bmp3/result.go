package bmp3

import "strconv"

// Result is the vendor result code. Zero is success, negative values are
// errors and positive values are warnings. Non-zero results are returned as
// errors so callers can match them with errors.Is / errors.As.
type Result int8

const OK Result = 0

const (
	ErrNullPtr                 Result = -1
	ErrCommFail                Result = -2
	ErrInvalidODROSRSettings   Result = -3
	ErrCmdExecFailed           Result = -4
	ErrConfiguration           Result = -5
	ErrInvalidLen              Result = -6
	ErrDevNotFound             Result = -7
	ErrFIFOWatermarkNotReached Result = -8
)

const (
	WarnSensorNotEnabled       Result = 1
	WarnInvalidFIFOReqFrameCnt Result = 2
	WarnMinTemp                Result = 3
	WarnMaxTemp                Result = 4
	WarnMinPres                Result = 5
	WarnMaxPres                Result = 6
)

var resultText = map[Result]string{
	OK:                         "ok",
	ErrNullPtr:                 "null pointer",
	ErrCommFail:                "communication failure",
	ErrInvalidODROSRSettings:   "invalid odr/osr settings",
	ErrCmdExecFailed:           "command execution failed",
	ErrConfiguration:           "configuration error",
	ErrInvalidLen:              "invalid length",
	ErrDevNotFound:             "device not found",
	ErrFIFOWatermarkNotReached: "fifo watermark not reached",
	WarnSensorNotEnabled:       "sensor not enabled",
	WarnInvalidFIFOReqFrameCnt: "invalid fifo frame count",
	WarnMinTemp:                "temperature below range",
	WarnMaxTemp:                "temperature above range",
	WarnMinPres:                "pressure below range",
	WarnMaxPres:                "pressure above range",
}

func (r Result) Error() string {
	if txt, ok := resultText[r]; ok {
		return "bmp3: " + txt + " (" + strconv.Itoa(int(r)) + ")"
	}
	return "bmp3: result " + strconv.Itoa(int(r))
}

// IsWarning reports whether r is a positive (non-fatal) result.
func (r Result) IsWarning() bool {
	return r > 0
}

// Err converts a result into an error, nil for OK.
func (r Result) Err() error {
	if r == OK {
		return nil
	}
	return r
}
