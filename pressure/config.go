package pressure

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/barometer/bmp3"
)

// Oversampling is the number of ADC samples averaged per measurement.
type Oversampling uint8

const (
	X1 Oversampling = iota
	X2
	X4
	X8
	X16
	X32
)

// OutputDataRate is the sampling rate in normal mode.
type OutputDataRate uint8

const (
	Hz200 OutputDataRate = iota
	Hz100
	Hz50
	Hz25
	Hz12_5
	Hz6_25
	Hz3_1
	Hz1_5
	Hz0_78
	Hz0_39
	Hz0_2
	Hz0_1
	Hz0_05
	Hz0_02
	Hz0_01
)

// IIRFilterCoeff is the IIR filter coefficient applied to pressure and
// temperature output.
type IIRFilterCoeff uint8

const (
	FilterOff IIRFilterCoeff = iota
	Coeff1
	Coeff3
	Coeff7
	Coeff15
	Coeff31
	Coeff63
	Coeff127
)

// Config is the generic sensor configuration applied by Configure.
type Config struct {
	PressureOversampling    Oversampling   `yaml:"pressure_oversampling"`
	TemperatureOversampling Oversampling   `yaml:"temperature_oversampling"`
	ODR                     OutputDataRate `yaml:"odr"`
	IIRFilter               IIRFilterCoeff `yaml:"iir_filter"`
}

// DefaultConfig returns x4 pressure / x1 temperature oversampling at 25Hz with
// filter coefficient 3.
func DefaultConfig() Config {
	return Config{
		PressureOversampling:    X4,
		TemperatureOversampling: X1,
		ODR:                     Hz25,
		IIRFilter:               Coeff3,
	}
}

// UnmarshalYAML decodes a partial document on top of DefaultConfig.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	p := plain(DefaultConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("osr_p=%s osr_t=%s odr=%s iir=%s", c.PressureOversampling, c.TemperatureOversampling, c.ODR, c.IIRFilter)
}

func mapOversampling(o Oversampling) byte {
	switch o {
	case X1:
		return bmp3.NoOversampling
	case X2:
		return bmp3.Oversampling2X
	case X4:
		return bmp3.Oversampling4X
	case X8:
		return bmp3.Oversampling8X
	case X16:
		return bmp3.Oversampling16X
	case X32:
		return bmp3.Oversampling32X
	default:
		return bmp3.Oversampling4X
	}
}

func mapODR(r OutputDataRate) byte {
	switch r {
	case Hz200:
		return bmp3.ODR200Hz
	case Hz100:
		return bmp3.ODR100Hz
	case Hz50:
		return bmp3.ODR50Hz
	case Hz25:
		return bmp3.ODR25Hz
	case Hz12_5:
		return bmp3.ODR12_5Hz
	case Hz6_25:
		return bmp3.ODR6_25Hz
	case Hz3_1:
		return bmp3.ODR3_1Hz
	case Hz1_5:
		return bmp3.ODR1_5Hz
	case Hz0_78:
		return bmp3.ODR0_78Hz
	case Hz0_39:
		return bmp3.ODR0_39Hz
	case Hz0_2:
		return bmp3.ODR0_2Hz
	case Hz0_1:
		return bmp3.ODR0_1Hz
	case Hz0_05:
		return bmp3.ODR0_05Hz
	case Hz0_02:
		return bmp3.ODR0_02Hz
	case Hz0_01:
		return bmp3.ODR0_01Hz
	default:
		return bmp3.ODR25Hz
	}
}

func mapIIRFilter(c IIRFilterCoeff) byte {
	switch c {
	case FilterOff:
		return bmp3.IIRFilterDisable
	case Coeff1:
		return bmp3.IIRFilterCoeff1
	case Coeff3:
		return bmp3.IIRFilterCoeff3
	case Coeff7:
		return bmp3.IIRFilterCoeff7
	case Coeff15:
		return bmp3.IIRFilterCoeff15
	case Coeff31:
		return bmp3.IIRFilterCoeff31
	case Coeff63:
		return bmp3.IIRFilterCoeff63
	case Coeff127:
		return bmp3.IIRFilterCoeff127
	default:
		return bmp3.IIRFilterCoeff3
	}
}

var oversamplingNames = []string{"x1", "x2", "x4", "x8", "x16", "x32"}

var odrNames = []string{
	"200hz", "100hz", "50hz", "25hz", "12.5hz", "6.25hz", "3.1hz", "1.5hz",
	"0.78hz", "0.39hz", "0.2hz", "0.1hz", "0.05hz", "0.02hz", "0.01hz",
}

var filterNames = []string{"off", "coeff1", "coeff3", "coeff7", "coeff15", "coeff31", "coeff63", "coeff127"}

func (o Oversampling) String() string {
	return enumName(oversamplingNames, int(o))
}

func (o Oversampling) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Oversampling) UnmarshalText(text []byte) error {
	i, err := enumIndex(oversamplingNames, string(text))
	if err != nil {
		return fmt.Errorf("oversampling: %w", err)
	}
	*o = Oversampling(i)
	return nil
}

func (r OutputDataRate) String() string {
	return enumName(odrNames, int(r))
}

func (r OutputDataRate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *OutputDataRate) UnmarshalText(text []byte) error {
	i, err := enumIndex(odrNames, string(text))
	if err != nil {
		return fmt.Errorf("output data rate: %w", err)
	}
	*r = OutputDataRate(i)
	return nil
}

func (c IIRFilterCoeff) String() string {
	return enumName(filterNames, int(c))
}

func (c IIRFilterCoeff) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *IIRFilterCoeff) UnmarshalText(text []byte) error {
	i, err := enumIndex(filterNames, string(text))
	if err != nil {
		return fmt.Errorf("iir filter: %w", err)
	}
	*c = IIRFilterCoeff(i)
	return nil
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("invalid(%d)", i)
	}
	return names[i]
}

func enumIndex(names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q (expected one of %s)", s, strings.Join(names, ", "))
}
