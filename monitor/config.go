package monitor

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/barometer/bmp3"
	"github.com/mklimuk/barometer/environment"
	"github.com/mklimuk/barometer/gpio"
	"github.com/mklimuk/barometer/pressure"
)

// Sensor kinds accepted in SensorConfig.Kind.
const (
	KindBMP390  = "bmp390"
	KindHDC3022 = "hdc3022"
	KindMock    = "mock"
)

// Config is the YAML monitor configuration.
type Config struct {
	Threshold float64        `yaml:"threshold"`
	Interval  time.Duration  `yaml:"interval"`
	Cycles    int            `yaml:"cycles"`
	Metrics   string         `yaml:"metrics"`
	Alarm     AlarmConfig    `yaml:"alarm"`
	Sensors   []SensorConfig `yaml:"sensors"`
}

type AlarmConfig struct {
	Log  bool        `yaml:"log"`
	GPIO *GPIOConfig `yaml:"gpio"`
}

type GPIOConfig struct {
	Address byte `yaml:"address"`
	Pin     int  `yaml:"pin"`
}

type SensorConfig struct {
	Name     string            `yaml:"name"`
	Kind     string            `yaml:"kind"`
	Address  byte              `yaml:"address"`
	Protocol pressure.Protocol `yaml:"protocol"`
	BMP390   *pressure.Config  `yaml:"bmp390"`
	// Temperature is the value reported by mock sensors.
	Temperature float32 `yaml:"temperature"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration and fills in defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := Config{
		Threshold: DefaultThreshold,
		Interval:  DefaultInterval,
		Alarm:     AlarmConfig{Log: true},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	if cfg.Interval <= 0 {
		return Config{}, fmt.Errorf("invalid interval %s", cfg.Interval)
	}
	if cfg.Alarm.GPIO != nil {
		if cfg.Alarm.GPIO.Pin < 0 || cfg.Alarm.GPIO.Pin > 7 {
			return Config{}, fmt.Errorf("alarm gpio: %w", gpio.ErrInvalidPin)
		}
		if cfg.Alarm.GPIO.Address == 0 {
			cfg.Alarm.GPIO.Address = gpio.DefaultMCP23017Address
		}
	}
	names := make(map[string]bool, len(cfg.Sensors))
	for i := range cfg.Sensors {
		s := &cfg.Sensors[i]
		s.Kind = strings.ToLower(s.Kind)
		if s.Name == "" {
			s.Name = fmt.Sprintf("%s-%d", s.Kind, i)
		}
		if names[s.Name] {
			return Config{}, fmt.Errorf("duplicate sensor name %q", s.Name)
		}
		names[s.Name] = true
		switch s.Kind {
		case KindBMP390:
			if s.Address == 0 {
				s.Address = bmp3.AddressPrimary
			}
			if s.BMP390 == nil {
				def := pressure.DefaultConfig()
				s.BMP390 = &def
			}
		case KindHDC3022:
			if s.Address == 0 {
				s.Address = environment.HDC3022Address
			}
		case KindMock:
		default:
			return Config{}, fmt.Errorf("sensor %s: unknown kind %q", s.Name, s.Kind)
		}
	}
	return cfg, nil
}
