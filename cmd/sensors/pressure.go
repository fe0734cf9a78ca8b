package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/barometer/bmp3"
	"github.com/mklimuk/barometer/cmd/sensors/console"
	"github.com/mklimuk/barometer/pressure"
)

var sensorFlags = append([]cli.Flag{
	&cli.StringFlag{Name: "protocol", Aliases: []string{"p"}, Value: "i2c", Usage: "sensor interface: i2c or spi"},
	&cli.IntFlag{Name: "addr", Value: int(bmp3.AddressPrimary), Usage: "sensor i2c address (0x76 or 0x77)"},
}, hardwareFlags...)

var settingsFlags = []cli.Flag{
	&cli.StringFlag{Name: "osr-p", Value: pressure.X4.String(), Usage: "pressure oversampling: x1..x32"},
	&cli.StringFlag{Name: "osr-t", Value: pressure.X1.String(), Usage: "temperature oversampling: x1..x32"},
	&cli.StringFlag{Name: "odr", Value: pressure.Hz25.String(), Usage: "output data rate, e.g. 200hz, 25hz, 0.01hz"},
	&cli.StringFlag{Name: "iir", Value: pressure.Coeff3.String(), Usage: "IIR filter: off, coeff1..coeff127"},
}

var pressureCmd = cli.Command{
	Name:    "pressure",
	Aliases: []string{"bmp390"},
	Usage:   "BMP390 pressure sensor operations",
	Subcommands: cli.Commands{
		&pressureReadCmd,
		&pressureConfigureCmd,
		&pressureResetCmd,
	},
}

var pressureReadCmd = cli.Command{
	Name:  "read",
	Usage: "configure the sensor and read one measurement",
	Flags: append(append([]cli.Flag{}, sensorFlags...), settingsFlags...),
	Action: func(c *cli.Context) error {
		cfg, err := settingsFromFlags(c)
		if err != nil {
			return console.Exit(1, "invalid settings: %s", console.Red(err))
		}
		return withSensor(c, func(s *pressure.BMP390) error {
			if err := s.Configure(cfg); err != nil {
				return console.Exit(1, "configuration error (code %d): %s", pressure.Code(err), console.Red(err))
			}
			m, err := s.ReadMeasurement()
			if code := pressure.Code(err); code < 0 {
				return console.Exit(1, "read error (code %d): %s", code, console.Red(err))
			} else if code > 0 {
				console.Warnf("measurement clamped: %s", err)
			}
			printMeasurement(m)
			return nil
		})
	},
}

var pressureConfigureCmd = cli.Command{
	Name:  "configure",
	Usage: "apply sensor settings and start continuous sampling",
	Flags: append(append([]cli.Flag{}, sensorFlags...), settingsFlags...),
	Action: func(c *cli.Context) error {
		cfg, err := settingsFromFlags(c)
		if err != nil {
			return console.Exit(1, "invalid settings: %s", console.Red(err))
		}
		return withSensor(c, func(s *pressure.BMP390) error {
			if err := s.Configure(cfg); err != nil {
				return console.Exit(1, "configuration error (code %d): %s", pressure.Code(err), console.Red(err))
			}
			console.Infof("sensor %s: %s", console.Green("configured"), console.White(cfg))
			return nil
		})
	},
}

var pressureResetCmd = cli.Command{
	Name:  "reset",
	Usage: "soft reset the sensor",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	}, sensorFlags...),
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			ok, err := console.Confirm("reset the sensor to its power-on settings?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				console.Info("reset cancelled")
				return nil
			}
		}
		return withSensor(c, func(s *pressure.BMP390) error {
			if err := s.Reset(); err != nil {
				return console.Exit(1, "reset error (code %d): %s", pressure.Code(err), console.Red(err))
			}
			console.Infof("sensor %s %s", console.White(fmt.Sprintf("%#x", s.ChipID())), console.Green("reset"))
			return nil
		})
	},
}

// withSensor opens and initializes the sensor selected by the flags and runs fn.
func withSensor(c *cli.Context, fn func(s *pressure.BMP390) error) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	var protocol pressure.Protocol
	if err := protocol.UnmarshalText([]byte(c.String("protocol"))); err != nil {
		return console.Exit(1, "invalid protocol: %s", console.Red(err))
	}
	addr := c.Int("addr")
	if addr < 0 || addr > 0x7F {
		return console.Exit(1, "invalid i2c address %#x", addr)
	}
	hw := newHardware(c)
	defer hw.Close()
	s, err := hw.BMP390(ctx, byte(addr), protocol)
	if err != nil {
		return console.Exit(1, "bus initialization error: %s", console.Red(err))
	}
	defer func() { _ = s.Close() }()
	if err := s.Init(); err != nil {
		return console.Exit(1, "sensor initialization error (code %d): %s", pressure.Code(err), console.Red(err))
	}
	console.Debugf("found chip %#x over %s (device %#x)", s.ChipID(), s.Protocol(), s.DevID())
	return fn(s)
}

func settingsFromFlags(c *cli.Context) (pressure.Config, error) {
	cfg := pressure.DefaultConfig()
	if err := cfg.PressureOversampling.UnmarshalText([]byte(c.String("osr-p"))); err != nil {
		return cfg, err
	}
	if err := cfg.TemperatureOversampling.UnmarshalText([]byte(c.String("osr-t"))); err != nil {
		return cfg, err
	}
	if err := cfg.ODR.UnmarshalText([]byte(c.String("odr"))); err != nil {
		return cfg, err
	}
	if err := cfg.IIRFilter.UnmarshalText([]byte(c.String("iir"))); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printMeasurement(m pressure.Measurement) {
	console.Printf("%s  %s °C\n", console.PictoThermometer, console.White(humanize.FormatFloat("#.##", m.TemperatureC)))
	console.Printf("%s  %s Pa (%s hPa)\n", console.PictoBarometer,
		console.White(humanize.FormatFloat("#,###.##", m.PressurePa)),
		humanize.FormatFloat("#,###.##", m.PressurePa/100))
}
