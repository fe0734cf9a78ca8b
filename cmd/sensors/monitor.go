package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/barometer/cmd/sensors/console"
	"github.com/mklimuk/barometer/environment"
	"github.com/mklimuk/barometer/gpio"
	"github.com/mklimuk/barometer/monitor"
	"github.com/mklimuk/barometer/snsctx"
)

var monitorCmd = cli.Command{
	Name:  "monitor",
	Usage: "poll all configured sensors and raise an alarm above the temperature threshold",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "monitor configuration file (yaml)"},
		&cli.Float64Flag{Name: "threshold", Value: monitor.DefaultThreshold, Usage: "alarm threshold in °C"},
		&cli.DurationFlag{Name: "interval", Value: monitor.DefaultInterval, Usage: "poll interval"},
		&cli.IntFlag{Name: "cycles", Usage: "number of poll cycles; run until interrupted when 0"},
		&cli.StringFlag{Name: "metrics", Usage: "serve prometheus metrics on this address (e.g. :9101)"},
	}, hardwareFlags...),
	Action: func(c *cli.Context) error {
		cfg, err := monitorConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger := snsctx.Logger(ctx)

		hw := newHardware(c)
		defer hw.Close()
		sensors, err := buildSensors(ctx, hw, cfg.Sensors)
		if err != nil {
			return console.Exit(1, "sensor setup error: %s", console.Red(err))
		}
		alarm, err := buildAlarm(ctx, hw, cfg.Alarm)
		if err != nil {
			return console.Exit(1, "alarm setup error: %s", console.Red(err))
		}
		opts := []monitor.Option{
			monitor.WithThreshold(cfg.Threshold),
			monitor.WithInterval(cfg.Interval),
			monitor.WithAlarm(alarm),
			monitor.WithLogger(logger),
		}
		if cfg.Metrics != "" {
			metrics, shutdown, err := serveMetrics(logger, cfg.Metrics)
			if err != nil {
				return console.Exit(1, "metrics setup error: %s", console.Red(err))
			}
			defer shutdown()
			opts = append(opts, monitor.WithMetrics(metrics))
		}
		console.Infof("monitoring %s sensors every %s, threshold %s °C",
			console.White(len(sensors)), console.White(cfg.Interval), console.White(cfg.Threshold))
		err = monitor.New(sensors, opts...).Run(ctx, cfg.Cycles)
		if errors.Is(err, context.Canceled) {
			console.PInfof(console.PictoFinish, "monitor stopped")
			return nil
		}
		if err != nil {
			return console.Exit(1, "monitor error: %s", console.Red(err))
		}
		return nil
	},
}

// monitorConfig loads the config file, if any, and applies the flags set
// explicitly on top of it.
func monitorConfig(c *cli.Context) (monitor.Config, error) {
	var cfg monitor.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = monitor.LoadConfig(path)
	} else {
		cfg, err = monitor.ParseConfig([]byte("sensors:\n  - kind: bmp390\n"))
	}
	if err != nil {
		return cfg, err
	}
	if c.IsSet("threshold") {
		cfg.Threshold = c.Float64("threshold")
	}
	if c.IsSet("interval") {
		if c.Duration("interval") <= 0 {
			return cfg, fmt.Errorf("invalid interval %s", c.Duration("interval"))
		}
		cfg.Interval = c.Duration("interval")
	}
	if c.IsSet("cycles") {
		cfg.Cycles = c.Int("cycles")
	}
	if c.IsSet("metrics") {
		cfg.Metrics = c.String("metrics")
	}
	return cfg, nil
}

func buildSensors(ctx context.Context, hw *hardware, configs []monitor.SensorConfig) ([]monitor.Sensor, error) {
	sensors := make([]monitor.Sensor, 0, len(configs))
	for _, sc := range configs {
		switch sc.Kind {
		case monitor.KindBMP390:
			dev, err := hw.BMP390(ctx, sc.Address, sc.Protocol)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sc.Name, err)
			}
			s := monitor.NewBMP390Sensor(sc.Name, dev)
			if err := s.Setup(*sc.BMP390); err != nil {
				return nil, err
			}
			sensors = append(sensors, s)
		case monitor.KindHDC3022:
			bus, err := hw.I2C()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sc.Name, err)
			}
			dev := environment.NewHDC3022(bus, environment.WithHDC3022Address(sc.Address))
			if id, err := dev.ManufacturerID(ctx); err != nil {
				slog.Warn("could not read hdc3022 manufacturer id", "sensor", sc.Name, "err", err)
			} else if id != environment.HDC3022ManufacturerID {
				slog.Warn("unexpected hdc3022 manufacturer id", "sensor", sc.Name, "id", fmt.Sprintf("%#x", id))
			}
			sensors = append(sensors, monitor.NewThermometerSensor(sc.Name, monitor.KindHDC3022, dev))
		case monitor.KindMock:
			dev := environment.NewMockTemperatureSensor(environment.StaticTemperature(sc.Temperature), nil)
			sensors = append(sensors, monitor.NewThermometerSensor(sc.Name, monitor.KindMock, dev))
		default:
			return nil, fmt.Errorf("%s: unknown kind %q", sc.Name, sc.Kind)
		}
	}
	return sensors, nil
}

func buildAlarm(ctx context.Context, hw *hardware, cfg monitor.AlarmConfig) (monitor.AlarmSink, error) {
	var sinks monitor.MultiAlarm
	if cfg.Log {
		sinks = append(sinks, &monitor.LogAlarm{Logger: snsctx.Logger(ctx)})
	}
	if cfg.GPIO != nil {
		bus, err := hw.I2C()
		if err != nil {
			return nil, err
		}
		expander := gpio.NewMCP23017(bus, cfg.GPIO.Address)
		// all port A lines are outputs, driven without pull-ups
		if err := expander.InitA(ctx, 0x00); err != nil {
			return nil, err
		}
		if err := expander.PullUpA(ctx, 0x00); err != nil {
			return nil, err
		}
		if err := expander.WriteA(ctx, 0x00); err != nil {
			return nil, err
		}
		sinks = append(sinks, &monitor.GPIOAlarm{Driver: expander, Pin: cfg.GPIO.Pin})
	}
	return sinks, nil
}

func serveMetrics(logger *slog.Logger, addr string) (*monitor.Metrics, func(), error) {
	reg := prometheus.NewRegistry()
	metrics, err := monitor.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return metrics, shutdown, nil
}
