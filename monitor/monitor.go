package monitor

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultThreshold = 30.0
	DefaultInterval  = time.Second
)

type Option func(*Monitor)

// WithThreshold sets the alarm temperature in Celsius.
func WithThreshold(threshold float64) Option {
	return func(m *Monitor) {
		m.threshold = threshold
	}
}

func WithInterval(interval time.Duration) Option {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

func WithAlarm(sink AlarmSink) Option {
	return func(m *Monitor) {
		m.alarm = sink
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(m *Monitor) {
		m.metrics = metrics
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// Monitor runs poll cycles over a fixed sensor list.
type Monitor struct {
	sensors   []Sensor
	threshold float64
	interval  time.Duration
	alarm     AlarmSink
	metrics   *Metrics
	logger    *slog.Logger
}

func New(sensors []Sensor, opts ...Option) *Monitor {
	m := &Monitor{
		sensors:   sensors,
		threshold: DefaultThreshold,
		interval:  DefaultInterval,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunOnce runs a single poll cycle, notifies the alarm sink and records
// metrics. The returned error comes from the alarm sink.
func (m *Monitor) RunOnce(ctx context.Context) (Report, error) {
	report := Poll(ctx, m.sensors, m.threshold, m.logger)
	m.logger.Debug("poll cycle done", "cycle", report.ID, "valid", report.Count,
		"mean", report.Mean, "max", report.Max, "alarm", report.Alarm)
	if m.metrics != nil {
		m.metrics.Observe(report)
	}
	if m.alarm == nil {
		return report, nil
	}
	if report.Alarm {
		return report, m.alarm.Raise(ctx, report)
	}
	return report, m.alarm.Clear(ctx, report)
}

// Run polls every interval until ctx is done or, when cycles is positive,
// until that many cycles have completed. The first cycle runs immediately.
func (m *Monitor) Run(ctx context.Context, cycles int) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for n := 0; cycles <= 0 || n < cycles; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if _, err := m.RunOnce(ctx); err != nil {
			m.logger.Error("alarm sink failed", "err", err)
		}
	}
	return nil
}
