package monitor

import (
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports poll reports as Prometheus metrics.
type Metrics struct {
	temperature *prometheus.GaugeVec
	pressure    *prometheus.GaugeVec
	mean        prometheus.Gauge
	max         prometheus.Gauge
	alarm       prometheus.Gauge
	cycles      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "barometer_sensor_temperature_celsius",
			Help: "Last temperature reported by a sensor.",
		}, []string{"sensor"}),
		pressure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "barometer_sensor_pressure_pascals",
			Help: "Last pressure reported by a sensor.",
		}, []string{"sensor"}),
		mean: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "barometer_temperature_mean_celsius",
			Help: "Mean of the valid temperatures in the last cycle.",
		}),
		max: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "barometer_temperature_max_celsius",
			Help: "Maximum of the valid temperatures in the last cycle.",
		}),
		alarm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "barometer_alarm",
			Help: "1 while the temperature alarm is raised.",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barometer_poll_cycles_total",
			Help: "Number of completed poll cycles.",
		}),
	}
	for _, c := range []prometheus.Collector{m.temperature, m.pressure, m.mean, m.max, m.alarm, m.cycles} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("could not register metric: %w", err)
		}
	}
	return m, nil
}

// Observe records a poll report. Sensors without a valid reading are removed
// from the per-sensor gauges.
func (m *Metrics) Observe(report Report) {
	for _, r := range report.Readings {
		setOrDelete(m.temperature, r.Sensor, r.Temperature)
		setOrDelete(m.pressure, r.Sensor, r.Pressure)
	}
	m.mean.Set(report.Mean)
	m.max.Set(report.Max)
	if report.Alarm {
		m.alarm.Set(1)
	} else {
		m.alarm.Set(0)
	}
	m.cycles.Inc()
}

func setOrDelete(vec *prometheus.GaugeVec, sensor string, v float64) {
	if math.IsNaN(v) {
		vec.DeleteLabelValues(sensor)
		return
	}
	vec.WithLabelValues(sensor).Set(v)
}
