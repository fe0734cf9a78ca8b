package monitor

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reading is the outcome of one sensor update within a poll cycle.
type Reading struct {
	Sensor      string
	Temperature float64
	Pressure    float64
	Err         error
}

// Report summarizes one poll cycle. Mean and Max are NaN when no sensor
// produced a valid temperature.
type Report struct {
	ID       uuid.UUID
	Time     time.Time
	Mean     float64
	Max      float64
	Count    int
	Alarm    bool
	Readings []Reading
}

// Poll updates every sensor in list order and aggregates the valid
// temperatures. A failed update leaves the sensor out of the aggregate.
func Poll(ctx context.Context, sensors []Sensor, threshold float64, logger *slog.Logger) Report {
	report := Report{
		ID:       uuid.New(),
		Time:     time.Now(),
		Readings: make([]Reading, 0, len(sensors)),
	}
	temps := make([]float64, 0, len(sensors))
	for _, s := range sensors {
		r := Reading{Sensor: s.Name(), Pressure: math.NaN()}
		r.Err = s.Update(ctx)
		s.Log(logger)
		r.Temperature = s.Temperature()
		if ps, ok := s.(PressureSensor); ok {
			r.Pressure = ps.Pressure()
		}
		report.Readings = append(report.Readings, r)
		temps = append(temps, r.Temperature)
	}
	report.Mean, report.Max, report.Count, report.Alarm = Aggregate(temps, threshold)
	return report
}

// Aggregate returns the mean and maximum of the non-NaN values in temps,
// their count, and whether any of them is above threshold.
func Aggregate(temps []float64, threshold float64) (mean, maximum float64, count int, alarm bool) {
	valid := make([]float64, 0, len(temps))
	for _, t := range temps {
		if !math.IsNaN(t) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return math.NaN(), math.NaN(), 0, false
	}
	maximum = floats.Max(valid)
	return stat.Mean(valid, nil), maximum, len(valid), maximum > threshold
}
