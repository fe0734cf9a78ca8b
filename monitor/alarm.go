package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// AlarmSink is notified after every poll cycle.
type AlarmSink interface {
	Raise(ctx context.Context, report Report) error
	Clear(ctx context.Context, report Report) error
}

// LogAlarm reports alarm transitions through a logger.
type LogAlarm struct {
	Logger *slog.Logger
	active bool
}

func (a *LogAlarm) Raise(ctx context.Context, report Report) error {
	a.logger().Error("temperature alarm", "max", report.Max, "mean", report.Mean, "cycle", report.ID)
	a.active = true
	return nil
}

func (a *LogAlarm) Clear(ctx context.Context, report Report) error {
	if a.active {
		a.logger().Info("temperature alarm cleared", "max", report.Max, "cycle", report.ID)
	}
	a.active = false
	return nil
}

func (a *LogAlarm) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// PinDriver drives a single output line.
type PinDriver interface {
	SetPinA(ctx context.Context, pin int, high bool) error
}

// GPIOAlarm holds an expander output pin high while the alarm is raised.
type GPIOAlarm struct {
	Driver PinDriver
	Pin    int
}

func (a *GPIOAlarm) Raise(ctx context.Context, _ Report) error {
	if err := a.Driver.SetPinA(ctx, a.Pin, true); err != nil {
		return fmt.Errorf("could not raise alarm pin %d: %w", a.Pin, err)
	}
	return nil
}

func (a *GPIOAlarm) Clear(ctx context.Context, _ Report) error {
	if err := a.Driver.SetPinA(ctx, a.Pin, false); err != nil {
		return fmt.Errorf("could not clear alarm pin %d: %w", a.Pin, err)
	}
	return nil
}

// MultiAlarm notifies every sink and joins their errors.
type MultiAlarm []AlarmSink

func (m MultiAlarm) Raise(ctx context.Context, report Report) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Raise(ctx, report))
	}
	return errors.Join(errs...)
}

func (m MultiAlarm) Clear(ctx context.Context, report Report) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Clear(ctx, report))
	}
	return errors.Join(errs...)
}
