package environment

import (
	"context"
)

// TemperatureBehaviorFunc returns the temperature in Celsius or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float32, error)

// HumidityBehaviorFunc returns the relative humidity in %RH or an error.
type HumidityBehaviorFunc func(ctx context.Context) (float32, error)

// MockTemperatureSensor is a temperature/humidity sensor driven by behavior
// functions instead of hardware. It stands in for HDC3022 in tests and demos.
// A nil humidity behavior reports 0 %RH.
type MockTemperatureSensor struct {
	tempBehavior TemperatureBehaviorFunc
	humBehavior  HumidityBehaviorFunc
}

// NewMockTemperatureSensor creates a mock sensor.
//
// Example usage:
//
//	sensor := NewMockTemperatureSensor(func(ctx context.Context) (float32, error) { return 25.0, nil }, nil)
func NewMockTemperatureSensor(tempBehavior TemperatureBehaviorFunc, humBehavior HumidityBehaviorFunc) *MockTemperatureSensor {
	return &MockTemperatureSensor{tempBehavior: tempBehavior, humBehavior: humBehavior}
}

// StaticTemperature returns a behavior that always reports t.
func StaticTemperature(t float32) TemperatureBehaviorFunc {
	return func(ctx context.Context) (float32, error) {
		return t, nil
	}
}

// StaticHumidity returns a behavior that always reports h.
func StaticHumidity(h float32) HumidityBehaviorFunc {
	return func(ctx context.Context) (float32, error) {
		return h, nil
	}
}

func (m *MockTemperatureSensor) GetTemperature(ctx context.Context) (float32, error) {
	return m.tempBehavior(ctx)
}

func (m *MockTemperatureSensor) GetHumidity(ctx context.Context) (float32, error) {
	if m.humBehavior == nil {
		return 0, nil
	}
	return m.humBehavior(ctx)
}

func (m *MockTemperatureSensor) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	temp, err := m.tempBehavior(ctx)
	if err != nil {
		return 0, 0, err
	}
	hum, err := m.GetHumidity(ctx)
	if err != nil {
		return 0, 0, err
	}
	return temp, hum, nil
}
