package gpio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/barometer"
)

// MockI2CBus is a mock implementation of barometer.I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestMCP23017_SetPinA(t *testing.T) {
	ctx := context.Background()
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(DefaultMCP23017Address), []byte{0x00, 0x00}).Return(nil).Once()
	bus.On("WriteToAddr", ctx, byte(DefaultMCP23017Address), []byte{0x14, 0x08}).Return(nil).Once()
	bus.On("WriteToAddr", ctx, byte(DefaultMCP23017Address), []byte{0x14, 0x09}).Return(nil).Once()
	bus.On("WriteToAddr", ctx, byte(DefaultMCP23017Address), []byte{0x14, 0x01}).Return(nil).Once()

	m := NewMCP23017(bus, DefaultMCP23017Address)
	require.NoError(t, m.InitA(ctx, 0x00))
	require.NoError(t, m.SetPinA(ctx, 3, true))
	require.NoError(t, m.SetPinA(ctx, 0, true))
	require.NoError(t, m.SetPinA(ctx, 3, false))
	bus.AssertExpectations(t)

	assert.ErrorIs(t, m.SetPinA(ctx, 8, true), ErrInvalidPin)
}

func TestMCP23017_ReadA(t *testing.T) {
	ctx := context.Background()
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x20), []byte{0x12}).Return(nil)
	bus.On("ReadFromAddr", ctx, byte(0x20), mock.Anything).Return([]byte{0xA5}, nil)

	m := NewMCP23017(bus, 0x20)
	v, err := m.ReadA(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(0xA5), v)
}

func TestMCP23017_RetryOnBusy(t *testing.T) {
	ctx := context.Background()
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x20), []byte{0x14, 0x01}).Return(barometer.ErrBusBusy).Once()
	bus.On("WriteToAddr", ctx, byte(0x20), []byte{0x14, 0x01}).Return(nil).Once()
	bus.On("Release", ctx).Return(nil).Once()

	m := NewMCP23017(bus, 0x20, WithRetryLimit(2))
	require.NoError(t, m.WriteA(ctx, 0x01))
	bus.AssertExpectations(t)
}

func TestMCP23017_RetryLimit(t *testing.T) {
	ctx := context.Background()
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x20), mock.Anything).Return(barometer.ErrBusBusy)
	bus.On("Release", ctx).Return(nil)

	m := NewMCP23017(bus, 0x20, WithRetryLimit(3))
	err := m.WriteA(ctx, 0x01)
	assert.ErrorIs(t, err, barometer.ErrBusBusy)
	assert.ErrorContains(t, err, "retry limit reached")
	bus.AssertNumberOfCalls(t, "Release", 3)
}

func TestMCP23017_NoRetryOnOtherErrors(t *testing.T) {
	ctx := context.Background()
	nack := errors.New("nack")
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x20), mock.Anything).Return(nack)

	m := NewMCP23017(bus, 0x20, WithRetryLimit(3))
	err := m.InitA(ctx, 0x00)
	assert.ErrorIs(t, err, nack)
	bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
	bus.AssertNotCalled(t, "Release", mock.Anything)
}

func TestMCP23017_PullUpA(t *testing.T) {
	ctx := context.Background()
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x20), []byte{0x0C, 0x00}).Return(barometer.ErrBusBusy).Once()
	bus.On("WriteToAddr", ctx, byte(0x20), []byte{0x0C, 0x00}).Return(nil).Once()
	bus.On("Release", ctx).Return(nil).Once()

	m := NewMCP23017(bus, 0x20, WithRetryLimit(2))
	require.NoError(t, m.PullUpA(ctx, 0x00))
	bus.AssertExpectations(t)
}
