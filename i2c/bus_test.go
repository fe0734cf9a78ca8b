package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestGenericBus_Transfers(t *testing.T) {
	ctx := context.Background()
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x76, W: []byte{0x7E, 0xB6}},
			{Addr: 0x76, W: []byte{0x00}, R: []byte{0x60}},
			{Addr: 0x44, R: []byte{0x66, 0x66, 0x93}},
		},
	}
	bus := NewBus(playback)

	require.NoError(t, bus.WriteToAddr(ctx, 0x76, []byte{0x7E, 0xB6}))
	id := make([]byte, 1)
	require.NoError(t, bus.TxToAddr(ctx, 0x76, []byte{0x00}, id))
	assert.Equal(t, []byte{0x60}, id)
	buf := make([]byte, 3)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x44, buf))
	assert.Equal(t, []byte{0x66, 0x66, 0x93}, buf)
	require.NoError(t, bus.SetSpeed(400_000))
	require.NoError(t, bus.Release(ctx))
	require.NoError(t, bus.Close())
}

func TestGenericBus_Mismatch(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x76, W: []byte{0x00}}},
		DontPanic: true,
	}
	bus := NewBus(playback)
	err := bus.WriteToAddr(context.Background(), 0x77, []byte{0x00})
	assert.ErrorContains(t, err, "could not write to i2c bus 77")
}
