package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goboti2c "gobot.io/x/gobot/v2/drivers/i2c"
)

type fakeConn struct {
	goboti2c.Connection
	written [][]byte
	data    []byte
	closed  bool
}

func (c *fakeConn) Read(b []byte) (int, error) {
	return copy(b, c.data), nil
}

func (c *fakeConn) WriteBytes(b []byte) error {
	c.written = append(c.written, append([]byte(nil), b...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeConnector struct {
	conns  map[int]*fakeConn
	opened []int
	bus    int
}

func (f *fakeConnector) GetI2cConnection(address int, busNr int) (goboti2c.Connection, error) {
	f.opened = append(f.opened, address)
	f.bus = busNr
	c, ok := f.conns[address]
	if !ok {
		return nil, assert.AnError
	}
	return c, nil
}

func (f *fakeConnector) DefaultI2cBus() int { return 2 }

func TestBoardBus(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{data: []byte{0x60}}
	connector := &fakeConnector{conns: map[int]*fakeConn{0x76: conn}}
	bus := NewBoardBus(connector, -1)

	require.NoError(t, bus.WriteToAddr(ctx, 0x76, []byte{0x00}))
	buf := make([]byte, 1)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x76, buf))
	assert.Equal(t, []byte{0x60}, buf)
	assert.Equal(t, [][]byte{{0x00}}, conn.written)
	assert.Equal(t, []int{0x76}, connector.opened)
	assert.Equal(t, 2, connector.bus)

	err := bus.ReadFromAddr(ctx, 0x77, buf)
	assert.ErrorContains(t, err, "could not open i2c connection to 77 on bus 2")

	short := make([]byte, 2)
	assert.ErrorContains(t, bus.ReadFromAddr(ctx, 0x76, short), "short read")

	require.NoError(t, bus.Close())
	assert.True(t, conn.closed)
}
