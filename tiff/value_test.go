package tiff

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// doOrder round-trips every Value accessor/setter pair for one byte order,
// adapted from the teacher's TestData/doOrder.
func doOrder(t *testing.T, order binary.ByteOrder) {
	v := &Value{Type: Byte, Count: 1, Data: make([]byte, 16)}

	require.NoError(t, v.PutByte(0, 42))
	b, err := v.Byte(0)
	require.NoError(t, err)
	require.EqualValues(t, 42, b)

	require.NoError(t, v.PutShort(0, order, 4242))
	s, err := v.Short(0, order)
	require.NoError(t, err)
	require.EqualValues(t, 4242, s)

	require.NoError(t, v.PutLong(0, order, 424242))
	l, err := v.Long(0, order)
	require.NoError(t, err)
	require.EqualValues(t, 424242, l)

	require.NoError(t, PutRational(v.Data, 0, order, 21, 42))
	n, d, err := v.Rational(0, order)
	require.NoError(t, err)
	require.EqualValues(t, 21, n)
	require.EqualValues(t, 42, d)

	require.NoError(t, PutSRational(v.Data, 0, order, -21, -42))
	sn, sd, err := v.SRational(0, order)
	require.NoError(t, err)
	require.EqualValues(t, -21, sn)
	require.EqualValues(t, -42, sd)

	require.NoError(t, PutFloat(v.Data, 0, order, float32(math.Pi)))
	f, err := v.Float(0, order)
	require.NoError(t, err)
	require.InDelta(t, math.Pi, f, 1e-6)

	require.NoError(t, PutDouble(v.Data, 0, order, math.Pi))
	dd, err := v.Double(0, order)
	require.NoError(t, err)
	require.InDelta(t, math.Pi, dd, 1e-12)
}

func TestValueRoundTrip(t *testing.T) {
	doOrder(t, binary.BigEndian)
	doOrder(t, binary.LittleEndian)
}

func TestASCIIRoundTrip(t *testing.T) {
	v := NewASCII("hello")
	require.Equal(t, "hello", v.ASCII())
	require.EqualValues(t, 6, v.Count) // "hello" + NUL
}
