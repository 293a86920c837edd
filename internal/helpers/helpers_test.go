package helpers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64IsZero(t *testing.T) {
	for _, v := range []uint64{
		0,
		1,
		math.MaxUint64,
	} {
		var expected uint64
		if v == 0 {
			expected = 1
		}
		require.Equal(t, expected, Uint64IsZero(v), "Uint64IsZero(%d)", v)
	}
}

func TestUint64IsNonzero(t *testing.T) {
	for _, v := range []uint64{
		0,
		1,
		math.MaxUint64,
	} {
		var expected uint64
		if v != 0 {
			expected = 1
		}
		require.Equal(t, expected, Uint64IsNonzero(v), "Uint64IsNonzero(%d)", v)
	}
}

func TestSelect64(t *testing.T) {
	require.Equal(t, uint64(11), Select64(0, 11, 22))
	require.Equal(t, uint64(22), Select64(1, 11, 22))
}

func TestLimbsAreEqualCT(t *testing.T) {
	a := [4]uint64{1, 2, 3, 4}
	b := [4]uint64{1, 2, 3, 4}
	c := [4]uint64{1, 2, 3, 5}

	require.Equal(t, uint64(1), LimbsAreEqualCT(&a, &b))
	require.Equal(t, uint64(0), LimbsAreEqualCT(&a, &c))
}

func TestBytesSaturatedRoundTrip(t *testing.T) {
	var src [32]byte
	for i := range src {
		src[i] = byte(i + 1)
	}

	l := BytesToSaturated4(&src)

	var dst [32]byte
	SaturatedToBytes4(&dst, &l)

	require.Equal(t, src, dst)
}
