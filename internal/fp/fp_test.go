package fp

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// randElement returns a random canonical Element (below p), decoded
// through SetCanonicalBytes.
func randElement(t *testing.T) *Element {
	var buf [16]byte
	_, err := rand.Read(buf[:])
	require.NoError(t, err)
	buf[15] &= 0x7F // keep it canonical-ish so it round-trips through SetCanonicalBytes too

	fe, err := NewElementFromCanonicalBytes(&buf)
	require.NoError(t, err)
	return fe
}

func TestElementAddNegate(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement(t)

		var neg, sum Element
		neg.Negate(a)
		sum.Add(a, &neg)

		require.EqualValues(t, 1, sum.IsZero(), "a + (-a) != 0, a = %s", a)
	}
}

func TestElementInvert(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement(t)
		if a.IsZero() == 1 {
			continue
		}

		var inv, prod Element
		inv.Invert(a)
		prod.Multiply(a, &inv)

		var one Element
		one.One()
		require.EqualValues(t, 1, prod.EqualCT(&one), "a * a^-1 != 1, a = %s", a)
	}
}

func TestElementSqrtOfSquare(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement(t)

		var a2 Element
		a2.Square(a)

		root, isSquare := NewElement().Sqrt(&a2)
		require.EqualValues(t, 1, isSquare, "a^2 is not reported square, a = %s", a)

		var rootSquared Element
		rootSquared.Square(root)
		require.EqualValues(t, 1, rootSquared.EqualCT(&a2), "(sqrt(a^2))^2 != a^2")

		var negA Element
		negA.Negate(a)
		isPos := root.EqualCT(a)
		isNeg := root.EqualCT(&negA)
		require.EqualValues(t, 1, isPos|isNeg, "sqrt(a^2) is neither a nor -a")
	}
}

func TestElementZeroOneConstants(t *testing.T) {
	var z, o Element
	z.Zero()
	o.One()

	require.EqualValues(t, 1, z.IsZero())
	require.EqualValues(t, 0, o.IsZero())

	var sum Element
	sum.AddSmall(&z, 1)
	require.EqualValues(t, 1, sum.EqualCT(&o))
}

func TestElementDiv2(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement(t)

		var half, doubled Element
		half.Div2(a)
		doubled.Add(&half, &half)

		require.EqualValues(t, 1, doubled.EqualCT(a), "2*(a/2) != a, a = %s", a)
	}
}

func TestElementConditionalSelect(t *testing.T) {
	a := randElement(t)
	b := randElement(t)

	var r Element
	r.ConditionalSelect(a, b, 0)
	require.EqualValues(t, 1, r.EqualCT(a))

	r.ConditionalSelect(a, b, 1)
	require.EqualValues(t, 1, r.EqualCT(b))
}

func TestElementCanonicalBytesRoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement(t)

		var buf [ElementSize]byte
		copy(buf[:], a.Bytes())

		b, err := NewElementFromCanonicalBytes(&buf)
		require.NoError(t, err)
		require.EqualValues(t, 1, a.EqualCT(b))
	}
}

func TestElementRejectsOutOfRangeBytes(t *testing.T) {
	// p's own little-endian encoding (all-ones except the top bit) is
	// out of range: a canonical element must be < p.
	var buf [ElementSize]byte
	for i := 0; i < 15; i++ {
		buf[i] = 0xFF
	}
	buf[15] = 0x7F

	_, err := NewElementFromCanonicalBytes(&buf)
	require.Error(t, err, "p itself must be rejected as non-canonical")
}

func TestElementRejectsTopBitSet(t *testing.T) {
	var buf [ElementSize]byte
	buf[15] = 0x80

	_, err := NewElementFromCanonicalBytes(&buf)
	require.Error(t, err)
}
