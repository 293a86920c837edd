package fp

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randElement2(t *testing.T) *Element2 {
	var buf [Element2Size]byte
	_, err := rand.Read(buf[:])
	require.NoError(t, err)
	buf[15] &= 0x7F
	buf[31] &= 0x7F

	fe, err := NewElement2().SetCanonicalBytes(&buf)
	require.NoError(t, err)
	return fe
}

func TestElement2AddNegate(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement2(t)

		var neg, sum Element2
		neg.Negate(a)
		sum.Add(a, &neg)

		require.EqualValues(t, 1, sum.IsZeroCT(), "a + (-a) != 0")
	}
}

func TestElement2Invert(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement2(t)
		if a.IsZeroCT() == 1 {
			continue
		}

		var inv, prod Element2
		inv.Invert(a)
		prod.Multiply(a, &inv)

		var one Element2
		one.One()
		require.EqualValues(t, 1, prod.EqualCT(&one), "a * a^-1 != 1")
	}
}

func TestElement2SquareMatchesMultiply(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement2(t)

		var sq, mul Element2
		sq.Square(a)
		mul.Multiply(a, a)

		require.EqualValues(t, 1, sq.EqualCT(&mul))
	}
}

func TestElement2SqrtOfSquare(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement2(t)

		var a2 Element2
		a2.Square(a)

		root, isSquare := NewElement2().Sqrt(&a2)
		require.EqualValues(t, 1, isSquare, "a^2 is not reported square")

		var rootSquared Element2
		rootSquared.Square(root)
		require.EqualValues(t, 1, rootSquared.EqualCT(&a2), "(sqrt(a^2))^2 != a^2")
	}
}

func TestElement2Chi(t *testing.T) {
	// chi(a^2) == 1 whenever a != 0, per spec.md §8 item 4: raising a^2
	// to (p-1)/2 (the Legendre-symbol exponent, extended componentwise
	// via each component's own Chi) must land on 1 when a^2 is itself a
	// nonzero square — verified here through a^2's square root existing.
	for i := 0; i < 64; i++ {
		a := randElement2(t)
		if a.IsZeroCT() == 1 {
			continue
		}

		var a2 Element2
		a2.Square(a)
		_, isSquare := NewElement2().Sqrt(&a2)
		require.EqualValues(t, 1, isSquare)
	}
}

func TestElement2Conjugate(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement2(t)

		var conj, doubleConj Element2
		conj.Conjugate(a)
		doubleConj.Conjugate(&conj)

		require.EqualValues(t, 1, doubleConj.EqualCT(a), "conj(conj(a)) != a")
	}
}

func TestElement2MulUMatchesDirect(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement2(t)

		var u, direct, viaMulU Element2
		u.SetComponents(NewElementFromSaturated(0, 2), NewElementFromSaturated(0, 1))
		direct.Multiply(a, &u)
		viaMulU.MulU(a)

		require.EqualValues(t, 1, direct.EqualCT(&viaMulU), "MulU(a) != a * (2+i)")
	}
}

func TestElement2CanonicalBytesRoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randElement2(t)

		var buf [Element2Size]byte
		copy(buf[:], a.Bytes())

		b, err := NewElement2().SetCanonicalBytes(&buf)
		require.NoError(t, err)
		require.EqualValues(t, 1, a.EqualCT(b))
	}
}

func TestElement2MaskedSelect(t *testing.T) {
	a := randElement2(t)
	b := randElement2(t)

	var viaSelect Element2
	viaSelect.ConditionalSelect(a, b, 0)
	require.EqualValues(t, 1, viaSelect.EqualCT(a))
	viaSelect.ConditionalSelect(a, b, 1)
	require.EqualValues(t, 1, viaSelect.EqualCT(b))

	// SetMask/XorMask are the all-ones/all-zero masked-lookup primitives
	// the curve package's masked table selection is built from.
	const allOnes = ^uint64(0)
	acc := NewElement2()
	acc.XorMask(a, allOnes)
	require.EqualValues(t, 1, acc.EqualCT(a), "XorMask into a zero accumulator reproduces the entry")

	acc = NewElement2()
	acc.XorMask(a, 0)
	require.EqualValues(t, 1, acc.IsZeroCT(), "XorMask with an all-zero mask leaves the accumulator untouched")
}
