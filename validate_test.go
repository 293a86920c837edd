package snowshoe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catid/snowshoe/internal/scalarfield"
)

// TestInvalidKeyBoundaries is spec.md §8's boundary test: scalars equal
// to 0, 1, q-1, q, q+1 must reject 0 and >= q.
func TestInvalidKeyBoundaries(t *testing.T) {
	var zero, one, qMinus1, q scalarfield.Element
	zero.Zero()
	one.One()
	qMinus1.NegModQ(&one)
	q.SetBits(scalarfield.Q())

	require.True(t, InvalidKey(&zero), "0 must be rejected")
	require.False(t, InvalidKey(&one), "1 must be accepted")
	require.False(t, InvalidKey(&qMinus1), "q-1 must be accepted")
	require.True(t, InvalidKey(&q), "q must be rejected")

	var qPlus1Raw scalarfield.Element
	ql := scalarfield.Q()
	ql[0]++ // q+1, as raw (unreduced) limbs — still >= q, still invalid
	qPlus1Raw.SetBits(ql)
	require.True(t, InvalidKey(&qPlus1Raw), "q+1 must be rejected")
}

func TestSecretGenMasksTopBits(t *testing.T) {
	// spec.md §8 item 10: after secret_gen(k), k < 2^251 and the result
	// mod q is non-trivial (checked here as: the masked scalar is a
	// valid, non-zero key).
	var k scalarfield.Element
	k.SetBits([4]uint64{0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF})

	SecretGen(&k)

	require.Less(t, k.Bits()[3], uint64(1)<<59, "secret_gen must clear the top 5 bits of the high limb")
	require.False(t, k.IsZero() == 1, "masked result must be non-trivial")
}

func TestValidRejectsOffCurvePoint(t *testing.T) {
	var bogus AffinePoint
	bogus.X.One()
	bogus.Y.One()

	require.False(t, Valid(&bogus), "(1,1) is not on the curve")
}

func TestValidAcceptsGenerator(t *testing.T) {
	g := Generator()
	var gAffine AffinePoint
	gAffine.Affine(g)

	require.True(t, Valid(&gAffine))
}

// TestValidAcceptsOrder4QPoint is spec.md's boundary test: a point on
// the curve but of order 4*q (outside the prime-order subgroup) must
// still be accepted by Valid — the curve equation doesn't see subgroup
// membership, only curve membership; it's Mul/Simul's built-in final
// 4x that absorbs the twist component for such inputs.
func TestValidAcceptsOrder4QPoint(t *testing.T) {
	// findCurvePoint returns a point on the curve before gen.go's
	// init() clears the cofactor by doubling twice — i.e. a point whose
	// order need not be q, only a divisor of 4q.
	raw := findCurvePoint()
	var rawAffine AffinePoint
	rawAffine.Affine(raw)

	require.True(t, Valid(&rawAffine), "curve membership, not subgroup order, is what Valid checks")
}
