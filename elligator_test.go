package snowshoe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catid/snowshoe/internal/fp"
	"github.com/catid/snowshoe/internal/scalarfield"
)

// TestElligatorDecodeFindsCurvePoint exercises elligatorDecode's bounded
// search directly: for a handful of distinct keys, it must land on a
// valid curve point within elligatorRetries attempts.
func TestElligatorDecodeFindsCurvePoint(t *testing.T) {
	for _, seed := range []uint64{1, 2, 42, 0xDEADBEEF} {
		var key [32]byte
		key[0] = byte(seed)
		key[1] = byte(seed >> 8)
		key[2] = byte(seed >> 16)
		key[3] = byte(seed >> 24)

		p, ok := elligatorDecode(&key)
		require.True(t, ok, "elligatorDecode(%d) should succeed within %d retries", seed, elligatorRetries)
		require.True(t, p.ValidVartime(), "elligatorDecode(%d) produced an off-curve point", seed)
	}
}

// TestSolveForYMatchesGenerator checks solveForY against a known point:
// solving for y given the generator's x must return either G.Y or its
// negation (the curve equation is even in y's sign choice here since
// solveForY takes Sqrt's canonical root).
func TestSolveForYMatchesGenerator(t *testing.T) {
	g := Generator()
	var gAffine AffinePoint
	gAffine.Affine(g)

	p, ok := solveForY(&gAffine.X)
	require.True(t, ok)

	var negY fp.Element2
	negY.Negate(&p.Y)

	matchesY := p.Y.EqualCT(&gAffine.Y) == 1
	matchesNegY := negY.EqualCT(&gAffine.Y) == 1
	require.True(t, matchesY || matchesNegY, "solveForY(G.X) matched neither +G.Y nor -G.Y")
}

// TestSolveForYAtZeroX checks solveForY at the one input it's simple to
// hand-verify: x = 0, the identity's x-coordinate, where denom = 1 and
// the solve must succeed with an on-curve point. The zero-denominator
// rejection branch is not reached by this test.
func TestSolveForYAtZeroX(t *testing.T) {
	// denom = 1 - d*u*x^2 = 0 means u*x^2 = 1/d (mod p). Constructing an
	// exact root is unnecessary: this test only needs *some* x for which
	// solveForY's denom branch is exercised, so instead check the
	// boundary directly via x = 0, which always has denom = 1 (not the
	// target) — assert the well-formed case succeeds and leave the
	// zero-denominator branch to elligatorDecode's retry loop, which is
	// covered by TestElligatorDecodeFindsCurvePoint's success across
	// several seeds.
	var zero fp.Element2
	zero.SetComponents(fp.NewElement(), fp.NewElement())
	p, ok := solveForY(&zero)
	require.True(t, ok, "x=0 has a valid y on this curve (the identity's x-coordinate)")
	require.True(t, p.ValidVartime())
}

func TestElligatorRoundTrip(t *testing.T) {
	var key [32]byte
	key[0] = 7

	e, err := Elligator(&key)
	require.NoError(t, err)

	a := scalarFromSmall(0x1357)
	k := scalarFromSmall(0x2468)

	c, err := ElligatorEncrypt(k, e)
	require.NoError(t, err)

	r, err := ElligatorSecret(a, c, e, nil, nil)
	require.NoError(t, err)

	kG := MulGen(k)
	var kGAffine AffinePoint
	kGAffine.Affine(kG)
	want := Mul(a, &kGAffine)

	var wantAffine AffinePoint
	wantAffine.Affine(want)

	require.EqualValues(t, 1, wantAffine.X.EqualCT(&r.X), "ElligatorSecret(a, Encrypt(k,E), E) != Mul(a, MulGen(k))")
	require.EqualValues(t, 1, wantAffine.Y.EqualCT(&r.Y))
}

func TestElligatorSecretWithSecondTerm(t *testing.T) {
	var key [32]byte
	key[0] = 9

	e, err := Elligator(&key)
	require.NoError(t, err)

	k1 := scalarFromSmall(3)
	k2 := scalarFromSmall(5)
	kEnc := scalarFromSmall(11)

	c, err := ElligatorEncrypt(kEnc, e)
	require.NoError(t, err)

	g := Generator()
	var gAffine AffinePoint
	gAffine.Affine(g)

	r, err := ElligatorSecret(k1, c, e, k2, &gAffine)
	require.NoError(t, err)

	kEncG := MulGen(kEnc)
	var kEncGAffine AffinePoint
	kEncGAffine.Affine(kEncG)

	want := Simul(k1, &kEncGAffine, k2, &gAffine)
	var wantAffine AffinePoint
	wantAffine.Affine(want)

	require.EqualValues(t, 1, wantAffine.X.EqualCT(&r.X))
	require.EqualValues(t, 1, wantAffine.Y.EqualCT(&r.Y))
}

func TestElligatorEncryptRejectsInvalidKey(t *testing.T) {
	var key [32]byte
	key[0] = 1
	e, err := Elligator(&key)
	require.NoError(t, err)

	var zero scalarfield.Element
	zero.Zero()
	_, err = ElligatorEncrypt(&zero, e)
	require.ErrorIs(t, err, ErrInvalidScalar)
}

func TestElligatorSecretRejectsInvalidPoint(t *testing.T) {
	var key [32]byte
	key[0] = 1
	e, err := Elligator(&key)
	require.NoError(t, err)

	var bogus AffinePoint
	bogus.X.One()
	bogus.Y.One()

	k1 := scalarFromSmall(3)
	_, err = ElligatorSecret(k1, &bogus, e, nil, nil)
	require.ErrorIs(t, err, ErrInvalidPoint)
}
