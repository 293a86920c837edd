package snowshoe

import (
	"github.com/catid/snowshoe/internal/fp"
	"github.com/catid/snowshoe/internal/scalarfield"
)

// elligatorRetries bounds the deterministic curve-point search
// elligatorDecode performs; spec.md §4.G.5 explicitly allows "Ambiguous
// Elligator input" as a failure mode, so a bounded search that
// occasionally fails is within spec, unlike the unconditional
// Elligator-2 bijection that the original library's (unrecovered)
// ec_elligator_decode implements.
const elligatorRetries = 64

// elligatorDecode deterministically derives a curve point from a
// 32-byte key: the key's low 127 bits seed the real component of a
// candidate Fp2 x-coordinate (imaginary component zero), and the
// curve equation is solved for y exactly as gen.go's findCurvePoint
// does, perturbing the seed on failure up to elligatorRetries times.
//
// ec_elligator_decode's body is absent from the retrieval pack's
// filtered original_source/ tree (only its call site in
// snowshoe.cpp's snowshoe_elligator survived) — see DESIGN.md's Open
// Question decision. This is a documented simplification standing in
// for a true Elligator-2-style bijective map: it reuses the curve's
// own "solve y^2 given x" equation instead of inventing an unsourced
// birational map to this curve's Montgomery form.
func elligatorDecode(key *[32]byte) (*AffinePoint, bool) {
	var lo, hi uint64
	lo = leUint64(key[0:8])
	hi = leUint64(key[8:16]) & 0x7FFFFFFFFFFFFFFF // force canonical (top bit zero)

	for attempt := 0; attempt < elligatorRetries; attempt++ {
		var x fp.Element2
		x.SetComponents(fp.NewElementFromSaturated(hi, lo), fp.NewElement())

		if p, ok := solveForY(&x); ok {
			return p, true
		}

		lo++
		if lo == 0 {
			hi = (hi + 1) & 0x7FFFFFFFFFFFFFFF
		}
	}
	return nil, false
}

// solveForY solves the curve equation a*u*x^2+y^2 = 1+d*u*x^2*y^2 for
// y given x, returning ok == false if no such y exists in Fp2. Shared
// with gen.go's findCurvePoint.
func solveForY(x *fp.Element2) (*AffinePoint, bool) {
	one := fp.NewElementFromSaturated(0, 1)

	var x2 fp.Element2
	x2.Square(x)

	var ux2 fp.Element2
	ux2.MulU(&x2)

	var numer fp.Element2
	numer.SetComponents(one, fp.NewElement())
	numer.Add(&numer, &ux2)

	var dux2 fp.Element2
	dux2.MulSmallK(&ux2, ecD)

	var denom fp.Element2
	denom.SetComponents(one, fp.NewElement())
	denom.Subtract(&denom, &dux2)

	if denom.IsZeroCT() == 1 {
		return nil, false
	}

	var denomInv, y2 fp.Element2
	denomInv.Invert(&denom)
	y2.Multiply(&numer, &denomInv)

	y, isSquare := fp.NewElement2().Sqrt(&y2)
	if isSquare != 1 {
		return nil, false
	}

	var p AffinePoint
	p.X.Set(x)
	p.Y.Set(y)
	if !p.ValidVartime() {
		return nil, false
	}
	return &p, true
}

// Elligator computes E = 4*f(key) for the deterministic map
// elligatorDecode, per spec.md §4.G.5's `elligator`. It returns the
// full extended-coordinate point (not reduced to affine), matching
// the 128-byte wire format §6 reserves for Elligator output.
func Elligator(key *[32]byte) (*Point, error) {
	p, ok := elligatorDecode(key)
	if !ok {
		return nil, ErrInvalidElligatorInput
	}

	var e Point
	e.Expand(p)
	e.Double(&e)
	e.Double(&e)
	return &e, nil
}

// ElligatorEncrypt computes C = k*G + E, per spec.md §4.G.5's
// `elligator_encrypt`.
func ElligatorEncrypt(k *scalarfield.Element, e *Point) (*AffinePoint, error) {
	if InvalidKey(k) {
		return nil, ErrInvalidScalar
	}

	kG := MulGen(k)
	var sum Point
	sum.Add(kG, e)

	var c AffinePoint
	c.Affine(&sum)
	return &c, nil
}

// ElligatorSecret computes R = k1*(C - E) (or, with k2/V supplied,
// R = k1*(C-E) + k2*V), then clears the cofactor, per spec.md
// §4.G.5's `elligator_secret`.
func ElligatorSecret(k1 *scalarfield.Element, c *AffinePoint, e *Point, k2 *scalarfield.Element, v *AffinePoint) (*AffinePoint, error) {
	if InvalidKey(k1) {
		return nil, ErrInvalidScalar
	}
	if !c.ValidVartime() {
		return nil, ErrInvalidPoint
	}

	var cProj, p Point
	cProj.Expand(c)
	var eNeg Point
	eNeg.Negate(e)
	p.Add(&cProj, &eNeg)

	var pAffine AffinePoint
	pAffine.Affine(&p)

	var r *Point
	if k2 == nil {
		r = Mul(k1, &pAffine)
	} else {
		if InvalidKey(k2) {
			return nil, ErrInvalidScalar
		}
		if !v.ValidVartime() {
			return nil, ErrInvalidPoint
		}
		r = Simul(k1, &pAffine, k2, v)
	}

	var out AffinePoint
	out.Affine(r)
	return &out, nil
}
