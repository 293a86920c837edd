package snowshoe

import "github.com/catid/snowshoe/internal/scalarfield"

// Mul computes 4*k*P for a variable (not precomputed) base point P,
// using the GLS endomorphism and a GLV-SAC (m=2) recoded table, ported
// from ecmul.cpp's ec_mul. The final 4x scaling defends against small
// subgroup attacks when P is not known to be in the prime-order
// subgroup (spec.md §4.G.1).
func Mul(k *scalarfield.Element, p *AffinePoint) *Point {
	a, b := Decompose(k)

	var qAffine AffinePoint
	Endomorphism(&qAffine, p)
	var q Point
	q.Expand(&qAffine)
	q.ConditionalNegate(&q, b.Sign)

	var pp Point
	pp.Expand(p)
	pp.ConditionalNegate(&pp, a.Sign)

	table := genTable2(&pp, &q)

	aMag, bMag := a.Mag, b.Mag
	recodeBit := recodeGLVSAC2(&aMag, &bMag, 128)

	x := tableSelect2(&table, &aMag, &bMag, 126)
	for ii := 124; ii >= 0; ii -= 2 {
		t := tableSelect2(&table, &aMag, &bMag, ii)
		x.Double(&x)
		x.Double(&x)
		x.Add(&x, &t)
	}

	x.ConditionalAdd(&x, &pp, recodeBit)
	x.Double(&x)
	x.Double(&x)
	// The GLV-SAC recoding cannot represent k == 0 (a-1 wraps), so the
	// identity is selected for it explicitly.
	x.ConditionalSelect(&x, NewIdentityPoint(), k.IsZero())
	return NewPointFrom(&x)
}

// MulGen computes k*G for the fixed generator point, using the
// modified LSB-set comb method, ported from ecmul.cpp's ec_mul_gen.
// Unlike Mul, no cofactor-clearing 4x scaling is applied: G already
// generates the order-q subgroup (spec.md §4.G.2).
func MulGen(k *scalarfield.Element) *Point {
	kp, lsb := recodeComb(k)

	s, t := tableSelectComb(&kp, combE-1)
	var x Point
	x.Add(&s, &t)

	for ii := combE - 2; ii >= 0; ii-- {
		s, t := tableSelectComb(&kp, ii)
		x.Double(&x)
		x.Add(&x, &s)
		x.Add(&x, &t)
	}

	carryBit := (kp[3] >> 60) & 1
	x.ConditionalAdd(&x, combFix, carryBit)
	x.ConditionalNegate(&x, lsb)
	return NewPointFrom(&x)
}

// Simul computes 4*(a*P + b*Q) for two variable base points, using a
// single GLV-SAC (m=4) recoded table shared by both scalars, ported
// from ecmul.cpp's ec_simul (spec.md §4.G.3). This is cheaper than two
// independent Mul calls plus a final Add.
func Simul(a *scalarfield.Element, p *AffinePoint, b *scalarfield.Element, q *AffinePoint) *Point {
	a0, a1 := Decompose(a)
	b0, b1 := Decompose(b)

	var p1Affine, q1Affine AffinePoint
	Endomorphism(&p1Affine, p)
	Endomorphism(&q1Affine, q)

	var p0, q0, p1, q1 Point
	p0.Expand(p)
	q0.Expand(q)
	p1.Expand(&p1Affine)
	q1.Expand(&q1Affine)

	p0.ConditionalNegate(&p0, a0.Sign)
	q0.ConditionalNegate(&q0, b0.Sign)
	p1.ConditionalNegate(&p1, a1.Sign)
	q1.ConditionalNegate(&q1, b1.Sign)

	table := genTable4(&p0, &p1, &q0, &q1)

	a0m, a1m, b0m, b1m := a0.Mag, a1.Mag, b0.Mag, b1.Mag
	recodeBit := recodeGLVSAC4(&a0m, &a1m, &b0m, &b1m, 127)

	x := tableSelect4(&table, &a0m, &a1m, &b0m, &b1m, 126)
	for ii := 125; ii >= 0; ii-- {
		t := tableSelect4(&table, &a0m, &a1m, &b0m, &b1m, ii)
		x.Double(&x)
		x.Add(&x, &t)
	}

	x.ConditionalAdd(&x, &p0, recodeBit)
	x.Double(&x)
	x.Double(&x)
	return NewPointFrom(&x)
}

// SimulGen computes 4*a*G + 4*b*Q for the fixed generator and one
// variable base point, matching spec.md §6's `simul_gen` cofactor
// convention. ecmul.cpp declares an ec_simul_gen with this signature
// (called from snowshoe.cpp's sign/verify routines) but its body was
// not present anywhere in the retrieval pack's filtered
// original_source/ tree — only the extern declaration survived
// filtering. Rather than invent a fused dual-loop comb/GLV-SAC
// algorithm from whole cloth, SimulGen is implemented as the
// algebraically equivalent composition of the two routines whose
// bodies ARE grounded in ecmul.cpp (see DESIGN.md's Open Question
// decision for SimulGen): MulGen returns a*G uncleared, so it is
// doubled twice to match Mul's built-in 4x cofactor clearing before
// the two terms are added.
func SimulGen(a *scalarfield.Element, b *scalarfield.Element, q *AffinePoint) *Point {
	aG := MulGen(a)
	aG.Double(aG)
	aG.Double(aG)
	bQ := Mul(b, q)
	return NewIdentityPoint().Add(aG, bQ)
}
