package snowshoe

import (
	"github.com/catid/snowshoe/internal/fp"
	"github.com/catid/snowshoe/internal/scalarfield"
)

// generator and generatorEndo are the fixed base point EC_G and its
// GLS image EC_EG = psi(EC_G), computed once at init time.
//
// Neither spec.md nor the retrieval pack's filtered original_source/
// tree carries literal EC_G coordinates: ecmul.cpp ships only the
// *derived* comb-table data (PRECOMP_TABLE_0/1/2, entries that are
// already small multiples of G combined with its endomorphism image),
// not G itself. This is recorded as an Open Question decision in
// DESIGN.md: EC_G is derived deterministically here by the standard
// construction — find any point on the curve, then clear the
// cofactor (the curve's full order is 4q per spec.md §3) by scaling
// by 4, which lands in the order-q subgroup. The search and the
// subsequent order check are both over public data, so plain
// variable-time arithmetic is fine.
var (
	generator     *Point
	generatorEndo *Point
)

func init() {
	base := findCurvePoint()

	var g Point
	g.Double(base)
	g.Double(&g)

	if g.IsIdentity() == 1 {
		panic("snowshoe: cofactor-cleared base point is the identity")
	}
	if !scalarTimesIsIdentity(&g, scalarfield.Q()) {
		panic("snowshoe: cofactor-cleared base point does not have order q")
	}
	generator = &g

	var gAffine AffinePoint
	gAffine.Affine(&g)
	var egAffine AffinePoint
	Endomorphism(&egAffine, &gAffine)

	var eg Point
	eg.Expand(&egAffine)
	generatorEndo = &eg
}

// findCurvePoint does a small deterministic vartime search for an
// affine point on the curve, starting from x=1 and incrementing the
// real component until solveForY (shared with elligator.go's decode
// search) finds a y with 1+u*x^2 over (1-d*u*x^2) a square in Fp2.
func findCurvePoint() *Point {
	for xi := uint64(1); xi < 1<<16; xi++ {
		var x fp.Element2
		x.SetComponents(fp.NewElementFromSaturated(0, xi), fp.NewElement())

		if p, ok := solveForY(&x); ok {
			return new(Point).Expand(p)
		}
	}

	panic("snowshoe: no curve point found in search range")
}

// scalarTimesIsIdentity returns true iff n*p == identity, computed by
// plain vartime double-and-add (p and n are both public here: p is
// the candidate generator, n is the public group order).
func scalarTimesIsIdentity(p *Point, n [4]uint64) bool {
	acc := NewIdentityPoint()
	for limb := 3; limb >= 0; limb-- {
		for bit := 63; bit >= 0; bit-- {
			acc.Double(acc)
			if (n[limb]>>uint(bit))&1 == 1 {
				acc.Add(acc, p)
			}
		}
	}
	return acc.IsIdentity() == 1
}

// Generator returns a fresh copy of the fixed base point EC_G.
func Generator() *Point {
	return NewPointFrom(generator)
}

// GeneratorEndomorphism returns a fresh copy of EC_EG = psi(EC_G).
func GeneratorEndomorphism() *Point {
	return NewPointFrom(generatorEndo)
}
