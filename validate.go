package snowshoe

import "github.com/catid/snowshoe/internal/scalarfield"

// SecretGen masks a 256-bit input in place so that it is a compatible
// scalar for multiplication: clears the top 5 bits of the high limb,
// per spec.md §4.H and ecmul.cpp's ec_mask_scalar. There is no failure
// path. One extra bit is cleared beyond what's strictly required, to
// simplify key generation (the same choice ec_mask_scalar documents).
func SecretGen(k *scalarfield.Element) *scalarfield.Element {
	return k.MaskScalar()
}

// InvalidKey returns true iff k == 0 or k >= q. This check is allowed
// to run in variable time: per spec.md §4.H, it leaks only "the caller
// supplied an out-of-range scalar", which every mul* entry point must
// check before use.
func InvalidKey(k *scalarfield.Element) bool {
	return k.IsZero() == 1 || k.LessQ() == 0
}

// Valid reports whether p satisfies the curve equation. This is a
// vartime check intended only for public inputs (deserialized points),
// per spec.md §4.H.
func Valid(p *AffinePoint) bool {
	return p.ValidVartime()
}
