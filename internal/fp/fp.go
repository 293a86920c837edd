// Package fp implements arithmetic modulo p = 2^127 - 1, and its
// quadratic extension Fp2 = Fp[i]/(i^2+1), the base fields of the curve.
package fp

import (
	"encoding/hex"
	"errors"
	"math/bits"

	"github.com/catid/snowshoe/internal/disalloweq"
	"github.com/catid/snowshoe/internal/helpers"
)

// ElementSize is the size of a canonical Fp element in bytes.
const ElementSize = 16

// pLo, pHi are the limbs of p = 2^127 - 1.
const (
	pLo uint64 = 0xFFFFFFFFFFFFFFFF
	pHi uint64 = 0x7FFFFFFFFFFFFFFF

	// twoPLo, twoPHi are the limbs of 2p = 2^128 - 2, the incomplete
	// reduction bound every Element is kept under.
	twoPLo uint64 = 0xFFFFFFFFFFFFFFFE
	twoPHi uint64 = 0xFFFFFFFFFFFFFFFF
)

// Element is an element of Fp, held in incompletely-reduced form (IR):
// lo + hi*2^64 < 2p.  All arguments and receivers are allowed to alias.
// The zero value is a valid zero element.
type Element struct {
	_      disalloweq.DisallowEqual
	lo, hi uint64
}

// Zero sets `fe = 0` and returns `fe`.
func (fe *Element) Zero() *Element {
	fe.lo, fe.hi = 0, 0
	return fe
}

// One sets `fe = 1` and returns `fe`.
func (fe *Element) One() *Element {
	fe.lo, fe.hi = 1, 0
	return fe
}

// Set sets `fe = a` and returns `fe`.
func (fe *Element) Set(a *Element) *Element {
	fe.lo, fe.hi = a.lo, a.hi
	return fe
}

// SetSmall sets `fe = v` for a small non-negative v and returns `fe`.
func (fe *Element) SetSmall(v uint64) *Element {
	fe.lo, fe.hi = v, 0
	return fe
}

// condSub2p subtracts 2p from (lo, hi) iff the result does not borrow,
// i.e. iff (lo, hi) >= 2p, and returns the (possibly) reduced pair.
func condSub2p(lo, hi uint64) (uint64, uint64) {
	var borrow uint64
	rLo, b0 := bits.Sub64(lo, twoPLo, 0)
	rHi, borrow := bits.Sub64(hi, twoPHi, b0)

	// borrow == 1 means lo,hi < 2p: keep the original value.
	keep := helpers.Uint64IsNonzero(borrow)
	return helpers.Select64(keep, rLo, lo), helpers.Select64(keep, rHi, hi)
}

// Add sets `fe = a + b` and returns `fe`.
func (fe *Element) Add(a, b *Element) *Element {
	lo, c := bits.Add64(a.lo, b.lo, 0)
	hi, c2 := bits.Add64(a.hi, b.hi, c)

	// a, b < 2p < 2^128, so the sum is < 4p < 2^129; c2 is the bit at
	// position 128.  Since 2^128 = 2*2^127 = 2*(p+1) = 2p+2 = 2 (mod p),
	// fold the overflow bit back in by adding 2*c2.
	lo, c = bits.Add64(lo, 2*c2, 0)
	hi, _ = bits.Add64(hi, 0, c)

	fe.lo, fe.hi = condSub2p(lo, hi)
	return fe
}

// Subtract sets `fe = a - b` and returns `fe`.
func (fe *Element) Subtract(a, b *Element) *Element {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	hi, borrow := bits.Sub64(a.hi, b.hi, borrow)

	// If we borrowed, a - b went negative; add back 2p to stay
	// non-negative (a, b < 2p so a-b > -2p, one addition suffices).
	addLo, c := bits.Add64(lo, twoPLo, 0)
	addHi, _ := bits.Add64(hi, twoPHi, c)

	mask := -borrow
	fe.lo = lo ^ (mask & (lo ^ addLo))
	fe.hi = hi ^ (mask & (hi ^ addHi))
	return fe
}

// Negate sets `fe = -a` and returns `fe`.
func (fe *Element) Negate(a *Element) *Element {
	var zero Element
	return fe.Subtract(&zero, a)
}

// AddSmall sets `fe = a + v` for a small non-negative v and returns `fe`.
func (fe *Element) AddSmall(a *Element, v uint64) *Element {
	var s Element
	s.SetSmall(v)
	return fe.Add(a, &s)
}

// MulSmallK sets `fe = a * k` for a small non-negative k and returns `fe`.
func (fe *Element) MulSmallK(a *Element, k uint64) *Element {
	var s Element
	s.SetSmall(k)
	return fe.Multiply(a, &s)
}

// Div2 sets `fe = a / 2` (well-defined since p is odd) and returns `fe`.
func (fe *Element) Div2(a *Element) *Element {
	odd := a.lo & 1

	// If a is odd, add p first so the low bit clears without changing
	// the residue (p is odd, so a+p is even iff a is odd).
	var t Element
	var pElem Element
	pElem.lo, pElem.hi = pLo, pHi
	t.Add(a, &pElem)

	lo := helpers.Select64(odd, a.lo, t.lo)
	hi := helpers.Select64(odd, a.hi, t.hi)

	fe.lo = (lo >> 1) | (hi << 63)
	fe.hi = hi >> 1
	return fe
}

// reduceWide folds a 4-limb (256-bit) value down to a 2-limb
// incompletely-reduced representative, using 2^127 === 1 (mod p).
func reduceWide(r [4]uint64) (uint64, uint64) {
	for r[2] != 0 || r[3] != 0 {
		loLo := r[0]
		loHi := r[1] & (1<<63 - 1)

		hiLo := (r[1] >> 63) | (r[2] << 1)
		hiHi := (r[2] >> 63) | (r[3] << 1)
		bExtra := r[3] >> 63

		var c uint64
		r[0], c = bits.Add64(loLo, hiLo, 0)
		r[1], c = bits.Add64(loHi, hiHi, c)
		r[2] = c + bExtra
		r[3] = 0
	}
	return r[0], r[1]
}

// Multiply sets `fe = a * b` and returns `fe`.
func (fe *Element) Multiply(a, b *Element) *Element {
	// Schoolbook 128x128 -> 256-bit product.
	var r [4]uint64

	h0, l0 := bits.Mul64(a.lo, b.lo)
	h1, l1 := bits.Mul64(a.lo, b.hi)
	h2, l2 := bits.Mul64(a.hi, b.lo)
	h3, l3 := bits.Mul64(a.hi, b.hi)

	r[0] = l0

	mid, c0 := bits.Add64(h0, l1, 0)
	mid, c1 := bits.Add64(mid, l2, 0)
	r[1] = mid
	carry1 := c0 + c1 // 0, 1, or 2

	hi, c2 := bits.Add64(h1, h2, 0)
	hi, c3 := bits.Add64(hi, l3, 0)
	hi, c4 := bits.Add64(hi, carry1, 0)
	r[2] = hi
	carry2 := c2 + c3 + c4 // 0, 1, 2, or 3

	r[3], _ = bits.Add64(h3, carry2, 0)

	lo, hiw := reduceWide(r)
	fe.lo, fe.hi = condSub2p(lo, hiw)
	return fe
}

// Square sets `fe = a * a` and returns `fe`.
func (fe *Element) Square(a *Element) *Element {
	return fe.Multiply(a, a)
}

// CompleteReduce forces `fe` into [0, p) and returns `fe`.
func (fe *Element) CompleteReduce() *Element {
	lo, borrow := bits.Sub64(fe.lo, pLo, 0)
	hi, borrow := bits.Sub64(fe.hi, pHi, borrow)

	// borrow == 0 means fe >= p: keep the subtracted value.
	keep := helpers.Uint64IsZero(borrow)
	fe.lo = helpers.Select64(keep, fe.lo, lo)
	fe.hi = helpers.Select64(keep, fe.hi, hi)
	return fe
}

// EqualCT returns 1 iff `fe == a` (mod p), 0 otherwise, regardless of
// whether either side has been completely reduced.
func (fe *Element) EqualCT(a *Element) uint64 {
	var x, y Element
	x.Set(fe).CompleteReduce()
	y.Set(a).CompleteReduce()

	diff := (x.lo ^ y.lo) | (x.hi ^ y.hi)
	return helpers.Uint64IsZero(diff)
}

// IsZero returns 1 iff `fe == 0` (mod p), 0 otherwise.
func (fe *Element) IsZero() uint64 {
	var x Element
	x.Set(fe).CompleteReduce()
	return helpers.Uint64IsZero(x.lo | x.hi)
}

// ConditionalSelect sets `fe = a` iff `ctrl == 0`, `fe = b` otherwise,
// and returns `fe`.
func (fe *Element) ConditionalSelect(a, b *Element, ctrl uint64) *Element {
	fe.lo = helpers.Select64(ctrl, a.lo, b.lo)
	fe.hi = helpers.Select64(ctrl, a.hi, b.hi)
	return fe
}

// ConditionalNegate sets `fe = a` iff `ctrl == 0`, `fe = -a` otherwise,
// and returns `fe`.
func (fe *Element) ConditionalNegate(a *Element, ctrl uint64) *Element {
	var neg Element
	neg.Negate(a)
	return fe.ConditionalSelect(a, &neg, ctrl)
}

// InFieldVartime returns true iff `fe < p`.  Not constant-time; callers
// must only use it on public values.
func (fe *Element) InFieldVartime() bool {
	if fe.hi != pHi {
		return fe.hi < pHi
	}
	return fe.lo < pLo
}

// Invert sets `fe = a^(p-2) = a^-1` (or 0 if a == 0) and returns `fe`.
// Uses a fixed addition chain: p-2 = 2^127-3, whose bit pattern (MSB to
// LSB) is 125 ones, a zero, then a one.
func (fe *Element) Invert(a *Element) *Element {
	result := NewElement().One()
	for i := 126; i >= 0; i-- {
		result.Square(result)
		if i == 1 {
			continue
		}
		result.Multiply(result, a)
	}
	return fe.Set(result)
}

// Chi computes the Legendre symbol of `a`: a^((p-1)/2) = a^(2^126-1),
// returning an Fp element equal to 0, 1, or p-1 (representing -1).
func (fe *Element) Chi(a *Element) *Element {
	// (p-1)/2 = 2^126 - 1: 126 one-bits.  result = a; repeat 125 times:
	// result = result^2 * a.
	result := NewElementFrom(a)
	for i := 0; i < 125; i++ {
		result.Square(result)
		result.Multiply(result, a)
	}
	return fe.Set(result)
}

// Sqrt sets `fe = a^((p+1)/4) = a^(2^125)` and returns (fe, isSquare),
// where isSquare is 1 iff fe*fe == a.  Since p === 3 (mod 4), this is
// the standard square root formula; a is assumed to already be in Fp
// (callers check isSquare rather than branch on secret inputs).
func (fe *Element) Sqrt(a *Element) (*Element, uint64) {
	result := NewElementFrom(a)
	for i := 0; i < 125; i++ {
		result.Square(result)
	}

	var check Element
	check.Square(result)
	isSquare := check.EqualCT(a)

	fe.Set(result)
	return fe, isSquare
}

// SetCanonicalBytes sets `fe = src`, where `src` is a 16-byte
// little-endian encoding of `fe` with the top bit of the last byte
// clear, and returns `fe`.  If `src` is not a canonical (< p) encoding,
// SetCanonicalBytes returns nil and an error, and the receiver is
// unchanged.
func (fe *Element) SetCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	if src[15]&0x80 != 0 {
		return nil, errors.New("fp: top bit must be zero")
	}

	l := helpers.BytesToSaturated2(src)
	var cand Element
	cand.lo, cand.hi = l[0], l[1]
	if !cand.InFieldVartime() {
		return nil, errors.New("fp: value out of range")
	}

	fe.lo, fe.hi = cand.lo, cand.hi
	return fe, nil
}

// Bytes returns the canonical 16-byte little-endian encoding of `fe`.
func (fe *Element) Bytes() []byte {
	var dst [ElementSize]byte
	return fe.getBytes(&dst)
}

func (fe *Element) getBytes(dst *[ElementSize]byte) []byte {
	var x Element
	x.Set(fe).CompleteReduce()

	l := [2]uint64{x.lo, x.hi}
	helpers.SaturatedToBytes2(dst, &l)
	return dst[:]
}

// String returns the little-endian hex representation of `fe`.
func (fe *Element) String() string {
	return hex.EncodeToString(fe.Bytes())
}

// NewElement returns a new zero Element.
func NewElement() *Element {
	return &Element{}
}

// NewElementFrom creates a new Element from another.
func NewElementFrom(other *Element) *Element {
	return NewElement().Set(other)
}

// NewElementFromSaturated creates a new Element from raw (lo, hi) limbs;
// it panics if the value is not canonical.  Intended for precomputed
// constants only.
func NewElementFromSaturated(hi, lo uint64) *Element {
	fe := &Element{lo: lo, hi: hi}
	if !fe.InFieldVartime() {
		panic("fp: saturated limbs out of range")
	}
	return fe
}

// NewElementFromCanonicalBytes creates a new Element from its canonical
// little-endian byte representation.
func NewElementFromCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	return NewElement().SetCanonicalBytes(src)
}
