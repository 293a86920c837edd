// Package scalarfield implements arithmetic modulo the prime group order
// q of the curve, via the Barrett-style unsigned-division algorithm used
// throughout this library (mul_mod_q, mod_q, and the GLS decomposition's
// rounding divisions all reduce to one shared primitive, barrettDivMod).
package scalarfield

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/catid/snowshoe/internal/disalloweq"
	"github.com/catid/snowshoe/internal/helpers"
)

// ElementSize is the size of a canonical scalar-field element in bytes.
const ElementSize = 32

// q = 2^252 - 0x59D9EBEB3F23782C3164971C4F61FE5B, the prime order of
// the curve's main subgroup, as four little-endian 64-bit limbs.
var qLimbs = [4]uint64{
	0xCE9B68E3B09E01A5,
	0xA6261414C0DC87D3,
	0xFFFFFFFFFFFFFFFF,
	0x0FFFFFFFFFFFFFFF,
}

// m1 is the precomputed 384-bit Barrett reciprocal
// m' = floor(2^(N+l)/q) - 2^N + 1, N=508, l=252.
var m1 = [6]uint64{
	0xB91DD2622FBD3D66,
	0x6D91A79575334CAC,
	0xE95EB7B0E1A98856,
	0xF893F8B602171C88,
	0x3164971C4F61FE5C,
	0x59D9EBEB3F23782C,
}

// Element is an integer modulo q.  All arguments and receivers are
// allowed to alias.  The zero value is a valid zero element.
type Element struct {
	_ disalloweq.DisallowEqual
	l [4]uint64
}

// Zero sets `s = 0` and returns `s`.
func (s *Element) Zero() *Element {
	s.l = [4]uint64{}
	return s
}

// One sets `s = 1` and returns `s`.
func (s *Element) One() *Element {
	s.l = [4]uint64{1, 0, 0, 0}
	return s
}

// Set sets `s = a` and returns `s`.
func (s *Element) Set(a *Element) *Element {
	s.l = a.l
	return s
}

// mulWordsInto computes dst += a*b for fixed-size limb arrays, using a
// standard schoolbook double loop with carry propagation (the same
// algorithm the original Comba multiplication in misc.cpp implements,
// expressed without per-column unrolling).
func mulWordsInto(dst []uint64, a, b []uint64) {
	for i := range a {
		if a[i] == 0 {
			continue
		}
		var carry uint64
		for j := range b {
			hi, lo := bits.Mul64(a[i], b[j])
			var c0, c1 uint64
			dst[i+j], c0 = bits.Add64(dst[i+j], lo, 0)
			dst[i+j], c1 = bits.Add64(dst[i+j], carry, 0)
			carry = hi + c0 + c1
		}
		k := i + len(b)
		for carry != 0 {
			dst[k], carry = bits.Add64(dst[k], carry, 0)
			k++
		}
	}
}

func addInto(dst []uint64, a []uint64) {
	var carry uint64
	for i := range a {
		dst[i], carry = bits.Add64(dst[i], a[i], carry)
	}
	for i := len(a); carry != 0 && i < len(dst); i++ {
		dst[i], carry = bits.Add64(dst[i], 0, carry)
	}
}

func subFrom(dst []uint64, a []uint64) {
	var borrow uint64
	for i := range a {
		dst[i], borrow = bits.Sub64(dst[i], a[i], borrow)
	}
	for i := len(a); borrow != 0 && i < len(dst); i++ {
		dst[i], borrow = bits.Sub64(dst[i], 0, borrow)
	}
}

func shiftRight1(a []uint64) {
	var carry uint64
	for i := len(a) - 1; i >= 0; i-- {
		next := a[i] << 63
		a[i] = (a[i] >> 1) | carry
		carry = next
	}
}

// barrettDivMod reduces a wide dividend `p` (given as little-endian
// limbs, at most 508 bits: 4 limbs of x*y plus an optional 4-limb z,
// or a direct 512-bit value for mod_q) modulo q, following the
// algorithm in _examples/original_source/snowshoe/misc.cpp's
// mul_mod_q: t = floor(m'*p / 2^508), s = t + floor((p-t)/2),
// quot = s >> 251, rem = p - quot*q.
func barrettDivMod(p [8]uint64) [4]uint64 {
	_, rem := DivModQ(p)
	return rem
}

// DivModQ returns the quotient and remainder of the wide little-endian
// value `p` divided by q, using the same Barrett approximation as
// MulModQ/ModQ.  Exported for the GLS decomposition's Babai-rounding
// divisions (endo.go), which need the quotient rather than the
// remainder.
func DivModQ(p [8]uint64) (quot [4]uint64, rem [4]uint64) {
	n := [4]uint64{p[0], p[1], p[2], p[3]}

	var wide [14]uint64
	mulWordsInto(wide[:], m1[:], p[:])

	// t = wide[7:14] >> 60 (wide[7:14] is wide >> 448, so this is
	// wide >> 508 overall).
	var t [7]uint64
	copy(t[:], wide[7:14])
	for i := 0; i < 6; i++ {
		t[i] = (t[i] >> 60) | (t[i+1] << 4)
	}
	t[6] >>= 60

	// p -= t (p here is the working copy, 8 limbs; t has 7).
	work := p
	subFrom(work[:], t[:])

	// p >>= 1
	shiftRight1(work[:])

	// p = (p + t) >> 251 = (p + t) >> 192 >> 59: drop the low three
	// words of the sum, then shift the remainder right by 59 bits.
	addInto(work[:], t[:])
	var shifted [5]uint64
	copy(shifted[:], work[3:8])
	for i := 0; i < 4; i++ {
		shifted[i] = (shifted[i] >> 59) | (shifted[i+1] << 5)
	}

	quot = [4]uint64{shifted[0], shifted[1], shifted[2], shifted[3]}

	var qp [8]uint64
	mulWordsInto(qp[:], quot[:], qLimbs[:])

	rem = n
	subFrom(rem[:], qp[:4])

	return quot, rem
}

// MulWide returns the full 512-bit little-endian product of two
// 256-bit little-endian values, with no reduction.
func MulWide(a, b [4]uint64) [8]uint64 {
	var p [8]uint64
	mulWordsInto(p[:], a[:], b[:])
	return p
}

// Q returns the prime group order q as little-endian limbs.
func Q() [4]uint64 {
	return qLimbs
}

// SubWide subtracts the little-endian 512-bit value `b` from `*a` in
// place and returns the borrow out of the top limb (1 iff the true
// difference is negative).
func SubWide(a *[8]uint64, b [8]uint64) uint64 {
	var borrow uint64
	for i := 0; i < 8; i++ {
		a[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
	return borrow
}

// NegateWide negates a little-endian 512-bit two's-complement value in
// place (used to recover a magnitude after SubWide reports a negative
// result).
func NegateWide(a *[8]uint64) {
	var borrow uint64
	for i := 0; i < 8; i++ {
		a[i], borrow = bits.Sub64(0, a[i], borrow)
	}
}

// MulModQ sets `s = x*y + z (mod q)` and returns `s`.  `z` may be nil.
// The contract is `0 < x`, `0 < y < q`, `z < q` when present; x, y may
// be arbitrary 256-bit values on input.
func (s *Element) MulModQ(x, y *Element, z *Element) *Element {
	var p [8]uint64
	mulWordsInto(p[:], x.l[:], y.l[:])

	if z != nil {
		addInto(p[:], z.l[:])
	}

	s.l = barrettDivMod(p)
	return s
}

// ModQ sets `s = x mod q`, where `x` is a 512-bit value given as eight
// little-endian limbs, and returns `s`.
func (s *Element) ModQ(x *[8]uint64) *Element {
	s.l = barrettDivMod(*x)
	return s
}

// AddModQ sets `s = x + y (mod q)` and returns `s`.
func (s *Element) AddModQ(x, y *Element) *Element {
	var one Element
	one.One()
	return s.MulModQ(x, &one, y)
}

// NegModQ sets `s = (q - x) mod q` and returns `s`.
func (s *Element) NegModQ(x *Element) *Element {
	if x.IsZero() == 1 {
		return s.Zero()
	}

	var borrow uint64
	var diff [4]uint64
	for i := 0; i < 4; i++ {
		diff[i], borrow = bits.Sub64(qLimbs[i], x.l[i], borrow)
	}
	s.l = diff
	return s
}

// LessQ returns 1 iff `s < q`, 0 otherwise, in constant time.
func (s *Element) LessQ() uint64 {
	var borrow uint64
	for i := 0; i < 4; i++ {
		_, borrow = bits.Sub64(s.l[i], qLimbs[i], borrow)
	}
	return helpers.Uint64IsNonzero(borrow)
}

// IsZero returns 1 iff `s == 0`, 0 otherwise.
func (s *Element) IsZero() uint64 {
	return helpers.Uint64IsZero(s.l[0] | s.l[1] | s.l[2] | s.l[3])
}

// MaskScalar clears the top 5 bits of `s` in place (forcing s < 2^251)
// and returns `s`.  Ported bit-for-bit from ec_mask_scalar in
// _examples/original_source/snowshoe/ecmul.cpp.
func (s *Element) MaskScalar() *Element {
	s.l[3] &= 0x07FFFFFFFFFFFFFF
	return s
}

// ConditionalSelect sets `s = a` iff `ctrl == 0`, `s = b` otherwise, and
// returns `s`.
func (s *Element) ConditionalSelect(a, b *Element, ctrl uint64) *Element {
	for i := 0; i < 4; i++ {
		s.l[i] = helpers.Select64(ctrl, a.l[i], b.l[i])
	}
	return s
}

// Bits returns the raw little-endian limbs of `s`.
func (s *Element) Bits() [4]uint64 {
	return s.l
}

// SetBits sets `s`'s raw little-endian limbs directly, without
// reduction or range check.  Used by the byte API's raw (unvalidated)
// scalar decoding and by tests that need out-of-range values.
func (s *Element) SetBits(l [4]uint64) *Element {
	s.l = l
	return s
}

// SetCanonicalBytes sets `s = src`, where `src` is a 32-byte
// little-endian encoding, and returns `s`.  If `src >= q`, returns nil
// and an error, leaving the receiver unchanged.
func (s *Element) SetCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	var l [4]uint64
	for i := 0; i < 4; i++ {
		l[i] = binary.LittleEndian.Uint64(src[i*8 : i*8+8])
	}

	var cand Element
	cand.l = l
	if cand.LessQ() == 0 {
		return nil, errors.New("scalarfield: value out of range")
	}

	s.l = l
	return s, nil
}

// Bytes returns the canonical 32-byte little-endian encoding of `s`.
func (s *Element) Bytes() []byte {
	var dst [ElementSize]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(dst[i*8:i*8+8], s.l[i])
	}
	return dst[:]
}

// NewElement returns a new zero Element.
func NewElement() *Element {
	return &Element{}
}

// NewElementFromCanonicalBytes creates a new Element from its canonical
// little-endian byte representation.
func NewElementFromCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	return NewElement().SetCanonicalBytes(src)
}

// NewElementFromWideBytes reduces a 64-byte little-endian value modulo
// q and returns the resulting Element (used by mod_q).
func NewElementFromWideBytes(src *[64]byte) *Element {
	var l [8]uint64
	for i := 0; i < 8; i++ {
		l[i] = binary.LittleEndian.Uint64(src[i*8 : i*8+8])
	}
	return NewElement().ModQ(&l)
}
