package fp

import (
	"encoding/hex"
	"errors"

	"github.com/catid/snowshoe/internal/disalloweq"
)

// Element2Size is the size of a canonical Fp2 element in bytes.
const Element2Size = 2 * ElementSize

// Element2 is an element a + b*i of Fp2 = Fp[i]/(i^2+1).  All arguments
// and receivers are allowed to alias.  The zero value is a valid zero
// element.
type Element2 struct {
	_    disalloweq.DisallowEqual
	A, B Element
}

// Zero sets `fe = 0` and returns `fe`.
func (fe *Element2) Zero() *Element2 {
	fe.A.Zero()
	fe.B.Zero()
	return fe
}

// One sets `fe = 1` and returns `fe`.
func (fe *Element2) One() *Element2 {
	fe.A.One()
	fe.B.Zero()
	return fe
}

// Set sets `fe = a` and returns `fe`.
func (fe *Element2) Set(a *Element2) *Element2 {
	fe.A.Set(&a.A)
	fe.B.Set(&a.B)
	return fe
}

// SetComponents sets `fe = a + b*i` and returns `fe`.
func (fe *Element2) SetComponents(a, b *Element) *Element2 {
	fe.A.Set(a)
	fe.B.Set(b)
	return fe
}

// Add sets `fe = x + y`, componentwise, and returns `fe`.
func (fe *Element2) Add(x, y *Element2) *Element2 {
	fe.A.Add(&x.A, &y.A)
	fe.B.Add(&x.B, &y.B)
	return fe
}

// Subtract sets `fe = x - y`, componentwise, and returns `fe`.
func (fe *Element2) Subtract(x, y *Element2) *Element2 {
	fe.A.Subtract(&x.A, &y.A)
	fe.B.Subtract(&x.B, &y.B)
	return fe
}

// Negate sets `fe = -x`, componentwise, and returns `fe`.
func (fe *Element2) Negate(x *Element2) *Element2 {
	fe.A.Negate(&x.A)
	fe.B.Negate(&x.B)
	return fe
}

// Conjugate sets `fe = conj(x) = (x.A, -x.B)` and returns `fe`.
func (fe *Element2) Conjugate(x *Element2) *Element2 {
	fe.A.Set(&x.A)
	fe.B.Negate(&x.B)
	return fe
}

// Multiply sets `fe = x * y` and returns `fe`, using the classic
// three-multiplication (Karatsuba-like) reduction:
// (a+bi)(c+di) = (ac-bd) + (ad+bc)i, computed as
//
//	k1 = c*(a+b), k2 = a*(d-c), k3 = b*(c+d)
//	real = k1 - k3, imag = k1 + k2
func (fe *Element2) Multiply(x, y *Element2) *Element2 {
	var apb, dmc, cpd Element
	apb.Add(&x.A, &x.B)
	dmc.Subtract(&y.B, &y.A)
	cpd.Add(&y.A, &y.B)

	var k1, k2, k3 Element
	k1.Multiply(&y.A, &apb)
	k2.Multiply(&x.A, &dmc)
	k3.Multiply(&x.B, &cpd)

	var real, imag Element
	real.Subtract(&k1, &k3)
	imag.Add(&k1, &k2)

	fe.A.Set(&real)
	fe.B.Set(&imag)
	return fe
}

// Square sets `fe = x * x = (a^2-b^2) + 2ab*i` and returns `fe`.
func (fe *Element2) Square(x *Element2) *Element2 {
	var apb, amb, ab Element
	apb.Add(&x.A, &x.B)
	amb.Subtract(&x.A, &x.B)
	ab.Multiply(&x.A, &x.B)

	var real, imag Element
	real.Multiply(&apb, &amb)
	imag.Add(&ab, &ab)

	fe.A.Set(&real)
	fe.B.Set(&imag)
	return fe
}

// MulU sets `fe = x * u` where `u = 2+i` is the non-residue used to
// twist the curve: (a+bi)(2+i) = (2a-b) + (a+2b)i.
func (fe *Element2) MulU(x *Element2) *Element2 {
	var twoA, twoB Element
	twoA.Add(&x.A, &x.A)
	twoB.Add(&x.B, &x.B)

	var real, imag Element
	real.Subtract(&twoA, &x.B)
	imag.Add(&x.A, &twoB)

	fe.A.Set(&real)
	fe.B.Set(&imag)
	return fe
}

// MulSmallK sets `fe = x * k` for a small non-negative k, componentwise,
// and returns `fe`.
func (fe *Element2) MulSmallK(x *Element2, k uint64) *Element2 {
	fe.A.MulSmallK(&x.A, k)
	fe.B.MulSmallK(&x.B, k)
	return fe
}

// Invert sets `fe = x^-1 = (a-bi) / (a^2+b^2)` and returns `fe`.
func (fe *Element2) Invert(x *Element2) *Element2 {
	var a2, b2, norm, normInv Element
	a2.Square(&x.A)
	b2.Square(&x.B)
	norm.Add(&a2, &b2)
	normInv.Invert(&norm)

	var real, imag, negB Element
	real.Multiply(&x.A, &normInv)
	negB.Negate(&x.B)
	imag.Multiply(&negB, &normInv)

	fe.A.Set(&real)
	fe.B.Set(&imag)
	return fe
}

// Sqrt computes a square root of `x` using the standard "complex
// method" for p === 3 (mod 4): given x = a+bi, let n = sqrt(a^2+b^2) in
// Fp, then either sqrt((a+n)/2) or sqrt((a-n)/2) (whichever is square)
// gives the real part.  Returns (fe, isSquare).
func (fe *Element2) Sqrt(x *Element2) (*Element2, uint64) {
	var a2, b2, norm Element
	a2.Square(&x.A)
	b2.Square(&x.B)
	norm.Add(&a2, &b2)

	n, normIsSquare := NewElement().Sqrt(&norm)

	var apn, amn Element
	apn.Add(&x.A, n)
	amn.Subtract(&x.A, n)

	var halfApn, halfAmn Element
	halfApn.Div2(&apn)
	halfAmn.Div2(&amn)

	x0FromApn, apnIsSquare := NewElement().Sqrt(&halfApn)
	x0FromAmn, _ := NewElement().Sqrt(&halfAmn)

	var x0 Element
	x0.ConditionalSelect(x0FromAmn, x0FromApn, apnIsSquare)

	var twoX0, twoX0Inv, y0 Element
	twoX0.Add(&x0, &x0)
	twoX0Inv.Invert(&twoX0)
	y0.Multiply(&x.B, &twoX0Inv)

	fe.A.Set(&x0)
	fe.B.Set(&y0)

	var check Element2
	check.Square(fe)
	isSquare := check.EqualCT(x) & normIsSquare
	return fe, isSquare
}

// EqualCT returns 1 iff `fe == x`, 0 otherwise.
func (fe *Element2) EqualCT(x *Element2) uint64 {
	return fe.A.EqualCT(&x.A) & fe.B.EqualCT(&x.B)
}

// IsZeroCT returns 1 iff `fe == 0`, 0 otherwise.
func (fe *Element2) IsZeroCT() uint64 {
	return fe.A.IsZero() & fe.B.IsZero()
}

// InFieldVartime returns true iff both components are canonical Fp
// values.  Not constant-time; callers must only use it on public values.
func (fe *Element2) InFieldVartime() bool {
	return fe.A.InFieldVartime() && fe.B.InFieldVartime()
}

// ConditionalSelect sets `fe = x` iff `ctrl == 0`, `fe = y` otherwise,
// and returns `fe`.
func (fe *Element2) ConditionalSelect(x, y *Element2, ctrl uint64) *Element2 {
	fe.A.ConditionalSelect(&x.A, &y.A, ctrl)
	fe.B.ConditionalSelect(&x.B, &y.B, ctrl)
	return fe
}

// SetMask sets `fe = x` iff `mask == all-ones`, leaves `fe` unchanged
// iff `mask == 0`, and returns `fe`.  `mask` MUST be all-ones or
// all-zero; this is the masked-select primitive used by input-oblivious
// table lookups.
func (fe *Element2) SetMask(x *Element2, mask uint64) *Element2 {
	var masked Element2
	masked.A.lo, masked.A.hi = fe.A.lo&^mask|x.A.lo&mask, fe.A.hi&^mask|x.A.hi&mask
	masked.B.lo, masked.B.hi = fe.B.lo&^mask|x.B.lo&mask, fe.B.hi&^mask|x.B.hi&mask
	fe.Set(&masked)
	return fe
}

// XorMask XORs `x` into `fe`, componentwise, iff `mask == all-ones`, and
// returns `fe`.  Used to XOR-accumulate a table entry into a running
// total during input-oblivious table lookup.
func (fe *Element2) XorMask(x *Element2, mask uint64) *Element2 {
	fe.A.lo ^= x.A.lo & mask
	fe.A.hi ^= x.A.hi & mask
	fe.B.lo ^= x.B.lo & mask
	fe.B.hi ^= x.B.hi & mask
	return fe
}

// NegMask conditionally negates `fe` iff `mask == all-ones`, and returns
// `fe`.
func (fe *Element2) NegMask(mask uint64) *Element2 {
	ctrl := mask & 1
	fe.A.ConditionalNegate(&fe.A, ctrl)
	fe.B.ConditionalNegate(&fe.B, ctrl)
	return fe
}

// SetCanonicalBytes sets `fe = src`, where `src` is a 32-byte encoding
// (16-byte little-endian A, followed by 16-byte little-endian B), and
// returns `fe`.  If either component is not canonical, returns nil and
// an error, leaving the receiver unchanged.
func (fe *Element2) SetCanonicalBytes(src *[Element2Size]byte) (*Element2, error) {
	var aBytes, bBytes [ElementSize]byte
	copy(aBytes[:], src[:ElementSize])
	copy(bBytes[:], src[ElementSize:])

	a, err := NewElementFromCanonicalBytes(&aBytes)
	if err != nil {
		return nil, errors.New("fp2: real component out of range")
	}
	b, err := NewElementFromCanonicalBytes(&bBytes)
	if err != nil {
		return nil, errors.New("fp2: imaginary component out of range")
	}

	fe.A.Set(a)
	fe.B.Set(b)
	return fe, nil
}

// Bytes returns the canonical 32-byte encoding of `fe`.
func (fe *Element2) Bytes() []byte {
	var dst [Element2Size]byte
	copy(dst[:ElementSize], fe.A.Bytes())
	copy(dst[ElementSize:], fe.B.Bytes())
	return dst[:]
}

// String returns the hex representation of `fe`.
func (fe *Element2) String() string {
	return hex.EncodeToString(fe.Bytes())
}

// NewElement2 returns a new zero Element2.
func NewElement2() *Element2 {
	return &Element2{}
}

// NewElement2From creates a new Element2 from another.
func NewElement2From(other *Element2) *Element2 {
	return NewElement2().Set(other)
}

// NewElement2FromComponents creates a new Element2 from its components.
func NewElement2FromComponents(a, b *Element) *Element2 {
	return NewElement2().SetComponents(a, b)
}
