package snowshoe

import (
	"errors"

	"github.com/catid/snowshoe/internal/fp"
	"github.com/catid/snowshoe/internal/scalarfield"
)

// Byte sizes of the wire encodings spec.md §6 defines.
const (
	ScalarSize        = scalarfield.ElementSize // 32
	AffinePointSize   = 2 * fp.Element2Size     // 64
	ExtendedPointSize = 4 * fp.Element2Size     // 128
	ProtocolVersion   = 1
)

// Error kinds, exhaustive per spec.md §7.
var (
	ErrVersionMismatch       = errors.New("snowshoe: version mismatch")
	ErrInvalidScalar         = errors.New("snowshoe: scalar is zero or >= q")
	ErrInvalidPoint          = errors.New("snowshoe: point is not on the curve")
	ErrInvalidElligatorInput = errors.New("snowshoe: elligator input is ambiguous")
)

// Init checks the caller's expected protocol version against this
// library's, per spec.md §6's `init(expected_version)`.
func Init(expectedVersion int) error {
	if expectedVersion != ProtocolVersion {
		return ErrVersionMismatch
	}
	return nil
}

// decodeScalar parses a 32-byte little-endian scalar and rejects it
// per InvalidKey (k == 0 or k >= q), matching spec.md §6's requirement
// that every mul* entry point validate its scalar before use.
func decodeScalar(src *[ScalarSize]byte) (*scalarfield.Element, error) {
	k, err := scalarfield.NewElementFromCanonicalBytes(src)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	if InvalidKey(k) {
		return nil, ErrInvalidScalar
	}
	return k, nil
}

// decodeAffinePoint parses a 64-byte affine point (x ‖ y, each a
// canonical 32-byte Fp2 element) and rejects it unless it is on the
// curve.
func decodeAffinePoint(src *[AffinePointSize]byte) (*AffinePoint, error) {
	var xBytes, yBytes [fp.Element2Size]byte
	copy(xBytes[:], src[:fp.Element2Size])
	copy(yBytes[:], src[fp.Element2Size:])

	var p AffinePoint
	x, err := fp.NewElement2().SetCanonicalBytes(&xBytes)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	y, err := fp.NewElement2().SetCanonicalBytes(&yBytes)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	p.X.Set(x)
	p.Y.Set(y)

	if !p.ValidVartime() {
		return nil, ErrInvalidPoint
	}
	return &p, nil
}

// encodeAffinePoint serializes p as x ‖ y, 64 bytes total.
func encodeAffinePoint(p *AffinePoint) [AffinePointSize]byte {
	var dst [AffinePointSize]byte
	copy(dst[:fp.Element2Size], p.X.Bytes())
	copy(dst[fp.Element2Size:], p.Y.Bytes())
	return dst
}

// encodeExtendedPoint serializes p as x ‖ y ‖ t ‖ z, 128 bytes total —
// the wire format spec.md §6 reserves for Elligator output, which
// (unlike the other mul* routines) does not reduce to affine before
// returning.
func encodeExtendedPoint(p *Point) [ExtendedPointSize]byte {
	var dst [ExtendedPointSize]byte
	copy(dst[0*fp.Element2Size:1*fp.Element2Size], p.X.Bytes())
	copy(dst[1*fp.Element2Size:2*fp.Element2Size], p.Y.Bytes())
	copy(dst[2*fp.Element2Size:3*fp.Element2Size], p.T.Bytes())
	copy(dst[3*fp.Element2Size:4*fp.Element2Size], p.Z.Bytes())
	return dst
}

// rawScalarBytes reads src as raw little-endian limbs without checking
// against q: mul_mod_q/add_mod_q are modular-reduction primitives, not
// key-validating entry points, and spec.md §8's own end-to-end vectors
// feed them out-of-range 256-bit patterns (e.g. all-ones) expecting a
// reduced result back, not a rejection.
func rawScalarBytes(src *[ScalarSize]byte) *scalarfield.Element {
	var l [4]uint64
	for i := 0; i < 4; i++ {
		l[i] = leUint64(src[i*8 : i*8+8])
	}
	return new(scalarfield.Element).SetBits(l)
}

// MulModQBytes computes r = (x*y + z) mod q, per spec.md §6's
// `mul_mod_q`. A nil z is treated as zero. x, y, z need not be
// canonical (< q) on input.
func MulModQBytes(x, y *[ScalarSize]byte, z *[ScalarSize]byte) (*[ScalarSize]byte, error) {
	xs := rawScalarBytes(x)
	ys := rawScalarBytes(y)

	var zs *scalarfield.Element
	if z != nil {
		zs = rawScalarBytes(z)
	} else {
		zs = scalarfield.NewElement()
	}

	var r scalarfield.Element
	r.MulModQ(xs, ys, zs)
	var dst [ScalarSize]byte
	copy(dst[:], r.Bytes())
	return &dst, nil
}

// AddModQBytes computes r = (x+y) mod q, per spec.md §6's `add_mod_q`.
// x, y need not be canonical (< q) on input.
func AddModQBytes(x, y *[ScalarSize]byte) (*[ScalarSize]byte, error) {
	xs := rawScalarBytes(x)
	ys := rawScalarBytes(y)

	var r scalarfield.Element
	r.AddModQ(xs, ys)
	var dst [ScalarSize]byte
	copy(dst[:], r.Bytes())
	return &dst, nil
}

// ModQBytes computes r = x mod q for a 64-byte wide input, per
// spec.md §6's `mod_q`.
func ModQBytes(x *[64]byte) *[ScalarSize]byte {
	var wide [8]uint64
	for i := 0; i < 8; i++ {
		wide[i] = leUint64(x[i*8 : i*8+8])
	}

	var r scalarfield.Element
	r.ModQ(&wide)
	var dst [ScalarSize]byte
	copy(dst[:], r.Bytes())
	return &dst
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// NegPoint computes R = -P, per spec.md §6's `neg`.
func NegPoint(src *[AffinePointSize]byte) (*[AffinePointSize]byte, error) {
	p, err := decodeAffinePoint(src)
	if err != nil {
		return nil, err
	}
	var proj Point
	proj.Expand(p)
	proj.Negate(&proj)

	var r AffinePoint
	r.Affine(&proj)
	dst := encodeAffinePoint(&r)
	return &dst, nil
}

// ValidPoint checks a 64-byte affine point against the curve equation,
// per spec.md §6's `valid`.
func ValidPoint(src *[AffinePointSize]byte) bool {
	_, err := decodeAffinePoint(src)
	return err == nil
}

// MulGenBytes computes R = k*G (mul4 == false) or R = 4*k*G
// (mul4 == true), per spec.md §6's `mul_gen`.
func MulGenBytes(k *[ScalarSize]byte, mul4 bool) (*[AffinePointSize]byte, error) {
	ks, err := decodeScalar(k)
	if err != nil {
		return nil, err
	}

	r := MulGen(ks)
	if mul4 {
		r.Double(r)
		r.Double(r)
	}

	var ra AffinePoint
	ra.Affine(r)
	dst := encodeAffinePoint(&ra)
	return &dst, nil
}

// MulBytes computes R = k*4*P, per spec.md §6's `mul`.
func MulBytes(k *[ScalarSize]byte, p *[AffinePointSize]byte) (*[AffinePointSize]byte, error) {
	ks, err := decodeScalar(k)
	if err != nil {
		return nil, err
	}
	pp, err := decodeAffinePoint(p)
	if err != nil {
		return nil, err
	}

	r := Mul(ks, pp)
	var ra AffinePoint
	ra.Affine(r)
	dst := encodeAffinePoint(&ra)
	return &dst, nil
}

// SimulBytes computes R = a*4*P + b*4*Q, per spec.md §6's `simul`.
func SimulBytes(a *[ScalarSize]byte, p *[AffinePointSize]byte, b *[ScalarSize]byte, q *[AffinePointSize]byte) (*[AffinePointSize]byte, error) {
	as, err := decodeScalar(a)
	if err != nil {
		return nil, err
	}
	bs, err := decodeScalar(b)
	if err != nil {
		return nil, err
	}
	pp, err := decodeAffinePoint(p)
	if err != nil {
		return nil, err
	}
	qq, err := decodeAffinePoint(q)
	if err != nil {
		return nil, err
	}

	r := Simul(as, pp, bs, qq)
	var ra AffinePoint
	ra.Affine(r)
	dst := encodeAffinePoint(&ra)
	return &dst, nil
}

// SimulGenBytes computes R = a*4*G + b*4*Q, per spec.md §6's
// `simul_gen`.
func SimulGenBytes(a *[ScalarSize]byte, b *[ScalarSize]byte, q *[AffinePointSize]byte) (*[AffinePointSize]byte, error) {
	as, err := decodeScalar(a)
	if err != nil {
		return nil, err
	}
	bs, err := decodeScalar(b)
	if err != nil {
		return nil, err
	}
	qq, err := decodeAffinePoint(q)
	if err != nil {
		return nil, err
	}

	r := SimulGen(as, bs, qq)

	var ra AffinePoint
	ra.Affine(r)
	dst := encodeAffinePoint(&ra)
	return &dst, nil
}
