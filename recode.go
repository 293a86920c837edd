package snowshoe

import (
	"math/bits"

	"github.com/catid/snowshoe/internal/scalarfield"
)

// recodeGLVSAC2 implements the GLV-SAC scalar recoding algorithm for
// m=2 half-scalars a, b (each treated as a 128-bit magnitude, held as
// two little-endian 64-bit limbs), in place, for a fixed bit length
// `length`. Ported from ec_recode_scalars_2 in
// _examples/original_source/snowshoe/ecmul.cpp. Returns the saved low
// bit of the original `a`.
func recodeGLVSAC2(a, b *[2]uint64, length int) uint64 {
	lsb := (a[0] & 1) ^ 1

	sub128(a, lsb)
	shiftRight128By1(a)
	setBit128(a, length-1)

	an0 := ^a[0]
	an1 := ^a[1]

	for i := 1; i < length; i++ {
		bitVal := bitAt128(an0, an1, i-1)
		if bitVal == 0 {
			continue
		}
		bBit := bitAt128(b[0], b[1], i-1)
		shiftLeftAddBit128(b, i, bBit)
	}

	return lsb
}

// recodeGLVSAC4 is the m=4 extension of recodeGLVSAC2, injecting the
// same carry into b, c, and d simultaneously. Ported from
// ec_recode_scalars_4.
func recodeGLVSAC4(a, b, c, d *[2]uint64, length int) uint64 {
	lsb := (a[0] & 1) ^ 1

	sub128(a, lsb)
	shiftRight128By1(a)
	setBit128(a, length-1)

	an0 := ^a[0]
	an1 := ^a[1]

	for i := 1; i < length; i++ {
		if bitAt128(an0, an1, i-1) == 0 {
			continue
		}
		shiftLeftAddBit128(b, i, bitAt128(b[0], b[1], i-1))
		shiftLeftAddBit128(c, i, bitAt128(c[0], c[1], i-1))
		shiftLeftAddBit128(d, i, bitAt128(d[0], d[1], i-1))
	}

	return lsb
}

func sub128(a *[2]uint64, v uint64) {
	lo, borrow := bits.Sub64(a[0], v, 0)
	hi, _ := bits.Sub64(a[1], 0, borrow)
	a[0], a[1] = lo, hi
}

func shiftRight128By1(a *[2]uint64) {
	a[0] = (a[0] >> 1) | (a[1] << 63)
	a[1] = a[1] >> 1
}

func setBit128(a *[2]uint64, bit int) {
	if bit < 64 {
		a[0] |= uint64(1) << uint(bit)
	} else {
		a[1] |= uint64(1) << uint(bit-64)
	}
}

func bitAt128(lo, hi uint64, bit int) uint64 {
	if bit < 64 {
		return (lo >> uint(bit)) & 1
	}
	return (hi >> uint(bit-64)) & 1
}

// shiftLeftAddBit128 computes b += (bitVal << 1) at bit position `at`
// (i.e. injects `bitVal` shifted left by one bit starting at position
// `at`, the "b.w += (b.w & anmask) << 1" step of ec_recode_scalars_2,
// specialized since `anmask` has already been reduced to a single
// known bit by the caller).
func shiftLeftAddBit128(b *[2]uint64, at int, bitVal uint64) {
	if bitVal == 0 {
		return
	}
	pos := at // bit position of the injected value (already "<<1" relative to the read position)
	var t [2]uint64
	if pos < 64 {
		t[0] = uint64(1) << uint(pos)
	} else if pos < 128 {
		t[1] = uint64(1) << uint(pos-64)
	}
	sum0, carry := bits.Add64(b[0], t[0], 0)
	sum1, _ := bits.Add64(b[1], t[1], carry)
	b[0], b[1] = sum0, sum1
}

// recodeComb implements the modified LSB-set comb recoding of a
// 252-bit scalar k (w=7, v=2, e=d... per spec.md §4.F / ecmul.cpp's
// ec_recode_scalar_comb): if k is even, replace it with q-k and
// remember to negate the final result; set the low d-1 bits to a
// signed-digit form with a fixed top bit, then inject carries for
// i in [d, l).
func recodeComb(k *scalarfield.Element) (b [4]uint64, lsb uint64) {
	const d = 36
	const l = 252

	kl := k.Bits()
	lsbBit := (kl[0] & 1) ^ 1

	var neg scalarfield.Element
	neg.NegModQ(k)
	negLimbs := neg.Bits()

	mask := uint64(0) - lsbBit
	for i := 0; i < 4; i++ {
		b[i] = (kl[i] &^ mask) ^ (negLimbs[i] & mask)
	}

	const dBit = uint64(1) << (d - 1)
	const lowMask = dBit - 1
	b[0] = (b[0] &^ lowMask) | dBit | ((b[0] >> 1) & lowMask)

	for i := d; i < l; i++ {
		bImd := (b[0] >> uint(i%d)) & 1
		bI := (b[i>>6] >> uint(i&63)) & 1
		bit := (bImd ^ 1) & bI & 1

		j := i + 1
		var t [4]uint64
		t[j>>6] |= bit << uint(j&63)

		var carry uint64
		for w := 0; w < 4; w++ {
			b[w], carry = bits.Add64(b[w], t[w], carry)
		}
	}

	return b, lsbBit
}

// combBit reads bit K(wp, vp, ep) = b[d*wp + e*vp + ep] of the
// recoded comb representation, per ecmul.cpp's comb_bit.
func combBit(b *[4]uint64, wp, vp, ep int) uint64 {
	const d = 36
	const e = 18
	jj := wp*d + vp*e + ep
	return (b[jj>>6] >> uint(jj&63)) & 1
}
