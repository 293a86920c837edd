// Package helpers provides branch-free primitives shared by the field,
// scalar-field, and point packages.
package helpers

import "encoding/binary"

// Uint64IsZero returns 1 iff `v == 0`, 0 otherwise, in constant time.
func Uint64IsZero(v uint64) uint64 {
	v |= v >> 32
	v |= v >> 16
	v |= v >> 8
	v |= v >> 4
	v |= v >> 2
	v |= v >> 1
	return (v & 1) ^ 1
}

// Uint64IsNonzero returns 1 iff `v != 0`, 0 otherwise, in constant time.
func Uint64IsNonzero(v uint64) uint64 {
	return Uint64IsZero(v) ^ 1
}

// Uint64IsNegative returns 1 iff the sign bit of `v` is set, 0 otherwise.
func Uint64IsNegative(v uint64) uint64 {
	return v >> 63
}

// Select64 returns `a` iff `ctrl == 0`, `b` otherwise, in constant time.
// `ctrl` MUST be 0 or 1.
func Select64(ctrl uint64, a, b uint64) uint64 {
	mask := -ctrl
	return a ^ (mask & (a ^ b))
}

// LimbsAreEqualCT returns 1 iff the two limb arrays are equal, 0 otherwise.
func LimbsAreEqualCT(a, b *[4]uint64) uint64 {
	diff := (a[0] ^ b[0]) | (a[1] ^ b[1]) | (a[2] ^ b[2]) | (a[3] ^ b[3])
	return Uint64IsZero(diff)
}

// LimbsAreEqualCT6 is the 6-limb variant of LimbsAreEqualCT, used by the
// scalar-field Barrett reduction's wide intermediates.
func LimbsAreEqualCT6(a, b *[6]uint64) uint64 {
	var diff uint64
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return Uint64IsZero(diff)
}

// BytesToSaturated4 decodes a 32-byte little-endian buffer into four
// 64-bit saturated limbs, least-significant limb first.
func BytesToSaturated4(src *[32]byte) [4]uint64 {
	var l [4]uint64
	l[0] = binary.LittleEndian.Uint64(src[0:8])
	l[1] = binary.LittleEndian.Uint64(src[8:16])
	l[2] = binary.LittleEndian.Uint64(src[16:24])
	l[3] = binary.LittleEndian.Uint64(src[24:32])
	return l
}

// SaturatedToBytes4 encodes four 64-bit saturated limbs into a 32-byte
// little-endian buffer, least-significant limb first.
func SaturatedToBytes4(dst *[32]byte, l *[4]uint64) {
	binary.LittleEndian.PutUint64(dst[0:8], l[0])
	binary.LittleEndian.PutUint64(dst[8:16], l[1])
	binary.LittleEndian.PutUint64(dst[16:24], l[2])
	binary.LittleEndian.PutUint64(dst[24:32], l[3])
}

// BytesToSaturated2 is the 16-byte counterpart of BytesToSaturated4, used
// for the Fp limb width (127-bit elements fit in two 64-bit limbs plus a
// partial top limb, see internal/fp).
func BytesToSaturated2(src *[16]byte) [2]uint64 {
	var l [2]uint64
	l[0] = binary.LittleEndian.Uint64(src[0:8])
	l[1] = binary.LittleEndian.Uint64(src[8:16])
	return l
}

// SaturatedToBytes2 is the inverse of BytesToSaturated2.
func SaturatedToBytes2(dst *[16]byte, l *[2]uint64) {
	binary.LittleEndian.PutUint64(dst[0:8], l[0])
	binary.LittleEndian.PutUint64(dst[8:16], l[1])
}
