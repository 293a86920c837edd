package snowshoe

// Fixed-base comb parameters, per spec.md §4.F and
// _examples/original_source/snowshoe/ecmul.cpp's ec_mul_gen /
// ec_recode_scalar_comb / comb_bit:
//
//	t = 252 (scalar bit length)
//	w = 7   (comb window count)
//	v = 2   (sub-tables per window)
//	e = t / (w*v) = 18
//	d = e*v = 36
//	l = d*w = 252
const (
	combW = 7
	combV = 2
	combE = 18
	combD = 36
)

// combTable0 and combTable1 hold, for the v'=0 and v'=1 comb sub-tables,
// 2^off*G plus the sum of 2^(combD*wp+off)*G over the wp in {1,..,6}
// whose bit is "on" in the 6-bit index (off = 0 and off = combE
// respectively; 64 entries each). The 2^off*G term is the wp=0 digit,
// whose sign tableSelectComb applies to the whole entry.
// combFix = 2^(combD*combW)*G = 2^252*G is the carry fixup added when
// the recoded scalar's top bit is set. All three are derived from the
// generator (gen.go) at init time, mirroring ecmul.cpp's baked
// GEN_TABLE_0/GEN_TABLE_1/GEN_FIX constants — which cannot be reused
// here since they are precomputed multiples of an unrecoverable
// specific generator (see DESIGN.md).
var (
	combTable0 [64]AffinePoint
	combTable1 [64]AffinePoint
	combFix    *Point
)

func init() {
	// twoPowG[i] = 2^i * G, for i in [0, combD*combW].
	var twoPowG [combD*combW + 1]Point
	twoPowG[0].Set(generator)
	for i := 1; i < len(twoPowG); i++ {
		twoPowG[i].Double(&twoPowG[i-1])
	}

	buildSubTable := func(vpOffset int, dst *[64]AffinePoint) {
		for idx := 0; idx < 64; idx++ {
			var acc Point
			acc.Set(&twoPowG[vpOffset])
			for wp := 1; wp <= 6; wp++ {
				if (idx>>uint(wp-1))&1 == 0 {
					continue
				}
				acc.Add(&acc, &twoPowG[combD*wp+vpOffset])
			}
			dst[idx].Affine(&acc)
		}
	}

	buildSubTable(0, &combTable0)
	buildSubTable(combE, &combTable1)

	combFix = NewPointFrom(&twoPowG[combD*combW])
}

// tableSelectComb reads the recoded comb digit at position `ep` (the
// `ii` argument of ecmul.cpp's ec_table_select_comb) out of the two
// masked lookup tables, returning the two signed contributions s, t
// that the scalar-multiply main loop adds in.
func tableSelectComb(b *[4]uint64, ep int) (s, t Point) {
	var d0 uint64
	d0 = combBit(b, 6, 0, ep) << 5
	d0 |= combBit(b, 5, 0, ep) << 4
	d0 |= combBit(b, 4, 0, ep) << 3
	d0 |= combBit(b, 3, 0, ep) << 2
	d0 |= combBit(b, 2, 0, ep) << 1
	d0 |= combBit(b, 1, 0, ep)
	s0 := combBit(b, 0, 0, ep)

	var p1 AffinePoint
	p1.Zero()
	for idx := uint64(0); idx < 64; idx++ {
		p1.XorMask(&combTable0[idx], GenMask(idx, d0))
	}
	s.Expand(&p1)
	s.ConditionalNegate(&s, s0^1)

	var d1 uint64
	d1 = combBit(b, 6, 1, ep) << 5
	d1 |= combBit(b, 5, 1, ep) << 4
	d1 |= combBit(b, 4, 1, ep) << 3
	d1 |= combBit(b, 3, 1, ep) << 2
	d1 |= combBit(b, 2, 1, ep) << 1
	d1 |= combBit(b, 1, 1, ep)
	s1 := combBit(b, 0, 1, ep)

	var p2 AffinePoint
	p2.Zero()
	for idx := uint64(0); idx < 64; idx++ {
		p2.XorMask(&combTable1[idx], GenMask(idx, d1))
	}
	t.Expand(&p2)
	t.ConditionalNegate(&t, s1^1)

	return s, t
}

// window128 returns the `width`-bit window of the 128-bit little-endian
// value (lo, hi) starting at bit `index`.
func window128(lo, hi uint64, index, width int) uint64 {
	var combined uint64
	switch {
	case index >= 64:
		combined = hi >> uint(index-64)
	case index+width <= 64:
		combined = lo >> uint(index)
	default:
		combined = (lo >> uint(index)) | (hi << uint(64-index))
	}
	return combined & ((uint64(1) << uint(width)) - 1)
}

// genTable2 builds the 8-entry GLV-SAC (m=2) table
// {3a, 3a+b, 3a+2b, 3a+3b, a, a-b, a+2b, a+b}, ported from
// ecmul.cpp's ec_gen_table_2.
func genTable2(a, b *Point) [8]Point {
	var table [8]Point
	var bn Point
	bn.Negate(b)

	table[4].Set(a)
	table[5].Add(a, &bn)
	table[7].Add(a, b)
	table[6].Add(&table[7], b)

	var a2 Point
	a2.Double(a)
	table[0].Add(&a2, a)
	table[1].Add(&table[0], b)
	table[2].Add(&table[1], b)
	table[3].Add(&table[2], b)
	return table
}

// tableSelect2 performs the constant-time, input-oblivious lookup into
// a genTable2 table for the 2-bit window of (a, b) at `index`, ported
// from ec_table_select_2. Table index is (a0^a1)<<2 | b1<<1 | b0 where
// a0, b0 are the bits at `index` and a1, b1 are the bits at
// `index + 1`; the result is negated iff a1 == 0.
func tableSelect2(table *[8]Point, a, b *[2]uint64, index int) Point {
	bits := window128(a[0], a[1], index, 2)
	k := ((bits ^ (bits >> 1)) & 1) << 2
	k |= window128(b[0], b[1], index, 2) & 3

	var r Point
	r.Zero()
	for ii := uint64(0); ii < 8; ii++ {
		r.XorMask(&table[ii], GenMask(ii, k))
	}

	signBit := ((bits >> 1) & 1) ^ 1
	r.ConditionalNegate(&r, signBit)
	return r
}

// genTable4 builds the 8-entry GLV-SAC (m=4) table
// {a, a+b, a+c, a+b+c, a+d, a+b+d, a+c+d, a+b+c+d}, ported from
// ecmul.cpp's ec_gen_table_4.
func genTable4(a, b, c, d *Point) [8]Point {
	var table [8]Point
	table[0].Set(a)
	table[1].Add(a, b)
	table[2].Add(a, c)
	table[3].Add(&table[1], c)
	table[4].Add(a, d)
	table[5].Add(&table[1], d)
	table[6].Add(&table[2], d)
	table[7].Add(&table[3], d)
	return table
}

// tableSelect4 performs the constant-time, input-oblivious lookup into
// a genTable4 table for the single-bit window of (a, b, c, d) at
// `index`, ported from ec_table_select_4. Table index is
// d1<<2 | c1<<1 | b1, negated iff a1 == 0, where x1 is the bit of x at
// `index`.
func tableSelect4(table *[8]Point, a, b, c, d *[2]uint64, index int) Point {
	k := window128(b[0], b[1], index, 1)
	k |= window128(c[0], c[1], index, 1) << 1
	k |= window128(d[0], d[1], index, 1) << 2

	var r Point
	r.Zero()
	for ii := uint64(0); ii < 8; ii++ {
		r.XorMask(&table[ii], GenMask(ii, k))
	}

	signBit := window128(a[0], a[1], index, 1) ^ 1
	r.ConditionalNegate(&r, signBit)
	return r
}
