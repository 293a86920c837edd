package snowshoe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombTablesMatchDirectSums(t *testing.T) {
	// Rebuild a handful of comb-table entries by direct repeated
	// doubling/addition from the generator, and check they match what
	// tables.go's init() produced — a self-consistency check on the
	// comb-table construction formula (table_vp[idx] = 2^vpOffset * G +
	// sum over wp of bit_{wp-1}(idx) * 2^(combD*wp+vpOffset) * G) independent of the
	// scalar-multiply routines that consume the tables.
	twoPow := func(n int) *Point {
		p := NewPointFrom(generator)
		for i := 0; i < n; i++ {
			p.Double(p)
		}
		return p
	}

	for _, idx := range []int{0, 1, 2, 3, 33, 63} {
		var want Point
		want.Set(twoPow(0))
		for wp := 1; wp <= 6; wp++ {
			if (idx>>uint(wp-1))&1 == 0 {
				continue
			}
			want.Add(&want, twoPow(combD*wp))
		}

		var wantAffine, gotAffine AffinePoint
		wantAffine.Affine(&want)
		gotAffine.Set(&combTable0[idx])

		require.EqualValues(t, 1, wantAffine.X.EqualCT(&gotAffine.X), "combTable0[%d] x", idx)
		require.EqualValues(t, 1, wantAffine.Y.EqualCT(&gotAffine.Y), "combTable0[%d] y", idx)
	}
}

func TestCombFixMatchesDirectDoubling(t *testing.T) {
	want := NewPointFrom(generator)
	for i := 0; i < combD*combW; i++ {
		want.Double(want)
	}

	var wantAffine, gotAffine AffinePoint
	wantAffine.Affine(want)
	gotAffine.Affine(combFix)

	require.EqualValues(t, 1, wantAffine.X.EqualCT(&gotAffine.X))
	require.EqualValues(t, 1, wantAffine.Y.EqualCT(&gotAffine.Y))
}

func TestGenTable2Entries(t *testing.T) {
	g := Generator()
	var g2 Point
	g2.Double(g)

	table := genTable2(g, &g2)

	// table[4] = a = G
	var t4Affine, gAffine AffinePoint
	t4Affine.Affine(&table[4])
	gAffine.Affine(g)
	require.EqualValues(t, 1, t4Affine.X.EqualCT(&gAffine.X))

	// table[7] = a+b = G + 2G = 3G
	var threeG Point
	threeG.Add(g, &g2)
	var t7Affine, threeGAffine AffinePoint
	t7Affine.Affine(&table[7])
	threeGAffine.Affine(&threeG)
	require.EqualValues(t, 1, t7Affine.X.EqualCT(&threeGAffine.X))
	require.EqualValues(t, 1, t7Affine.Y.EqualCT(&threeGAffine.Y))
}

func TestGenTable4Entries(t *testing.T) {
	g := Generator()
	var g2, g3, g4 Point
	g2.Double(g)
	g3.Add(&g2, g)
	g4.Double(&g2)

	table := genTable4(g, &g2, &g3, &g4)

	// table[0] = a = G
	var t0Affine, gAffine AffinePoint
	t0Affine.Affine(&table[0])
	gAffine.Affine(g)
	require.EqualValues(t, 1, t0Affine.X.EqualCT(&gAffine.X))

	// table[7] = a+b+c+d
	var want Point
	want.Add(g, &g2)
	want.Add(&want, &g3)
	want.Add(&want, &g4)
	var t7Affine, wantAffine AffinePoint
	t7Affine.Affine(&table[7])
	wantAffine.Affine(&want)
	require.EqualValues(t, 1, t7Affine.X.EqualCT(&wantAffine.X))
	require.EqualValues(t, 1, t7Affine.Y.EqualCT(&wantAffine.Y))
}
