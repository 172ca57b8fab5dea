package curvilinear_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/curvgrid/curvilinear"
	"github.com/katalvlaran/curvgrid/vecmath"
	"github.com/stretchr/testify/require"
)

// warpedSize is the vertex count per axis of warpedGrid.
var warpedSize = []int{5, 4, 3}

// warpedPosition is a smooth, mildly non-affine map from vertex index to
// world space; every cell stays convex and well conditioned.
func warpedPosition(i, j, k int) (x, y, z float64) {
	fi, fj, fk := float64(i), float64(j), float64(k)
	x = fi + 0.15*math.Sin(fj+0.3*fk)
	y = fj + 0.1*math.Cos(fi) + 0.03*fi*fk
	z = fk + 0.1*math.Sin(fi+fj)
	return
}

// warpedGrid builds a 5×4×3 warped grid whose scalar value at a vertex is
// x + 2y − z of its position.
func warpedGrid(tb testing.TB, opts ...curvilinear.Option) *curvilinear.Grid[float64] {
	tb.Helper()
	var pos, vals []float64
	for i := 0; i < warpedSize[0]; i++ {
		for j := 0; j < warpedSize[1]; j++ {
			for k := 0; k < warpedSize[2]; k++ {
				x, y, z := warpedPosition(i, j, k)
				pos = append(pos, x, y, z)
				vals = append(vals, x+2*y-z)
			}
		}
	}
	g, err := curvilinear.New[float64](warpedSize, vecmath.Scalar{}, pos, vals, opts...)
	require.NoError(tb, err)
	return g
}

// affineGrid builds an n×n grid covering [0,1]² with spacing 1/(n-1).
// Axis 0 maps to world x, axis 1 to world y; value = x + 10y.
func affineGrid(tb testing.TB, n int, opts ...curvilinear.Option) *curvilinear.Grid[float64] {
	tb.Helper()
	h := 1 / float64(n-1)
	var pos, vals []float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, y := float64(i)*h, float64(j)*h
			pos = append(pos, x, y)
			vals = append(vals, x+10*y)
		}
	}
	g, err := curvilinear.New[float64]([]int{n, n}, vecmath.Scalar{}, pos, vals, opts...)
	require.NoError(tb, err)
	return g
}

// cornerLocal converts a corner bit-mask into its {0,1} local coordinate.
func cornerLocal(c, dims int) []float64 {
	local := make([]float64, dims)
	for d := 0; d < dims; d++ {
		if c&(1<<d) != 0 {
			local[d] = 1
		}
	}
	return local
}
