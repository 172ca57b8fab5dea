// SPDX-License-Identifier: MIT

package curvilinear

import "github.com/katalvlaran/curvgrid/vecmath"

// interpolatePoints runs the multilinear forward map over 2^N corner
// positions stored flat in work (dims coordinates per corner, corner c at
// work[c*dims:]). For axis N-1 down to 0 each pair (i, i+2^axis) is blended
// with weight local[axis], halving the active set until one point remains.
// work is overwritten; the result aliases work[:dims].
// Complexity: O(2^N·dims) time, no allocation.
func interpolatePoints(work []float64, dims int, local []float64) []float64 {
	for axis := len(local) - 1; axis >= 0; axis-- {
		half := 1 << axis
		w := local[axis]
		for i := 0; i < half; i++ {
			a := work[i*dims : i*dims+dims]
			b := work[(i+half)*dims : (i+half)*dims+dims]
			vecmath.Lerp(a, a, b, w)
		}
	}
	return work[:dims]
}

// interpolateValues is interpolatePoints for attribute values: the same
// halving reduction over 2^N corner values using the grid's interpolation
// rule. work is overwritten.
func interpolateValues[V any](work []V, interp vecmath.Interpolator[V], local []float64) V {
	for axis := len(local) - 1; axis >= 0; axis-- {
		half := 1 << axis
		w := local[axis]
		for i := 0; i < half; i++ {
			work[i] = interp.Interpolate(work[i], work[i+half], w)
		}
	}
	return work[0]
}

// jacobian writes the exact derivative of the multilinear map at local into
// dst (row-major dims×N, dst[row*N+col] = ∂X_row/∂local_col).
//
// Column i sums, over every corner pair differing only in bit i, the edge
// vector (far − near) weighted by Π_{j≠i} (local[j] if bit j of near is set,
// else 1 − local[j]).
// Complexity: O(N·2^(N-1)·(N + dims)).
func jacobian(corners []float64, dims int, local []float64, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	n := len(local)
	for col := 0; col < n; col++ {
		bit := 1 << col
		for c := 0; c < 1<<n; c++ {
			if c&bit != 0 {
				continue
			}
			w := 1.0
			for j := 0; j < n; j++ {
				switch {
				case j == col:
				case c&(1<<j) != 0:
					w *= local[j]
				default:
					w *= 1 - local[j]
				}
			}
			if w == 0 {
				continue
			}
			near := corners[c*dims : c*dims+dims]
			far := corners[(c|bit)*dims : (c|bit)*dims+dims]
			for row := 0; row < dims; row++ {
				dst[row*n+col] += w * (far[row] - near[row])
			}
		}
	}
}

// centroid writes the unweighted mean of the 2^N corner positions into dst.
func centroid(corners []float64, dims int, dst []float64) []float64 {
	for d := range dst {
		dst[d] = 0
	}
	count := len(corners) / dims
	for c := 0; c < count; c++ {
		for d := 0; d < dims; d++ {
			dst[d] += corners[c*dims+d]
		}
	}
	inv := 1 / float64(count)
	for d := range dst {
		dst[d] *= inv
	}
	return dst
}
