// SPDX-License-Identifier: MIT

package vecmath

import "gonum.org/v1/gonum/floats"

// Lerp writes the affine combination (1-w)·a + w·b into dst and returns it.
// The (1-w, w) weighting reproduces a and b exactly at w = 0 and w = 1.
// a, b and dst must have equal length; dst may alias a.
func Lerp(dst, a, b []float64, w float64) []float64 {
	floats.ScaleTo(dst, 1-w, a)
	floats.AddScaled(dst, w, b)
	return dst
}

// Sub writes a - b into dst and returns it.
func Sub(dst, a, b []float64) []float64 {
	return floats.SubTo(dst, a, b)
}

// SquaredNorm returns the squared Euclidean norm of v.
func SquaredNorm(v []float64) float64 {
	return floats.Dot(v, v)
}

// SquaredDistance returns |a - b|² without allocating.
func SquaredDistance(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
