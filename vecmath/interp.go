// SPDX-License-Identifier: MIT

package vecmath

import "gonum.org/v1/gonum/mat"

// Interpolator blends two attribute values: Interpolate(a, b, w) must return a
// at w = 0, b at w = 1, and be affine in w in between.
type Interpolator[V any] interface {
	Interpolate(a, b V, w float64) V
}

// InterpolatorFunc adapts an ordinary function to the Interpolator interface.
type InterpolatorFunc[V any] func(a, b V, w float64) V

// Interpolate calls f(a, b, w).
func (f InterpolatorFunc[V]) Interpolate(a, b V, w float64) V { return f(a, b, w) }

// Scalar interpolates float64 attributes.
type Scalar struct{}

// Interpolate returns (1-w)·a + w·b.
func (Scalar) Interpolate(a, b, w float64) float64 {
	return (1-w)*a + w*b
}

// Vector interpolates []float64 attributes of equal length.
// Every call allocates the result; the inputs are never modified.
type Vector struct{}

// Interpolate returns a new slice holding (1-w)·a + w·b.
func (Vector) Interpolate(a, b []float64, w float64) []float64 {
	return Lerp(make([]float64, len(a)), a, b, w)
}

// Tensor interpolates matrix-valued attributes (for example stress or
// metric tensors). Operands must share a shape; gonum panics otherwise.
type Tensor struct{}

// Interpolate returns a new *mat.Dense holding (1-w)·a + w·b.
func (Tensor) Interpolate(a, b *mat.Dense, w float64) *mat.Dense {
	var out, tmp mat.Dense
	out.Scale(1-w, a)
	tmp.Scale(w, b)
	out.Add(&out, &tmp)
	return &out
}

var (
	_ Interpolator[float64]    = Scalar{}
	_ Interpolator[[]float64]  = Vector{}
	_ Interpolator[*mat.Dense] = Tensor{}
)
