// SPDX-License-Identifier: MIT

// Package vecmath provides the small-vector arithmetic used by curvilinear
// grids: affine combination of points, differences, squared norms, an
// axis-aligned N-dimensional bounding box, and pluggable interpolation rules
// for the attribute attached to each vertex.
//
// Points are plain []float64. Hot-path helpers write into a caller-supplied
// destination so that repeated calls do not allocate.
//
// Interpolator[V] is the strategy the value forward map uses to blend two
// attributes. Scalar, Vector and Tensor cover float64, []float64 and
// *mat.Dense (gonum) attributes; InterpolatorFunc adapts any function.
package vecmath
