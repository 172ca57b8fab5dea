package curvilinear

import "github.com/katalvlaran/curvgrid/vecmath"

// Internal kernels exposed to the black-box tests.
var (
	CornerOffsets     = cornerOffsets
	InterpolatePoints = interpolatePoints
	Jacobian          = jacobian
	Centroid          = centroid
)

func InterpolateValues[V any](work []V, interp vecmath.Interpolator[V], local []float64) V {
	return interpolateValues(work, interp, local)
}
