// Package curvgrid is point location and interpolation on curvilinear grids:
// logically rectangular N-dimensional lattices whose vertices sit at
// arbitrary world positions.
//
// 🚀 What is in the box?
//
//	• Multilinear forward maps: local cell coordinate → world point / value
//	• Newton–Raphson point location with warm starts and cell stepping
//	• Cold-start seeding from a k-d tree of cell centroids
//	• Pluggable value interpolation: scalars, vectors, tensors, your own type
//	• netCDF grid I/O and a small command-line probe
//
// Under the hood, everything is organized under a few subpackages:
//
//	curvilinear/   — Grid, Locator, forward maps, centroid index, options
//	lattice/       — N-D vertex storage: shape, strides, positions, values
//	vecmath/       — affine combinations, bounding boxes, Interpolator rules
//	ncgrid/        — load/write grids from netCDF classic files
//	cmd/gridprobe/ — locate points from the command line
//
// Quick example, a warped 2×2 cell:
//
//	(0,1)───(1.2,1.1)
//	  │         │
//	(0,0)───(1,0)
//
//	g, _ := curvilinear.New[float64]([]int{2, 2}, vecmath.Scalar{},
//		[]float64{0, 0, 0, 1, 1, 0, 1.2, 1.1}, []float64{0, 1, 2, 3})
//	loc := g.NewLocator()
//	v, err := loc.EvaluateAt([]float64{0.5, 0.5}, false)
//
// A Locator remembers the cell of its last answer, so a stream of nearby
// queries (particle tracing, resampling along a line) pass warm=true and
// usually converge in one or two iterations.
//
//	go get github.com/katalvlaran/curvgrid
package curvgrid
