// SPDX-License-Identifier: MIT

// Package ncgrid moves curvilinear grids in and out of netCDF classic files.
//
// A grid of N axes is stored as N position variables (one per world
// coordinate) and an optional value variable, all float32 and all sharing
// the same N dimensions in row-major vertex order. Write also records the
// axis variable names in the global "axes" attribute so Load can find them
// without an explicit Layout.
//
//	f, _ := os.Open("mesh.nc")
//	g, err := ncgrid.Load(f, ncgrid.Layout{Axes: []string{"X", "Y"}, Value: "T"})
//
// The file is read once; the returned grid owns its data and is finalized.
package ncgrid
