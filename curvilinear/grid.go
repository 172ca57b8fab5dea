// SPDX-License-Identifier: MIT

package curvilinear

import (
	"fmt"
	"time"

	"github.com/katalvlaran/curvgrid/lattice"
	"github.com/katalvlaran/curvgrid/vecmath"
	"github.com/sirupsen/logrus"
)

// Grid is a vertex-centered curvilinear grid: a logically rectangular lattice
// of vertices, each carrying a world position and a value of type V.
//
// A Grid is built once and then treated as read-mostly; see the package
// documentation for the writer discipline.
type Grid[V any] struct {
	lat     *lattice.Lattice[V]
	interp  vecmath.Interpolator[V]
	dims    int
	corners []int // corner-offset table, 2^N entries
	cellMax []int // largest valid cell index per axis (size-2)
	index   *centerIndex
	stale   bool // positions changed since the index was built
	opts    Options
}

// New builds a grid with size[d] vertices along axis d (every size[d] >= 2).
//
// positions, when non-nil, holds len(size) coordinates per vertex in
// row-major vertex order (last axis fastest); it is copied and the grid is
// finalized. values, when non-nil, holds one value per vertex in the same
// order and is copied independently; it never requires finalization.
// Either buffer may be supplied later via SetPositions / SetValues.
//
// opts become the defaults of every Locator created by NewLocator.
//
// Errors: ErrBadShape, ErrNoInterpolator, ErrDimensionMismatch.
// Complexity: O(V·N) plus FinalizeGrid when positions are given.
func New[V any](size []int, interp vecmath.Interpolator[V], positions []float64, values []V, opts ...Option) (*Grid[V], error) {
	if len(size) == 0 {
		return nil, fmt.Errorf("%s: %w", opNew, ErrBadShape)
	}
	for d, n := range size {
		if n < 2 {
			return nil, fmt.Errorf("%s: axis %d has %d vertices: %w", opNew, d, n, ErrBadShape)
		}
	}
	if interp == nil {
		return nil, fmt.Errorf("%s: %w", opNew, ErrNoInterpolator)
	}

	lat, err := lattice.New[V](size...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}

	dims := len(size)
	strides := make([]int, dims)
	cellMax := make([]int, dims)
	for d := 0; d < dims; d++ {
		strides[d] = lat.Stride(d)
		cellMax[d] = size[d] - 2
	}

	g := &Grid[V]{
		lat:     lat,
		interp:  interp,
		dims:    dims,
		corners: cornerOffsets(strides),
		cellMax: cellMax,
		index:   newCenterIndex(dims),
		stale:   true,
		opts:    gatherOptions(defaultOptions(), opts...),
	}

	if values != nil {
		if err = g.SetValues(values); err != nil {
			return nil, fmt.Errorf("%s: %w", opNew, err)
		}
	}
	if positions != nil {
		if err = g.SetPositions(positions); err != nil {
			return nil, fmt.Errorf("%s: %w", opNew, err)
		}
		g.FinalizeGrid()
	}

	return g, nil
}

// Dims returns the grid dimension N.
func (g *Grid[V]) Dims() int { return g.dims }

// Size returns a copy of the vertex counts per axis.
func (g *Grid[V]) Size() []int { return g.lat.Shape() }

// Vertices returns the total number of vertices.
func (g *Grid[V]) Vertices() int { return g.lat.Len() }

// Cells returns the total number of cells, Π (size[d]-1).
func (g *Grid[V]) Cells() int {
	n := 1
	for _, m := range g.cellMax {
		n *= m + 1
	}
	return n
}

// Finalized reports whether the cell-center index reflects the current
// positions.
func (g *Grid[V]) Finalized() bool { return !g.stale && g.index.ready() }

// SetPositions replaces every vertex position from a flat row-major buffer
// (Dims() coordinates per vertex). The grid must be re-finalized afterwards.
func (g *Grid[V]) SetPositions(flat []float64) error {
	if err := g.lat.SetPositions(flat); err != nil {
		return fmt.Errorf("%s: %w", opSet, ErrDimensionMismatch)
	}
	g.stale = true
	return nil
}

// SetPosition moves the vertex at multi-index index to p. The grid must be
// re-finalized afterwards.
func (g *Grid[V]) SetPosition(index []int, p []float64) error {
	if !g.lat.Contains(index) {
		return fmt.Errorf("%s: vertex %v: %w", opSet, index, ErrDimensionMismatch)
	}
	if err := g.lat.SetPosition(g.lat.Offset(index), p); err != nil {
		return fmt.Errorf("%s: %w", opSet, ErrDimensionMismatch)
	}
	g.stale = true
	return nil
}

// SetValues replaces every vertex value. The cell-center index stays valid.
func (g *Grid[V]) SetValues(values []V) error {
	if err := g.lat.SetValues(values); err != nil {
		return fmt.Errorf("%s: %w", opSet, ErrDimensionMismatch)
	}
	return nil
}

// SetValue stores v at the vertex with multi-index index.
func (g *Grid[V]) SetValue(index []int, v V) error {
	if !g.lat.Contains(index) {
		return fmt.Errorf("%s: vertex %v: %w", opSet, index, ErrDimensionMismatch)
	}
	return g.lat.SetValue(g.lat.Offset(index), v)
}

// Position returns a copy of the position of the vertex at index.
func (g *Grid[V]) Position(index []int) ([]float64, error) {
	if !g.lat.Contains(index) {
		return nil, fmt.Errorf("vertex %v: %w", index, ErrDimensionMismatch)
	}
	return append([]float64(nil), g.lat.Position(g.lat.Offset(index))...), nil
}

// Value returns the value of the vertex at index.
func (g *Grid[V]) Value(index []int) (V, error) {
	if !g.lat.Contains(index) {
		var zero V
		return zero, fmt.Errorf("vertex %v: %w", index, ErrDimensionMismatch)
	}
	return g.lat.Value(g.lat.Offset(index)), nil
}

// Positions returns the flat position buffer. It aliases grid storage and
// must be treated as read-only.
func (g *Grid[V]) Positions() []float64 { return g.lat.Positions() }

// Values returns the value buffer. It aliases grid storage and must be
// treated as read-only.
func (g *Grid[V]) Values() []V { return g.lat.Values() }

// FinalizeGrid (re)builds the cell-center index from the current positions.
// Cells are visited in lexicographic order; each centroid is the mean of the
// cell's 2^N corners. Must be called after any position change.
// Complexity: O(C·2^N·N + C·log C) time, O(C·N) memory.
func (g *Grid[V]) FinalizeGrid() {
	start := time.Now()
	count := g.Cells()
	buf := g.index.build(count)

	cell := make([]int, g.dims)
	upper := make([]int, g.dims)
	for d, m := range g.cellMax {
		upper[d] = m + 1
	}
	scratch := make([]float64, len(g.corners)*g.dims)
	for i := 0; i < count; i++ {
		base := g.lat.Offset(cell)
		g.gatherCorners(base, scratch)
		centroid(scratch, g.dims, buf[i].coord)
		buf[i].base = base
		lattice.Next(cell, upper)
	}
	g.index.finalize()
	g.stale = false

	g.opts.logger.WithFields(logrus.Fields{
		"op":      opFinalize,
		"cells":   count,
		"elapsed": time.Since(start),
	}).Debug("curvilinear: cell-center index built")
}

// DomainBoundingBox returns the axis-aligned box over every vertex position.
// Complexity: O(V·N).
func (g *Grid[V]) DomainBoundingBox() vecmath.Bounds {
	b := vecmath.NewBounds(g.dims)
	for v := 0; v < g.lat.Len(); v++ {
		b.Extend(g.lat.Position(v))
	}
	return b
}

// CellCenter returns the centroid of the cell with minimum-corner index cell.
func (g *Grid[V]) CellCenter(cell []int) ([]float64, error) {
	if !g.validCell(cell) {
		return nil, fmt.Errorf("cell %v: %w", cell, ErrDimensionMismatch)
	}
	scratch := make([]float64, len(g.corners)*g.dims)
	g.gatherCorners(g.lat.Offset(cell), scratch)
	return centroid(scratch, g.dims, make([]float64, g.dims)), nil
}

// PointAt evaluates the geometric forward map of cell at local.
func (g *Grid[V]) PointAt(cell []int, local []float64) ([]float64, error) {
	if !g.validCell(cell) || len(local) != g.dims {
		return nil, fmt.Errorf("cell %v local %v: %w", cell, local, ErrDimensionMismatch)
	}
	scratch := make([]float64, len(g.corners)*g.dims)
	g.gatherCorners(g.lat.Offset(cell), scratch)
	return append([]float64(nil), interpolatePoints(scratch, g.dims, local)...), nil
}

// ValueAt evaluates the value forward map of cell at local.
func (g *Grid[V]) ValueAt(cell []int, local []float64) (V, error) {
	if !g.validCell(cell) || len(local) != g.dims {
		var zero V
		return zero, fmt.Errorf("cell %v local %v: %w", cell, local, ErrDimensionMismatch)
	}
	work := make([]V, len(g.corners))
	g.gatherValues(g.lat.Offset(cell), work)
	return interpolateValues(work, g.interp, local), nil
}

// JacobianAt returns the N×N Jacobian of the geometric forward map of cell
// at local, row-major (entry [row*N+col] = ∂X_row/∂local_col).
func (g *Grid[V]) JacobianAt(cell []int, local []float64) ([]float64, error) {
	if !g.validCell(cell) || len(local) != g.dims {
		return nil, fmt.Errorf("cell %v local %v: %w", cell, local, ErrDimensionMismatch)
	}
	scratch := make([]float64, len(g.corners)*g.dims)
	g.gatherCorners(g.lat.Offset(cell), scratch)
	out := make([]float64, g.dims*g.dims)
	jacobian(scratch, g.dims, local, out)
	return out, nil
}

// Contains reports whether p lies inside the grid domain, using a throwaway
// cold-start locator.
func (g *Grid[V]) Contains(p []float64) (bool, error) {
	return g.NewLocator().Locate(p, false)
}

// NewLocator returns a Locator bound to g in the Invalid state. opts
// override the grid's defaults for this locator only.
func (g *Grid[V]) NewLocator(opts ...Option) *Locator[V] {
	l := new(Locator[V])
	l.Bind(g, opts...)
	return l
}

// validCell reports whether cell is a valid minimum-corner index.
func (g *Grid[V]) validCell(cell []int) bool {
	if len(cell) != g.dims {
		return false
	}
	for d, c := range cell {
		if c < 0 || c > g.cellMax[d] {
			return false
		}
	}
	return true
}

// gatherCorners copies the 2^N corner positions of the cell based at base
// into dst (flat, dims per corner).
func (g *Grid[V]) gatherCorners(base int, dst []float64) {
	for c, off := range g.corners {
		copy(dst[c*g.dims:(c+1)*g.dims], g.lat.Position(base+off))
	}
}

// gatherValues copies the 2^N corner values of the cell based at base.
func (g *Grid[V]) gatherValues(base int, dst []V) {
	for c, off := range g.corners {
		dst[c] = g.lat.Value(base + off)
	}
}
