// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Lattice is an N-dimensional array of vertex records (position + value).
// Shape and strides are fixed at construction.
type Lattice[V any] struct {
	shape   []int              // vertex count per axis
	strides []int              // row-major strides, strides[dims-1] == 1
	count   int                // total vertex count
	pos     *sparse.DenseArray // shape (shape..., dims)
	values  []V                // one value per vertex
}

// New allocates a zeroed lattice with the given vertex counts per axis.
// Returns ErrBadShape if shape is empty or any component is < 1.
// Complexity: O(V·N) time and memory.
func New[V any](shape ...int) (*Lattice[V], error) {
	if len(shape) == 0 {
		return nil, ErrBadShape
	}
	dims := len(shape)
	count := 1
	for d, n := range shape {
		if n < 1 {
			return nil, fmt.Errorf("axis %d has %d vertices: %w", d, n, ErrBadShape)
		}
		count *= n
	}

	l := &Lattice[V]{
		shape:   append([]int(nil), shape...),
		strides: make([]int, dims),
		count:   count,
		values:  make([]V, count),
	}
	stride := 1
	for d := dims - 1; d >= 0; d-- {
		l.strides[d] = stride
		stride *= shape[d]
	}

	// Positions carry one extra trailing axis holding the world coordinates.
	posShape := make([]int, dims+1)
	copy(posShape, shape)
	posShape[dims] = dims
	l.pos = sparse.ZerosDense(posShape...)

	return l, nil
}

// Dims returns the number of axes N.
func (l *Lattice[V]) Dims() int { return len(l.shape) }

// Shape returns a copy of the vertex counts per axis.
func (l *Lattice[V]) Shape() []int { return append([]int(nil), l.shape...) }

// Stride returns the flat-offset distance between neighbors along axis.
func (l *Lattice[V]) Stride(axis int) int { return l.strides[axis] }

// Len returns the total number of vertices.
func (l *Lattice[V]) Len() int { return l.count }

// Contains reports whether index is a valid multi-index for this lattice.
func (l *Lattice[V]) Contains(index []int) bool {
	if len(index) != len(l.shape) {
		return false
	}
	for d, i := range index {
		if i < 0 || i >= l.shape[d] {
			return false
		}
	}
	return true
}

// Offset maps a multi-index to its flat vertex offset.
// The caller guarantees index is valid (see Contains); no bounds are checked
// so the call stays cheap inside the locator loop.
// Complexity: O(N).
func (l *Lattice[V]) Offset(index []int) int {
	off := 0
	for d, i := range index {
		off += i * l.strides[d]
	}
	return off
}

// Index converts a flat offset back to a multi-index, writing into dst when it
// has room. Returns ErrOutOfRange for offsets outside [0, Len()).
// Complexity: O(N).
func (l *Lattice[V]) Index(offset int, dst []int) ([]int, error) {
	if offset < 0 || offset >= l.count {
		return nil, fmt.Errorf("offset %d: %w", offset, ErrOutOfRange)
	}
	if cap(dst) < len(l.shape) {
		dst = make([]int, len(l.shape))
	}
	dst = dst[:len(l.shape)]
	for d, s := range l.strides {
		dst[d] = offset / s
		offset %= s
	}
	return dst, nil
}

// Position returns the position of the vertex at offset as a view into the
// backing array. Callers must not retain or modify it.
func (l *Lattice[V]) Position(offset int) []float64 {
	n := len(l.shape)
	return l.pos.Elements[offset*n : offset*n+n]
}

// SetPosition copies p into the position of the vertex at offset.
func (l *Lattice[V]) SetPosition(offset int, p []float64) error {
	if offset < 0 || offset >= l.count {
		return fmt.Errorf("offset %d: %w", offset, ErrOutOfRange)
	}
	if len(p) != len(l.shape) {
		return fmt.Errorf("point has %d components, want %d: %w", len(p), len(l.shape), ErrDimensionMismatch)
	}
	copy(l.Position(offset), p)
	return nil
}

// Positions returns the raw position buffer (vertex-major, N components per
// vertex). It aliases the lattice storage.
func (l *Lattice[V]) Positions() []float64 { return l.pos.Elements }

// SetPositions copies a flat vertex-major buffer of Len()*Dims() coordinates.
func (l *Lattice[V]) SetPositions(flat []float64) error {
	if len(flat) != len(l.pos.Elements) {
		return fmt.Errorf("got %d coordinates, want %d: %w", len(flat), len(l.pos.Elements), ErrDimensionMismatch)
	}
	copy(l.pos.Elements, flat)
	return nil
}

// Value returns the value stored at offset.
func (l *Lattice[V]) Value(offset int) V { return l.values[offset] }

// SetValue stores v at offset.
func (l *Lattice[V]) SetValue(offset int, v V) error {
	if offset < 0 || offset >= l.count {
		return fmt.Errorf("offset %d: %w", offset, ErrOutOfRange)
	}
	l.values[offset] = v
	return nil
}

// Values returns the raw value buffer. It aliases the lattice storage.
func (l *Lattice[V]) Values() []V { return l.values }

// SetValues copies one value per vertex into the lattice.
func (l *Lattice[V]) SetValues(values []V) error {
	if len(values) != l.count {
		return fmt.Errorf("got %d values, want %d: %w", len(values), l.count, ErrDimensionMismatch)
	}
	copy(l.values, values)
	return nil
}

// Next advances index to its lexicographic successor inside the box
// [0, upper) per axis, last axis fastest. It returns false once every index
// has been visited, leaving index zeroed.
func Next(index, upper []int) bool {
	for d := len(index) - 1; d >= 0; d-- {
		index[d]++
		if index[d] < upper[d] {
			return true
		}
		index[d] = 0
	}
	return false
}
