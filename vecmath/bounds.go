// SPDX-License-Identifier: MIT

package vecmath

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned N-dimensional box. A freshly created Bounds is
// empty (Min = +Inf, Max = -Inf) until a point is added.
type Bounds struct {
	Min, Max []float64
}

// NewBounds returns an empty box of the given dimension.
func NewBounds(dims int) Bounds {
	b := Bounds{Min: make([]float64, dims), Max: make([]float64, dims)}
	for d := 0; d < dims; d++ {
		b.Min[d] = math.Inf(1)
		b.Max[d] = math.Inf(-1)
	}
	return b
}

// Dims returns the box dimension.
func (b Bounds) Dims() int { return len(b.Min) }

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	for d := range b.Min {
		if b.Min[d] > b.Max[d] {
			return true
		}
	}
	return len(b.Min) == 0
}

// Extend grows the box to include p. p must have b.Dims() components.
func (b *Bounds) Extend(p []float64) {
	for d, v := range p {
		if v < b.Min[d] {
			b.Min[d] = v
		}
		if v > b.Max[d] {
			b.Max[d] = v
		}
	}
}

// Contains reports whether p lies inside the closed box.
func (b Bounds) Contains(p []float64) bool {
	if len(p) != len(b.Min) {
		return false
	}
	for d, v := range p {
		if v < b.Min[d] || v > b.Max[d] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (b Bounds) String() string {
	return fmt.Sprintf("%v-%v", b.Min, b.Max)
}
