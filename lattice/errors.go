// SPDX-License-Identifier: MIT

package lattice

import "errors"

var (
	// ErrBadShape indicates an empty shape or an axis with fewer than one vertex.
	ErrBadShape = errors.New("lattice: invalid shape")

	// ErrOutOfRange indicates a multi-index or flat offset outside the lattice.
	ErrOutOfRange = errors.New("lattice: index out of range")

	// ErrDimensionMismatch indicates a point or buffer whose length does not
	// match the lattice dimension or vertex count.
	ErrDimensionMismatch = errors.New("lattice: dimension mismatch")
)
