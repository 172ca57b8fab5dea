// SPDX-License-Identifier: MIT

package ncgrid

import "errors"

var (
	// ErrMissingVariable indicates a requested variable is not in the file.
	ErrMissingVariable = errors.New("ncgrid: missing variable")

	// ErrShapeMismatch indicates variables disagree on their dimensions, or
	// the number of dimensions differs from the number of axes.
	ErrShapeMismatch = errors.New("ncgrid: shape mismatch")

	// ErrNoAxes indicates neither the Layout nor the file names any axis
	// variable.
	ErrNoAxes = errors.New("ncgrid: no axis variables")
)
