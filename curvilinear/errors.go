// SPDX-License-Identifier: MIT

package curvilinear

import "errors"

// Every message is prefixed with "curvilinear:". Facades wrap these with an
// operation tag via fmt.Errorf("%s: %w", ...); match them with errors.Is.
var (
	// ErrBadShape indicates an empty grid size or an axis with fewer than two
	// vertices (every axis needs at least one cell).
	ErrBadShape = errors.New("curvilinear: every axis needs at least two vertices")

	// ErrDimensionMismatch indicates a point, position buffer or value buffer
	// whose length does not match the grid.
	ErrDimensionMismatch = errors.New("curvilinear: dimension mismatch")

	// ErrInvalidPoint indicates a query point with a NaN or infinite component.
	ErrInvalidPoint = errors.New("curvilinear: query point is not finite")

	// ErrNoInterpolator indicates a nil value interpolation rule.
	ErrNoInterpolator = errors.New("curvilinear: nil interpolator")

	// ErrNotFinalized indicates the cell-center index is missing or stale
	// because positions were never supplied or changed after FinalizeGrid.
	ErrNotFinalized = errors.New("curvilinear: grid not finalized")

	// ErrUnbound indicates a Locator that was never bound to a grid.
	ErrUnbound = errors.New("curvilinear: locator not bound to a grid")

	// ErrNotLocated indicates Evaluate was called before any Locate converged.
	ErrNotLocated = errors.New("curvilinear: locator has no current cell")

	// ErrOutOfDomain indicates the query point lies outside the grid.
	ErrOutOfDomain = errors.New("curvilinear: point outside grid domain")

	// ErrNonConvergence indicates Newton–Raphson hit the iteration cap.
	ErrNonConvergence = errors.New("curvilinear: point location did not converge")

	// ErrDegenerateJacobian indicates a singular or ill-conditioned cell
	// Jacobian (collapsed or self-intersecting cell).
	ErrDegenerateJacobian = errors.New("curvilinear: degenerate cell jacobian")
)

// Operation tags for error wrapping.
const (
	opNew      = "New"
	opFinalize = "FinalizeGrid"
	opLocate   = "Locate"
	opEvaluate = "Evaluate"
	opSet      = "Set"
)
