// SPDX-License-Identifier: MIT

// Package curvilinear locates world-space points inside a structured but
// geometrically warped N-dimensional grid and interpolates the attribute
// carried by its vertices.
//
// What:
//
//   - Grid[V] owns a vertex lattice (position + value of any type V per
//     vertex), the corner-offset table of the reference cell, and a k-d tree
//     over cell centroids used to seed point location.
//   - Locator[V] is a cursor bound to one Grid. Locate runs Newton–Raphson on
//     the multilinear forward map, stepping between adjacent cells whenever
//     the local coordinate leaves [0,1], and remembers the cell it converged
//     in so that the next nearby query can warm start.
//   - Evaluate blends the 2^N corner values of the current cell with the
//     pluggable vecmath.Interpolator[V].
//
// Why:
//
//   - Cells are hyper-rectangles in index space but arbitrary hexahedra (and
//     higher-dimensional analogues) in world space. Inverting the forward map
//     needs a numerical solve; coherence keeps streams of nearby queries cheap.
//
// Algorithm (Locate):
//
//  1. Cold start: nearest cell centroid (k-d tree), local = (0.5, …, 0.5).
//     Warm start: keep the previous cell and local coordinate.
//  2. residual = X(local) − p; stop when |residual|² < ε².
//  3. Solve J(local)·Δ = residual (LU with partial pivoting); local −= Δ.
//  4. Per axis, step to the lower/upper neighbor while local < 0 / > 1 and a
//     neighbor exists. At the domain boundary the coordinate is left
//     unclamped so Newton can converge on points just outside the grid.
//  5. Report inside = every local component in [0,1]. A coordinate that
//     misses [0,1] by at most the boundary slack (WithBoundarySlack) after
//     one more correction is clamped and reported inside, so vertices and
//     domain faces locate.
//
// Complexity:
//
//   - FinalizeGrid:  O(C·2^N·N + C·log C), C = cell count.
//   - Locate:        O(log C) cold seed, then O(k·(2^N·N² + N³)) for k iterations.
//   - Evaluate:      O(2^N) interpolations.
//
// Errors:
//
//   - ErrBadShape, ErrDimensionMismatch: construction and argument checks.
//   - ErrInvalidPoint:       query point with a NaN or infinite component.
//   - ErrNotFinalized:       positions missing or changed since FinalizeGrid.
//   - ErrNonConvergence:     iteration cap reached (WithMaxIterations).
//   - ErrDegenerateJacobian: singular or ill-conditioned cell Jacobian.
//   - ErrOutOfDomain:        EvaluateAt on a point outside the grid.
//
// Concurrency:
//
//	A finalized Grid may serve any number of Locators concurrently as long as
//	no goroutine mutates positions, values, or calls FinalizeGrid at the same
//	time; the owner must serialize those writers (e.g. with a sync.RWMutex).
//	A Locator holds private scratch state and must not be shared without
//	external locking.
package curvilinear
