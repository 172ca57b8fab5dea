// SPDX-License-Identifier: MIT

// Package lattice stores the vertex records of a logically rectangular
// N-dimensional grid: one world-space position and one attribute value per
// lattice point.
//
// What:
//
//   - Lattice[V] owns the vertex array for a fixed shape (vertex count per axis).
//   - Vertices are laid out row-major: the last axis varies fastest and
//     Stride(N-1) == 1. A vertex is addressed by its flat offset.
//   - Positions live in a github.com/ctessum/sparse DenseArray of shape
//     (shape..., N), so component d of vertex v sits at Elements[v*N+d].
//   - Values are a plain []V, one per vertex.
//
// Why:
//
//   - Cell-stepping and corner lookup are pure offset arithmetic once the
//     strides are known; keeping offsets as ints avoids aliasing raw pointers
//     across reallocations.
//
// Complexity:
//
//   - New:              O(V·N) time and memory (V = vertex count).
//   - Offset, Index:    O(N).
//   - Position, Value:  O(1).
//
// Errors:
//
//   - ErrBadShape:          empty shape or a non-positive axis length.
//   - ErrOutOfRange:        multi-index or offset outside the lattice.
//   - ErrDimensionMismatch: buffer length does not match the lattice.
//
// Lattice performs no locking. Writers must be serialized against readers
// by the owner.
package lattice
