// SPDX-License-Identifier: MIT

package curvilinear

// cornerOffsets builds the corner-offset table of the reference cell:
// entry c is the flat offset of corner c relative to the cell's base vertex,
// where bit d of c set means the corner sits at the far end of axis d.
//
//	offset(c) = Σ_{d : bit d of c} strides[d]
//
// The table depends only on topology and is computed once per grid.
// Complexity: O(2^N) time and memory (each entry reuses a smaller one).
func cornerOffsets(strides []int) []int {
	n := len(strides)
	table := make([]int, 1<<n)
	for d := 0; d < n; d++ {
		bit := 1 << d
		for c := bit; c < bit<<1; c++ {
			table[c] = table[c-bit] + strides[d]
		}
	}
	return table
}
