// SPDX-License-Identifier: MIT

package curvilinear

import (
	"github.com/katalvlaran/curvgrid/vecmath"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// medianSample is the number of random elements MedianOfRandoms inspects
// when choosing a split pivot.
const medianSample = 100

// centerEntry is one cell of the index: its centroid and the flat offset of
// the cell's base vertex (which identifies the cell).
type centerEntry struct {
	coord []float64
	base  int
}

// Compare implements kdtree.Comparable.
func (e centerEntry) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return e.coord[d] - coordOf(c)[d]
}

// Dims implements kdtree.Comparable.
func (e centerEntry) Dims() int { return len(e.coord) }

// Distance implements kdtree.Comparable; it is the squared Euclidean distance.
func (e centerEntry) Distance(c kdtree.Comparable) float64 {
	return vecmath.SquaredDistance(e.coord, coordOf(c))
}

// coordOf returns the centroid of a tree entry or of a *centerEntry query.
func coordOf(c kdtree.Comparable) []float64 {
	if q, ok := c.(*centerEntry); ok {
		return q.coord
	}
	return c.(centerEntry).coord
}

// centerEntries satisfies kdtree.Interface.
type centerEntries []centerEntry

func (p centerEntries) Index(i int) kdtree.Comparable         { return p[i] }
func (p centerEntries) Len() int                              { return len(p) }
func (p centerEntries) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot partitions the entries about the median along d.
func (p centerEntries) Pivot(d kdtree.Dim) int {
	plane := centerPlane{centerEntries: p, Dim: d}
	return kdtree.Partition(plane, kdtree.MedianOfRandoms(plane, medianSample))
}

// centerPlane orders entries along one axis for partitioning.
type centerPlane struct {
	centerEntries
	kdtree.Dim
}

func (p centerPlane) Less(i, j int) bool {
	return p.centerEntries[i].coord[p.Dim] < p.centerEntries[j].coord[p.Dim]
}

func (p centerPlane) Swap(i, j int) {
	p.centerEntries[i], p.centerEntries[j] = p.centerEntries[j], p.centerEntries[i]
}

func (p centerPlane) Slice(start, end int) kdtree.SortSlicer {
	return centerPlane{centerEntries: p.centerEntries[start:end], Dim: p.Dim}
}

// centerIndex answers "which cell centroid is nearest to p".
// Usage: buf := idx.build(n); fill buf; idx.finalize(); idx.closest(&q).
type centerIndex struct {
	tree   *kdtree.Tree
	buf    centerEntries // build buffer; nil after finalize
	coords []float64     // shared backing for every centroid
	dims   int
	size   int
}

// newCenterIndex prepares an empty index for dims-dimensional centroids.
func newCenterIndex(dims int) *centerIndex {
	return &centerIndex{dims: dims}
}

// build allocates a writable buffer of count entries whose coord slices are
// already carved out of one backing array.
func (x *centerIndex) build(count int) centerEntries {
	x.tree = nil
	x.coords = make([]float64, count*x.dims)
	x.buf = make(centerEntries, count)
	for i := range x.buf {
		x.buf[i].coord = x.coords[i*x.dims : (i+1)*x.dims : (i+1)*x.dims]
	}
	return x.buf
}

// finalize builds the k-d tree and releases the build buffer. The tree
// keeps its own copies of the entries; coordinates stay in x.coords.
// Complexity: O(C·log C).
func (x *centerIndex) finalize() {
	x.size = len(x.buf)
	x.tree = kdtree.New(x.buf, false)
	x.buf = nil
}

// closest returns the base-vertex offset of the cell whose centroid is
// nearest to q.coord. Ties are broken by tree order. The index must be
// finalized. q is passed by pointer so the query does not allocate.
// Complexity: O(log C) expected.
func (x *centerIndex) closest(q *centerEntry) int {
	got, _ := x.tree.Nearest(q)
	return got.(centerEntry).base
}

// ready reports whether the index has been finalized.
func (x *centerIndex) ready() bool { return x != nil && x.tree != nil }
