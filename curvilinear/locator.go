// SPDX-License-Identifier: MIT

package curvilinear

import (
	"fmt"
	"math"

	"github.com/katalvlaran/curvgrid/vecmath"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// LocatorState is the point-location state of a Locator.
type LocatorState int

const (
	// Unbound: zero-value Locator, no grid.
	Unbound LocatorState = iota
	// Invalid: bound to a grid, no current cell yet.
	Invalid
	// Tracking: a current cell and local coordinate are known. They may
	// describe a boundary cell with extrapolated coordinates when the last
	// query was outside the domain.
	Tracking
)

// String implements fmt.Stringer.
func (s LocatorState) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Invalid:
		return "invalid"
	case Tracking:
		return "tracking"
	default:
		return fmt.Sprintf("LocatorState(%d)", int(s))
	}
}

// Locator is a stateful point-location cursor over one Grid. It remembers
// the cell of the last query so nearby queries can warm start.
//
// All scratch buffers are allocated by Bind; Locate and Evaluate do not
// allocate on the Newton hot path apart from the value interpolation rule
// itself. A Locator is not safe for concurrent use.
type Locator[V any] struct {
	grid  *Grid[V]
	state LocatorState
	cell  []int     // current cell (minimum-corner index)
	base  int       // flat offset of the cell's base vertex
	local []float64 // current local coordinate
	iters int       // Newton updates made by the last Locate

	eps, eps2 float64
	maxIter   int
	condLimit float64
	slack     float64
	log       logrus.FieldLogger

	// scratch
	corners  []float64 // 2^N·N corner positions of the current cell
	work     []float64 // reduction buffer for the forward map
	residual []float64
	jacBuf   []float64
	stepBuf  []float64
	jac      *mat.Dense
	rhs      *mat.VecDense
	step     *mat.VecDense
	lu       mat.LU
	values   []V
	query    centerEntry // k-d tree query, reused to keep cold starts allocation-free

	// snapshot restored when Locate fails
	prevCell  []int
	prevLocal []float64
}

// Bind attaches l to g (state Invalid) and sizes its scratch buffers.
// opts override the grid's defaults for this locator.
func (l *Locator[V]) Bind(g *Grid[V], opts ...Option) {
	o := gatherOptions(g.opts, opts...)
	n := g.dims
	k := len(g.corners)

	*l = Locator[V]{
		grid:      g,
		state:     Invalid,
		cell:      make([]int, n),
		local:     make([]float64, n),
		eps:       o.tol,
		eps2:      o.tol * o.tol,
		maxIter:   o.maxIter,
		condLimit: o.condLimit,
		slack:     o.slack,
		log:       o.logger,
		corners:   make([]float64, k*n),
		work:      make([]float64, k*n),
		residual:  make([]float64, n),
		jacBuf:    make([]float64, n*n),
		stepBuf:   make([]float64, n),
		values:    make([]V, k),
		prevCell:  make([]int, n),
		prevLocal: make([]float64, n),
	}
	l.jac = mat.NewDense(n, n, l.jacBuf)
	l.rhs = mat.NewVecDense(n, l.residual)
	l.step = mat.NewVecDense(n, l.stepBuf)
}

// Reset forgets the current cell; the next Locate cold starts.
func (l *Locator[V]) Reset() {
	if l.grid != nil {
		l.state = Invalid
	}
}

// State returns the current state.
func (l *Locator[V]) State() LocatorState { return l.state }

// Tolerance returns the convergence tolerance ε.
func (l *Locator[V]) Tolerance() float64 { return l.eps }

// Cell returns a copy of the current cell index (nil unless Tracking).
func (l *Locator[V]) Cell() []int {
	if l.state != Tracking {
		return nil
	}
	return append([]int(nil), l.cell...)
}

// Local returns a copy of the current local coordinate (nil unless Tracking).
func (l *Locator[V]) Local() []float64 {
	if l.state != Tracking {
		return nil
	}
	return append([]float64(nil), l.local...)
}

// Iterations returns the number of Newton updates made by the last Locate.
func (l *Locator[V]) Iterations() int { return l.iters }

// Inside reports whether the current local coordinate lies in [0,1]^N.
func (l *Locator[V]) Inside() bool {
	if l.state != Tracking {
		return false
	}
	for _, x := range l.local {
		if x < 0 || x > 1 {
			return false
		}
	}
	return true
}

// Locate finds the cell containing p and its local coordinate.
//
// With warm set and a current cell, the search resumes from that cell;
// otherwise it seeds from the nearest cell centroid at local (0.5, …, 0.5).
// It returns true when the converged local coordinate lies in [0,1]^N, up to
// the boundary slack (WithBoundarySlack); such a coordinate is clamped into
// [0,1]^N, so points on a domain face or vertex are inside. A false result with nil error means p is outside the domain; the locator is
// then left Tracking the boundary cell Newton converged in, so a following
// warm query resumes there.
//
// Errors (the locator keeps its previous state on any error):
//   - ErrUnbound, ErrDimensionMismatch, ErrNotFinalized.
//   - ErrInvalidPoint: p has a NaN or infinite component.
//   - ErrDegenerateJacobian: the cell Jacobian is singular or its condition
//     estimate exceeds the configured limit.
//   - ErrNonConvergence: the iteration cap was reached.
//
// Complexity: O(log C) seed plus O(k·(2^N·N² + N³)) for k iterations.
func (l *Locator[V]) Locate(p []float64, warm bool) (bool, error) {
	g := l.grid
	if g == nil {
		return false, fmt.Errorf("%s: %w", opLocate, ErrUnbound)
	}
	if len(p) != g.dims {
		return false, fmt.Errorf("%s: point has %d components, want %d: %w", opLocate, len(p), g.dims, ErrDimensionMismatch)
	}
	for _, x := range p {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false, fmt.Errorf("%s: %v: %w", opLocate, p, ErrInvalidPoint)
		}
	}
	if !g.Finalized() {
		return false, fmt.Errorf("%s: %w", opLocate, ErrNotFinalized)
	}

	prevState := l.state
	copy(l.prevCell, l.cell)
	copy(l.prevLocal, l.local)
	prevBase := l.base

	if !warm || l.state != Tracking {
		l.coldStart(p)
	}

	l.iters = 0
	for {
		g.gatherCorners(l.base, l.corners)
		copy(l.work, l.corners)
		x := interpolatePoints(l.work, g.dims, l.local)
		vecmath.Sub(l.residual, x, p)
		r2 := vecmath.SquaredNorm(l.residual)
		if r2 < l.eps2 {
			break
		}
		if l.iters >= l.maxIter {
			if debugEnabled(l.log) {
				l.log.WithFields(logrus.Fields{
					"op":         opLocate,
					"cell":       l.cell,
					"iterations": l.iters,
					"residual":   r2,
				}).Debug("curvilinear: iteration cap reached")
			}
			l.restore(prevState, prevBase)
			return false, fmt.Errorf("%s: after %d iterations: %w", opLocate, l.iters, ErrNonConvergence)
		}

		if err := l.solveStep(); err != nil {
			if debugEnabled(l.log) {
				l.log.WithFields(logrus.Fields{
					"op":    opLocate,
					"cell":  l.cell,
					"local": l.local,
				}).Debug("curvilinear: degenerate jacobian")
			}
			l.restore(prevState, prevBase)
			return false, fmt.Errorf("%s: cell %v: %w", opLocate, l.cell, err)
		}
		for d := range l.local {
			l.local[d] -= l.stepBuf[d]
		}
		l.stepCells()
		l.iters++
	}

	l.state = Tracking
	inside := l.Inside() || l.acceptBoundary()
	if !inside && debugEnabled(l.log) {
		l.log.WithFields(logrus.Fields{
			"op":    opLocate,
			"cell":  l.cell,
			"local": l.local,
		}).Debug("curvilinear: point outside domain")
	}
	return inside, nil
}

// Evaluate interpolates the vertex values of the current cell at the current
// local coordinate. After an out-of-domain Locate this extrapolates from the
// boundary cell. Returns ErrUnbound or ErrNotLocated when there is no cell.
func (l *Locator[V]) Evaluate() (V, error) {
	var zero V
	if l.grid == nil {
		return zero, fmt.Errorf("%s: %w", opEvaluate, ErrUnbound)
	}
	if l.state != Tracking {
		return zero, fmt.Errorf("%s: %w", opEvaluate, ErrNotLocated)
	}
	l.grid.gatherValues(l.base, l.values)
	return interpolateValues(l.values, l.grid.interp, l.local), nil
}

// EvaluateAt locates p and interpolates the value there. It fails with
// ErrOutOfDomain when p lies outside the grid, and with any Locate error.
func (l *Locator[V]) EvaluateAt(p []float64, warm bool) (V, error) {
	var zero V
	inside, err := l.Locate(p, warm)
	if err != nil {
		return zero, err
	}
	if !inside {
		return zero, fmt.Errorf("%s: %v: %w", opEvaluate, p, ErrOutOfDomain)
	}
	return l.Evaluate()
}

// coldStart seeds the iterate at the centre of the cell whose centroid is
// nearest to p.
func (l *Locator[V]) coldStart(p []float64) {
	g := l.grid
	l.query.coord = p
	l.base = g.index.closest(&l.query)
	l.query.coord = nil
	l.cell, _ = g.lat.Index(l.base, l.cell)
	for d := range l.local {
		l.local[d] = 0.5
	}
	if debugEnabled(l.log) {
		l.log.WithFields(logrus.Fields{"op": opLocate, "cell": l.cell}).Debug("curvilinear: cold start")
	}
}

// acceptBoundary decides a converged coordinate that lies just outside
// [0,1]^N, which is how points on a domain face come back from round-off.
// One more Newton correction is applied; when every component then lies
// within the boundary slack of [0,1] it is clamped in and the point counts
// as inside. Otherwise the coordinate is left untouched.
// Requires l.corners and l.residual from the final iteration.
func (l *Locator[V]) acceptBoundary() bool {
	if l.solveStep() != nil {
		return false
	}
	for d, x := range l.local {
		if y := x - l.stepBuf[d]; y < -l.slack || y > 1+l.slack {
			return false
		}
	}
	for d, x := range l.local {
		l.local[d] = math.Min(1, math.Max(0, x-l.stepBuf[d]))
	}
	return true
}

// solveStep fills stepBuf with the solution of J·step = residual at the
// current local coordinate.
func (l *Locator[V]) solveStep() error {
	jacobian(l.corners, l.grid.dims, l.local, l.jacBuf)
	for _, v := range l.jacBuf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite entry: %w", ErrDegenerateJacobian)
		}
	}
	l.lu.Factorize(l.jac)
	if c := l.lu.Cond(); !(c <= l.condLimit) {
		return fmt.Errorf("condition %g: %w", c, ErrDegenerateJacobian)
	}
	if err := l.lu.SolveVecTo(l.step, false, l.rhs); err != nil {
		return fmt.Errorf("%v: %w", err, ErrDegenerateJacobian)
	}
	return nil
}

// stepCells moves the current cell across faces the iterate has crossed.
// Per axis, while local < 0 (> 1) and a lower (upper) neighbor exists, it
// steps one cell and shifts local by +1 (−1). At the domain boundary the
// coordinate is left outside [0,1] so Newton may extrapolate.
func (l *Locator[V]) stepCells() {
	g := l.grid
	for d := range l.local {
		for l.local[d] < 0 && l.cell[d] > 0 {
			l.cell[d]--
			l.local[d]++
		}
		for l.local[d] > 1 && l.cell[d] < g.cellMax[d] {
			l.cell[d]++
			l.local[d]--
		}
	}
	l.base = g.lat.Offset(l.cell)
}

// restore rolls back to the snapshot taken at the start of Locate.
func (l *Locator[V]) restore(state LocatorState, base int) {
	l.state = state
	l.base = base
	copy(l.cell, l.prevCell)
	copy(l.local, l.prevLocal)
}
