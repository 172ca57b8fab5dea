package curvilinear_test

import (
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/curvgrid/curvilinear"
	"github.com/katalvlaran/curvgrid/vecmath"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestLocateUnitSquare locates the centre of the unit square and evaluates 1.5 there.
func TestLocateUnitSquare(t *testing.T) {
	g, err := curvilinear.New[float64]([]int{2, 2}, vecmath.Scalar{},
		[]float64{0, 0, 1, 0, 0, 1, 1, 1},
		[]float64{0, 1, 2, 3})
	require.NoError(t, err)

	loc := g.NewLocator()
	inside, err := loc.Locate([]float64{0.5, 0.5}, false)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.Equal(t, curvilinear.Tracking, loc.State())
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, loc.Local(), 1e-12)

	v, err := loc.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-12)
}

// TestLocateOneDimensional locates on a non-uniform 1-D grid and walks back one cell.
func TestLocateOneDimensional(t *testing.T) {
	g, err := curvilinear.New[float64]([]int{3}, vecmath.Scalar{},
		[]float64{0, 1, 3},
		[]float64{10, 20, 40})
	require.NoError(t, err)

	loc := g.NewLocator()
	inside, err := loc.Locate([]float64{2}, false)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.Equal(t, []int{1}, loc.Cell())
	assert.InDeltaSlice(t, []float64{0.5}, loc.Local(), 1e-12)

	v, err := loc.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 30.0, v, 1e-12)

	// Walk down to the first cell from a warm start.
	v, err = loc.EvaluateAt([]float64{0.25}, true)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, loc.Cell())
	assert.InDelta(t, 12.5, v, 1e-12)
}

// TestLocateRoundTrip verifies Locate(PointAt(cell, x)) == (cell, x), faces and vertices included.
func TestLocateRoundTrip(t *testing.T) {
	g := warpedGrid(t, curvilinear.WithTolerance(1e-10))
	cases := []struct {
		cell  []int
		local []float64
	}{
		{[]int{0, 0, 0}, []float64{0.25, 0.5, 0.75}},
		{[]int{3, 2, 1}, []float64{0.9, 0.1, 0.5}},
		{[]int{1, 1, 0}, []float64{0.5, 0.5, 0.5}},
		{[]int{2, 0, 1}, []float64{0.05, 0.95, 0.3}},
		{[]int{1, 2, 1}, []float64{0.6, 0.4, 0.15}},
		// domain faces
		{[]int{1, 0, 1}, []float64{0.5, 0, 0.5}},
		{[]int{0, 1, 0}, []float64{0, 0.3, 0.7}},
		{[]int{3, 2, 0}, []float64{1, 0.25, 0}},
		{[]int{2, 1, 1}, []float64{0.4, 0.6, 1}},
		// domain vertices
		{[]int{0, 0, 0}, []float64{0, 0, 0}},
		{[]int{3, 2, 1}, []float64{1, 1, 1}},
		{[]int{3, 0, 1}, []float64{1, 0, 1}},
	}
	loc := g.NewLocator()
	for _, tc := range cases {
		p, err := g.PointAt(tc.cell, tc.local)
		require.NoError(t, err)

		inside, err := loc.Locate(p, false)
		require.NoError(t, err, "cell %v", tc.cell)
		assert.True(t, inside)
		assert.Equal(t, tc.cell, loc.Cell())
		assert.InDeltaSlice(t, tc.local, loc.Local(), 1e-6)

		want, err := g.ValueAt(tc.cell, tc.local)
		require.NoError(t, err)
		got, err := loc.Evaluate()
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-6)
	}
}

// TestLocateWarmStartEquivalence verifies that warm and cold starts agree.
func TestLocateWarmStartEquivalence(t *testing.T) {
	g := warpedGrid(t, curvilinear.WithTolerance(1e-10))
	cell := []int{2, 1, 0}
	p1, _ := g.PointAt(cell, []float64{0.3, 0.3, 0.3})
	p2, _ := g.PointAt(cell, []float64{0.35, 0.32, 0.31})

	warm := g.NewLocator()
	_, err := warm.Locate(p1, false)
	require.NoError(t, err)
	insideWarm, err := warm.Locate(p2, true)
	require.NoError(t, err)

	cold := g.NewLocator()
	insideCold, err := cold.Locate(p2, false)
	require.NoError(t, err)

	assert.Equal(t, insideCold, insideWarm)
	assert.Equal(t, cold.Cell(), warm.Cell())
	assert.InDeltaSlice(t, cold.Local(), warm.Local(), 1e-8)
}

// TestLocateWarmStartAcrossCells verifies that a warm start steps across several cells.
func TestLocateWarmStartAcrossCells(t *testing.T) {
	g := warpedGrid(t, curvilinear.WithTolerance(1e-10))
	loc := g.NewLocator()

	p0, _ := g.PointAt([]int{0, 0, 0}, []float64{0.5, 0.5, 0.5})
	_, err := loc.Locate(p0, false)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0}, loc.Cell())

	p1, _ := g.PointAt([]int{3, 2, 1}, []float64{0.4, 0.6, 0.5})
	inside, err := loc.Locate(p1, true)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.Equal(t, []int{3, 2, 1}, loc.Cell())
	assert.InDeltaSlice(t, []float64{0.4, 0.6, 0.5}, loc.Local(), 1e-6)
	assert.Greater(t, loc.Iterations(), 0)
}

// TestLocateOutsideDomain verifies the outside result, extrapolation and recovery.
func TestLocateOutsideDomain(t *testing.T) {
	g := affineGrid(t, 3)
	loc := g.NewLocator()

	p := []float64{1.5, 0.5}
	inside, err := loc.Locate(p, false)
	require.NoError(t, err)
	assert.False(t, inside)
	assert.False(t, loc.Inside())
	assert.Equal(t, curvilinear.Tracking, loc.State())
	assert.Equal(t, 1, loc.Cell()[0], "converged in the boundary cell")
	assert.InDelta(t, 2.0, loc.Local()[0], 1e-9, "local coordinate extrapolates past the boundary")

	// Evaluate extrapolates from the boundary cell.
	v, err := loc.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 1.5+10*0.5, v, 1e-9)

	_, err = loc.EvaluateAt(p, true)
	assert.ErrorIs(t, err, curvilinear.ErrOutOfDomain)

	// A warm query back inside recovers.
	inside, err = loc.Locate([]float64{0.6, 0.6}, true)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.Equal(t, []int{1, 1}, loc.Cell())
}

// TestLocateOutsideBoundingBox verifies that points past the bounding box are outside.
func TestLocateOutsideBoundingBox(t *testing.T) {
	g := warpedGrid(t)
	b := g.DomainBoundingBox()
	points := [][]float64{
		{b.Max[0] + 0.25, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2},
		{b.Min[0] - 0.25, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2},
		{(b.Min[0] + b.Max[0]) / 2, b.Max[1] + 0.1, (b.Min[2] + b.Max[2]) / 2},
		{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, b.Min[2] - 0.1},
	}
	for _, p := range points {
		inside, err := g.Contains(p)
		require.NoError(t, err, "%v", p)
		assert.False(t, inside, "%v", p)
	}
}

// TestLocateDegenerateJacobian verifies the error and state restore on a collapsed cell.
func TestLocateDegenerateJacobian(t *testing.T) {
	// Cell 0 is the unit square; cell 1 collapses to the segment x = 1.
	g, err := curvilinear.New[float64]([]int{3, 2}, vecmath.Scalar{},
		[]float64{
			0, 0, 0, 1,
			1, 0, 1, 1,
			1, 0, 1, 1,
		}, []float64{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	loc := g.NewLocator()

	inside, err := loc.Locate([]float64{0.5, 0.5}, false)
	require.NoError(t, err)
	require.True(t, inside)
	cell, local := loc.Cell(), loc.Local()

	_, err = loc.Locate([]float64{2, 0.5}, false)
	assert.ErrorIs(t, err, curvilinear.ErrDegenerateJacobian)
	assert.Equal(t, curvilinear.Tracking, loc.State(), "state is restored on failure")
	assert.Equal(t, cell, loc.Cell())
	assert.Equal(t, local, loc.Local())

	fresh := g.NewLocator()
	_, err = fresh.Locate([]float64{2, 0.5}, false)
	assert.ErrorIs(t, err, curvilinear.ErrDegenerateJacobian)
	assert.Equal(t, curvilinear.Invalid, fresh.State())
}

// TestLocateNonConvergence verifies the iteration cap and state restore.
func TestLocateNonConvergence(t *testing.T) {
	g := warpedGrid(t)
	loc := g.NewLocator(curvilinear.WithMaxIterations(1), curvilinear.WithTolerance(1e-12))

	p, _ := g.PointAt([]int{1, 1, 0}, []float64{0.05, 0.9, 0.1})
	_, err := loc.Locate(p, false)
	assert.ErrorIs(t, err, curvilinear.ErrNonConvergence)
	assert.Equal(t, curvilinear.Invalid, loc.State())
	assert.Equal(t, 1, loc.Iterations())
	assert.Nil(t, loc.Cell())

	// The default cap converges on the same query.
	loc = g.NewLocator(curvilinear.WithTolerance(1e-12))
	inside, err := loc.Locate(p, false)
	require.NoError(t, err)
	assert.True(t, inside)
}

// TestLocatorStateErrors verifies the Unbound/Invalid error paths.
func TestLocatorStateErrors(t *testing.T) {
	var zero curvilinear.Locator[float64]
	assert.Equal(t, curvilinear.Unbound, zero.State())
	_, err := zero.Locate([]float64{0, 0}, false)
	assert.ErrorIs(t, err, curvilinear.ErrUnbound)
	_, err = zero.Evaluate()
	assert.ErrorIs(t, err, curvilinear.ErrUnbound)
	zero.Reset()
	assert.Equal(t, curvilinear.Unbound, zero.State())

	g := affineGrid(t, 2)
	loc := g.NewLocator()
	assert.Equal(t, curvilinear.Invalid, loc.State())
	_, err = loc.Evaluate()
	assert.ErrorIs(t, err, curvilinear.ErrNotLocated)

	_, err = loc.Locate([]float64{0.5}, false)
	assert.ErrorIs(t, err, curvilinear.ErrDimensionMismatch)
	assert.Equal(t, curvilinear.Invalid, loc.State())

	_, err = loc.Locate([]float64{0.5, 0.5}, false)
	require.NoError(t, err)
	loc.Reset()
	assert.Equal(t, curvilinear.Invalid, loc.State())
	assert.Nil(t, loc.Local())

	zero.Bind(g)
	assert.Equal(t, curvilinear.Invalid, zero.State())
}

// TestLocatorStateString checks LocatorState names.
func TestLocatorStateString(t *testing.T) {
	assert.Equal(t, "unbound", curvilinear.Unbound.String())
	assert.Equal(t, "invalid", curvilinear.Invalid.String())
	assert.Equal(t, "tracking", curvilinear.Tracking.String())
	assert.Equal(t, "LocatorState(7)", curvilinear.LocatorState(7).String())
}

// TestLocateVectorValues evaluates slice-valued vertices.
func TestLocateVectorValues(t *testing.T) {
	g, err := curvilinear.New[[]float64]([]int{3}, vecmath.Vector{},
		[]float64{0, 2, 4},
		[][]float64{{0, 1}, {2, 3}, {4, 5}})
	require.NoError(t, err)

	v, err := g.NewLocator().EvaluateAt([]float64{3}, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 4}, v, 1e-12)

	// Interpolation never aliases vertex storage.
	v[0] = 100
	orig, _ := g.Value([]int{1})
	assert.Equal(t, []float64{2, 3}, orig)
}

// TestLocateTensorValues evaluates matrix-valued vertices.
func TestLocateTensorValues(t *testing.T) {
	values := make([]*mat.Dense, 4)
	for i := range values {
		c := float64(i)
		values[i] = mat.NewDense(2, 2, []float64{c, 0, 0, c})
	}
	g, err := curvilinear.New[*mat.Dense]([]int{2, 2}, vecmath.Tensor{},
		[]float64{0, 0, 1, 0, 0, 1, 1, 1}, values)
	require.NoError(t, err)

	v, err := g.NewLocator().EvaluateAt([]float64{0.5, 0.5}, false)
	require.NoError(t, err)
	want := mat.NewDense(2, 2, []float64{1.5, 0, 0, 1.5})
	assert.True(t, mat.EqualApprox(want, v, 1e-12))
}

// TestLocateCustomInterpolator plugs in a nearest-neighbour rule.
func TestLocateCustomInterpolator(t *testing.T) {
	// Nearest-neighbour rule plugged in via InterpolatorFunc.
	nearest := vecmath.InterpolatorFunc[int](func(a, b int, w float64) int {
		if w < 0.5 {
			return a
		}
		return b
	})
	g, err := curvilinear.New[int]([]int{2}, nearest, []float64{0, 1}, []int{7, 9})
	require.NoError(t, err)

	loc := g.NewLocator()
	v, err := loc.EvaluateAt([]float64{0.2}, false)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	v, err = loc.EvaluateAt([]float64{0.8}, true)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

// TestLocateEveryVertex verifies that every vertex position, boundary ones
// included, is reported inside and maps back onto itself.
func TestLocateEveryVertex(t *testing.T) {
	for _, eps := range []float64{curvilinear.DefaultTolerance, 1e-10} {
		g := warpedGrid(t, curvilinear.WithTolerance(eps))
		loc := g.NewLocator()
		for i := 0; i < warpedSize[0]; i++ {
			for j := 0; j < warpedSize[1]; j++ {
				for k := 0; k < warpedSize[2]; k++ {
					p, err := g.Position([]int{i, j, k})
					require.NoError(t, err)

					inside, err := loc.Locate(p, false)
					require.NoError(t, err)
					assert.True(t, inside, "vertex (%d,%d,%d) eps=%g local=%v", i, j, k, eps, loc.Local())
					for _, x := range loc.Local() {
						assert.True(t, x >= 0 && x <= 1, "local %v clamped into [0,1]", loc.Local())
					}
					back, err := g.PointAt(loc.Cell(), loc.Local())
					require.NoError(t, err)
					assert.InDeltaSlice(t, p, back, 1e-4)
				}
			}
		}
	}
}

// TestEvaluateAtOnDomainFace verifies that a point on a boundary face
// evaluates instead of failing with ErrOutOfDomain.
func TestEvaluateAtOnDomainFace(t *testing.T) {
	g := warpedGrid(t, curvilinear.WithTolerance(1e-10))
	local := []float64{0.5, 0, 0.5}
	p, _ := g.PointAt([]int{1, 0, 1}, local)
	want, _ := g.ValueAt([]int{1, 0, 1}, local)

	loc := g.NewLocator()
	v, err := loc.EvaluateAt(p, false)
	require.NoError(t, err)
	assert.InDelta(t, want, v, 1e-9)
	assert.InDelta(t, 0.0, loc.Local()[1], 1e-9)
	assert.GreaterOrEqual(t, loc.Local()[1], 0.0)

	ok, err := g.Contains(p)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestBoundarySlack verifies that the slack only absorbs small overshoots: a
// point clearly past the face stays outside, a wider slack accepts it and
// clamps the coordinate onto the face.
func TestBoundarySlack(t *testing.T) {
	g := affineGrid(t, 3)
	p := []float64{1.01, 0.5}

	inside, err := g.NewLocator().Locate(p, false)
	require.NoError(t, err)
	assert.False(t, inside)

	loc := g.NewLocator(curvilinear.WithBoundarySlack(0.05))
	inside, err = loc.Locate(p, false)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.Equal(t, 1.0, loc.Local()[0])
	v, err := loc.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 1+10*0.5, v, 1e-9)

	assert.Panics(t, func() { curvilinear.WithBoundarySlack(-1e-9) })
	assert.Panics(t, func() { curvilinear.WithBoundarySlack(math.Inf(1)) })
	assert.NotPanics(t, func() { curvilinear.WithBoundarySlack(0) })
}

// TestLocateInvalidPoint verifies that NaN and infinite query components are
// rejected as input errors and leave the locator untouched.
func TestLocateInvalidPoint(t *testing.T) {
	g := warpedGrid(t)
	loc := g.NewLocator()
	p, _ := g.PointAt([]int{1, 1, 0}, []float64{0.5, 0.5, 0.5})
	_, err := loc.Locate(p, false)
	require.NoError(t, err)
	cell, local := loc.Cell(), loc.Local()

	for _, bad := range [][]float64{
		{math.NaN(), 1, 1},
		{1, math.Inf(1), 1},
		{1, 1, math.Inf(-1)},
	} {
		_, err := loc.Locate(bad, true)
		assert.ErrorIs(t, err, curvilinear.ErrInvalidPoint, "%v", bad)
		assert.NotErrorIs(t, err, curvilinear.ErrDegenerateJacobian)
		assert.Equal(t, curvilinear.Tracking, loc.State())
		assert.Equal(t, cell, loc.Cell())
		assert.Equal(t, local, loc.Local())

		_, err = loc.EvaluateAt(bad, false)
		assert.ErrorIs(t, err, curvilinear.ErrInvalidPoint)
	}
}

// TestConcurrentLocators verifies that independent Locators may query one
// finalized grid from many goroutines; run with -race.
func TestConcurrentLocators(t *testing.T) {
	g := warpedGrid(t, curvilinear.WithTolerance(1e-10))
	cells := [][]int{{0, 0, 0}, {1, 2, 1}, {3, 1, 0}, {2, 0, 1}}

	const workers, rounds = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			loc := g.NewLocator()
			for r := 0; r < rounds; r++ {
				cell := cells[(w+r)%len(cells)]
				local := []float64{0.2 + 0.6*float64(r%5)/4, 0.5, 0.3}
				p, err := g.PointAt(cell, local)
				if !assert.NoError(t, err) {
					return
				}
				inside, err := loc.Locate(p, r%2 == 1)
				if !assert.NoError(t, err) {
					return
				}
				assert.True(t, inside)
				assert.Equal(t, cell, loc.Cell())

				want, _ := g.ValueAt(cell, local)
				got, err := loc.Evaluate()
				assert.NoError(t, err)
				assert.InDelta(t, want, got, 1e-6)
			}
		}(w)
	}
	wg.Wait()
}

// TestColdStartDoesNotAllocate verifies that a cold Locate which converges at
// the seed allocates nothing when debug logging is off.
func TestColdStartDoesNotAllocate(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	g := warpedGrid(t, curvilinear.WithLogger(logger))
	loc := g.NewLocator()
	p, err := g.CellCenter([]int{2, 1, 0})
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(100, func() {
		if _, err := loc.Locate(p, false); err != nil {
			t.Fatal(err)
		}
	})
	assert.Zero(t, allocs)
	assert.Equal(t, 0, loc.Iterations())
}
