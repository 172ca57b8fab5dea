// SPDX-License-Identifier: MIT

// Package curvilinear: functional configuration for grids and locators.
// Options given to New become the defaults of every Locator the grid
// creates; options given to NewLocator override them per locator.
package curvilinear

import (
	"math"

	"github.com/sirupsen/logrus"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTolerance is the world-space residual length ε below which
	// Newton–Raphson stops. It is squared internally.
	DefaultTolerance = 1.0e-4

	// DefaultMaxIterations caps Newton updates per Locate call. Multilinear
	// cells converge quadratically; hitting the cap signals degenerate or
	// folded geometry.
	DefaultMaxIterations = 64

	// DefaultBoundarySlack is how far, in local (cell-width) units, a
	// converged coordinate may lie outside [0,1] and still count as inside.
	// Points on a domain face otherwise come back a few ulps outside.
	DefaultBoundarySlack = 1e-6

	// DefaultConditionLimit is the largest LU condition estimate of a cell
	// Jacobian that is still solved; larger values are ErrDegenerateJacobian.
	DefaultConditionLimit = 1e12
)

const (
	panicToleranceInvalid = "curvilinear: WithTolerance: eps must be finite and > 0"
	panicMaxIterInvalid   = "curvilinear: WithMaxIterations: n must be >= 1"
	panicCondInvalid      = "curvilinear: WithConditionLimit: limit must be > 1"
	panicSlackInvalid     = "curvilinear: WithBoundarySlack: slack must be finite and >= 0"
	panicLoggerNil        = "curvilinear: WithLogger: logger must not be nil"
)

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// Options is the resolved configuration. Fields are unexported; use the
// With* constructors.
type Options struct {
	tol       float64            // ε, > 0
	maxIter   int                // >= 1
	condLimit float64            // > 1
	slack     float64            // >= 0
	logger    logrus.FieldLogger // never nil after gatherOptions
}

// WithTolerance sets the convergence tolerance ε (world-space residual length).
// Panics if eps is not finite or not strictly positive.
func WithTolerance(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		panic(panicToleranceInvalid)
	}
	return func(o *Options) { o.tol = eps }
}

// WithMaxIterations caps the Newton updates performed by one Locate call.
// Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}
	return func(o *Options) { o.maxIter = n }
}

// WithConditionLimit sets the largest accepted Jacobian condition estimate.
// Panics if limit is NaN or <= 1.
func WithConditionLimit(limit float64) Option {
	if math.IsNaN(limit) || limit <= 1 {
		panic(panicCondInvalid)
	}
	return func(o *Options) { o.condLimit = limit }
}

// WithBoundarySlack sets how far outside [0,1] a converged local coordinate
// may lie and still be reported inside (then clamped into [0,1]).
// Panics if slack is negative or not finite.
func WithBoundarySlack(slack float64) Option {
	if math.IsNaN(slack) || math.IsInf(slack, 0) || slack < 0 {
		panic(panicSlackInvalid)
	}
	return func(o *Options) { o.slack = slack }
}

// WithLogger routes debug diagnostics to logger instead of the logrus
// standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	if logger == nil {
		panic(panicLoggerNil)
	}
	return func(o *Options) { o.logger = logger }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		tol:       DefaultTolerance,
		maxIter:   DefaultMaxIterations,
		condLimit: DefaultConditionLimit,
		slack:     DefaultBoundarySlack,
		logger:    logrus.StandardLogger(),
	}
}

// gatherOptions applies opts on top of base, skipping nil setters.
func gatherOptions(base Options, opts ...Option) Options {
	for _, opt := range opts {
		if opt != nil {
			opt(&base)
		}
	}
	return base
}

// Tolerance returns the resolved ε.
func (o Options) Tolerance() float64 { return o.tol }

// MaxIterations returns the resolved iteration cap.
func (o Options) MaxIterations() int { return o.maxIter }

// debugEnabled reports whether logger emits Debug entries, so callers can
// skip building fields. Loggers other than *logrus.Logger and *logrus.Entry
// are assumed to.
func debugEnabled(logger logrus.FieldLogger) bool {
	switch lg := logger.(type) {
	case *logrus.Logger:
		return lg.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Entry:
		return lg.Logger.IsLevelEnabled(logrus.DebugLevel)
	}
	return true
}
