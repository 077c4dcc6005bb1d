// SPDX-License-Identifier: MIT

// Package gapsolve: functional configuration for the gap estimator.
// This file defines:
//   - documented defaults (constants, single source of truth),
//   - Options (unexported fields) and Option setters,
//   - WithX constructors that panic on nonsensical values.
//
// Every knob is passed explicitly through an Estimator; the package keeps no
// mutable global configuration.
package gapsolve

import (
	"io"
	"log/slog"

	"github.com/katalvlaran/lsgap/matrix"
)

// Statistical thresholds.
const (
	// DefaultChiSquareThreshold is the pairwise chi-square cutoff for
	// declaring an edge distance compatible with the current layout.
	DefaultChiSquareThreshold = 2.0

	// DefaultMaxEdgeVariance is the variance above which an otherwise
	// compatible edge is labelled large-variance instead of trusted.
	DefaultMaxEdgeVariance = 1.0e8

	// DefaultGuideVarianceFactor scales DefaultMaxEdgeVariance when guide
	// edges take part in marking.
	DefaultGuideVarianceFactor = 1000.0

	// DefaultAuditMaxVariance is the variance ceiling of the audit pass run
	// at the start of every recompute.
	DefaultAuditMaxVariance = 1.0e11
)

// Overlap enforcement.
const (
	// DefaultMinAllowedGap is the most negative gap accepted without
	// overlap evidence (the missed-overlap allowance, negated).
	DefaultMinAllowedGap = -20.0

	// DefaultOverlapSlop is the absolute tolerance between a solved gap and
	// a confirming overlap edge; its square over 9 is the variance used for
	// overlap chi-square tests.
	DefaultOverlapSlop = 10.0

	// DefaultOverlapErrorRate is the alignment error rate passed to the
	// overlap detector.
	DefaultOverlapErrorRate = 0.10
)

// Relaxed edge acceptance.
const (
	// DefaultMaxAbsoluteSlop bounds gap − edge distance from above for the
	// relaxed test.
	DefaultMaxAbsoluteSlop = 10000.0

	// DefaultMaxSigmaSlop bounds |gap − edge| / σ for the relaxed test.
	DefaultMaxSigmaSlop = 10000.0
)

// Driver and memory policy.
const (
	// DefaultMaxAttempts bounds the recompute retries per scaffold.
	DefaultMaxAttempts = 100

	// DefaultCloneGrowth is the capacity growth factor of the clone arena.
	DefaultCloneGrowth = 1.2

	// DefaultInitialClones is the initial clone arena capacity.
	DefaultInitialClones = 64

	// DefaultProgressEvery is the scaffold count between progress records.
	DefaultProgressEvery = 10000

	// DefaultPivotTolerance is the relative Cholesky pivot threshold below
	// which the gap system is reported Singular.
	DefaultPivotTolerance = matrix.DefaultPivotTolerance
)

// Options holds the estimator configuration. Build with DefaultOptions and
// Option setters; fields are unexported so every value passes validation.
type Options struct {
	chiSquareThreshold  float64
	maxEdgeVariance     float64
	guideVarianceFactor float64
	auditMaxVariance    float64
	minAllowedGap       float64
	overlapSlop         float64
	overlapErrorRate    float64
	maxAbsoluteSlop     float64
	maxSigmaSlop        float64
	maxAttempts         int
	cloneGrowth         float64
	initialClones       int
	progressEvery       int
	pivotTolerance      float64

	markEdges         bool
	useGuides         bool
	forceNonOverlaps  bool
	checkConnectivity bool
	requireTwoEdge    bool
	verbose           bool
	abortOnSingular   bool

	logger   *slog.Logger
	solver   matrix.BandSolver
	detector OverlapDetector
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults: edges are marked,
// connectivity is checked, non-overlaps are forced, the native band solver
// is used and logging is discarded.
func DefaultOptions() Options {
	return Options{
		chiSquareThreshold:  DefaultChiSquareThreshold,
		maxEdgeVariance:     DefaultMaxEdgeVariance,
		guideVarianceFactor: DefaultGuideVarianceFactor,
		auditMaxVariance:    DefaultAuditMaxVariance,
		minAllowedGap:       DefaultMinAllowedGap,
		overlapSlop:         DefaultOverlapSlop,
		overlapErrorRate:    DefaultOverlapErrorRate,
		maxAbsoluteSlop:     DefaultMaxAbsoluteSlop,
		maxSigmaSlop:        DefaultMaxSigmaSlop,
		maxAttempts:         DefaultMaxAttempts,
		cloneGrowth:         DefaultCloneGrowth,
		initialClones:       DefaultInitialClones,
		progressEvery:       DefaultProgressEvery,
		pivotTolerance:      DefaultPivotTolerance,
		markEdges:           true,
		forceNonOverlaps:    true,
		checkConnectivity:   true,
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		solver:              matrix.Cholesky{},
	}
}

// missedOverlap is the positive overlap allowance (−minAllowedGap).
func (o Options) missedOverlap() float64 { return -o.minAllowedGap }

// overlapVariance is the variance assigned to overlap-derived distances.
func (o Options) overlapVariance() float64 { return o.overlapSlop * o.overlapSlop / 9 }

// bandSolver returns the configured solver with the pivot tolerance applied.
func (o Options) bandSolver() matrix.BandSolver {
	if pt, ok := o.solver.(matrix.PivotTolerant); ok {
		return pt.WithPivotTolerance(o.pivotTolerance)
	}
	return o.solver
}

// markingMaxVariance is the large-variance cutoff used by the driver.
func (o Options) markingMaxVariance() float64 {
	if o.useGuides {
		return o.guideVarianceFactor * o.maxEdgeVariance
	}
	return o.maxEdgeVariance
}

// WithChiSquareThreshold sets the chi-square cutoff. Panics if t <= 0.
func WithChiSquareThreshold(t float64) Option {
	if !(t > 0) {
		panic("gapsolve: WithChiSquareThreshold(t<=0)")
	}
	return func(o *Options) { o.chiSquareThreshold = t }
}

// WithMaxEdgeVariance sets the large-variance cutoff. Panics if v <= 0.
func WithMaxEdgeVariance(v float64) Option {
	if !(v > 0) {
		panic("gapsolve: WithMaxEdgeVariance(v<=0)")
	}
	return func(o *Options) { o.maxEdgeVariance = v }
}

// WithGuideVarianceFactor sets the guide scale. Panics if f < 1.
func WithGuideVarianceFactor(f float64) Option {
	if !(f >= 1) {
		panic("gapsolve: WithGuideVarianceFactor(f<1)")
	}
	return func(o *Options) { o.guideVarianceFactor = f }
}

// WithAuditMaxVariance sets the audit pass variance ceiling. Panics if v <= 0.
func WithAuditMaxVariance(v float64) Option {
	if !(v > 0) {
		panic("gapsolve: WithAuditMaxVariance(v<=0)")
	}
	return func(o *Options) { o.auditMaxVariance = v }
}

// WithMinAllowedGap sets the most negative gap tolerated without overlap
// evidence. Panics if g > 0.
func WithMinAllowedGap(g float64) Option {
	if !(g <= 0) {
		panic("gapsolve: WithMinAllowedGap(g>0)")
	}
	return func(o *Options) { o.minAllowedGap = g }
}

// WithOverlapSlop sets the overlap tolerance. Panics if s <= 0.
func WithOverlapSlop(s float64) Option {
	if !(s > 0) {
		panic("gapsolve: WithOverlapSlop(s<=0)")
	}
	return func(o *Options) { o.overlapSlop = s }
}

// WithOverlapErrorRate sets the detector error rate. Panics outside [0,1).
func WithOverlapErrorRate(r float64) Option {
	if !(r >= 0 && r < 1) {
		panic("gapsolve: WithOverlapErrorRate(r∉[0,1))")
	}
	return func(o *Options) { o.overlapErrorRate = r }
}

// WithRelaxedSlop sets the absolute and sigma bounds of the relaxed edge
// test. Panics if either is <= 0.
func WithRelaxedSlop(absolute, sigma float64) Option {
	if !(absolute > 0 && sigma > 0) {
		panic("gapsolve: WithRelaxedSlop(<=0)")
	}
	return func(o *Options) { o.maxAbsoluteSlop, o.maxSigmaSlop = absolute, sigma }
}

// WithMaxAttempts bounds recompute retries per scaffold. Panics if n < 1.
func WithMaxAttempts(n int) Option {
	if n < 1 {
		panic("gapsolve: WithMaxAttempts(n<1)")
	}
	return func(o *Options) { o.maxAttempts = n }
}

// WithCloneGrowth sets the clone arena growth factor. Panics if f <= 1.
func WithCloneGrowth(f float64) Option {
	if !(f > 1) {
		panic("gapsolve: WithCloneGrowth(f<=1)")
	}
	return func(o *Options) { o.cloneGrowth = f }
}

// WithInitialClones sets the initial clone arena capacity. Panics if n < 1.
func WithInitialClones(n int) Option {
	if n < 1 {
		panic("gapsolve: WithInitialClones(n<1)")
	}
	return func(o *Options) { o.initialClones = n }
}

// WithProgressEvery sets the progress log interval. Panics if n < 1.
func WithProgressEvery(n int) Option {
	if n < 1 {
		panic("gapsolve: WithProgressEvery(n<1)")
	}
	return func(o *Options) { o.progressEvery = n }
}

// WithPivotTolerance sets the relative pivot threshold handed to solvers
// that accept one. Panics outside (0,1).
func WithPivotTolerance(t float64) Option {
	if !(t > 0 && t < 1) {
		panic("gapsolve: WithPivotTolerance(t∉(0,1))")
	}
	return func(o *Options) { o.pivotTolerance = t }
}

// WithMarkEdges toggles trust relabelling before each scaffold.
func WithMarkEdges(on bool) Option { return func(o *Options) { o.markEdges = on } }

// WithUseGuides scales the large-variance cutoff by the guide factor.
func WithUseGuides(on bool) Option { return func(o *Options) { o.useGuides = on } }

// WithForceNonOverlaps toggles overlap enforcement after each solve.
func WithForceNonOverlaps(on bool) Option { return func(o *Options) { o.forceNonOverlaps = on } }

// WithCheckConnectivity toggles the trusted-edge connectivity split.
func WithCheckConnectivity(on bool) Option { return func(o *Options) { o.checkConnectivity = on } }

// WithRequireTwoEdgeConnected also splits scaffolds whose trusted edges
// connect them only through bridges. Off by default.
func WithRequireTwoEdgeConnected(on bool) Option {
	return func(o *Options) { o.requireTwoEdge = on }
}

// WithVerbose enables debug dumps of the linear system and offsets.
func WithVerbose(on bool) Option { return func(o *Options) { o.verbose = on } }

// WithAbortOnSingular turns a singular system into ErrSingularSystem.
func WithAbortOnSingular(on bool) Option { return func(o *Options) { o.abortOnSingular = on } }

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("gapsolve: WithLogger(nil)")
	}
	return func(o *Options) { o.logger = l }
}

// WithSolver sets the band solver backend. Panics on nil.
func WithSolver(s matrix.BandSolver) Option {
	if s == nil {
		panic("gapsolve: WithSolver(nil)")
	}
	return func(o *Options) { o.solver = s }
}

// WithOverlapDetector installs the overlap detector used when no overlap
// edge already confirms a negative gap. Without one, such gaps are clamped.
func WithOverlapDetector(d OverlapDetector) Option {
	return func(o *Options) { o.detector = d }
}
