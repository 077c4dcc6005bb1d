package gapsolve

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/matrix"
)

func TestGapIndexCompaction(t *testing.T) {
	idx := newGapIndex(4)
	require.Equal(t, 4, idx.count())

	idx.begin()
	idx.keep(0)
	idx.fix(1)
	idx.keep(2)
	idx.fix(3)

	assert.Equal(t, 2, idx.count())
	assert.Equal(t, 4, idx.numGaps())
	assert.True(t, idx.isFixed(1))
	assert.True(t, idx.isFixed(3))

	u, ok := idx.unknown(2)
	require.True(t, ok)
	assert.Equal(t, 1, u)
	assert.Equal(t, 2, idx.gap(u))
	_, ok = idx.unknown(1)
	assert.False(t, ok)

	// second pass keeps gap order among survivors
	idx.begin()
	idx.fix(0)
	idx.keep(2)
	u, _ = idx.unknown(2)
	assert.Equal(t, 0, u)
	assert.Equal(t, 1, idx.count())
}

func TestCloneArenaGrowth(t *testing.T) {
	before := testutil.ToFloat64(cloneArenaGrows)
	a := newCloneArena(2, 1.2)
	for i := 0; i < 4; i++ {
		a.push(clone{start: i, end: i + 1, mean: float64(i), variance: 1})
	}

	// 2 → ⌈2.4⌉ = 3 → ⌈3.6⌉ = 4
	assert.Equal(t, 2, a.grows)
	assert.Equal(t, 4, a.len())
	assert.Equal(t, 4, cap(a.items))
	assert.Equal(t, 3.0, a.items[3].mean)
	assert.Equal(t, before+2, testutil.ToFloat64(cloneArenaGrows))

	a.reset()
	assert.Zero(t, a.len())
	assert.Equal(t, 4, cap(a.items), "reset keeps capacity")
}

func TestCloneArenaGrowsByAtLeastOne(t *testing.T) {
	a := newCloneArena(1, 1.01)
	a.push(clone{})
	a.push(clone{})
	assert.Equal(t, 2, cap(a.items))
}

// threeContigs is A, B, C of length 1000 ± 5 with 100 bp gaps and one
// trusted A→C clone of 1200 ± √375.
func threeContigs(t *testing.T) (*core.Graph, *core.Scaffold, []*core.Contig) {
	t.Helper()
	g := core.NewGraph()
	require.NoError(t, g.AddScaffold("s"))
	for i, id := range []string{"A", "B", "C"} {
		require.NoError(t, g.AddContig(id, core.Length{Mean: 1000, Variance: 25}))
		left := core.Length{Mean: float64(i) * 1100, Variance: float64(i) * 50}
		require.NoError(t, g.InsertContig("s", id, left, left.Add(core.Length{Mean: 1000, Variance: 25})))
	}
	_, err := g.AddEdge("A", "C", core.ABAB, core.Length{Mean: 1200, Variance: 375}, core.WithStatus(core.StatusTrusted))
	require.NoError(t, err)

	s, err := g.Scaffold("s")
	require.NoError(t, err)
	contigs, err := g.ScaffoldContigs("s")
	require.NoError(t, err)

	return g, s, contigs
}

func TestBuilderAccumulatesNormalEquations(t *testing.T) {
	g, s, contigs := threeContigs(t)
	e, err := NewEstimator(g)
	require.NoError(t, err)

	p := e.newProblem(s, contigs, e.log)
	assert.Equal(t, []float64{100, 100}, p.gapMean)
	assert.Equal(t, []float64{25, 25}, p.gapVar)

	require.NoError(t, p.collectSpans(core.AllTrusted, false))
	require.Len(t, p.spans, 1)
	assert.Equal(t, 2, p.width)

	p.buildClones()
	require.Equal(t, 1, p.clones.len())
	c := p.clones.items[0]
	assert.Equal(t, clone{start: 0, end: 2, mean: 200, variance: 400}, c)

	require.NoError(t, p.accumulate())
	for _, rc := range [][2]int{{0, 0}, {1, 0}, {1, 1}} {
		v, err := p.a.At(rc[0], rc[1])
		require.NoError(t, err)
		assert.InDelta(t, 0.0025, v, 1e-15, "A[%d][%d]", rc[0], rc[1])
	}
	assert.InDelta(t, 0.5, p.rhs[0], 1e-12)
	assert.InDelta(t, 0.5, p.rhs[1], 1e-12)
}

func TestBuilderSubtractsFixedGaps(t *testing.T) {
	g, s, contigs := threeContigs(t)
	e, err := NewEstimator(g)
	require.NoError(t, err)

	p := e.newProblem(s, contigs, e.log)
	require.NoError(t, p.collectSpans(core.AllTrusted, false))
	p.gapMean[0] = 150
	p.idx.begin()
	p.idx.fix(0)
	p.idx.keep(1)
	p.buildClones()

	c := p.clones.items[0]
	assert.Equal(t, 50.0, c.mean)
	assert.Equal(t, []int{0}, p.spanned(c))

	require.NoError(t, p.accumulate())
	assert.Equal(t, 1, p.a.N())
}

func TestRecomputeMetrics(t *testing.T) {
	g, _, _ := threeContigs(t)
	e, err := NewEstimator(g)
	require.NoError(t, err)

	counter := recomputeTotal.WithLabelValues(NotEnoughClones.String())
	before := testutil.ToFloat64(counter)
	res, err := e.RecomputeOffsets(context.Background(), "s")
	require.NoError(t, err)
	require.Equal(t, NotEnoughClones, res.Status)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "not-enough-clones", NotEnoughClones.String())
	assert.Equal(t, "contigged-containments", ContiggedContainments.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestOptionDefaults(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.markEdges)
	assert.True(t, o.forceNonOverlaps)
	assert.True(t, o.checkConnectivity)
	assert.False(t, o.requireTwoEdge)
	assert.Equal(t, 20.0, o.missedOverlap())
	assert.InDelta(t, 100.0/9, o.overlapVariance(), 1e-12)
	assert.Equal(t, DefaultMaxEdgeVariance, o.markingMaxVariance())

	WithUseGuides(true)(&o)
	assert.Equal(t, DefaultMaxEdgeVariance*DefaultGuideVarianceFactor, o.markingMaxVariance())
}

func TestOptionPanics(t *testing.T) {
	cases := map[string]func(){
		"chi2":       func() { WithChiSquareThreshold(0) },
		"variance":   func() { WithMaxEdgeVariance(-1) },
		"guide":      func() { WithGuideVarianceFactor(0.5) },
		"audit":      func() { WithAuditMaxVariance(0) },
		"min gap":    func() { WithMinAllowedGap(5) },
		"slop":       func() { WithOverlapSlop(0) },
		"error rate": func() { WithOverlapErrorRate(1) },
		"relaxed":    func() { WithRelaxedSlop(0, 1) },
		"attempts":   func() { WithMaxAttempts(0) },
		"growth":     func() { WithCloneGrowth(1) },
		"clones":     func() { WithInitialClones(0) },
		"progress":   func() { WithProgressEvery(0) },
		"pivot zero": func() { WithPivotTolerance(0) },
		"pivot one":  func() { WithPivotTolerance(1) },
		"logger":     func() { WithLogger(nil) },
		"solver":     func() { WithSolver(nil) },
	}
	for name, fn := range cases {
		assert.Panics(t, fn, name)
	}
}

func TestBandSolverCarriesPivotTolerance(t *testing.T) {
	tests := []struct {
		name   string
		solver matrix.BandSolver
		want   matrix.BandSolver
	}{
		{"native", matrix.Cholesky{}, matrix.Cholesky{PivotTolerance: 1e-6}},
		{"gonum", matrix.GonumSolver{}, matrix.GonumSolver{PivotTolerance: 1e-6}},
	}
	for _, tc := range tests {
		o := DefaultOptions()
		WithSolver(tc.solver)(&o)
		WithPivotTolerance(1e-6)(&o)
		assert.Equal(t, tc.want, o.bandSolver(), tc.name)
	}

	e, err := NewEstimator(core.NewGraph())
	require.NoError(t, err)
	assert.Equal(t, matrix.Cholesky{PivotTolerance: DefaultPivotTolerance}, e.opts.solver)
}
