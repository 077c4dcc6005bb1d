package gapsolve_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/gapsolve"
	"github.com/katalvlaran/lsgap/matrix"
	"github.com/katalvlaran/lsgap/overlap"
)

func outcomes(rep gapsolve.Report) map[string]gapsolve.ScaffoldOutcome {
	out := make(map[string]gapsolve.ScaffoldOutcome, len(rep.Scaffolds))
	for _, o := range rep.Scaffolds {
		out[o.ScaffoldID] = o
	}
	return out
}

func TestEstimateAll_MarksAndSolves(t *testing.T) {
	g := consistentChain(t, core.StatusUnknown)
	e := estimator(t, g)

	rep, err := e.EstimateAll(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(rep.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 1, rep.Processed)
	assert.Zero(t, rep.Splits)
	assert.Zero(t, rep.Failed)
	assert.Equal(t, map[gapsolve.Status]int{gapsolve.OK: 1}, rep.Counts())

	out := outcomes(rep)[Scaffold1]
	assert.Equal(t, 1, out.Attempts)
	assert.InDelta(t, 120, out.Result.Gaps[0].Mean, tol)
	assert.InDelta(t, 80, out.Result.Gaps[1].Mean, tol)

	s, err := g.Scaffold(Scaffold1)
	require.NoError(t, err)
	assert.Equal(t, 3, s.ConfirmedInternalEdges)
}

func TestEstimateAll_WithoutMarking(t *testing.T) {
	g := consistentChain(t, core.StatusTrusted)
	e := estimator(t, g, gapsolve.WithMarkEdges(false))

	rep, err := e.EstimateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gapsolve.OK, outcomes(rep)[Scaffold1].Status)
}

func TestEstimateAll_SplitsOnTrustedComponents(t *testing.T) {
	g := chain(t, ContigA, ContigB, ContigC, ContigD)
	edge(t, g, ContigA, ContigB, 120, EdgeVar, core.StatusUnknown)
	edge(t, g, ContigB, ContigC, 5000, EdgeVar, core.StatusUnknown)
	edge(t, g, ContigC, ContigD, 120, EdgeVar, core.StatusUnknown)
	e := estimator(t, g)

	rep, err := e.EstimateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Splits)
	assert.Equal(t, 2, rep.Processed)
	assert.Zero(t, rep.Failed)

	byID := outcomes(rep)
	require.Contains(t, byID, Scaffold1)
	require.Contains(t, byID, Scaffold1+".1")
	for _, id := range []string{Scaffold1, Scaffold1 + ".1"} {
		o := byID[id]
		assert.Equal(t, gapsolve.OK, o.Status, id)
		require.Len(t, o.Result.Gaps, 1, id)
		assert.InDelta(t, 120, o.Result.Gaps[0].Mean, tol, id)
	}

	assert.Equal(t, Scaffold1+".1", contig(t, g, ContigC).ScaffoldID)
	assert.Equal(t, core.Length{}, contig(t, g, ContigC).OffsetA)
}

func TestEstimateAll_ContainmentRestarts(t *testing.T) {
	g := negativePair(t)
	table := overlap.NewTable()
	require.NoError(t, table.Register(ContigA, ContigB, core.ABAB, 50, overlap.Containment()))
	e := estimator(t, g, gapsolve.WithMarkEdges(false), gapsolve.WithCheckConnectivity(false),
		gapsolve.WithOverlapDetector(table))

	rep, err := e.EstimateAll(context.Background())
	require.NoError(t, err)

	out := outcomes(rep)[Scaffold1]
	assert.Equal(t, gapsolve.NoGaps, out.Status, "one contig left after the merge")
	assert.Equal(t, 1, out.Restarts)
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, 1, rep.Restarts)
	assert.Zero(t, rep.Failed)
}

func TestEstimateAll_RenormalizesStart(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddScaffold(Scaffold1))
	require.NoError(t, g.AddContig(ContigA, core.Length{Mean: ContigLen, Variance: ContigLenVar}))
	require.NoError(t, g.InsertContig(Scaffold1, ContigA,
		core.Length{Mean: 100, Variance: 10}, core.Length{Mean: 1100, Variance: 35}))
	e := estimator(t, g)

	rep, err := e.EstimateAll(context.Background())
	require.NoError(t, err)

	out := outcomes(rep)[Scaffold1]
	assert.Equal(t, gapsolve.NoGaps, out.Status)
	assert.True(t, out.Renormalized)
	a := contig(t, g, ContigA)
	assert.Equal(t, core.Length{}, a.OffsetA)
	assert.Equal(t, core.Length{Mean: ContigLen, Variance: ContigLenVar}, a.OffsetB)
}

func TestEstimateAll_RenormalizesTwoContigStart(t *testing.T) {
	l := func(m, v float64) core.Length { return core.Length{Mean: m, Variance: v} }
	tests := []struct {
		name         string
		aLeft, bLeft core.Length
		wantA, wantB core.Length
		renormalized bool
	}{
		{"start past zero", l(100, 10), l(1200, 60), l(0, 0), l(1100, 50), true},
		{"start before zero", l(-50, 10), l(1050, 60), l(0, 0), l(1100, 70), true},
		{"zero mean keeps variance", l(0, 10), l(1100, 60), l(0, 10), l(1100, 60), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := core.NewGraph()
			require.NoError(t, g.AddScaffold(Scaffold1))
			size := l(ContigLen, ContigLenVar)
			for _, c := range []struct {
				id   string
				left core.Length
			}{{ContigA, tc.aLeft}, {ContigB, tc.bLeft}} {
				require.NoError(t, g.AddContig(c.id, size))
				require.NoError(t, g.InsertContig(Scaffold1, c.id, c.left, c.left.Add(size)))
			}
			e := estimator(t, g, gapsolve.WithMarkEdges(false), gapsolve.WithCheckConnectivity(false))

			rep, err := e.EstimateAll(context.Background())
			require.NoError(t, err)

			out := outcomes(rep)[Scaffold1]
			assert.Equal(t, gapsolve.NotEnoughClones, out.Status)
			assert.Equal(t, tc.renormalized, out.Renormalized)
			a, b := contig(t, g, ContigA), contig(t, g, ContigB)
			assert.Equal(t, tc.wantA, a.OffsetA)
			assert.Equal(t, tc.wantA.Add(size), a.OffsetB)
			assert.Equal(t, tc.wantB, b.OffsetA)
			assert.Equal(t, tc.wantB.Add(size), b.OffsetB)
		})
	}
}

func TestEstimateAll_NotEnoughClonesIsRecorded(t *testing.T) {
	g := chain(t, ContigA, ContigB, ContigC)
	edge(t, g, ContigA, ContigC, 1200, EdgeVar, core.StatusTrusted)
	e := estimator(t, g, gapsolve.WithMarkEdges(false), gapsolve.WithCheckConnectivity(false))

	rep, err := e.EstimateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, gapsolve.NotEnoughClones, outcomes(rep)[Scaffold1].Status)
}

func TestEstimateAll_SingularAborts(t *testing.T) {
	g := singularChain(t, 7)
	e := estimator(t, g, gapsolve.WithMarkEdges(false), gapsolve.WithCheckConnectivity(false),
		gapsolve.WithAbortOnSingular(true))

	_, err := e.EstimateAll(context.Background())
	require.ErrorIs(t, err, gapsolve.ErrSingularSystem)
}

func TestEstimateAll_ContainmentRestartBudget(t *testing.T) {
	cases := []struct {
		name         string
		maxAttempts  int
		wantStatus   gapsolve.Status
		wantAttempts int
		wantFailed   int
	}{
		{"budget spent by merge", 1, gapsolve.ContiggedContainments, 1, 1},
		{"restart solves merged scaffold", 2, gapsolve.NoGaps, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := negativePair(t)
			table := overlap.NewTable()
			require.NoError(t, table.Register(ContigB, ContigA, core.BABA, 50, overlap.Containment()))
			e := estimator(t, g, gapsolve.WithOverlapDetector(table), gapsolve.WithMaxAttempts(tc.maxAttempts),
				gapsolve.WithMarkEdges(false), gapsolve.WithCheckConnectivity(false))

			rep, err := e.EstimateAll(context.Background())
			require.NoError(t, err)

			out := outcomes(rep)[Scaffold1]
			assert.Equal(t, tc.wantStatus, out.Status)
			assert.Equal(t, tc.wantAttempts, out.Attempts)
			assert.Equal(t, 1, out.Restarts)
			assert.Equal(t, 1, rep.Restarts)
			assert.Equal(t, tc.wantFailed, rep.Failed)
			assert.Equal(t, ContigA, contig(t, g, ContigB).MergedInto)
		})
	}
}

func TestEstimateAll_MalformedSystemFails(t *testing.T) {
	g := consistentChain(t, core.StatusTrusted)
	bad := failingSolver{factorErr: matrix.ErrBadArgument}
	e := estimator(t, g, gapsolve.WithSolver(bad), gapsolve.WithMarkEdges(false))

	_, err := e.EstimateAll(context.Background())
	require.ErrorIs(t, err, gapsolve.ErrMalformedSystem)
	assert.ErrorIs(t, err, matrix.ErrBadArgument)
}

func TestEstimateAll_Cancelled(t *testing.T) {
	g := consistentChain(t, core.StatusUnknown)
	e := estimator(t, g)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EstimateAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewEstimator_NilGraph(t *testing.T) {
	_, err := gapsolve.NewEstimator(nil)
	require.ErrorIs(t, err, gapsolve.ErrNilGraph)
}
