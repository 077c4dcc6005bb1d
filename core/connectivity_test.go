package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lsgap/core"
)

func TestComponentsOverTrustedEdges(t *testing.T) {
	g := chain(t, ContigA, ContigB, ContigC, ContigD)
	mustEdge(t, g, ContigA, ContigB, core.ABAB, core.StatusTrusted)
	mustEdge(t, g, ContigC, ContigD, core.ABAB, core.StatusTentativeTrusted)
	mustEdge(t, g, ContigB, ContigC, core.ABAB, core.StatusUntrusted)

	comps, err := g.Components(Scaffold1, core.AllTrusted, false)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{ContigA, ContigB}, {ContigC, ContigD}}, comps)

	ok, err := g.IsConnected(Scaffold1, core.AllTrusted)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.IsConnected(Scaffold1, core.AllInternal)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTwoEdgeConnectivity(t *testing.T) {
	g := chain(t, ContigA, ContigB, ContigC)
	mustEdge(t, g, ContigA, ContigB, core.ABAB, core.StatusTrusted)
	mustEdge(t, g, ContigA, ContigB, core.ABAB, core.StatusTrusted) // parallel: not a bridge
	mustEdge(t, g, ContigB, ContigC, core.ABAB, core.StatusTrusted) // bridge

	ok, err := g.IsTwoEdgeConnected(Scaffold1, core.AllTrusted)
	require.NoError(t, err)
	assert.False(t, ok)

	comps, err := g.Components(Scaffold1, core.AllTrusted, true)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{ContigA, ContigB}, {ContigC}}, comps)

	mustEdge(t, g, ContigA, ContigC, core.ABAB, core.StatusTrusted) // closes the cycle
	ok, err = g.IsTwoEdgeConnected(Scaffold1, core.AllTrusted)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSplitScaffold(t *testing.T) {
	g := chain(t, ContigA, ContigB, ContigC, ContigD)
	mustEdge(t, g, ContigA, ContigB, core.ABAB, core.StatusTrusted)
	mustEdge(t, g, ContigC, ContigD, core.ABAB, core.StatusTrusted)

	n, err := g.SplitScaffold(Scaffold1, core.AllTrusted, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := g.ScaffoldContigs(Scaffold1)
	require.NoError(t, err)
	assert.Equal(t, []string{ContigA, ContigB}, ids(first))

	second, err := g.ScaffoldContigs(Scaffold1 + ".1")
	require.NoError(t, err)
	require.Equal(t, []string{ContigC, ContigD}, ids(second))
	assert.Equal(t, 0.0, second[0].LeftEnd().Mean)
	assert.Equal(t, Len1000+Gap100, second[1].LeftEnd().Mean)
	assert.Equal(t, Scaffold1+".1", second[0].ScaffoldID)

	s2, err := g.Scaffold(Scaffold1 + ".1")
	require.NoError(t, err)
	assert.Equal(t, 2*Len1000+Gap100, s2.Length.Mean)

	n, err = g.SplitScaffold(Scaffold1, core.AllTrusted, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMergeContigs(t *testing.T) {
	g := chain(t, ContigA, ContigB, ContigC)
	// B overlaps A by 900 and ends past it
	eid, err := g.AddEdge(ContigA, ContigB, core.ABAB, core.Length{Mean: -900, Variance: 11}, core.WithContainment())
	require.NoError(t, err)
	mustEdge(t, g, ContigB, ContigC, core.ABAB, core.StatusTrusted)

	require.NoError(t, g.MergeContigs(Scaffold1, ContigA, ContigB, eid))

	cs, err := g.ScaffoldContigs(Scaffold1)
	require.NoError(t, err)
	assert.Equal(t, []string{ContigA, ContigC}, ids(cs))

	a, err := g.Contig(ContigA)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, a.Length.Mean)
	assert.Equal(t, 1100.0, a.RightEnd().Mean)
	assert.Equal(t, Var25+Var25+11, a.Length.Variance)
	assert.Equal(t, Var25+Var25+11, a.RightEnd().Variance)

	b, err := g.Contig(ContigB)
	require.NoError(t, err)
	assert.Equal(t, ContigA, b.MergedInto)
	assert.Empty(t, b.ScaffoldID)
	left, err := g.Edges(ContigB, core.EdgeFilter{})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestMergeContigsLengthVariance(t *testing.T) {
	tests := []struct {
		name      string
		absorbLen float64
		absorbVar float64
		distance  float64
		wantMean  float64
		wantVar   float64
	}{
		{"partial overlap sums variances", Len1000, 40, -400, 1600, Var25 + 40 + 11},
		{"absorbed inside keep", Len500, 40, -800, Len1000, Var25},
		{"absorbed covers keep", 2000, 40, -1500, 2000, 40},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := core.NewGraph()
			require.NoError(t, g.AddScaffold(Scaffold1))
			require.NoError(t, g.AddContig(ContigA, core.Length{Mean: Len1000, Variance: Var25}))
			require.NoError(t, g.AddContig(ContigB, core.Length{Mean: tc.absorbLen, Variance: tc.absorbVar}))
			require.NoError(t, g.InsertContig(Scaffold1, ContigA,
				core.Length{Mean: 0}, core.Length{Mean: Len1000, Variance: Var25}))
			bLeft := core.Length{Mean: Len1000 + Gap100, Variance: 50}
			require.NoError(t, g.InsertContig(Scaffold1, ContigB,
				bLeft, bLeft.Add(core.Length{Mean: tc.absorbLen, Variance: tc.absorbVar})))
			eid, err := g.AddEdge(ContigA, ContigB, core.ABAB,
				core.Length{Mean: tc.distance, Variance: 11}, core.WithContainment())
			require.NoError(t, err)

			require.NoError(t, g.MergeContigs(Scaffold1, ContigA, ContigB, eid))

			a, err := g.Contig(ContigA)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMean, a.Length.Mean)
			assert.Equal(t, tc.wantVar, a.Length.Variance)
			assert.Equal(t, tc.wantVar, a.RightEnd().Variance-a.LeftEnd().Variance)
		})
	}
}
