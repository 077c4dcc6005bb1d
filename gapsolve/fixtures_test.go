// Package gapsolve_test contains fixtures for lsgap/gapsolve.
//
// Layout of the standard fixture (forward contigs, length 1000 ± 5):
//
//	ctgA [0, 1000]  gap 100  ctgB [1100, 2100]  gap 100  ctgC [2200, 3200] ...
//
// Left-end variances grow by 50 per contig, so every gap implied by the
// layout has variance 25.
package gapsolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/gapsolve"
)

const (
	ContigA = "ctgA"
	ContigB = "ctgB"
	ContigC = "ctgC"
	ContigD = "ctgD"
	ContigX = "ctgX"

	Scaffold1 = "scf1"
	Scaffold2 = "scf2"
)

const (
	ContigLen    = 1000.0
	ContigLenVar = 25.0
	LayoutGap    = 100.0
	EdgeVar      = 400.0
)

// layout places ids in order into scaffold sid as described in the package
// comment.
func layout(t *testing.T, g *core.Graph, sid string, ids ...string) {
	t.Helper()
	require.NoError(t, g.AddScaffold(sid))
	for i, id := range ids {
		require.NoError(t, g.AddContig(id, core.Length{Mean: ContigLen, Variance: ContigLenVar}))
		left := core.Length{Mean: float64(i) * (ContigLen + LayoutGap), Variance: float64(i) * 50}
		right := left.Add(core.Length{Mean: ContigLen, Variance: ContigLenVar})
		require.NoError(t, g.InsertContig(sid, id, left, right))
	}
}

func chain(t *testing.T, ids ...string) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	layout(t, g, Scaffold1, ids...)
	return g
}

// edge adds an AB_AB edge a→b with the given distance and status.
func edge(t *testing.T, g *core.Graph, a, b string, mean, variance float64, s core.EdgeStatus, opts ...core.EdgeOption) string {
	t.Helper()
	opts = append([]core.EdgeOption{core.WithStatus(s)}, opts...)
	eid, err := g.AddEdge(a, b, core.ABAB, core.Length{Mean: mean, Variance: variance}, opts...)
	require.NoError(t, err)
	return eid
}

// consistentChain is ctgA..ctgC with clones agreeing on gaps of 120 and 80:
// one clone per gap plus one spanning ctgB.
func consistentChain(t *testing.T, s core.EdgeStatus) *core.Graph {
	t.Helper()
	g := chain(t, ContigA, ContigB, ContigC)
	edge(t, g, ContigA, ContigB, 120, EdgeVar, s)
	edge(t, g, ContigB, ContigC, 80, EdgeVar, s)
	edge(t, g, ContigA, ContigC, 120+ContigLen+80, EdgeVar, s)
	return g
}

func estimator(t *testing.T, g gapsolve.Graph, opts ...gapsolve.Option) *gapsolve.Estimator {
	t.Helper()
	e, err := gapsolve.NewEstimator(g, opts...)
	require.NoError(t, err)
	return e
}

func contig(t *testing.T, g *core.Graph, id string) *core.Contig {
	t.Helper()
	c, err := g.Contig(id)
	require.NoError(t, err)
	return c
}

// gapVariances returns the diagonal of the inverse of the 2x2 normal
// matrix of consistentChain.
func gapVariances() (float64, float64) {
	span := 1 / (EdgeVar + ContigLenVar)
	a := 1/EdgeVar + span
	det := a*a - span*span
	return a / det, a / det
}
