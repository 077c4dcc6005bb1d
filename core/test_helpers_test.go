// SPDX-License-Identifier: MIT
// Package core_test contains fixtures for lsgap/core.
//
// Purpose:
//   - Provide small, deterministic scaffold fixtures built through the public API.
//   - Keep magic numbers out of test bodies.

package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lsgap/core"
)

// Common contig and scaffold IDs used across core tests.
const (
	ContigA = "ctgA"
	ContigB = "ctgB"
	ContigC = "ctgC"
	ContigD = "ctgD"

	Scaffold1 = "scf1"
)

// Common lengths used across core tests.
const (
	Len1000 = 1000.0
	Len500  = 500.0
	Gap100  = 100.0
	Var25   = 25.0
)

// chain builds Scaffold1 with n forward contigs of length Len1000 separated
// by Gap100 and returns the graph with the contig IDs in order.
func chain(t *testing.T, ids ...string) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	require.NoError(t, g.AddScaffold(Scaffold1))
	pos := 0.0
	for _, id := range ids {
		require.NoError(t, g.AddContig(id, core.Length{Mean: Len1000, Variance: Var25}))
		require.NoError(t, g.InsertContig(Scaffold1, id,
			core.Length{Mean: pos}, core.Length{Mean: pos + Len1000, Variance: Var25}))
		pos += Len1000 + Gap100
	}

	return g
}

// mustEdge adds a trusted edge and returns its ID.
func mustEdge(t *testing.T, g *core.Graph, a, b string, orient core.PairOrient, s core.EdgeStatus) string {
	t.Helper()
	eid, err := g.AddEdge(a, b, orient, core.Length{Mean: Gap100, Variance: Var25}, core.WithStatus(s))
	require.NoError(t, err)

	return eid
}

func ids(cs []*core.Contig) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
