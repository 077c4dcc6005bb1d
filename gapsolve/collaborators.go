package gapsolve

import (
	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/overlap"
)

// Store is the scaffold graph as seen by the estimator.
type Store interface {
	Scaffold(id string) (*core.Scaffold, error)
	Scaffolds() []*core.Scaffold
	ScaffoldContigs(id string) ([]*core.Contig, error)
	Contig(id string) (*core.Contig, error)
	Edges(contigID string, f core.EdgeFilter) ([]*core.Edge, error)
	SetEdgeStatus(edgeID string, s core.EdgeStatus) error
	InsertOverlapEdge(a, b string, orient core.PairOrient, dist core.Length, containment bool) (*core.Edge, error)
	RecomputeScaffoldLength(id string) (core.Length, error)
	ShiftOffsets(scaffoldID, fromContigID string, delta core.Length) error
}

// Connectivity checks and splits scaffolds on a status mask.
type Connectivity interface {
	IsConnected(scaffoldID string, mask core.EdgeStatus) (bool, error)
	IsTwoEdgeConnected(scaffoldID string, mask core.EdgeStatus) (bool, error)
	SplitScaffold(scaffoldID string, mask core.EdgeStatus, excludeBridges bool) (int, error)
}

// ContainmentMerger folds one contig into another.
type ContainmentMerger interface {
	MergeContigs(scaffoldID, keepID, absorbID, overlapEdgeID string) error
}

// Graph bundles every graph-side collaborator; *core.Graph implements it.
type Graph interface {
	Store
	Connectivity
	ContainmentMerger
}

// OverlapDetector searches for a sequence overlap between the facing ends
// of two contigs with a length in [minOverlap, maxOverlap].
type OverlapDetector interface {
	Find(a, b string, orient core.PairOrient, minOverlap, maxOverlap, errRate float64) overlap.Overlap
}

var (
	_ Graph           = (*core.Graph)(nil)
	_ OverlapDetector = (*overlap.Table)(nil)
)
