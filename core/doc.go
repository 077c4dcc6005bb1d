// Package core provides the thread-safe in-memory scaffold graph used by the
// gap estimator: contigs with positions inside scaffolds, mate-pair and
// overlap edges between contigs, and the trust labels attached to them.
//
// The store models G = (C, E) where C are contigs and E are distance
// constraints between contig ends:
//
//   - A Contig has a Length{Mean, Variance}, an orientation inside its
//     scaffold (OrientAB forward, OrientBA reverse) and two end offsets
//     (OffsetA, OffsetB) measured from the scaffold start.
//   - A Scaffold is an ordered set of contigs (ordered by minimum offset)
//     plus the statistics written by a least-squares solve.
//   - An Edge connects the ends of two contigs with a PairOrient code
//     (ABAB, ABBA, BAAB, BABA, relative to Edge.A) and a Distance.
//     Raw edges are single observations; merged edges combine several raw
//     edges between the same pair. Setting the status of a merged edge
//     propagates to its raw members.
//
// Beyond storage the package implements the graph-side services needed by the
// estimator:
//
//	– Edges(contigID, EdgeFilter)     end/status/raw filtered iteration
//	– SetEdgeStatus                   trust relabelling (merged → members)
//	– Components / SplitScaffold      connectivity over a status mask,
//	                                  optionally ignoring bridges
//	– IsTwoEdgeConnected              bridge detection (iterative DFS)
//	– MergeContigs                    containment merge of two contigs
//	– RecomputeScaffoldLength         length = max contig end offset
//	– ShiftOffsets                    add a Length delta to a scaffold suffix
//
// Determinism: every listing is returned in a stable order. Contigs sorts by
// ID, ScaffoldContigs and Components follow scaffold position, Scaffolds and
// Edges follow insertion sequence.
//
// Concurrency: muNodes guards contigs and scaffolds, muEdgeAdj guards edges
// and adjacency. Methods that need both take muNodes first. Pointers returned
// by lookups are live; callers that mutate contig offsets (the estimator)
// must own the scaffold for the duration of the mutation.
package core
