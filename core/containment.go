package core

import "fmt"

// MergeContigs folds contig absorbID into keepID inside a scaffold after an
// overlap edge showed the two are the same sequence region (containment or
// an overlap that reorders them).
//
// The absorbed contig is positioned after keepID using the distance of the
// overlap edge (facing ends, negative distance = overlap). keepID grows to
// the union of both extents, absorbID leaves the scaffold with MergedInto set
// and every edge incident to it is deleted. The merged length variance is
// keepID's when absorbID lies inside it, absorbID's when absorbID covers it,
// and otherwise the sum of both length variances and the edge variance.
func (g *Graph) MergeContigs(scaffoldID, keepID, absorbID, overlapEdgeID string) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return ErrScaffoldNotFound
	}
	keep, ok := g.contigs[keepID]
	if !ok {
		return ErrContigNotFound
	}
	absorb, ok := g.contigs[absorbID]
	if !ok {
		return ErrContigNotFound
	}
	if keep.ScaffoldID != scaffoldID || absorb.ScaffoldID != scaffoldID {
		return ErrNotInScaffold
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	e, ok := g.edges[overlapEdgeID]
	if !ok {
		return fmt.Errorf("merge %s into %s: %w", absorbID, keepID, ErrEdgeNotFound)
	}

	left := keep.LeftEnd().Mean
	right := keep.RightEnd().Mean
	aLeft := right + e.Distance.Mean
	aRight := aLeft + absorb.Length.Mean
	lo, hi := min(left, aLeft), max(right, aRight)

	keep.Length = Length{Mean: hi - lo, Variance: mergedVariance(keep, absorb, e, left, right, aLeft, aRight)}
	keep.LeftEnd().Mean = lo
	keep.RightEnd().Mean = hi
	keep.RightEnd().Variance = keep.LeftEnd().Variance + keep.Length.Variance

	for eid := range g.adjacency[absorbID] {
		if err := g.removeEdgeLocked(eid); err != nil {
			return err
		}
	}
	g.unplaceLocked(s, absorb)
	absorb.MergedInto = keepID

	// keep's min offset may have moved
	g.unplaceLocked(s, keep)
	keep.ScaffoldID = scaffoldID
	g.placeLocked(s, keep)
	g.recomputeLengthLocked(s)

	return nil
}

func mergedVariance(keep, absorb *Contig, e *Edge, left, right, aLeft, aRight float64) float64 {
	switch {
	case aLeft >= left && aRight <= right:
		return keep.Length.Variance
	case aLeft <= left && aRight >= right:
		return absorb.Length.Variance
	}
	return keep.Length.Variance + absorb.Length.Variance + e.Distance.Variance
}
