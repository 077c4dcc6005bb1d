// File: enforcer.go
// Role: forces solved gaps to respect the minimum allowed gap unless an
//       overlap between the two contigs confirms the negative gap.
// Outcomes per active gap below the minimum:
//   - confirming overlap with out-of-order or containment flag → merge,
//     ContiggedContainments (the caller restarts the scaffold);
//   - no overlap → clamp to the minimum, variance recomputed, fixed;
//   - overlap within the slop of the solved value → fixed at the solved value;
//   - overlap elsewhere → fixed at the overlap distance.

package gapsolve

import (
	"math"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/stats"
)

// enforce runs one compaction pass over the gaps. fixed reports whether
// any gap left the unknown set.
func (p *problem) enforce() (fixed bool, st Status, err error) {
	o := p.e.opts
	p.idx.begin()
	for gap := 0; gap < p.idx.numGaps(); gap++ {
		if p.idx.isFixed(gap) {
			continue
		}
		mean, variance := p.gapMean[gap], p.gapVar[gap]
		if mean >= o.minAllowedGap {
			p.idx.keep(gap)
			continue
		}

		prev, this := p.contigs[gap], p.contigs[gap+1]
		orient := core.PairOrientFor(prev.Orientation, this.Orientation)
		edge, alternate, err := p.findOverlapEdge(prev, this, orient, mean, variance)
		if err != nil {
			return false, OK, err
		}
		attrs := []any{"gap", gap, "prev_ci", prev.ID, "this_ci", this.ID, "gap_mean", mean, "gap_variance", variance}

		switch {
		case edge != nil && (alternate || edge.Containment):
			p.log.Info("merging contigs on overlap", append(attrs,
				"edge_id", edge.ID, "alternate", alternate, "containment", edge.Containment)...)
			if err := p.e.g.MergeContigs(p.scaffold.ID, prev.ID, this.ID, edge.ID); err != nil {
				return false, OK, err
			}
			return false, ContiggedContainments, nil

		case edge == nil:
			lower := mean - 3*math.Sqrt(math.Max(variance, 0))
			std := (lower - o.minAllowedGap) / 3
			p.gapMean[gap], p.gapVar[gap] = o.minAllowedGap, std*std
			gapsFixedTotal.WithLabelValues(fixClamped).Inc()
			p.log.Debug("clamped gap to minimum", append(attrs, "new_variance", std*std)...)

		case math.Abs(edge.Distance.Mean-mean) <= o.overlapSlop:
			gapsFixedTotal.WithLabelValues(fixAccepted).Inc()
			p.log.Debug("overlap confirms solved gap", append(attrs, "edge_id", edge.ID)...)

		default:
			p.gapMean[gap] = edge.Distance.Mean
			gapsFixedTotal.WithLabelValues(fixForced).Inc()
			p.log.Debug("forced gap to overlap", append(attrs, "edge_id", edge.ID, "overlap", edge.Distance.Mean)...)
		}
		p.idx.fix(gap)
		p.fixed++
		fixed = true
	}

	return fixed, OK, nil
}

// findOverlapEdge looks for an overlap between the facing ends of prev and
// this that is compatible with a gap of (mean, variance).
//
// Existing raw, non-containment overlap edges with the right orientation
// are tried first and the lowest chi-square passing edge wins. Otherwise
// the detector is queried for overlaps within the 3σ window of the gap
// (never shorter than the missed-overlap allowance); a found overlap is
// stored as an edge and tested. alternate reports an out-of-order overlap.
func (p *problem) findOverlapEdge(prev, this *core.Contig, orient core.PairOrient, mean, variance float64) (edge *core.Edge, alternate bool, err error) {
	o := p.e.opts
	g := p.e.g
	ovVar := o.overlapVariance()

	end := core.EndA
	if orient.LeavesB() {
		end = core.EndB
	}
	edges, err := g.Edges(prev.ID, core.EdgeFilter{End: end, RawOnly: true})
	if err != nil {
		return nil, false, err
	}
	bestChi := math.Inf(1)
	for _, cand := range edges {
		if cand.Other(prev.ID) != this.ID || !cand.Overlap || cand.Containment || cand.OrientWRT(prev.ID) != orient {
			continue
		}
		ok, chi := p.chiSquare(mean, variance, cand.Distance.Mean, ovVar)
		if ok && chi < bestChi {
			edge, bestChi = cand, chi
		}
	}
	if edge != nil || o.detector == nil {
		return edge, false, nil
	}

	sigma := math.Sqrt(math.Max(variance, 0))
	missed := o.missedOverlap()
	minOverlap := math.Max(missed, -(mean + 3*sigma))
	maxOverlap := -(mean - 3*sigma)
	if maxOverlap < missed {
		return nil, false, nil
	}
	ov := o.detector.Find(prev.ID, this.ID, orient, minOverlap, maxOverlap, o.overlapErrorRate)
	if ov.Length <= 0 {
		return nil, false, nil
	}

	effective := -ov.Length
	if ov.Suspicious {
		effective = -(prev.Length.Mean + this.Length.Mean - ov.Length)
	}
	found, err := g.InsertOverlapEdge(prev.ID, this.ID, orient,
		core.Length{Mean: -ov.Length, Variance: ovVar}, ov.Containment)
	if err != nil {
		return nil, false, err
	}
	if ok, chi := p.chiSquare(mean, variance, effective, ovVar); !ok {
		p.log.Debug("detected overlap does not fit gap",
			"prev_ci", prev.ID, "this_ci", this.ID, "overlap", ov.Length,
			"suspicious", ov.Suspicious, "gap_mean", mean, "chi2", chi)
		return nil, false, nil
	}

	return found, ov.Suspicious, nil
}

// chiSquare is stats.PairwiseChiSquare with a non-positive gap variance
// treated as incompatible.
func (p *problem) chiSquare(m1, v1, m2, v2 float64) (bool, float64) {
	if v1 <= 0 || v2 <= 0 {
		return false, math.Inf(1)
	}
	return stats.PairwiseChiSquare(m1, v1, m2, v2, p.e.opts.chiSquareThreshold)
}
