// File: classifier.go
// Role: edge trust classification against the current scaffold layout:
//       MarkInternalEdgeStatus (relabels), CheckInternalEdgeStatus (audit
//       only), IsInternalEdgeStatusVaguelyOK (relaxed predicate).
// Determinism:
//   - Contigs visited in scaffold order, edges in store order.
//   - Only canonical edges (lower index → higher index) are judged.

package gapsolve

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/stats"
)

// expectation is what an edge implies about its two contigs: the
// orientations both must have and the gap between the facing ends.
type expectation struct {
	this, other core.Orient
	gap         core.Length
}

// implied computes the expectation of an edge with orientation code orient
// (relative to this). The gap variance is the difference of the two end
// variances and may be non-positive.
func implied(orient core.PairOrient, this, other *core.Contig) expectation {
	switch orient {
	case core.ABBA:
		return expectation{core.OrientAB, core.OrientBA, diff(other.OffsetB, this.OffsetB)}
	case core.ABAB:
		return expectation{core.OrientAB, core.OrientAB, diff(other.OffsetA, this.OffsetB)}
	case core.BABA:
		return expectation{core.OrientBA, core.OrientBA, diff(other.OffsetB, this.OffsetA)}
	case core.BAAB:
		return expectation{core.OrientBA, core.OrientAB, diff(other.OffsetA, this.OffsetA)}
	}
	panic(fmt.Sprintf("gapsolve: invalid edge orientation %d", orient))
}

func diff(a, b core.Length) core.Length {
	return core.Length{Mean: a.Mean - b.Mean, Variance: a.Variance - b.Variance}
}

// Verdict reasons.
const (
	reasonOrientation   = "orientation"
	reasonGapVariance   = "gap-variance"
	reasonEdgeVariance  = "edge-variance"
	reasonChiSquare     = "chi-square"
	reasonLargeVariance = "large-variance"
)

// MarkParams configures MarkInternalEdgeStatus.
type MarkParams struct {
	// Threshold is the chi-square cutoff.
	Threshold float64
	// MaxVariance is the large-variance cutoff.
	MaxVariance float64
	// MarkTrusted selects trusted (true) or tentative-trusted (false).
	MarkTrusted bool
	// MarkUntrusted selects untrusted (true) or tentative-untrusted (false).
	MarkUntrusted bool
	// DoNotChange lists labels that are never overwritten.
	DoNotChange core.EdgeStatus
	// OperateOnMerged judges top-level (merged) edges instead of raw edges.
	OperateOnMerged bool
}

// MarkSummary reports what MarkInternalEdgeStatus did.
type MarkSummary struct {
	Labels    map[core.EdgeStatus]int
	Internal  int
	Confirmed int
}

// verdict is the label an edge deserves and why.
type verdict struct {
	status core.EdgeStatus
	reason string
	chi2   float64
	gap    core.Length
}

// judge classifies one canonical internal edge.
func (e *Estimator) judge(this, other *core.Contig, edge *core.Edge, threshold, maxVariance float64, trusted, untrusted core.EdgeStatus) verdict {
	exp := implied(edge.OrientWRT(this.ID), this, other)
	v := verdict{status: untrusted, gap: exp.gap}

	switch {
	case this.Orientation != exp.this || other.Orientation != exp.other:
		v.reason = reasonOrientation
	case exp.gap.Variance <= 0:
		v.reason = reasonGapVariance
	case edge.Distance.Variance <= 0:
		v.reason = reasonEdgeVariance
	default:
		ok, chi2 := stats.PairwiseChiSquare(exp.gap.Mean, exp.gap.Variance,
			edge.Distance.Mean, edge.Distance.Variance, threshold)
		v.chi2 = chi2
		switch {
		case !ok:
			v.reason = reasonChiSquare
		case edge.Distance.Variance > maxVariance:
			v.status, v.reason = core.StatusLargeVariance, reasonLargeVariance
		default:
			v.status = trusted
		}
	}

	return v
}

// MarkInternalEdgeStatus relabels the edges of a scaffold against its
// current layout and recounts the scaffold's internal edge tallies.
//
// Steps:
//  1. Skip edges whose label is in p.DoNotChange.
//  2. Edges to another scaffold become inter-scaffold.
//  3. Canonical internal edges are labelled: untrusted on orientation
//     mismatch, non-positive gap variance or chi-square failure;
//     large-variance when the edge variance exceeds p.MaxVariance;
//     trusted otherwise (tentative variants per p.MarkTrusted/MarkUntrusted).
//  4. Canonical internal top-level edges are tallied into InternalEdges
//     (trusted, tentative-trusted, tentative-untrusted) and
//     ConfirmedInternalEdges (trusted, tentative-trusted).
func (e *Estimator) MarkInternalEdgeStatus(scaffoldID string, p MarkParams) (MarkSummary, error) {
	scaf, err := e.g.Scaffold(scaffoldID)
	if err != nil {
		return MarkSummary{}, err
	}
	contigs, err := e.g.ScaffoldContigs(scaffoldID)
	if err != nil {
		return MarkSummary{}, err
	}
	log := e.log.With("scaffold_id", scaffoldID)

	trusted, untrusted := core.StatusTentativeTrusted, core.StatusTentativeUntrusted
	if p.MarkTrusted {
		trusted = core.StatusTrusted
	}
	if p.MarkUntrusted {
		untrusted = core.StatusUntrusted
	}

	sum := MarkSummary{Labels: make(map[core.EdgeStatus]int)}
	set := func(edge *core.Edge, s core.EdgeStatus) error {
		sum.Labels[s]++
		edgeLabelsTotal.WithLabelValues(s.String()).Inc()
		return e.g.SetEdgeStatus(edge.ID, s)
	}

	for _, this := range contigs {
		edges, err := e.g.Edges(this.ID, core.EdgeFilter{RawOnly: !p.OperateOnMerged})
		if err != nil {
			return sum, err
		}
		for _, edge := range edges {
			if edge.Status.Has(p.DoNotChange) {
				continue
			}
			other, err := e.g.Contig(edge.Other(this.ID))
			if err != nil {
				return sum, err
			}
			if other.ScaffoldID != scaffoldID {
				if err := set(edge, core.StatusInterScaffold); err != nil {
					return sum, err
				}
				continue
			}
			if other.Index <= this.Index {
				continue
			}

			v := e.judge(this, other, edge, p.Threshold, p.MaxVariance, trusted, untrusted)
			switch v.reason {
			case reasonGapVariance:
				log.Warn("bad gap variance",
					"edge_id", edge.ID, "this_ci", this.ID, "other_ci", other.ID,
					"gap_mean", v.gap.Mean, "gap_variance", v.gap.Variance)
			case reasonEdgeVariance:
				log.Warn("bad edge variance",
					"edge_id", edge.ID, "this_ci", this.ID, "other_ci", other.ID,
					"edge_variance", edge.Distance.Variance)
			case reasonOrientation, reasonChiSquare:
				if e.opts.verbose {
					log.Debug("edge not trusted", "reason", v.reason,
						"edge_id", edge.ID, "this_ci", this.ID, "other_ci", other.ID,
						"orient", edge.OrientWRT(this.ID).String(),
						"gap_mean", v.gap.Mean, "gap_variance", v.gap.Variance,
						"edge_mean", edge.Distance.Mean, "edge_variance", edge.Distance.Variance,
						"chi2", v.chi2)
				}
			}
			if err := set(edge, v.status); err != nil {
				return sum, err
			}
		}
	}

	for _, this := range contigs {
		edges, err := e.g.Edges(this.ID, core.EdgeFilter{})
		if err != nil {
			return sum, err
		}
		for _, edge := range edges {
			other, err := e.g.Contig(edge.Other(this.ID))
			if err != nil {
				return sum, err
			}
			if other.ScaffoldID != scaffoldID || other.Index <= this.Index {
				continue
			}
			switch edge.Status {
			case core.StatusTrusted, core.StatusTentativeTrusted:
				sum.Internal++
				sum.Confirmed++
			case core.StatusTentativeUntrusted:
				sum.Internal++
			}
		}
	}
	scaf.InternalEdges = sum.Internal
	scaf.ConfirmedInternalEdges = sum.Confirmed

	return sum, nil
}

// AuditSummary reports what CheckInternalEdgeStatus found.
type AuditSummary struct {
	Checked int
	// Disagreements counts edges whose current trust (trusted or not)
	// differs from what the layout supports.
	Disagreements int
}

// CheckInternalEdgeStatus re-judges the canonical internal top-level edges
// of a scaffold without relabelling anything. Trusted edges the layout no
// longer supports are logged at Warn; other disagreements at Debug when
// verbose.
func (e *Estimator) CheckInternalEdgeStatus(scaffoldID string, threshold, maxVariance float64, doNotChange core.EdgeStatus, verbose bool) (AuditSummary, error) {
	contigs, err := e.g.ScaffoldContigs(scaffoldID)
	if err != nil {
		return AuditSummary{}, err
	}
	log := e.log.With("scaffold_id", scaffoldID)

	var sum AuditSummary
	for _, this := range contigs {
		edges, err := e.g.Edges(this.ID, core.EdgeFilter{})
		if err != nil {
			return sum, err
		}
		for _, edge := range edges {
			if edge.Status.Has(doNotChange) {
				continue
			}
			other, err := e.g.Contig(edge.Other(this.ID))
			if err != nil {
				return sum, err
			}
			if other.ScaffoldID != scaffoldID || other.Index <= this.Index {
				continue
			}
			sum.Checked++
			v := e.judge(this, other, edge, threshold, maxVariance, core.StatusTrusted, core.StatusUntrusted)
			wasTrusted := edge.Status.Has(core.AllTrusted)
			isTrusted := v.status == core.StatusTrusted
			if wasTrusted == isTrusted {
				continue
			}
			sum.Disagreements++
			switch {
			case wasTrusted:
				log.Warn("trusted edge not supported by layout", "reason", v.reason,
					"edge_id", edge.ID, "this_ci", this.ID, "other_ci", other.ID,
					"gap_mean", v.gap.Mean, "gap_variance", v.gap.Variance,
					"edge_mean", edge.Distance.Mean, "edge_variance", edge.Distance.Variance,
					"chi2", v.chi2)
			case verbose:
				log.Debug("untrusted edge supported by layout",
					"edge_id", edge.ID, "status", edge.Status.String(), "chi2", v.chi2)
			}
		}
	}

	return sum, nil
}

// IsInternalEdgeStatusVaguelyOK applies the relaxed acceptance test used
// when trusted edges do not connect a scaffold: orientations must agree and
// the edge distance must lie within the absolute and sigma slops of the
// current gap.
//
// The edge must be canonical and internal to thisID's scaffold, and its
// variance must be positive; violations panic.
func (e *Estimator) IsInternalEdgeStatusVaguelyOK(edge *core.Edge, thisID string) (bool, error) {
	this, err := e.g.Contig(thisID)
	if err != nil {
		return false, err
	}
	other, err := e.g.Contig(edge.Other(thisID))
	if err != nil {
		return false, err
	}
	if this.ScaffoldID != other.ScaffoldID {
		panic(fmt.Sprintf("gapsolve: edge %s crosses scaffolds %s/%s", edge.ID, this.ScaffoldID, other.ScaffoldID))
	}
	if other.Index <= this.Index {
		panic(fmt.Sprintf("gapsolve: edge %s is not canonical from %s", edge.ID, thisID))
	}

	return e.edgeAndGapVaguelyCompatible(this, other, edge), nil
}

// edgeAndGapVaguelyCompatible is the relaxed test itself. A non-positive
// gap variance is logged and tolerated here, unlike in judge.
func (e *Estimator) edgeAndGapVaguelyCompatible(this, other *core.Contig, edge *core.Edge) bool {
	exp := implied(edge.OrientWRT(this.ID), this, other)
	if this.Orientation != exp.this || other.Orientation != exp.other {
		return false
	}
	if exp.gap.Variance <= 0 {
		e.log.Warn("bad gap variance (relaxed test continues)",
			"edge_id", edge.ID, "this_ci", this.ID, "other_ci", other.ID,
			"gap_mean", exp.gap.Mean, "gap_variance", exp.gap.Variance)
	}
	if edge.Distance.Variance <= 0 {
		panic(fmt.Sprintf("gapsolve: edge %s has variance %g", edge.ID, edge.Distance.Variance))
	}

	// Only a layout gap too long for the edge is bounded absolutely; an edge
	// longer than the gap is left to the sigma test.
	distDiff := exp.gap.Mean - edge.Distance.Mean
	if distDiff > e.opts.maxAbsoluteSlop {
		return false
	}
	diffVar := exp.gap.Variance + edge.Distance.Variance
	if diffVar < 0 {
		e.log.Warn("negative variance in relaxed test",
			"edge_id", edge.ID, "diff_variance", diffVar)
	}

	return math.Abs(distDiff)/math.Sqrt(math.Abs(diffVar)) <= e.opts.maxSigmaSlop
}
