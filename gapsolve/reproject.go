package gapsolve

import "github.com/katalvlaran/lsgap/core"

// reproject rewrites the contig offsets of the scaffold from the gap
// sizes: the first contig's left end sits at (0, 0), every right end is
// left end + contig length and every next left end is the previous right
// end + gap (means and variances add). The scaffold length becomes the
// largest right end, after which the store recomputes it.
func (p *problem) reproject() error {
	var left, maxRight core.Length
	for i, c := range p.contigs {
		if i > 0 {
			left = p.contigs[i-1].RightEnd().Add(core.Length{Mean: p.gapMean[i-1], Variance: p.gapVar[i-1]})
		}
		oldA, oldB := c.OffsetA, c.OffsetB
		*c.LeftEnd() = left
		*c.RightEnd() = left.Add(c.Length)
		if i == 0 || c.RightEnd().Mean > maxRight.Mean {
			maxRight = *c.RightEnd()
		}
		if p.e.opts.verbose {
			p.log.Debug("reprojected contig", "ci", c.ID, "orient", c.Orientation.String(),
				"old_a", oldA.Mean, "old_b", oldB.Mean, "new_a", c.OffsetA.Mean, "new_b", c.OffsetB.Mean)
		}
	}
	p.scaffold.Length = maxRight
	_, err := p.e.g.RecomputeScaffoldLength(p.scaffold.ID)

	return err
}
