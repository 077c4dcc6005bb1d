// File: builder.go
// Role: gathers the clones of a scaffold and accumulates the normal
//       equations of the gap least-squares problem.
// Layout:
//   - Gap i lies between contig i and contig i+1 (scaffold order).
//   - A clone from contig i to contig j spans gaps [i, j).
//   - Unknowns are the active gaps, densely renumbered by gapIndex.

package gapsolve

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/matrix"
)

// span is an accepted canonical edge from contig `from` to contig `to`.
type span struct {
	from, to int
	edge     *core.Edge
}

// problem is the working state of one recompute.
type problem struct {
	e        *Estimator
	log      *slog.Logger
	scaffold *core.Scaffold
	contigs  []*core.Contig

	spans  []span
	width  int // max(to − from), the number of stored diagonals
	clones *cloneArena
	idx    *gapIndex

	gapMean, gapVar []float64 // per gap

	a       *matrix.Banded
	rhs     []float64
	scratch []float64
	units   []int // unknowns spanned by the clone being processed

	squaredError float64
	passes       int
	fixed        int
}

func (e *Estimator) newProblem(s *core.Scaffold, contigs []*core.Contig, log *slog.Logger) *problem {
	n := len(contigs) - 1
	p := &problem{
		e:        e,
		log:      log,
		scaffold: s,
		contigs:  contigs,
		width:    1,
		clones:   newCloneArena(e.opts.initialClones, e.opts.cloneGrowth),
		idx:      newGapIndex(n),
		gapMean:  make([]float64, n),
		gapVar:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		g := diff(*contigs[i+1].LeftEnd(), *contigs[i].RightEnd())
		p.gapMean[i], p.gapVar[i] = g.Mean, g.Variance
	}

	return p
}

// collectSpans gathers the raw canonical internal edges in mask. With
// relaxed, edges must also pass IsInternalEdgeStatusVaguelyOK.
func (p *problem) collectSpans(mask core.EdgeStatus, relaxed bool) error {
	g := p.e.g
	for _, this := range p.contigs {
		edges, err := g.Edges(this.ID, core.EdgeFilter{Status: mask, RawOnly: true})
		if err != nil {
			return err
		}
		for _, edge := range edges {
			other, err := g.Contig(edge.Other(this.ID))
			if err != nil {
				return err
			}
			if other.ScaffoldID != p.scaffold.ID || other.Index <= this.Index {
				continue
			}
			if edge.Distance.Variance <= 0 {
				p.log.Warn("skipping clone with non-positive variance",
					"edge_id", edge.ID, "this_ci", this.ID, "other_ci", other.ID)
				continue
			}
			if relaxed {
				ok, err := p.e.IsInternalEdgeStatusVaguelyOK(edge, this.ID)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			p.spans = append(p.spans, span{from: this.Index, to: other.Index, edge: edge})
			p.width = max(p.width, other.Index-this.Index)
		}
	}

	return nil
}

// buildClones reduces every span to a clone over its gaps: the lengths of
// fully spanned contigs and the sizes of fixed gaps are subtracted from the
// mean, the spanned contig length variances are added to the variance.
func (p *problem) buildClones() {
	p.clones.reset()
	for _, s := range p.spans {
		c := clone{start: s.from, end: s.to, mean: s.edge.Distance.Mean, variance: s.edge.Distance.Variance}
		for k := s.from + 1; k < s.to; k++ {
			c.mean -= p.contigs[k].Length.Mean
			c.variance += p.contigs[k].Length.Variance
		}
		for gap := s.from; gap < s.to; gap++ {
			if p.idx.isFixed(gap) {
				c.mean -= p.gapMean[gap]
			}
		}
		p.clones.push(c)
	}
}

// spanned fills p.units with the unknowns of clone c in increasing order.
func (p *problem) spanned(c clone) []int {
	p.units = p.units[:0]
	for gap := c.start; gap < c.end; gap++ {
		if u, ok := p.idx.unknown(gap); ok {
			p.units = append(p.units, u)
		}
	}
	return p.units
}

// accumulate zeroes and fills the band and right-hand side:
// A[r][c] += 1/var for every pair of spanned unknowns, rhs[c] += mean/var.
func (p *problem) accumulate() error {
	n := p.idx.count()
	if p.a == nil {
		a, err := matrix.NewBanded(n, p.width)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedSystem, err)
		}
		p.a = a
	} else if err := p.a.Reset(n); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSystem, err)
	}
	p.rhs = resize(p.rhs, n)

	for _, c := range p.clones.items {
		w := 1 / c.variance
		units := p.spanned(c)
		for i, row := range units {
			p.rhs[row] += c.mean * w
			for _, col := range units[:i+1] {
				if err := p.a.Add(row, col, w); err != nil {
					return fmt.Errorf("%w: clone [%d,%d): %w", ErrMalformedSystem, c.start, c.end, err)
				}
			}
		}
	}
	if p.e.opts.verbose {
		p.dumpSystem()
	}

	return nil
}

func (p *problem) dumpSystem() {
	n, w := p.a.N(), p.a.W()
	data := p.a.Data()
	for col := 0; col < n; col++ {
		p.log.Debug("normal equations", "unknown", col, "gap", p.idx.gap(col),
			"constant", p.rhs[col], "band", data[col*w:(col+1)*w])
	}
}

// resize returns buf with length n, zeroed.
func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
