package gapsolve

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lsgap/matrix"
)

// solve factors the normal equations, solves for the active gap sizes and
// derives the weighted squared error and the per-gap variances.
//
// Gap variances come from one back-solve per clone: with x = A⁻¹·s, where
// s is the indicator of the clone's spanned unknowns, every unknown k
// receives x[k]² / clone variance.
func (p *problem) solve() (Status, error) {
	p.passes++
	if err := p.accumulate(); err != nil {
		return Lapack, err
	}
	solver := p.e.opts.solver
	if err := solver.Factor(p.a); err != nil {
		if errors.Is(err, matrix.ErrNotPositiveDefinite) {
			p.log.Warn("singular gap system", "unknowns", p.a.N(), "clones", p.clones.len(), "error", err)
			return Singular, nil
		}
		return Lapack, fmt.Errorf("%w: %w", ErrMalformedSystem, err)
	}

	n := p.a.N()
	x := make([]float64, n)
	copy(x, p.rhs)
	if err := solver.Solve(p.a, x); err != nil {
		return Lapack, fmt.Errorf("%w: %w", ErrMalformedSystem, err)
	}

	variance := make([]float64, n)
	p.squaredError = 0
	for _, c := range p.clones.items {
		units := p.spanned(c)
		residual := c.mean
		for _, u := range units {
			residual -= x[u]
		}
		p.squaredError += residual * residual / c.variance
		if len(units) == 0 {
			continue
		}

		p.scratch = resize(p.scratch, n)
		for _, u := range units {
			p.scratch[u] = 1
		}
		if err := solver.Solve(p.a, p.scratch); err != nil {
			return Lapack, fmt.Errorf("%w: %w", ErrMalformedSystem, err)
		}
		for k, v := range p.scratch {
			variance[k] += v * v / c.variance
		}
	}

	for u := 0; u < n; u++ {
		gap := p.idx.gap(u)
		p.gapMean[gap], p.gapVar[gap] = x[u], variance[u]
		if p.e.opts.verbose {
			p.log.Debug("solved gap", "gap", gap, "mean", x[u], "variance", variance[u])
		}
	}

	return OK, nil
}
