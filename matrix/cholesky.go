package matrix

import "math"

// ZeroPivot is the largest diagonal value treated as a non-positive pivot.
const ZeroPivot = 0.0

// DefaultPivotTolerance is the relative pivot threshold used when a solver's
// PivotTolerance is left at zero. A reduced pivot d with d ≤ tol·A[j][j] is
// rounding noise of an exactly dependent column, not a positive pivot.
const DefaultPivotTolerance = 1e-10

// Cholesky is the native Go band solver.
type Cholesky struct {
	// PivotTolerance is the relative threshold on reduced pivots;
	// zero selects DefaultPivotTolerance.
	PivotTolerance float64
}

// WithPivotTolerance returns a copy of the solver using tol.
func (c Cholesky) WithPivotTolerance(tol float64) BandSolver {
	c.PivotTolerance = tol
	return c
}

// Factor computes L with A = L·Lᵀ in place (left-looking band Cholesky).
//
// Implementation:
//   - Column j: d = A[j][j] − Σ L[j][k]² over k ∈ [j−kd, j).
//   - d ≤ tol·A[j][j] (or NaN) stops with ErrNotPositiveDefinite at column j+1;
//     A[j][j] is the diagonal before reduction.
//   - L[i][j] = (A[i][j] − Σ L[i][k]·L[j][k]) / L[j][j] for i ∈ (j, j+kd].
//
// Complexity: O(n·kd²) time, no extra memory.
func (c Cholesky) Factor(a *Banded) error {
	if err := validateFactor(a); err != nil {
		return err
	}
	n, w, ab := a.n, a.w, a.data
	kd := w - 1
	tol := pivotTolerance(c.PivotTolerance)
	for j := 0; j < n; j++ {
		lo := max(0, j-kd)
		a0 := ab[j*w]
		d := a0
		for k := lo; k < j; k++ {
			l := ab[k*w+(j-k)]
			d -= l * l
		}
		if !pivotOK(d, a0, tol) {
			return notPositiveDefinite(j + 1)
		}
		d = math.Sqrt(d)
		ab[j*w] = d

		hi := min(n-1, j+kd)
		for i := j + 1; i <= hi; i++ {
			s := ab[j*w+(i-j)]
			for k := max(0, i-kd); k < j; k++ {
				s -= ab[k*w+(i-k)] * ab[k*w+(j-k)]
			}
			ab[j*w+(i-j)] = s / d
		}
	}
	a.factored = true

	return nil
}

// Solve overwrites rhs with A⁻¹·rhs using the factor held in a:
// forward substitution with L, then back substitution with Lᵀ.
// Complexity: O(n·kd).
func (Cholesky) Solve(a *Banded, rhs []float64) error {
	if err := validateSolve(a, rhs); err != nil {
		return err
	}
	n, w, ab := a.n, a.w, a.data
	kd := w - 1
	for i := 0; i < n; i++ {
		s := rhs[i]
		for k := max(0, i-kd); k < i; k++ {
			s -= ab[k*w+(i-k)] * rhs[k]
		}
		rhs[i] = s / ab[i*w]
	}
	for i := n - 1; i >= 0; i-- {
		s := rhs[i]
		for k := i + 1; k <= min(n-1, i+kd); k++ {
			s -= ab[i*w+(k-i)] * rhs[k]
		}
		rhs[i] = s / ab[i*w]
	}

	return nil
}

func pivotTolerance(tol float64) float64 {
	if tol > 0 {
		return tol
	}
	return DefaultPivotTolerance
}

// pivotOK reports whether the reduced pivot d is positive and not lost in
// the cancellation against the original diagonal a0.
func pivotOK(d, a0, tol float64) bool {
	return d > ZeroPivot && d > tol*a0
}
