package matrix

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// GonumSolver runs the band Cholesky through gonum's LAPACK port.
//
// The lower column-major band (element (i,j), i ≥ j, at j*w + (i−j)) is the
// same buffer as an upper row-major band with K = w−1 and Stride = w
// (element (j,i) at j*Stride + (i−j)), which is what lapack64.Pbtrf takes.
type GonumSolver struct {
	// PivotTolerance is the relative threshold on reduced pivots;
	// zero selects DefaultPivotTolerance.
	PivotTolerance float64
}

// WithPivotTolerance returns a copy of the solver using tol.
func (s GonumSolver) WithPivotTolerance(tol float64) BandSolver {
	s.PivotTolerance = tol
	return s
}

func (GonumSolver) band(a *Banded) blas64.SymmetricBand {
	return blas64.SymmetricBand{
		Uplo:   blas.Upper,
		N:      a.n,
		K:      a.w - 1,
		Stride: a.w,
		Data:   a.Data(),
	}
}

// Factor computes Uᵀ·U = A in place via lapack64.Pbtrf. Pbtrf only rejects
// non-positive pivots, so the factor is rechecked against the original
// diagonal with the same relative tolerance as the native backend.
func (s GonumSolver) Factor(a *Banded) error {
	if err := validateFactor(a); err != nil {
		return err
	}
	if a.n == 0 {
		a.factored = true
		return nil
	}
	diag := make([]float64, a.n)
	for j := range diag {
		diag[j] = a.data[j*a.w]
	}
	if _, ok := lapack64.Pbtrf(s.band(a)); !ok {
		return notPositiveDefinite(firstBadPivot(a))
	}
	tol := pivotTolerance(s.PivotTolerance)
	for j, a0 := range diag {
		u := a.data[j*a.w]
		if !pivotOK(u*u, a0, tol) {
			return notPositiveDefinite(j + 1)
		}
	}
	a.factored = true

	return nil
}

// Solve overwrites rhs with A⁻¹·rhs via lapack64.Pbtrs.
func (s GonumSolver) Solve(a *Banded, rhs []float64) error {
	if err := validateSolve(a, rhs); err != nil {
		return err
	}
	if a.n == 0 {
		return nil
	}
	sb := s.band(a)
	t := blas64.TriangularBand{
		Uplo:   blas.Upper,
		Diag:   blas.NonUnit,
		N:      sb.N,
		K:      sb.K,
		Stride: sb.Stride,
		Data:   sb.Data,
	}
	lapack64.Pbtrs(t, blas64.General{Rows: a.n, Cols: 1, Stride: 1, Data: rhs})

	return nil
}

// firstBadPivot locates the failing column of a Pbtrf call. The unblocked
// factorisation updates the trailing diagonals as it goes, so the failing
// column holds the first non-positive diagonal.
func firstBadPivot(a *Banded) int {
	for j := 0; j < a.n; j++ {
		if !(a.data[j*a.w] > ZeroPivot) {
			return j + 1
		}
	}
	return a.n
}
