// Package matrix provides symmetric banded storage and banded
// symmetric-positive-definite solvers for least-squares normal equations.
//
// The package provides:
//
//   - Banded: an n×n symmetric matrix with w stored diagonals (main diagonal
//     included), kept in the LAPACK lower band layout, column-major:
//     element (row, col) with row ≥ col lives at data[col*w + (row-col)].
//   - BandSolver: in-place Cholesky factorisation (Factor) followed by any
//     number of solves against the factor (Solve).
//   - Cholesky: native Go band Cholesky (left-looking) and the two
//     triangular band substitutions.
//   - GonumSolver: the same contract on top of gonum's lapack64.Pbtrf and
//     lapack64.Pbtrs; the lower column-major buffer is passed as the
//     row-major upper band gonum expects, with no copy.
//
// Status reporting mirrors LAPACK: a malformed call (negative info) is
// ErrBadArgument, a leading minor that is not positive (positive info) is
// ErrNotPositiveDefinite wrapped with the failing column. A reduced pivot
// at or below PivotTolerance times the original diagonal is not positive.
package matrix
