// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Define the BandSolver contract shared by the native and gonum backends.
//   - Centralise argument validation so both backends fail identically.
//
// Contract:
//   - Factor overwrites a with its lower Cholesky factor (in place).
//   - Solve overwrites rhs with x such that A·x = rhs, using the factor.
//   - Factor on a non-SPD band returns ErrNotPositiveDefinite wrapped with
//     the 1-based failing column; the band contents are then unspecified.
//     A reduced pivot at or below PivotTolerance times the original diagonal
//     counts as not positive.

package matrix

import (
	"fmt"
	"math"
)

// BandSolver factors and solves symmetric positive-definite band systems.
type BandSolver interface {
	Factor(a *Banded) error
	Solve(a *Banded, rhs []float64) error
}

// PivotTolerant is implemented by solvers with a configurable relative
// pivot threshold. Both built-in backends implement it.
type PivotTolerant interface {
	WithPivotTolerance(tol float64) BandSolver
}

// Backend names accepted by SolverByName.
const (
	BackendNative = "native"
	BackendGonum  = "gonum"
)

// SolverByName returns the backend registered under name.
func SolverByName(name string) (BandSolver, error) {
	switch name {
	case BackendNative, "":
		return Cholesky{}, nil
	case BackendGonum:
		return GonumSolver{}, nil
	}

	return nil, fmt.Errorf("%q: %w", name, ErrUnknownSolver)
}

// validateFactor – nil and finiteness checks before factorisation.
func validateFactor(a *Banded) error {
	if a == nil {
		return matrixErrorf(opFactor, ErrNilMatrix)
	}
	for _, v := range a.Data() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return matrixErrorf(opFactor, ErrNaNInf)
		}
	}

	return nil
}

// validateSolve – the band must hold a factor and rhs must have length n.
func validateSolve(a *Banded, rhs []float64) error {
	if a == nil {
		return matrixErrorf(opSolve, ErrNilMatrix)
	}
	if !a.factored {
		return matrixErrorf(opSolve, ErrNotFactored)
	}
	if len(rhs) != a.n {
		return matrixErrorf(opSolve, ErrDimensionMismatch)
	}

	return nil
}

// notPositiveDefinite reports the failing 1-based column like LAPACK info > 0.
func notPositiveDefinite(col int) error {
	return fmt.Errorf("%s: leading minor %d: %w", opFactor, col, ErrNotPositiveDefinite)
}
