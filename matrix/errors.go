// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors. Algorithms return
// these sentinels (optionally wrapped with an op tag) and tests match them
// via errors.Is.

package matrix

import "errors"

var (
	// ErrBadShape is returned when a band shape is invalid (n < 0, w < 1).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index is outside [0,n).
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrOutsideBand indicates |row-col| >= w; the element is structurally zero.
	ErrOutsideBand = errors.New("matrix: element outside band")

	// ErrDimensionMismatch indicates a right-hand side whose length differs from n.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil *Banded was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrBadArgument mirrors a negative LAPACK info: the call itself is malformed.
	ErrBadArgument = errors.New("matrix: malformed solver call")

	// ErrNotPositiveDefinite mirrors a positive LAPACK info: a leading minor
	// is not positive, the system is singular for least-squares purposes.
	ErrNotPositiveDefinite = errors.New("matrix: not positive definite")

	// ErrNotFactored indicates Solve on a matrix that was not factored.
	ErrNotFactored = errors.New("matrix: matrix not factored")

	// ErrUnknownSolver indicates an unrecognised backend name.
	ErrUnknownSolver = errors.New("matrix: unknown solver backend")
)
