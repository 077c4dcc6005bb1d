package matrix

import (
	"fmt"
	"math"
)

// Operation name constants for unified error wrapping.
const (
	opNew    = "NewBanded"
	opAt     = "At"
	opAdd    = "Add"
	opReset  = "Reset"
	opFactor = "Factor"
	opSolve  = "Solve"
)

// matrixErrorf wraps err with an operation tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Banded is a symmetric band matrix stored as its lower band, column-major.
// After Factor it holds the lower Cholesky factor L (A = L·Lᵀ) in the same
// layout.
type Banded struct {
	n, w     int
	data     []float64 // len >= cap(n)*w
	factored bool
}

// NewBanded allocates a zero n×n band with w stored diagonals.
// Complexity: O(n·w).
func NewBanded(n, w int) (*Banded, error) {
	if n < 0 || w < 1 {
		return nil, matrixErrorf(opNew, ErrBadShape)
	}

	return &Banded{n: n, w: w, data: make([]float64, n*w)}, nil
}

// N returns the order of the matrix.
func (b *Banded) N() int { return b.n }

// W returns the number of stored diagonals (bandwidth + 1).
func (b *Banded) W() int { return b.w }

// Factored reports whether b currently holds a Cholesky factor.
func (b *Banded) Factored() bool { return b.factored }

// Data exposes the band buffer (first n*w values). Layout: data[col*w + (row-col)].
func (b *Banded) Data() []float64 { return b.data[:b.n*b.w] }

func (b *Banded) index(row, col int) (int, error) {
	if row < 0 || col < 0 || row >= b.n || col >= b.n {
		return 0, ErrOutOfRange
	}
	if row < col {
		row, col = col, row
	}
	if row-col >= b.w {
		return 0, ErrOutsideBand
	}

	return col*b.w + (row - col), nil
}

// At returns element (row, col); elements outside the band are 0.
func (b *Banded) At(row, col int) (float64, error) {
	if b == nil {
		return 0, matrixErrorf(opAt, ErrNilMatrix)
	}
	k, err := b.index(row, col)
	if err == ErrOutsideBand {
		return 0, nil
	}
	if err != nil {
		return 0, matrixErrorf(opAt, err)
	}

	return b.data[k], nil
}

// Add accumulates v into element (row, col) (and, by symmetry, (col, row)).
func (b *Banded) Add(row, col int, v float64) error {
	if b == nil {
		return matrixErrorf(opAdd, ErrNilMatrix)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return matrixErrorf(opAdd, ErrNaNInf)
	}
	k, err := b.index(row, col)
	if err != nil {
		return matrixErrorf(opAdd, err)
	}
	b.data[k] += v
	b.factored = false

	return nil
}

// Reset zeroes the band and resizes it to order n, reusing the buffer when
// it is large enough. The bandwidth is kept.
func (b *Banded) Reset(n int) error {
	if b == nil {
		return matrixErrorf(opReset, ErrNilMatrix)
	}
	if n < 0 {
		return matrixErrorf(opReset, ErrBadShape)
	}
	if need := n * b.w; need > cap(b.data) {
		b.data = make([]float64, need)
	} else {
		b.data = b.data[:need]
		clear(b.data)
	}
	b.n = n
	b.factored = false

	return nil
}
