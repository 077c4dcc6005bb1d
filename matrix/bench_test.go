package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lsgap/matrix"
)

// benchmarkFactorSolve fills an n×n diagonally dominant band of width w,
// factors it and solves one right-hand side per iteration.
func benchmarkFactorSolve(b *testing.B, s matrix.BandSolver, n, w int) {
	a, err := matrix.NewBanded(n, w)
	if err != nil {
		b.Fatalf("NewBanded: %v", err)
	}
	rhs := make([]float64, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := a.Reset(n); err != nil {
			b.Fatalf("Reset: %v", err)
		}
		for col := 0; col < n; col++ {
			_ = a.Add(col, col, float64(2*w))
			for d := 1; d < w && col+d < n; d++ {
				_ = a.Add(col+d, col, -1)
			}
			rhs[col] = 1
		}
		if err := s.Factor(a); err != nil {
			b.Fatalf("Factor: %v", err)
		}
		if err := s.Solve(a, rhs); err != nil {
			b.Fatalf("Solve: %v", err)
		}
	}
}

func BenchmarkCholesky_1000x4(b *testing.B) {
	benchmarkFactorSolve(b, matrix.Cholesky{}, 1000, 4)
}

func BenchmarkGonum_1000x4(b *testing.B) {
	benchmarkFactorSolve(b, matrix.GonumSolver{}, 1000, 4)
}

func BenchmarkCholesky_1000x16(b *testing.B) {
	benchmarkFactorSolve(b, matrix.Cholesky{}, 1000, 16)
}

func BenchmarkGonum_1000x16(b *testing.B) {
	benchmarkFactorSolve(b, matrix.GonumSolver{}, 1000, 16)
}
