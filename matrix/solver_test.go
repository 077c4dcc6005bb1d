package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lsgap/matrix"
)

const tol = 1e-9

// SolverSuite runs the BandSolver contract against one backend.
type SolverSuite struct {
	suite.Suite
	solver matrix.BandSolver
}

func TestNativeSolver(t *testing.T) {
	suite.Run(t, &SolverSuite{solver: matrix.Cholesky{}})
}

func TestGonumSolver(t *testing.T) {
	suite.Run(t, &SolverSuite{solver: matrix.GonumSolver{}})
}

// tridiagonal returns tridiag(-1, 2, -1) of order n.
func tridiagonal(t require.TestingT, n int) *matrix.Banded {
	a, err := matrix.NewBanded(n, 2)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, a.Add(i, i, 2))
		if i > 0 {
			require.NoError(t, a.Add(i, i-1, -1))
		}
	}
	return a
}

func (s *SolverSuite) TestTridiagonal() {
	a := tridiagonal(s.T(), 5)
	require.NoError(s.T(), s.solver.Factor(a))
	assert.True(s.T(), a.Factored())

	rhs := []float64{0, 0, 0, 0, 6}
	require.NoError(s.T(), s.solver.Solve(a, rhs))
	for i, want := range []float64{1, 2, 3, 4, 5} {
		assert.InDelta(s.T(), want, rhs[i], tol)
	}

	// factor is reusable for further right-hand sides
	e := []float64{1, 0, 0, 0, 0}
	require.NoError(s.T(), s.solver.Solve(a, e))
	// first column of the inverse of tridiag(-1,2,-1)_5 is (5,4,3,2,1)/6
	for i, want := range []float64{5, 4, 3, 2, 1} {
		assert.InDelta(s.T(), want/6, e[i], tol)
	}
}

func (s *SolverSuite) TestWiderBand() {
	// A = [4 2 1; 2 5 2; 1 2 6], x = (1, -1, 2) → b = (4, 1, 11)
	a, err := matrix.NewBanded(3, 3)
	require.NoError(s.T(), err)
	for _, v := range []struct {
		r, c int
		x    float64
	}{{0, 0, 4}, {1, 0, 2}, {2, 0, 1}, {1, 1, 5}, {2, 1, 2}, {2, 2, 6}} {
		require.NoError(s.T(), a.Add(v.r, v.c, v.x))
	}
	require.NoError(s.T(), s.solver.Factor(a))
	rhs := []float64{4, 1, 11}
	require.NoError(s.T(), s.solver.Solve(a, rhs))
	assert.InDelta(s.T(), 1.0, rhs[0], tol)
	assert.InDelta(s.T(), -1.0, rhs[1], tol)
	assert.InDelta(s.T(), 2.0, rhs[2], tol)
}

func (s *SolverSuite) TestSingular() {
	a, err := matrix.NewBanded(2, 2)
	require.NoError(s.T(), err)
	require.NoError(s.T(), a.Add(0, 0, 1))
	require.NoError(s.T(), a.Add(1, 0, 1))
	require.NoError(s.T(), a.Add(1, 1, 1))

	err = s.solver.Factor(a)
	require.ErrorIs(s.T(), err, matrix.ErrNotPositiveDefinite)
	assert.Contains(s.T(), err.Error(), "leading minor 2")
	assert.False(s.T(), a.Factored())
}

// Rank-one bands whose entries are not exact in binary leave a reduced pivot
// of rounding size rather than zero.
func (s *SolverSuite) TestRankOneRoundingPivot() {
	for _, w := range []float64{2.0 / 7, 1.0 / 3, 0.1, 2 / 123.456, 2.0 / 1000, 1e6 / 7} {
		a, err := matrix.NewBanded(3, 2)
		require.NoError(s.T(), err)
		require.NoError(s.T(), a.Add(0, 0, w))
		require.NoError(s.T(), a.Add(1, 0, w))
		require.NoError(s.T(), a.Add(1, 1, w))
		require.NoError(s.T(), a.Add(2, 2, 1))

		err = s.solver.Factor(a)
		require.ErrorIs(s.T(), err, matrix.ErrNotPositiveDefinite, "w=%v", w)
		assert.Contains(s.T(), err.Error(), "leading minor 2", "w=%v", w)
	}
}

func (s *SolverSuite) TestPivotTolerance() {
	spd := func() *matrix.Banded {
		a, err := matrix.NewBanded(2, 2)
		require.NoError(s.T(), err)
		require.NoError(s.T(), a.Add(0, 0, 2))
		require.NoError(s.T(), a.Add(1, 0, 1))
		require.NoError(s.T(), a.Add(1, 1, 2))
		return a
	}
	pt, ok := s.solver.(matrix.PivotTolerant)
	require.True(s.T(), ok)

	tests := []struct {
		name    string
		tol     float64
		wantErr bool
	}{
		{"default", 0, false},
		{"below reduced ratio", 0.7, false},
		{"above reduced ratio", 0.8, true},
	}
	for _, tc := range tests {
		err := pt.WithPivotTolerance(tc.tol).Factor(spd())
		if tc.wantErr {
			assert.ErrorIs(s.T(), err, matrix.ErrNotPositiveDefinite, tc.name)
		} else {
			assert.NoError(s.T(), err, tc.name)
		}
	}
}

func (s *SolverSuite) TestSolveGuards() {
	a := tridiagonal(s.T(), 3)
	assert.ErrorIs(s.T(), s.solver.Solve(a, make([]float64, 3)), matrix.ErrNotFactored)
	require.NoError(s.T(), s.solver.Factor(a))
	assert.ErrorIs(s.T(), s.solver.Solve(a, make([]float64, 2)), matrix.ErrDimensionMismatch)
	assert.ErrorIs(s.T(), s.solver.Factor(nil), matrix.ErrNilMatrix)
}

func (s *SolverSuite) TestEmpty() {
	a, err := matrix.NewBanded(0, 1)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.solver.Factor(a))
	require.NoError(s.T(), s.solver.Solve(a, nil))
}

func TestBackendsAgree(t *testing.T) {
	build := func() *matrix.Banded {
		a, err := matrix.NewBanded(6, 3)
		require.NoError(t, err)
		for i := 0; i < 6; i++ {
			require.NoError(t, a.Add(i, i, 10+float64(i)))
			if i >= 1 {
				require.NoError(t, a.Add(i, i-1, 1.5))
			}
			if i >= 2 {
				require.NoError(t, a.Add(i, i-2, -0.75))
			}
		}
		return a
	}
	rhs := func() []float64 { return []float64{1, -2, 3, -4, 5, -6} }

	na, ga := build(), build()
	xn, xg := rhs(), rhs()
	require.NoError(t, matrix.Cholesky{}.Factor(na))
	require.NoError(t, matrix.Cholesky{}.Solve(na, xn))
	require.NoError(t, matrix.GonumSolver{}.Factor(ga))
	require.NoError(t, matrix.GonumSolver{}.Solve(ga, xg))
	assert.InDeltaSlice(t, xn, xg, tol)
	assert.InDeltaSlice(t, na.Data(), ga.Data(), tol)
}

func TestSolverByName(t *testing.T) {
	s, err := matrix.SolverByName(matrix.BackendGonum)
	require.NoError(t, err)
	assert.IsType(t, matrix.GonumSolver{}, s)
	s, err = matrix.SolverByName("")
	require.NoError(t, err)
	assert.IsType(t, matrix.Cholesky{}, s)
	_, err = matrix.SolverByName("lapacke")
	assert.ErrorIs(t, err, matrix.ErrUnknownSolver)
}
