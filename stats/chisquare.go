// Package stats holds the small statistical kernels used to judge whether
// two length measurements describe the same quantity.
package stats

import (
	"fmt"
	"math"
)

// Measurement is one observation of a normally distributed quantity.
type Measurement struct {
	Mean     float64
	Variance float64
}

// Combine returns the inverse-variance weighted combination of the
// observations: mean = Σ(mᵢ/vᵢ) / Σ(1/vᵢ), variance = 1 / Σ(1/vᵢ).
//
// Every variance must be positive; Combine panics otherwise.
// Complexity: O(k).
func Combine(obs ...Measurement) Measurement {
	if len(obs) == 0 {
		return Measurement{}
	}
	var wsum, msum float64
	for _, o := range obs {
		mustPositive(o.Variance)
		w := 1 / o.Variance
		wsum += w
		msum += o.Mean * w
	}

	return Measurement{Mean: msum / wsum, Variance: 1 / wsum}
}

// PairwiseChiSquare tests whether two measurements are compatible.
//
// The statistic is Σ (mᵢ − m̄)² / vᵢ where m̄ is the inverse-variance
// weighted mean; the pair passes iff the statistic is strictly below
// threshold. Both variances must be positive; PairwiseChiSquare panics
// otherwise.
func PairwiseChiSquare(m1, v1, m2, v2, threshold float64) (ok bool, chi2 float64) {
	c := Combine(Measurement{m1, v1}, Measurement{m2, v2})
	d1, d2 := m1-c.Mean, m2-c.Mean
	chi2 = d1*d1/v1 + d2*d2/v2

	return chi2 < threshold, chi2
}

func mustPositive(v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("stats: variance must be positive and finite, got %g", v))
	}
}
