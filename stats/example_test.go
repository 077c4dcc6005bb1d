package stats_test

import (
	"fmt"

	"github.com/katalvlaran/lsgap/stats"
)

// Two observations of the same gap half a sigma apart pass the test.
func ExamplePairwiseChiSquare() {
	ok, chi2 := stats.PairwiseChiSquare(100, 25, 105, 25, 2.0)
	fmt.Printf("%v %.2f\n", ok, chi2)
	// Output:
	// true 0.50
}

// Repeated mate-pair observations shrink the variance of their merge.
func ExampleCombine() {
	m := stats.Combine(
		stats.Measurement{Mean: 120, Variance: 800},
		stats.Measurement{Mean: 120, Variance: 800},
	)
	fmt.Printf("%.1f %.1f\n", m.Mean, m.Variance)
	// Output:
	// 120.0 400.0
}
