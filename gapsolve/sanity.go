package gapsolve

import (
	"log/slog"

	"github.com/katalvlaran/lsgap/core"
)

// Sanity pass labels.
const (
	phaseBefore = "before"
	phaseAfter  = "after"
)

// normalizeScaffoldStart makes the first contig of a scaffold start at
// offset (0, 0) and refreshes the scaffold length. It reports whether a
// shift was needed; a zero start mean with a non-zero variance is left as is.
//
// The first contig always loses the start variance. The contigs after it
// lose it too when the start lies past zero, and gain it when the start
// lies before zero.
func (e *Estimator) normalizeScaffoldStart(scaffoldID, phase string, log *slog.Logger) (bool, error) {
	contigs, err := e.g.ScaffoldContigs(scaffoldID)
	if err != nil {
		return false, err
	}
	if len(contigs) == 0 {
		return false, nil
	}
	first := contigs[0]
	start := first.MinOffset()
	if start.Mean == 0 {
		if len(contigs) == 1 {
			_, err = e.g.RecomputeScaffoldLength(scaffoldID)
		}
		return false, err
	}

	log.Warn("scaffold does not start at zero", "phase", phase,
		"first_ci", first.ID, "offset_mean", start.Mean, "offset_variance", start.Variance)
	if err := e.g.ShiftOffsets(scaffoldID, first.ID, core.Length{Mean: -start.Mean, Variance: -start.Variance}); err != nil {
		return true, err
	}
	if start.Mean < 0 && len(contigs) > 1 {
		return true, e.g.ShiftOffsets(scaffoldID, contigs[1].ID, core.Length{Variance: 2 * start.Variance})
	}

	return true, nil
}
