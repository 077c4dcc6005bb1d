package gapsolve

import "errors"

// Sentinel errors for the estimator.
var (
	// ErrNilGraph indicates NewEstimator was given a nil graph.
	ErrNilGraph = errors.New("gapsolve: graph is nil")

	// ErrMalformedSystem indicates the band solver rejected the call itself
	// (a programming error, never a data condition).
	ErrMalformedSystem = errors.New("gapsolve: malformed linear system")

	// ErrSingularSystem is returned for a singular system only when
	// WithAbortOnSingular is set; otherwise Singular is a Status.
	ErrSingularSystem = errors.New("gapsolve: singular linear system")
)

// Status is the outcome of one recompute of a scaffold.
type Status int

const (
	// OK: offsets were updated.
	OK Status = iota
	// NoGaps: the scaffold has fewer than two contigs.
	NoGaps
	// NotEnoughClones: fewer accepted clones than gaps; nothing solved.
	NotEnoughClones
	// Singular: the normal equations are not positive definite.
	Singular
	// Lapack: the solver rejected the call; always accompanied by an error.
	Lapack
	// ContiggedContainments: two contigs were merged; recompute again.
	ContiggedContainments
	// FailedReorderNeeded is kept for status compatibility. No code path
	// produces it; contig reordering is not part of this estimator.
	FailedReorderNeeded
)

var statusNames = [...]string{
	OK:                    "ok",
	NoGaps:                "no-gaps",
	NotEnoughClones:       "not-enough-clones",
	Singular:              "singular",
	Lapack:                "lapack-failure",
	ContiggedContainments: "contigged-containments",
	FailedReorderNeeded:   "failed-reorder-needed",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}
