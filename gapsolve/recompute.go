package gapsolve

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/lsgap/core"
)

// Gap is the estimate of one gap after a recompute.
type Gap struct {
	Mean     float64
	Variance float64
	// Fixed reports a gap removed from the unknowns by overlap enforcement.
	Fixed bool
}

// Result describes one RecomputeOffsets call.
type Result struct {
	ScaffoldID string
	Status     Status
	// Relaxed reports that trusted edges did not connect the scaffold and
	// every internal edge passing the relaxed test was used.
	Relaxed bool
	// Gaps holds the final gap estimates (OK only).
	Gaps []Gap
	// Unknowns is the active unknown count of the last solve.
	Unknowns int
	// Clones is the number of clones in the system.
	Clones       int
	SquaredError float64
	Passes       int
	Fixed        int
}

// RecomputeOffsets re-estimates every gap of a scaffold by weighted least
// squares over its clones and rewrites the contig offsets.
//
// Steps:
//  1. Audit the current trust labels (logging only).
//  2. Choose the clones: raw trusted edges when they connect the scaffold,
//     otherwise raw internal edges passing the relaxed test.
//  3. Fewer clones than gaps → NotEnoughClones, nothing changes.
//  4. Build, factor and solve; Singular leaves the scaffold unchanged.
//  5. With non-overlap forcing, fix offending gaps and solve again until
//     no gap is fixed or no unknown remains; a containment merge returns
//     ContiggedContainments.
//  6. Store error statistics on the scaffold and reproject offsets.
//
// The returned error is non-nil only for store failures, a malformed
// system (Lapack) and, with WithAbortOnSingular, a singular system.
func (e *Estimator) RecomputeOffsets(ctx context.Context, scaffoldID string) (Result, error) {
	_, span := getTracer().Start(ctx, "gapsolve.RecomputeOffsets",
		trace.WithAttributes(attribute.String("scaffold_id", scaffoldID)),
	)
	defer span.End()

	res, err := e.recompute(scaffoldID)
	recomputeTotal.WithLabelValues(res.Status.String()).Inc()
	span.SetAttributes(
		attribute.String("status", res.Status.String()),
		attribute.Int("clones", res.Clones),
		attribute.Int("passes", res.Passes),
		attribute.Int("fixed", res.Fixed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recompute failed")
		return res, err
	}
	if res.Status == OK {
		solvePasses.Observe(float64(res.Passes))
	}
	span.SetStatus(codes.Ok, res.Status.String())

	return res, nil
}

func (e *Estimator) recompute(scaffoldID string) (Result, error) {
	res := Result{ScaffoldID: scaffoldID}
	log := e.log.With("scaffold_id", scaffoldID)

	scaf, err := e.g.Scaffold(scaffoldID)
	if err != nil {
		return res, err
	}
	contigs, err := e.g.ScaffoldContigs(scaffoldID)
	if err != nil {
		return res, err
	}
	numGaps := len(contigs) - 1
	if numGaps < 1 {
		res.Status = NoGaps
		return res, nil
	}

	if _, err := e.CheckInternalEdgeStatus(scaffoldID, e.opts.chiSquareThreshold, e.opts.auditMaxVariance, 0, false); err != nil {
		return res, err
	}

	connected, err := e.g.IsConnected(scaffoldID, core.AllTrusted)
	if err != nil {
		return res, err
	}
	mask := core.AllTrusted
	if !connected {
		mask, res.Relaxed = core.AllInternal, true
		log.Info("trusted edges do not connect scaffold, using relaxed edge test")
	}

	p := e.newProblem(scaf, contigs, log)
	if err := p.collectSpans(mask, res.Relaxed); err != nil {
		return res, err
	}
	res.Clones = len(p.spans)
	if res.Clones < numGaps {
		log.Warn("not enough clones", "clones", res.Clones, "gaps", numGaps)
		res.Status = NotEnoughClones
		return res, nil
	}

	for {
		p.buildClones()
		st, err := p.solve()
		res.Passes, res.Fixed, res.Unknowns = p.passes, p.fixed, p.idx.count()
		if err != nil {
			res.Status = st
			return res, err
		}
		if st == Singular {
			res.Status = Singular
			if e.opts.abortOnSingular {
				return res, fmt.Errorf("scaffold %s: %w", scaffoldID, ErrSingularSystem)
			}
			return res, nil
		}
		if !e.opts.forceNonOverlaps {
			break
		}
		fixed, st, err := p.enforce()
		res.Fixed = p.fixed
		if err != nil {
			return res, err
		}
		if st == ContiggedContainments {
			res.Status = st
			return res, nil
		}
		res.Unknowns = p.idx.count()
		if !fixed || p.idx.count() == 0 {
			break
		}
	}

	scaf.LeastSquareError = p.squaredError
	scaf.NumLeastSquareClones = p.clones.len()
	res.SquaredError = p.squaredError

	if err := p.reproject(); err != nil {
		return res, err
	}
	res.Gaps = make([]Gap, numGaps)
	for i := range res.Gaps {
		res.Gaps[i] = Gap{Mean: p.gapMean[i], Variance: p.gapVar[i], Fixed: p.idx.isFixed(i)}
	}
	res.Status = OK
	log.Debug("recomputed offsets", "gaps", numGaps, "clones", res.Clones,
		"squared_error", res.SquaredError, "passes", res.Passes, "fixed", res.Fixed)

	return res, nil
}
