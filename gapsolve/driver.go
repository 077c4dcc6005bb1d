// File: driver.go
// Role: runs the per-scaffold cycle over every scaffold of the graph:
//       classify → connectivity → (sanity → recompute)* → sanity.
// Scheduling:
//   - Scaffolds are processed one at a time, in store order, through a
//     FIFO queue. Scaffolds created by a split are appended to the queue.
//   - ContiggedContainments restarts the scaffold at classification;
//     FailedReorderNeeded retries the recompute; both are bounded by the
//     attempt budget.

package gapsolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/lsgap/core"
)

// ScaffoldOutcome is the driver's record for one processed scaffold.
type ScaffoldOutcome struct {
	ScaffoldID string
	Status     Status
	// Components is the number of pieces found by the last connectivity
	// split; zero when no split happened.
	Components int
	Attempts   int
	Restarts   int
	Relaxed    bool
	// Renormalized reports that a sanity pass had to shift offsets.
	Renormalized bool
	Result       Result
}

// Report summarises an EstimateAll run.
type Report struct {
	RunID     string
	Scaffolds []ScaffoldOutcome
	Processed int
	Splits    int
	Restarts  int
	Failed    int
}

// Counts returns the number of outcomes per status.
func (r Report) Counts() map[Status]int {
	out := make(map[Status]int)
	for _, o := range r.Scaffolds {
		out[o.Status]++
	}
	return out
}

// EstimateAll re-estimates the gaps of every live scaffold.
//
// Per scaffold:
//  1. With edge marking, relabel internal edges (merged edges, definitive
//     labels, the marking variance cutoff).
//  2. With connectivity checks, split the scaffold on trusted edges (and,
//     with WithRequireTwoEdgeConnected, on trusted bridges). The first
//     piece keeps the scaffold ID. New scaffolds join the queue and the
//     current one is queued again once, later splits are solved in place.
//  3. Up to the attempt budget: sanity pass, RecomputeOffsets. A
//     containment merge restarts at step 1.
//  4. Final sanity pass.
//
// Scaffold failures (NotEnoughClones, Singular, ...) are logged and
// recorded; EstimateAll only returns an error for store failures, a
// malformed system or, with WithAbortOnSingular, a singular system.
func (e *Estimator) EstimateAll(ctx context.Context) (Report, error) {
	rep := Report{RunID: uuid.NewString()}
	log := e.log.With("run_id", rep.RunID)

	ctx, span := getTracer().Start(ctx, "gapsolve.EstimateAll",
		trace.WithAttributes(attribute.String("run_id", rep.RunID)),
	)
	defer span.End()

	fail := func(err error) (Report, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "estimate failed")
		return rep, err
	}

	if !e.opts.markEdges {
		for _, s := range e.g.Scaffolds() {
			if s.Dead {
				continue
			}
			if _, err := e.CheckInternalEdgeStatus(s.ID, e.opts.chiSquareThreshold,
				e.opts.markingMaxVariance(), 0, e.opts.verbose); err != nil {
				return fail(err)
			}
		}
	}

	var queue []string
	seen := make(map[string]bool)
	for _, s := range e.g.Scaffolds() {
		queue = append(queue, s.ID)
		seen[s.ID] = true
	}
	reconsidered := make(map[string]bool)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		sid := queue[0]
		queue = queue[1:]

		scaf, err := e.g.Scaffold(sid)
		if err != nil {
			return fail(err)
		}
		if scaf.Dead {
			continue
		}

		out, created, err := e.estimateScaffold(ctx, sid, !reconsidered[sid])
		if err != nil {
			return fail(fmt.Errorf("scaffold %s: %w", sid, err))
		}
		if len(created) > 0 {
			rep.Splits++
			for _, id := range created {
				if !seen[id] {
					seen[id] = true
					queue = append(queue, id)
				}
			}
			if !reconsidered[sid] {
				reconsidered[sid] = true
				queue = append(queue, sid)
				continue
			}
		}

		rep.Processed++
		rep.Restarts += out.Restarts
		if out.Status != OK && out.Status != NoGaps {
			rep.Failed++
		}
		rep.Scaffolds = append(rep.Scaffolds, out)

		if rep.Processed%e.opts.progressEvery == 0 {
			log.Info("progress", "processed", rep.Processed, "queued", len(queue))
		}
	}

	span.SetAttributes(
		attribute.Int("processed", rep.Processed),
		attribute.Int("splits", rep.Splits),
		attribute.Int("failed", rep.Failed),
	)
	span.SetStatus(codes.Ok, "")
	log.Info("gap estimation finished", "processed", rep.Processed,
		"splits", rep.Splits, "restarts", rep.Restarts, "failed", rep.Failed)

	return rep, nil
}

// estimateScaffold runs the cycle for one scaffold. Scaffolds created by a
// connectivity split are returned for queueing; when mayRequeue is set the
// scaffold itself is not solved in that case.
func (e *Estimator) estimateScaffold(ctx context.Context, sid string, mayRequeue bool) (ScaffoldOutcome, []string, error) {
	out := ScaffoldOutcome{ScaffoldID: sid}
	log := e.log.With("scaffold_id", sid)
	var created []string

	for {
		if e.opts.markEdges {
			if _, err := e.MarkInternalEdgeStatus(sid, MarkParams{
				Threshold:       e.opts.chiSquareThreshold,
				MaxVariance:     e.opts.markingMaxVariance(),
				MarkTrusted:     true,
				MarkUntrusted:   true,
				OperateOnMerged: true,
			}); err != nil {
				return out, created, err
			}
		}

		if e.opts.checkConnectivity {
			comps, more, err := e.splitDisconnected(sid)
			if err != nil {
				return out, created, err
			}
			if len(more) > 0 {
				log.Info("scaffold split on trusted edges", "components", comps, "new_scaffolds", more)
				out.Components = comps
				created = append(created, more...)
				if mayRequeue {
					return out, created, nil
				}
			}
		}

		restart, err := e.attempt(ctx, sid, &out, log)
		if err != nil {
			return out, created, err
		}
		if !restart {
			break
		}
	}

	shifted, err := e.normalizeScaffoldStart(sid, phaseAfter, log)
	if err != nil {
		return out, created, err
	}
	out.Renormalized = out.Renormalized || shifted

	switch out.Status {
	case OK, NoGaps:
	default:
		log.Warn("gap estimation failed", "status", out.Status.String(),
			"attempts", out.Attempts, "clones", out.Result.Clones)
	}

	return out, created, nil
}

// attempt runs sanity pass + recompute until the status is final or the
// attempt budget is spent. restart reports a containment merge that needs
// the scaffold to be classified again.
func (e *Estimator) attempt(ctx context.Context, sid string, out *ScaffoldOutcome, log *slog.Logger) (restart bool, err error) {
	for out.Attempts < e.opts.maxAttempts {
		out.Attempts++
		shifted, err := e.normalizeScaffoldStart(sid, phaseBefore, log)
		if err != nil {
			return false, err
		}
		out.Renormalized = out.Renormalized || shifted

		res, err := e.RecomputeOffsets(ctx, sid)
		out.Result, out.Status, out.Relaxed = res, res.Status, res.Relaxed
		if err != nil {
			return false, err
		}
		switch res.Status {
		case ContiggedContainments:
			out.Restarts++
			log.Info("contigs merged, restarting scaffold", "attempt", out.Attempts)
			return out.Attempts < e.opts.maxAttempts, nil
		case FailedReorderNeeded:
			continue
		}
		return false, nil
	}
	log.Warn("attempt budget exhausted", "attempts", out.Attempts, "status", out.Status.String())

	return false, nil
}

// splitDisconnected splits sid into its trusted components and, with
// WithRequireTwoEdgeConnected, into its bridge-free pieces when trusted
// edges connect it only through bridges. It returns the final component
// count and the new scaffold IDs.
func (e *Estimator) splitDisconnected(sid string) (int, []string, error) {
	before := make(map[string]bool)
	for _, s := range e.g.Scaffolds() {
		before[s.ID] = true
	}

	comps, err := e.g.SplitScaffold(sid, core.AllTrusted, false)
	if err != nil {
		return 0, nil, err
	}
	if comps == 1 && e.opts.requireTwoEdge {
		twoEdge, err := e.g.IsTwoEdgeConnected(sid, core.AllTrusted)
		if err != nil {
			return 0, nil, err
		}
		if !twoEdge {
			if comps, err = e.g.SplitScaffold(sid, core.AllTrusted, true); err != nil {
				return 0, nil, err
			}
		}
	}

	var created []string
	for _, s := range e.g.Scaffolds() {
		if !before[s.ID] {
			created = append(created, s.ID)
		}
	}

	return comps, created, nil
}
