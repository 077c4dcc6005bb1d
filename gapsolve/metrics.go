package gapsolve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fix reasons for lsgap_gaps_fixed_total.
const (
	fixClamped  = "clamped"
	fixForced   = "forced"
	fixAccepted = "accepted"
)

var (
	// recomputeTotal counts recompute outcomes by Status.String().
	recomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lsgap_recompute_total",
		Help: "Scaffold recomputes by outcome",
	}, []string{"status"})

	// edgeLabelsTotal counts labels assigned by the classifier.
	edgeLabelsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lsgap_edge_labels_total",
		Help: "Edge trust labels assigned while marking scaffolds",
	}, []string{"status"})

	gapsFixedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lsgap_gaps_fixed_total",
		Help: "Gaps removed from the unknown set by overlap enforcement",
	}, []string{"reason"})

	solvePasses = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lsgap_solve_passes",
		Help:    "Factor/solve passes per successful recompute",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
	})

	cloneArenaGrows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lsgap_clone_arena_grows_total",
		Help: "Clone arena reallocations",
	})
)
