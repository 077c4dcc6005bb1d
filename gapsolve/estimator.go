package gapsolve

import (
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Estimator re-estimates the gaps between consecutive contigs of scaffolds
// held in a Graph. It is not safe for concurrent use: one Estimator works
// on one scaffold at a time.
type Estimator struct {
	g    Graph
	opts Options
	log  *slog.Logger
}

// NewEstimator returns an Estimator over g configured by opts applied on
// top of DefaultOptions.
func NewEstimator(g Graph, opts ...Option) (*Estimator, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.solver = o.bandSolver()

	return &Estimator{g: g, opts: o, log: o.logger}, nil
}

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

// getTracer returns the package tracer, created lazily from the global
// provider so that providers installed after import are honoured.
func getTracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("github.com/katalvlaran/lsgap/gapsolve")
	})
	return tracer
}
