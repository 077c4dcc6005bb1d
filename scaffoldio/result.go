package scaffoldio

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/gapsolve"
)

// ContigResult is a contig position after estimation.
type ContigResult struct {
	ID          string      `yaml:"id"`
	Orientation string      `yaml:"orientation"`
	A           core.Length `yaml:"a"`
	B           core.Length `yaml:"b"`
}

// GapResult is one solved gap.
type GapResult struct {
	Mean     float64 `yaml:"mean"`
	Variance float64 `yaml:"variance"`
	Fixed    bool    `yaml:"fixed,omitempty"`
}

// ScaffoldResult is a scaffold after estimation. Outcome fields are empty
// for scaffolds the run did not record (dead or never processed).
type ScaffoldResult struct {
	ID                string         `yaml:"id"`
	Status            string         `yaml:"status,omitempty"`
	Length            core.Length    `yaml:"length"`
	LeastSquareError  float64        `yaml:"least-square-error"`
	LeastSquareClones int            `yaml:"least-square-clones"`
	InternalEdges     int            `yaml:"internal-edges"`
	ConfirmedEdges    int            `yaml:"confirmed-edges"`
	Attempts          int            `yaml:"attempts,omitempty"`
	Restarts          int            `yaml:"restarts,omitempty"`
	Relaxed           bool           `yaml:"relaxed,omitempty"`
	Contigs           []ContigResult `yaml:"contigs"`
	Gaps              []GapResult    `yaml:"gaps,omitempty"`
	MergedContigs     []string       `yaml:"merged-contigs,omitempty"`
}

// Result is the output document.
type Result struct {
	RunID     string           `yaml:"run-id"`
	Processed int              `yaml:"processed"`
	Splits    int              `yaml:"splits"`
	Restarts  int              `yaml:"restarts"`
	Failed    int              `yaml:"failed"`
	Scaffolds []ScaffoldResult `yaml:"scaffolds"`
}

// Graph is what the result writer reads from the store.
type Graph interface {
	Scaffolds() []*core.Scaffold
	ScaffoldContigs(id string) ([]*core.Contig, error)
	Contigs() []*core.Contig
}

// NewResult snapshots every live scaffold of g together with the outcomes
// recorded in rep.
func NewResult(g Graph, rep gapsolve.Report) (Result, error) {
	res := Result{
		RunID:     rep.RunID,
		Processed: rep.Processed,
		Splits:    rep.Splits,
		Restarts:  rep.Restarts,
		Failed:    rep.Failed,
	}
	outcomes := make(map[string]gapsolve.ScaffoldOutcome, len(rep.Scaffolds))
	for _, o := range rep.Scaffolds {
		outcomes[o.ScaffoldID] = o
	}
	merged := make(map[string][]string)
	for _, c := range g.Contigs() {
		if c.MergedInto != "" {
			merged[c.MergedInto] = append(merged[c.MergedInto], c.ID)
		}
	}

	for _, s := range g.Scaffolds() {
		if s.Dead {
			continue
		}
		contigs, err := g.ScaffoldContigs(s.ID)
		if err != nil {
			return Result{}, err
		}
		sr := ScaffoldResult{
			ID:                s.ID,
			Length:            s.Length,
			LeastSquareError:  s.LeastSquareError,
			LeastSquareClones: s.NumLeastSquareClones,
			InternalEdges:     s.InternalEdges,
			ConfirmedEdges:    s.ConfirmedInternalEdges,
		}
		for _, c := range contigs {
			sr.Contigs = append(sr.Contigs, ContigResult{
				ID:          c.ID,
				Orientation: c.Orientation.String(),
				A:           c.OffsetA,
				B:           c.OffsetB,
			})
			sr.MergedContigs = append(sr.MergedContigs, merged[c.ID]...)
		}
		if o, ok := outcomes[s.ID]; ok {
			sr.Status = o.Status.String()
			sr.Attempts, sr.Restarts, sr.Relaxed = o.Attempts, o.Restarts, o.Relaxed
			for _, gap := range o.Result.Gaps {
				sr.Gaps = append(sr.Gaps, GapResult(gap))
			}
		}
		res.Scaffolds = append(res.Scaffolds, sr)
	}

	return res, nil
}

// WriteResult writes the result of a run over g as YAML.
func WriteResult(w io.Writer, g Graph, rep gapsolve.Report) error {
	res, err := NewResult(g, rep)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return err
	}
	return enc.Close()
}
