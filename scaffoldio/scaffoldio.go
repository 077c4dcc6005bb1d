// Package scaffoldio reads scaffold graphs from YAML documents and writes
// gap estimation results back as YAML.
//
// Input document:
//
//	contigs:
//	  - {id: ctgA, length: {mean: 1000, variance: 25}}
//	scaffolds:
//	  - id: scf1
//	    contigs:
//	      - {id: ctgA, a: {mean: 0, variance: 0}, b: {mean: 1000, variance: 25}}
//	edges:
//	  - {name: m1, a: ctgA, b: ctgB, orient: AB_AB, distance: {mean: 120, variance: 400}}
//	merged:
//	  - [m1, m2]
//	overlaps:
//	  - {a: ctgA, b: ctgB, orient: AB_AB, length: 45}
//
// Edge names are local to the document and only used by merged groups;
// the graph assigns its own edge IDs.
package scaffoldio

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/overlap"
)

// ErrBadDocument indicates a structurally invalid input document.
var ErrBadDocument = errors.New("scaffoldio: invalid document")

// Contig is an input contig.
type Contig struct {
	ID     string      `yaml:"id"`
	Length core.Length `yaml:"length"`
}

// Placement puts a contig into a scaffold at the given end offsets.
type Placement struct {
	ID string      `yaml:"id"`
	A  core.Length `yaml:"a"`
	B  core.Length `yaml:"b"`
}

// Scaffold is an input scaffold.
type Scaffold struct {
	ID      string      `yaml:"id"`
	Contigs []Placement `yaml:"contigs"`
}

// Edge is an input edge.
type Edge struct {
	Name        string      `yaml:"name,omitempty"`
	A           string      `yaml:"a"`
	B           string      `yaml:"b"`
	Orient      string      `yaml:"orient"`
	Distance    core.Length `yaml:"distance"`
	Status      string      `yaml:"status,omitempty"`
	Overlap     bool        `yaml:"overlap,omitempty"`
	Containment bool        `yaml:"containment,omitempty"`
}

// Overlap is a known sequence overlap fed to the overlap detector.
type Overlap struct {
	A           string  `yaml:"a"`
	B           string  `yaml:"b"`
	Orient      string  `yaml:"orient"`
	Length      float64 `yaml:"length"`
	Suspicious  bool    `yaml:"suspicious,omitempty"`
	Containment bool    `yaml:"containment,omitempty"`
	ErrorRate   float64 `yaml:"error-rate,omitempty"`
}

// Document is the input schema.
type Document struct {
	Contigs   []Contig   `yaml:"contigs"`
	Scaffolds []Scaffold `yaml:"scaffolds"`
	Edges     []Edge     `yaml:"edges"`
	Merged    [][]string `yaml:"merged,omitempty"`
	Overlaps  []Overlap  `yaml:"overlaps,omitempty"`
}

// Decode parses a Document. Unknown fields are rejected.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("%w: %w", ErrBadDocument, err)
	}
	return doc, nil
}

// Load decodes r and builds the scaffold graph and overlap table.
func Load(r io.Reader, opts ...core.GraphOption) (*core.Graph, *overlap.Table, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, nil, err
	}
	return Build(doc, opts...)
}

// Build turns doc into a graph and an overlap table.
func Build(doc Document, opts ...core.GraphOption) (*core.Graph, *overlap.Table, error) {
	g := core.NewGraph(append([]core.GraphOption{core.WithCapacity(len(doc.Contigs), len(doc.Edges))}, opts...)...)

	for _, c := range doc.Contigs {
		if err := g.AddContig(c.ID, c.Length); err != nil {
			return nil, nil, err
		}
	}
	for _, s := range doc.Scaffolds {
		if err := g.AddScaffold(s.ID); err != nil {
			return nil, nil, err
		}
		for _, p := range s.Contigs {
			if err := g.InsertContig(s.ID, p.ID, p.A, p.B); err != nil {
				return nil, nil, fmt.Errorf("scaffold %s: %w", s.ID, err)
			}
		}
	}

	names := make(map[string]string, len(doc.Edges))
	for i, e := range doc.Edges {
		orient, err := core.ParsePairOrient(e.Orient)
		if err != nil {
			return nil, nil, fmt.Errorf("edge %d (%s-%s): %w", i, e.A, e.B, err)
		}
		var eopts []core.EdgeOption
		if e.Status != "" {
			st, ok := core.ParseEdgeStatus(e.Status)
			if !ok {
				return nil, nil, fmt.Errorf("%w: edge %d: status %q", ErrBadDocument, i, e.Status)
			}
			eopts = append(eopts, core.WithStatus(st))
		}
		switch {
		case e.Containment:
			eopts = append(eopts, core.WithContainment())
		case e.Overlap:
			eopts = append(eopts, core.WithOverlap())
		}
		id, err := g.AddEdge(e.A, e.B, orient, e.Distance, eopts...)
		if err != nil {
			return nil, nil, fmt.Errorf("edge %d (%s-%s): %w", i, e.A, e.B, err)
		}
		if e.Name != "" {
			if _, dup := names[e.Name]; dup {
				return nil, nil, fmt.Errorf("%w: duplicate edge name %q", ErrBadDocument, e.Name)
			}
			names[e.Name] = id
		}
	}

	for i, group := range doc.Merged {
		ids := make([]string, len(group))
		for k, name := range group {
			id, ok := names[name]
			if !ok {
				return nil, nil, fmt.Errorf("%w: merged group %d: unknown edge %q", ErrBadDocument, i, name)
			}
			ids[k] = id
		}
		if _, err := g.AddMergedEdge(ids...); err != nil {
			return nil, nil, fmt.Errorf("merged group %d: %w", i, err)
		}
	}

	table := overlap.NewTable()
	for i, o := range doc.Overlaps {
		orient, err := core.ParsePairOrient(o.Orient)
		if err != nil {
			return nil, nil, fmt.Errorf("overlap %d: %w", i, err)
		}
		var oopts []overlap.Option
		if o.Suspicious {
			oopts = append(oopts, overlap.Suspicious())
		}
		if o.Containment {
			oopts = append(oopts, overlap.Containment())
		}
		if o.ErrorRate > 0 {
			oopts = append(oopts, overlap.WithErrorRate(o.ErrorRate))
		}
		if err := table.Register(o.A, o.B, orient, o.Length, oopts...); err != nil {
			return nil, nil, fmt.Errorf("overlap %d (%s-%s): %w", i, o.A, o.B, err)
		}
	}

	return g, table, nil
}
