// File: types.go
// Role: sentinel errors, Contig, Scaffold, Edge, Graph, options and NewGraph.
// Concurrency:
//   - muNodes guards contigs/scaffolds; muEdgeAdj guards edges/adjacency.
//   - Lock order is muNodes → muEdgeAdj.

package core

import (
	"errors"
	"sync"
)

// Sentinel errors for scaffold graph operations.
var (
	// ErrEmptyID indicates that a contig, scaffold or edge ID is the empty string.
	ErrEmptyID = errors.New("core: empty ID")

	// ErrContigNotFound indicates an operation referenced a non-existent contig.
	ErrContigNotFound = errors.New("core: contig not found")

	// ErrScaffoldNotFound indicates an operation referenced a non-existent scaffold.
	ErrScaffoldNotFound = errors.New("core: scaffold not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrDuplicateID indicates that an ID is already registered.
	ErrDuplicateID = errors.New("core: duplicate ID")

	// ErrAlreadyPlaced indicates that a contig already belongs to a scaffold.
	ErrAlreadyPlaced = errors.New("core: contig already placed in a scaffold")

	// ErrNotInScaffold indicates that a contig is not a member of the given scaffold.
	ErrNotInScaffold = errors.New("core: contig not in scaffold")

	// ErrBadVariance indicates a negative or NaN variance.
	ErrBadVariance = errors.New("core: invalid variance")

	// ErrBadOrient indicates an unknown orientation code.
	ErrBadOrient = errors.New("core: invalid orientation")

	// ErrSelfEdge indicates an edge whose two endpoints are the same contig.
	ErrSelfEdge = errors.New("core: self edge not allowed")

	// ErrBadMerge indicates that merged-edge members are not raw, already
	// merged, or do not connect the same pair of contigs.
	ErrBadMerge = errors.New("core: invalid merged edge members")
)

// Contig is a contiguous assembled sequence placed in at most one scaffold.
//
// OffsetA and OffsetB are the positions of the A and B ends measured from
// the scaffold start. For OrientAB the A end is on the left.
type Contig struct {
	// ID uniquely identifies the contig.
	ID string

	// Length is the contig length distribution.
	Length Length

	// Orientation of the contig inside its scaffold.
	Orientation Orient

	// OffsetA, OffsetB are the end positions inside the scaffold.
	OffsetA, OffsetB Length

	// ScaffoldID is the owning scaffold ("" when unplaced).
	ScaffoldID string

	// Index is the 0-based position in the scaffold, refreshed by ScaffoldContigs.
	Index int

	// MergedInto names the contig that absorbed this one ("" when live).
	MergedInto string
}

// LeftEnd returns the offset of the end that faces the scaffold start.
func (c *Contig) LeftEnd() *Length {
	if c.Orientation == OrientBA {
		return &c.OffsetB
	}
	return &c.OffsetA
}

// RightEnd returns the offset of the end that faces the scaffold end.
func (c *Contig) RightEnd() *Length {
	if c.Orientation == OrientBA {
		return &c.OffsetA
	}
	return &c.OffsetB
}

// MinOffset returns the smaller of the two end offsets (by mean).
func (c *Contig) MinOffset() Length {
	if c.OffsetB.Mean < c.OffsetA.Mean {
		return c.OffsetB
	}
	return c.OffsetA
}

// MaxOffset returns the larger of the two end offsets (by mean).
func (c *Contig) MaxOffset() Length {
	if c.OffsetB.Mean < c.OffsetA.Mean {
		return c.OffsetA
	}
	return c.OffsetB
}

// Scaffold is an ordered chain of contigs with estimated gaps between them.
type Scaffold struct {
	// ID uniquely identifies the scaffold.
	ID string

	// Length is the scaffold length distribution (max contig end offset).
	Length Length

	// LeastSquareError is the weighted squared residual of the last solve.
	LeastSquareError float64

	// NumLeastSquareClones is the clone count used by the last solve.
	NumLeastSquareClones int

	// InternalEdges counts canonical internal edges labelled trusted,
	// tentative-trusted or tentative-untrusted.
	InternalEdges int

	// ConfirmedInternalEdges counts canonical internal edges labelled
	// trusted or tentative-trusted.
	ConfirmedInternalEdges int

	// Dead marks a scaffold that no longer participates in estimation.
	Dead bool

	contigs []string // contig IDs ordered by min offset
	seq     uint64   // insertion sequence
}

// NumContigs reports the number of contigs currently in the scaffold.
func (s *Scaffold) NumContigs() int { return len(s.contigs) }

// Edge is a distance constraint between ends of two contigs.
//
// Orient is expressed relative to A; OrientWRT gives the code relative to
// either endpoint.
type Edge struct {
	// ID uniquely identifies this edge in the Graph.
	ID string

	// A, B are the endpoint contig IDs.
	A, B string

	// Orient is the relative orientation code w.r.t. A.
	Orient PairOrient

	// Distance is the implied gap between the two facing ends.
	Distance Length

	// Status is the trust label.
	Status EdgeStatus

	// Raw reports a single observation (false for merged edges).
	Raw bool

	// Overlap reports an edge derived from a sequence overlap.
	Overlap bool

	// Containment reports an overlap edge where one contig contains the other.
	Containment bool

	// Members lists the raw edges combined into a merged edge.
	Members []string

	// Parent is the merged edge owning this raw edge ("" when top-level).
	Parent string

	seq uint64
}

// OrientWRT returns the orientation code relative to contig id.
func (e *Edge) OrientWRT(id string) PairOrient {
	if id == e.A {
		return e.Orient
	}
	return e.Orient.Flip()
}

// Other returns the endpoint opposite to id.
func (e *Edge) Other(id string) string {
	if id == e.A {
		return e.B
	}
	return e.A
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithSplitSuffix sets the separator used to name scaffolds created by
// SplitScaffold ("<parent><sep><n>"). Default ".".
func WithSplitSuffix(sep string) GraphOption {
	return func(g *Graph) { g.splitSep = sep }
}

// WithCapacity pre-sizes the contig and edge maps.
func WithCapacity(contigs, edges int) GraphOption {
	return func(g *Graph) {
		g.contigs = make(map[string]*Contig, contigs)
		g.edges = make(map[string]*Edge, edges)
		g.adjacency = make(map[string]map[string]struct{}, contigs)
	}
}

// EdgeOption configures properties of individual edges when added.
type EdgeOption func(*Edge)

// WithStatus sets the initial trust label.
func WithStatus(s EdgeStatus) EdgeOption {
	return func(e *Edge) { e.Status = s }
}

// WithOverlap flags the edge as overlap-derived.
func WithOverlap() EdgeOption {
	return func(e *Edge) { e.Overlap = true }
}

// WithContainment flags the edge as an overlap containment.
func WithContainment() EdgeOption {
	return func(e *Edge) { e.Overlap, e.Containment = true, true }
}

// Graph is the in-memory scaffold graph.
type Graph struct {
	muNodes   sync.RWMutex // guards contigs and scaffolds
	muEdgeAdj sync.RWMutex // guards edges and adjacency

	splitSep string

	nextEdgeID     uint64 // atomic edge ID generator
	nextScaffoldSq uint64 // scaffold insertion sequence

	contigs   map[string]*Contig
	scaffolds map[string]*Scaffold
	edges     map[string]*Edge

	// adjacency[contigID][edgeID] = struct{}{}
	adjacency map[string]map[string]struct{}
}

// NewGraph creates an empty Graph.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		splitSep:  ".",
		contigs:   make(map[string]*Contig),
		scaffolds: make(map[string]*Scaffold),
		edges:     make(map[string]*Edge),
		adjacency: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
