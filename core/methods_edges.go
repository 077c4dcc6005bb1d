// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge, AddMergedEdge, InsertOverlapEdge,
//       RemoveEdge, Edge, Edges(filter), SetEdgeStatus. Also: nextEdgeID().
// Determinism:
//   - Edges() returns edges sorted by insertion sequence.
//   - nextEdgeID() is monotonic and stable ("e" + decimal).
// Concurrency:
//   - Endpoint lookups under muNodes read lock, then muEdgeAdj.

package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/katalvlaran/lsgap/stats"
)

// edgeIDPrefix is the textual prefix for edge identifiers ("e1", "e2", ...).
const edgeIDPrefix = 'e'

// EdgeEnd restricts edge iteration to one end of a contig.
type EdgeEnd uint8

const (
	// EndAny selects edges at either end.
	EndAny EdgeEnd = iota
	// EndA selects edges leaving the A end.
	EndA
	// EndB selects edges leaving the B end.
	EndB
)

// EdgeFilter selects edges in Edges.
//
// Status == 0 selects every label. RawOnly lists raw edges, including raw
// members of merged edges; otherwise top-level edges are listed (merged
// edges and raw edges not owned by a merged edge).
type EdgeFilter struct {
	End     EdgeEnd
	Status  EdgeStatus
	RawOnly bool
}

// AddEdge creates a raw edge between contigs a and b with orientation code
// orient relative to a. The initial status is StatusUnknown unless
// WithStatus is given.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(a, b string, orient PairOrient, dist Length, opts ...EdgeOption) (string, error) {
	if a == "" || b == "" {
		return "", ErrEmptyID
	}
	if a == b {
		return "", ErrSelfEdge
	}
	if !orient.Valid() {
		return "", ErrBadOrient
	}
	if dist.Variance < 0 || math.IsNaN(dist.Variance) || math.IsNaN(dist.Mean) {
		return "", ErrBadVariance
	}

	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	if g.contigs[a] == nil || g.contigs[b] == nil {
		return "", ErrContigNotFound
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	e := &Edge{A: a, B: b, Orient: orient, Distance: dist, Status: StatusUnknown, Raw: true}
	for _, opt := range opts {
		opt(e)
	}
	g.storeEdgeLocked(e)

	return e.ID, nil
}

func (g *Graph) storeEdgeLocked(e *Edge) {
	e.seq = atomic.AddUint64(&g.nextEdgeID, 1)
	e.ID = nextEdgeID(e.seq)
	g.edges[e.ID] = e
	for _, id := range [2]string{e.A, e.B} {
		if g.adjacency[id] == nil {
			g.adjacency[id] = make(map[string]struct{})
		}
		g.adjacency[id][e.ID] = struct{}{}
	}
}

// AddMergedEdge combines two or more unmerged raw edges between the same
// pair of contigs into a merged edge. The merged distance is the
// inverse-variance combination of the members (orientation taken w.r.t. the
// first member's A). Members keep their own distances and become hidden
// from top-level iteration.
func (g *Graph) AddMergedEdge(memberIDs ...string) (string, error) {
	if len(memberIDs) < 2 {
		return "", ErrBadMerge
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	members := make([]*Edge, 0, len(memberIDs))
	obs := make([]stats.Measurement, 0, len(memberIDs))
	first, ok := g.edges[memberIDs[0]]
	if !ok {
		return "", ErrEdgeNotFound
	}
	merged := &Edge{A: first.A, B: first.B, Orient: first.Orient, Status: first.Status, Overlap: true}
	for _, id := range memberIDs {
		e, ok := g.edges[id]
		if !ok {
			return "", ErrEdgeNotFound
		}
		if !e.Raw || e.Parent != "" || e.Other(first.A) != first.B || e.OrientWRT(first.A) != first.Orient {
			return "", fmt.Errorf("edge %s: %w", id, ErrBadMerge)
		}
		if e.Distance.Variance <= 0 {
			return "", fmt.Errorf("edge %s: %w", id, ErrBadVariance)
		}
		members = append(members, e)
		obs = append(obs, stats.Measurement{Mean: e.Distance.Mean, Variance: e.Distance.Variance})
		merged.Overlap = merged.Overlap && e.Overlap
		merged.Containment = merged.Containment || e.Containment
	}
	combined := stats.Combine(obs...)
	merged.Distance = Length{Mean: combined.Mean, Variance: combined.Variance}
	merged.Members = append([]string(nil), memberIDs...)
	g.storeEdgeLocked(merged)
	for _, e := range members {
		e.Parent = merged.ID
	}

	return merged.ID, nil
}

// InsertOverlapEdge returns the raw overlap edge between a and b with the
// given orientation and mean, creating it when absent.
func (g *Graph) InsertOverlapEdge(a, b string, orient PairOrient, dist Length, containment bool) (*Edge, error) {
	g.muEdgeAdj.RLock()
	for eid := range g.adjacency[a] {
		e := g.edges[eid]
		if e.Raw && e.Overlap && e.Other(a) == b && e.OrientWRT(a) == orient && e.Distance.Mean == dist.Mean {
			g.muEdgeAdj.RUnlock()
			return e, nil
		}
	}
	g.muEdgeAdj.RUnlock()

	opt := WithOverlap()
	if containment {
		opt = WithContainment()
	}
	eid, err := g.AddEdge(a, b, orient, dist, opt)
	if err != nil {
		return nil, err
	}

	return g.Edge(eid)
}

// RemoveEdge deletes an edge. Removing a merged edge releases its members;
// removing a raw member detaches it from its merged edge.
func (g *Graph) RemoveEdge(eid string) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	return g.removeEdgeLocked(eid)
}

func (g *Graph) removeEdgeLocked(eid string) error {
	e, ok := g.edges[eid]
	if !ok {
		return ErrEdgeNotFound
	}
	for _, mid := range e.Members {
		if m, ok := g.edges[mid]; ok {
			m.Parent = ""
		}
	}
	if p, ok := g.edges[e.Parent]; ok {
		for i, mid := range p.Members {
			if mid == eid {
				p.Members = append(p.Members[:i], p.Members[i+1:]...)
				break
			}
		}
	}
	delete(g.edges, eid)
	for _, id := range [2]string{e.A, e.B} {
		delete(g.adjacency[id], eid)
		if len(g.adjacency[id]) == 0 {
			delete(g.adjacency, id)
		}
	}

	return nil
}

// Edge returns the live edge with the given ID.
func (g *Graph) Edge(eid string) (*Edge, error) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	e, ok := g.edges[eid]
	if !ok {
		return nil, ErrEdgeNotFound
	}

	return e, nil
}

// Edges lists the edges incident to contigID that pass the filter, in
// insertion order.
func (g *Graph) Edges(contigID string, f EdgeFilter) ([]*Edge, error) {
	g.muNodes.RLock()
	_, ok := g.contigs[contigID]
	g.muNodes.RUnlock()
	if !ok {
		return nil, ErrContigNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	out := make([]*Edge, 0, len(g.adjacency[contigID]))
	for eid := range g.adjacency[contigID] {
		e := g.edges[eid]
		if f.RawOnly && !e.Raw {
			continue
		}
		if !f.RawOnly && e.Parent != "" {
			continue
		}
		if f.Status != 0 && !e.Status.Has(f.Status) {
			continue
		}
		switch f.End {
		case EndA:
			if e.OrientWRT(contigID).LeavesB() {
				continue
			}
		case EndB:
			if !e.OrientWRT(contigID).LeavesB() {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })

	return out, nil
}

// SetEdgeStatus relabels an edge. On a merged edge the label is copied to
// every raw member.
func (g *Graph) SetEdgeStatus(eid string, s EdgeStatus) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	e, ok := g.edges[eid]
	if !ok {
		return ErrEdgeNotFound
	}
	e.Status = s
	for _, mid := range e.Members {
		if m, ok := g.edges[mid]; ok {
			m.Status = s
		}
	}

	return nil
}

// nextEdgeID formats a sequence number as "e<n>".
func nextEdgeID(n uint64) string {
	buf := make([]byte, 0, 1+20)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, n, 10)

	return string(buf)
}
