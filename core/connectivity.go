// File: connectivity.go
// Role: scaffold connectivity over a status mask: Components, IsConnected,
//       IsTwoEdgeConnected, SplitScaffold; bridge detection.
// Determinism:
//   - Components ordered by their first contig in scaffold order; contigs
//     inside a component in scaffold order.
// Concurrency:
//   - Reads take muNodes read lock then muEdgeAdj read lock.
//   - SplitScaffold takes muNodes write lock.

package core

import (
	"sort"
	"strconv"
)

// scaffoldLinks is the undirected multigraph of a scaffold restricted to
// top-level edges with a status in mask and both ends in the scaffold.
type scaffoldLinks struct {
	order []string       // contig IDs in scaffold order
	pos   map[string]int // contig ID → position in order
	adj   [][]link       // per position
}

type link struct {
	to  int
	eid string
}

func (g *Graph) linksLocked(s *Scaffold, mask EdgeStatus) *scaffoldLinks {
	l := &scaffoldLinks{
		order: append([]string(nil), s.contigs...),
		pos:   make(map[string]int, len(s.contigs)),
		adj:   make([][]link, len(s.contigs)),
	}
	for i, id := range l.order {
		l.pos[id] = i
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	for i, id := range l.order {
		eids := make([]string, 0, len(g.adjacency[id]))
		for eid := range g.adjacency[id] {
			eids = append(eids, eid)
		}
		sort.Slice(eids, func(a, b int) bool { return g.edges[eids[a]].seq < g.edges[eids[b]].seq })
		for _, eid := range eids {
			e := g.edges[eid]
			if e.Parent != "" || !e.Status.Has(mask) {
				continue
			}
			j, ok := l.pos[e.Other(id)]
			if !ok {
				continue
			}
			l.adj[i] = append(l.adj[i], link{to: j, eid: eid})
		}
	}

	return l
}

// bridges returns the set of edge IDs whose removal disconnects their
// component. Iterative Tarjan low-link; parallel edges are never bridges
// because only the tree edge itself is skipped when scanning a child.
func (l *scaffoldLinks) bridges() map[string]struct{} {
	n := len(l.order)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	out := make(map[string]struct{})

	type frame struct {
		v, next int
		via     string // edge used to reach v
	}
	timer := 0
	for root := 0; root < n; root++ {
		if disc[root] >= 0 {
			continue
		}
		stack := []frame{{v: root}}
		disc[root], low[root] = timer, timer
		timer++
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(l.adj[top.v]) {
				lk := l.adj[top.v][top.next]
				top.next++
				if lk.eid == top.via {
					continue
				}
				if disc[lk.to] < 0 {
					disc[lk.to], low[lk.to] = timer, timer
					timer++
					stack = append(stack, frame{v: lk.to, via: lk.eid})
				} else if disc[lk.to] < low[top.v] {
					low[top.v] = disc[lk.to]
				}
				continue
			}
			// post-order: propagate low-link to parent
			done := *top
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			parent := stack[len(stack)-1].v
			if low[done.v] < low[parent] {
				low[parent] = low[done.v]
			}
			if low[done.v] > disc[parent] {
				out[done.via] = struct{}{}
			}
		}
	}

	return out
}

// components runs a queue BFS over the links, skipping edges in skip.
func (l *scaffoldLinks) components(skip map[string]struct{}) [][]string {
	seen := make([]bool, len(l.order))
	var comps [][]string
	for i0 := range l.order {
		if seen[i0] {
			continue
		}
		queue := []int{i0}
		seen[i0] = true
		var members []int
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			members = append(members, u)
			for _, lk := range l.adj[u] {
				if _, ok := skip[lk.eid]; ok {
					continue
				}
				if !seen[lk.to] {
					seen[lk.to] = true
					queue = append(queue, lk.to)
				}
			}
		}
		sort.Ints(members)
		comp := make([]string, len(members))
		for k, p := range members {
			comp[k] = l.order[p]
		}
		comps = append(comps, comp)
	}

	return comps
}

// Components returns the connected components of a scaffold using
// top-level edges whose status is in mask. With excludeBridges, bridge
// edges are ignored so the result is the 2-edge-connected components.
func (g *Graph) Components(scaffoldID string, mask EdgeStatus, excludeBridges bool) ([][]string, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return nil, ErrScaffoldNotFound
	}

	return g.componentsLocked(s, mask, excludeBridges), nil
}

func (g *Graph) componentsLocked(s *Scaffold, mask EdgeStatus, excludeBridges bool) [][]string {
	l := g.linksLocked(s, mask)
	var skip map[string]struct{}
	if excludeBridges {
		skip = l.bridges()
	}

	return l.components(skip)
}

// IsConnected reports whether the scaffold forms a single component over
// edges in mask. Empty and single-contig scaffolds are connected.
func (g *Graph) IsConnected(scaffoldID string, mask EdgeStatus) (bool, error) {
	comps, err := g.Components(scaffoldID, mask, false)
	if err != nil {
		return false, err
	}

	return len(comps) <= 1, nil
}

// IsTwoEdgeConnected reports whether the scaffold is connected over edges in
// mask and has no bridge.
func (g *Graph) IsTwoEdgeConnected(scaffoldID string, mask EdgeStatus) (bool, error) {
	comps, err := g.Components(scaffoldID, mask, true)
	if err != nil {
		return false, err
	}

	return len(comps) <= 1, nil
}

// SplitScaffold splits a scaffold into its components over edges in mask
// (2-edge-connected components when excludeBridges). The first component
// keeps the scaffold; every other component moves to a new scaffold named
// "<id><sep><n>". Each resulting scaffold is renormalised so that its first
// contig starts at offset 0. Returns the number of components.
func (g *Graph) SplitScaffold(scaffoldID string, mask EdgeStatus, excludeBridges bool) (int, error) {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return 0, ErrScaffoldNotFound
	}
	comps := g.componentsLocked(s, mask, excludeBridges)
	if len(comps) <= 1 {
		return len(comps), nil
	}

	for k, comp := range comps[1:] {
		nid := g.freeSplitIDLocked(scaffoldID, k+1)
		if err := g.addScaffoldLocked(nid); err != nil {
			return 0, err
		}
		ns := g.scaffolds[nid]
		for _, cid := range comp {
			c := g.contigs[cid]
			g.unplaceLocked(s, c)
			c.ScaffoldID = nid
			g.placeLocked(ns, c)
		}
		g.normaliseLocked(ns)
	}
	g.normaliseLocked(s)

	return len(comps), nil
}

func (g *Graph) freeSplitIDLocked(base string, n int) string {
	for {
		id := base + g.splitSep + strconv.Itoa(n)
		if _, taken := g.scaffolds[id]; !taken {
			return id
		}
		n++
	}
}

// normaliseLocked shifts every contig so the first one starts at 0 and
// recomputes the scaffold length.
func (g *Graph) normaliseLocked(s *Scaffold) {
	if len(s.contigs) == 0 {
		s.Length = Length{}
		return
	}
	first := g.contigs[s.contigs[0]].MinOffset()
	for _, id := range s.contigs {
		c := g.contigs[id]
		c.OffsetA = shiftBack(c.OffsetA, first)
		c.OffsetB = shiftBack(c.OffsetB, first)
	}
	g.recomputeLengthLocked(s)
}

func shiftBack(l, origin Length) Length {
	v := l.Variance - origin.Variance
	if v < 0 {
		v = 0
	}
	return Length{Mean: l.Mean - origin.Mean, Variance: v}
}
