package gapsolve

import "math"

// clone is one mate-pair observation reduced to the gaps it spans:
// gaps [start, end) with the spanned contig lengths and fixed gaps removed.
type clone struct {
	start, end int
	mean       float64
	variance   float64
}

// cloneArena is a reusable clone buffer. When full it grows its capacity
// by the growth factor (at least by one slot); reset keeps the capacity.
type cloneArena struct {
	items  []clone
	growth float64
	grows  int
}

func newCloneArena(capacity int, growth float64) *cloneArena {
	return &cloneArena{items: make([]clone, 0, capacity), growth: growth}
}

func (a *cloneArena) push(c clone) {
	if len(a.items) == cap(a.items) {
		next := int(math.Ceil(float64(cap(a.items)) * a.growth))
		if next <= cap(a.items) {
			next = cap(a.items) + 1
		}
		grown := make([]clone, len(a.items), next)
		copy(grown, a.items)
		a.items = grown
		a.grows++
		cloneArenaGrows.Inc()
	}
	a.items = append(a.items, c)
}

func (a *cloneArena) reset()   { a.items = a.items[:0] }
func (a *cloneArena) len() int { return len(a.items) }
