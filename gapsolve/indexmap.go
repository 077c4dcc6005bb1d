package gapsolve

// noUnknown marks a fixed gap in gapIndex.toUnknown.
const noUnknown = -1

// gapIndex is the bijection between active gaps and the dense unknown
// indices of the linear system. Fixed gaps map to noUnknown.
//
// Compaction happens in passes: begin, then keep or fix every active gap
// in increasing gap order. Kept gaps receive consecutive unknown
// indices, so the relative order of unknowns always follows gap order.
type gapIndex struct {
	toUnknown []int // gap → unknown or noUnknown
	toGap     []int // unknown → gap
	next      int   // next unknown handed out during a pass
}

// newGapIndex makes every one of numGaps gaps active.
func newGapIndex(numGaps int) *gapIndex {
	m := &gapIndex{toUnknown: make([]int, numGaps), toGap: make([]int, numGaps)}
	for i := range m.toUnknown {
		m.toUnknown[i] = i
		m.toGap[i] = i
	}
	m.next = numGaps

	return m
}

func (m *gapIndex) numGaps() int { return len(m.toUnknown) }

// count returns the number of active unknowns.
func (m *gapIndex) count() int { return len(m.toGap) }

func (m *gapIndex) unknown(gap int) (int, bool) {
	u := m.toUnknown[gap]
	return u, u != noUnknown
}

func (m *gapIndex) gap(u int) int { return m.toGap[u] }

func (m *gapIndex) isFixed(gap int) bool { return m.toUnknown[gap] == noUnknown }

func (m *gapIndex) begin() {
	m.next = 0
	m.toGap = m.toGap[:0]
}

func (m *gapIndex) keep(gap int) {
	m.toUnknown[gap] = m.next
	m.toGap = append(m.toGap, gap)
	m.next++
}

func (m *gapIndex) fix(gap int) { m.toUnknown[gap] = noUnknown }
