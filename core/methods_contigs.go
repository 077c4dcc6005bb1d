// File: methods_contigs.go
// Role: contig and scaffold lifecycle: AddContig, AddScaffold, InsertContig,
//       RemoveContig, ScaffoldContigs, RecomputeScaffoldLength, ShiftOffsets.
// Determinism:
//   - Contigs() sorted by ID; Scaffolds() by insertion sequence.
//   - ScaffoldContigs() in scaffold order (min offset asc, stable on ties).
// Concurrency:
//   - All methods take muNodes (write for mutations, read for queries).

package core

import (
	"fmt"
	"math"
	"sort"
)

// AddContig registers an unplaced contig.
func (g *Graph) AddContig(id string, length Length) error {
	if id == "" {
		return ErrEmptyID
	}
	if length.Variance < 0 || math.IsNaN(length.Variance) {
		return fmt.Errorf("contig %s: %w", id, ErrBadVariance)
	}

	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	if _, ok := g.contigs[id]; ok {
		return fmt.Errorf("contig %s: %w", id, ErrDuplicateID)
	}
	g.contigs[id] = &Contig{ID: id, Length: length, Orientation: OrientAB}

	return nil
}

// Contig returns the live contig with the given ID.
func (g *Graph) Contig(id string) (*Contig, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	c, ok := g.contigs[id]
	if !ok {
		return nil, ErrContigNotFound
	}

	return c, nil
}

// Contigs returns all contigs sorted by ID.
func (g *Graph) Contigs() []*Contig {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	out := make([]*Contig, 0, len(g.contigs))
	for _, c := range g.contigs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// AddScaffold registers an empty scaffold.
func (g *Graph) AddScaffold(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	return g.addScaffoldLocked(id)
}

func (g *Graph) addScaffoldLocked(id string) error {
	if _, ok := g.scaffolds[id]; ok {
		return fmt.Errorf("scaffold %s: %w", id, ErrDuplicateID)
	}
	g.nextScaffoldSq++
	g.scaffolds[id] = &Scaffold{ID: id, seq: g.nextScaffoldSq}

	return nil
}

// Scaffold returns the live scaffold with the given ID.
func (g *Graph) Scaffold(id string) (*Scaffold, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	s, ok := g.scaffolds[id]
	if !ok {
		return nil, ErrScaffoldNotFound
	}

	return s, nil
}

// Scaffolds returns all scaffolds (dead ones included) in insertion order.
func (g *Graph) Scaffolds() []*Scaffold {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	out := make([]*Scaffold, 0, len(g.scaffolds))
	for _, s := range g.scaffolds {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })

	return out
}

// InsertContig places an unplaced contig into a scaffold at the given end
// offsets. Orientation is OrientAB when offA.Mean <= offB.Mean.
//
// The contig is inserted after every contig whose min offset is <= its own.
func (g *Graph) InsertContig(scaffoldID, contigID string, offA, offB Length) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return ErrScaffoldNotFound
	}
	c, ok := g.contigs[contigID]
	if !ok {
		return ErrContigNotFound
	}
	if c.ScaffoldID != "" {
		return fmt.Errorf("contig %s in %s: %w", contigID, c.ScaffoldID, ErrAlreadyPlaced)
	}

	c.OffsetA, c.OffsetB = offA, offB
	c.Orientation = OrientAB
	if offB.Mean < offA.Mean {
		c.Orientation = OrientBA
	}
	c.ScaffoldID = scaffoldID
	g.placeLocked(s, c)
	g.recomputeLengthLocked(s)

	return nil
}

// placeLocked inserts c into s.contigs keeping min-offset order.
func (g *Graph) placeLocked(s *Scaffold, c *Contig) {
	key := c.MinOffset().Mean
	pos := sort.Search(len(s.contigs), func(i int) bool {
		return g.contigs[s.contigs[i]].MinOffset().Mean > key
	})
	s.contigs = append(s.contigs, "")
	copy(s.contigs[pos+1:], s.contigs[pos:])
	s.contigs[pos] = c.ID
	g.reindexLocked(s)
}

func (g *Graph) reindexLocked(s *Scaffold) {
	for i, id := range s.contigs {
		g.contigs[id].Index = i
	}
}

// RemoveContig takes a contig out of its scaffold; it becomes unplaced.
func (g *Graph) RemoveContig(scaffoldID, contigID string) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return ErrScaffoldNotFound
	}
	c, ok := g.contigs[contigID]
	if !ok {
		return ErrContigNotFound
	}
	if c.ScaffoldID != scaffoldID {
		return ErrNotInScaffold
	}
	g.unplaceLocked(s, c)
	g.recomputeLengthLocked(s)

	return nil
}

func (g *Graph) unplaceLocked(s *Scaffold, c *Contig) {
	for i, id := range s.contigs {
		if id == c.ID {
			s.contigs = append(s.contigs[:i], s.contigs[i+1:]...)
			break
		}
	}
	c.ScaffoldID = ""
	c.Index = 0
	g.reindexLocked(s)
}

// ScaffoldContigs returns the contigs of a scaffold in scaffold order and
// refreshes their Index fields.
func (g *Graph) ScaffoldContigs(scaffoldID string) ([]*Contig, error) {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return nil, ErrScaffoldNotFound
	}
	out := make([]*Contig, len(s.contigs))
	for i, id := range s.contigs {
		c := g.contigs[id]
		c.Index = i
		out[i] = c
	}

	return out, nil
}

// RecomputeScaffoldLength sets the scaffold length to the largest contig end
// offset and returns it.
func (g *Graph) RecomputeScaffoldLength(scaffoldID string) (Length, error) {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return Length{}, ErrScaffoldNotFound
	}
	g.recomputeLengthLocked(s)

	return s.Length, nil
}

func (g *Graph) recomputeLengthLocked(s *Scaffold) {
	var maxEnd Length
	for i, id := range s.contigs {
		end := g.contigs[id].MaxOffset()
		if i == 0 || end.Mean > maxEnd.Mean {
			maxEnd = end
		}
	}
	s.Length = maxEnd
}

// ShiftOffsets adds delta (mean and variance) to both end offsets of the
// contig fromContigID and every contig after it in scaffold order, then
// recomputes the scaffold length.
func (g *Graph) ShiftOffsets(scaffoldID, fromContigID string, delta Length) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	s, ok := g.scaffolds[scaffoldID]
	if !ok {
		return ErrScaffoldNotFound
	}
	start := -1
	for i, id := range s.contigs {
		if id == fromContigID {
			start = i
			break
		}
	}
	if start < 0 {
		return ErrNotInScaffold
	}
	for _, id := range s.contigs[start:] {
		c := g.contigs[id]
		c.OffsetA = c.OffsetA.Add(delta)
		c.OffsetB = c.OffsetB.Add(delta)
	}
	g.recomputeLengthLocked(s)

	return nil
}
