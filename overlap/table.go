// Package overlap provides an in-memory overlap detector: a table of known
// sequence overlaps between contig ends, searched by length window.
//
// A registered overlap (a, b, orient, length) means the two facing ends of
// a and b (as named by orient relative to a) share length bases. Lookups
// are symmetric: (b, a, orient.Flip()) finds the same entry.
package overlap

import (
	"errors"
	"sort"
	"sync"

	"github.com/katalvlaran/lsgap/core"
)

// Sentinel errors for overlap registration.
var (
	// ErrBadOverlap indicates a non-positive overlap length.
	ErrBadOverlap = errors.New("overlap: length must be positive")

	// ErrBadPair indicates an empty or self pair.
	ErrBadPair = errors.New("overlap: invalid contig pair")
)

// DefaultErrorRate is the alignment error rate assumed by the detector.
const DefaultErrorRate = 0.10

// Overlap is a detected overlap. A zero Length means none was found.
type Overlap struct {
	Length float64

	// Suspicious marks an overlap found out of the expected order: the
	// contigs overlap, but with the second one starting before the first.
	Suspicious bool

	// Containment marks an overlap where one contig lies inside the other.
	Containment bool
}

type key struct {
	a, b   string
	orient core.PairOrient
}

type entry struct {
	Overlap
	errRate float64
}

// Table is a concurrency-safe registry of overlaps.
type Table struct {
	mu      sync.RWMutex
	entries map[key][]entry
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[key][]entry)}
}

// Option configures a registered overlap.
type Option func(*entry)

// Suspicious flags the overlap as out of order.
func Suspicious() Option { return func(e *entry) { e.Suspicious = true } }

// Containment flags the overlap as a containment.
func Containment() Option { return func(e *entry) { e.Containment = true } }

// WithErrorRate records the alignment error rate of the overlap; lookups
// with a stricter rate skip it. Default DefaultErrorRate.
func WithErrorRate(r float64) Option { return func(e *entry) { e.errRate = r } }

// Register adds an overlap between the facing ends of a and b.
func (t *Table) Register(a, b string, orient core.PairOrient, length float64, opts ...Option) error {
	if a == "" || b == "" || a == b {
		return ErrBadPair
	}
	if !orient.Valid() {
		return core.ErrBadOrient
	}
	if !(length > 0) {
		return ErrBadOverlap
	}
	e := entry{Overlap: Overlap{Length: length}, errRate: DefaultErrorRate}
	for _, opt := range opts {
		opt(&e)
	}
	k := canonical(a, b, orient)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[k] = append(t.entries[k], e)
	sort.SliceStable(t.entries[k], func(i, j int) bool {
		return t.entries[k][i].Length > t.entries[k][j].Length
	})

	return nil
}

// Find returns the longest registered overlap between the facing ends of a
// and b whose length lies in [minOverlap, maxOverlap] and whose error rate
// does not exceed errRate. The zero Overlap is returned when none matches.
func (t *Table) Find(a, b string, orient core.PairOrient, minOverlap, maxOverlap, errRate float64) Overlap {
	k := canonical(a, b, orient)

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries[k] {
		if e.Length < minOverlap || e.Length > maxOverlap || e.errRate > errRate {
			continue
		}
		return e.Overlap
	}

	return Overlap{}
}

// Len reports the number of registered overlaps.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, es := range t.entries {
		n += len(es)
	}
	return n
}

func canonical(a, b string, orient core.PairOrient) key {
	if b < a {
		return key{a: b, b: a, orient: orient.Flip()}
	}
	return key{a: a, b: b, orient: orient}
}
