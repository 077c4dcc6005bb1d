package core

import (
	"strings"
)

// EdgeStatus is a trust label. Labels are single bits so that callers can
// build masks (AllTrusted, AllInternal) for filtering and do-not-change sets.
type EdgeStatus uint16

const (
	StatusUnknown EdgeStatus = 1 << iota
	StatusUntrusted
	StatusTentativeUntrusted
	StatusTentativeTrusted
	StatusTrusted
	StatusLargeVariance
	StatusInterScaffold
)

// Masks over EdgeStatus.
const (
	// AllTrusted selects trusted and tentative-trusted edges.
	AllTrusted = StatusTrusted | StatusTentativeTrusted

	// AllInternal selects every label except inter-scaffold.
	AllInternal = StatusUnknown | StatusUntrusted | StatusTentativeUntrusted |
		StatusTentativeTrusted | StatusTrusted | StatusLargeVariance

	// AllStatuses selects every label.
	AllStatuses = AllInternal | StatusInterScaffold
)

var statusNames = []struct {
	s    EdgeStatus
	name string
}{
	{StatusUnknown, "unknown"},
	{StatusUntrusted, "untrusted"},
	{StatusTentativeUntrusted, "tentative-untrusted"},
	{StatusTentativeTrusted, "tentative-trusted"},
	{StatusTrusted, "trusted"},
	{StatusLargeVariance, "large-variance"},
	{StatusInterScaffold, "inter-scaffold"},
}

// Has reports whether s intersects mask.
func (s EdgeStatus) Has(mask EdgeStatus) bool { return s&mask != 0 }

func (s EdgeStatus) String() string {
	var parts []string
	for _, n := range statusNames {
		if s&n.s != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseEdgeStatus parses a single label name as produced by String.
func ParseEdgeStatus(name string) (EdgeStatus, bool) {
	for _, n := range statusNames {
		if n.name == name {
			return n.s, true
		}
	}
	return 0, false
}
