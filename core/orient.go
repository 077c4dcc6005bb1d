package core

import "math"

// Length is a normally distributed length: a mean and its variance.
type Length struct {
	Mean     float64 `yaml:"mean"`
	Variance float64 `yaml:"variance"`
}

// Add returns l + o (means and variances both add).
func (l Length) Add(o Length) Length {
	return Length{Mean: l.Mean + o.Mean, Variance: l.Variance + o.Variance}
}

// Sub returns l - o for the mean; variances still add.
func (l Length) Sub(o Length) Length {
	return Length{Mean: l.Mean - o.Mean, Variance: l.Variance + o.Variance}
}

// StdDev returns sqrt(Variance), or 0 for non-positive variances.
func (l Length) StdDev() float64 {
	if l.Variance <= 0 {
		return 0
	}
	return math.Sqrt(l.Variance)
}

// Orient is the orientation of a contig inside its scaffold.
type Orient uint8

const (
	// OrientAB places the A end on the left (forward).
	OrientAB Orient = iota + 1
	// OrientBA places the B end on the left (reverse).
	OrientBA
)

func (o Orient) String() string {
	switch o {
	case OrientAB:
		return "A_B"
	case OrientBA:
		return "B_A"
	default:
		return "?"
	}
}

// PairOrient is the relative orientation code of an edge, naming which ends
// of the two contigs face each other.
type PairOrient uint8

const (
	// ABAB: first contig forward, second forward (B end faces A end).
	ABAB PairOrient = iota + 1
	// ABBA: first forward, second reverse (innie; B end faces B end).
	ABBA
	// BAAB: first reverse, second forward (outtie; A end faces A end).
	BAAB
	// BABA: both reverse (A end faces B end).
	BABA
)

// Valid reports whether p is one of the four codes.
func (p PairOrient) Valid() bool { return p >= ABAB && p <= BABA }

// Flip returns the same relationship seen from the other endpoint.
func (p PairOrient) Flip() PairOrient {
	switch p {
	case ABAB:
		return BABA
	case BABA:
		return ABAB
	default:
		return p
	}
}

// LeavesB reports whether the edge leaves the first contig from its B end.
func (p PairOrient) LeavesB() bool { return p == ABAB || p == ABBA }

func (p PairOrient) String() string {
	switch p {
	case ABAB:
		return "AB_AB"
	case ABBA:
		return "AB_BA"
	case BAAB:
		return "BA_AB"
	case BABA:
		return "BA_BA"
	default:
		return "??"
	}
}

// ParsePairOrient parses "AB_AB", "AB_BA", "BA_AB" or "BA_BA".
func ParsePairOrient(s string) (PairOrient, error) {
	switch s {
	case "AB_AB":
		return ABAB, nil
	case "AB_BA":
		return ABBA, nil
	case "BA_AB":
		return BAAB, nil
	case "BA_BA":
		return BABA, nil
	}
	return 0, ErrBadOrient
}

// PairOrientFor returns the edge code for two consecutive contigs with the
// given scaffold orientations (left contig first).
func PairOrientFor(left, right Orient) PairOrient {
	switch {
	case left == OrientAB && right == OrientAB:
		return ABAB
	case left == OrientAB && right == OrientBA:
		return ABBA
	case left == OrientBA && right == OrientAB:
		return BAAB
	default:
		return BABA
	}
}
