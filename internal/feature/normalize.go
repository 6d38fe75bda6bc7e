package feature

// Polarity states which direction of the transformed quantity is "better"
// for the feature's final score.
type Polarity string

const (
	// HigherIsBetter leaves the normalized value as-is: a larger transformed
	// quantity (e.g. longer survival) scores closer to 1.
	HigherIsBetter Polarity = "higher_is_better"
	// HigherIsWorse inverts the normalized value.
	HigherIsWorse Polarity = "higher_is_worse"
)

// neutralScore is returned when the normalization range is degenerate and a
// direction cannot be inferred from the data.
const neutralScore = 0.5

// Range maps a transformed quantity onto [0,1]. Min and Max are the survival
// estimates at the two percentile anchors, canonicalized so Min <= Max.
type Range struct {
	Min      float64  `json:"min_survival"`
	Max      float64  `json:"max_survival"`
	Polarity Polarity `json:"polarity"`
}

// NewRange builds a normalization range from the survival estimates at the
// two percentile boundaries, in either order.
func NewRange(a, b float64, polarity Polarity) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b, Polarity: polarity}
}

// Degenerate reports whether the range has collapsed to a single point, in
// which case Normalize returns the neutral constant.
func (r Range) Degenerate() bool {
	return r.Max == r.Min
}

// Normalize maps v into [0,1]. The result is monotonic in v (or inverted
// under HigherIsWorse), clamped at the anchors, and always well-defined:
// a degenerate range yields 0.5 rather than a division by zero.
func (r Range) Normalize(v float64) float64 {
	if r.Degenerate() {
		return neutralScore
	}
	n := (v - r.Min) / (r.Max - r.Min)
	if n < 0 {
		n = 0
	} else if n > 1 {
		n = 1
	}
	if r.Polarity == HigherIsWorse {
		return 1 - n
	}
	return n
}
