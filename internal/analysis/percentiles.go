package analysis

// PercentileBounds are the count-weighted anchor values for a feature's
// normalization scale. Boundaries are selected by cumulative observation
// count, not by value magnitude, so the scale is anchored by common values
// rather than rare extremes.
type PercentileBounds struct {
	P05Value    int
	P95Value    int
	P05Survival float64
	P95Survival float64
}

// SelectPercentileBounds walks groups (sorted by raw value ascending) and
// picks the first value whose cumulative count fraction reaches or exceeds
// each threshold. lo and hi are fractions in (0,1], lo <= hi. With a single
// distinct value both bounds collapse to it, which is valid degenerate input
// for the table builder.
func SelectPercentileBounds(groups []ValueGroup, lo, hi float64) PercentileBounds {
	total := 0
	for _, g := range groups {
		total += g.Stats.SampleCount
	}

	var b PercentileBounds
	loSet, hiSet := false, false

	cumulative := 0
	for _, g := range groups {
		cumulative += g.Stats.SampleCount
		frac := float64(cumulative) / float64(total)

		if !loSet && frac >= lo {
			b.P05Value = g.Value
			b.P05Survival = g.Stats.MedianSurvival
			loSet = true
		}
		if !hiSet && frac >= hi {
			b.P95Value = g.Value
			b.P95Survival = g.Stats.MedianSurvival
			hiSet = true
			break
		}
	}

	// Rounding can leave the upper threshold unreached; the last group then
	// carries the boundary.
	if !hiSet && len(groups) > 0 {
		last := groups[len(groups)-1]
		b.P95Value = last.Value
		b.P95Survival = last.Stats.MedianSurvival
	}

	return b
}
