package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// buildTable fills the dense survival table covering [bounds.P05Value,
// bounds.P95Value]. Slots with a known group estimate hold it directly;
// interior gaps are linearly interpolated between the nearest known
// neighbors (gonum piecewise-linear fit, which also carries the nearest
// known estimate outward when a side has no neighbor). The interpolation
// policy is part of the persisted artifact's reproducibility contract.
func buildTable(groups []ValueGroup, bounds PercentileBounds) ([]float64, error) {
	size := bounds.P95Value - bounds.P05Value + 1
	if size <= 0 {
		return nil, fmt.Errorf("invalid table bounds [%d, %d]", bounds.P05Value, bounds.P95Value)
	}

	var xs, ys []float64
	for _, g := range groups {
		if g.Value < bounds.P05Value || g.Value > bounds.P95Value {
			continue
		}
		xs = append(xs, float64(g.Value))
		ys = append(ys, g.Stats.MedianSurvival)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("no survival estimates inside table bounds [%d, %d]",
			bounds.P05Value, bounds.P95Value)
	}

	table := make([]float64, size)

	if len(xs) == 1 {
		// Degenerate or single-group range: constant fill.
		for i := range table {
			table[i] = ys[0]
		}
		return table, nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("failed to fit survival table: %w", err)
	}
	for i := range table {
		table[i] = pl.Predict(float64(bounds.P05Value + i))
	}
	return table, nil
}
