package survival

import "gonum.org/v1/gonum/stat"

// GroupStats summarizes the survival behaviour of one group of observations,
// typically all observations sharing a single raw feature value.
//
// MeanComplete and MeanAll are diagnostics only: both are biased in the
// presence of censoring (MeanAll treats censored lower bounds as exact,
// MeanComplete drops them entirely). MedianSurvival is the Kaplan-Meier
// median and is the value the normalization pipeline consumes.
type GroupStats struct {
	SampleCount   int
	CensoredCount int

	// MeanComplete averages the non-censored observations only. Zero when
	// every observation is censored.
	MeanComplete float64
	// MeanAll is the naive mean over all observations.
	MeanAll float64

	// MedianSurvival is the KM median. When the curve never crosses 0.5 the
	// median is undefined and this holds the largest observed time instead,
	// with MedianIsLowerBound set. The true median is at least this value.
	MedianSurvival     float64
	MedianIsLowerBound bool

	Curve *Curve
}

// NewGroupStats computes survival statistics for one observation group.
func NewGroupStats(obs []Observation) GroupStats {
	if len(obs) == 0 {
		return GroupStats{Curve: NewCurve(nil)}
	}

	all := make([]float64, 0, len(obs))
	var complete []float64
	censored := 0
	maxTime := 0
	for _, o := range obs {
		all = append(all, float64(o.Time))
		if o.Censored {
			censored++
		} else {
			complete = append(complete, float64(o.Time))
		}
		if o.Time > maxTime {
			maxTime = o.Time
		}
	}

	g := GroupStats{
		SampleCount:   len(obs),
		CensoredCount: censored,
		MeanAll:       stat.Mean(all, nil),
		Curve:         NewCurve(obs),
	}
	if len(complete) > 0 {
		g.MeanComplete = stat.Mean(complete, nil)
	}

	if median, ok := g.Curve.Median(); ok {
		g.MedianSurvival = median
	} else {
		g.MedianSurvival = float64(maxTime)
		g.MedianIsLowerBound = true
	}

	return g
}

// CensoredFraction returns the share of censored observations in the group.
func (g GroupStats) CensoredFraction() float64 {
	if g.SampleCount == 0 {
		return 0
	}
	return float64(g.CensoredCount) / float64(g.SampleCount)
}
