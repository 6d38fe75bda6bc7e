// Package survival implements Kaplan-Meier estimation over right-censored
// time-to-event observations.
//
// Observations come from replayed game episodes: a death is an episode that
// reached game over, a censored observation is an episode that was still
// running when the recording window closed. Censored times are lower bounds
// on the true survival time, so naive means and medians are biased; the
// Kaplan-Meier product-limit estimator accounts for censoring and stays
// unbiased.
package survival

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

// Observation is a single time-to-event measurement. Time is the number of
// turns the episode continued after the observation was taken.
type Observation struct {
	Time     int  `json:"time"`
	Censored bool `json:"censored"`
}

// CurvePoint is one step of the estimated survival function. Points are
// recorded at death times only; censoring shrinks the risk set without
// producing a step.
type CurvePoint struct {
	Time     int
	Survival float64
	AtRisk   int
	Deaths   int
}

// Curve is a Kaplan-Meier survival curve. It is immutable after construction
// and safe for unsynchronized concurrent reads.
type Curve struct {
	points []CurvePoint
}

// NewCurve estimates the survival curve for an observation multiset.
// The input slice is not modified. The result is deterministic for a given
// multiset regardless of input order.
func NewCurve(obs []Observation) *Curve {
	if len(obs) == 0 {
		return &Curve{}
	}

	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	slices.SortFunc(sorted, func(a, b Observation) int {
		if a.Time != b.Time {
			return a.Time - b.Time
		}
		// Order within a tie does not affect the estimate; fix it anyway so
		// the intermediate state is reproducible.
		if a.Censored != b.Censored {
			if a.Censored {
				return 1
			}
			return -1
		}
		return 0
	})

	var points []CurvePoint
	running := 1.0
	total := len(sorted)

	i := 0
	for i < len(sorted) {
		t := sorted[i].Time
		atRisk := total - i

		// Ties are processed atomically: count all deaths at t before the
		// risk set shrinks for later times.
		deaths := 0
		j := i
		for j < len(sorted) && sorted[j].Time == t {
			if !sorted[j].Censored {
				deaths++
			}
			j++
		}

		if deaths > 0 {
			running *= 1.0 - float64(deaths)/float64(atRisk)
			points = append(points, CurvePoint{
				Time:     t,
				Survival: running,
				AtRisk:   atRisk,
				Deaths:   deaths,
			})
		}

		i = j
	}

	return &Curve{points: points}
}

// Points returns the curve steps in ascending time order. The returned slice
// must not be modified.
func (c *Curve) Points() []CurvePoint {
	return c.points
}

// SurvivalAt evaluates the step function S(t). Before the first death the
// survival probability is 1.
func (c *Curve) SurvivalAt(t int) float64 {
	for i := len(c.points) - 1; i >= 0; i-- {
		if c.points[i].Time <= t {
			return c.points[i].Survival
		}
	}
	return 1.0
}

// Median returns the smallest recorded time at which S(t) <= 0.5. The second
// return value is false when the curve never crosses 0.5, which happens when
// censoring dominates; callers fall back to a lower-bound estimate.
func (c *Curve) Median() (float64, bool) {
	for _, p := range c.points {
		if p.Survival <= 0.5 {
			return float64(p.Time), true
		}
	}
	return 0, false
}

// Band is a pointwise confidence interval around one curve step.
type Band struct {
	Time  int
	Lower float64
	Upper float64
}

// ConfidenceBand computes pointwise confidence intervals for the curve using
// Greenwood's variance formula. level is the coverage probability, e.g. 0.95.
// Steps where the risk set is exhausted collapse to [0, 0].
func (c *Curve) ConfidenceBand(level float64) []Band {
	if len(c.points) == 0 {
		return nil
	}

	z := distuv.UnitNormal.Quantile(0.5 + level/2)

	bands := make([]Band, 0, len(c.points))
	cum := 0.0
	for _, p := range c.points {
		if p.Deaths == p.AtRisk {
			// Survival has hit zero; Greenwood's sum diverges here.
			bands = append(bands, Band{Time: p.Time})
			continue
		}
		cum += float64(p.Deaths) / float64(p.AtRisk*(p.AtRisk-p.Deaths))
		se := p.Survival * math.Sqrt(cum)
		bands = append(bands, Band{
			Time:  p.Time,
			Lower: clamp01(p.Survival - z*se),
			Upper: clamp01(p.Survival + z*se),
		})
	}
	return bands
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
