// Package analysis is the one-shot construction side of the normalization
// pipeline: it aggregates observations from recorded sessions, runs
// Kaplan-Meier estimation per raw value, anchors the scale at count-weighted
// percentiles, and emits immutable per-feature normalization parameters.
package analysis

import (
	"errors"
	"fmt"
	"slices"

	"featnorm/internal/session"
	"featnorm/internal/survival"
)

// ErrNoData marks a feature with zero observations in the dataset. The
// builder fails fast for that feature instead of emitting an empty table.
var ErrNoData = errors.New("no observations for feature")

// ValueGroup is all observations sharing one raw feature value, with their
// survival statistics.
type ValueGroup struct {
	Value int
	Stats survival.GroupStats
}

// AggregateFeature groups the dataset's observations for one feature by raw
// value. For every captured board the time to event is the number of turns
// the episode continued afterwards; censoring is inherited from the episode.
// Groups come back sorted by raw value ascending.
func AggregateFeature(col *session.Collection, featureID string) ([]ValueGroup, error) {
	byValue := make(map[int][]survival.Observation)

	for _, ep := range col.Episodes {
		censored := ep.Censored()
		for _, b := range ep.Boards {
			raw, ok := b.Features[featureID]
			if !ok {
				continue
			}
			byValue[raw] = append(byValue[raw], survival.Observation{
				Time:     ep.SurvivedTurns - b.Turn,
				Censored: censored,
			})
		}
	}

	if len(byValue) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, featureID)
	}

	values := make([]int, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	slices.Sort(values)

	groups := make([]ValueGroup, 0, len(values))
	for _, v := range values {
		groups = append(groups, ValueGroup{
			Value: v,
			Stats: survival.NewGroupStats(byValue[v]),
		})
	}
	return groups, nil
}
