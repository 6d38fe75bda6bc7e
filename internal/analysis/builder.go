package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"featnorm/internal/feature"
	"featnorm/internal/session"
)

// Method identifies the normalization scheme of persisted parameters.
const Method = "kaplan_meier_p05_p95"

// Options tune the construction pipeline.
type Options struct {
	// MinGroupSamples is the sample count below which a value group is
	// flagged as low-confidence in diagnostics. Flagged groups are still
	// computed; this is not a hard failure.
	MinGroupSamples int
	// Workers caps the number of features built concurrently. Defaults to
	// the CPU count.
	Workers int
	// Strict aborts the whole batch on the first per-feature error instead
	// of collecting failures.
	Strict bool
}

// Builder runs the per-feature construction pipeline: aggregate, estimate,
// select percentile anchors, fill the dense table. Features are independent,
// so the batch fans out across a bounded worker group and cancellation is
// honored at feature boundaries.
type Builder struct {
	opts Options
}

// NewBuilder creates a builder with defaults applied.
func NewBuilder(opts Options) *Builder {
	if opts.MinGroupSamples <= 0 {
		opts.MinGroupSamples = 30
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Builder{opts: opts}
}

// Diagnostics describe how trustworthy a feature's parameters are. They ride
// along in the persisted artifact so downstream consumers can see, not
// guess, where estimates are approximate.
type Diagnostics struct {
	P05Value         int     `json:"p05_value"`
	P95Value         int     `json:"p95_value"`
	P05Survival      float64 `json:"p05_survival"`
	P95Survival      float64 `json:"p95_survival"`
	UniqueValueCount int     `json:"unique_value_count"`
	SampleCount      int     `json:"sample_count"`
	CensoredCount    int     `json:"censored_count"`

	// LowConfidenceValues lists raw values whose group had fewer samples
	// than the configured minimum.
	LowConfidenceValues []int `json:"low_confidence_values,omitempty"`
	// LowerBoundMedianValues lists raw values whose KM median never crossed
	// 0.5; their survival estimate is "at least the largest observed time",
	// a documented optimistic lower bound rather than a true median.
	LowerBoundMedianValues []int `json:"lower_bound_median_values,omitempty"`
	// DegenerateRange is set when the percentile anchors collapsed to a
	// single value and normalization degenerates to the neutral constant.
	DegenerateRange bool `json:"degenerate_range,omitempty"`
}

// FeatureParams is the immutable build product for one feature: the dense
// survival table, its normalization range, and diagnostics.
type FeatureParams struct {
	ID          string
	TableMin    int // raw value of table slot 0 (the P05 anchor)
	Table       []float64
	Range       feature.Range
	Diagnostics Diagnostics
}

// Params is a full build product for a dataset, keyed by feature ID.
type Params struct {
	ObservationWindow int
	Method            string
	Features          map[string]*FeatureParams
}

// FeatureError pairs a failed feature with its error in non-strict batches.
type FeatureError struct {
	ID  string
	Err error
}

func (e FeatureError) Error() string {
	return fmt.Sprintf("feature %s: %v", e.ID, e.Err)
}

// BuildFeature runs the full pipeline for one feature.
func (b *Builder) BuildFeature(col *session.Collection, featureID string) (*FeatureParams, error) {
	groups, err := AggregateFeature(col, featureID)
	if err != nil {
		return nil, err
	}

	bounds := SelectPercentileBounds(groups, 0.05, 0.95)

	table, err := buildTable(groups, bounds)
	if err != nil {
		return nil, fmt.Errorf("feature %s: %w", featureID, err)
	}

	diag := Diagnostics{
		P05Value:         bounds.P05Value,
		P95Value:         bounds.P95Value,
		P05Survival:      bounds.P05Survival,
		P95Survival:      bounds.P95Survival,
		UniqueValueCount: len(groups),
	}
	for _, g := range groups {
		diag.SampleCount += g.Stats.SampleCount
		diag.CensoredCount += g.Stats.CensoredCount
		if g.Stats.SampleCount < b.opts.MinGroupSamples {
			diag.LowConfidenceValues = append(diag.LowConfidenceValues, g.Value)
		}
		if g.Stats.MedianIsLowerBound {
			diag.LowerBoundMedianValues = append(diag.LowerBoundMedianValues, g.Value)
		}
	}

	rng := feature.NewRange(bounds.P05Survival, bounds.P95Survival, feature.HigherIsBetter)
	if rng.Degenerate() {
		diag.DegenerateRange = true
	}

	log.Debug().
		Str("feature", featureID).
		Int("p05", bounds.P05Value).
		Int("p95", bounds.P95Value).
		Int("uniqueValues", diag.UniqueValueCount).
		Int("samples", diag.SampleCount).
		Msg("Built normalization parameters")

	return &FeatureParams{
		ID:          featureID,
		TableMin:    bounds.P05Value,
		Table:       table,
		Range:       rng,
		Diagnostics: diag,
	}, nil
}

// BuildAll builds parameters for the given features concurrently. In
// non-strict mode per-feature failures are collected and the remaining
// features still build; in strict mode the first failure cancels the batch.
// Context cancellation abandons pending features cleanly and discards
// partial state.
func (b *Builder) BuildAll(ctx context.Context, col *session.Collection, featureIDs []string) (*Params, []FeatureError, error) {
	results := make([]*FeatureParams, len(featureIDs))

	var mu sync.Mutex
	var failures []FeatureError

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for i, id := range featureIDs {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fp, err := b.BuildFeature(col, id)
			if err != nil {
				if b.opts.Strict {
					return FeatureError{ID: id, Err: err}
				}
				mu.Lock()
				failures = append(failures, FeatureError{ID: id, Err: err})
				mu.Unlock()
				return nil
			}
			results[i] = fp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	params := &Params{
		ObservationWindow: col.ObservationWindow,
		Method:            Method,
		Features:          make(map[string]*FeatureParams),
	}
	for _, fp := range results {
		if fp != nil {
			params.Features[fp.ID] = fp
		}
	}
	if len(params.Features) == 0 {
		if len(failures) > 0 {
			return nil, failures, fmt.Errorf("all %d features failed to build", len(failures))
		}
		return nil, nil, fmt.Errorf("no features to build")
	}
	return params, failures, nil
}

// BindFeature couples built parameters with an extractor into an evaluatable
// feature instance.
func BindFeature[S any](p *FeatureParams, name string, extract feature.Extractor[S]) (*feature.Feature[S], error) {
	tt, err := feature.NewTableTransform(p.TableMin, p.Table)
	if err != nil {
		return nil, fmt.Errorf("feature %s: %w", p.ID, err)
	}
	return feature.New(p.ID, name, extract, tt, p.Range)
}
