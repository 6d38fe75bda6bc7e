package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"featnorm/internal/feature"
)

// ErrCorruptParams marks a persisted parameter file that cannot be trusted.
// Loading refuses partial or inconsistent tables outright; there is no
// partial-load fallback.
var ErrCorruptParams = errors.New("corrupt normalization parameters")

// ErrWindowMismatch marks parameters computed under a different observation
// window than the caller's dataset. Survival estimates are only valid for
// the window they were computed under.
var ErrWindowMismatch = errors.New("observation window mismatch")

// paramsFile is the on-disk schema. The transform table is keyed by raw
// value so the artifact stays readable and language-neutral; the dense
// in-memory layout is rebuilt on load.
type paramsFile struct {
	ObservationWindow int                          `json:"observation_window"`
	Method            string                       `json:"method"`
	Features          map[string]featureParamsFile `json:"features"`
}

type featureParamsFile struct {
	TransformTable map[string]float64 `json:"transform_table"`
	Range          feature.Range      `json:"range"`
	Diagnostics    Diagnostics        `json:"diagnostics"`
}

// SaveParams persists built parameters as pretty-printed JSON via a temp
// file and atomic rename.
func SaveParams(p *Params, path string) error {
	out := paramsFile{
		ObservationWindow: p.ObservationWindow,
		Method:            p.Method,
		Features:          make(map[string]featureParamsFile, len(p.Features)),
	}
	for id, fp := range p.Features {
		table := make(map[string]float64, len(fp.Table))
		for i, v := range fp.Table {
			table[strconv.Itoa(fp.TableMin+i)] = v
		}
		out.Features[id] = featureParamsFile{
			TransformTable: table,
			Range:          fp.Range,
			Diagnostics:    fp.Diagnostics,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize normalization parameters: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write parameters file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize parameters file: %w", err)
	}

	log.Info().Str("path", path).Int("features", len(p.Features)).Msg("Saved normalization parameters")
	return nil
}

// LoadParams reads and fully validates a persisted parameter file. Any
// inconsistency (unknown method, missing window, sparse or empty tables)
// fails the whole load; evaluation must never start on a partial artifact.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	var in paramsFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptParams, err)
	}
	if in.ObservationWindow <= 0 {
		return nil, fmt.Errorf("%w: missing observation_window", ErrCorruptParams)
	}
	if in.Method != Method {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrCorruptParams, in.Method)
	}
	if len(in.Features) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrCorruptParams)
	}

	p := &Params{
		ObservationWindow: in.ObservationWindow,
		Method:            in.Method,
		Features:          make(map[string]*FeatureParams, len(in.Features)),
	}
	for id, ff := range in.Features {
		fp, err := denseTable(id, ff)
		if err != nil {
			return nil, err
		}
		p.Features[id] = fp
	}
	return p, nil
}

// denseTable rebuilds the contiguous in-memory table from the keyed form.
func denseTable(id string, ff featureParamsFile) (*FeatureParams, error) {
	if len(ff.TransformTable) == 0 {
		return nil, fmt.Errorf("%w: feature %s has an empty transform table", ErrCorruptParams, id)
	}
	if ff.Range.Min > ff.Range.Max {
		return nil, fmt.Errorf("%w: feature %s range is inverted (min %v > max %v)",
			ErrCorruptParams, id, ff.Range.Min, ff.Range.Max)
	}
	switch ff.Range.Polarity {
	case "", feature.HigherIsBetter, feature.HigherIsWorse:
	default:
		return nil, fmt.Errorf("%w: feature %s has unknown polarity %q",
			ErrCorruptParams, id, ff.Range.Polarity)
	}

	min, max := 0, 0
	first := true
	values := make(map[int]float64, len(ff.TransformTable))
	for key, v := range ff.TransformTable {
		raw, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: feature %s has non-integer table key %q", ErrCorruptParams, id, key)
		}
		values[raw] = v
		if first || raw < min {
			min = raw
		}
		if first || raw > max {
			max = raw
		}
		first = false
	}

	size := max - min + 1
	if size != len(values) {
		return nil, fmt.Errorf("%w: feature %s table is sparse (covers [%d, %d] with %d entries)",
			ErrCorruptParams, id, min, max, len(values))
	}

	table := make([]float64, size)
	for raw, v := range values {
		table[raw-min] = v
	}

	return &FeatureParams{
		ID:          id,
		TableMin:    min,
		Table:       table,
		Range:       ff.Range,
		Diagnostics: ff.Diagnostics,
	}, nil
}

// ValidateWindow rejects parameters computed under a different observation
// window than the given dataset's.
func ValidateWindow(p *Params, window int) error {
	if p.ObservationWindow != window {
		return fmt.Errorf("%w: parameters built for window %d, dataset uses %d",
			ErrWindowMismatch, p.ObservationWindow, window)
	}
	return nil
}
