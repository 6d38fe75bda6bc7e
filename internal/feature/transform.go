// Package feature holds the read-only evaluation side of the normalization
// pipeline: transform strategies, the [0,1] normalizer, and the feature
// instances that bind an extractor to both. Everything here is immutable
// after construction and runs inside inner search loops, so the evaluation
// path is O(1), allocation-free, and safe for unsynchronized concurrent
// reads.
package feature

import "errors"

// ErrEmptyTable is returned when a table transform is built without slots.
var ErrEmptyTable = errors.New("transform table must not be empty")

// Transform maps a raw integer feature value to a domain-meaningful quantity.
// For survival features that quantity is an estimated median survival time in
// turns; for raw features it is the value itself.
type Transform interface {
	Apply(raw int) float64
}

// TableTransform is a dense lookup table covering the closed raw-value range
// [MinValue, MinValue+len(table)-1]. Out-of-range lookups clamp to the
// nearest boundary slot. Gaps are resolved at build time, so Apply is a
// bounds-check plus one index.
type TableTransform struct {
	minValue int
	table    []float64
}

// NewTableTransform builds a table transform. minValue is the raw value of
// slot 0.
func NewTableTransform(minValue int, table []float64) (*TableTransform, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	owned := make([]float64, len(table))
	copy(owned, table)
	return &TableTransform{minValue: minValue, table: owned}, nil
}

// Apply looks up the survival estimate for a raw value, clamping to the
// table boundaries.
func (t *TableTransform) Apply(raw int) float64 {
	idx := raw - t.minValue
	if idx < 0 {
		idx = 0
	} else if idx >= len(t.table) {
		idx = len(t.table) - 1
	}
	return t.table[idx]
}

// Bounds returns the closed raw-value range the table covers.
func (t *TableTransform) Bounds() (min, max int) {
	return t.minValue, t.minValue + len(t.table) - 1
}

// Table returns a copy of the table slots, slot 0 first.
func (t *TableTransform) Table() []float64 {
	out := make([]float64, len(t.table))
	copy(out, t.table)
	return out
}

// RawTransform is the identity strategy: the transformed quantity is the raw
// value itself, and the scaling lives entirely in the normalization range.
// Used for features normalized directly against raw-value percentiles.
type RawTransform struct{}

func (RawTransform) Apply(raw int) float64 {
	return float64(raw)
}
