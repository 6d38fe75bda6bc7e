package feature

import "errors"

// Extractor reads one raw integer measurement from a game state. Extractors
// are supplied by the board-analysis side and must be pure.
type Extractor[S any] func(state S) int

// Feature is one evaluatable unit: extractor, transform strategy, and
// normalization range. It is immutable after construction; a rebuild from a
// newer dataset produces a new Feature, never a mutation. Evaluate is total:
// every integer input, including extreme out-of-range values, produces a
// defined score in [0,1].
type Feature[S any] struct {
	id        string
	name      string
	extract   Extractor[S]
	transform Transform
	rng       Range
}

// New builds a feature instance.
func New[S any](id, name string, extract Extractor[S], transform Transform, rng Range) (*Feature[S], error) {
	if id == "" {
		return nil, errors.New("feature id must not be empty")
	}
	if extract == nil {
		return nil, errors.New("feature extractor must not be nil")
	}
	if transform == nil {
		return nil, errors.New("feature transform must not be nil")
	}
	return &Feature[S]{
		id:        id,
		name:      name,
		extract:   extract,
		transform: transform,
		rng:       rng,
	}, nil
}

func (f *Feature[S]) ID() string { return f.id }

func (f *Feature[S]) Name() string { return f.name }

// Range returns the feature's normalization range.
func (f *Feature[S]) Range() Range { return f.rng }

// Evaluate scores a game state: extract, transform, normalize. O(1), no
// allocation, no I/O, safe to call from many goroutines concurrently.
func (f *Feature[S]) Evaluate(state S) float64 {
	return f.rng.Normalize(f.transform.Apply(f.extract(state)))
}

// Score evaluates from an already-extracted raw value. Tooling that works on
// recorded datasets uses this to bypass the extractor.
func (f *Feature[S]) Score(raw int) float64 {
	return f.rng.Normalize(f.transform.Apply(raw))
}
