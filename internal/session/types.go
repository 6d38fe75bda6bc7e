// Package session models recorded gameplay episodes and their on-disk JSONL
// representation. An episode is one full game played by some placement
// evaluator; each turn a snapshot of raw board feature values is captured.
// Episodes that reach the observation window without a game over are
// right-censored: their true survival time is unknown.
package session

import (
	"fmt"
	"slices"
)

// BoardSample is one captured turn: the raw integer value of every recorded
// board feature before the placement on that turn.
type BoardSample struct {
	Turn     int            `json:"turn"`
	Features map[string]int `json:"features"`
}

// Episode is one recorded game session.
type Episode struct {
	PlacementEvaluator string        `json:"placement_evaluator"`
	SurvivedTurns      int           `json:"survived_turns"`
	GameOver           bool          `json:"game_over"`
	Boards             []BoardSample `json:"boards"`
}

// Censored reports whether the episode was still running when recording
// stopped. For censored episodes SurvivedTurns is a lower bound only.
func (e Episode) Censored() bool {
	return !e.GameOver
}

// Collection is a full dataset: all episodes recorded under one observation
// window. Survival estimates are only comparable within a single window, so
// the window travels with the data and is validated on load.
type Collection struct {
	ObservationWindow int
	Episodes          []Episode
}

// FeatureIDs returns the union of feature IDs present in the dataset, sorted.
func (c *Collection) FeatureIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ep := range c.Episodes {
		for _, b := range ep.Boards {
			for id := range b.Features {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}
	slices.Sort(ids)
	return ids
}

// TotalBoards counts captured board samples across all episodes.
func (c *Collection) TotalBoards() int {
	n := 0
	for _, ep := range c.Episodes {
		n += len(ep.Boards)
	}
	return n
}

// ValidationError identifies a malformed record in a dataset. Records are
// rejected outright, never coerced or silently dropped.
type ValidationError struct {
	Line  int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid record at line %d: %s: %s", e.Line, e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Msg)
}

// Validate checks a single episode against the collection's observation
// window. line is used for error reporting only.
func (e Episode) Validate(window, line int) error {
	if e.SurvivedTurns < 0 {
		return &ValidationError{Line: line, Field: "survived_turns", Msg: "must be non-negative"}
	}
	if e.SurvivedTurns > window {
		return &ValidationError{
			Line:  line,
			Field: "survived_turns",
			Msg:   fmt.Sprintf("%d exceeds observation window %d", e.SurvivedTurns, window),
		}
	}
	for _, b := range e.Boards {
		if b.Turn < 0 {
			return &ValidationError{Line: line, Field: "turn", Msg: "must be non-negative"}
		}
		if b.Turn > e.SurvivedTurns {
			return &ValidationError{
				Line:  line,
				Field: "turn",
				Msg:   fmt.Sprintf("%d is after episode end at %d", b.Turn, e.SurvivedTurns),
			}
		}
		for id, v := range b.Features {
			if id == "" {
				return &ValidationError{Line: line, Field: "features", Msg: "empty feature id"}
			}
			if v < 0 {
				return &ValidationError{
					Line:  line,
					Field: "features." + id,
					Msg:   fmt.Sprintf("negative raw value %d", v),
				}
			}
		}
	}
	return nil
}
