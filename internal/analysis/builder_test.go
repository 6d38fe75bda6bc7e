package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"featnorm/internal/session"
)

// syntheticCollection pairs a raw value that always survives the full window
// with one that always dies early. The built transform must rank the
// surviving value strictly above the dying one.
func syntheticCollection() *session.Collection {
	col := &session.Collection{ObservationWindow: 500}
	for i := 0; i < 40; i++ {
		col.Episodes = append(col.Episodes,
			session.Episode{
				PlacementEvaluator: "greedy",
				SurvivedTurns:      500,
				GameOver:           false,
				Boards: []session.BoardSample{
					{Turn: 0, Features: map[string]int{"num_holes": 0}},
				},
			},
			session.Episode{
				PlacementEvaluator: "greedy",
				SurvivedTurns:      50,
				GameOver:           true,
				Boards: []session.BoardSample{
					{Turn: 0, Features: map[string]int{"num_holes": 10}},
				},
			},
		)
	}
	return col
}

func TestBuildFeature_Synthetic(t *testing.T) {
	b := NewBuilder(Options{})
	fp, err := b.BuildFeature(syntheticCollection(), "num_holes")
	if err != nil {
		t.Fatal(err)
	}

	if fp.TableMin != 0 {
		t.Errorf("TableMin = %d, want 0", fp.TableMin)
	}
	if len(fp.Table) != 11 {
		t.Fatalf("table covers %d slots, want 11", len(fp.Table))
	}

	// Knots at (0, 500) and (10, 50); interior slots fall on the line
	// between them.
	for i, v := range fp.Table {
		want := 500 - 45*float64(i)
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("table[%d] = %v, want %v", i, v, want)
		}
	}

	d := fp.Diagnostics
	if d.P05Value != 0 || d.P95Value != 10 {
		t.Errorf("anchors = [%d, %d], want [0, 10]", d.P05Value, d.P95Value)
	}
	if d.SampleCount != 80 || d.CensoredCount != 40 {
		t.Errorf("counts = (%d, %d), want (80, 40)", d.SampleCount, d.CensoredCount)
	}
	if d.UniqueValueCount != 2 {
		t.Errorf("UniqueValueCount = %d, want 2", d.UniqueValueCount)
	}
	// Value 0 never dies, so its median is only a lower bound.
	if len(d.LowerBoundMedianValues) != 1 || d.LowerBoundMedianValues[0] != 0 {
		t.Errorf("LowerBoundMedianValues = %v, want [0]", d.LowerBoundMedianValues)
	}
	if len(d.LowConfidenceValues) != 0 {
		t.Errorf("LowConfidenceValues = %v, want none at 40 samples per group", d.LowConfidenceValues)
	}
	if d.DegenerateRange {
		t.Error("range reported degenerate")
	}
}

func TestBuildFeature_ScoreOrdering(t *testing.T) {
	b := NewBuilder(Options{})
	fp, err := b.BuildFeature(syntheticCollection(), "num_holes")
	if err != nil {
		t.Fatal(err)
	}

	f, err := BindFeature(fp, "Number of Holes", func(v int) int { return v })
	if err != nil {
		t.Fatal(err)
	}

	if got := f.Score(0); got != 1 {
		t.Errorf("Score(0) = %v, want 1", got)
	}
	if got := f.Score(10); got != 0 {
		t.Errorf("Score(10) = %v, want 0", got)
	}
	prev := math.Inf(1)
	for raw := 0; raw <= 10; raw++ {
		got := f.Score(raw)
		if got >= prev {
			t.Fatalf("Score not strictly decreasing at %d: %v >= %v", raw, got, prev)
		}
		prev = got
	}
}

func TestBuildFeature_LowConfidenceFlag(t *testing.T) {
	b := NewBuilder(Options{MinGroupSamples: 100})
	fp, err := b.BuildFeature(syntheticCollection(), "num_holes")
	if err != nil {
		t.Fatal(err)
	}
	if len(fp.Diagnostics.LowConfidenceValues) != 2 {
		t.Errorf("LowConfidenceValues = %v, want both groups flagged below 100 samples",
			fp.Diagnostics.LowConfidenceValues)
	}
}

func TestBuildAll_CollectsFailures(t *testing.T) {
	b := NewBuilder(Options{Workers: 2})
	params, failures, err := b.BuildAll(context.Background(), syntheticCollection(),
		[]string{"num_holes", "no_such_feature"})
	if err != nil {
		t.Fatal(err)
	}

	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].ID != "no_such_feature" || !errors.Is(failures[0].Err, ErrNoData) {
		t.Errorf("unexpected failure: %v", failures[0])
	}
	if _, ok := params.Features["num_holes"]; !ok {
		t.Error("surviving feature missing from batch result")
	}
	if params.ObservationWindow != 500 || params.Method != Method {
		t.Errorf("batch metadata = (%d, %q)", params.ObservationWindow, params.Method)
	}
}

func TestBuildAll_Strict(t *testing.T) {
	b := NewBuilder(Options{Strict: true})
	_, _, err := b.BuildAll(context.Background(), syntheticCollection(),
		[]string{"num_holes", "no_such_feature"})
	if err == nil {
		t.Fatal("strict batch did not fail")
	}
	var fe FeatureError
	if !errors.As(err, &fe) || fe.ID != "no_such_feature" {
		t.Errorf("expected FeatureError for no_such_feature, got %v", err)
	}
}

func TestBuildAll_AllFailed(t *testing.T) {
	b := NewBuilder(Options{})
	_, failures, err := b.BuildAll(context.Background(), syntheticCollection(),
		[]string{"ghost_a", "ghost_b"})
	if err == nil {
		t.Fatal("expected an error when every feature fails")
	}
	if len(failures) != 2 {
		t.Errorf("expected 2 failures, got %d", len(failures))
	}
}

func TestBuildAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(Options{})
	_, _, err := b.BuildAll(ctx, syntheticCollection(), []string{"num_holes"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuildFeature_Deterministic(t *testing.T) {
	b := NewBuilder(Options{})
	first, err := b.BuildFeature(syntheticCollection(), "num_holes")
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.BuildFeature(syntheticCollection(), "num_holes")
	if err != nil {
		t.Fatal(err)
	}

	if first.TableMin != second.TableMin || len(first.Table) != len(second.Table) {
		t.Fatalf("table shape differs across runs")
	}
	for i := range first.Table {
		if first.Table[i] != second.Table[i] {
			t.Errorf("table[%d] differs across runs: %v vs %v", i, first.Table[i], second.Table[i])
		}
	}
	if first.Range != second.Range {
		t.Errorf("range differs across runs: %+v vs %+v", first.Range, second.Range)
	}
}
