package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"featnorm/internal/analysis"
	"featnorm/internal/session"
	"featnorm/internal/survival"
)

func init() {
	color.NoColor = true
}

func reportCollection() *session.Collection {
	return &session.Collection{
		ObservationWindow: 400,
		Episodes: []session.Episode{
			{
				PlacementEvaluator: "greedy",
				SurvivedTurns:      400,
				GameOver:           false,
				Boards: []session.BoardSample{
					{Turn: 10, Features: map[string]int{"num_holes": 0}},
					{Turn: 350, Features: map[string]int{"num_holes": 4}},
				},
			},
			{
				PlacementEvaluator: "random",
				SurvivedTurns:      120,
				GameOver:           true,
				Boards: []session.BoardSample{
					{Turn: 110, Features: map[string]int{"num_holes": 6}},
				},
			},
		},
	}
}

func TestOverview(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Overview(reportCollection())
	out := buf.String()

	for _, want := range []string{
		"Censoring Analysis",
		"Observation window: 400 turns",
		"2 total, 1 complete (50.0%), 1 censored (50.0%)",
		"Boards captured: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestPhaseBreakdown(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).PhaseBreakdown(reportCollection())
	out := buf.String()

	if !strings.Contains(out, "Censoring by Capture Phase") {
		t.Fatalf("missing header:\n%s", out)
	}
	// Turns 10, 110 and 350 of a 400-turn window land in the first, middle
	// and final quarters.
	for _, phase := range []string{"Early", "Mid", "Very Late"} {
		if !strings.Contains(out, phase) {
			t.Errorf("missing phase %q:\n%s", phase, out)
		}
	}
	// No capture fell in the third quarter, so the only "Late" in the
	// output is the one inside "Very Late".
	if n := strings.Count(out, "Late"); n != 1 {
		t.Errorf("expected the empty Late phase to be skipped, found %d rows:\n%s", n, out)
	}
}

func TestEvaluatorBreakdown(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).EvaluatorBreakdown(reportCollection())
	out := buf.String()

	if !strings.Contains(out, "Censoring by Evaluator") {
		t.Fatalf("missing header:\n%s", out)
	}
	greedy := strings.Index(out, "greedy")
	random := strings.Index(out, "random")
	if greedy < 0 || random < 0 {
		t.Fatalf("missing evaluator rows:\n%s", out)
	}
	if greedy > random {
		t.Error("evaluators not listed in encounter order")
	}
	// The greedy episode never ended; its median is only a lower bound.
	if !strings.Contains(out, ">=400.0") {
		t.Errorf("lower-bound median not marked:\n%s", out)
	}
}

func TestFeatureTable(t *testing.T) {
	groups := []analysis.ValueGroup{
		{Value: 0, Stats: survival.NewGroupStats([]survival.Observation{
			{Time: 390, Censored: true},
		})},
		{Value: 6, Stats: survival.NewGroupStats([]survival.Observation{
			{Time: 10, Censored: false},
		})},
	}

	var buf bytes.Buffer
	NewReporter(&buf).FeatureTable("num_holes", groups)
	out := buf.String()

	if !strings.Contains(out, "Feature: num_holes") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, ">=390.0") {
		t.Errorf("censored-only group should show a lower bound:\n%s", out)
	}
	if !strings.Contains(out, "10.0") {
		t.Errorf("missing exact median row:\n%s", out)
	}
}
