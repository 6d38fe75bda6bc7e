package survival

import "testing"

func TestNewGroupStats_Mixed(t *testing.T) {
	obs := []Observation{
		{Time: 45, Censored: false},
		{Time: 500, Censored: true},
		{Time: 123, Censored: false},
		{Time: 500, Censored: true},
	}
	g := NewGroupStats(obs)

	if g.SampleCount != 4 {
		t.Errorf("SampleCount = %d, want 4", g.SampleCount)
	}
	if g.CensoredCount != 2 {
		t.Errorf("CensoredCount = %d, want 2", g.CensoredCount)
	}
	if !almostEqual(g.MeanComplete, 84) {
		t.Errorf("MeanComplete = %v, want 84", g.MeanComplete)
	}
	if !almostEqual(g.MeanAll, 292) {
		t.Errorf("MeanAll = %v, want 292", g.MeanAll)
	}
	if !almostEqual(g.CensoredFraction(), 0.5) {
		t.Errorf("CensoredFraction = %v, want 0.5", g.CensoredFraction())
	}

	// S(45) = 0.75, S(123) = 0.75 * 2/3 = 0.5 → median crosses at 123.
	if g.MedianIsLowerBound {
		t.Error("median should be exact, not a lower bound")
	}
	if g.MedianSurvival != 123 {
		t.Errorf("MedianSurvival = %v, want 123", g.MedianSurvival)
	}
}

func TestNewGroupStats_AllCensoredFallsBackToLowerBound(t *testing.T) {
	obs := []Observation{
		{Time: 480, Censored: true},
		{Time: 500, Censored: true},
		{Time: 500, Censored: true},
	}
	g := NewGroupStats(obs)

	if !g.MedianIsLowerBound {
		t.Fatal("expected a lower-bound median")
	}
	if g.MedianSurvival != 500 {
		t.Errorf("MedianSurvival = %v, want 500 (largest observed time)", g.MedianSurvival)
	}
	if g.MeanComplete != 0 {
		t.Errorf("MeanComplete = %v, want 0 with no complete observations", g.MeanComplete)
	}
}

func TestNewGroupStats_Empty(t *testing.T) {
	g := NewGroupStats(nil)
	if g.SampleCount != 0 || g.CensoredCount != 0 {
		t.Errorf("unexpected counts in zero-value stats: %+v", g)
	}
	if g.CensoredFraction() != 0 {
		t.Errorf("CensoredFraction on empty group = %v, want 0", g.CensoredFraction())
	}
	if g.Curve == nil {
		t.Error("curve should be non-nil even for an empty group")
	}
}
