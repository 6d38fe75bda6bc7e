package feature

import (
	"errors"
	"math"
	"testing"
)

func TestNewTableTransform_Empty(t *testing.T) {
	if _, err := NewTableTransform(0, nil); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("expected ErrEmptyTable, got %v", err)
	}
}

func TestTableTransform_LookupAndClamping(t *testing.T) {
	tt, err := NewTableTransform(2, []float64{400, 300, 200})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		raw  int
		want float64
	}{
		{"ExactLow", 2, 400},
		{"ExactMid", 3, 300},
		{"ExactHigh", 4, 200},
		{"BelowRange", 1, 400},
		{"Zero", 0, 400},
		{"AboveRange", 5, 200},
		{"ExtremeLow", math.MinInt32, 400},
		{"ExtremeHigh", math.MaxInt32, 200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tt.Apply(tc.raw); got != tc.want {
				t.Errorf("Apply(%d) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}

	if min, max := tt.Bounds(); min != 2 || max != 4 {
		t.Errorf("Bounds = [%d, %d], want [2, 4]", min, max)
	}
}

func TestTableTransform_CopiesInput(t *testing.T) {
	src := []float64{1, 2, 3}
	tt, err := NewTableTransform(0, src)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 99
	if got := tt.Apply(0); got != 1 {
		t.Errorf("table aliased caller slice: Apply(0) = %v, want 1", got)
	}
}

func TestRawTransform(t *testing.T) {
	var r RawTransform
	for _, raw := range []int{0, 1, 17, -3} {
		if got := r.Apply(raw); got != float64(raw) {
			t.Errorf("Apply(%d) = %v, want identity", raw, got)
		}
	}
}
