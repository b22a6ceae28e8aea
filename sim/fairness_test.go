package sim

import (
	"errors"
	"math"
	"testing"
)

func TestFairness_EqualAllocations_ZeroVariance(t *testing.T) {
	result := AllocationResult{{1, 10}, {2, 10}, {3, 10}}
	got, err := Fairness(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.0 {
		t.Errorf("Fairness(equal) = %v, want 0", got)
	}
}

func TestFairness_PopulationVariance(t *testing.T) {
	tests := []struct {
		name   string
		result AllocationResult
		want   float64
	}{
		// mean 5, squared deviations 9+1+1+9 = 20, /4 (not /3)
		{"four values", AllocationResult{{1, 2}, {2, 4}, {3, 6}, {4, 8}}, 5},
		{"single value", AllocationResult{{1, 42}}, 0},
		{"two values", AllocationResult{{1, 0}, {2, 10}}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fairness(tt.result)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Fairness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFairness_OrderIndependent(t *testing.T) {
	a, _ := Fairness(AllocationResult{{1, 3}, {2, 9}, {3, 1}})
	b, _ := Fairness(AllocationResult{{3, 1}, {1, 3}, {2, 9}})
	if math.Abs(a-b) > 1e-12 {
		t.Errorf("fairness depends on order: %v vs %v", a, b)
	}
}

func TestFairness_EmptyResult(t *testing.T) {
	for _, result := range []AllocationResult{nil, {}} {
		_, err := Fairness(result)
		if !errors.Is(err, ErrEmptyResult) {
			t.Errorf("expected ErrEmptyResult, got %v", err)
		}
	}
}

func TestJainIndex(t *testing.T) {
	tests := []struct {
		name   string
		result AllocationResult
		want   float64
	}{
		{"equal", AllocationResult{{1, 5}, {2, 5}, {3, 5}, {4, 5}}, 1},
		{"one takes all", AllocationResult{{1, 12}, {2, 0}, {3, 0}, {4, 0}}, 0.25},
		{"all zero", AllocationResult{{1, 0}, {2, 0}}, 0},
		// (1+3)^2 / (2 * (1+9)) = 16/20
		{"skewed pair", AllocationResult{{1, 1}, {2, 3}}, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JainIndex(tt.result)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("JainIndex = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := JainIndex(nil); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestConserves(t *testing.T) {
	result := AllocationResult{{1, 33.3333333333}, {2, 33.3333333333}, {3, 33.3333333334}}
	if !Conserves(result, 100, 1e-6) {
		t.Error("expected result to conserve budget 100")
	}
	if Conserves(result, 120, 1e-6) {
		t.Error("result must not conserve budget 120")
	}
}
