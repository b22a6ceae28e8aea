package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fairness returns the population variance (divisor n) of the allocated
// amounts. Lower is more equal. The value is unbounded and only meaningful
// for ranking policies against each other.
func Fairness(result AllocationResult) (float64, error) {
	if len(result) == 0 {
		return 0, fmt.Errorf("fairness: %w", ErrEmptyResult)
	}
	return stat.PopVariance(result.Amounts(), nil), nil
}

// JainIndex returns Jain's fairness index (sum x)^2 / (n * sum x^2), which
// lies in (0, 1] with 1 meaning perfectly equal. All-zero amounts score 0.
func JainIndex(result AllocationResult) (float64, error) {
	if len(result) == 0 {
		return 0, fmt.Errorf("jain index: %w", ErrEmptyResult)
	}
	sum, sumSq := 0.0, 0.0
	for _, a := range result {
		sum += a.Amount
		sumSq += a.Amount * a.Amount
	}
	if sumSq == 0 {
		return 0, nil
	}
	return (sum * sum) / (float64(len(result)) * sumSq), nil
}

// Conserves reports whether the result's amounts sum to budget within an
// absolute tolerance of tol.
func Conserves(result AllocationResult, budget, tol float64) bool {
	return math.Abs(result.Total()-budget) <= tol
}
