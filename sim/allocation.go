package sim

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Allocation is the amount of bandwidth granted to one consumer.
type Allocation struct {
	ConsumerID int     `yaml:"consumer_id"`
	Amount     float64 `yaml:"amount"`
}

// AllocationResult holds one Allocation per registered consumer in the order
// the policy produced them. That order is policy-specific (SJF sorts by
// requested share, EDF shuffles); use SortedByID for a stable display order.
type AllocationResult []Allocation

// Len returns the number of allocations.
func (r AllocationResult) Len() int { return len(r) }

// Amounts returns the allocated amounts in result order.
func (r AllocationResult) Amounts() []float64 {
	amounts := make([]float64, len(r))
	for i, a := range r {
		amounts[i] = a.Amount
	}
	return amounts
}

// Total returns the sum of allocated amounts.
func (r AllocationResult) Total() float64 {
	return floats.Sum(r.Amounts())
}

// SortedByID returns a copy of the result ordered by consumer id.
func (r AllocationResult) SortedByID() AllocationResult {
	sorted := slices.Clone(r)
	slices.SortStableFunc(sorted, func(a, b Allocation) int {
		return cmp.Compare(a.ConsumerID, b.ConsumerID)
	})
	return sorted
}
