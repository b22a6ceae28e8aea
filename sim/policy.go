package sim

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"
)

// Policy keys, as accepted by Engine.Allocate and the --policies flag.
const (
	PolicyRoundRobin               = "round-robin"
	PolicyShortestJobFirst         = "sjf"
	PolicyPriorityBased            = "priority"
	PolicyWeightedProportionalFair = "wpf"
	PolicyEarliestDeadlineFirst    = "edf"
	PolicyMaximal                  = "maximal"
	PolicyQueueBased               = "queue"
)

// AllocateFunc evaluates a policy over a read-only consumer set and a total
// budget. Implementations MUST NOT modify consumers and MUST return either a
// complete result (one entry per consumer) or an error.
type AllocateFunc func(consumers []Consumer, budget float64, rng *rand.Rand) (AllocationResult, error)

// Policy is one entry of the policy table.
type Policy struct {
	Key           string
	Name          string
	Deterministic bool // same consumers and budget always give the same result
	Conserving    bool // amounts sum to the budget
	Allocate      AllocateFunc
}

// policyTable is ordered; reports and comparisons follow this order.
var policyTable = []Policy{
	{Key: PolicyRoundRobin, Name: "Round Robin Scheduling", Deterministic: true, Conserving: true, Allocate: allocateRoundRobin},
	{Key: PolicyShortestJobFirst, Name: "Shortest Job First (SJF)", Deterministic: true, Allocate: allocateShortestJobFirst},
	{Key: PolicyPriorityBased, Name: "Priority-based Scheduling", Deterministic: true, Allocate: allocatePriorityBased},
	{Key: PolicyWeightedProportionalFair, Name: "Weighted Proportional Fair", Deterministic: true, Conserving: true, Allocate: allocateWeightedProportionalFair},
	{Key: PolicyEarliestDeadlineFirst, Name: "Earliest Deadline First (EDF)", Conserving: true, Allocate: allocateEarliestDeadlineFirst},
	{Key: PolicyMaximal, Name: "Maximal Scheduling with Interference Mitigation", Allocate: allocateUniformRandom},
	// Same mechanics as maximal. Kept as its own entry so both names stay selectable.
	{Key: PolicyQueueBased, Name: "Queue-based Scheduling", Allocate: allocateUniformRandom},
}

// Policies returns the policy table in its canonical order.
func Policies() []Policy {
	return slices.Clone(policyTable)
}

// PolicyKeys returns the policy keys in canonical order.
func PolicyKeys() []string {
	keys := make([]string, len(policyTable))
	for i, p := range policyTable {
		keys[i] = p.Key
	}
	return keys
}

// LookupPolicy returns the table entry for key.
func LookupPolicy(key string) (Policy, error) {
	for _, p := range policyTable {
		if p.Key == key {
			return p, nil
		}
	}
	return Policy{}, fmt.Errorf("policy %q (valid: %v): %w", key, PolicyKeys(), ErrUnknownPolicy)
}

// IsValidPolicy returns true if key names an entry of the policy table.
func IsValidPolicy(key string) bool {
	_, err := LookupPolicy(key)
	return err == nil
}

// classFraction is the share of the total budget granted per service class
// by the priority-based policy.
var classFraction = map[ServiceClass]float64{
	ClassHigh:   0.4,
	ClassMedium: 0.3,
	ClassLow:    0.2,
}

// ClassFraction returns the fraction of the budget the priority-based policy
// grants a consumer of the given class.
func ClassFraction(class ServiceClass) float64 {
	return classFraction[class]
}

func requirePopulation(consumers []Consumer) error {
	if len(consumers) == 0 {
		return fmt.Errorf("allocation over zero consumers: %w", ErrEmptyPopulation)
	}
	return nil
}

func allocateRoundRobin(consumers []Consumer, budget float64, _ *rand.Rand) (AllocationResult, error) {
	if err := requirePopulation(consumers); err != nil {
		return nil, err
	}
	perConsumer := budget / float64(len(consumers))
	result := make(AllocationResult, len(consumers))
	for i, c := range consumers {
		result[i] = Allocation{ConsumerID: c.id, Amount: perConsumer}
	}
	return result, nil
}

// allocateShortestJobFirst grants each consumer exactly its requested share,
// smallest request first. Not scaled to the budget.
func allocateShortestJobFirst(consumers []Consumer, _ float64, _ *rand.Rand) (AllocationResult, error) {
	if err := requirePopulation(consumers); err != nil {
		return nil, err
	}
	ordered := slices.Clone(consumers)
	slices.SortStableFunc(ordered, func(a, b Consumer) int {
		return cmp.Compare(a.requestedShare, b.requestedShare)
	})
	result := make(AllocationResult, len(ordered))
	for i, c := range ordered {
		result[i] = Allocation{ConsumerID: c.id, Amount: float64(c.requestedShare)}
	}
	return result, nil
}

func allocatePriorityBased(consumers []Consumer, budget float64, _ *rand.Rand) (AllocationResult, error) {
	if err := requirePopulation(consumers); err != nil {
		return nil, err
	}
	result := make(AllocationResult, len(consumers))
	for i, c := range consumers {
		result[i] = Allocation{ConsumerID: c.id, Amount: budget * ClassFraction(c.class)}
	}
	return result, nil
}

func allocateWeightedProportionalFair(consumers []Consumer, budget float64, _ *rand.Rand) (AllocationResult, error) {
	if err := requirePopulation(consumers); err != nil {
		return nil, err
	}
	totalWeight := 0
	for _, c := range consumers {
		totalWeight += c.requestedShare
	}
	result := make(AllocationResult, len(consumers))
	for i, c := range consumers {
		weight := float64(c.requestedShare) / float64(totalWeight)
		result[i] = Allocation{ConsumerID: c.id, Amount: weight * budget}
	}
	return result, nil
}

// allocateEarliestDeadlineFirst stands in for EDF: consumers carry no
// deadline, so the order is a uniform shuffle and every consumer gets an
// equal split.
func allocateEarliestDeadlineFirst(consumers []Consumer, budget float64, rng *rand.Rand) (AllocationResult, error) {
	if err := requirePopulation(consumers); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("edf: nil random source: %w", ErrInvalidArgument)
	}
	ordered := slices.Clone(consumers)
	rng.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})
	perConsumer := budget / float64(len(ordered))
	result := make(AllocationResult, len(ordered))
	for i, c := range ordered {
		result[i] = Allocation{ConsumerID: c.id, Amount: perConsumer}
	}
	return result, nil
}

// allocateUniformRandom grants every consumer an independent uniform integer
// in [1, floor(budget/n)].
func allocateUniformRandom(consumers []Consumer, budget float64, rng *rand.Rand) (AllocationResult, error) {
	if err := requirePopulation(consumers); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source: %w", ErrInvalidArgument)
	}
	upper := RandomAllocationCeiling(budget, len(consumers))
	if upper < 1 {
		return nil, fmt.Errorf("budget %g is smaller than the population (%d consumers); random draws need floor(budget/n) >= 1: %w",
			budget, len(consumers), ErrInvalidArgument)
	}
	result := make(AllocationResult, len(consumers))
	for i, c := range consumers {
		result[i] = Allocation{ConsumerID: c.id, Amount: float64(1 + rng.Intn(upper))}
	}
	return result, nil
}

// maxRandomCeiling keeps float-to-int conversion exact and within int range.
const maxRandomCeiling = min(1<<53, math.MaxInt)

// RandomAllocationCeiling returns floor(budget/n), the inclusive upper bound
// of the random-amount policies.
func RandomAllocationCeiling(budget float64, n int) int {
	if n <= 0 {
		return 0
	}
	ceiling := math.Floor(budget / float64(n))
	if ceiling > maxRandomCeiling {
		return maxRandomCeiling
	}
	return int(ceiling)
}
