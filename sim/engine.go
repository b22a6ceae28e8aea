package sim

import (
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
)

// Engine holds a total bandwidth budget and the registered consumers, and
// evaluates allocation policies over them. Consumers are appended during
// setup; no allocation operation adds, removes or mutates them.
type Engine struct {
	budget    float64
	consumers []Consumer
	ids       map[int]struct{}
	rng       *PartitionedRNG
}

// NewEngine creates an Engine with a fixed budget. Random policies draw from
// rng, one subsystem per policy.
func NewEngine(budget float64, rng *PartitionedRNG) (*Engine, error) {
	if math.IsNaN(budget) || math.IsInf(budget, 0) || budget <= 0 {
		return nil, fmt.Errorf("total budget must be a positive finite number, got %v: %w", budget, ErrInvalidArgument)
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source: %w", ErrInvalidArgument)
	}
	return &Engine{budget: budget, rng: rng}, nil
}

// AddConsumer registers a consumer. Register the whole population before
// invoking any allocation operation. Consumer ids are unique within an
// engine; zero-value or otherwise malformed consumers are rejected.
func (e *Engine) AddConsumer(c Consumer) error {
	return e.AddConsumers([]Consumer{c})
}

// AddConsumers registers consumers in order. Either all of them are
// registered or, on error, none.
func (e *Engine) AddConsumers(consumers []Consumer) error {
	batch := make(map[int]struct{}, len(consumers))
	for _, c := range consumers {
		if err := validateRegistration(c); err != nil {
			return err
		}
		if _, dup := e.ids[c.id]; dup {
			return fmt.Errorf("consumer %d already registered: %w", c.id, ErrInvalidArgument)
		}
		if _, dup := batch[c.id]; dup {
			return fmt.Errorf("consumer %d appears twice: %w", c.id, ErrInvalidArgument)
		}
		batch[c.id] = struct{}{}
	}

	if e.ids == nil {
		e.ids = make(map[int]struct{}, len(consumers))
	}
	for _, c := range consumers {
		e.ids[c.id] = struct{}{}
	}
	e.consumers = append(e.consumers, consumers...)
	return nil
}

// validateRegistration re-checks the fields NewConsumer enforces, which a
// zero-value Consumer bypasses.
func validateRegistration(c Consumer) error {
	switch {
	case c.id < 1:
		return fmt.Errorf("consumer id must be >= 1, got %d: %w", c.id, ErrInvalidArgument)
	case !c.class.IsValid():
		return fmt.Errorf("consumer %d: unknown service class %q: %w", c.id, c.class, ErrInvalidArgument)
	case c.requestedShare < 1:
		return fmt.Errorf("consumer %d: requested share must be >= 1, got %d: %w", c.id, c.requestedShare, ErrInvalidArgument)
	}
	return nil
}

// Budget returns the total budget.
func (e *Engine) Budget() float64 { return e.budget }

// Len returns the number of registered consumers.
func (e *Engine) Len() int { return len(e.consumers) }

// Consumers returns a copy of the registered consumers in registration order.
func (e *Engine) Consumers() []Consumer {
	return slices.Clone(e.consumers)
}

// RNG returns the engine's partitioned random source.
func (e *Engine) RNG() *PartitionedRNG { return e.rng }

// Allocate evaluates the policy with the given key over the registered
// consumers. It returns a complete result or an error, never a partial one.
func (e *Engine) Allocate(key string) (AllocationResult, error) {
	p, err := LookupPolicy(key)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(p)
}

// Evaluate runs a policy table entry over the registered consumers.
func (e *Engine) Evaluate(p Policy) (AllocationResult, error) {
	if len(e.consumers) == 0 {
		return nil, fmt.Errorf("%s: no consumers registered: %w", p.Name, ErrEmptyPopulation)
	}
	result, err := p.Allocate(e.Consumers(), e.budget, e.rng.ForSubsystem(SubsystemPolicy(p.Key)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	logrus.Debugf("[engine] %s allocated %.4f of %.4f across %d consumers",
		p.Key, result.Total(), e.budget, len(result))
	return result, nil
}

// RoundRobin gives every consumer budget/n.
func (e *Engine) RoundRobin() (AllocationResult, error) {
	return e.Allocate(PolicyRoundRobin)
}

// ShortestJobFirst gives every consumer its own requested share, ordered by
// ascending request. The total may exceed or fall short of the budget.
func (e *Engine) ShortestJobFirst() (AllocationResult, error) {
	return e.Allocate(PolicyShortestJobFirst)
}

// PriorityBased gives each consumer a fixed fraction of the whole budget by
// service class: High 0.4, Medium 0.3, Low 0.2.
func (e *Engine) PriorityBased() (AllocationResult, error) {
	return e.Allocate(PolicyPriorityBased)
}

// WeightedProportionalFair splits the budget in proportion to requested shares.
func (e *Engine) WeightedProportionalFair() (AllocationResult, error) {
	return e.Allocate(PolicyWeightedProportionalFair)
}

// EarliestDeadlineFirst returns an equal split in a shuffled order.
func (e *Engine) EarliestDeadlineFirst() (AllocationResult, error) {
	return e.Allocate(PolicyEarliestDeadlineFirst)
}

// MaximalWithInterference draws an integer in [1, floor(budget/n)] per consumer.
func (e *Engine) MaximalWithInterference() (AllocationResult, error) {
	return e.Allocate(PolicyMaximal)
}

// QueueBased draws an integer in [1, floor(budget/n)] per consumer.
func (e *Engine) QueueBased() (AllocationResult, error) {
	return e.Allocate(PolicyQueueBased)
}
