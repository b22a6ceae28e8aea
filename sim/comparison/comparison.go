// Package comparison runs every selected allocation policy over one engine,
// scores each result and ranks the policies by fairness.
package comparison

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ran-sim/ran-sim/sim"
)

// conservationTolerance is the absolute slack allowed when checking whether a
// result sums to the budget.
const conservationTolerance = 1e-9

// Options selects which policies run and how.
type Options struct {
	Policies []string // policy keys; empty means the whole table in canonical order
	Parallel bool     // evaluate policies concurrently
}

// Outcome bundles one policy's allocation with its scores.
type Outcome struct {
	Policy    sim.Policy
	Result    sim.AllocationResult
	Fairness  float64 // population variance; lower is more equal
	JainIndex float64
	Conserved bool
	Summary   Summary
}

// Comparison is the full output of one run.
type Comparison struct {
	RunID     string
	Budget    float64
	Consumers []sim.Consumer
	Outcomes  []Outcome // in policy table order (or Options.Policies order)
	WallTime  time.Duration
}

// Run evaluates the selected policies over the engine's consumers. Either
// every policy succeeds or Run returns the first error in policy order.
func Run(engine *sim.Engine, opts Options) (*Comparison, error) {
	policies, err := selectPolicies(opts.Policies)
	if err != nil {
		return nil, err
	}
	if engine.Len() == 0 {
		return nil, fmt.Errorf("comparison: %w", sim.ErrEmptyPopulation)
	}

	start := time.Now()
	consumers := engine.Consumers()
	budget := engine.Budget()

	// PartitionedRNG is single-goroutine; derive every stream up front.
	rngs := make([]*rand.Rand, len(policies))
	for i, p := range policies {
		rngs[i] = engine.RNG().ForSubsystem(sim.SubsystemPolicy(p.Key))
	}

	outcomes := make([]Outcome, len(policies))
	errs := make([]error, len(policies))
	evaluate := func(i int) {
		outcomes[i], errs[i] = evaluatePolicy(policies[i], slices.Clone(consumers), budget, rngs[i])
	}

	if opts.Parallel {
		var wg sync.WaitGroup
		for i := range policies {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				evaluate(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range policies {
			evaluate(i)
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	c := &Comparison{
		RunID:     uuid.NewString(),
		Budget:    budget,
		Consumers: consumers,
		Outcomes:  outcomes,
		WallTime:  time.Since(start),
	}
	logrus.Infof("[comparison] run %s: %d policies over %d consumers in %v",
		c.RunID, len(outcomes), len(consumers), c.WallTime)
	return c, nil
}

func evaluatePolicy(p sim.Policy, consumers []sim.Consumer, budget float64, rng *rand.Rand) (Outcome, error) {
	if len(consumers) == 0 {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, sim.ErrEmptyPopulation)
	}
	result, err := p.Allocate(consumers, budget, rng)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	fairness, err := sim.Fairness(result)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	jain, err := sim.JainIndex(result)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	o := Outcome{
		Policy:    p,
		Result:    result,
		Fairness:  fairness,
		JainIndex: jain,
		Conserved: sim.Conserves(result, budget, conservationTolerance),
		Summary:   Summarize(result),
	}
	logrus.Debugf("[comparison] %s: total=%.4f variance=%.4f jain=%.4f",
		p.Key, o.Summary.Total, o.Fairness, o.JainIndex)
	return o, nil
}

// selectPolicies resolves keys against the policy table, rejecting unknown
// and duplicate keys before anything runs.
func selectPolicies(keys []string) ([]sim.Policy, error) {
	if len(keys) == 0 {
		return sim.Policies(), nil
	}
	seen := make(map[string]bool, len(keys))
	policies := make([]sim.Policy, 0, len(keys))
	for _, key := range keys {
		if seen[key] {
			return nil, fmt.Errorf("policy %q selected twice: %w", key, sim.ErrInvalidArgument)
		}
		seen[key] = true
		p, err := sim.LookupPolicy(key)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// Ranking returns the outcomes ordered by fairness, most equal first. Ties
// keep run order.
func (c *Comparison) Ranking() []Outcome {
	ranked := slices.Clone(c.Outcomes)
	slices.SortStableFunc(ranked, func(a, b Outcome) int {
		return cmp.Compare(a.Fairness, b.Fairness)
	})
	return ranked
}

// Outcome returns the outcome of the policy with the given key.
func (c *Comparison) Outcome(key string) (Outcome, bool) {
	for _, o := range c.Outcomes {
		if o.Policy.Key == key {
			return o, true
		}
	}
	return Outcome{}, false
}
