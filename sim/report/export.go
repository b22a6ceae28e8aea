package report

import (
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ran-sim/ran-sim/sim"
	"github.com/ran-sim/ran-sim/sim/comparison"
)

// Export is the machine-readable form of a comparison.
type Export struct {
	RunID     string           `yaml:"run_id"`
	Budget    float64          `yaml:"budget"`
	Consumers []ConsumerExport `yaml:"consumers"`
	Outcomes  []OutcomeExport  `yaml:"outcomes"`
}

// ConsumerExport is one consumer. Priority is omitted when absent.
type ConsumerExport struct {
	ID             int    `yaml:"id"`
	Class          string `yaml:"class"`
	RequestedShare int    `yaml:"requested_share"`
	Priority       *int   `yaml:"priority,omitempty"`
}

// OutcomeExport is one policy's allocation and scores.
type OutcomeExport struct {
	Key         string           `yaml:"key"`
	Name        string           `yaml:"name"`
	Fairness    float64          `yaml:"fairness"`
	JainIndex   float64          `yaml:"jain_index"`
	Conserved   bool             `yaml:"conserved"`
	Total       float64          `yaml:"total"`
	Allocations []sim.Allocation `yaml:"allocations"`
}

// NewExport converts a comparison into its export form. Allocations keep the
// order the policy produced them.
func NewExport(c *comparison.Comparison) Export {
	e := Export{
		RunID:     c.RunID,
		Budget:    c.Budget,
		Consumers: make([]ConsumerExport, 0, len(c.Consumers)),
		Outcomes:  make([]OutcomeExport, 0, len(c.Outcomes)),
	}
	for _, consumer := range c.Consumers {
		ce := ConsumerExport{
			ID:             consumer.ID(),
			Class:          string(consumer.Class()),
			RequestedShare: consumer.RequestedShare(),
		}
		if p, ok := consumer.Priority(); ok {
			ce.Priority = &p
		}
		e.Consumers = append(e.Consumers, ce)
	}
	for _, o := range c.Outcomes {
		oe := OutcomeExport{
			Key:         o.Policy.Key,
			Name:        o.Policy.Name,
			Fairness:    o.Fairness,
			JainIndex:   o.JainIndex,
			Conserved:   o.Conserved,
			Total:       o.Summary.Total,
			Allocations: slices.Clone(o.Result),
		}
		e.Outcomes = append(e.Outcomes, oe)
	}
	return e
}

// WriteYAML marshals the comparison as YAML.
func WriteYAML(w io.Writer, c *comparison.Comparison) error {
	data, err := yaml.Marshal(NewExport(c))
	if err != nil {
		return fmt.Errorf("marshaling comparison: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing comparison: %w", err)
	}
	return nil
}
