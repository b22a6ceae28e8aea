// Package report renders comparison results: the plain-text results file,
// PNG and text bar charts, and a YAML export.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/ran-sim/ran-sim/sim/comparison"
)

// Params echoes the run inputs in the report header.
type Params struct {
	TotalBandwidth float64
	MaxShare       int
	NumUsers       int
	Seed           int64
}

// WriteText writes the human-readable results: header, per-consumer QoS
// classes, every policy's allocation in the order the policy produced it,
// and the fairness comparison.
func WriteText(w io.Writer, c *comparison.Comparison, params Params) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "5G RAN Scheduling Simulation Results")
	fmt.Fprintf(bw, "Run ID: %s\n", c.RunID)
	fmt.Fprintf(bw, "Seed: %d\n", params.Seed)
	fmt.Fprintf(bw, "Total Bandwidth: %s Mbps\n", FormatAmount(params.TotalBandwidth))
	fmt.Fprintf(bw, "Max Bandwidth per User: %d Mbps\n", params.MaxShare)
	fmt.Fprintf(bw, "Number of Users: %d\n\n", params.NumUsers)

	fmt.Fprintln(bw, "QoS Distribution:")
	for _, consumer := range c.Consumers {
		if p, ok := consumer.Priority(); ok {
			fmt.Fprintf(bw, "User %d: QoS Type = %s, Priority = %d\n", consumer.ID(), consumer.Class(), p)
		} else {
			fmt.Fprintf(bw, "User %d: QoS Type = %s\n", consumer.ID(), consumer.Class())
		}
	}

	for _, o := range c.Outcomes {
		fmt.Fprintf(bw, "\n%s Allocation:\n", o.Policy.Name)
		for _, a := range o.Result {
			fmt.Fprintf(bw, "User %d - Allocated Bandwidth: %s Mbps\n", a.ConsumerID, FormatAmount(a.Amount))
		}
	}

	fmt.Fprintln(bw, "\nComparison of Scheduling Algorithms based on Fairness (Lower is Better):")
	for _, o := range c.Outcomes {
		fmt.Fprintf(bw, "%s: Fairness (Variance) = %.2f\n", o.Policy.Name, o.Fairness)
	}

	fmt.Fprintln(bw, "\nSupplementary Metrics:")
	for _, o := range c.Outcomes {
		fmt.Fprintf(bw, "%s: Jain Index = %.4f, Total = %s Mbps, Budget Conserved = %t\n",
			o.Policy.Name, o.JainIndex, FormatAmount(o.Summary.Total), o.Conserved)
	}

	fmt.Fprintln(bw, "\nRanking (most equal first):")
	for i, o := range c.Ranking() {
		fmt.Fprintf(bw, "%d. %s (%.2f)\n", i+1, o.Policy.Name, o.Fairness)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// FormatAmount prints an amount with the fewest digits that round-trip.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
