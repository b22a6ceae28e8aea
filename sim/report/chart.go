package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ran-sim/ran-sim/sim"
)

// chartWidth is the bar length, in characters, of the largest value.
const chartWidth = 50

// WriteAllocationChart draws one horizontal bar per consumer, ordered by
// consumer id.
func WriteAllocationChart(w io.Writer, policyName string, result sim.AllocationResult) error {
	sorted := result.SortedByID()
	labels := make([]string, len(sorted))
	values := make([]float64, len(sorted))
	for i, a := range sorted {
		labels[i] = fmt.Sprintf("User %d", a.ConsumerID)
		values[i] = a.Amount
	}
	return writeBars(w, policyName+" - Bandwidth Allocation", "Allocated Bandwidth (Mbps)", labels, values)
}

// WriteClassChart draws the number of consumers per service class, highest
// tier first.
func WriteClassChart(w io.Writer, consumers []sim.Consumer) error {
	dist := sim.ClassDistribution(consumers)
	classes := sim.ServiceClasses()
	labels := make([]string, len(classes))
	values := make([]float64, len(classes))
	for i, class := range classes {
		labels[i] = string(class)
		values[i] = float64(dist[class])
	}
	return writeBars(w, "QoS Distribution", "Number of Users", labels, values)
}

func writeBars(w io.Writer, title, unit string, labels []string, values []float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, strings.Repeat("=", len(title)))
	fmt.Fprintf(bw, "(%s)\n", unit)

	labelWidth, maxValue := 0, 0.0
	for i := range labels {
		labelWidth = max(labelWidth, len(labels[i]))
		maxValue = max(maxValue, values[i])
	}
	for i := range labels {
		fmt.Fprintf(bw, "%-*s | %s %s\n", labelWidth, labels[i], bar(values[i], maxValue), FormatAmount(values[i]))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing chart %q: %w", title, err)
	}
	return nil
}

// bar scales v against maxValue; any positive value gets at least one mark.
func bar(v, maxValue float64) string {
	if v <= 0 || maxValue <= 0 {
		return ""
	}
	n := int(v / maxValue * chartWidth)
	if n < 1 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// ChartFileName returns the file name for a chart: spaces in name replaced by
// underscores, then the chart counter and the extension.
func ChartFileName(name string, counter int, ext string) string {
	return fmt.Sprintf("%s_%d.%s", strings.ReplaceAll(name, " ", "_"), counter, ext)
}
