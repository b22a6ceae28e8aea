package comparison

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ran-sim/ran-sim/sim"
)

// Summary aggregates the amounts of one allocation result.
type Summary struct {
	Total float64
	Mean  float64
	Min   float64
	Max   float64
}

// Summarize computes aggregate statistics of a result.
// Safe for empty results (returns zero-value fields).
func Summarize(result sim.AllocationResult) Summary {
	if len(result) == 0 {
		return Summary{}
	}
	amounts := result.Amounts()
	return Summary{
		Total: floats.Sum(amounts),
		Mean:  stat.Mean(amounts, nil),
		Min:   floats.Min(amounts),
		Max:   floats.Max(amounts),
	}
}
