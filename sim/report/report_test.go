package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ran-sim/ran-sim/sim"
	"github.com/ran-sim/ran-sim/sim/comparison"
)

func runComparison(t *testing.T, includePriority bool) *comparison.Comparison {
	t.Helper()
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(42))
	consumers, err := sim.GenerateConsumers(10, 20, includePriority, rng.ForSubsystem(sim.SubsystemPopulation))
	require.NoError(t, err)
	e, err := sim.NewEngine(100, rng)
	require.NoError(t, err)
	require.NoError(t, e.AddConsumers(consumers))
	c, err := comparison.Run(e, comparison.Options{})
	require.NoError(t, err)
	return c
}

func TestWriteText_ContainsEverySection(t *testing.T) {
	// GIVEN a full comparison over the reference scenario
	c := runComparison(t, true)

	// WHEN the text report is written
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, c, Params{TotalBandwidth: 100, MaxShare: 20, NumUsers: 10, Seed: 42}))
	out := buf.String()

	// THEN header, QoS lines, every policy block and the fairness block are present
	assert.True(t, strings.HasPrefix(out, "5G RAN Scheduling Simulation Results\n"))
	assert.Contains(t, out, "Run ID: "+c.RunID)
	assert.Contains(t, out, "Total Bandwidth: 100 Mbps")
	assert.Contains(t, out, "Max Bandwidth per User: 20 Mbps")
	assert.Contains(t, out, "Number of Users: 10")
	assert.Contains(t, out, "QoS Distribution:")
	for _, consumer := range c.Consumers {
		assert.Contains(t, out, fmt.Sprintf("User %d: QoS Type = %s", consumer.ID(), consumer.Class()))
	}
	for _, p := range sim.Policies() {
		assert.Contains(t, out, "\n"+p.Name+" Allocation:\n")
		assert.Contains(t, out, p.Name+": Fairness (Variance) = ")
	}
	assert.Contains(t, out, "Round Robin Scheduling: Fairness (Variance) = 0.00")
	assert.Contains(t, out, "User 1 - Allocated Bandwidth: 10 Mbps")
	assert.Contains(t, out, "Comparison of Scheduling Algorithms based on Fairness (Lower is Better):")
	assert.Contains(t, out, "Ranking (most equal first):\n1. ")
}

func TestWriteText_WithoutPriority_OmitsPriority(t *testing.T) {
	c := runComparison(t, false)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, c, Params{TotalBandwidth: 100, MaxShare: 20, NumUsers: 10}))
	assert.NotContains(t, buf.String(), "Priority =")
}

func TestWriteAllocationChart_SortedByID(t *testing.T) {
	result := sim.AllocationResult{
		{ConsumerID: 3, Amount: 5},
		{ConsumerID: 1, Amount: 10},
		{ConsumerID: 2, Amount: 0},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteAllocationChart(&buf, "Shortest Job First (SJF)", result))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Shortest Job First (SJF) - Bandwidth Allocation", lines[0])
	assert.Equal(t, "User 1 | "+strings.Repeat("#", chartWidth)+" 10", lines[3])
	assert.Equal(t, "User 2 |  0", lines[4])
	assert.Equal(t, "User 3 | "+strings.Repeat("#", chartWidth/2)+" 5", lines[5])
}

func TestWriteClassChart_AllClasses(t *testing.T) {
	consumers := []sim.Consumer{}
	for id, class := range []sim.ServiceClass{sim.ClassLow, sim.ClassLow, sim.ClassHigh} {
		c, err := sim.NewConsumer(id+1, class, 1, nil)
		require.NoError(t, err)
		consumers = append(consumers, c)
	}
	var buf bytes.Buffer
	require.NoError(t, WriteClassChart(&buf, consumers))

	out := buf.String()
	assert.Contains(t, out, "QoS Distribution\n")
	assert.Contains(t, out, "High   | "+strings.Repeat("#", chartWidth/2)+" 1\n")
	assert.Contains(t, out, "Medium |  0\n")
	assert.Contains(t, out, "Low    | "+strings.Repeat("#", chartWidth)+" 2\n")
}

func TestChartFileName(t *testing.T) {
	assert.Equal(t, "Round_Robin_Scheduling_2.png", ChartFileName("Round Robin Scheduling", 2, PlotFormat))
	assert.Equal(t, "Shortest_Job_First_(SJF)_3.txt", ChartFileName("Shortest Job First (SJF)", 3, "txt"))
	assert.Equal(t, "QoS_Distribution_1.png", ChartFileName("QoS Distribution", 1, PlotFormat))
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestWriteAllocationPlot_RendersPNG(t *testing.T) {
	// GIVEN one policy's allocation over the reference scenario
	c := runComparison(t, true)
	o := c.Outcomes[0]

	// WHEN it is plotted
	var buf bytes.Buffer
	require.NoError(t, WriteAllocationPlot(&buf, o.Policy.Name, o.Result))

	// THEN the output is a non-empty PNG image
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
	assert.Greater(t, buf.Len(), len(pngSignature))
}

func TestWriteClassPlot_RendersPNG(t *testing.T) {
	c := runComparison(t, false)
	var buf bytes.Buffer
	require.NoError(t, WriteClassPlot(&buf, c.Consumers))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestWriteAllocationPlot_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAllocationPlot(&buf, "Round Robin Scheduling", nil)
	assert.ErrorIs(t, err, sim.ErrEmptyResult)
	assert.Zero(t, buf.Len())
}

func TestBar_SmallPositiveValueVisible(t *testing.T) {
	assert.Equal(t, "#", bar(0.001, 100))
	assert.Equal(t, "", bar(0, 100))
}

func TestWriteYAML_RoundTripsScores(t *testing.T) {
	c := runComparison(t, true)
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, c))

	var got Export
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, c.RunID, got.RunID)
	assert.Equal(t, 100.0, got.Budget)
	require.Len(t, got.Consumers, 10)
	for _, ce := range got.Consumers {
		assert.NotNil(t, ce.Priority, "consumer %d lost its priority", ce.ID)
	}
	require.Len(t, got.Outcomes, len(c.Outcomes))
	for i, o := range c.Outcomes {
		assert.Equal(t, o.Policy.Key, got.Outcomes[i].Key)
		assert.Equal(t, o.Fairness, got.Outcomes[i].Fairness)
		assert.Equal(t, []sim.Allocation(o.Result), got.Outcomes[i].Allocations)
	}
}

func TestWriteYAML_AbsentPriorityOmitted(t *testing.T) {
	c := runComparison(t, false)
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, c))
	assert.NotContains(t, buf.String(), "priority:")
}
