package report

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ran-sim/ran-sim/sim"
)

// PlotFormat is the image format of rendered charts.
const PlotFormat = "png"

var (
	barColor = color.RGBA{R: 135, G: 206, B: 235, A: 255}

	allocationPlotSize = [2]vg.Length{16 * vg.Inch, 10 * vg.Inch}
	classPlotSize      = [2]vg.Length{8 * vg.Inch, 6 * vg.Inch}
)

// WriteAllocationPlot renders a PNG bar chart of one policy's allocation, one
// bar per consumer ordered by consumer id.
func WriteAllocationPlot(w io.Writer, policyName string, result sim.AllocationResult) error {
	sorted := result.SortedByID()
	labels := make([]string, len(sorted))
	for i, a := range sorted {
		labels[i] = strconv.Itoa(a.ConsumerID)
	}
	p := newBarPlot(policyName+" - Bandwidth Allocation", "User ID", "Allocated Bandwidth (Mbps)")
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return renderBars(w, p, allocationPlotSize, labels, sorted.Amounts())
}

// WriteClassPlot renders a PNG bar chart of the number of consumers per
// service class, highest tier first.
func WriteClassPlot(w io.Writer, consumers []sim.Consumer) error {
	dist := sim.ClassDistribution(consumers)
	classes := sim.ServiceClasses()
	labels := make([]string, len(classes))
	values := make([]float64, len(classes))
	for i, class := range classes {
		labels[i] = string(class)
		values[i] = float64(dist[class])
	}
	p := newBarPlot("QoS Distribution", "QoS Type", "Number of Users")
	return renderBars(w, p, classPlotSize, labels, values)
}

func newBarPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func renderBars(w io.Writer, p *plot.Plot, size [2]vg.Length, labels []string, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("plotting %q: %w", p.Title.Text, sim.ErrEmptyResult)
	}
	barWidth := size[0] * 0.7 / vg.Length(len(values)+1)
	bars, err := plotter.NewBarChart(plotter.Values(values), barWidth)
	if err != nil {
		return fmt.Errorf("plotting %q: %w", p.Title.Text, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.Y.Min = 0

	wt, err := p.WriterTo(size[0], size[1], PlotFormat)
	if err != nil {
		return fmt.Errorf("rendering %q: %w", p.Title.Text, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %q: %w", p.Title.Text, err)
	}
	return nil
}
