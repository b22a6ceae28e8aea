package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ran-sim/ran-sim/sim"
	"github.com/ran-sim/ran-sim/sim/comparison"
	"github.com/ran-sim/ran-sim/sim/report"
)

// outputOptions controls where run artifacts are written.
type outputOptions struct {
	Dir         string // chart directory, created if missing
	ResultsFile string // text results
	YAMLPath    string // empty = no YAML export
	Charts      bool   // PNG charts
	TextCharts  bool   // text bar charts next to the PNGs
}

// writeOutputs writes the QoS chart, one chart per policy (numbered from 1 in
// that order), the text results and the optional YAML export.
func writeOutputs(c *comparison.Comparison, cfg sim.SimConfig, opts outputOptions) error {
	if opts.Charts || opts.TextCharts {
		if err := writeCharts(c, opts); err != nil {
			return err
		}
	}

	params := report.Params{
		TotalBandwidth: cfg.TotalBandwidth,
		MaxShare:       cfg.MaxShare,
		NumUsers:       cfg.NumUsers,
		Seed:           cfg.Seed,
	}
	if err := writeFile(opts.ResultsFile, func(w io.Writer) error { return report.WriteText(w, c, params) }); err != nil {
		return err
	}

	if opts.YAMLPath != "" {
		if err := writeFile(opts.YAMLPath, func(w io.Writer) error { return report.WriteYAML(w, c) }); err != nil {
			return err
		}
		logrus.Infof("Saved YAML results as: %s", opts.YAMLPath)
	}
	return nil
}

// writeCharts writes the QoS distribution chart as #1 followed by the policy
// charts in comparison order, in every enabled format.
func writeCharts(c *comparison.Comparison, opts outputOptions) error {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	type chart struct {
		name string
		plot func(io.Writer) error
		text func(io.Writer) error
	}
	charts := []chart{{
		name: "QoS Distribution",
		plot: func(w io.Writer) error { return report.WriteClassPlot(w, c.Consumers) },
		text: func(w io.Writer) error { return report.WriteClassChart(w, c.Consumers) },
	}}
	for _, o := range c.Outcomes {
		charts = append(charts, chart{
			name: o.Policy.Name,
			plot: func(w io.Writer) error { return report.WriteAllocationPlot(w, o.Policy.Name, o.Result) },
			text: func(w io.Writer) error { return report.WriteAllocationChart(w, o.Policy.Name, o.Result) },
		})
	}

	for i, ch := range charts {
		counter := i + 1
		if opts.Charts {
			path := filepath.Join(opts.Dir, report.ChartFileName(ch.name, counter, report.PlotFormat))
			if err := writeFile(path, ch.plot); err != nil {
				return err
			}
			logrus.Infof("Saved %s chart as: %s", ch.name, path)
		}
		if opts.TextCharts {
			path := filepath.Join(opts.Dir, report.ChartFileName(ch.name, counter, "txt"))
			if err := writeFile(path, ch.text); err != nil {
				return err
			}
			logrus.Debugf("Saved %s text chart as: %s", ch.name, path)
		}
	}
	return nil
}

// writeFile creates or truncates path and hands a buffered writer to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	if err := write(writer); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
