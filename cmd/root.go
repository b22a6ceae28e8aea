package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ran-sim/ran-sim/sim"
	"github.com/ran-sim/ran-sim/sim/comparison"
)

var (
	// CLI flags for the run parameters
	totalBandwidth  float64  // Total bandwidth shared by all users (Mbps)
	maxShare        int      // Max bandwidth a single user can request (Mbps)
	numUsers        int      // Number of users
	includePriority bool     // Assign a 1-10 priority to every user
	seed            int64    // Seed for population and random policies
	policyKeys      []string // Policies to run; empty runs all
	parallel        bool     // Evaluate policies concurrently
	configPath      string   // Optional YAML run configuration
	logLevel        string   // Log verbosity level

	// CLI flags for outputs
	outputDir   string // Directory for chart files
	resultsFile string // Text results file
	yamlOut     string // Optional YAML export path
	charts      bool   // Write PNG chart files
	textCharts  bool   // Also write text bar charts
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ran-sim",
	Short: "Bandwidth allocation policy simulator",
}

// runCmd executes one comparison using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every allocation policy over a random population and compare fairness",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		logrus.Infof("Starting simulation: bandwidth=%v Mbps, users=%d, max share=%d Mbps, priority=%t, seed=%d",
			cfg.TotalBandwidth, cfg.NumUsers, cfg.MaxShare, cfg.IncludePriority, cfg.Seed)

		c, err := runSimulation(cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		out := outputOptions{Dir: outputDir, ResultsFile: resultsFile, YAMLPath: yamlOut, Charts: charts, TextCharts: textCharts}
		if err := writeOutputs(c, cfg, out); err != nil {
			logrus.Fatalf("Writing results failed: %v", err)
		}
		logrus.Info(completionMessage(out))
	},
}

// completionMessage names the artifacts a run produced.
func completionMessage(out outputOptions) string {
	if out.Charts || out.TextCharts {
		return fmt.Sprintf("Simulation complete. Charts are in %q and details in %q.", out.Dir, out.ResultsFile)
	}
	return fmt.Sprintf("Simulation complete. Details are in %q.", out.ResultsFile)
}

// resolveConfig starts from the defaults, applies the --config file if given,
// then applies every flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	if configPath != "" {
		loaded, err := sim.LoadSimConfig(configPath)
		if err != nil {
			return sim.SimConfig{}, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if configPath == "" || flags.Changed("total-bandwidth") {
		cfg.TotalBandwidth = totalBandwidth
	}
	if configPath == "" || flags.Changed("max-share") {
		cfg.MaxShare = maxShare
	}
	if configPath == "" || flags.Changed("num-users") {
		cfg.NumUsers = numUsers
	}
	if configPath == "" || flags.Changed("priority") {
		cfg.IncludePriority = includePriority
	}
	if configPath == "" || flags.Changed("seed") {
		cfg.Seed = seed
	}
	if configPath == "" || flags.Changed("policies") {
		cfg.Policies = policyKeys
	}
	if configPath == "" || flags.Changed("parallel") {
		cfg.Parallel = parallel
	}

	if err := cfg.Validate(); err != nil {
		return sim.SimConfig{}, err
	}
	if !cfg.IncludePriority {
		logrus.Warn("priorities disabled; consumers carry no priority")
	}
	if sim.RandomAllocationCeiling(cfg.TotalBandwidth, cfg.NumUsers) < 1 {
		logrus.Warnf("total bandwidth %v is below the number of users %d; random-amount policies will fail",
			cfg.TotalBandwidth, cfg.NumUsers)
	}
	return cfg, nil
}

// runSimulation generates the population, registers it with a fresh engine
// and runs the comparison.
func runSimulation(cfg sim.SimConfig) (*comparison.Comparison, error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	consumers, err := sim.GenerateConsumers(cfg.NumUsers, cfg.MaxShare, cfg.IncludePriority, rng.ForSubsystem(sim.SubsystemPopulation))
	if err != nil {
		return nil, fmt.Errorf("generating users: %w", err)
	}
	engine, err := sim.NewEngine(cfg.TotalBandwidth, rng)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if err := engine.AddConsumers(consumers); err != nil {
		return nil, fmt.Errorf("registering users: %w", err)
	}
	return comparison.Run(engine, comparison.Options{Policies: cfg.Policies, Parallel: cfg.Parallel})
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := sim.DefaultSimConfig()

	runCmd.Flags().Float64Var(&totalBandwidth, "total-bandwidth", defaults.TotalBandwidth, "Total available bandwidth (Mbps)")
	runCmd.Flags().IntVar(&maxShare, "max-share", defaults.MaxShare, "Max bandwidth a user can request (Mbps)")
	runCmd.Flags().IntVar(&numUsers, "num-users", defaults.NumUsers, "Number of users")
	runCmd.Flags().BoolVar(&includePriority, "priority", defaults.IncludePriority, "Assign a random 1-10 priority to every user")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for user generation and random policies")
	runCmd.Flags().StringSliceVar(&policyKeys, "policies", nil, "Comma-separated policy keys to run (default all; see `ran-sim policies`)")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "Evaluate policies concurrently")
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML run configuration; explicit flags override it")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&outputDir, "output-dir", "output", "Directory for chart files")
	runCmd.Flags().StringVar(&resultsFile, "results-file", "simulation_results.txt", "Path of the text results file")
	runCmd.Flags().StringVar(&yamlOut, "yaml-out", "", "Optional path for a YAML export of the results")
	runCmd.Flags().BoolVar(&charts, "charts", true, "Write per-policy and QoS distribution PNG charts to --output-dir")
	runCmd.Flags().BoolVar(&textCharts, "text-charts", false, "Also write the charts as text bar charts to --output-dir")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(policiesCmd)
}
