package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// SimConfig holds the population and budget parameters of one run, loadable
// from a YAML file.
type SimConfig struct {
	TotalBandwidth  float64  `yaml:"total_bandwidth"`
	MaxShare        int      `yaml:"max_share"`
	NumUsers        int      `yaml:"num_users"`
	IncludePriority bool     `yaml:"include_priority"`
	Seed            int64    `yaml:"seed"`
	Policies        []string `yaml:"policies,omitempty"` // empty = whole policy table
	Parallel        bool     `yaml:"parallel"`
}

// DefaultSimConfig returns the parameters of the reference scenario:
// 100 Mbps shared by 10 users requesting up to 20 Mbps each.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		TotalBandwidth:  100,
		MaxShare:        20,
		NumUsers:        10,
		IncludePriority: true,
		Seed:            42,
	}
}

// LoadSimConfig reads a YAML run configuration on top of DefaultSimConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sim config: %w", err)
	}
	cfg := DefaultSimConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing sim config: %w", err)
	}
	return &cfg, nil
}

// Validate checks parameter ranges and policy names.
func (c *SimConfig) Validate() error {
	if math.IsNaN(c.TotalBandwidth) || math.IsInf(c.TotalBandwidth, 0) || c.TotalBandwidth <= 0 {
		return fmt.Errorf("total_bandwidth must be a positive finite number, got %v: %w", c.TotalBandwidth, ErrInvalidArgument)
	}
	if c.MaxShare <= 0 {
		return fmt.Errorf("max_share must be positive, got %d: %w", c.MaxShare, ErrInvalidArgument)
	}
	if c.NumUsers <= 0 {
		return fmt.Errorf("num_users must be positive, got %d: %w", c.NumUsers, ErrInvalidArgument)
	}
	for _, key := range c.Policies {
		if !IsValidPolicy(key) {
			return fmt.Errorf("unknown policy %q; valid: %v: %w", key, PolicyKeys(), ErrUnknownPolicy)
		}
	}
	return nil
}
