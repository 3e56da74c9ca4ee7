// Package config provides configuration loading and access for the engine
// and its experiment drivers.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/drift/neat"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all run configuration: the engine options plus the
// experiment- and telemetry-level settings around them.
type Config struct {
	Neat       neat.Options     `yaml:"neat"`
	Experiment ExperimentConfig `yaml:"experiment"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ExperimentConfig holds generation-loop parameters for experiment drivers.
type ExperimentConfig struct {
	PopulationSize int     `yaml:"population_size"`
	Generations    int     `yaml:"generations"`
	TargetFitness  float64 `yaml:"target_fitness"`
}

// TelemetryConfig holds stats output settings.
type TelemetryConfig struct {
	// OutputDir receives generations.csv and the config dump; empty
	// disables file output.
	OutputDir string `yaml:"output_dir"`
	// LogEvery reports generation stats through slog every N generations;
	// 0 disables log reporting.
	LogEvery int `yaml:"log_every"`
}

// Default returns the embedded default configuration. The engine option
// defaults come from neat.DefaultOptions and the embedded YAML overrides
// them, so the two stay consistent.
func Default() (*Config, error) {
	cfg := &Config{Neat: neat.DefaultOptions()}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the experiment-level settings. Engine options validate
// when a population is created.
func (c *Config) Validate() error {
	if c.Experiment.PopulationSize <= 0 {
		return fmt.Errorf("experiment population_size %d must be positive", c.Experiment.PopulationSize)
	}
	if c.Experiment.Generations <= 0 {
		return fmt.Errorf("experiment generations %d must be positive", c.Experiment.Generations)
	}
	if c.Telemetry.LogEvery < 0 {
		return fmt.Errorf("telemetry log_every %d must be non-negative", c.Telemetry.LogEvery)
	}
	return nil
}

// WriteYAML saves the configuration, preserving an exact record of a run.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
