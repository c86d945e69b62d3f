// Package config loads analyzer settings from an optional YAML file and
// applies defaults for everything left unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gem5tools/spillscope/analysis"
	"github.com/gem5tools/spillscope/chart"
	"github.com/gem5tools/spillscope/sample"
	"github.com/gem5tools/spillscope/stats"
)

// Config holds all tunables of the engine and its HTTP frontend.
type Config struct {
	// SpillLog is the path of the spill log to analyze.
	SpillLog string `yaml:"spill_log"`
	// SampleSize is the reservoir capacity for sampled analysis.
	SampleSize int `yaml:"sample_size"`
	// MaxEvents is the largest log (in lines) loaded fully into memory.
	MaxEvents uint64 `yaml:"max_events"`
	// LargeThreshold marks logs that are certainly sampled.
	LargeThreshold uint64 `yaml:"large_threshold"`
	// UniqueCeiling bounds exact distinct-value tracking per dimension.
	UniqueCeiling int `yaml:"unique_ceiling"`
	// PointBudget caps total chart payload points.
	PointBudget int `yaml:"point_budget"`
	// ListenAddr is the HTTP listen address for serve mode.
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		SampleSize:     sample.DefaultSize,
		MaxEvents:      analysis.DefaultMaxEvents,
		LargeThreshold: analysis.DefaultLargeThreshold,
		UniqueCeiling:  stats.DefaultUniqueCeiling,
		PointBudget:    chart.DefaultPointBudget,
		ListenAddr:     ":8080",
	}
}

// Load reads the YAML file at path over the defaults.  An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot honor.
func (c Config) Validate() error {
	if c.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive, got %d", c.SampleSize)
	}
	if c.MaxEvents == 0 {
		return fmt.Errorf("max_events must be positive")
	}
	if c.LargeThreshold < c.MaxEvents {
		return fmt.Errorf("large_threshold %d below max_events %d",
			c.LargeThreshold, c.MaxEvents)
	}
	if c.UniqueCeiling <= 0 {
		return fmt.Errorf("unique_ceiling must be positive, got %d", c.UniqueCeiling)
	}
	if c.PointBudget <= 0 {
		return fmt.Errorf("point_budget must be positive, got %d", c.PointBudget)
	}
	return nil
}

// AnalyzerOptions maps the configuration onto analysis.Options.
func (c Config) AnalyzerOptions() analysis.Options {
	return analysis.Options{
		MaxEvents:      c.MaxEvents,
		LargeThreshold: c.LargeThreshold,
		SampleSize:     c.SampleSize,
		UniqueCeiling:  c.UniqueCeiling,
		PointBudget:    c.PointBudget,
	}
}
