package model

import (
	"fmt"
	"time"
)

// PartialPolicy decides what happens to coverage from a worker that did not
// finish its run.
type PartialPolicy string

// Partial data policies.
const (
	PartialDiscard PartialPolicy = "discard"
	PartialMerge   PartialPolicy = "merge"
)

// Config holds the settings read by the coverage core. Field tags serve both
// YAML and TOML config files.
type Config struct {
	ControlFlowKeywordsExecutable bool          `yaml:"control_flow_keywords_executable" toml:"control_flow_keywords_executable" json:"control_flow_keywords_executable"`
	Include                       []string      `yaml:"include" toml:"include" json:"include"`
	Exclude                       []string      `yaml:"exclude" toml:"exclude" json:"exclude"`
	TrackBlocks                   bool          `yaml:"track_blocks" toml:"track_blocks" json:"track_blocks"`
	Threshold                     float64       `yaml:"threshold" toml:"threshold" json:"threshold"`
	PartialPolicy                 PartialPolicy `yaml:"partial_policy" toml:"partial_policy" json:"partial_policy"`
	MaxFileSize                   int           `yaml:"max_file_size" toml:"max_file_size" json:"max_file_size"`
	ParseTimeout                  string        `yaml:"parse_timeout" toml:"parse_timeout" json:"parse_timeout"`
	MaxDepth                      int           `yaml:"max_depth" toml:"max_depth" json:"max_depth"`
	Workers                       int           `yaml:"workers" toml:"workers" json:"workers"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		ControlFlowKeywordsExecutable: true,
		Include:                       []string{"**/*.lua"},
		Exclude:                       []string{"**/*_spec.lua", "**/*_test.lua"},
		Threshold:                     80,
		PartialPolicy:                 PartialDiscard,
		MaxFileSize:                   1 << 20,
		ParseTimeout:                  "10s",
		MaxDepth:                      200,
	}
}

// Timeout returns ParseTimeout as a duration; zero when unset.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.ParseTimeout)
	if err != nil {
		return 0
	}

	return d
}

// Validate rejects settings the core cannot act on.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("threshold %v outside [0, 100]", c.Threshold)
	}

	switch c.PartialPolicy {
	case PartialDiscard, PartialMerge:
	default:
		return fmt.Errorf("unknown partial_policy %q (want %q or %q)", c.PartialPolicy, PartialDiscard, PartialMerge)
	}

	if c.ParseTimeout != "" {
		if _, err := time.ParseDuration(c.ParseTimeout); err != nil {
			return fmt.Errorf("parse_timeout: %w", err)
		}
	}

	if c.MaxFileSize < 0 || c.MaxDepth < 0 || c.Workers < 0 {
		return fmt.Errorf("max_file_size, max_depth and workers must not be negative")
	}

	return nil
}
