// Package controller provides output adapters for displaying coverage results.
package controller

import (
	m "github.com/greggh/lust-next-sub011/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeReport StartMode = iota
	ModeAnalyze
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithReportMode sets the UI to coverage report mode.
func WithReportMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeReport
	}
}

// WithAnalyzeMode sets the UI to static analysis mode.
func WithAnalyzeMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeAnalyze
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// MergeInfo summarizes a merge of worker coverage files.
type MergeInfo struct {
	Workers   int
	Partial   int
	Discarded int
	Output    m.Path
}

// UI defines the interface for displaying coverage results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayCodeMaps(maps []*m.CodeMap, showLines bool, err error) error
	DisplayCoverage(data *m.CoverageData, threshold float64, err error) error
	DisplayMerge(info MergeInfo)
}
