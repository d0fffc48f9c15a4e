package model

import (
	"fmt"
	"sort"
)

// RawCounts are the per-line hit counters the tracker keeps for one file.
type RawCounts struct {
	Executed map[int]int `json:"executed_lines"`
	Verified map[int]int `json:"verified_lines"`
}

// NewRawCounts returns empty counters.
func NewRawCounts() RawCounts {
	return RawCounts{Executed: map[int]int{}, Verified: map[int]int{}}
}

// Clone returns a deep copy.
func (c RawCounts) Clone() RawCounts {
	out := NewRawCounts()
	for l, n := range c.Executed {
		out.Executed[l] = n
	}

	for l, n := range c.Verified {
		out.Verified[l] = n
	}

	return out
}

// FileState is the lifecycle position of one file during a run. States only
// move forward.
type FileState int

// File states in order.
const (
	StateUntracked FileState = iota
	StateTracking
	StateStopped
	StateAggregated
)

func (s FileState) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	case StateStopped:
		return "stopped"
	case StateAggregated:
		return "aggregated"
	default:
		return "untracked"
	}
}

// LineState classifies an executable line. The numeric order is the merge
// rank: NotCovered < Executed < Covered.
type LineState int

// Line classifications.
const (
	NotCovered LineState = iota
	Executed
	Covered
)

func (s LineState) String() string {
	switch s {
	case Executed:
		return "executed"
	case Covered:
		return "covered"
	default:
		return "not_covered"
	}
}

// ParseLineState is the inverse of LineState.String.
func ParseLineState(s string) (LineState, error) {
	switch s {
	case "not_covered":
		return NotCovered, nil
	case "executed":
		return Executed, nil
	case "covered":
		return Covered, nil
	default:
		return NotCovered, fmt.Errorf("unknown line state %q", s)
	}
}

// FunctionCoverage reports whether any executable line of a function ran or
// was verified.
type FunctionCoverage struct {
	FunctionDescriptor
	Executed bool `json:"executed"`
	Covered  bool `json:"covered"`
}

// BlockCoverage reports whether any executable line directly inside a block
// ran.
type BlockCoverage struct {
	BlockDescriptor
	Executed bool `json:"executed"`
}

// FileCoverage is the aggregated result for one file.
type FileCoverage struct {
	Path              Path
	TotalExecutable   int
	CoveredCount      int
	ExecutedOnlyCount int
	NotCoveredCount   int
	Lines             map[int]LineState
	Functions         []FunctionCoverage
	Blocks            []BlockCoverage
	// Excluded files could not be analyzed; they carry the error and are
	// left out of summary totals.
	Excluded bool
	Err      string
	ErrKind  string
}

// Recount recomputes the counters from Lines.
func (f *FileCoverage) Recount() {
	f.TotalExecutable, f.CoveredCount, f.ExecutedOnlyCount, f.NotCoveredCount = len(f.Lines), 0, 0, 0

	for _, st := range f.Lines {
		switch st {
		case Covered:
			f.CoveredCount++
		case Executed:
			f.ExecutedOnlyCount++
		default:
			f.NotCoveredCount++
		}
	}
}

// Percentage is covered/total*100, or 0 when nothing is executable.
func (f *FileCoverage) Percentage() float64 {
	return percent(f.CoveredCount, f.TotalExecutable)
}

// SortedLines returns the classified lines in ascending order.
func (f *FileCoverage) SortedLines() []int {
	out := make([]int, 0, len(f.Lines))
	for l := range f.Lines {
		out = append(out, l)
	}

	sort.Ints(out)

	return out
}

// CoverageData maps files to their coverage.
type CoverageData struct {
	Files map[Path]*FileCoverage
}

// NewCoverageData returns an empty result.
func NewCoverageData() *CoverageData {
	return &CoverageData{Files: map[Path]*FileCoverage{}}
}

// Paths returns the file paths in sorted order.
func (d *CoverageData) Paths() []Path {
	out := make([]Path, 0, len(d.Files))
	for p := range d.Files {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Summary totals the coverage of all files that were not excluded.
type Summary struct {
	Files             int
	ExcludedFiles     int
	TotalExecutable   int
	Covered           int
	ExecutedOnly      int
	NotCovered        int
	FunctionsTotal    int
	FunctionsExecuted int
	FunctionsCovered  int
	BlocksTotal       int
	BlocksExecuted    int
}

// Summary aggregates per-file counts.
func (d *CoverageData) Summary() Summary {
	var s Summary

	for _, f := range d.Files {
		if f.Excluded {
			s.ExcludedFiles++
			continue
		}

		s.Files++
		s.TotalExecutable += f.TotalExecutable
		s.Covered += f.CoveredCount
		s.ExecutedOnly += f.ExecutedOnlyCount
		s.NotCovered += f.NotCoveredCount

		for _, fn := range f.Functions {
			s.FunctionsTotal++

			if fn.Executed {
				s.FunctionsExecuted++
			}

			if fn.Covered {
				s.FunctionsCovered++
			}
		}

		for _, b := range f.Blocks {
			s.BlocksTotal++

			if b.Executed {
				s.BlocksExecuted++
			}
		}
	}

	return s
}

// Percentage is the line coverage across all files, weighted by each
// file's executable line count.
func (s Summary) Percentage() float64 { return percent(s.Covered, s.TotalExecutable) }

// MeetsThreshold reports whether the percentage reaches threshold.
func (s Summary) MeetsThreshold(threshold float64) bool { return s.Percentage() >= threshold }

func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}

	p := float64(part) / float64(total) * 100
	if p > 100 {
		return 100
	}

	return p
}
