package model

import "sort"

// WireVersion is the version written into every wire file. Readers accept
// any file with the same major version.
const WireVersion = "1.0.0"

// WireCoverage is the serialized coverage of one worker process.
type WireCoverage struct {
	Version string `json:"version" jsonschema:"required,description=wire format version (semver)"`
	Worker  string `json:"worker,omitempty" jsonschema:"description=worker process id"`
	// Complete is false when the worker stopped before its run ended.
	Complete bool                `json:"complete" jsonschema:"description=false when the worker was killed mid-run"`
	Files    map[string]WireFile `json:"files" jsonschema:"required"`
}

// WireFile is one file of a WireCoverage. Executed lists every line that
// ran, including covered ones; Covered lists the verified lines.
type WireFile struct {
	ExecutableLines []int          `json:"executable_lines" jsonschema:"required"`
	Covered         []int          `json:"covered" jsonschema:"required"`
	Executed        []int          `json:"executed" jsonschema:"required"`
	Excluded        bool           `json:"excluded,omitempty"`
	Error           string         `json:"error,omitempty"`
	ErrorKind       string         `json:"error_kind,omitempty" jsonschema:"enum=syntax,enum=resource_limit,enum=validation,enum=io"`
	Functions       []WireFunction `json:"functions,omitempty"`
	Blocks          []WireBlock    `json:"blocks,omitempty"`
}

// WireFunction is a FunctionCoverage on the wire.
type WireFunction struct {
	FunctionDescriptor
	Executed bool `json:"executed"`
	Covered  bool `json:"covered"`
}

// WireBlock is a BlockCoverage on the wire.
type WireBlock struct {
	BlockDescriptor
	Executed bool `json:"executed"`
}

// ToWire converts d into the wire shape.
func (d *CoverageData) ToWire() map[string]WireFile {
	out := make(map[string]WireFile, len(d.Files))

	for path, f := range d.Files {
		wf := WireFile{
			ExecutableLines: []int{},
			Covered:         []int{},
			Executed:        []int{},
			Excluded:        f.Excluded,
			Error:           f.Err,
			ErrorKind:       f.ErrKind,
		}

		for _, line := range f.SortedLines() {
			wf.ExecutableLines = append(wf.ExecutableLines, line)

			switch f.Lines[line] {
			case Covered:
				wf.Covered = append(wf.Covered, line)
				wf.Executed = append(wf.Executed, line)
			case Executed:
				wf.Executed = append(wf.Executed, line)
			}
		}

		for _, fn := range f.Functions {
			wf.Functions = append(wf.Functions, WireFunction(fn))
		}

		for _, b := range f.Blocks {
			wf.Blocks = append(wf.Blocks, WireBlock(b))
		}

		out[string(path)] = wf
	}

	return out
}

// FromWire rebuilds coverage data from its wire shape without re-parsing.
// Lines listed as covered or executed but not as executable are ignored.
func FromWire(files map[string]WireFile) *CoverageData {
	d := NewCoverageData()

	for path, wf := range files {
		f := &FileCoverage{
			Path:     Path(path),
			Lines:    make(map[int]LineState, len(wf.ExecutableLines)),
			Excluded: wf.Excluded,
			Err:      wf.Error,
			ErrKind:  wf.ErrorKind,
		}

		for _, l := range wf.ExecutableLines {
			f.Lines[l] = NotCovered
		}

		for _, l := range wf.Executed {
			if _, ok := f.Lines[l]; ok {
				f.Lines[l] = Executed
			}
		}

		for _, l := range wf.Covered {
			if _, ok := f.Lines[l]; ok {
				f.Lines[l] = Covered
			}
		}

		for _, fn := range wf.Functions {
			f.Functions = append(f.Functions, FunctionCoverage(fn))
		}

		sort.SliceStable(f.Functions, func(i, j int) bool { return f.Functions[i].LineStart < f.Functions[j].LineStart })

		for _, b := range wf.Blocks {
			f.Blocks = append(f.Blocks, BlockCoverage(b))
		}

		f.Recount()
		d.Files[f.Path] = f
	}

	return d
}
