package model

import "sort"

// LineSet is a set of 1-based line numbers.
type LineSet map[int]struct{}

// NewLineSet returns a set holding lines.
func NewLineSet(lines ...int) LineSet {
	s := make(LineSet, len(lines))
	for _, l := range lines {
		s[l] = struct{}{}
	}

	return s
}

// Add inserts line.
func (s LineSet) Add(line int) { s[line] = struct{}{} }

// Has reports whether line is in the set.
func (s LineSet) Has(line int) bool {
	_, ok := s[line]
	return ok
}

// Sorted returns the lines in ascending order.
func (s LineSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for l := range s {
		out = append(out, l)
	}

	sort.Ints(out)

	return out
}

// FunctionDescriptor describes one function literal. Name is empty for
// anonymous functions. Params lists declared names; a variadic function
// ends with "...". The implicit self of a method is not listed.
type FunctionDescriptor struct {
	// ID is the function's ordinal within its file, in source order.
	ID        int      `json:"id" yaml:"id"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	LineStart int      `json:"line_start" yaml:"line_start"`
	LineEnd   int      `json:"line_end" yaml:"line_end"`
	Params    []string `json:"params" yaml:"params"`
	IsVararg  bool     `json:"is_vararg" yaml:"is_vararg"`
	IsMethod  bool     `json:"is_method" yaml:"is_method"`
}

// Anonymous reports whether no name could be resolved for the function.
func (f FunctionDescriptor) Anonymous() bool { return f.Name == "" }

// Contains reports whether line falls inside the function's range.
func (f FunctionDescriptor) Contains(line int) bool {
	return line >= f.LineStart && line <= f.LineEnd
}

// BlockKind names the construct a block belongs to.
type BlockKind string

// Block kinds.
const (
	BlockFunction BlockKind = "function"
	BlockThen     BlockKind = "then"
	BlockElse     BlockKind = "else"
	BlockWhile    BlockKind = "while"
	BlockRepeat   BlockKind = "repeat"
	BlockFor      BlockKind = "for"
	BlockDo       BlockKind = "do"
)

// BlockDescriptor is a nested statement block. Parent is the index of the
// enclosing block in CodeMap.Blocks, or -1 at top level.
type BlockDescriptor struct {
	ID        int       `json:"id" yaml:"id"`
	Kind      BlockKind `json:"kind" yaml:"kind"`
	LineStart int       `json:"line_start" yaml:"line_start"`
	LineEnd   int       `json:"line_end" yaml:"line_end"`
	Parent    int       `json:"parent" yaml:"parent"`
	// Lines are the start lines of the statements directly in the block.
	Lines []int `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// CodeMap is the static analysis result for one file. It is immutable once
// built. When Valid is false only Path, Hash, SourceLines and Err are set.
type CodeMap struct {
	Path            Path
	Hash            string
	SourceLines     []string
	ExecutableLines LineSet
	// IgnoredLines were executable but suppressed by a lustcov:ignore
	// directive.
	IgnoredLines LineSet
	Functions    []FunctionDescriptor
	Blocks       []BlockDescriptor
	Valid        bool
	Err          error
}

// Invalid builds the code map of a file that could not be analyzed.
func Invalid(path Path, hash string, lines []string, err error) *CodeMap {
	return &CodeMap{Path: path, Hash: hash, SourceLines: lines, Err: err}
}
