package domain

import (
	"sort"
	"strconv"
	"strings"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// Aggregator classifies raw counters against code maps and merges results
// of several workers.
type Aggregator interface {
	// Aggregate classifies every executable line of codeMap. Counters for
	// other lines are ignored. An invalid code map yields an excluded file.
	Aggregate(codeMap *m.CodeMap, counts m.RawCounts) *m.FileCoverage
	// Merge combines two results. It is associative and commutative and
	// leaves its inputs untouched.
	Merge(a, b *m.CoverageData) *m.CoverageData
	MergeAll(data ...*m.CoverageData) *m.CoverageData
}

type aggregator struct{}

// NewAggregator returns the default Aggregator.
func NewAggregator() Aggregator {
	return &aggregator{}
}

func (ag *aggregator) Aggregate(codeMap *m.CodeMap, counts m.RawCounts) *m.FileCoverage {
	f := &m.FileCoverage{Path: codeMap.Path, Lines: map[int]m.LineState{}}

	if !codeMap.Valid {
		f.Excluded = true
		f.ErrKind = m.ErrorKind(codeMap.Err)

		if codeMap.Err != nil {
			f.Err = codeMap.Err.Error()
		}

		return f
	}

	for line := range codeMap.ExecutableLines {
		f.Lines[line] = classify(counts, line)
	}

	hit := func(line int) (executed, verified bool) {
		return counts.Executed[line] > 0 || counts.Verified[line] > 0, counts.Verified[line] > 0
	}

	for _, fn := range codeMap.Functions {
		fc := m.FunctionCoverage{FunctionDescriptor: fn}

		for line := range codeMap.ExecutableLines {
			if !fn.Contains(line) {
				continue
			}

			executed, verified := hit(line)
			fc.Executed = fc.Executed || executed
			fc.Covered = fc.Covered || verified
		}

		f.Functions = append(f.Functions, fc)
	}

	for _, b := range codeMap.Blocks {
		bc := m.BlockCoverage{BlockDescriptor: b}

		for _, line := range b.Lines {
			if executed, _ := hit(line); executed {
				bc.Executed = true
				break
			}
		}

		f.Blocks = append(f.Blocks, bc)
	}

	f.Recount()

	return f
}

func classify(counts m.RawCounts, line int) m.LineState {
	switch {
	case counts.Verified[line] > 0:
		return m.Covered
	case counts.Executed[line] > 0:
		return m.Executed
	default:
		return m.NotCovered
	}
}

func (ag *aggregator) Merge(a, b *m.CoverageData) *m.CoverageData {
	out := m.NewCoverageData()

	for _, d := range []*m.CoverageData{a, b} {
		if d == nil {
			continue
		}

		for path, f := range d.Files {
			if cur, ok := out.Files[path]; ok {
				out.Files[path] = mergeFile(cur, f)
			} else {
				out.Files[path] = copyFile(f)
			}
		}
	}

	return out
}

func (ag *aggregator) MergeAll(data ...*m.CoverageData) *m.CoverageData {
	out := m.NewCoverageData()
	for _, d := range data {
		out = ag.Merge(out, d)
	}

	return out
}

// mergeFile joins two results for one file. A valid result beats an
// excluded one; between two excluded results the smaller error wins so the
// choice does not depend on argument order.
func mergeFile(a, b *m.FileCoverage) *m.FileCoverage {
	switch {
	case a.Excluded && b.Excluded:
		if b.Err < a.Err || (b.Err == a.Err && b.ErrKind < a.ErrKind) {
			return copyFile(b)
		}

		return copyFile(a)
	case a.Excluded:
		return copyFile(b)
	case b.Excluded:
		return copyFile(a)
	}

	out := copyFile(a)

	for line, st := range b.Lines {
		if cur, ok := out.Lines[line]; !ok || st > cur {
			out.Lines[line] = st
		}
	}

	out.Functions = mergeFunctions(a.Functions, b.Functions)
	out.Blocks = mergeBlocks(a.Blocks, b.Blocks)
	out.Recount()

	return out
}

func functionKey(fn m.FunctionDescriptor) string {
	return strings.Join([]string{
		strconv.Itoa(fn.ID),
		fn.Name,
		strconv.Itoa(fn.LineStart),
		strconv.Itoa(fn.LineEnd),
		strings.Join(fn.Params, ","),
		strconv.FormatBool(fn.IsVararg),
		strconv.FormatBool(fn.IsMethod),
	}, "|")
}

func mergeFunctions(a, b []m.FunctionCoverage) []m.FunctionCoverage {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	byKey := map[string]m.FunctionCoverage{}

	for _, fn := range append(append([]m.FunctionCoverage{}, a...), b...) {
		k := functionKey(fn.FunctionDescriptor)
		cur, ok := byKey[k]

		if !ok {
			fn.Params = append([]string(nil), fn.Params...)
			byKey[k] = fn

			continue
		}

		cur.Executed = cur.Executed || fn.Executed
		cur.Covered = cur.Covered || fn.Covered
		byKey[k] = cur
	}

	out := make([]m.FunctionCoverage, 0, len(byKey))
	for _, fn := range byKey {
		out = append(out, fn)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LineStart != out[j].LineStart {
			return out[i].LineStart < out[j].LineStart
		}

		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}

		return functionKey(out[i].FunctionDescriptor) < functionKey(out[j].FunctionDescriptor)
	})

	return out
}

type blockKey struct {
	id, start, end int
	kind           m.BlockKind
}

func mergeBlocks(a, b []m.BlockCoverage) []m.BlockCoverage {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	byKey := map[blockKey]m.BlockCoverage{}

	for _, bc := range append(append([]m.BlockCoverage{}, a...), b...) {
		k := blockKey{id: bc.ID, start: bc.LineStart, end: bc.LineEnd, kind: bc.Kind}
		cur, ok := byKey[k]

		if !ok {
			bc.Lines = append([]int(nil), bc.Lines...)
			byKey[k] = bc

			continue
		}

		cur.Executed = cur.Executed || bc.Executed
		byKey[k] = cur
	}

	out := make([]m.BlockCoverage, 0, len(byKey))
	for _, bc := range byKey {
		out = append(out, bc)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}

		if out[i].LineStart != out[j].LineStart {
			return out[i].LineStart < out[j].LineStart
		}

		return out[i].Kind < out[j].Kind
	})

	return out
}

// copyFile deep-copies f with functions and blocks in canonical order.
func copyFile(f *m.FileCoverage) *m.FileCoverage {
	out := *f
	out.Lines = make(map[int]m.LineState, len(f.Lines))

	for l, st := range f.Lines {
		out.Lines[l] = st
	}

	out.Functions = mergeFunctions(f.Functions, nil)
	out.Blocks = mergeBlocks(f.Blocks, nil)

	return &out
}
