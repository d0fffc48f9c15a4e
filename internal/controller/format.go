package controller

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/greggh/lust-next-sub011/internal/lua/parser"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

// lineRanges renders ascending lines as "1-3, 7, 9-10".
func lineRanges(lines []int) string {
	if len(lines) == 0 {
		return ""
	}

	sorted := append([]int(nil), lines...)
	sort.Ints(sorted)

	var parts []string

	start, prev := sorted[0], sorted[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}

	for _, l := range sorted[1:] {
		if l == prev+1 {
			prev = l
			continue
		}

		flush()

		start, prev = l, l
	}

	flush()

	return strings.Join(parts, ", ")
}

// linesIn returns the sorted lines of f with state st.
func linesIn(f *m.FileCoverage, st m.LineState) []int {
	var out []int

	for _, l := range f.SortedLines() {
		if f.Lines[l] == st {
			out = append(out, l)
		}
	}

	return out
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func functionLabel(fn m.FunctionDescriptor) string {
	name := fn.Name
	if fn.Anonymous() {
		name = "<anonymous>"
	}

	return fmt.Sprintf("%s(%s) %d-%d", name, strings.Join(fn.Params, ", "), fn.LineStart, fn.LineEnd)
}

// Source line markers used by annotate.
const (
	markExecutable = "+"
	markIgnored    = "!"
	markPlain      = " "
)

// annotate prefixes each source line of cm with its number and a marker.
func annotate(cm *m.CodeMap) []string {
	out := make([]string, 0, len(cm.SourceLines))

	for i, text := range cm.SourceLines {
		line := i + 1

		mark := markPlain

		switch {
		case cm.ExecutableLines.Has(line):
			mark = markExecutable
		case cm.IgnoredLines.Has(line):
			mark = markIgnored
		}

		out = append(out, fmt.Sprintf("%4d %s %s", line, mark, text))
	}

	return out
}

// coverageDetail lists the uncovered and executed-only lines of f along with
// its functions.
func coverageDetail(f *m.FileCoverage) []string {
	if f.Excluded {
		return []string{fmt.Sprintf("excluded (%s): %s", f.ErrKind, f.Err)}
	}

	out := []string{
		"Not covered:   " + orNone(lineRanges(linesIn(f, m.NotCovered))),
		"Executed only: " + orNone(lineRanges(linesIn(f, m.Executed))),
	}

	for _, fn := range f.Functions {
		state := "not executed"

		switch {
		case fn.Covered:
			state = "covered"
		case fn.Executed:
			state = "executed"
		}

		out = append(out, fmt.Sprintf("  %s  %s", functionLabel(fn.FunctionDescriptor), state))
	}

	return out
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}

	return s
}

// snippet renders the error of an invalid code map, with the offending
// source line when the file failed to parse.
func snippet(cm *m.CodeMap) string {
	out := cm.Err.Error()
	if len(cm.SourceLines) > 0 {
		out = parser.FormatError(cm.Err, strings.Join(cm.SourceLines, "\n"))
	}

	return strings.TrimRight(out, "\n") + "\n"
}
