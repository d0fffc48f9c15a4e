package domain

import (
	"strings"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/parser"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

const (
	ignoreDirective     = "lustcov:ignore"
	ignoreFileDirective = "lustcov:ignore-file"
)

type ignoreScope int

const (
	ignoreLine ignoreScope = iota
	ignoreFile
)

// parseIgnoreDirective recognizes "-- lustcov:ignore" and
// "-- lustcov:ignore-file", in line or long comment form.
func parseIgnoreDirective(commentText string) (ignoreScope, bool) {
	s := strings.TrimSpace(commentText)
	s = strings.TrimPrefix(s, "--")

	if level, ok := longCommentLevel(s); ok {
		closing := "]" + strings.Repeat("=", level) + "]"
		s = s[level+2:]
		s = strings.TrimSuffix(strings.TrimSpace(s), closing)
	}

	s = strings.TrimSpace(s)

	switch {
	case s == ignoreFileDirective, strings.HasPrefix(s, ignoreFileDirective+" "):
		return ignoreFile, true
	case s == ignoreDirective, strings.HasPrefix(s, ignoreDirective+" "):
		return ignoreLine, true
	default:
		return 0, false
	}
}

// longCommentLevel reports the level of a "[==[" opener at the start of s.
func longCommentLevel(s string) (int, bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, false
	}

	level := 0
	for level+1 < len(s) && s[level+1] == '=' {
		level++
	}

	if level+1 >= len(s) || s[level+1] != '[' {
		return 0, false
	}

	return level, true
}

type ignoreIndex struct {
	file   bool
	ranges [][2]int
	lines  m.LineSet
}

func (x ignoreIndex) ignores(line int) bool {
	if x.file || x.lines.Has(line) {
		return true
	}

	for _, r := range x.ranges {
		if line >= r[0] && line <= r[1] {
			return true
		}
	}

	return false
}

// buildIgnoreIndex resolves the directives in chunk's comments. A file
// directive counts only ahead of the first statement. A directive alone on
// its line targets the next line, and the whole function when one starts
// there; a trailing directive targets its own line.
func buildIgnoreIndex(chunk *ast.Chunk, kinds []parser.LineKind, functions []m.FunctionDescriptor) ignoreIndex {
	idx := ignoreIndex{lines: m.NewLineSet()}

	firstStmt := chunk.LastLine + 1
	if chunk.Block != nil && len(chunk.Block.Stmts) > 0 {
		firstStmt = chunk.Block.Stmts[0].Pos().Line
	}

	for _, c := range chunk.Comments {
		scope, ok := parseIgnoreDirective(c.Text)
		if !ok {
			continue
		}

		if scope == ignoreFile {
			if c.EndLine < firstStmt {
				idx.file = true
			}

			continue
		}

		if !isLeadingComment(c, kinds) {
			idx.lines.Add(c.EndLine)
			continue
		}

		target := c.EndLine + 1
		if fn, ok := functionAt(functions, target); ok {
			idx.ranges = append(idx.ranges, [2]int{fn.LineStart, fn.LineEnd})
			continue
		}

		idx.lines.Add(target)
	}

	return idx
}

// isLeadingComment reports whether no code shares a line with c.
func isLeadingComment(c *ast.Comment, kinds []parser.LineKind) bool {
	for line := c.Pos.Line; line <= c.EndLine; line++ {
		if line < 1 || line > len(kinds) || kinds[line-1] == parser.LineCode {
			return false
		}
	}

	return true
}

func functionAt(functions []m.FunctionDescriptor, line int) (m.FunctionDescriptor, bool) {
	for _, fn := range functions {
		if fn.LineStart == line {
			return fn, true
		}
	}

	return m.FunctionDescriptor{}, false
}
