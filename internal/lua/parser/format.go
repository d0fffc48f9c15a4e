package parser

import (
	"errors"
	"fmt"
	"strings"
)

// FormatError renders a parse error as a numbered snippet of src with a
// caret under the offending column:
//
//	ParseError in foo.lua at 3:12: unexpected symbol near ')'
//
//	   2 | local x = (1 + 2
//	   3 |            )
//	     |            ^
//	   4 | end
//
// Errors other than *ParseError are rendered with err.Error().
func FormatError(err error, src string) string {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return err.Error()
	}

	lines := strings.Split(src, "\n")

	line := max(pe.Line, 1)
	line = min(line, len(lines))
	col := max(pe.Column, 1)

	var b strings.Builder

	if pe.Chunk != "" {
		fmt.Fprintf(&b, "ParseError in %s at %d:%d: %s\n\n", pe.Chunk, line, col, pe.Msg)
	} else {
		fmt.Fprintf(&b, "ParseError at %d:%d: %s\n\n", line, col, pe.Msg)
	}

	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, strings.TrimSuffix(lines[line-2], "\r"))
	}

	fmt.Fprintf(&b, "%4d | %s\n", line, strings.TrimSuffix(lines[line-1], "\r"))
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))

	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, strings.TrimSuffix(lines[line], "\r"))
	}

	return b.String()
}
