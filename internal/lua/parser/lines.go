package parser

import (
	"strings"

	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

// LineKind classifies a physical source line.
type LineKind int

// Line classes. A line holding both code and a comment is code.
const (
	LineBlank LineKind = iota
	LineComment
	LineCode
)

func (k LineKind) String() string {
	switch k {
	case LineComment:
		return "comment"
	case LineCode:
		return "code"
	default:
		return "blank"
	}
}

// ClassifyLines tokenizes src and reports, for each line (index 0 is line 1),
// whether it is blank, comment-only or carries code. Lines inside a
// multi-line string belong to that string's token and count as code.
func ClassifyLines(src string) (kinds []LineKind, err error) {
	n := len(SplitLines(src))
	kinds = make([]LineKind, n)

	mark := func(from, to int, k LineKind) {
		for line := from; line <= to && line <= n; line++ {
			if line >= 1 && kinds[line-1] < k {
				kinds[line-1] = k
			}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}

			kinds, err = nil, b.err
		}
	}()

	lex := newLexer(src, "")

	if strings.HasPrefix(strings.TrimPrefix(src, byteOrderMark), "#") {
		mark(1, 1, LineComment)
	}

	for {
		tok := lex.next()
		if tok.Kind == token.EOF {
			break
		}

		mark(tok.Pos.Line, tok.EndLine, LineCode)
	}

	for _, c := range lex.comments {
		mark(c.Pos.Line, c.EndLine, LineComment)
	}

	return kinds, nil
}
