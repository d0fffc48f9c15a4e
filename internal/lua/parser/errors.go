package parser

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptySource is returned when Parse is given no text at all.
var ErrEmptySource = errors.New("empty source")

// ParseError is a syntax error at a 1-based line and column.
type ParseError struct {
	Chunk  string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Chunk == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	}

	return fmt.Sprintf("%s:%d:%d: %s", e.Chunk, e.Line, e.Column, e.Msg)
}

// LimitKind names the resource that was exhausted.
type LimitKind string

// Limits enforced while parsing.
const (
	LimitSize    LimitKind = "size"
	LimitTimeout LimitKind = "timeout"
	LimitDepth   LimitKind = "depth"
)

// ResourceLimitError reports oversized input, a parse that ran past its
// deadline, or nesting deeper than allowed. No partial tree is returned
// alongside it.
type ResourceLimitError struct {
	Chunk  string
	Limit  LimitKind
	Max    int64
	Actual int64
	Line   int // line reached when the limit tripped; 0 for size
}

func (e *ResourceLimitError) Error() string {
	switch e.Limit {
	case LimitSize:
		return fmt.Sprintf("%s: source is %d bytes, limit is %d", e.chunk(), e.Actual, e.Max)
	case LimitTimeout:
		return fmt.Sprintf("%s: parse exceeded %s (reached line %d)", e.chunk(), time.Duration(e.Max), e.Line)
	default:
		return fmt.Sprintf("%s:%d: nesting deeper than %d levels", e.chunk(), e.Line, e.Max)
	}
}

func (e *ResourceLimitError) chunk() string {
	if e.Chunk == "" {
		return "?"
	}

	return e.Chunk
}

// IOError wraps a failure to read a source file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// bailout is the panic value used to unwind the recursive descent parser.
type bailout struct{ err error }
