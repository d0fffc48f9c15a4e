package model

import (
	"errors"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/parser"
)

// Error kinds reported for excluded files.
const (
	ErrKindSyntax        = "syntax"
	ErrKindResourceLimit = "resource_limit"
	ErrKindValidation    = "validation"
	ErrKindIO            = "io"
	ErrKindOther         = "other"
)

// ErrorKind classifies an analysis failure. Size and timeout failures share
// a kind with depth failures; the limit itself is in the error text.
func ErrorKind(err error) string {
	var (
		pe *parser.ParseError
		rl *parser.ResourceLimitError
		ve *ast.ValidationError
		ie *parser.IOError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &rl):
		return ErrKindResourceLimit
	case errors.As(err, &pe), errors.Is(err, parser.ErrEmptySource):
		return ErrKindSyntax
	case errors.As(err, &ve):
		return ErrKindValidation
	case errors.As(err, &ie):
		return ErrKindIO
	default:
		return ErrKindOther
	}
}
