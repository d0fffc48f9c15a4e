package ast

import (
	"fmt"

	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

// ValidationError describes a structurally malformed tree.
type ValidationError struct {
	Pos  token.Pos
	Node NodeKind
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s node at %s: %s", e.Node, e.Pos, e.Msg)
}

var binaryOps = map[token.Kind]bool{
	token.OR: true, token.AND: true,
	token.LT: true, token.GT: true, token.LE: true, token.GE: true, token.NE: true, token.EQ: true,
	token.BOR: true, token.BXOR: true, token.BAND: true, token.SHL: true, token.SHR: true,
	token.CONCAT: true, token.ADD: true, token.SUB: true,
	token.MUL: true, token.DIV: true, token.IDIV: true, token.MOD: true, token.POW: true,
}

var unaryOps = map[token.Kind]bool{
	token.NOT: true, token.SUB: true, token.LEN: true, token.BXOR: true,
}

// IsBinaryOp reports whether k is a binary operator token.
func IsBinaryOp(k token.Kind) bool { return binaryOps[k] }

// IsUnaryOp reports whether k is a unary operator token.
func IsUnaryOp(k token.Kind) bool { return unaryOps[k] }

// ValidateOption configures Validate.
type ValidateOption func(*validator)

// WithInterrupt makes Validate call check after every n visited nodes and
// stop with the error check returns, if any.
func WithInterrupt(n int, check func() error) ValidateOption {
	return func(v *validator) {
		if n > 0 && check != nil {
			v.every, v.interrupt = n, check
		}
	}
}

// Validate checks that the tree rooted at root is well formed: every node
// has a recognized kind, required children are present, no node is
// referenced twice and sibling line numbers never decrease in document
// order. It is run after parsing and after any programmatic mutation.
func Validate(root Node, opts ...ValidateOption) error {
	if isNil(root) {
		return &ValidationError{Msg: "nil root"}
	}

	v := &validator{seen: make(map[Node]struct{})}
	for _, opt := range opts {
		opt(v)
	}

	return v.check(root)
}

type validator struct {
	seen      map[Node]struct{}
	visited   int
	every     int
	interrupt func() error
}

func (v *validator) check(n Node) error {
	v.visited++
	if v.interrupt != nil && v.visited%v.every == 0 {
		if err := v.interrupt(); err != nil {
			return err
		}
	}

	kind := n.Kind()
	if !kind.Known() {
		return &ValidationError{Pos: n.Pos(), Node: kind, Msg: fmt.Sprintf("unrecognized node type %T", n)}
	}

	if _, dup := v.seen[n]; dup {
		return &ValidationError{Pos: n.Pos(), Node: kind, Msg: "node referenced more than once"}
	}

	v.seen[n] = struct{}{}

	if _, ok := n.(Stmt); ok && !n.Pos().IsValid() {
		return &ValidationError{Node: kind, Msg: "statement without source position"}
	}

	if err := checkShape(n); err != nil {
		return err
	}

	prevLine := 0

	for i, child := range Children(n) {
		if child == nil {
			return &ValidationError{Pos: n.Pos(), Node: kind, Msg: fmt.Sprintf("missing child #%d", i)}
		}

		if p := child.Pos(); p.IsValid() {
			if p.Line < prevLine {
				return &ValidationError{
					Pos:  p,
					Node: child.Kind(),
					Msg:  fmt.Sprintf("line %d precedes previous sibling at line %d", p.Line, prevLine),
				}
			}

			prevLine = p.Line
		}

		if err := v.check(child); err != nil {
			return err
		}
	}

	return nil
}

//nolint:cyclop // one case per node kind
func checkShape(n Node) error {
	bad := func(msg string) error {
		return &ValidationError{Pos: n.Pos(), Node: n.Kind(), Msg: msg}
	}

	switch n := n.(type) {
	case *LocalStmt:
		if len(n.Names) == 0 {
			return bad("local statement without names")
		}

		if n.Attribs != nil && len(n.Attribs) != len(n.Names) {
			return bad("attribute list does not match names")
		}
	case *AssignStmt:
		if len(n.Targets) == 0 || len(n.Values) == 0 {
			return bad("assignment needs targets and values")
		}

		for _, t := range n.Targets {
			if isNil(t) {
				continue
			}

			switch t.(type) {
			case *NameExpr, *IndexExpr:
			default:
				return bad(fmt.Sprintf("cannot assign to %s", t.Kind()))
			}
		}
	case *IfStmt:
		if len(n.Clauses) == 0 {
			return bad("if statement without clauses")
		}
	case *GenericForStmt:
		if len(n.Names) == 0 || len(n.Exprs) == 0 {
			return bad("generic for needs names and expressions")
		}
	case *FunctionStmt:
		if n.Name == nil || len(n.Name.Parts) == 0 {
			return bad("function statement without name")
		}
	case *TableField:
		switch n.Type {
		case FieldPositional, FieldKeyed:
		case FieldNamed:
			if n.Name == "" {
				return bad("named field without name")
			}
		default:
			return bad(fmt.Sprintf("unknown field form %d", n.Type))
		}
	case *BinaryExpr:
		if !IsBinaryOp(n.Op) {
			return bad(fmt.Sprintf("%s is not a binary operator", n.Op))
		}
	case *UnaryExpr:
		if !IsUnaryOp(n.Op) {
			return bad(fmt.Sprintf("%s is not a unary operator", n.Op))
		}
	case *IndexExpr:
		if n.Dot {
			if _, ok := n.Key.(*StringExpr); !ok {
				return bad("dot index key must be a string")
			}
		}
	case *NameExpr:
		if n.Name == "" {
			return bad("empty identifier")
		}
	}

	return nil
}
