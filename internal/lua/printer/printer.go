// Package printer renders Lua syntax trees back to source text.
//
// The output is canonical rather than faithful: comments and original
// layout are dropped, every statement sits on its own line and
// parentheses are only added where operator precedence requires them.
// Parsing the output of a parsed tree yields the same tree shape.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

// Config controls the output layout.
type Config struct {
	Indent string // per nesting level; two spaces when empty
}

// Fprint writes node to w using the default configuration.
func Fprint(w io.Writer, node ast.Node) error {
	return (&Config{}).Fprint(w, node)
}

// Print returns the canonical source of node.
func Print(node ast.Node) string {
	var b strings.Builder

	_ = Fprint(&b, node)

	return b.String()
}

// Fprint writes node to w.
func (c *Config) Fprint(w io.Writer, node ast.Node) error {
	p := &printer{indent: c.Indent}
	if p.indent == "" {
		p.indent = "  "
	}

	switch n := node.(type) {
	case *ast.Chunk:
		if n.Block != nil {
			p.block(n.Block)
		}
	case *ast.Block:
		p.block(n)
	case ast.Stmt:
		p.stmt(n)
	case ast.Expr:
		p.expr(n)
	default:
		return fmt.Errorf("printer: unsupported node %T", node)
	}

	_, err := io.WriteString(w, p.b.String())

	return err
}

type printer struct {
	b      strings.Builder
	indent string
	level  int
}

func (p *printer) write(s string) { p.b.WriteString(s) }

func (p *printer) line(s string) {
	p.b.WriteString(strings.Repeat(p.indent, p.level))
	p.b.WriteString(s)
}

func (p *printer) block(b *ast.Block) {
	for _, s := range b.Stmts {
		p.line("")

		if startsWithParen(s) {
			p.write(";")
		}

		p.stmt(s)
		p.write("\n")
	}
}

// body prints a nested block followed by the closing keyword line.
func (p *printer) body(b *ast.Block, closing string) {
	p.write("\n")
	p.level++

	if b != nil {
		p.block(b)
	}

	p.level--
	p.line(closing)
}

//nolint:cyclop // one case per statement kind
func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LocalStmt:
		p.write("local ")

		for i, n := range s.Names {
			if i > 0 {
				p.write(", ")
			}

			p.write(n.Name)

			if i < len(s.Attribs) && s.Attribs[i] != "" {
				p.write(" <" + s.Attribs[i] + ">")
			}
		}

		if len(s.Values) > 0 {
			p.write(" = ")
			p.exprList(s.Values)
		}
	case *ast.AssignStmt:
		p.exprList(s.Targets)
		p.write(" = ")
		p.exprList(s.Values)
	case *ast.CallStmt:
		p.expr(s.Call)
	case *ast.DoStmt:
		p.write("do")
		p.body(s.Body, "end")
	case *ast.WhileStmt:
		p.write("while ")
		p.expr(s.Cond)
		p.write(" do")
		p.body(s.Body, "end")
	case *ast.RepeatStmt:
		p.write("repeat")
		p.body(s.Body, "until ")
		p.expr(s.Cond)
	case *ast.IfStmt:
		for i, c := range s.Clauses {
			if i == 0 {
				p.write("if ")
			} else {
				p.line("elseif ")
			}

			p.expr(c.Cond)
			p.write(" then\n")
			p.level++
			p.block(c.Body)
			p.level--
		}

		if s.Else != nil {
			p.line("else\n")
			p.level++
			p.block(s.Else)
			p.level--
		}

		p.line("end")
	case *ast.NumericForStmt:
		p.write("for " + s.Var.Name + " = ")
		p.expr(s.Start)
		p.write(", ")
		p.expr(s.Limit)

		if s.Step != nil {
			p.write(", ")
			p.expr(s.Step)
		}

		p.write(" do")
		p.body(s.Body, "end")
	case *ast.GenericForStmt:
		p.write("for ")

		for i, n := range s.Names {
			if i > 0 {
				p.write(", ")
			}

			p.write(n.Name)
		}

		p.write(" in ")
		p.exprList(s.Exprs)
		p.write(" do")
		p.body(s.Body, "end")
	case *ast.FunctionStmt:
		p.write("function " + s.Name.String())
		p.funcBody(s.Func)
	case *ast.LocalFunctionStmt:
		p.write("local function " + s.Name.Name)
		p.funcBody(s.Func)
	case *ast.ReturnStmt:
		p.write("return")

		if len(s.Values) > 0 {
			p.write(" ")
			p.exprList(s.Values)
		}
	case *ast.BreakStmt:
		p.write("break")
	case *ast.GotoStmt:
		p.write("goto " + s.Label)
	case *ast.LabelStmt:
		p.write("::" + s.Name + "::")
	}
}

func (p *printer) funcBody(f *ast.FunctionExpr) {
	p.write("(")

	for i, n := range f.Params {
		if i > 0 {
			p.write(", ")
		}

		p.write(n.Name)
	}

	if f.IsVararg {
		if len(f.Params) > 0 {
			p.write(", ")
		}

		p.write("...")
	}

	p.write(")")
	p.body(f.Body, "end")
}

func (p *printer) exprList(list []ast.Expr) {
	for i, e := range list {
		if i > 0 {
			p.write(", ")
		}

		p.expr(e)
	}
}

//nolint:cyclop // one case per expression kind
func (p *printer) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.NilExpr:
		p.write("nil")
	case *ast.BoolExpr:
		if e.Value {
			p.write("true")
		} else {
			p.write("false")
		}
	case *ast.NumberExpr:
		p.write(e.Raw)
	case *ast.StringExpr:
		p.write(Quote(e.Value))
	case *ast.VarargExpr:
		p.write("...")
	case *ast.FunctionExpr:
		p.write("function")
		p.funcBody(e)
	case *ast.TableExpr:
		p.table(e)
	case *ast.BinaryExpr:
		p.binary(e)
	case *ast.UnaryExpr:
		p.unary(e)
	case *ast.NameExpr:
		p.write(e.Name)
	case *ast.IndexExpr:
		p.prefix(e.Obj)

		if s, ok := e.Key.(*ast.StringExpr); ok && e.Dot && IsIdent(s.Value) {
			p.write("." + s.Value)
			return
		}

		p.write("[")
		p.expr(e.Key)
		p.write("]")
	case *ast.CallExpr:
		p.prefix(e.Fn)

		if e.Method != "" {
			p.write(":" + e.Method)
		}

		p.args(e)
	case *ast.ParenExpr:
		p.write("(")
		p.expr(e.Inner)
		p.write(")")
	}
}

// prefix prints the object of an index or call, which the grammar requires
// to be a name, index, call or parenthesized expression.
func (p *printer) prefix(e ast.Expr) {
	switch e.(type) {
	case *ast.NameExpr, *ast.IndexExpr, *ast.CallExpr, *ast.ParenExpr:
		p.expr(e)
	default:
		p.write("(")
		p.expr(e)
		p.write(")")
	}
}

func (p *printer) args(c *ast.CallExpr) {
	switch {
	case c.Style == ast.ArgsString && len(c.Args) == 1:
		if s, ok := c.Args[0].(*ast.StringExpr); ok {
			p.write(" " + Quote(s.Value))
			return
		}
	case c.Style == ast.ArgsTable && len(c.Args) == 1:
		if t, ok := c.Args[0].(*ast.TableExpr); ok {
			p.write(" ")
			p.table(t)

			return
		}
	}

	p.write("(")
	p.exprList(c.Args)
	p.write(")")
}

func (p *printer) table(t *ast.TableExpr) {
	p.write("{")

	for i, f := range t.Fields {
		if i > 0 {
			p.write(", ")
		}

		switch f.Type {
		case ast.FieldNamed:
			if IsIdent(f.Name) {
				p.write(f.Name + " = ")
			} else {
				p.write("[" + Quote(f.Name) + "] = ")
			}
		case ast.FieldKeyed:
			p.write("[")
			p.expr(f.Key)
			p.write("] = ")
		}

		p.expr(f.Value)
	}

	p.write("}")
}

type priority struct{ left, right int }

var binaryPriority = map[token.Kind]priority{
	token.OR:  {1, 1},
	token.AND: {2, 2},
	token.LT:  {3, 3}, token.GT: {3, 3}, token.LE: {3, 3}, token.GE: {3, 3}, token.NE: {3, 3}, token.EQ: {3, 3},
	token.BOR:    {4, 4},
	token.BXOR:   {5, 5},
	token.BAND:   {6, 6},
	token.SHL:    {7, 7}, token.SHR: {7, 7},
	token.CONCAT: {9, 8},
	token.ADD:    {10, 10}, token.SUB: {10, 10},
	token.MUL: {11, 11}, token.DIV: {11, 11}, token.IDIV: {11, 11}, token.MOD: {11, 11},
	token.POW: {14, 13},
}

const unaryPriority = 12

func (p *printer) binary(e *ast.BinaryExpr) {
	prio := binaryPriority[e.Op]

	leftParens := false

	switch l := e.Left.(type) {
	case *ast.BinaryExpr:
		leftParens = prio.left > binaryPriority[l.Op].right
	case *ast.UnaryExpr:
		leftParens = prio.left > unaryPriority
	}

	rightParens := false
	if r, ok := e.Right.(*ast.BinaryExpr); ok {
		rightParens = binaryPriority[r.Op].left <= prio.right
	}

	p.operand(e.Left, leftParens)
	p.write(" " + e.Op.String() + " ")
	p.operand(e.Right, rightParens)
}

func (p *printer) unary(e *ast.UnaryExpr) {
	parens := false
	if b, ok := e.Operand.(*ast.BinaryExpr); ok {
		parens = binaryPriority[b.Op].left <= unaryPriority
	}

	var sub printer

	sub.indent, sub.level = p.indent, p.level
	sub.operand(e.Operand, parens)
	operand := sub.b.String()

	switch {
	case e.Op == token.NOT:
		p.write("not ")
	case e.Op == token.SUB && strings.HasPrefix(operand, "-"):
		// keep "- -x" from reading as a comment
		p.write(e.Op.String() + " ")
	default:
		p.write(e.Op.String())
	}

	p.write(operand)
}

func (p *printer) operand(e ast.Expr, parens bool) {
	if parens {
		p.write("(")
	}

	p.expr(e)

	if parens {
		p.write(")")
	}
}

// startsWithParen reports whether the printed statement would begin with
// "(", which Lua would otherwise read as a call on the previous line.
func startsWithParen(s ast.Stmt) bool {
	var e ast.Expr

	switch s := s.(type) {
	case *ast.CallStmt:
		e = s.Call
	case *ast.AssignStmt:
		if len(s.Targets) > 0 {
			e = s.Targets[0]
		}
	default:
		return false
	}

	for {
		switch x := e.(type) {
		case *ast.ParenExpr:
			return true
		case *ast.CallExpr:
			e = x.Fn
		case *ast.IndexExpr:
			e = x.Obj
		case *ast.NameExpr:
			return false
		default:
			// non-prefix objects are wrapped in parentheses by prefix
			return e != nil
		}
	}
}

// IsIdent reports whether s is a Lua identifier and not a reserved word.
func IsIdent(s string) bool {
	if s == "" || token.Lookup(s) != token.NAME {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			continue
		}

		return false
	}

	return true
}

// Quote renders s as a double-quoted Lua string literal that decodes back
// to exactly the same bytes.
func Quote(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
				continue
			}

			b.WriteByte(c)
		}
	}

	b.WriteByte('"')

	return b.String()
}
