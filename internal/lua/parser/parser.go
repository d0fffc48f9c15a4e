// Package parser turns Lua 5.4 source text into the syntax trees declared by
// package ast. Parsing is bounded by input size, nesting depth and a wall
// clock deadline; on any failure no partial tree is returned.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/greggh/lust-next-sub011/internal/lua/ast"
	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

// Parse parses a whole chunk. chunkName is used in error messages only.
//
// Errors are *ParseError, *ResourceLimitError, *ast.ValidationError or
// ErrEmptySource; a non-nil error always comes with a nil chunk.
func Parse(src, chunkName string, opts ...Option) (chunk *ast.Chunk, err error) {
	cfg := newConfig(opts)

	if len(src) == 0 {
		return nil, ErrEmptySource
	}

	if len(src) > cfg.maxSize {
		return nil, &ResourceLimitError{
			Chunk:  chunkName,
			Limit:  LimitSize,
			Max:    int64(cfg.maxSize),
			Actual: int64(len(src)),
		}
	}

	p := &parser{
		lex:   newLexer(src, chunkName),
		cfg:   cfg,
		chunk: chunkName,
		start: cfg.now(),
		fn:    &funcState{vararg: true},
	}

	defer func() {
		if r := recover(); r != nil {
			chunk = nil

			if b, ok := r.(bailout); ok {
				err = b.err
				return
			}

			err = &ParseError{Chunk: chunkName, Line: p.tok.Pos.Line, Column: p.tok.Pos.Column, Msg: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	p.next()

	block := p.block()
	if p.tok.Kind != token.EOF {
		p.errorExpected(token.EOF)
	}

	chunk = &ast.Chunk{
		Name:     chunkName,
		Block:    block,
		Comments: p.lex.comments,
		LastLine: len(SplitLines(src)),
	}

	if err := ast.Validate(chunk, ast.WithInterrupt(p.cfg.checkEvery, p.deadline)); err != nil {
		return nil, err
	}

	return chunk, nil
}

// ReadFunc loads a file's contents.
type ReadFunc func(path string) ([]byte, error)

// ParseFile reads path through read and parses it. Read failures are
// reported as *IOError.
func ParseFile(read ReadFunc, path string, opts ...Option) (*ast.Chunk, error) {
	data, err := read(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	return Parse(string(data), path, opts...)
}

// SplitLines splits src into lines without their terminators. A trailing
// newline does not start an extra line. A leading byte order mark is dropped.
func SplitLines(src string) []string {
	src = strings.TrimPrefix(src, byteOrderMark)
	if src == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

type funcState struct {
	vararg bool
	loops  int
}

type parser struct {
	lex   *lexer
	cfg   config
	chunk string

	tok   token.Token
	ahead *token.Token

	depth    int
	descents int
	start    time.Time

	fn *funcState
}

// ----------------------------------------------------------------------------
// Token handling

func (p *parser) next() {
	if p.ahead != nil {
		p.tok = *p.ahead
		p.ahead = nil

		return
	}

	p.tok = p.lex.next()
}

func (p *parser) peekKind() token.Kind {
	if p.ahead == nil {
		t := p.lex.next()
		p.ahead = &t
	}

	return p.ahead.Kind
}

func (p *parser) accept(k token.Kind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}

	return false
}

func (p *parser) expect(k token.Kind) token.Pos {
	if p.tok.Kind != k {
		p.errorExpected(k)
	}

	pos := p.tok.Pos
	p.next()

	return pos
}

// expectMatch consumes the token closing a construct opened by who at open.
func (p *parser) expectMatch(what, who token.Kind, open token.Pos) token.Pos {
	if p.tok.Kind != what {
		if open.Line == p.tok.Pos.Line {
			p.errorExpected(what)
		}

		p.failf("'%s' expected (to close '%s' at line %d) near %s", what, who, open.Line, p.near())
	}

	pos := p.tok.Pos
	p.next()

	return pos
}

func (p *parser) name() *ast.NameExpr {
	if p.tok.Kind != token.NAME {
		p.failf("<name> expected near %s", p.near())
	}

	n := &ast.NameExpr{NamePos: p.tok.Pos, Name: p.tok.Lit}
	p.next()

	return n
}

func (p *parser) near() string {
	if p.tok.Kind == token.EOF {
		return "<eof>"
	}

	return "'" + p.tok.Raw + "'"
}

func (p *parser) errorExpected(k token.Kind) {
	what := k.String()
	if k == token.EOF {
		what = "<eof>"
	}

	p.failf("'%s' expected near %s", what, p.near())
}

func (p *parser) failf(format string, args ...any) {
	panic(bailout{err: &ParseError{
		Chunk:  p.chunk,
		Line:   p.tok.Pos.Line,
		Column: p.tok.Pos.Column,
		Msg:    fmt.Sprintf(format, args...),
	}})
}

// enter is called on every recursive descent. It enforces the depth limit
// and, every checkEvery descents, the deadline.
func (p *parser) enter() {
	p.depth++
	if p.depth > p.cfg.maxDepth {
		panic(bailout{err: &ResourceLimitError{
			Chunk:  p.chunk,
			Limit:  LimitDepth,
			Max:    int64(p.cfg.maxDepth),
			Actual: int64(p.depth),
			Line:   p.tok.Pos.Line,
		}})
	}

	p.tick()
}

// tick counts one unit of work and, every checkEvery units, checks the
// deadline.
func (p *parser) tick() {
	p.descents++
	if p.descents%p.cfg.checkEvery != 0 {
		return
	}

	if err := p.deadline(); err != nil {
		panic(bailout{err: err})
	}
}

// deadline returns a timeout ResourceLimitError once the parse has run
// longer than allowed. Validation of the finished tree shares it.
func (p *parser) deadline() error {
	elapsed := p.cfg.now().Sub(p.start)
	if elapsed <= p.cfg.timeout {
		return nil
	}

	return &ResourceLimitError{
		Chunk:  p.chunk,
		Limit:  LimitTimeout,
		Max:    int64(p.cfg.timeout),
		Actual: int64(elapsed),
		Line:   p.tok.Pos.Line,
	}
}

func (p *parser) leave() { p.depth-- }

// ----------------------------------------------------------------------------
// Blocks and statements

func blockFollow(k token.Kind, withUntil bool) bool {
	switch k {
	case token.ELSE, token.ELSEIF, token.END, token.EOF:
		return true
	case token.UNTIL:
		return withUntil
	default:
		return false
	}
}

func (p *parser) block() *ast.Block {
	p.enter()
	defer p.leave()

	b := &ast.Block{}

	for !blockFollow(p.tok.Kind, true) {
		if p.tok.Kind == token.RETURN {
			b.Stmts = append(b.Stmts, p.returnStmt())
			break
		}

		if s := p.statement(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}

	if len(b.Stmts) > 0 {
		b.Start = b.Stmts[0].Pos()
	} else {
		b.Start = p.tok.Pos
	}

	return b
}

//nolint:cyclop // one case per statement keyword
func (p *parser) statement() ast.Stmt {
	p.enter()
	defer p.leave()

	switch p.tok.Kind {
	case token.SEMICOLON:
		p.next()
		return nil
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.DO:
		pos := p.tok.Pos
		p.next()
		body := p.block()

		return &ast.DoStmt{Do: pos, Body: body, End: p.expectMatch(token.END, token.DO, pos)}
	case token.FOR:
		return p.forStmt()
	case token.REPEAT:
		return p.repeatStmt()
	case token.FUNCTION:
		return p.functionStmt()
	case token.LOCAL:
		return p.localStmt()
	case token.DBCOLON:
		pos := p.tok.Pos
		p.next()
		name := p.name()
		p.expect(token.DBCOLON)

		return &ast.LabelStmt{Colons: pos, Name: name.Name}
	case token.BREAK:
		if p.fn.loops == 0 {
			p.failf("break outside a loop at line %d near %s", p.tok.Pos.Line, p.near())
		}

		pos := p.tok.Pos
		p.next()

		return &ast.BreakStmt{Break: pos}
	case token.GOTO:
		pos := p.tok.Pos
		p.next()

		return &ast.GotoStmt{Goto: pos, Label: p.name().Name}
	default:
		return p.exprStmt()
	}
}

func (p *parser) ifStmt() *ast.IfStmt {
	open := p.tok.Pos
	s := &ast.IfStmt{}

	clause := func() {
		kw := p.tok.Pos
		p.next()
		cond := p.expr()
		p.expect(token.THEN)
		s.Clauses = append(s.Clauses, &ast.IfClause{Keyword: kw, Cond: cond, Body: p.block()})
	}

	clause()

	for p.tok.Kind == token.ELSEIF {
		clause()
	}

	if p.tok.Kind == token.ELSE {
		s.ElsePos = p.tok.Pos
		p.next()
		s.Else = p.block()
	}

	s.End = p.expectMatch(token.END, token.IF, open)

	return s
}

func (p *parser) loopBody() *ast.Block {
	p.fn.loops++
	defer func() { p.fn.loops-- }()

	return p.block()
}

func (p *parser) whileStmt() *ast.WhileStmt {
	pos := p.tok.Pos
	p.next()

	cond := p.expr()
	p.expect(token.DO)
	body := p.loopBody()

	return &ast.WhileStmt{While: pos, Cond: cond, Body: body, End: p.expectMatch(token.END, token.WHILE, pos)}
}

func (p *parser) repeatStmt() *ast.RepeatStmt {
	pos := p.tok.Pos
	p.next()

	body := p.loopBody()
	until := p.expectMatch(token.UNTIL, token.REPEAT, pos)

	return &ast.RepeatStmt{Repeat: pos, Body: body, Until: until, Cond: p.expr()}
}

func (p *parser) forStmt() ast.Stmt {
	pos := p.tok.Pos
	p.next()

	first := p.name()

	switch p.tok.Kind {
	case token.ASSIGN:
		p.next()

		s := &ast.NumericForStmt{For: pos, Var: first}
		s.Start = p.expr()
		p.expect(token.COMMA)
		s.Limit = p.expr()

		if p.accept(token.COMMA) {
			s.Step = p.expr()
		}

		p.expect(token.DO)
		s.Body = p.loopBody()
		s.End = p.expectMatch(token.END, token.FOR, pos)

		return s
	case token.COMMA, token.IN:
		s := &ast.GenericForStmt{For: pos, Names: []*ast.NameExpr{first}}
		for p.accept(token.COMMA) {
			s.Names = append(s.Names, p.name())
		}

		p.expect(token.IN)
		s.Exprs = p.exprList()
		p.expect(token.DO)
		s.Body = p.loopBody()
		s.End = p.expectMatch(token.END, token.FOR, pos)

		return s
	default:
		p.failf("'=' or 'in' expected near %s", p.near())
		return nil
	}
}

func (p *parser) functionStmt() *ast.FunctionStmt {
	pos := p.tok.Pos
	p.next()

	first := p.name()
	name := &ast.FuncName{Pos: first.NamePos, Parts: []string{first.Name}}

	for p.accept(token.DOT) {
		name.Parts = append(name.Parts, p.name().Name)
	}

	if p.accept(token.COLON) {
		name.Method = p.name().Name
	}

	return &ast.FunctionStmt{Function: pos, Name: name, Func: p.funcBody(name.Method != "", pos)}
}

func (p *parser) localStmt() ast.Stmt {
	pos := p.tok.Pos
	p.next()

	if p.tok.Kind == token.FUNCTION {
		fpos := p.tok.Pos
		p.next()
		name := p.name()

		return &ast.LocalFunctionStmt{Local: pos, Name: name, Func: p.funcBody(false, fpos)}
	}

	s := &ast.LocalStmt{Local: pos}
	closes := 0

	for {
		s.Names = append(s.Names, p.name())

		attrib := ""

		if p.accept(token.LT) {
			attrib = p.name().Name
			if attrib != "const" && attrib != "close" {
				p.failf("unknown attribute '%s'", attrib)
			}

			p.expect(token.GT)

			if attrib == "close" {
				closes++
				if closes > 1 {
					p.failf("multiple to-be-closed variables in local list")
				}
			}
		}

		s.Attribs = append(s.Attribs, attrib)

		if !p.accept(token.COMMA) {
			break
		}
	}

	if p.accept(token.ASSIGN) {
		s.Values = p.exprList()
	}

	return s
}

func (p *parser) returnStmt() *ast.ReturnStmt {
	s := &ast.ReturnStmt{Return: p.tok.Pos}
	p.next()

	if !blockFollow(p.tok.Kind, true) && p.tok.Kind != token.SEMICOLON {
		s.Values = p.exprList()
	}

	p.accept(token.SEMICOLON)

	return s
}

func (p *parser) exprStmt() ast.Stmt {
	e := p.suffixedExpr()

	if p.tok.Kind == token.ASSIGN || p.tok.Kind == token.COMMA {
		p.checkAssignable(e)

		targets := []ast.Expr{e}

		for p.accept(token.COMMA) {
			t := p.suffixedExpr()
			p.checkAssignable(t)
			targets = append(targets, t)
		}

		p.expect(token.ASSIGN)

		return &ast.AssignStmt{Targets: targets, Values: p.exprList()}
	}

	call, ok := e.(*ast.CallExpr)
	if !ok {
		p.failf("syntax error near %s", p.near())
	}

	return &ast.CallStmt{Call: call}
}

func (p *parser) checkAssignable(e ast.Expr) {
	switch e.(type) {
	case *ast.NameExpr, *ast.IndexExpr:
	default:
		p.failf("syntax error near %s", p.near())
	}
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) exprList() []ast.Expr {
	list := []ast.Expr{p.expr()}
	for p.accept(token.COMMA) {
		list = append(list, p.expr())
	}

	return list
}

func (p *parser) expr() ast.Expr { return p.subExpr(0) }

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

// subExpr parses an expression whose binary operators bind tighter than
// limit.
func (p *parser) subExpr(limit int) ast.Expr {
	p.enter()
	defer p.leave()

	var e ast.Expr

	if ast.IsUnaryOp(p.tok.Kind) {
		op, pos := p.tok.Kind, p.tok.Pos
		p.next()
		e = &ast.UnaryExpr{Op: op, OpPos: pos, Operand: p.subExpr(unaryPriority)}
	} else {
		e = p.simpleExpr()
	}

	for {
		op := p.tok.Kind

		prio, ok := binaryPriority[op]
		if !ok || prio.left <= limit {
			return e
		}

		pos := p.tok.Pos
		p.next()
		e = &ast.BinaryExpr{Start: e.Pos(), Op: op, OpPos: pos, Left: e, Right: p.subExpr(prio.right)}
	}
}

func (p *parser) simpleExpr() ast.Expr {
	tok := p.tok

	switch tok.Kind {
	case token.NUMBER:
		p.next()
		return &ast.NumberExpr{ValuePos: tok.Pos, Raw: tok.Lit}
	case token.STRING:
		p.next()
		return &ast.StringExpr{ValuePos: tok.Pos, Value: tok.Lit}
	case token.NIL:
		p.next()
		return &ast.NilExpr{ValuePos: tok.Pos}
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.BoolExpr{ValuePos: tok.Pos, Value: tok.Kind == token.TRUE}
	case token.ELLIPSIS:
		if !p.fn.vararg {
			p.failf("cannot use '...' outside a vararg function near '...'")
		}

		p.next()

		return &ast.VarargExpr{Ellipsis: tok.Pos}
	case token.LBRACE:
		return p.table()
	case token.FUNCTION:
		p.next()
		return p.funcBody(false, tok.Pos)
	default:
		return p.suffixedExpr()
	}
}

func (p *parser) primaryExpr() ast.Expr {
	switch p.tok.Kind {
	case token.NAME:
		return p.name()
	case token.LPAREN:
		pos := p.tok.Pos
		p.next()
		inner := p.expr()
		p.expectMatch(token.RPAREN, token.LPAREN, pos)

		return &ast.ParenExpr{Lparen: pos, Inner: inner}
	default:
		p.failf("unexpected symbol near %s", p.near())
		return nil
	}
}

func (p *parser) suffixedExpr() ast.Expr {
	p.enter()
	defer p.leave()

	e := p.primaryExpr()
	start := e.Pos()

	for {
		p.tick()

		switch p.tok.Kind {
		case token.DOT:
			p.next()
			n := p.name()
			e = &ast.IndexExpr{Start: start, Obj: e, Key: &ast.StringExpr{ValuePos: n.NamePos, Value: n.Name}, Dot: true}
		case token.LBRACK:
			p.next()
			key := p.expr()
			p.expect(token.RBRACK)
			e = &ast.IndexExpr{Start: start, Obj: e, Key: key}
		case token.COLON:
			p.next()
			method := p.name().Name
			args, style := p.callArgs()
			e = &ast.CallExpr{Start: start, Fn: e, Method: method, Args: args, Style: style}
		case token.LPAREN, token.STRING, token.LBRACE:
			args, style := p.callArgs()
			e = &ast.CallExpr{Start: start, Fn: e, Args: args, Style: style}
		default:
			return e
		}
	}
}

func (p *parser) callArgs() ([]ast.Expr, ast.ArgStyle) {
	switch p.tok.Kind {
	case token.STRING:
		s := &ast.StringExpr{ValuePos: p.tok.Pos, Value: p.tok.Lit}
		p.next()

		return []ast.Expr{s}, ast.ArgsString
	case token.LBRACE:
		return []ast.Expr{p.table()}, ast.ArgsTable
	case token.LPAREN:
		pos := p.tok.Pos
		p.next()

		var args []ast.Expr
		if p.tok.Kind != token.RPAREN {
			args = p.exprList()
		}

		p.expectMatch(token.RPAREN, token.LPAREN, pos)

		return args, ast.ArgsParen
	default:
		p.failf("function arguments expected near %s", p.near())
		return nil, ast.ArgsParen
	}
}

func (p *parser) table() *ast.TableExpr {
	t := &ast.TableExpr{Lbrace: p.expect(token.LBRACE)}

	for p.tok.Kind != token.RBRACE {
		t.Fields = append(t.Fields, p.field())

		if !p.accept(token.COMMA) && !p.accept(token.SEMICOLON) {
			break
		}
	}

	t.Rbrace = p.expectMatch(token.RBRACE, token.LBRACE, t.Lbrace)

	return t
}

func (p *parser) field() *ast.TableField {
	pos := p.tok.Pos

	switch {
	case p.tok.Kind == token.NAME && p.peekKind() == token.ASSIGN:
		name := p.tok.Lit
		p.next()
		p.next()

		return &ast.TableField{FieldPos: pos, Type: ast.FieldNamed, Name: name, Value: p.expr()}
	case p.tok.Kind == token.LBRACK:
		p.next()
		key := p.expr()
		p.expect(token.RBRACK)
		p.expect(token.ASSIGN)

		return &ast.TableField{FieldPos: pos, Type: ast.FieldKeyed, Key: key, Value: p.expr()}
	default:
		return &ast.TableField{FieldPos: pos, Type: ast.FieldPositional, Value: p.expr()}
	}
}

// funcBody parses "(params) block end"; open is the position of the
// function keyword.
func (p *parser) funcBody(isMethod bool, open token.Pos) *ast.FunctionExpr {
	outer := p.fn
	p.fn = &funcState{}

	defer func() { p.fn = outer }()

	f := &ast.FunctionExpr{Function: open, IsMethod: isMethod}

	p.expect(token.LPAREN)

	if p.tok.Kind != token.RPAREN {
		for {
			if p.tok.Kind == token.ELLIPSIS {
				p.next()

				f.IsVararg = true

				break
			}

			if p.tok.Kind != token.NAME {
				p.failf("<name> expected near %s", p.near())
			}

			f.Params = append(f.Params, p.name())

			if !p.accept(token.COMMA) {
				break
			}
		}
	}

	p.expect(token.RPAREN)

	p.fn.vararg = f.IsVararg
	f.Body = p.block()
	f.End = p.expectMatch(token.END, token.FUNCTION, open)

	return f
}
